// Copyright Quill Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package binfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/quill-zk/quill/pkg/ast"
	"github.com/quill-zk/quill/pkg/util"
	"github.com/quill-zk/quill/pkg/util/source"
)

// DirectoryLoader resolves package paths against a directory tree, mapping
// the path "a/b/c" to the file "<root>/a/b/c.json".
type DirectoryLoader struct {
	root string
}

// NewDirectoryLoader constructs a loader rooted at a given directory.
func NewDirectoryLoader(root string) *DirectoryLoader {
	return &DirectoryLoader{root}
}

// Load locates and parses the package identified by a given path.
func (p *DirectoryLoader) Load(path util.Path) (*source.File, *ast.Program, error) {
	segments := make([]string, 0, path.Depth()+1)
	segments = append(segments, p.root)
	//
	for i := uint(0); i < path.Depth(); i++ {
		segments = append(segments, path.Get(i))
	}
	//
	filename := filepath.Join(segments...) + ".json"
	//
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("package \"%s\" not found: %w", path.String(), err)
	}
	//
	program, err := ProgramFromJSON(bytes)
	if err != nil {
		return nil, nil, fmt.Errorf("package \"%s\": %w", path.String(), err)
	}
	//
	return source.NewSourceFile(filename, bytes), program, nil
}
