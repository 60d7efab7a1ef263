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
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/quill-zk/quill/pkg/ast"
	"github.com/quill-zk/quill/pkg/synth"
	"github.com/quill-zk/quill/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Binfile_Program_01(t *testing.T) {
	data := `{
		"name": "adder",
		"functions": [{
			"name": "main",
			"parameters": [
				{"name": "a", "type": {"primitive": "u8", "span": [0, 2]}, "public": true, "span": [0, 4]},
				{"name": "b", "type": {"primitive": "u8", "span": [5, 7]}, "span": [5, 9]}
			],
			"return": {"primitive": "u8", "span": [10, 12]},
			"body": [{
				"return": {"value": {
					"binary": {
						"op": "+",
						"left": {"var": "a", "span": [20, 21]},
						"right": {"var": "b", "span": [24, 25]}
					},
					"span": [20, 25]
				}},
				"span": [13, 26]
			}],
			"span": [0, 30]
		}]
	}`
	//
	program, err := ProgramFromJSON([]byte(data))
	require.NoError(t, err)
	//
	assert.Equal(t, "adder", program.Name)
	require.Len(t, program.Functions, 1)
	//
	main := program.Functions[0]
	assert.Equal(t, "main", main.Name)
	require.Len(t, main.Parameters, 2)
	assert.Equal(t, ast.Public, main.Parameters[0].Visibility)
	assert.Equal(t, ast.Private, main.Parameters[1].Visibility)
	//
	require.Len(t, main.Body.Statements, 1)
	//
	stmt, ok := main.Body.Statements[0].(*ast.Return)
	require.True(t, ok)
	//
	binary, ok := stmt.Value.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.Add, binary.Op)
}

func Test_Binfile_Program_02(t *testing.T) {
	// A literal with a suffix, inside a let with a declared type
	data := `{
		"name": "lits",
		"functions": [{
			"name": "main",
			"body": [{
				"let": {
					"mutable": true,
					"name": "x",
					"type": {"primitive": "i128", "span": [0, 4]},
					"value": {"int": {"value": "-5", "suffix": "i128"}, "span": [5, 11]}
				},
				"span": [0, 12]
			}],
			"span": [0, 12]
		}]
	}`
	//
	program, err := ProgramFromJSON([]byte(data))
	require.NoError(t, err)
	//
	stmt, ok := program.Functions[0].Body.Statements[0].(*ast.Definition)
	require.True(t, ok)
	assert.True(t, stmt.Mutable)
	//
	literal, ok := stmt.Value.(*ast.IntLiteral)
	require.True(t, ok)
	assert.Equal(t, big.NewInt(-5), literal.Value)
	require.NotNil(t, literal.Suffix)
	assert.Equal(t, uint(128), literal.Suffix.Width)
	assert.True(t, literal.Suffix.Signed)
}

func Test_Binfile_Program_03(t *testing.T) {
	// Unknown primitive types are rejected
	data := `{
		"name": "bad",
		"functions": [{
			"name": "main",
			"parameters": [{"name": "a", "type": {"primitive": "u7", "span": [0, 2]}, "span": [0, 4]}],
			"body": [],
			"span": [0, 5]
		}]
	}`
	//
	_, err := ProgramFromJSON([]byte(data))
	assert.Error(t, err)
}

func Test_Binfile_Program_04(t *testing.T) {
	// An import cannot be both starred and selective
	data := `{
		"name": "bad",
		"imports": [{
			"path": "core/lib",
			"star": true,
			"symbols": [{"name": "f", "span": [0, 1]}],
			"span": [0, 10]
		}]
	}`
	//
	_, err := ProgramFromJSON([]byte(data))
	assert.Error(t, err)
}

func Test_Binfile_Inputs_01(t *testing.T) {
	data := `{
		"public": {"a": {"int": "3"}},
		"private": {
			"b": {"bool": true},
			"c": {"list": [{"int": "1"}, {"int": "2"}]},
			"d": {"group": {"x": "0", "y": "1"}}
		}
	}`
	//
	inputs, err := InputsFromJSON([]byte(data))
	require.NoError(t, err)
	//
	a, ok := inputs.Public["a"].(synth.IntInput)
	require.True(t, ok)
	assert.Equal(t, big.NewInt(3), a.Value)
	//
	b, ok := inputs.Private["b"].(synth.BoolInput)
	require.True(t, ok)
	assert.True(t, bool(b))
	//
	c, ok := inputs.Private["c"].(synth.ListInput)
	require.True(t, ok)
	assert.Len(t, c, 2)
	//
	d, ok := inputs.Private["d"].(synth.GroupInput)
	require.True(t, ok)
	assert.Equal(t, big.NewInt(0), d.X)
	assert.Equal(t, big.NewInt(1), d.Y)
}

func Test_Binfile_Inputs_02(t *testing.T) {
	// Malformed integers are rejected with the offending input named
	data := `{"public": {"a": {"int": "12x"}}}`
	//
	_, err := InputsFromJSON([]byte(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "\"a\"")
}

func Test_Binfile_Loader_01(t *testing.T) {
	dir := t.TempDir()
	//
	data := `{"name": "lib", "functions": [{"name": "helper", "body": [], "span": [0, 1]}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.json"), []byte(data), 0600))
	//
	loader := NewDirectoryLoader(dir)
	//
	srcfile, program, err := loader.Load(util.ParsePath("lib"))
	require.NoError(t, err)
	assert.Equal(t, "lib", program.Name)
	assert.NotNil(t, srcfile)
	//
	_, _, err = loader.Load(util.ParsePath("missing"))
	assert.Error(t, err)
}
