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
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quill-zk/quill/pkg/asg"
	"github.com/quill-zk/quill/pkg/binfile"
	"github.com/quill-zk/quill/pkg/synth"
	"github.com/quill-zk/quill/pkg/util/source"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// GetFlag gets an expected flag, or panic if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// GetUint gets an expected unsigned integer flag, or panic if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// GetString gets an expected string flag, or panic if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// readProgramFile reads and decodes a serialised program, resolving its
// imports against sibling files in the same directory.
func readProgramFile(filename string) (*source.File, *asg.Program) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		fmt.Println(err)
		os.Exit(3)
	}
	//
	program, err := binfile.ProgramFromJSON(bytes)
	if err != nil {
		fmt.Println(err)
		os.Exit(3)
	}
	//
	srcfile := source.NewSourceFile(filename, bytes)
	loader := binfile.NewDirectoryLoader(filepath.Dir(filename))
	// Construct semantic graph
	resolved, errSyntax := asg.BuildProgram(srcfile, program, loader)
	if errSyntax != nil {
		printSyntaxError(errSyntax)
		os.Exit(4)
	}
	//
	return srcfile, resolved
}

// readInputsFile reads and decodes an input file, unless no filename was
// given in which case all sections are empty.
func readInputsFile(filename string) *synth.Inputs {
	if filename == "" {
		return &synth.Inputs{}
	}
	//
	bytes, err := os.ReadFile(filename)
	if err != nil {
		fmt.Println(err)
		os.Exit(3)
	}
	//
	inputs, err := binfile.InputsFromJSON(bytes)
	if err != nil {
		fmt.Println(err)
		os.Exit(3)
	}
	//
	return inputs
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(err *source.SyntaxError) {
	span := err.Span()
	line := err.FirstEnclosingLine()
	lineOffset := span.Start() - line.Start()
	// Calculate length (ensures don't overflow line)
	length := min(line.Length()-lineOffset, span.Length())
	// Print error + line number
	fmt.Printf("%s:%d:%d-%d %s\n", err.SourceFile().Filename(),
		line.Number(), 1+lineOffset, 1+lineOffset+length, err.Message())
	// Skip highlighting when not writing to a terminal (e.g. piped output).
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}
	// Print separator line
	fmt.Println()
	// Print line
	fmt.Println(line.String())
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", lineOffset))
	// Print highlight
	fmt.Println(strings.Repeat("^", max(length, 1)))
}
