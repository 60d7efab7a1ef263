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

	"github.com/quill-zk/quill/pkg/ast"
	"github.com/quill-zk/quill/pkg/synth"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build [flags] program_file",
	Short: "Synthesise a program into a rank-1 constraint system.",
	Long: `Synthesise the main function of a given program into a rank-1
	constraint system, binding its parameters to concrete values taken from
	the input file.  The witness is evaluated during synthesis, so console
	output is rendered and the resulting system checked for satisfaction.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		ceiling := GetUint(cmd, "max-constraints")
		inputs := readInputsFile(GetString(cmd, "inputs"))
		// Parse and resolve the program
		srcfile, program := readProgramFile(args[0])
		// Synthesise constraints against the given inputs
		result, errSyntax := synth.Build(srcfile, program, inputs, ceiling)
		if errSyntax != nil {
			printSyntaxError(errSyntax)
			os.Exit(4)
		}
		// Render console output
		for _, line := range result.Trace.Lines {
			if line.Kind == ast.ConsoleDebug && !GetFlag(cmd, "verbose") {
				continue
			}
			//
			fmt.Printf("[%s] %s\n", line.Kind, line.Message)
		}
		//
		sys := result.System
		//
		fmt.Printf("synthesised %d wires, %d constraints\n",
			sys.NumWires(), sys.NumConstraints())
		//
		for _, input := range sys.PublicInputs() {
			fmt.Printf("public %s = %s\n", input.Name, input.Value.String())
		}
		// Check the witness satisfies every constraint
		if err := sys.Verify(); err != nil {
			fmt.Println(err)
			os.Exit(5)
		}
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	//
	buildCmd.Flags().Uint("max-constraints", 0,
		"limit wires plus constraints (0 for the default ceiling)")
	buildCmd.Flags().String("inputs", "", "input file giving concrete parameter values")
}
