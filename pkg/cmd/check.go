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

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [flags] program_file",
	Short: "Check a given program for semantic errors.",
	Long: `Check a given program for semantic errors (unresolved names, type
	mismatches, missing returns, etc) without synthesising any constraints.
	Programs are given as JSON syntax trees; imports resolve against sibling
	files in the same directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		// Parse and resolve the program
		_, program := readProgramFile(args[0])
		//
		fmt.Printf("checked \"%s\" (%d circuits, %d functions)\n",
			program.Name, len(program.Circuits), len(program.Functions))
		//
		if program.Main.IsEmpty() {
			fmt.Println("warning: program declares no main function")
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
