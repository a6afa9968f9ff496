/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"github.com/packagewjx/tensorprep/internal/drawer"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"os"
)

// describeCmd represents the describe command
var describeCmd = &cobra.Command{
	Use:   "describe [outFile]",
	Short: "Write the configured pipeline as a Graphviz DOT graph",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pipeline, err := loadPipeline()
		if err != nil {
			return err
		}

		if len(args) == 0 {
			return drawer.Draw(pipeline, cmd.OutOrStdout())
		}

		fout, err := os.Create(args[0])
		if err != nil {
			return errors.Wrap(err, "creating output file")
		}
		if err := drawer.Draw(pipeline, fout); err != nil {
			_ = fout.Close()
			return err
		}
		return fout.Close()
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
