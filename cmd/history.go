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
	"fmt"
	"github.com/packagewjx/tensorprep/internal/store"
	"github.com/packagewjx/tensorprep/internal/utils"
	"github.com/spf13/cobra"
	"io"
	"text/tabwriter"
	"time"
)

const (
	FlagLimit     = "limit"
	FlagOlderThan = "older-than"
)

const DefaultRetention = 30 * 24 * time.Hour

var (
	historyLimit int
	olderThan    time.Duration
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history [identifier]",
	Short: "Print saved run records",
	Long:  "Print the run records of identifier, newest first. Without identifier the latest records are printed.\n",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dao, err := openDao()
		if err != nil {
			return err
		}

		var records []*store.RunRecord
		if len(args) == 1 {
			records, err = dao.QueryRunRecordsByIdentifier(args[0])
		} else {
			records, err = dao.QueryRecentRunRecords(historyLimit)
		}
		if err != nil {
			return err
		}

		return printRecords(cmd.OutOrStdout(), records)
	},
}

// pruneCmd represents the prune command
var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete run records older than a duration",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if olderThan <= 0 {
			return fmt.Errorf("%s must be positive, got %v", FlagOlderThan, olderThan)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		dao, err := openDao()
		if err != nil {
			return err
		}
		return dao.RemoveRunRecordsBefore(time.Now().Add(-olderThan))
	},
}

func printRecords(out io.Writer, records []*store.RunRecord) error {
	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "TIME\tIDENTIFIER\tPIPELINE\tSHAPE\tDTYPE\tMEAN\tSTD\tMIN\tMAX\tMEDIAN\tELAPSED")
	for _, r := range records {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%v\n",
			r.CreatedAt.Format(time.RFC3339), r.Identifier, r.Pipeline, utils.FormatShape(r.Shape), r.DType,
			r.Mean, r.Std, r.Min, r.Max, r.Median, r.Elapsed)
	}
	return writer.Flush()
}

func init() {
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(pruneCmd)

	historyCmd.Flags().IntVarP(&historyLimit, FlagLimit, "n", 20,
		"number of records printed when no identifier is given")
	pruneCmd.Flags().DurationVar(&olderThan, FlagOlderThan, DefaultRetention,
		"age of the oldest record kept")
}
