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
	"context"
	"fmt"
	"github.com/packagewjx/tensorprep/internal/batch"
	"github.com/packagewjx/tensorprep/internal/store"
	"github.com/packagewjx/tensorprep/internal/utils"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"log"
	"os"
	"path/filepath"
	"strings"
)

const (
	FlagPrecision   = "precision"
	FlagRecord      = "record"
	FlagConcurrency = "concurrency"
)

const DefaultOutputPrecision = 4

var (
	outputPrecision int
	saveRecord      bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run outputDir identifier...",
	Short: "Run the pipeline over each input and write the results as CSV",
	Long: "Every identifier is loaded through the configured source, processed by the pipeline and\n" +
		"written to outputDir/<identifier>.csv, one row per entry of the first dimension.\n" +
		"The run stops at the first failing input.\n",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if len(args) < 2 {
			return fmt.Errorf("need an output directory and at least one identifier")
		}
		if outputPrecision < 0 {
			return fmt.Errorf("precision must not be negative, got %d", outputPrecision)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		pipeline, err := loadPipeline()
		if err != nil {
			return err
		}
		source, err := loadSource()
		if err != nil {
			return err
		}

		var dao store.Dao
		if saveRecord {
			dao, err = openDao()
			if err != nil {
				return err
			}
		}

		outputDir := args[0]
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return errors.Wrap(err, "creating output directory")
		}

		logger := log.New(os.Stdout, "run: ", log.LstdFlags|log.Lmsgprefix)
		var written uint64
		runner := &batch.Runner{
			Source:      source,
			Pipeline:    pipeline,
			Concurrency: viper.GetInt(KeyConcurrency),
			Logger:      logger,
		}

		logger.Printf("running %s over %d inputs", pipeline.Name(), len(args)-1)
		err = runner.Run(context.Background(), args[1:], func(result *batch.Result) error {
			n, err := writeResult(outputDir, result)
			if err != nil {
				return err
			}
			written += n
			if dao != nil {
				return dao.SaveRunRecord(store.NewRunRecord(result.Identifier, pipeline.Name(), result.Array, result.Elapsed))
			}
			return nil
		})
		if err != nil {
			return err
		}
		logger.Printf("wrote %d bytes to %s", written, outputDir)
		return nil
	},
}

// resultPath places identifier.csv under outputDir. Identifiers that would
// climb out of outputDir are rejected.
func resultPath(outputDir, identifier string) (string, error) {
	path := filepath.Join(outputDir, identifier+".csv")
	rel, err := filepath.Rel(outputDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("output of %s would be written outside %s", identifier, outputDir)
	}
	return path, nil
}

func writeResult(outputDir string, result *batch.Result) (uint64, error) {
	path, err := resultPath(outputDir, result.Identifier)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, errors.Wrap(err, "creating output directory")
	}
	fout, err := os.Create(path)
	if err != nil {
		return 0, errors.Wrap(err, "creating output file")
	}

	counter := &utils.WriterCounter{Writer: fout}
	if err := utils.WriteArrayCSV(counter, result.Array, outputPrecision); err != nil {
		_ = fout.Close()
		return 0, errors.Wrapf(err, "writing %s", path)
	}
	if err := fout.Close(); err != nil {
		return 0, errors.Wrapf(err, "closing %s", path)
	}
	return counter.Count, nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVarP(&outputPrecision, FlagPrecision, "p", DefaultOutputPrecision,
		"digits after the decimal point of float32 output")
	runCmd.Flags().BoolVarP(&saveRecord, FlagRecord, "r", false,
		"save a run record of every output to MySQL")
	runCmd.Flags().IntP(FlagConcurrency, "c", 1,
		"number of inputs processed at the same time")
	_ = viper.BindPFlag(KeyConcurrency, runCmd.Flags().Lookup(FlagConcurrency))
}
