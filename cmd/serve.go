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
	"github.com/packagewjx/tensorprep/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	FlagPort    = "port"
	FlagMaxBody = "max-body"
)

var (
	maxBody     int64
	serveRecord bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the configured pipeline over HTTP",
	Long: "POST /preprocess takes {\"shape\":[...],\"dtype\":\"float32\",\"data\":[...],\"metadata\":{}} and\n" +
		"answers with the processed array in the same form. GET /pipeline returns the DOT graph of\n" +
		"the pipeline, GET /records the saved run records when --record is set.\n",
	RunE: func(cmd *cobra.Command, args []string) error {
		pipeline, err := loadPipeline()
		if err != nil {
			return err
		}

		s, err := server.NewServer(&server.ServerConfig{
			Port:         uint16(viper.GetUint(KeyServerPort)),
			MaxBodyBytes: maxBody,
			Record:       serveRecord,
			MysqlDSN:     viper.GetString(KeyMysqlDSN),
		}, pipeline)
		if err != nil {
			return err
		}

		return s.Start()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Uint16P(FlagPort, "p", server.DefaultPort,
		"listening port")
	_ = viper.BindPFlag(KeyServerPort, serveCmd.Flags().Lookup(FlagPort))
	serveCmd.Flags().Int64Var(&maxBody, FlagMaxBody, server.DefaultMaxBodyBytes,
		"maximum request body size in bytes")
	serveCmd.Flags().BoolVarP(&serveRecord, FlagRecord, "r", false,
		"save a run record of every request to MySQL")
}
