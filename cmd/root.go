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
	"github.com/mitchellh/go-homedir"
	"github.com/packagewjx/tensorprep/internal/datasource"
	"github.com/packagewjx/tensorprep/internal/preprocess"
	"github.com/packagewjx/tensorprep/internal/store"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
	"strings"
)

// Configuration keys
const (
	KeyPipeline    = "pipeline"
	KeySource      = "source"
	KeyConcurrency = "concurrency"
	KeyMysqlDSN    = "mysql.dsn"
	KeyServerPort  = "server.port"
)

const EnvPrefix = "TENSORPREP"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tensorprep",
	Short: "Preprocess numeric arrays through a configurable pipeline",
	Long: "tensorprep loads images or CSV tables as arrays and runs them through a pipeline of\n" +
		"normalization, onehot, reshape and resize stages. The pipeline is read from the\n" +
		"configuration file, for example:\n\n" +
		"  pipeline:\n" +
		"    - type: resize\n" +
		"      options: {target_height: 224, target_width: 224, keep_aspect_ratio: true}\n" +
		"    - type: minmax\n",
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tensorprep.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".tensorprep" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".tensorprep")
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func loadPipeline() (*preprocess.Pipeline, error) {
	configs := make([]preprocess.StageConfig, 0)
	if err := viper.UnmarshalKey(KeyPipeline, &configs); err != nil {
		return nil, errors.Wrap(err, "reading pipeline configuration")
	}
	pipeline, err := preprocess.BuildPipeline(configs)
	if err != nil {
		return nil, errors.Wrap(err, "building pipeline")
	}
	return pipeline, nil
}

func loadSource() (datasource.SourceAdapter, error) {
	config := &datasource.Config{}
	if err := viper.UnmarshalKey(KeySource, config); err != nil {
		return nil, errors.Wrap(err, "reading source configuration")
	}
	return datasource.NewSourceAdapter(config)
}

func openDao() (store.Dao, error) {
	dsn, err := store.ResolveDSN(viper.GetString(KeyMysqlDSN))
	if err != nil {
		return nil, err
	}
	return store.NewDao(dsn)
}
