/*
Copyright 2020 Google LLC

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
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string
var dataDir string
var resultsDir string

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	doneStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "spotify-history-tools",
	Short: "Performs analysis on Spotify extended streaming history exports",
	Long: `Ingests a folder of Spotify streaming history JSON files, filters them
by date range and play flags, and writes CSV snapshots and charts to a
results directory.`,
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

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.spotify-history-tools.yaml)")

	rootCmd.PersistentFlags().StringVar(
		&dataDir, "data", "Data/Spotify Extended Streaming History", "Directory containing the JSON export files")
	viper.BindPFlag("data", rootCmd.PersistentFlags().Lookup("data"))

	rootCmd.PersistentFlags().StringVar(
		&resultsDir, "results", "Results", "Directory for report artifacts")
	viper.BindPFlag("results", rootCmd.PersistentFlags().Lookup("results"))

	// Pipeline configuration comes from the environment, matching the
	// export-analysis conventions: TIMEZONE, YEAR, START_DATE,
	// END_DATE, SPOTIFY_DEFINED_PLAY, MUSIC_ONLY_MODE.
	viper.SetDefault("timezone", "America/New_York")
	viper.BindEnv("timezone", "TIMEZONE")
	viper.BindEnv("year", "YEAR")
	viper.BindEnv("start_date", "START_DATE")
	viper.BindEnv("end_date", "END_DATE")
	viper.BindEnv("spotify_defined_play", "SPOTIFY_DEFINED_PLAY")
	viper.BindEnv("music_only_mode", "MUSIC_ONLY_MODE")
	viper.BindEnv("sendgrid_api_key", "SENDGRID_API_KEY")
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

		// Search config in home directory with name ".spotify-history-tools" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".spotify-history-tools")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.Flags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}
