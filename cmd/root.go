/*
	Copyright 2023 Markus Papenbrock
*/

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	analyzeCmd "github.com/mpapenbr/ibt-analyzer-go/pkg/cmd/analyze"
	overviewCmd "github.com/mpapenbr/ibt-analyzer-go/pkg/cmd/overview"
	watchCmd "github.com/mpapenbr/ibt-analyzer-go/pkg/cmd/watch"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/config"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/processing/lap"
	"github.com/mpapenbr/ibt-analyzer-go/version"
)

const envPrefix = "IBTA"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "ibta",
	Short:   "Telemetry analyzer for iRacing .ibt recordings",
	Long:    ``,
	Version: version.FullVersion,

	// Uncomment the following line if your bare application
	// has an action associated with it:
	// Run: func(cmd *cobra.Command, args []string) { },
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:funlen // by design
func init() {
	cobra.OnInitialize(initConfig)

	// Here you will define your flags and configuration settings.
	// Cobra supports persistent flags, which, if defined here,
	// will be global for your application.

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.ibta.yml)")

	rootCmd.PersistentFlags().StringVar(&config.LogLevel,
		"log-level",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().StringVar(&config.LogFormat,
		"log-format",
		"text",
		"controls the log output format (text, json)")
	rootCmd.PersistentFlags().StringVar(&config.LogConfig,
		"log-config",
		"",
		"file containing logger configs")
	rootCmd.PersistentFlags().StringVar(&config.OutputFormat,
		"output-format",
		"text",
		"controls the report output format (text, json)")
	rootCmd.PersistentFlags().StringVar(&config.DecoderCmd,
		"decoder-cmd",
		"node",
		"command invoked for the exact telemetry decode")
	rootCmd.PersistentFlags().StringVar(&config.DecoderScript,
		"decoder-script",
		"ibt-decoder.js",
		"script argument passed to the decoder command")
	rootCmd.PersistentFlags().StringVar(&config.DecoderMinVersion,
		"decoder-min-version",
		"",
		"minimum required version of the decoder tool (empty: no check)")
	rootCmd.PersistentFlags().StringVar(&config.DecodeTimeout,
		"decode-timeout",
		"5m",
		"duration budget for one decode subprocess call")
	rootCmd.PersistentFlags().IntVar(&config.MaxSamples,
		"max-samples",
		50000,
		"cap on retained telemetry samples per file")
	rootCmd.PersistentFlags().Float64Var(&config.CornerEntryG,
		"corner-entry-g",
		lap.DefaultCornerEntryG,
		"lateral g threshold opening a corner segment")
	rootCmd.PersistentFlags().IntVar(&config.CornerMinSpan,
		"corner-min-span",
		lap.DefaultCornerMinSpan,
		"minimum sample span of a corner segment")
	rootCmd.PersistentFlags().Float64Var(&config.BrakeEntryPct,
		"brake-entry-pct",
		lap.DefaultBrakeEntryPct,
		"brake pressure (percent) opening a braking zone")
	rootCmd.PersistentFlags().IntVar(&config.BrakeMinSpan,
		"brake-min-span",
		lap.DefaultBrakeMinSpan,
		"minimum sample span of a braking zone")
	rootCmd.PersistentFlags().IntVar(&config.MinLapSamples,
		"min-lap-samples",
		lap.DefaultMinLapSamples,
		"minimum sample span of a valid lap")

	// add commands here
	rootCmd.AddCommand(analyzeCmd.NewAnalyzeCmd())
	rootCmd.AddCommand(overviewCmd.NewOverviewCmd())
	rootCmd.AddCommand(watchCmd.NewWatchCmd())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".ibta" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ibta")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	bindFlags(rootCmd, viper.GetViper())
	for _, cmd := range rootCmd.Commands() {
		bindFlags(cmd, viper.GetViper())
	}
}

// Bind each cobra flag to its associated viper configuration
// (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to their
		// equivalent keys with underscores, e.g. --favorite-color to STING_FAVORITE_COLOR
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name,
				fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v", f.Name, err)
			}
		}
		// Apply the viper config value to the flag when the flag is not set and viper
		// has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could set flag value for %s: %v", f.Name, err)
			}
		}
	})
}
