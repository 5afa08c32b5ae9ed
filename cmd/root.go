/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/obstail/obstail/cmd/observations"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "obstail",
	Short: "Browse hourly weather observations for a station, one day at a time",
	Long: `Shows hourly observations for a selected weather station in a scrollable
table. Scrolling past the oldest row loads one more day of history from the
observations API; days without data are skipped backward automatically.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(viper.GetString("log.file"))
		defer logger.Sync()

		client := observations.NewClient(
			viper.GetString("api.base_url"),
			viper.GetDuration("api.timeout"),
			logger,
		)
		cfg := observations.Config{
			MaxAttempts:    viper.GetInt("backfill.max_attempts"),
			ExtendAttempts: viper.GetInt("backfill.extend_attempts"),
		}

		p := tea.NewProgram(initialModel(client, cfg, logger))

		_, err := p.Run()

		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.obstail.yaml)")
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

		// Search config in home directory with name ".obstail" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".obstail")

		viper.SetDefault("log.file", filepath.Join(home, ".obstail", "obstail.log"))
	}

	viper.SetDefault("api.base_url", "http://localhost:8780")
	viper.SetDefault("api.timeout", "10s")
	viper.SetDefault("backfill.max_attempts", 3)
	// Scroll extension does a single direct fetch unless configured otherwise.
	viper.SetDefault("backfill.extend_attempts", 0)

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger writes structured logs to a file; stdout belongs to the TUI.
// Falls back to a no-op logger when the file cannot be set up.
func newLogger(path string) *zap.SugaredLogger {
	if path == "" {
		return zap.NewNop().Sugar()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zap.NewNop().Sugar()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}
