// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cirscanproj/cirscan/internal/docio"
	"github.com/cirscanproj/cirscan/internal/logging"
	"github.com/cirscanproj/cirscan/internal/rules"
)

const envPrefix = "CIRSCAN"

// version is stamped at release time via ldflags; default stays dev for
// local builds.
var version = "0.0.0-dev"

var (
	cfgFile string
	// baseLogger is replaced by initConfig once the level is known. Logs go
	// to stderr; stdout carries results and the MCP protocol stream.
	baseLogger = slog.New(slog.DiscardHandler)
)

var rootCmd = &cobra.Command{
	Use:   "cirscan",
	Short: "Compliance scanner for wind turbine service reports",
	Long: `cirscan checks service reports (CIRs) against reference standards (CIMs).

It derives a requirement catalog from reference text, extracts a schema-less
evidence record from the subject report, scores every applicable requirement
and aggregates a severity-weighted compliance score with a GO/NO_GO decision.
Results are deterministic: the same inputs always produce the same output.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return initConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cirscan.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("rules", "", "path to a custom rule pack (YAML)")
	rootCmd.PersistentFlags().Int("workers", 0, "worker count for batch analysis (0 = number of CPUs)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "per-document timeout for batch analysis (0 = none)")
	rootCmd.PersistentFlags().String("output", "", "write JSON results to this file (analyze, validate) or directory (batch) instead of stdout")

	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("rules", rootCmd.PersistentFlags().Lookup("rules"))
	_ = viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
}

// initConfig wires the environment, the optional config file and the logger.
// Flag > env > config file > default, which is viper's natural precedence.
func initConfig() error {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".cirscan")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	level, err := logging.ParseLevel(viper.GetString("log_level"))
	if err != nil {
		return err
	}
	baseLogger = logging.New(os.Stderr, level)
	return nil
}

// componentLogger returns the child logger for one orchestration component.
func componentLogger(name string) *slog.Logger {
	return baseLogger.With("component", name)
}

// loadRuleset returns the configured rule pack, or the default one when no
// --rules path is set.
func loadRuleset() (*rules.Ruleset, error) {
	path := viper.GetString("rules")
	if path == "" {
		return rules.Default(), nil
	}
	return rules.LoadPack(afero.NewOsFs(), path)
}

// emitResult writes v to the configured output path, or pretty-prints it to
// stdout when no output is configured.
func emitResult(fsys afero.Fs, v interface{}) error {
	if out := viper.GetString("output"); out != "" {
		if err := docio.ExportResult(fsys, out, v); err != nil {
			return err
		}
		componentLogger("cli").Info("result written", "path", out)
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
