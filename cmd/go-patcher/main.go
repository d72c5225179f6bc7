// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command go-patcher applies LLM-produced SEARCH/REPLACE edits to files.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd(viper.New()).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree around v, which holds flags, GO_PATCHER_*
// environment variables and the optional .go-patcher.yaml.
func newRootCmd(v *viper.Viper) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "go-patcher",
		Short:        "Apply SEARCH/REPLACE edit blocks to files",
		Long:         "go-patcher locates each search text with a cascade of exact, whitespace-tolerant and fuzzy strategies, refuses ambiguous matches, and writes a file only when every block applied.",
		SilenceUsage: true,
	}

	// Global flags.
	flags := rootCmd.PersistentFlags()
	flags.String("workdir", ".", "Directory edited paths are relative to")
	flags.Float64("similarity-threshold", 0, "Score a fuzzy match must exceed (0 = default 0.80)")
	flags.Float64("min-margin", 0, "Lead the best fuzzy match needs over the next (0 = default 0.05)")
	flags.Int("max-candidates", 0, "Candidate regions shown in failure feedback (0 = default 3)")
	flags.Float64("candidate-floor", 0, "Lowest fuzzy score shown as a candidate (0 = default 0.5)")
	flags.Int("feedback-width", 0, "Columns of search text echoed in feedback (0 = default 600)")
	flags.Int("concurrency", 0, "Files patched at once by batch (0 = GOMAXPROCS)")
	flags.String("log-level", "warn", "Log level: debug, info, warn, error")
	flags.Bool("dev-log", false, "Human-readable colored logs")

	// Bind flags to viper.
	flags.VisitAll(func(f *pflag.Flag) {
		v.BindPFlag(f.Name, f)
	})

	// Env vars: GO_PATCHER_WORKDIR, GO_PATCHER_LOG_LEVEL, etc.
	v.SetEnvPrefix("GO_PATCHER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// Config file.
	v.SetConfigName(".go-patcher")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.ReadInConfig() // Ignore error; config file is optional.

	rootCmd.AddCommand(newApplyCmd(v))
	rootCmd.AddCommand(newReplaceCmd(v))
	rootCmd.AddCommand(newWriteCmd(v))
	rootCmd.AddCommand(newMatchCmd(v))
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newBatchCmd(v))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print go-patcher version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "go-patcher %s\n", version)
		},
	}
}
