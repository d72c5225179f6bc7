// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/petar-djukic/go-patcher/internal/log"
	"github.com/petar-djukic/go-patcher/internal/workspace"
	"github.com/petar-djukic/go-patcher/pkg/patch"
)

// errNotApplied makes the process exit non-zero after the JSON report was
// printed.
var errNotApplied = errors.New("edits were not applied")

// newLogger builds the logger selected by log-level and dev-log.
func newLogger(v *viper.Viper) (*zap.Logger, error) {
	return log.New(log.Config{
		Level:       v.GetString("log-level"),
		Development: v.GetBool("dev-log"),
	})
}

// newEngine builds a patch engine from the tuning keys.
func newEngine(v *viper.Viper, logger *zap.Logger) (*patch.Engine, error) {
	engine, err := patch.New(patch.Config{
		SimilarityThreshold: v.GetFloat64("similarity-threshold"),
		MinMargin:           v.GetFloat64("min-margin"),
		MaxCandidates:       v.GetInt("max-candidates"),
		CandidateFloor:      v.GetFloat64("candidate-floor"),
		FeedbackWidth:       v.GetInt("feedback-width"),
		Logger:              logger,
	})
	if err != nil {
		return nil, fmt.Errorf("initialization failed: %w", err)
	}
	return engine, nil
}

// newEditor wires logger, engine and file store rooted at workdir.
func newEditor(v *viper.Viper) (*workspace.Editor, *zap.Logger, error) {
	logger, err := newLogger(v)
	if err != nil {
		return nil, nil, err
	}
	engine, err := newEngine(v, logger)
	if err != nil {
		return nil, nil, err
	}
	store, err := workspace.NewStore(nil, v.GetString("workdir"), logger.Named("store"))
	if err != nil {
		return nil, nil, err
	}
	return workspace.NewEditor(store, engine, logger.Named("editor")), logger, nil
}

// signalContext returns a context cancelled on interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// readInput returns the contents of path, or of stdin when path is empty
// or "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// printJSON writes v as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
