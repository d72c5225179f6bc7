// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/go-patcher/internal/editformat"
	"github.com/petar-djukic/go-patcher/internal/workspace"
	"github.com/petar-djukic/go-patcher/pkg/patch"
	"github.com/petar-djukic/go-patcher/pkg/types"
)

// matchOutput is the JSON printed by match.
type matchOutput struct {
	Path       string            `json:"path"`
	Success    bool              `json:"success"`
	Strategy   string            `json:"strategy"`
	Message    string            `json:"message"`
	StartLine  int               `json:"start_line,omitempty"`
	EndLine    int               `json:"end_line,omitempty"`
	Score      float64           `json:"score"`
	Candidates []types.Candidate `json:"candidates,omitempty"`
	Feedback   string            `json:"feedback,omitempty"`
}

// newMatchCmd creates the "match" command.
func newMatchCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Locate search text in a file without editing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			glob, _ := cmd.Flags().GetString("glob")
			if (file == "") == (glob == "") {
				return fmt.Errorf("exactly one of --file or --glob is required")
			}
			search, _ := cmd.Flags().GetString("search")
			if !cmd.Flags().Changed("search") {
				var err error
				if search, err = readInput(cmd, ""); err != nil {
					return err
				}
			}

			logger, err := newLogger(v)
			if err != nil {
				return err
			}
			defer logger.Sync()

			engine, err := newEngine(v, logger)
			if err != nil {
				return err
			}
			store, err := workspace.NewStore(nil, v.GetString("workdir"), logger.Named("store"))
			if err != nil {
				return err
			}

			if file != "" {
				doc, err := store.Read(file)
				if err != nil {
					return err
				}
				out := matchDocument(engine, doc, search)
				if err := printJSON(cmd, out); err != nil {
					return err
				}
				if !out.Success {
					return errNotApplied
				}
				return nil
			}

			paths, err := store.Glob(glob)
			if err != nil {
				return err
			}
			outs := make([]matchOutput, 0, len(paths))
			found := false
			for _, p := range paths {
				doc, err := store.Read(p)
				if err != nil {
					return err
				}
				out := matchDocument(engine, doc, search)
				found = found || out.Success
				outs = append(outs, out)
			}
			if err := printJSON(cmd, outs); err != nil {
				return err
			}
			if !found {
				return errNotApplied
			}
			return nil
		},
	}

	cmd.Flags().StringP("file", "f", "", "File to search")
	cmd.Flags().StringP("glob", "g", "", "Search every file matching a pattern such as '**/*.go'")
	cmd.Flags().StringP("search", "s", "", "Search text (default stdin)")

	return cmd
}

// matchDocument runs the matcher over one document and shapes the result
// for output.
func matchDocument(engine *patch.Engine, doc *workspace.Document, search string) matchOutput {
	m := engine.FindMatch(search, doc.Content)
	out := matchOutput{
		Path:       doc.Path,
		Success:    m.Success,
		Strategy:   m.StrategyName(),
		Message:    "not found",
		Score:      m.Score,
		Candidates: m.Candidates,
		Feedback:   m.Feedback,
	}
	if m.Location != nil {
		out.Message = fmt.Sprintf("matched lines %d-%d (strategy: %s)", m.Location.StartLine, m.Location.EndLine, m.StrategyName())
		out.StartLine = m.Location.StartLine
		out.EndLine = m.Location.EndLine
	}
	return out
}

// validateOutput is the JSON printed by validate.
type validateOutput struct {
	Valid       bool     `json:"valid"`
	Blocks      int      `json:"blocks"`
	BlocksFound int      `json:"blocks_found"`
	Malformed   []string `json:"malformed,omitempty"`
	Errors      []string `json:"errors,omitempty"`
}

// newValidateCmd creates the "validate" command.
func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Parse and validate a payload without applying it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			editsPath, _ := cmd.Flags().GetString("edits")
			payload, err := readInput(cmd, editsPath)
			if err != nil {
				return err
			}

			parsed := editformat.ParseDetailed(payload)
			out := validateOutput{
				Blocks:      len(parsed.Blocks),
				BlocksFound: parsed.BlocksFound,
				Errors:      editformat.Validate(parsed.Blocks),
			}
			for _, pe := range parsed.ParseErrors {
				out.Malformed = append(out.Malformed, pe.Error())
			}
			if len(parsed.Blocks) == 0 {
				out.Errors = append(out.Errors, (&editformat.NoEditsFoundError{Dropped: len(parsed.ParseErrors)}).Error())
			}
			out.Valid = len(out.Errors) == 0

			if err := printJSON(cmd, out); err != nil {
				return err
			}
			if !out.Valid {
				return errNotApplied
			}
			return nil
		},
	}

	cmd.Flags().StringP("edits", "e", "", "File holding the payload (default stdin)")

	return cmd
}
