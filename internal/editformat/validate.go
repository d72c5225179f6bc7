// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package editformat

import (
	"fmt"

	"github.com/petar-djukic/go-patcher/pkg/types"
)

// Validate checks every block and returns one message per offending block,
// in block order. A nil result means all blocks are valid.
func Validate(blocks []types.EditBlock) []string {
	var errs []string
	for i, b := range blocks {
		switch {
		case b.SearchText == "":
			errs = append(errs, fmt.Sprintf("block %d: search text is empty", i+1))
		case b.SearchText == b.ReplaceText:
			errs = append(errs, fmt.Sprintf("block %d: search and replace text are identical (no-op edit)", i+1))
		}
	}
	return errs
}
