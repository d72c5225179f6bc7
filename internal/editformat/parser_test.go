// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package editformat

import (
	"testing"

	"github.com/petar-djukic/go-patcher/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SingleBlock(t *testing.T) {
	payload := `Here is the fix:

<<<<<<< SEARCH
func Apply(path string) error {
    return nil
}
=======
func Apply(path string) error {
    return applyEdit(path)
}
>>>>>>> REPLACE`

	blocks := Parse(payload)
	require.Len(t, blocks, 1)
	assert.Equal(t, "func Apply(path string) error {\n    return nil\n}", blocks[0].SearchText)
	assert.Equal(t, "func Apply(path string) error {\n    return applyEdit(path)\n}", blocks[0].ReplaceText)
	assert.Equal(t, 0, blocks[0].Index)
}

func TestParse_MultipleBlocksKeepInputOrder(t *testing.T) {
	payload := `<<<<<<< SEARCH
timeout: 30
=======
timeout: 60
>>>>>>> REPLACE
<<<<<<< SEARCH
retries: 3
=======
retries: 5
>>>>>>> REPLACE

<<<<<<< SEARCH
name: old
=======
name: new
>>>>>>> REPLACE
`

	blocks := Parse(payload)
	require.Len(t, blocks, 3)
	assert.Equal(t, []types.EditBlock{
		{SearchText: "timeout: 30", ReplaceText: "timeout: 60", Index: 0},
		{SearchText: "retries: 3", ReplaceText: "retries: 5", Index: 1},
		{SearchText: "name: old", ReplaceText: "name: new", Index: 2},
	}, blocks)
}

func TestParse_MarkersTolerateTrailingWhitespace(t *testing.T) {
	payload := "<<<<<<< SEARCH  \nold\n=======\t\nnew\n>>>>>>> REPLACE \n"

	blocks := Parse(payload)
	require.Len(t, blocks, 1)
	assert.Equal(t, "old", blocks[0].SearchText)
	assert.Equal(t, "new", blocks[0].ReplaceText)
}

func TestParse_MarkersMustStartTheLine(t *testing.T) {
	payload := "  <<<<<<< SEARCH\nold\n=======\nnew\n>>>>>>> REPLACE\n"

	assert.Empty(t, Parse(payload))
}

func TestParse_CRLFPayload(t *testing.T) {
	payload := "<<<<<<< SEARCH\r\na\r\nb\r\n=======\r\nc\r\n>>>>>>> REPLACE\r\n"

	blocks := Parse(payload)
	require.Len(t, blocks, 1)
	assert.Equal(t, "a\nb", blocks[0].SearchText)
	assert.Equal(t, "c", blocks[0].ReplaceText)
}

func TestParse_MarkdownFencesIgnored(t *testing.T) {
	payload := "Here is the change:\n\n```\n<<<<<<< SEARCH\nreturn nil\n=======\nreturn applyEdit(path)\n>>>>>>> REPLACE\n```"

	blocks := Parse(payload)
	require.Len(t, blocks, 1)
	assert.Equal(t, "return nil", blocks[0].SearchText)
	assert.Equal(t, "return applyEdit(path)", blocks[0].ReplaceText)
}

func TestParse_EmptyReplacement(t *testing.T) {
	payload := "<<<<<<< SEARCH\ndead code\n=======\n>>>>>>> REPLACE"

	blocks := Parse(payload)
	require.Len(t, blocks, 1)
	assert.Equal(t, "dead code", blocks[0].SearchText)
	assert.Equal(t, "", blocks[0].ReplaceText)
}

func TestParse_EmptySearchIsStructurallyValid(t *testing.T) {
	payload := "<<<<<<< SEARCH\n=======\nnew content\n>>>>>>> REPLACE"

	blocks := Parse(payload)
	require.Len(t, blocks, 1)
	assert.Equal(t, "", blocks[0].SearchText)
	assert.Equal(t, "new content", blocks[0].ReplaceText)
}

func TestParse_BlankLinesInBodyPreserved(t *testing.T) {
	payload := "<<<<<<< SEARCH\na\n\nb\n\n=======\nc\n>>>>>>> REPLACE"

	blocks := Parse(payload)
	require.Len(t, blocks, 1)
	assert.Equal(t, "a\n\nb\n", blocks[0].SearchText)
}

func TestParseDetailed_MissingReplaceDropsBlock(t *testing.T) {
	payload := `<<<<<<< SEARCH
return nil
=======
return applyEdit(path)`

	result := ParseDetailed(payload)
	assert.Empty(t, result.Blocks)
	assert.Equal(t, 1, result.BlocksFound)
	require.Len(t, result.ParseErrors, 1)
	assert.Contains(t, result.ParseErrors[0].Message, MarkerReplace)
	assert.Contains(t, result.ParseErrors[0].RawText, "return nil")
	assert.Equal(t, 1, result.ParseErrors[0].Line)
}

func TestParseDetailed_MissingDividerDropsBlock(t *testing.T) {
	result := ParseDetailed("<<<<<<< SEARCH\nsome content")

	assert.Empty(t, result.Blocks)
	require.Len(t, result.ParseErrors, 1)
	assert.Contains(t, result.ParseErrors[0].Message, "divider")
	assert.Contains(t, result.ParseErrors[0].Error(), "line 1")
}

func TestParseDetailed_NewSearchBeforeCloseRestartsBlock(t *testing.T) {
	payload := `<<<<<<< SEARCH
broken
=======
half done
<<<<<<< SEARCH
good old
=======
good new
>>>>>>> REPLACE
<<<<<<< SEARCH
no divider
<<<<<<< SEARCH
second old
=======
second new
>>>>>>> REPLACE`

	result := ParseDetailed(payload)
	assert.Equal(t, 4, result.BlocksFound)
	require.Len(t, result.Blocks, 2)
	assert.Equal(t, "good old", result.Blocks[0].SearchText)
	assert.Equal(t, 0, result.Blocks[0].Index)
	assert.Equal(t, "second old", result.Blocks[1].SearchText)
	assert.Equal(t, 1, result.Blocks[1].Index)

	require.Len(t, result.ParseErrors, 2)
	assert.Equal(t, 1, result.ParseErrors[0].Line)
	assert.Equal(t, 10, result.ParseErrors[1].Line)
}

func TestParse_EmptyPayload(t *testing.T) {
	blocks := Parse("")
	assert.NotNil(t, blocks)
	assert.Empty(t, blocks)
}

func TestParse_NoBlocks(t *testing.T) {
	assert.Empty(t, Parse("This is just reasoning text with no edit blocks."))
}

func TestNoEditsFoundError(t *testing.T) {
	assert.Equal(t, "no valid blocks found", (&NoEditsFoundError{}).Error())
	assert.Contains(t, (&NoEditsFoundError{Dropped: 2}).Error(), "2 malformed")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		blocks []types.EditBlock
		want   []string
	}{
		{
			name:   "valid blocks",
			blocks: []types.EditBlock{{SearchText: "a", ReplaceText: "b"}, {SearchText: "c", ReplaceText: ""}},
			want:   nil,
		},
		{
			name:   "no-op edit",
			blocks: []types.EditBlock{{SearchText: "x", ReplaceText: "x"}},
			want:   []string{"block 1: search and replace text are identical (no-op edit)"},
		},
		{
			name:   "empty search",
			blocks: []types.EditBlock{{SearchText: "", ReplaceText: "new"}},
			want:   []string{"block 1: search text is empty"},
		},
		{
			name:   "empty search and replace reports once",
			blocks: []types.EditBlock{{SearchText: "", ReplaceText: ""}},
			want:   []string{"block 1: search text is empty"},
		},
		{
			name: "collects every offending block",
			blocks: []types.EditBlock{
				{SearchText: "", ReplaceText: "a"},
				{SearchText: "ok", ReplaceText: "fine"},
				{SearchText: "same", ReplaceText: "same"},
			},
			want: []string{
				"block 1: search text is empty",
				"block 3: search and replace text are identical (no-op edit)",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.blocks))
		})
	}
}
