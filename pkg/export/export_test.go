package export

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportPlain(t *testing.T) {
	transcript := Transcript{
		{Role: RoleUser, Name: "U", Content: "hello"},
		{Role: RoleAssistant, Name: "Bot", Content: "line one\nline two"},
	}

	table := Export(transcript, Config{Mode: ModePlain})

	assert.Equal(t, []string{"role", "name", "content"}, table.Header)
	require.Len(t, table.Rows, 2)

	// Plain mode is the identity projection, newlines and all
	assert.Equal(t, []string{"user", "U", "hello"}, table.Rows[0])
	assert.Equal(t, []string{"assistant", "Bot", "line one\nline two"}, table.Rows[1])
}

func TestExportPlainEmptyTranscript(t *testing.T) {
	table := Export(nil, Config{Mode: ModePlain})

	assert.Equal(t, []string{"role", "name", "content"}, table.Header)
	assert.Empty(t, table.Rows)
}

func TestExportKeywordSplit(t *testing.T) {
	transcript := Transcript{
		{Role: RoleUser, Name: "U", Content: "what fruits?"},
		{Role: RoleAssistant, Name: "Bot", Content: "apple\nbanana\ncherry"},
	}

	table := Export(transcript, Config{Mode: ModeKeywordSplit, MaxKeywords: 100})

	assert.Equal(t, []string{"role", "name", "keyword_1", "keyword_2", "keyword_3"}, table.Header)
	require.Len(t, table.Rows, 2)

	// User content passes through as a single cell, padded to table width
	assert.Equal(t, []string{"user", "U", "what fruits?", "", ""}, table.Rows[0])
	assert.Equal(t, []string{"assistant", "Bot", "apple", "banana", "cherry"}, table.Rows[1])
}

func TestExportKeywordSplitTruncation(t *testing.T) {
	transcript := Transcript{
		{Role: RoleAssistant, Name: "Bot", Content: "apple\nbanana\ncherry"},
	}

	table := Export(transcript, Config{Mode: ModeKeywordSplit, MaxKeywords: 2})

	assert.Equal(t, []string{"role", "name", "keyword_1", "keyword_2"}, table.Header)
	require.Len(t, table.Rows, 1)

	// First cap-1 fragments verbatim, marker replaces the final cell
	assert.Equal(t, []string{"assistant", "Bot", "apple", "(...+2 truncated)"}, table.Rows[0])
}

func TestExportKeywordSplitTruncationCount(t *testing.T) {
	// 20 fragments with a cap of 10: 9 shown, 11 folded into the marker
	lines := make([]string, 20)
	for i := range lines {
		lines[i] = fmt.Sprintf("k%d", i+1)
	}

	transcript := Transcript{
		{Role: RoleAssistant, Name: "Bot", Content: strings.Join(lines, "\n")},
	}

	table := Export(transcript, Config{Mode: ModeKeywordSplit, MaxKeywords: 10})

	require.Len(t, table.Rows, 1)
	row := table.Rows[0]
	require.Len(t, row, 2+10)

	assert.Equal(t, "k1", row[2])
	assert.Equal(t, "k9", row[10])
	assert.Equal(t, "(...+11 truncated)", row[11])
}

func TestExportKeywordSplitCapOne(t *testing.T) {
	transcript := Transcript{
		{Role: RoleAssistant, Name: "Bot", Content: "a\nb\nc"},
	}

	table := Export(transcript, Config{Mode: ModeKeywordSplit, MaxKeywords: 1})

	assert.Equal(t, []string{"role", "name", "keyword_1"}, table.Header)
	require.Len(t, table.Rows, 1)

	// With a cap of one no fragment can be shown individually
	assert.Equal(t, []string{"assistant", "Bot", "(...+3 truncated)"}, table.Rows[0])
}

func TestExportKeywordSplitNoTruncationAtCap(t *testing.T) {
	transcript := Transcript{
		{Role: RoleAssistant, Name: "Bot", Content: "a\nb\nc"},
	}

	table := Export(transcript, Config{Mode: ModeKeywordSplit, MaxKeywords: 3})

	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"assistant", "Bot", "a", "b", "c"}, table.Rows[0])
	for _, cell := range table.Rows[0] {
		assert.NotContains(t, cell, "truncated")
	}
}

func TestExportKeywordSplitEmptyContent(t *testing.T) {
	transcript := Transcript{
		{Role: RoleAssistant, Name: "Bot", Content: ""},
		{Role: RoleAssistant, Name: "Bot", Content: "one"},
	}

	table := Export(transcript, Config{Mode: ModeKeywordSplit, MaxKeywords: 100})

	require.Len(t, table.Rows, 2)

	// Zero fragments: no populated keyword cells and no annotation
	assert.Equal(t, []string{"assistant", "Bot", ""}, table.Rows[0])
	assert.Equal(t, []string{"assistant", "Bot", "one"}, table.Rows[1])
}

func TestExportKeywordSplitBlankLines(t *testing.T) {
	// Leading, trailing, doubled, and whitespace-only lines are dropped and
	// never count toward the truncation total
	transcript := Transcript{
		{Role: RoleAssistant, Name: "Bot", Content: "\n\napple\n   \nbanana\n\n"},
	}

	table := Export(transcript, Config{Mode: ModeKeywordSplit, MaxKeywords: 100})

	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"assistant", "Bot", "apple", "banana"}, table.Rows[0])
}

func TestExportKeywordSplitAllEmpty(t *testing.T) {
	transcript := Transcript{
		{Role: RoleAssistant, Name: "Bot", Content: ""},
	}

	table := Export(transcript, Config{Mode: ModeKeywordSplit, MaxKeywords: 100})

	// No turn yields fragments, so no keyword columns at all
	assert.Equal(t, []string{"role", "name"}, table.Header)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"assistant", "Bot"}, table.Rows[0])
}

func TestExportClampsMaxKeywords(t *testing.T) {
	lines := make([]string, 200)
	for i := range lines {
		lines[i] = fmt.Sprintf("k%d", i+1)
	}
	transcript := Transcript{
		{Role: RoleAssistant, Name: "Bot", Content: strings.Join(lines, "\n")},
	}

	t.Run("above ceiling clamps to 150", func(t *testing.T) {
		table := Export(transcript, Config{Mode: ModeKeywordSplit, MaxKeywords: 500})

		require.Len(t, table.Rows, 1)
		row := table.Rows[0]
		require.Len(t, row, 2+150)
		assert.Equal(t, "k149", row[2+148])
		assert.Equal(t, "(...+51 truncated)", row[2+149])
	})

	t.Run("non-positive clamps to 1", func(t *testing.T) {
		table := Export(transcript, Config{Mode: ModeKeywordSplit, MaxKeywords: -5})

		require.Len(t, table.Rows, 1)
		require.Len(t, table.Rows[0], 3)
		assert.Equal(t, "(...+200 truncated)", table.Rows[0][2])
	})
}

func TestExportRowWidthUniform(t *testing.T) {
	transcript := Transcript{
		{Role: RoleUser, Name: "U", Content: "hi"},
		{Role: RoleAssistant, Name: "Bot", Content: "a\nb\nc\nd"},
		{Role: RoleAssistant, Name: "Bot", Content: "only one"},
		{Role: RoleUser, Name: "U", Content: ""},
	}

	table := Export(transcript, Config{Mode: ModeKeywordSplit, MaxKeywords: 100})

	require.Len(t, table.Rows, len(transcript))
	for i, row := range table.Rows {
		assert.Len(t, row, len(table.Header), "row %d width", i)
	}
}

func TestExportIdempotent(t *testing.T) {
	transcript := Transcript{
		{Role: RoleUser, Name: "U", Content: "hi"},
		{Role: RoleAssistant, Name: "Bot", Content: "a\nb\nc"},
	}
	config := Config{Mode: ModeKeywordSplit, MaxKeywords: 2}

	first, err := Export(transcript, config).CSV()
	require.NoError(t, err)
	second, err := Export(transcript, config).CSV()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExportOrderPreserved(t *testing.T) {
	var transcript Transcript
	for i := 0; i < 10; i++ {
		transcript = append(transcript, Turn{
			Role:    RoleUser,
			Name:    "U",
			Content: fmt.Sprintf("message %d", i),
		})
	}

	table := Export(transcript, Config{Mode: ModePlain})

	require.Len(t, table.Rows, 10)
	for i, row := range table.Rows {
		assert.Equal(t, fmt.Sprintf("message %d", i), row[2])
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ModePlain, config.Mode)
	assert.Equal(t, 100, config.MaxKeywords)
}
