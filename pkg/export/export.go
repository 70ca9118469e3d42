package export

import (
	"fmt"
	"strings"
)

// Role identifies who authored a turn in a conversation
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Mode selects the shape of an export
type Mode string

const (
	// ModePlain emits one role/name/content row per turn
	ModePlain Mode = "plain"

	// ModeKeywordSplit expands newline-delimited assistant content into
	// indexed keyword columns
	ModeKeywordSplit Mode = "keyword_split"
)

// Keyword column limits. The UI slider enforces the same range, but the
// transformer is the authority
const (
	DefaultMaxKeywords = 100
	MaxKeywordsCeiling = 150
)

// Turn is one exchange unit in a conversation. Immutable once appended to a
// transcript
type Turn struct {
	Role    Role   `json:"role"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Transcript is the ordered history of turns in a session
type Transcript []Turn

// Config describes one export request
type Config struct {
	Mode        Mode `json:"mode"`
	MaxKeywords int  `json:"max_keywords"`
}

// DefaultConfig returns a plain-mode config with the default keyword cap
func DefaultConfig() Config {
	return Config{Mode: ModePlain, MaxKeywords: DefaultMaxKeywords}
}

// Table is a rectangular export result ready for CSV serialization. Every
// row has exactly len(Header) cells
type Table struct {
	Header []string
	Rows   [][]string
}

// clampMaxKeywords forces the keyword cap into [1, MaxKeywordsCeiling].
// Out-of-range values clamp to the nearest bound rather than failing
func clampMaxKeywords(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxKeywordsCeiling {
		return MaxKeywordsCeiling
	}
	return n
}

// splitKeywords splits content on newlines, trims each fragment, and drops
// fragments that end up empty. Blank and whitespace-only lines never occupy
// a keyword column
func splitKeywords(content string) []string {
	var kws []string
	for _, line := range strings.Split(content, "\n") {
		if kw := strings.TrimSpace(line); kw != "" {
			kws = append(kws, kw)
		}
	}
	return kws
}

// truncationMarker is the literal annotation placed in the final allowed
// keyword column when a turn has more fragments than the cap. n is the count
// of fragments that did not get their own column
func truncationMarker(n int) string {
	return fmt.Sprintf("(...+%d truncated)", n)
}

// keywordCells builds the keyword columns for one turn. Assistant content is
// split into fragments; when the fragment count exceeds cap, the first cap-1
// fragments are kept verbatim and the last allowed cell is replaced by the
// truncation marker. Other roles pass their content through as a single cell
// so the keyword export stays lossless for user messages
func keywordCells(turn Turn, limit int) []string {
	if turn.Role != RoleAssistant {
		if turn.Content == "" {
			return nil
		}
		return []string{turn.Content}
	}

	kws := splitKeywords(turn.Content)
	n := len(kws)
	if n <= limit {
		return kws
	}

	shown := limit - 1
	cells := make([]string, 0, limit)
	cells = append(cells, kws[:shown]...)
	cells = append(cells, truncationMarker(n-shown))
	return cells
}

// Export converts a transcript into a table under the given config. It is a
// pure function: one row per turn, order preserved, uniform row width. An
// empty transcript produces a header-only table
func Export(transcript Transcript, config Config) Table {
	if config.Mode == ModeKeywordSplit {
		return exportKeywordSplit(transcript, clampMaxKeywords(config.MaxKeywords))
	}
	return exportPlain(transcript)
}

// exportPlain is the identity projection onto (role, name, content)
func exportPlain(transcript Transcript) Table {
	table := Table{
		Header: []string{"role", "name", "content"},
		Rows:   make([][]string, 0, len(transcript)),
	}
	for _, turn := range transcript {
		table.Rows = append(table.Rows, []string{string(turn.Role), turn.Name, turn.Content})
	}
	return table
}

// exportKeywordSplit emits role/name plus keyword_1..keyword_k columns,
// where k is the widest keyword cell count across the whole export. Shorter
// rows pad with empty cells so the table stays rectangular
func exportKeywordSplit(transcript Transcript, limit int) Table {
	cells := make([][]string, 0, len(transcript))
	maxKw := 0
	for _, turn := range transcript {
		kws := keywordCells(turn, limit)
		if len(kws) > maxKw {
			maxKw = len(kws)
		}
		cells = append(cells, kws)
	}

	header := make([]string, 0, 2+maxKw)
	header = append(header, "role", "name")
	for i := 1; i <= maxKw; i++ {
		header = append(header, fmt.Sprintf("keyword_%d", i))
	}

	table := Table{
		Header: header,
		Rows:   make([][]string, 0, len(transcript)),
	}
	for i, turn := range transcript {
		row := make([]string, 2+maxKw)
		row[0] = string(turn.Role)
		row[1] = turn.Name
		copy(row[2:], cells[i])
		table.Rows = append(table.Rows, row)
	}
	return table
}
