package sheets

import (
	"context"
	"fmt"
	"time"

	"github.com/ethanbaker/fanchat/pkg/export"
)

// historyRow is one parsed worksheet row
type historyRow struct {
	timestamp time.Time
	turn      export.Turn
}

// LoadHistory reads the log worksheet and returns the turns belonging to the
// given conversation, ordered by timestamp
func (s *Service) LoadHistory(ctx context.Context, conversationID string) (export.Transcript, error) {
	if conversationID == "" {
		return nil, fmt.Errorf("conversation id cannot be empty")
	}

	vr, err := s.sheets.Spreadsheets.Values.Get(s.spreadsheetID, logRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read log worksheet: %w", err)
	}

	return parseHistory(vr.Values, conversationID), nil
}

// parseHistory filters raw worksheet values down to one conversation's
// transcript. Rows with unparseable timestamps keep their sheet order
// relative to each other, as the sheet is append-only and already roughly
// chronological
func parseHistory(values [][]interface{}, conversationID string) export.Transcript {
	var rows []historyRow
	for i, raw := range values {
		// Skip the header row
		if i == 0 && len(raw) > 0 && cellString(raw[0]) == logHeader[0] {
			continue
		}
		if len(raw) < 6 {
			continue
		}
		if cellString(raw[1]) != conversationID {
			continue
		}

		ts, _ := time.Parse(time.RFC3339, cellString(raw[0]))
		rows = append(rows, historyRow{
			timestamp: ts,
			turn: export.Turn{
				Role:    export.Role(cellString(raw[3])),
				Name:    cellString(raw[4]),
				Content: cellString(raw[5]),
			},
		})
	}

	// Stable insertion sort by timestamp
	for i := 1; i < len(rows); i++ {
		key := rows[i]
		j := i - 1
		for j >= 0 && rows[j].timestamp.After(key.timestamp) {
			rows[j+1] = rows[j]
			j--
		}
		rows[j+1] = key
	}

	transcript := make(export.Transcript, 0, len(rows))
	for _, row := range rows {
		transcript = append(transcript, row.turn)
	}
	return transcript
}

// cellString coerces a sheet cell to a string; non-string cells become
// their printed form so one bad cell never aborts a history load
func cellString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
