package chat

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// maxAttachmentRows caps how many data rows of an uploaded CSV ride along
// with a message, keeping the backend prompt bounded
const maxAttachmentRows = 100

// truncateCSV parses an uploaded CSV and re-serializes its header plus at
// most maxRows data rows. Returns the CSV text and the number of data rows
// kept
func truncateCSV(r io.Reader, maxRows int) (string, int, error) {
	reader := csv.NewReader(r)
	// Uploaded files may have ragged rows; keep whatever parses
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", 0, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return "", 0, fmt.Errorf("CSV file is empty")
	}

	// First record is the header; cap the rest
	kept := records
	if len(records)-1 > maxRows {
		kept = records[:maxRows+1]
	}

	var buf strings.Builder
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(kept); err != nil {
		return "", 0, fmt.Errorf("failed to serialize CSV: %w", err)
	}

	return buf.String(), len(kept) - 1, nil
}
