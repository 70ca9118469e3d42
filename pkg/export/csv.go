package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

// utf8BOM is prepended to CSV downloads so spreadsheet applications detect
// the encoding (the export is "utf-8-sig")
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV serializes the table as CSV to w, header first
func (t Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// CSV returns the table as UTF-8 CSV bytes prefixed with a BOM
func (t Table) CSV() ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	if err := t.WriteCSV(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
