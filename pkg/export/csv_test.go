package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableCSV(t *testing.T) {
	transcript := Transcript{
		{Role: RoleUser, Name: "U", Content: "hello"},
		{Role: RoleAssistant, Name: "Bot", Content: "kw1\nkw2"},
	}

	b, err := Export(transcript, Config{Mode: ModeKeywordSplit, MaxKeywords: 10}).CSV()
	require.NoError(t, err)

	// Downloads carry a UTF-8 BOM so spreadsheets detect the encoding
	require.True(t, bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}))

	records, err := csv.NewReader(bytes.NewReader(b[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"role", "name", "keyword_1", "keyword_2"}, records[0])
	assert.Equal(t, []string{"user", "U", "hello", ""}, records[1])
	assert.Equal(t, []string{"assistant", "Bot", "kw1", "kw2"}, records[2])
}

func TestTableCSVEscapesContent(t *testing.T) {
	transcript := Transcript{
		{Role: RoleAssistant, Name: "Bot", Content: "says \"hi\", twice\nand more"},
	}

	var buf bytes.Buffer
	err := Export(transcript, Config{Mode: ModePlain}).WriteCSV(&buf)
	require.NoError(t, err)

	// encoding/csv handles quoting; the round trip must be lossless
	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "says \"hi\", twice\nand more", records[1][2])
}

func TestTableCSVHeaderOnly(t *testing.T) {
	b, err := Export(nil, Config{Mode: ModePlain}).CSV()
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(b[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"role", "name", "content"}, records[0])
}
