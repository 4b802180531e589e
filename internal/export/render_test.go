package export_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/mdouchement/dma/internal/export"
	"github.com/mdouchement/dma/pkg/libdma"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var records = []libdma.Record{
	{ID: 1, Data: "hello", Username: "alice"},
	{ID: 7, Data: "café crème", Username: "bob"},
}

func TestSpreadsheet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Spreadsheet(&buf, records))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{export.SheetName}, f.GetSheetList())

	rows, err := f.GetRows(export.SheetName)
	assert.NoError(t, err)
	assert.Equal(t, [][]string{
		{"id", "data", "username"},
		{"1", "hello", "alice"},
		{"7", "café crème", "bob"},
	}, rows)
}

func TestSpreadsheetEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Spreadsheet(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SheetName)
	assert.NoError(t, err)
	assert.Equal(t, [][]string{{"id", "data", "username"}}, rows)
}

func TestDocument(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Document(&buf, append(records, libdma.Record{
		ID:       8,
		Data:     strings.Repeat("a very long line ", 50),
		Username: "george",
	})))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWrap(t *testing.T) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 10)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	assert.Equal(t, []string{""}, export.Wrap(pdf, "", 110))
	assert.Equal(t, []string{"hello"}, export.Wrap(pdf, "hello", 110))

	// A single word is split without losing any character.
	word := strings.Repeat("abcdefghij", 20)
	lines := export.Wrap(pdf, word, 110)
	assert.Greater(t, len(lines), 1)
	assert.Equal(t, word, strings.Join(lines, ""))
	for _, line := range lines {
		assert.LessOrEqual(t, pdf.GetStringWidth(line), 110.0)
	}

	// Sentences are split on spaces.
	sentence := strings.Repeat("a very long line ", 15)
	lines = export.Wrap(pdf, sentence, 110)
	assert.Greater(t, len(lines), 1)
	assert.Equal(t, strings.Fields(sentence), strings.Fields(strings.Join(lines, " ")))

	// Accents are kept in their single-byte encoding.
	accents := tr(strings.Repeat("café crème brûlée ", 12))
	lines = export.Wrap(pdf, accents, 52)
	assert.Greater(t, len(lines), 1)
	assert.Equal(t, strings.Fields(accents), strings.Fields(strings.Join(lines, " ")))
}

func TestDocumentPages(t *testing.T) {
	many := make([]libdma.Record, 0, 200)
	for i := 1; i <= 200; i++ {
		many = append(many, libdma.Record{ID: int64(i), Data: "row", Username: "alice"})
	}

	var one, several bytes.Buffer
	require.NoError(t, export.Document(&one, records))
	require.NoError(t, export.Document(&several, many))
	assert.Greater(t, several.Len(), one.Len())
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()

	spreadsheet := filepath.Join(dir, export.SpreadsheetFilename)
	require.NoError(t, export.SpreadsheetFile(spreadsheet, records))
	info, err := os.Stat(spreadsheet)
	assert.NoError(t, err)
	assert.NotZero(t, info.Size())

	document := filepath.Join(dir, export.DocumentFilename)
	require.NoError(t, export.DocumentFile(document, records))
	info, err = os.Stat(document)
	assert.NoError(t, err)
	assert.NotZero(t, info.Size())

	assert.Error(t, export.DocumentFile(filepath.Join(dir, "missing", "out.pdf"), records))
}
