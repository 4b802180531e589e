package export

import (
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/mdouchement/dma/pkg/libdma"
	"github.com/pkg/errors"
)

// DocumentTitle is the title printed above the table.
const DocumentTitle = "Data Table"

const (
	margin     = 14.0 // mm
	rowHeight  = 8.0  // mm
	lineHeight = 5.0  // mm
)

var columns = []struct {
	name  string
	width float64 // mm
}{
	{name: "ID", width: 20},
	{name: "Data", width: 110},
	{name: "Username", width: 52},
}

// Document writes the records as a PDF table.
func Document(w io.Writer, records []libdma.Record) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, 20, margin)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("") // UTF-8 to cp1252

	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(41, 128, 185)
		pdf.SetTextColor(255, 255, 255)
		for _, column := range columns {
			pdf.CellFormat(column.width, rowHeight, column.name, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 14)
	pdf.Text(margin, 10, DocumentTitle)
	pdf.SetY(20)
	header()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, record := range records {
		values := []string{strconv.FormatInt(record.ID, 10), tr(record.Data), tr(record.Username)}

		cells := make([][]string, len(columns))
		height := rowHeight
		for i, column := range columns {
			cells[i] = wrap(pdf, values[i], column.width)
			height = max(height, float64(len(cells[i]))*lineHeight+rowHeight-lineHeight)
		}

		if pdf.GetY()+height > pageHeight-bottom {
			pdf.AddPage()
			header()
		}

		x, y := pdf.GetXY()
		for i, column := range columns {
			pdf.Rect(x, y, column.width, height, "D")

			top := y + (height-float64(len(cells[i]))*lineHeight)/2
			for j, line := range cells[i] {
				pdf.SetXY(x, top+float64(j)*lineHeight)
				pdf.CellFormat(column.width, lineHeight, line, "", 0, "L", false, 0, "")
			}
			x += column.width
		}
		pdf.SetXY(margin, y+height)
	}

	return errors.Wrap(pdf.Output(w), "could not write document")
}

// wrap splits s in lines fitting the given cell width.
// s is already translated to a single-byte encoding, each byte is carried as a rune
// so the splitting never sees invalid UTF-8.
func wrap(pdf *fpdf.Fpdf, s string, width float64) []string {
	runes := make([]rune, len(s))
	for i := 0; i < len(s); i++ {
		runes[i] = rune(s[i])
	}

	lines := pdf.SplitText(string(runes), width)
	if len(lines) == 0 {
		return []string{""}
	}

	for i, line := range lines {
		b := make([]byte, 0, len(line))
		for _, r := range line {
			b = append(b, byte(r))
		}
		lines[i] = string(b)
	}
	return lines
}
