package export

import (
	"io"

	"github.com/mdouchement/dma/pkg/libdma"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// SheetName is the name of the sheet holding the records.
const SheetName = "Data"

// Spreadsheet writes the records as an XLSX workbook.
// The header row uses the JSON keys of the records.
func Spreadsheet(w io.Writer, records []libdma.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return errors.Wrap(err, "could not name sheet")
	}

	if err := f.SetSheetRow(SheetName, "A1", &[]any{"id", "data", "username"}); err != nil {
		return errors.Wrap(err, "could not write header")
	}

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "could not compute cell name")
		}

		err = f.SetSheetRow(SheetName, cell, &[]any{record.ID, record.Data, record.Username})
		if err != nil {
			return errors.Wrapf(err, "could not write record %d", record.ID)
		}
	}

	return errors.Wrap(f.Write(w), "could not write spreadsheet")
}
