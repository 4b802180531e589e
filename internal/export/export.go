// Package export renders records into downloadable files.
package export

import (
	"os"

	"github.com/mdouchement/dma/pkg/libdma"
	"github.com/pkg/errors"
)

// Default file names.
const (
	SpreadsheetFilename = "DataTable.xlsx"
	DocumentFilename    = "DataTable.pdf"
)

// SpreadsheetFile writes the records in the given spreadsheet file.
func SpreadsheetFile(filename string, records []libdma.Record) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "could not create %s", filename)
	}
	defer f.Close()

	if err = Spreadsheet(f, records); err != nil {
		return err
	}

	return errors.Wrap(f.Sync(), "could not export spreadsheet")
}

// DocumentFile writes the records in the given PDF file.
func DocumentFile(filename string, records []libdma.Record) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "could not create %s", filename)
	}
	defer f.Close()

	if err = Document(f, records); err != nil {
		return err
	}

	return errors.Wrap(f.Sync(), "could not export document")
}
