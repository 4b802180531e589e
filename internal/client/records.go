package client

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/mdouchement/dma/internal/client/app"
	"github.com/mdouchement/dma/internal/logger"
	"github.com/mdouchement/dma/pkg/libdma"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Logfile is the client log file, in the current directory.
const Logfile = "dmac.log"

// Open restores the stored session and returns the signed-in application.
func Open(cfg Config) (*app.App, error) {
	session, err := LoadSession(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "could not load session")
	}

	return open(cfg, session, logger.MustFile(Logfile))
}

func open(cfg Config, session Session, log logrus.FieldLogger) (*app.App, error) {
	endpoint := session.Endpoint
	if endpoint == "" {
		endpoint = cfg.APIURL
	}

	client, err := libdma.NewDefaultClient(endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "could not reach dma endpoint")
	}

	a := app.New(client,
		app.WithIdentifier(cfg.Identifier()),
		app.WithLogger(log),
		app.WithSignOut(RemoveSession),
	)
	if session.Username != "" {
		a.Resume(session.Username, session.Guest)
	}
	return a, nil
}

// CreateTable ensures the records storage exists on the server.
func CreateTable(cfg Config) error {
	client, err := libdma.NewDefaultClient(cfg.APIURL)
	if err != nil {
		return errors.Wrap(err, "could not reach dma endpoint")
	}

	if err = client.CreateTable(); err != nil {
		return errors.Wrap(err, "could not create table")
	}

	fmt.Println("Table created or already exists")
	return nil
}

// List prints all the records.
func List(a *app.App, w io.Writer) error {
	if err := a.Fetch(); err != nil {
		return errors.Wrap(err, "could not fetch records")
	}

	return printRecords(w, a.State().Records)
}

// Insert creates a record owned by the signed-in user.
func Insert(a *app.App, data string) error {
	a.SetInput(data)
	if err := a.Insert(); err != nil {
		return errors.Wrap(err, "could not insert record")
	}

	fmt.Println(a.State().Status)
	return nil
}

// Update replaces the data of the given record.
func Update(a *app.App, id int64, data string) error {
	if err := a.OpenUpdate(id, data); err != nil {
		return errors.Wrap(err, "could not update record")
	}
	if err := a.SubmitUpdate(); err != nil {
		return errors.Wrap(err, "could not update record")
	}

	fmt.Println(a.State().Status)
	return nil
}

// Delete removes the given record.
func Delete(a *app.App, id int64) error {
	if err := a.Delete(id); err != nil {
		return errors.Wrap(err, "could not delete record")
	}

	fmt.Println(a.State().Status)
	return nil
}

// Export writes all the records in the given format (xlsx or pdf).
func Export(a *app.App, format, filename string) error {
	if err := a.Fetch(); err != nil {
		return errors.Wrap(err, "could not fetch records")
	}

	var err error
	switch format {
	case "xlsx":
		err = a.ExportSpreadsheet(filename)
	case "pdf":
		err = a.ExportDocument(filename)
	default:
		return errors.Errorf("unsupported export format: %s", format)
	}
	if err != nil {
		return errors.Wrap(err, "could not export records")
	}

	fmt.Println(a.State().Status)
	return nil
}

// ParseID parses a record id given on the command line.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("invalid record id: %s", s)
	}
	return id, nil
}

func printRecords(w io.Writer, records []libdma.Record) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATA\tUSERNAME")
	for _, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", r.ID, r.Data, r.Username)
	}
	return errors.Wrap(tw.Flush(), "could not print records")
}
