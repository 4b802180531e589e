package database

import "github.com/mdouchement/dma/internal/model"

// Supported drivers.
const (
	DriverMySQL   = "mysql"
	DriverSQLite3 = "sqlite3"
	DriverStorm   = "storm"
)

type (
	// A Client can interacts with the database.
	Client interface {
		// Init ensures the records table exists. It is idempotent.
		Init() error
		// Ping checks that the database is reachable.
		Ping() error
		// Close the database.
		Close() error

		RecordInteraction
	}

	// A RecordInteraction defines all the methods used to interact with record(s).
	RecordInteraction interface {
		// FindRecords returns all the records in database default order.
		FindRecords() ([]*model.Record, error)
		// InsertRecord inserts the given record and sets its generated id.
		InsertRecord(r *model.Record) error
		// UpdateRecordData replaces the data of the record matching the given id.
		// It returns the number of affected rows, zero is not an error.
		UpdateRecordData(id int64, data string) (int64, error)
		// DeleteRecord deletes the record matching the given id.
		// It returns the number of affected rows, zero is not an error.
		DeleteRecord(id int64) (int64, error)
	}
)

// An Options holds the parameters used to open a database connection.
type Options struct {
	Driver   string
	Host     string
	User     string
	Password string
	Name     string
	// Path is the database file used by sqlite3 and storm drivers.
	Path string
}

// Open returns a new database connection according the given driver.
// The connection is checked before returning.
func Open(opts Options) (Client, error) {
	switch opts.Driver {
	case DriverMySQL, "":
		return SQLOpen(DriverMySQL, MySQLDSN(opts))
	case DriverSQLite3:
		return SQLOpen(DriverSQLite3, opts.Path)
	case DriverStorm:
		return StormOpen(opts.Path)
	default:
		return nil, &UnsupportedDriverError{Driver: opts.Driver}
	}
}

// An UnsupportedDriverError is returned by Open for unknown drivers.
type UnsupportedDriverError struct {
	Driver string
}

func (e *UnsupportedDriverError) Error() string {
	return "unsupported database driver: " + e.Driver
}
