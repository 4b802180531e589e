package database

import (
	"database/sql"

	"github.com/go-sql-driver/mysql"
	"github.com/mdouchement/dma/internal/model"
	"github.com/pkg/errors"
)

var createTableStatements = map[string]string{
	DriverMySQL: `CREATE TABLE IF NOT EXISTS ` + model.Tablename + ` (
  id INT AUTO_INCREMENT PRIMARY KEY,
  data VARCHAR(255) NOT NULL,
  username VARCHAR(255) NOT NULL
)`,
	DriverSQLite3: `CREATE TABLE IF NOT EXISTS ` + model.Tablename + ` (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  data TEXT NOT NULL,
  username TEXT NOT NULL
)`,
}

const (
	selectRecords = `SELECT id, data, username FROM ` + model.Tablename + ` ORDER BY id`
	insertRecord  = `INSERT INTO ` + model.Tablename + ` (data, username) VALUES (?, ?)`
	updateRecord  = `UPDATE ` + model.Tablename + ` SET data = ? WHERE id = ?`
	deleteRecord  = `DELETE FROM ` + model.Tablename + ` WHERE id = ?`
)

type sqldb struct {
	db     *sql.DB
	driver string
}

// MySQLDSN returns the MySQL data source name for the given options.
func MySQLDSN(opts Options) string {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = opts.Host
	cfg.User = opts.User
	cfg.Passwd = opts.Password
	cfg.DBName = opts.Name
	return cfg.FormatDSN()
}

// SQLOpen returns a new SQL database connection for the given driver (mysql or sqlite3).
// The driver must be registered by the caller.
func SQLOpen(driver, dsn string) (Client, error) {
	if _, ok := createTableStatements[driver]; !ok {
		return nil, &UnsupportedDriverError{Driver: driver}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "could not get database connection")
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "could not reach database")
	}

	return &sqldb{
		db:     db,
		driver: driver,
	}, nil
}

// Init ensures the records table exists. It is idempotent.
func (c *sqldb) Init() error {
	_, err := c.db.Exec(createTableStatements[c.driver])
	return errors.Wrap(err, "could not create records table")
}

// Ping checks that the database is reachable.
func (c *sqldb) Ping() error {
	return errors.Wrap(c.db.Ping(), "could not reach database")
}

// Close the database.
func (c *sqldb) Close() error {
	return c.db.Close()
}

// FindRecords returns all the records ordered by id.
func (c *sqldb) FindRecords() ([]*model.Record, error) {
	rows, err := c.db.Query(selectRecords)
	if err != nil {
		return nil, errors.Wrap(err, "could not find records")
	}
	defer rows.Close()

	records := make([]*model.Record, 0)
	for rows.Next() {
		var r model.Record
		if err = rows.Scan(&r.ID, &r.Data, &r.Username); err != nil {
			return nil, errors.Wrap(err, "could not scan record")
		}
		records = append(records, &r)
	}

	return records, errors.Wrap(rows.Err(), "could not iterate over records")
}

// InsertRecord inserts the given record and sets its generated id.
func (c *sqldb) InsertRecord(r *model.Record) error {
	result, err := c.db.Exec(insertRecord, r.Data, r.Username)
	if err != nil {
		return errors.Wrap(err, "could not insert record")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "could not get inserted record id")
	}
	r.ID = id

	return nil
}

// UpdateRecordData replaces the data of the record matching the given id.
func (c *sqldb) UpdateRecordData(id int64, data string) (int64, error) {
	result, err := c.db.Exec(updateRecord, data, id)
	if err != nil {
		return 0, errors.Wrap(err, "could not update record")
	}

	n, err := result.RowsAffected()
	return n, errors.Wrap(err, "could not get updated rows")
}

// DeleteRecord deletes the record matching the given id.
func (c *sqldb) DeleteRecord(id int64) (int64, error) {
	result, err := c.db.Exec(deleteRecord, id)
	if err != nil {
		return 0, errors.Wrap(err, "could not delete record")
	}

	n, err := result.RowsAffected()
	return n, errors.Wrap(err, "could not get deleted rows")
}
