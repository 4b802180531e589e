package database

import "database/sql"

// This file is only for test purpose and is only loaded by test framework.

// NewSQLClient returns a Client on top of the given connection.
func NewSQLClient(db *sql.DB, driver string) Client {
	return &sqldb{db: db, driver: driver}
}
