package model

// Tablename is the name of the table (or storm bucket) holding the records.
const Tablename = "records"

// A Record represents a database record and the rendered API response.
type Record struct {
	ID       int64  `json:"id"       msgpack:"id"       storm:"id,increment"`
	Data     string `json:"data"     msgpack:"data"`
	Username string `json:"username" msgpack:"username" storm:"index"`
}

// NewRecord returns a new record that is not yet persisted.
func NewRecord(data, username string) *Record {
	return &Record{
		Data:     data,
		Username: username,
	}
}

// Persisted returns true if the record has been assigned an id by the database.
func (r *Record) Persisted() bool {
	return r.ID > 0
}
