package database

import (
	"github.com/asdine/storm/v3"
	"github.com/asdine/storm/v3/codec/msgpack"
	"github.com/mdouchement/dma/internal/model"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

type strm struct {
	db *storm.DB
}

// StormCodec is the format used to store data in the database.
var StormCodec = storm.Codec(msgpack.Codec)

// StormOpen returns a new Storm database connection.
func StormOpen(database string) (Client, error) {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return nil, errors.Wrap(err, "could not get database connection")
	}

	return &strm{
		db: db,
	}, nil
}

// Init ensures the records bucket and its indexes exist.
func (c *strm) Init() error {
	return errors.Wrap(c.db.Init(&model.Record{}), "could not init record index")
}

// Ping checks that the database is reachable.
func (c *strm) Ping() error {
	err := c.db.Bolt.View(func(*bolt.Tx) error {
		return nil
	})
	return errors.Wrap(err, "could not reach database")
}

// Close the database.
func (c *strm) Close() error {
	return c.db.Close()
}

func (c *strm) isNotFound(err error) bool {
	return errors.Cause(err) == storm.ErrNotFound
}

// FindRecords returns all the records ordered by id.
func (c *strm) FindRecords() ([]*model.Record, error) {
	records := make([]*model.Record, 0)
	err := c.db.All(&records)
	if err != nil && !c.isNotFound(err) {
		return nil, errors.Wrap(err, "could not find records")
	}
	return records, nil
}

// InsertRecord inserts the given record and sets its generated id.
func (c *strm) InsertRecord(r *model.Record) error {
	r.ID = 0 // Let storm increment the id.
	return errors.Wrap(c.db.Save(r), "could not insert record")
}

// UpdateRecordData replaces the data of the record matching the given id.
func (c *strm) UpdateRecordData(id int64, data string) (int64, error) {
	err := c.db.UpdateField(&model.Record{ID: id}, "Data", data)
	if c.isNotFound(err) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "could not update record")
	}
	return 1, nil
}

// DeleteRecord deletes the record matching the given id.
func (c *strm) DeleteRecord(id int64) (int64, error) {
	err := c.db.DeleteStruct(&model.Record{ID: id})
	if c.isNotFound(err) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "could not delete record")
	}
	return 1, nil
}
