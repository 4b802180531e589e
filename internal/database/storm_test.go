package database_test

import (
	"os"
	"testing"

	"github.com/mdouchement/dma/internal/database"
	"github.com/mdouchement/dma/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stormSetup(t *testing.T) (database.Client, func()) {
	tmpfile, err := os.CreateTemp("", "dma.*.db")
	require.NoError(t, err)
	filename := tmpfile.Name()
	tmpfile.Close()

	db, err := database.StormOpen(filename)
	require.NoError(t, err)

	return db, func() {
		db.Close()
		os.RemoveAll(filename)
	}
}

func TestStormInit(t *testing.T) {
	db, cleanup := stormSetup(t)
	defer cleanup()

	assert.NoError(t, db.Init())
	assert.NoError(t, db.Init()) // Idempotent
	assert.NoError(t, db.Ping())

	records, err := db.FindRecords()
	assert.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestStormPingClosed(t *testing.T) {
	db, cleanup := stormSetup(t)
	defer cleanup()

	require.NoError(t, db.Ping())
	require.NoError(t, db.Close())
	assert.EqualError(t, db.Ping(), "could not reach database: database not open")
}

func TestStormRecordLifecycle(t *testing.T) {
	db, cleanup := stormSetup(t)
	defer cleanup()
	require.NoError(t, db.Init())

	hello := model.NewRecord("hello", "alice")
	require.NoError(t, db.InsertRecord(hello))
	assert.True(t, hello.Persisted())

	other := model.NewRecord("other", "bob")
	require.NoError(t, db.InsertRecord(other))
	assert.NotEqual(t, hello.ID, other.ID)

	records, err := db.FindRecords()
	require.NoError(t, err)
	assert.ElementsMatch(t, []*model.Record{
		{ID: hello.ID, Data: "hello", Username: "alice"},
		{ID: other.ID, Data: "other", Username: "bob"},
	}, records)

	//
	// Update

	n, err := db.UpdateRecordData(hello.ID, "world")
	assert.NoError(t, err)
	assert.EqualValues(t, 1, n)

	records, err = db.FindRecords()
	require.NoError(t, err)
	assert.ElementsMatch(t, []*model.Record{
		{ID: hello.ID, Data: "world", Username: "alice"},
		{ID: other.ID, Data: "other", Username: "bob"},
	}, records)

	n, err = db.UpdateRecordData(424242, "nope")
	assert.NoError(t, err)
	assert.Zero(t, n)

	//
	// Delete

	n, err = db.DeleteRecord(hello.ID)
	assert.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = db.DeleteRecord(hello.ID)
	assert.NoError(t, err)
	assert.Zero(t, n)

	records, err = db.FindRecords()
	require.NoError(t, err)
	assert.Equal(t, []*model.Record{{ID: other.ID, Data: "other", Username: "bob"}}, records)
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := database.Open(database.Options{Driver: "oracle"})
	assert.EqualError(t, err, "unsupported database driver: oracle")
}
