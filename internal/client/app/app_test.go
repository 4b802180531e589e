package app_test

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mdouchement/dma/internal/client/app"
	"github.com/mdouchement/dma/pkg/libdma"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI is an in-memory dma server.
type fakeAPI struct {
	sync.Mutex
	records []libdma.Record
	nextID  int64
	err     error
	calls   []string
}

func (f *fakeAPI) Endpoint() string { return "https://dma.nowhere.lan/api" }

func (f *fakeAPI) CreateTable() error { return f.err }

func (f *fakeAPI) Records() ([]libdma.Record, error) {
	f.Lock()
	defer f.Unlock()
	f.calls = append(f.calls, "records")
	if f.err != nil {
		return nil, f.err
	}
	return append([]libdma.Record(nil), f.records...), nil
}

func (f *fakeAPI) Insert(data, username string) (libdma.Record, error) {
	f.Lock()
	defer f.Unlock()
	f.calls = append(f.calls, "insert")
	if f.err != nil {
		return libdma.Record{}, f.err
	}
	f.nextID++
	r := libdma.Record{ID: f.nextID, Data: data, Username: username}
	f.records = append(f.records, r)
	return r, nil
}

func (f *fakeAPI) Update(id int64, data string) error {
	f.Lock()
	defer f.Unlock()
	f.calls = append(f.calls, "update")
	if f.err != nil {
		return f.err
	}
	for i := range f.records {
		if f.records[i].ID == id {
			f.records[i].Data = data
		}
	}
	return nil
}

func (f *fakeAPI) Delete(id int64) error {
	f.Lock()
	defer f.Unlock()
	f.calls = append(f.calls, "delete")
	if f.err != nil {
		return f.err
	}
	for i := range f.records {
		if f.records[i].ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			break
		}
	}
	return nil
}

func setup() (*app.App, *fakeAPI) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	api := &fakeAPI{}
	return app.New(api, app.WithLogger(log)), api
}

func TestSignInGuest(t *testing.T) {
	a, api := setup()
	api.records = []libdma.Record{{ID: 1, Data: "hello", Username: "alice"}}

	assert.Equal(t, app.Unauthenticated, a.State().Screen)
	a.ToggleGuestField()
	assert.True(t, a.State().GuestFieldVisible)

	for _, name := range []string{"", "   ", "\t\n"} {
		assert.Equal(t, app.ErrEmptyGuestName, a.SignInGuest(name))

		s := a.State()
		assert.Equal(t, app.Unauthenticated, s.Screen)
		assert.Empty(t, s.Username)
		assert.Equal(t, app.ErrEmptyGuestName, s.Err)
	}
	assert.Empty(t, api.calls)

	assert.NoError(t, a.SignInGuest("george"))
	s := a.State()
	assert.Equal(t, app.Authenticated, s.Screen)
	assert.Equal(t, "george", s.Username)
	assert.True(t, s.Guest)
	assert.False(t, s.GuestFieldVisible)
	assert.NoError(t, s.Err)
	assert.Equal(t, api.records, s.Records)
	assert.Equal(t, []string{"records"}, api.calls)
}

func TestSignInFederated(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	a := app.New(&fakeAPI{}, app.WithLogger(log), app.WithIdentifier(func(credential string) (libdma.Identity, error) {
		if credential != "good" {
			return libdma.Identity{}, errors.New("invalid credential")
		}
		return libdma.Identity{Subject: "42", Name: "George Abitbol"}, nil
	}))

	assert.EqualError(t, a.SignInFederated("bad"), "invalid credential")
	assert.Equal(t, app.Unauthenticated, a.State().Screen)
	assert.EqualError(t, a.State().Err, "error signing in: invalid credential")

	assert.NoError(t, a.SignInFederated("good"))
	s := a.State()
	assert.Equal(t, app.Authenticated, s.Screen)
	assert.Equal(t, "George Abitbol", s.Username)
	assert.False(t, s.Guest)
	assert.NoError(t, s.Err)
}

func TestSignOut(t *testing.T) {
	a, _ := setup()
	require.NoError(t, a.SignInGuest("george"))
	a.SetInput("pending")

	a.SignOut()
	assert.Equal(t, app.State{}, a.State())
	assert.Equal(t, app.ErrUnauthenticated, a.Fetch())
	assert.Equal(t, app.ErrUnauthenticated, a.Insert())
	assert.Equal(t, app.ErrUnauthenticated, a.Delete(1))
	assert.Equal(t, app.ErrUnauthenticated, a.OpenUpdate(1, "hello"))
}

func TestSignOutHook(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	var n int
	a := app.New(&fakeAPI{}, app.WithLogger(log), app.WithSignOut(func() error {
		n++
		return errors.New("read-only file system")
	}))
	require.NoError(t, a.SignInGuest("george"))

	a.SignOut()
	assert.Equal(t, 1, n)
	assert.Equal(t, app.Unauthenticated, a.State().Screen)
}

func TestFetchFailureKeepsRecords(t *testing.T) {
	a, api := setup()
	api.records = []libdma.Record{{ID: 1, Data: "hello", Username: "alice"}}
	require.NoError(t, a.SignInGuest("george"))

	api.err = errors.New("connection refused")
	assert.Error(t, a.Fetch())

	s := a.State()
	assert.Equal(t, []libdma.Record{{ID: 1, Data: "hello", Username: "alice"}}, s.Records)
	assert.EqualError(t, s.Err, "error fetching data: connection refused")

	api.err = nil
	assert.NoError(t, a.Fetch())
	assert.NoError(t, a.State().Err)
}

func TestInsert(t *testing.T) {
	a, api := setup()
	require.NoError(t, a.SignInGuest("alice"))

	assert.Equal(t, app.ErrEmptyData, a.Insert())

	a.SetInput("hello")
	assert.NoError(t, a.Insert())

	s := a.State()
	assert.Empty(t, s.Input)
	assert.Equal(t, "Data inserted", s.Status)
	assert.Equal(t, []libdma.Record{{ID: 1, Data: "hello", Username: "alice"}}, s.Records)
	assert.Equal(t, []string{"records", "insert", "records"}, api.calls)

	api.err = errors.New("Error inserting data")
	a.SetInput("world")
	assert.Error(t, a.Insert())

	s = a.State()
	assert.Equal(t, "world", s.Input) // Kept for retry
	assert.EqualError(t, s.Err, "error submitting data: Error inserting data")
	assert.Len(t, s.Records, 1)
}

func TestUpdate(t *testing.T) {
	a, api := setup()
	api.records = []libdma.Record{
		{ID: 1, Data: "hello", Username: "alice"},
		{ID: 2, Data: "other", Username: "bob"},
	}
	require.NoError(t, a.SignInGuest("alice"))

	assert.Equal(t, app.ErrNoUpdateInProgress, a.SubmitUpdate())

	require.NoError(t, a.OpenUpdate(1, "hello"))
	assert.Equal(t, app.UpdateForm{Open: true, ID: 1, Data: "hello"}, a.State().Update)

	a.SetUpdateData("world")
	api.err = errors.New("Error updating data")
	assert.Error(t, a.SubmitUpdate())
	assert.Equal(t, app.UpdateForm{Open: true, ID: 1, Data: "world"}, a.State().Update) // Still open

	api.err = nil
	assert.NoError(t, a.SubmitUpdate())

	s := a.State()
	assert.Equal(t, app.UpdateForm{}, s.Update)
	assert.Equal(t, []libdma.Record{
		{ID: 1, Data: "world", Username: "alice"},
		{ID: 2, Data: "other", Username: "bob"},
	}, s.Records)

	require.NoError(t, a.OpenUpdate(2, "other"))
	a.CancelUpdate()
	assert.False(t, a.State().Update.Open)
}

func TestDelete(t *testing.T) {
	a, api := setup()
	api.records = []libdma.Record{
		{ID: 1, Data: "hello", Username: "alice"},
		{ID: 2, Data: "other", Username: "bob"},
	}
	require.NoError(t, a.SignInGuest("alice"))

	assert.NoError(t, a.Delete(1))
	assert.Equal(t, []libdma.Record{{ID: 2, Data: "other", Username: "bob"}}, a.State().Records)

	assert.NoError(t, a.Delete(42)) // Unknown record
	assert.Equal(t, []libdma.Record{{ID: 2, Data: "other", Username: "bob"}}, a.State().Records)

	api.err = errors.New("Error deleting data")
	assert.Error(t, a.Delete(2))
	assert.EqualError(t, a.State().Err, "error deleting data: Error deleting data")
	assert.Len(t, a.State().Records, 1)
}

func TestExport(t *testing.T) {
	a, api := setup()
	api.records = []libdma.Record{{ID: 1, Data: "hello", Username: "alice"}}
	require.NoError(t, a.SignInGuest("alice"))

	api.err = errors.New("offline") // Export never reaches the server
	dir := t.TempDir()

	spreadsheet := filepath.Join(dir, "records.xlsx")
	assert.NoError(t, a.ExportSpreadsheet(spreadsheet))
	assert.FileExists(t, spreadsheet)
	assert.Equal(t, "Exported to "+spreadsheet, a.State().Status)

	document := filepath.Join(dir, "records.pdf")
	assert.NoError(t, a.ExportDocument(document))
	assert.FileExists(t, document)

	assert.Error(t, a.ExportDocument(filepath.Join(dir, "missing", "records.pdf")))
	assert.Error(t, a.State().Err)

	_, err := os.Stat(filepath.Join(dir, "missing"))
	assert.True(t, os.IsNotExist(err))
}

func TestOnChange(t *testing.T) {
	a, _ := setup()

	var n int
	a.OnChange(func() {
		n++
		_ = a.State() // Must not deadlock
	})

	a.ToggleGuestField()
	a.SetGuestName("george")
	assert.Equal(t, 2, n)
}
