package client_test

import (
	"bytes"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mdouchement/dma/internal/client"
	"github.com/mdouchement/dma/internal/client/app"
	"github.com/mdouchement/dma/internal/database"
	"github.com/mdouchement/dma/internal/server"
	"github.com/mdouchement/dma/pkg/libdma"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) client.Config {
	filename := filepath.Join(t.TempDir(), "dma.db")

	db, err := database.StormOpen(filename)
	require.NoError(t, err)

	ts := httptest.NewServer(server.EchoEngine(server.IOC{
		Version:       "test",
		Database:      db,
		Logger:        discard(),
		BasePath:      "/api",
		AllowedOrigin: "https://dma.nowhere.lan",
	}))
	t.Cleanup(func() {
		ts.Close()
		db.Close()
	})

	return client.Config{APIURL: ts.URL + "/api"}
}

func discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRecords(t *testing.T) {
	cfg := setup(t)
	require.NoError(t, client.CreateTable(cfg))

	a, err := client.OpenSession(cfg, client.Session{Username: "george", Guest: true}, discard())
	require.NoError(t, err)
	assert.Equal(t, app.Authenticated, a.State().Screen)

	require.NoError(t, client.Insert(a, "hello"))
	require.NoError(t, client.Update(a, 1, "world"))

	var buf bytes.Buffer
	require.NoError(t, client.List(a, &buf))
	assert.Equal(t, "ID  DATA   USERNAME\n1   world  george\n", buf.String())

	filename := filepath.Join(t.TempDir(), "records.pdf")
	require.NoError(t, client.Export(a, "pdf", filename))
	assert.FileExists(t, filename)
	assert.EqualError(t, client.Export(a, "csv", ""), "unsupported export format: csv")

	require.NoError(t, client.Delete(a, 1))
	buf.Reset()
	require.NoError(t, client.List(a, &buf))
	assert.Equal(t, "ID  DATA  USERNAME\n", buf.String())
}

func TestRecords_Unauthenticated(t *testing.T) {
	cfg := setup(t)

	a, err := client.OpenSession(cfg, client.Session{}, discard())
	require.NoError(t, err)
	assert.Equal(t, app.Unauthenticated, a.State().Screen)

	assert.ErrorIs(t, client.Insert(a, "hello"), app.ErrUnauthenticated)
	assert.ErrorIs(t, client.List(a, io.Discard), app.ErrUnauthenticated)
}

func TestPrintRecords(t *testing.T) {
	var buf bytes.Buffer
	err := client.PrintRecords(&buf, []libdma.Record{
		{ID: 1, Data: "hello", Username: "alice"},
		{ID: 12, Data: "a longer line", Username: "bob"},
	})
	require.NoError(t, err)
	assert.Equal(t, ""+
		"ID  DATA           USERNAME\n"+
		"1   hello          alice\n"+
		"12  a longer line  bob\n", buf.String())
}

func TestParseID(t *testing.T) {
	id, err := client.ParseID("42")
	assert.NoError(t, err)
	assert.EqualValues(t, 42, id)

	for _, s := range []string{"", "0", "-1", "abc", "1.5"} {
		_, err = client.ParseID(s)
		assert.EqualError(t, err, "invalid record id: "+s)
	}
}

func TestSignOutRemovesSession(t *testing.T) {
	cfg := setup(t)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() {
		os.Chdir(wd)
	})

	cfg.Passphrase = "la classe"
	session := client.Session{Endpoint: cfg.APIURL, Username: "george", Guest: true}
	require.NoError(t, client.SaveSession(cfg, session))
	require.FileExists(t, ".dma")

	a, err := client.OpenSession(cfg, session, discard())
	require.NoError(t, err)

	a.SignOut()
	assert.Equal(t, app.Unauthenticated, a.State().Screen)
	assert.NoFileExists(t, ".dma")

	assert.NoError(t, client.Logout()) // Already removed
}
