package server

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/albumkeeper/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.HTTPAddr = "127.0.0.1:0"
	c.GRPCAddr = "127.0.0.1:0"
	c.LogLevel = "error"
	return c
}

func TestNewApp_MemoryWithSeed(t *testing.T) {
	seed := filepath.Join(t.TempDir(), "albums.json")
	require.NoError(t, os.WriteFile(seed, []byte(`[{"albumId":1,"id":1,"title":"a","url":"u","thumbnailUrl":"t"}]`), 0o600))

	c := testConfig()
	c.SeedFile = seed

	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)

	got, err := app.service.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestNewApp_Errors(t *testing.T) {
	c := testConfig()
	c.SeedFile = filepath.Join(t.TempDir(), "missing.json")
	_, err := NewApp(context.Background(), c)
	assert.ErrorContains(t, err, "failed to read seed file")

	c = testConfig()
	c.LogLevel = "loud"
	_, err = NewApp(context.Background(), c)
	assert.Error(t, err)
}

func TestNewApp_Postgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	orig := openDB
	t.Cleanup(func() { openDB = orig })

	var gotDSN string
	openDB = func(ctx context.Context, dsn string) (*sql.DB, error) {
		gotDSN = dsn
		return db, nil
	}

	c := testConfig()
	c.DatabaseDSN = "postgres://feed"
	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, "postgres://feed", gotDSN)

	mock.ExpectClose()
	require.NoError(t, app.Close())
	require.NoError(t, app.Close())
	require.NoError(t, mock.ExpectationsWereMet())

	openDB = func(context.Context, string) (*sql.DB, error) { return nil, errors.New("refused") }
	_, err = NewApp(context.Background(), c)
	assert.EqualError(t, err, "refused")
}

func TestRun_StopsOnCancel(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestRun_EndpointFailureStopsApp(t *testing.T) {
	c := testConfig()
	c.GRPCAddr = "127.0.0.1:99999"

	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)

	select {
	case err := <-runAsync(app):
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

func runAsync(app *App) <-chan error {
	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()
	return done
}
