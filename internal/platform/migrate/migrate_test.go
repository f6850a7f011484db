package migrate_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/phrazzld/studygraph/internal/platform/migrate"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestUpAppliesMigrations(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"00001_create_widgets.sql": {Data: []byte(
			"-- +goose Up\nCREATE TABLE widgets (id INTEGER PRIMARY KEY);\n\n-- +goose Down\nDROP TABLE widgets;\n")},
		"00002_add_name.sql": {Data: []byte(
			"-- +goose Up\nALTER TABLE widgets ADD COLUMN name TEXT;\n\n-- +goose Down\nSELECT 1;\n")},
	}
	db := openDB(t)
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))

	version, err := migrate.Up(context.Background(), db, goose.DialectSQLite3, fsys, log)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	_, err = db.Exec(`INSERT INTO widgets (id, name) VALUES (1, 'a')`)
	require.NoError(t, err)

	// a second run is a no-op
	version, err = migrate.Up(context.Background(), db, goose.DialectSQLite3, fsys, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
}

func TestUpNilDB(t *testing.T) {
	t.Parallel()

	_, err := migrate.Up(context.Background(), nil, goose.DialectSQLite3, fstest.MapFS{}, nil)
	assert.ErrorIs(t, err, migrate.ErrNilDB)
}

func TestUpBrokenMigration(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"00001_broken.sql": {Data: []byte("-- +goose Up\nCREATE TABL nope;\n")},
	}
	_, err := migrate.Up(context.Background(), openDB(t), goose.DialectSQLite3, fsys, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to apply migrations")
}
