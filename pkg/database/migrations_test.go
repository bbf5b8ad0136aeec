package database

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openMemory(t *testing.T) *DB {
	t.Helper()
	db, err := New(Config{Path: MemoryPath}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrator_RunEmbedded(t *testing.T) {
	db := openMemory(t)
	migrator := NewMigrator(db, zap.NewNop())

	require.NoError(t, migrator.RunEmbedded())
	// Second run is a no-op
	require.NoError(t, migrator.RunEmbedded())

	for _, table := range []string{"case_records", "settings", "dependencies", "templates", "agents", "users"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, "table %s", table)
	}

	var applied int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.Equal(t, 1, applied)
}

func TestMigrator_OrderAndFailure(t *testing.T) {
	db := openMemory(t)
	migrator := NewMigrator(db, zap.NewNop())

	fsys := fstest.MapFS{
		"002_add_column.sql": {Data: []byte("ALTER TABLE things ADD COLUMN label TEXT;")},
		"001_things.sql":     {Data: []byte("CREATE TABLE things (id INTEGER PRIMARY KEY);")},
		"README.md":          {Data: []byte("ignored")},
	}
	require.NoError(t, migrator.Run(fsys))

	_, err := db.Exec("INSERT INTO things (label) VALUES ('ok')")
	assert.NoError(t, err)

	broken := fstest.MapFS{"003_broken.sql": {Data: []byte("CREATE TABLE")}}
	err = migrator.Run(broken)
	assert.Error(t, err)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = 3").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestLoadMigrations_InvalidName(t *testing.T) {
	_, err := loadMigrations(fstest.MapFS{"initial.sql": {Data: []byte("SELECT 1;")}})
	assert.Error(t, err)
}
