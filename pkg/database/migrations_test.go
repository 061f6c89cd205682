package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMigrations(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestLoadMigrations_Order(t *testing.T) {
	dir := writeMigrations(t, map[string]string{
		"002_add_index.up.sql":       "CREATE INDEX x;",
		"001_create_movies.up.sql":   "CREATE TABLE movies;",
		"001_create_movies.down.sql": "DROP TABLE movies;",
		"002_add_index.down.sql":     "DROP INDEX x;",
		"README.md":                  "ignored",
	})

	up, err := LoadMigrations(dir, MigrateUp)
	require.NoError(t, err)
	require.Len(t, up, 2)
	assert.Equal(t, "001_create_movies", up[0].Name)
	assert.Equal(t, "CREATE TABLE movies;", up[0].SQL)
	assert.Equal(t, "002_add_index", up[1].Name)

	down, err := LoadMigrations(dir, MigrateDown)
	require.NoError(t, err)
	require.Len(t, down, 2)
	assert.Equal(t, "002_add_index", down[0].Name)
	assert.Equal(t, "DROP TABLE movies;", down[1].SQL)
}

func TestLoadMigrations_Errors(t *testing.T) {
	_, err := LoadMigrations(t.TempDir(), "sideways")
	assert.Error(t, err)

	_, err = LoadMigrations(t.TempDir(), MigrateUp)
	assert.Error(t, err)
}

func TestLoadMigrations_Repository(t *testing.T) {
	up, err := LoadMigrations(filepath.Join("..", "..", "migrations"), MigrateUp)
	require.NoError(t, err)
	require.NotEmpty(t, up)
	assert.Contains(t, up[0].SQL, "CREATE TABLE IF NOT EXISTS movies")
}
