package data

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, Init(dbPath))
	db, err := GetDB(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInitCreatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, Init(dbPath))
	_, err := os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestInitEmptyPath(t *testing.T) {
	assert.Error(t, Init(""))
}

func TestInitIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, Init(dbPath))
	assert.NoError(t, Init(dbPath))
}

func TestNilDB(t *testing.T) {
	assert.ErrorIs(t, SaveModel(nil, &Model{Name: "x"}), errDBNotInitialized)
	_, err := GetModel(nil, "x")
	assert.ErrorIs(t, err, errDBNotInitialized)
	_, err = QueryModels(nil, "", 10)
	assert.ErrorIs(t, err, errDBNotInitialized)
	assert.ErrorIs(t, DeleteModel(nil, "x"), errDBNotInitialized)
}
