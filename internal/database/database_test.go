package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

func TestNewDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []any{&entities.Book{}, &entities.Genre{}, &entities.BookGenre{}} {
		assert.True(t, db.DB.Migrator().HasTable(table))
	}

	assert.NoError(t, db.Ping(context.Background()))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(config.Database{Driver: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestPing_ClosedDatabase(t *testing.T) {
	db, err := NewDatabase(filepath.Join(t.TempDir(), "closed.db"))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	assert.Error(t, db.Ping(context.Background()))
}

func TestBookBeforeCreate_AssignsID(t *testing.T) {
	db, err := NewDatabase(filepath.Join(t.TempDir(), "ids.db"))
	require.NoError(t, err)
	defer db.Close()

	book := &entities.Book{Title: "T", Author: "A"}
	require.NoError(t, db.DB.Create(book).Error)
	assert.Len(t, book.ID, 36)

	genre := &entities.Genre{Name: "Dark"}
	require.NoError(t, db.DB.Create(genre).Error)
	assert.Len(t, genre.ID, 36)
	assert.NotEqual(t, book.ID, genre.ID)
}
