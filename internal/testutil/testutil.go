package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/folio/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// A single connection is kept so every query sees the same in-memory database.
func NewTestDB(t *testing.T) *sql.DB {
	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), sqlDB), "failed to apply migrations")
	return sqlDB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// InsertUser creates a user row and returns its ID.
func InsertUser(t *testing.T, sqlDB *sql.DB, username string) string {
	id := uuid.NewString()
	_, err := sqlDB.Exec(`INSERT INTO users (id, username, password_hash) VALUES (?, ?, ?)`, id, username, "x")
	require.NoError(t, err)
	return id
}

// InsertFolder creates a folder owned by userID and returns its ID.
func InsertFolder(t *testing.T, sqlDB *sql.DB, userID, name string) string {
	id := uuid.NewString()
	_, err := sqlDB.Exec(`INSERT INTO folders (id, user_id, name, created_at) VALUES (?, ?, ?, ?)`, id, userID, name, time.Now().UTC())
	require.NoError(t, err)
	return id
}

// InsertCard creates a card in folderID and returns its ID.
func InsertCard(t *testing.T, sqlDB *sql.DB, folderID, question string, learned bool) string {
	id := uuid.NewString()
	_, err := sqlDB.Exec(`INSERT INTO cards (id, folder_id, question, answer, is_learned, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, folderID, question, question+" (answer)", learned, time.Now().UTC())
	require.NoError(t, err)
	return id
}
