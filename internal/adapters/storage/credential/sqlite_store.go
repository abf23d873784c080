package credential

import (
	"context"
	"database/sql"
	"time"

	"reservas/internal/adapters/storage"
)

// slotKey names the single row used for the credential, kept identical to the
// storage location earlier client versions used.
const slotKey = "jwt_token"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new credential slot store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Load retrieves the stored credential.
// PRE: none
// POST: Returns "" with a nil error when the slot is empty
func (s *SQLiteStore) Load(ctx context.Context) (string, error) {
	row := s.db.QueryRowContext(ctx, "SELECT credential FROM credential_slot WHERE slot = ?", slotKey)
	var cred string
	err := row.Scan(&cred)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return cred, err
}

// Save overwrites the slot with the given credential.
// PRE: credential is non-empty
// POST: The slot holds exactly the given value
func (s *SQLiteStore) Save(ctx context.Context, credential string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO credential_slot (slot, credential, updated_at) VALUES (?, ?, ?) ON CONFLICT(slot) DO UPDATE SET credential=excluded.credential, updated_at=excluded.updated_at",
		slotKey, credential, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// Clear empties the slot.
// PRE: none
// POST: The slot is empty; clearing an empty slot is a no-op
func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM credential_slot WHERE slot = ?", slotKey)
	return err
}
