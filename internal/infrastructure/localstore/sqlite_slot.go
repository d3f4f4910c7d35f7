package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

var _ Slot = (*SQLiteSlot)(nil)

// SQLiteSlot guarda los slots en una tabla SQLite.
type SQLiteSlot struct {
	db *sql.DB
}

// NewSQLiteSlot abre (o crea) la base en path y asegura el esquema.
func NewSQLiteSlot(path string) (*SQLiteSlot, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("crear directorio: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	// SQLite admite un solo escritor.
	db.SetMaxOpenConns(1)

	const schema = `
	CREATE TABLE IF NOT EXISTS slots (
		name       TEXT PRIMARY KEY,
		data       BLOB NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("crear tabla slots: %w", err)
	}
	return &SQLiteSlot{db: db}, nil
}

// Load lee el blob del slot.
func (s *SQLiteSlot) Load(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM slots WHERE name = ?`, name).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("leer slot %q: %w", name, err)
	}
	return data, nil
}

// Save reemplaza el blob del slot.
func (s *SQLiteSlot) Save(ctx context.Context, name string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO slots (name, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		name, data)
	if err != nil {
		return fmt.Errorf("escribir slot %q: %w", name, err)
	}
	return nil
}

// Close cierra la base.
func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}
