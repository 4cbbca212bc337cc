package personalization

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists profiles to a single-table sqlite database. The
// schema treats context_lines as a JSON-encoded array, matching the
// store's opaque-to-SenseBoard contract.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if needed) the profiles database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("personalization: open sqlite: %w", err)
	}
	const schema = `CREATE TABLE IF NOT EXISTS profiles (
		name_key TEXT PRIMARY KEY,
		display_name TEXT NOT NULL DEFAULT '',
		context_lines TEXT NOT NULL DEFAULT '[]',
		updated_at INTEGER NOT NULL DEFAULT 0
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("personalization: migrate schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, nameKey string) (Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT display_name, context_lines, updated_at FROM profiles WHERE name_key = ?`, nameKey)
	var displayName, linesJSON string
	var updatedAtMs int64
	switch err := row.Scan(&displayName, &linesJSON, &updatedAtMs); err {
	case nil:
		var lines []string
		_ = json.Unmarshal([]byte(linesJSON), &lines)
		return Profile{
			NameKey:      nameKey,
			DisplayName:  displayName,
			ContextLines: lines,
			UpdatedAt:    time.UnixMilli(updatedAtMs),
		}, nil
	case sql.ErrNoRows:
		return Profile{NameKey: nameKey}, nil
	default:
		return Profile{}, fmt.Errorf("personalization: get %q: %w", nameKey, err)
	}
}

func (s *SQLiteStore) Append(ctx context.Context, nameKey, displayName, line string) (Profile, error) {
	existing, err := s.Get(ctx, nameKey)
	if err != nil {
		return Profile{}, err
	}
	if displayName != "" {
		existing.DisplayName = displayName
	}
	if line != "" {
		existing.ContextLines = append(existing.ContextLines, line)
		if len(existing.ContextLines) > MaxContextLines {
			existing.ContextLines = existing.ContextLines[len(existing.ContextLines)-MaxContextLines:]
		}
	}
	existing.UpdatedAt = time.Now()

	linesJSON, err := json.Marshal(existing.ContextLines)
	if err != nil {
		return Profile{}, fmt.Errorf("personalization: marshal context lines: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profiles (name_key, display_name, context_lines, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name_key) DO UPDATE SET
			display_name = excluded.display_name,
			context_lines = excluded.context_lines,
			updated_at = excluded.updated_at
	`, nameKey, existing.DisplayName, string(linesJSON), existing.UpdatedAt.UnixMilli())
	if err != nil {
		return Profile{}, fmt.Errorf("personalization: append %q: %w", nameKey, err)
	}
	return existing, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
