// Package cache keeps a local sqlite mirror of the last observed profile
// field values, so a consumer can render something meaningful before the
// first remote snapshot arrives (or while offline).
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/khianvictorycalderon/profilesync/internal/profile/cache/migrations"
)

type Cache struct {
	db *sql.DB
}

// Open creates (or opens) the sqlite database at dsn and applies migrations.
func Open(ctx context.Context, dsn string) (*Cache, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cache open error: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache migration error: %w", err)
	}
	return &Cache{db: db}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (c *Cache) Close() error { return c.db.Close() }

// Put records the last observed value of one field.
func (c *Cache) Put(ctx context.Context, identityID, name, value string) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO fields (identity_id, name, value) VALUES (?, ?, ?)
		ON CONFLICT(identity_id, name) DO UPDATE SET value = excluded.value
	`, identityID, name, value)
	if err != nil {
		return fmt.Errorf("cache put %s.%s: %w", identityID, name, err)
	}
	return nil
}

// Get returns the cached value of one field, reporting presence separately.
func (c *Cache) Get(ctx context.Context, identityID, name string) (string, bool, error) {
	var value string
	err := c.db.QueryRowContext(ctx,
		`SELECT value FROM fields WHERE identity_id = ? AND name = ?`, identityID, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache get %s.%s: %w", identityID, name, err)
	}
	return value, true, nil
}

// Delete drops one cached field.
func (c *Cache) Delete(ctx context.Context, identityID, name string) error {
	_, err := c.db.ExecContext(ctx,
		`DELETE FROM fields WHERE identity_id = ? AND name = ?`, identityID, name)
	if err != nil {
		return fmt.Errorf("cache delete %s.%s: %w", identityID, name, err)
	}
	return nil
}

// Fields returns every cached field for one identity.
func (c *Cache) Fields(ctx context.Context, identityID string) (map[string]string, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT name, value FROM fields WHERE identity_id = ?`, identityID)
	if err != nil {
		return nil, fmt.Errorf("cache list %s: %w", identityID, err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("cache scan: %w", err)
		}
		result[name] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cache rows: %w", err)
	}
	return result, nil
}

// Clear wipes every cached field for one identity (sign-out, deletion).
func (c *Cache) Clear(ctx context.Context, identityID string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM fields WHERE identity_id = ?`, identityID)
	if err != nil {
		return fmt.Errorf("cache clear %s: %w", identityID, err)
	}
	return nil
}
