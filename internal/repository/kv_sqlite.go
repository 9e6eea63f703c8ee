package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type KVSQLite struct {
	db *sql.DB
}

func NewKVSQLite(db *sql.DB) *KVSQLite {
	return &KVSQLite{db: db}
}

// Ensure implementation of KVStore interface at compile time.
var _ KVStore = (*KVSQLite)(nil)

const (
	upsertKVSQL = `
		INSERT INTO device_kv (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value=excluded.value,
			updated_at=excluded.updated_at
	`

	selectKVSQL = `SELECT value FROM device_kv WHERE key=?`
)

// Set overwrites the value stored under key.
func (r *KVSQLite) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, upsertKVSQL, key, value, time.Now().UTC())
	return err
}

// Get returns the value under key; found is false when no row exists.
func (r *KVSQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	if err := r.db.QueryRowContext(ctx, selectKVSQL, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}
