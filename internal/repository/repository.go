package repository

import (
	"context"
	"database/sql"
	"time"

	"doctor_signage/internal/models"
)

// KVStore is the durable key-value layer behind the identity store.
// Get reports found=false with a nil error when the key is absent.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

type EventRepo interface {
	Append(ctx context.Context, e models.DisplayEvent) error
	List(ctx context.Context, from, to time.Time, kind string) ([]models.DisplayEvent, error)
}

type Repository struct {
	KV        KVStore
	EventRepo EventRepo
}

// NewRepository keeps both the KV and the event log in the SQLite file.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		KV:        NewKVSQLite(db),
		EventRepo: NewEventSQLite(db),
	}
}

// WithKV swaps the KV backend, keeping the event log where it is.
func (r *Repository) WithKV(kv KVStore) *Repository {
	return &Repository{KV: kv, EventRepo: r.EventRepo}
}
