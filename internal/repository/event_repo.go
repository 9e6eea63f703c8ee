package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"doctor_signage/internal/models"

	"github.com/google/uuid"
)

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

const sqliteTimestampLayout = "2006-01-02 15:04:05"

// Append inserts a new transition. If EventID or OccurredAt are empty, they’re set.
func (r *EventSQLite) Append(ctx context.Context, e models.DisplayEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	} else {
		e.OccurredAt = e.OccurredAt.UTC()
	}

	var reason *string
	if e.Reason != "" {
		reason = &e.Reason
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO display_events (id, occurred_at, device_id, from_kind, to_kind, reason)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		e.EventID,
		e.OccurredAt.Format(sqliteTimestampLayout),
		e.DeviceID,
		string(e.From),
		string(e.To),
		reason,
	)

	return err
}

// List returns transitions filtered by [from, to] (inclusive) and/or target kind, ordered ASC.
func (r *EventSQLite) List(ctx context.Context, from, to time.Time, kind string) ([]models.DisplayEvent, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC().Format(sqliteTimestampLayout))
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC().Format(sqliteTimestampLayout))
	}
	if kind = strings.ToUpper(strings.TrimSpace(kind)); kind != "" {
		conds = append(conds, "to_kind = ?")
		args = append(args, kind)
	}

	q := `SELECT id, occurred_at, device_id, from_kind, to_kind, reason FROM display_events`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.DisplayEvent, 0, 64)
	for rows.Next() {
		var (
			ev       models.DisplayEvent
			at       string
			fromKind string
			toKind   string
			reason   sql.NullString
		)
		if err := rows.Scan(&ev.EventID, &at, &ev.DeviceID, &fromKind, &toKind, &reason); err != nil {
			return nil, err
		}
		ev.OccurredAt = parseSQLiteTime(at)
		ev.From = models.DisplayKind(fromKind)
		ev.To = models.DisplayKind(toKind)
		if reason.Valid {
			ev.Reason = reason.String
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// parseSQLiteTime accepts the layout Append writes and RFC3339 from older rows.
func parseSQLiteTime(s string) time.Time {
	for _, layout := range []string{sqliteTimestampLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
