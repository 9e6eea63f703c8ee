package repository

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"doctor_signage/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

var eventCols = []string{"id", "occurred_at", "device_id", "from_kind", "to_kind", "reason"}

func TestAppend_Success_WithDefaults(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewEventSQLite(db)

	// generated id and timestamp are unknown; match the rest exactly.
	mock.ExpectExec(regexp.QuoteMeta(`
		INSERT INTO display_events (id, occurred_at, device_id, from_kind, to_kind, reason)
		VALUES (?, ?, ?, ?, ?, ?)
	`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "482913", "PAIRING", "OCCUPIED", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Append(ctx(t), models.DisplayEvent{
		DeviceID: "482913",
		From:     models.KindPairing,
		To:       models.KindOccupied,
		Reason:   "success",
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAppend_FormatsTimestampInUTC(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewEventSQLite(db)
	dubai := time.FixedZone("GST", 4*3600)
	at := time.Date(2025, 1, 1, 14, 0, 0, 0, dubai)

	mock.ExpectExec("INSERT INTO display_events").
		WithArgs("e1", "2025-01-01 10:00:00", "482913", "OCCUPIED", "ERROR", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Append(ctx(t), models.DisplayEvent{
		EventID:    "e1",
		OccurredAt: at,
		DeviceID:   "482913",
		From:       models.KindOccupied,
		To:         models.KindError,
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAppend_DBError(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewEventSQLite(db)

	mock.ExpectExec("INSERT INTO display_events").
		WillReturnError(errors.New("down"))

	err = repo.Append(ctx(t), models.DisplayEvent{DeviceID: "1", From: models.KindEmpty, To: models.KindError})
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestList_NoFilters_ParsesRows(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewEventSQLite(db)

	rows := sqlmock.NewRows(eventCols).
		AddRow("1", "2025-01-01 10:00:00", "482913", "PAIRING", "OCCUPIED", "success").
		AddRow("2", "2025-01-01T11:00:00Z", "482913", "OCCUPIED", "ERROR", nil)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, occurred_at, device_id, from_kind, to_kind, reason FROM display_events ORDER BY occurred_at ASC`)).
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), time.Time{}, time.Time{}, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2, got %d", len(got))
	}
	if got[0].EventID != "1" || got[0].To != models.KindOccupied || got[0].Reason != "success" {
		t.Fatalf("unexpected first row: %+v", got[0])
	}
	want := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	if !got[0].OccurredAt.Equal(want) {
		t.Fatalf("occurred_at = %v, want %v", got[0].OccurredAt, want)
	}
	// RFC3339 rows (driver returned time.Time) still parse
	if got[1].OccurredAt.Hour() != 11 || got[1].Reason != "" {
		t.Fatalf("unexpected second row: %+v", got[1])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestList_WithFilters_OrderAndArgs(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewEventSQLite(db)

	from := time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	kind := " error " // normalized to ERROR

	query := `SELECT id, occurred_at, device_id, from_kind, to_kind, reason FROM display_events WHERE occurred_at >= ? AND occurred_at <= ? AND to_kind = ? ORDER BY occurred_at ASC`

	rows := sqlmock.NewRows(eventCols).
		AddRow("2", "2025-01-01 11:00:00", "482913", "OCCUPIED", "ERROR", "http_503").
		AddRow("3", "2025-01-01 12:00:00", "482913", "EMPTY", "ERROR", "network")

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("2025-01-01 11:00:00", "2025-01-01 12:00:00", "ERROR").
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), from, to, kind)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].EventID != "2" || got[1].EventID != "3" {
		t.Fatalf("unexpected results: %+v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestList_ScanError(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewEventSQLite(db)

	// too few columns to force a scan error
	rows := sqlmock.NewRows([]string{"id", "occurred_at"}).AddRow("x", "2025-01-01 10:00:00")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, occurred_at, device_id, from_kind, to_kind, reason FROM display_events ORDER BY occurred_at ASC`)).
		WillReturnRows(rows)

	_, err = repo.List(ctx(t), time.Time{}, time.Time{}, "")
	if err == nil {
		t.Fatalf("expected scan error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}
