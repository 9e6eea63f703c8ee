package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"doctor_signage/internal/models"
)

// fakeEventRepo captures List arguments.
type fakeEventRepo struct {
	gotFrom time.Time
	gotTo   time.Time
	gotKind string

	events []models.DisplayEvent
	err    error

	calls int
}

func (f *fakeEventRepo) List(_ context.Context, from, to time.Time, kind string) ([]models.DisplayEvent, error) {
	f.calls++
	f.gotFrom = from
	f.gotTo = to
	f.gotKind = kind
	return f.events, f.err
}

func (f *fakeEventRepo) Append(context.Context, models.DisplayEvent) error {
	return nil
}

func Test_utc(t *testing.T) {
	t.Parallel()

	if got := utc(time.Time{}); !got.IsZero() {
		t.Fatalf("zero time should stay zero, got %v", got)
	}
	in := time.Date(2025, time.August, 1, 12, 34, 56, 0, time.FixedZone("UTC+3", 3*3600))
	got := utc(in)
	want := time.Date(2025, time.August, 1, 9, 34, 56, 0, time.UTC)
	if got.Location() != time.UTC || !got.Equal(want) {
		t.Fatalf("utc(%v) = %v; want %v", in, got, want)
	}
}

func Test_normalizeKind(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		exp     string
		wantErr bool
	}{
		{in: "", exp: ""},
		{in: "  occupied ", exp: "OCCUPIED"},
		{in: "default_screen", exp: "DEFAULT_SCREEN"},
		{in: "Error", exp: "ERROR"},
		{in: "TELEMETRY", wantErr: true},
	}

	for _, c := range cases {
		c := c
		t.Run(c.in, func(t *testing.T) {
			t.Parallel()
			got, err := normalizeKind(c.in)
			if (err != nil) != c.wantErr {
				t.Fatalf("normalizeKind(%q) err = %v; wantErr %v", c.in, err, c.wantErr)
			}
			if got != c.exp {
				t.Fatalf("normalizeKind(%q) = %q; want %q", c.in, got, c.exp)
			}
		})
	}
}

func TestEventLogService_List_DelegatesNormalizedParams(t *testing.T) {
	t.Parallel()

	frepo := &fakeEventRepo{events: []models.DisplayEvent{{EventID: "1"}}}
	svc := NewEventLogService(frepo)

	from := time.Date(2025, time.October, 1, 10, 0, 0, 0, time.FixedZone("UTC+5", 5*3600))
	to := time.Date(2025, time.October, 1, 12, 30, 0, 0, time.FixedZone("UTC-2", -2*3600))

	out, err := svc.List(context.Background(), EventFilter{From: from, To: to, Kind: " error "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].EventID != "1" {
		t.Fatalf("unexpected events: %+v", out)
	}
	if frepo.calls != 1 {
		t.Fatalf("repo List should be called once, got %d", frepo.calls)
	}

	wantFrom := time.Date(2025, time.October, 1, 5, 0, 0, 0, time.UTC)
	wantTo := time.Date(2025, time.October, 1, 14, 30, 0, 0, time.UTC)
	if !frepo.gotFrom.Equal(wantFrom) || frepo.gotFrom.Location() != time.UTC {
		t.Fatalf("repo gotFrom=%v; want %v", frepo.gotFrom, wantFrom)
	}
	if !frepo.gotTo.Equal(wantTo) {
		t.Fatalf("repo gotTo=%v; want %v", frepo.gotTo, wantTo)
	}
	if frepo.gotKind != "ERROR" {
		t.Fatalf("repo gotKind=%q; want %q", frepo.gotKind, "ERROR")
	}
}

func TestEventLogService_List_ValidationErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]EventFilter{
		"from after to": {
			From: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2025, 1, 1, 23, 0, 0, 0, time.UTC),
		},
		"unknown kind": {Kind: "START"},
	}
	for name, f := range cases {
		frepo := &fakeEventRepo{}
		_, err := NewEventLogService(frepo).List(context.Background(), f)
		if !errors.Is(err, ErrInvalidFilter) {
			t.Fatalf("%s: expected ErrInvalidFilter; got %v", name, err)
		}
		if frepo.calls != 0 {
			t.Fatalf("%s: repo should not be called, calls=%d", name, frepo.calls)
		}
	}
}

func TestEventLogService_List_RepoErrorPropagation(t *testing.T) {
	t.Parallel()

	frepo := &fakeEventRepo{err: errors.New("db down")}
	_, err := NewEventLogService(frepo).List(context.Background(), EventFilter{})
	if !errors.Is(err, frepo.err) {
		t.Fatalf("expected repo error to propagate; got %v", err)
	}
}

func TestEventLogService_List_ZeroBoundsPassedAsZero(t *testing.T) {
	t.Parallel()

	frepo := &fakeEventRepo{}
	if _, err := NewEventLogService(frepo).List(context.Background(), EventFilter{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !frepo.gotFrom.IsZero() || !frepo.gotTo.IsZero() || frepo.gotKind != "" {
		t.Fatalf("expected zero bounds and empty kind; got from=%v to=%v kind=%q", frepo.gotFrom, frepo.gotTo, frepo.gotKind)
	}
}
