package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"doctor_signage/internal/models"
	"doctor_signage/internal/repository"
)

// EventFilter narrows the display transition history.
type EventFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Kind string    // "", "PAIRING", "OCCUPIED", "DEFAULT_SCREEN", "ERROR", "EMPTY"
}

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

var (
	errInvalidTimeRange = errors.New("invalid time range: From must be <= To")
	errUnknownKind      = errors.New("unknown display kind")
)

// ErrInvalidFilter wraps every filter validation failure.
var ErrInvalidFilter = errors.New("invalid event filter")

func utc(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func normalizeKind(s string) (string, error) {
	k := strings.TrimSpace(strings.ToUpper(s))
	switch models.DisplayKind(k) {
	case "", models.KindPairing, models.KindOccupied, models.KindDefaultScreen, models.KindError, models.KindEmpty:
		return k, nil
	}
	return "", errUnknownKind
}

func normalizeFilter(f EventFilter) (EventFilter, error) {
	out := EventFilter{From: utc(f.From), To: utc(f.To)}
	if !out.From.IsZero() && !out.To.IsZero() && out.From.After(out.To) {
		return EventFilter{}, errors.Join(ErrInvalidFilter, errInvalidTimeRange)
	}
	kind, err := normalizeKind(f.Kind)
	if err != nil {
		return EventFilter{}, errors.Join(ErrInvalidFilter, err)
	}
	out.Kind = kind
	return out, nil
}

func (s *EventLogService) List(ctx context.Context, f EventFilter) ([]models.DisplayEvent, error) {
	nf, err := normalizeFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, nf.From, nf.To, nf.Kind)
}
