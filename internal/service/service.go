package service

import (
	"context"
	"time"

	"doctor_signage/internal/logger"
	"doctor_signage/internal/models"
	"doctor_signage/internal/repository"
)

// Display exposes the read side of the Board.
type Display interface {
	GetDisplay(ctx context.Context) (models.DisplayView, error)
	Subscribe() (<-chan models.DisplayView, func())
}

// EventLog exposes the display transition history with filtering.
type EventLog interface {
	List(ctx context.Context, f EventFilter) ([]models.DisplayEvent, error)
}

// Poller runs the fetch loop. Stop via context cancellation.
type Poller interface {
	Run(ctx context.Context) error
	Stats() SchedulerStats
}

// Service aggregates everything the HTTP layer and main need.
type Service struct {
	Display
	EventLog
	Poller

	Board        *Board
	Connectivity *ConnectivityMonitor // nil when disabled
}

// Options carries the runtime settings that are not storage.
type Options struct {
	BackendURL  string
	APIKey      string
	Location    *time.Location
	Timeout     time.Duration
	Interval    time.Duration
	ErrorPolicy ErrorPolicy

	ProbeEnabled  bool
	ProbeInterval time.Duration
	ProbeTimeout  time.Duration

	Clock Clock
}

// NewService wires the repository layer into the poller and its readers.
func NewService(repos *repository.Repository, opts Options, log *logger.Logger) (*Service, error) {
	if log == nil {
		log = logger.Nop()
	}
	board := NewBoard()
	identity := NewIdentityService(repos.KV)
	fetcher := NewScheduleFetcher(FetcherConfig{
		URL:      opts.BackendURL,
		APIKey:   opts.APIKey,
		Location: opts.Location,
		Timeout:  opts.Timeout,
	}, log)
	scheduler := NewPollScheduler(identity, fetcher, board, SchedulerOptions{
		Interval: opts.Interval,
		Policy:   opts.ErrorPolicy,
		Clock:    opts.Clock,
		Events:   repos.EventRepo,
	}, log)

	svc := &Service{
		Display:  board,
		EventLog: NewEventLogService(repos.EventRepo),
		Poller:   scheduler,
		Board:    board,
	}
	if opts.ProbeEnabled {
		target, err := ProbeTarget(opts.BackendURL)
		if err != nil {
			return nil, err
		}
		svc.Connectivity = NewConnectivityMonitor(target, board, ConnectivityOptions{
			Interval: opts.ProbeInterval,
			Timeout:  opts.ProbeTimeout,
			Clock:    opts.Clock,
		}, log)
	}
	return svc, nil
}
