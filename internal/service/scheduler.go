package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"doctor_signage/internal/logger"
	"doctor_signage/internal/models"
	"doctor_signage/internal/repository"

	"github.com/google/uuid"
)

const defaultPollInterval = 30 * time.Second

// Identity is the slice of the identity store the scheduler needs.
type Identity interface {
	GetOrCreateDeviceID(ctx context.Context) (models.DeviceIdentity, error)
	CachedHospitalDetails(ctx context.Context) (models.HospitalDetails, string, bool, error)
	SaveHospitalDetails(ctx context.Context, details models.HospitalDetails) error
}

// SchedulerStats counts fetch results as seen by the loop.
type SchedulerStats struct {
	Issued    uint64
	Applied   uint64
	Discarded uint64
}

type SchedulerOptions struct {
	Interval time.Duration
	Policy   ErrorPolicy
	Clock    Clock
	Worker   *PersistWorker
	Events   repository.EventRepo // optional
}

// PollScheduler drives Fetcher on a fixed cadence and feeds results through
// Reducer into the Board.
type PollScheduler struct {
	identity Identity
	fetcher  Fetcher
	board    *Board
	reducer  Reducer
	events   repository.EventRepo
	worker   *PersistWorker
	clock    Clock
	interval time.Duration
	log      *logger.Logger

	// owned by the loop goroutine
	deviceID string
	issued   uint64

	// last hospital blob handed to storage; cleared when that write fails
	hospitalMu sync.Mutex
	cachedRaw  string

	inflight  sync.WaitGroup
	applied   atomic.Uint64
	discarded atomic.Uint64
	issuedN   atomic.Uint64
}

type taggedOutcome struct {
	tag uint64
	out FetchOutcome
}

func NewPollScheduler(identity Identity, fetcher Fetcher, board *Board, opts SchedulerOptions, log *logger.Logger) *PollScheduler {
	if opts.Interval <= 0 {
		opts.Interval = defaultPollInterval
	}
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if opts.Worker == nil {
		opts.Worker = NewPersistWorker(0, 0, log)
	}
	return &PollScheduler{
		identity: identity,
		fetcher:  fetcher,
		board:    board,
		reducer:  Reducer{Policy: opts.Policy},
		events:   opts.Events,
		worker:   opts.Worker,
		clock:    opts.Clock,
		interval: opts.Interval,
		log:      log.Named("scheduler"),
	}
}

func (s *PollScheduler) Stats() SchedulerStats {
	return SchedulerStats{
		Issued:    s.issuedN.Load(),
		Applied:   s.applied.Load(),
		Discarded: s.discarded.Load(),
	}
}

// Run blocks until ctx is cancelled. It returns an error only when the device
// identity cannot be established.
func (s *PollScheduler) Run(ctx context.Context) error {
	s.board.SetPhase(models.PhaseInitializing)

	id, err := s.identity.GetOrCreateDeviceID(ctx)
	if err != nil {
		s.log.Errorw("identity_bootstrap_failed", "err", err)
		s.board.SetState(models.ErrorState{Reason: ReasonStorage}, ReasonStorage)
		s.board.SetPhase(models.PhaseStopped)
		return err
	}
	s.deviceID = id.ID
	s.board.SetDevice(id.ID)
	s.loadCachedHospital(ctx)

	go s.worker.Run()
	defer s.worker.Close()

	fetchCtx, cancelFetches := context.WithCancel(ctx)
	defer cancelFetches()

	results := make(chan taggedOutcome)
	ticker := s.clock.Ticker(s.interval)
	defer ticker.Stop()

	s.board.SetPhase(models.PhasePolling)
	s.log.Infow("polling_started", "device_id", s.deviceID, "interval", s.interval.String())
	s.issue(fetchCtx, results)

	for {
		select {
		case <-ctx.Done():
			ticker.Stop()
			cancelFetches()
			s.fetcher.Cancel()
			s.inflight.Wait()
			s.board.SetPhase(models.PhaseStopped)
			st := s.Stats()
			s.log.Infow("polling_stopped", "issued", st.Issued, "applied", st.Applied, "discarded", st.Discarded)
			return nil
		case <-ticker.Chan():
			s.issue(fetchCtx, results)
		case r := <-results:
			s.apply(r)
		}
	}
}

func (s *PollScheduler) loadCachedHospital(ctx context.Context) {
	details, raw, found, err := s.identity.CachedHospitalDetails(ctx)
	if err != nil {
		s.log.Warnw("hospital_cache_read_failed", "err", err)
		return
	}
	if !found {
		return
	}
	s.setCachedRaw(raw)
	s.board.SetHospital(details)
}

func (s *PollScheduler) cachedHospitalRaw() string {
	s.hospitalMu.Lock()
	defer s.hospitalMu.Unlock()
	return s.cachedRaw
}

func (s *PollScheduler) setCachedRaw(raw string) {
	s.hospitalMu.Lock()
	s.cachedRaw = raw
	s.hospitalMu.Unlock()
}

// forgetCachedRaw clears the cache only if it still holds raw.
func (s *PollScheduler) forgetCachedRaw(raw string) {
	s.hospitalMu.Lock()
	if s.cachedRaw == raw {
		s.cachedRaw = ""
	}
	s.hospitalMu.Unlock()
}

func (s *PollScheduler) saveHospital(details models.HospitalDetails, raw string) {
	s.setCachedRaw(raw)
	queued := s.worker.Enqueue("save_hospital_details", func(ctx context.Context) error {
		err := s.identity.SaveHospitalDetails(ctx, details)
		if err != nil {
			s.forgetCachedRaw(raw)
		}
		return err
	})
	if !queued {
		s.forgetCachedRaw(raw)
	}
}

func (s *PollScheduler) issue(ctx context.Context, results chan<- taggedOutcome) {
	s.issued++
	tag := s.issued
	deviceID := s.deviceID
	s.issuedN.Add(1)

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		out := s.fetcher.Fetch(ctx, deviceID)
		select {
		case results <- taggedOutcome{tag: tag, out: out}:
		case <-ctx.Done():
		}
	}()
}

func (s *PollScheduler) apply(r taggedOutcome) {
	if r.tag != s.issued {
		s.discarded.Add(1)
		s.log.Debugw("stale_outcome_discarded", "tag", r.tag, "current", s.issued, "kind", string(r.out.Kind))
		return
	}
	if r.out.Kind == OutcomeCancelled {
		s.discarded.Add(1)
		return
	}
	s.applied.Add(1)

	prev := s.board.State()
	tr := s.reducer.Reduce(prev, r.out, s.cachedHospitalRaw())
	s.board.SetState(tr.Next, r.out.Reason())

	if tr.WriteHospital {
		s.board.SetHospital(tr.Hospital)
		s.saveHospital(tr.Hospital, tr.Serialized)
	}

	if !tr.Changed {
		return
	}
	s.log.Infow("display_changed", "from", string(prev.Kind()), "to", string(tr.Next.Kind()), "outcome", r.out.Reason())
	if prev.Kind() != tr.Next.Kind() {
		s.recordTransition(prev, tr.Next, r.out)
	}
}

func (s *PollScheduler) recordTransition(prev, next models.DisplayState, o FetchOutcome) {
	if s.events == nil {
		return
	}
	ev := models.DisplayEvent{
		EventID:    uuid.NewString(),
		OccurredAt: s.clock.Now().UTC(),
		DeviceID:   s.deviceID,
		From:       prev.Kind(),
		To:         next.Kind(),
		Reason:     o.Reason(),
	}
	s.worker.Enqueue("append_display_event", func(ctx context.Context) error {
		return s.events.Append(ctx, ev)
	})
}
