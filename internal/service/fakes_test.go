package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"doctor_signage/internal/models"
)

// memKV is an in-memory repository.KVStore.
type memKV struct {
	mu      sync.Mutex
	data    map[string]string
	getErr  error
	setErr  error
	setKeys []string
	failed  int
}

func newMemKV() *memKV {
	return &memKV{data: map[string]string{}}
}

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		m.failed++
		return m.setErr
	}
	m.data[key] = value
	m.setKeys = append(m.setKeys, key)
	return nil
}

func (m *memKV) failSets(err error) {
	m.mu.Lock()
	m.setErr = err
	m.mu.Unlock()
}

func (m *memKV) failedSets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failed
}

func (m *memKV) value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *memKV) writes(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, k := range m.setKeys {
		if k == key {
			n++
		}
	}
	return n
}

// recordingEventRepo keeps appended events in memory.
type recordingEventRepo struct {
	mu     sync.Mutex
	events []models.DisplayEvent
}

func (r *recordingEventRepo) Append(_ context.Context, e models.DisplayEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingEventRepo) List(context.Context, time.Time, time.Time, string) ([]models.DisplayEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.DisplayEvent(nil), r.events...), nil
}

func (r *recordingEventRepo) snapshot() []models.DisplayEvent {
	out, _ := r.List(context.Background(), time.Time{}, time.Time{}, "")
	return out
}

// fakeClock hands out tickers the test fires by hand.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Ticker(time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTicker{ch: make(chan time.Time, 1)}
	c.tickers = append(c.tickers, t)
	return t
}

// tick fires the most recently created ticker.
func (c *fakeClock) tick() {
	c.mu.Lock()
	t := c.tickers[len(c.tickers)-1]
	now := c.now
	c.mu.Unlock()
	t.ch <- now
}

func (c *fakeClock) tickerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

type fakeTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (t *fakeTicker) Chan() <-chan time.Time { return t.ch }

func (t *fakeTicker) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

// fetchCall is one pending Fetch the test answers through reply.
type fetchCall struct {
	ctx      context.Context
	deviceID string
	reply    chan FetchOutcome
}

// scriptedFetcher blocks every Fetch until the test replies or ctx ends.
type scriptedFetcher struct {
	calls     chan *fetchCall
	mu        sync.Mutex
	cancelled int
}

func newScriptedFetcher() *scriptedFetcher {
	return &scriptedFetcher{calls: make(chan *fetchCall, 8)}
}

func (f *scriptedFetcher) Fetch(ctx context.Context, deviceID string) FetchOutcome {
	call := &fetchCall{ctx: ctx, deviceID: deviceID, reply: make(chan FetchOutcome, 1)}
	f.calls <- call
	select {
	case out := <-call.reply:
		return out
	case <-ctx.Done():
		return Cancelled()
	}
}

func (f *scriptedFetcher) Cancel() {
	f.mu.Lock()
	f.cancelled++
	f.mu.Unlock()
}

func (f *scriptedFetcher) cancelCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancelled
}

var errBoom = errors.New("boom")

func occupiedSnapshot(name, from, to string) models.ScheduleSnapshot {
	return models.ScheduleSnapshot{
		Status:     models.StatusOccupied,
		DoctorName: name,
		Department: "Cardiology",
		FromTime:   from,
		ToTime:     to,
		Hospital:   models.HospitalDetails{HospitalName: "City Hospital", HelpPhone: "+971 4 000 0000"},
	}
}

func statusSnapshot(status models.ScheduleStatus) models.ScheduleSnapshot {
	return models.ScheduleSnapshot{
		Status:   status,
		Hospital: models.HospitalDetails{HospitalName: "City Hospital"},
	}
}
