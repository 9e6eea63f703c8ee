package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"doctor_signage/internal/logger"
	"doctor_signage/internal/models"

	"github.com/go-resty/resty/v2"
)

// Fetcher performs one schedule request per call. A new call supersedes the
// previous one; Cancel aborts whatever is in flight.
type Fetcher interface {
	Fetch(ctx context.Context, deviceID string) FetchOutcome
	Cancel()
}

type FetcherConfig struct {
	URL      string
	APIKey   string
	Location *time.Location
	Timeout  time.Duration
	Now      func() time.Time // defaults to time.Now
}

// ScheduleFetcher calls GetScheduleByDeviceCode.
type ScheduleFetcher struct {
	client  *resty.Client
	url     string
	loc     *time.Location
	timeout time.Duration
	now     func() time.Time
	log     *logger.Logger

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

func NewScheduleFetcher(cfg FetcherConfig, log *logger.Logger) *ScheduleFetcher {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("fetcher")
	client := resty.New().
		SetLogger(log).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Api-Key", cfg.APIKey)

	return &ScheduleFetcher{
		client:  client,
		url:     cfg.URL,
		loc:     cfg.Location,
		timeout: cfg.Timeout,
		now:     cfg.Now,
		log:     log,
	}
}

// begin invalidates the previous request and returns a context for the new one.
func (f *ScheduleFetcher) begin(parent context.Context) (context.Context, uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		f.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	f.seq++
	f.cancel = cancel
	return ctx, f.seq
}

func (f *ScheduleFetcher) finish(seq uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seq == seq && f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

// IsCurrent reports whether seq belongs to the most recent Fetch call.
func (f *ScheduleFetcher) IsCurrent(seq uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seq == seq
}

func (f *ScheduleFetcher) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

func (f *ScheduleFetcher) Fetch(ctx context.Context, deviceID string) FetchOutcome {
	reqCtx, seq := f.begin(ctx)
	defer f.finish(seq)

	out := f.do(reqCtx, seq, deviceID)
	out.Seq = seq
	return out
}

func (f *ScheduleFetcher) do(ctx context.Context, seq uint64, deviceID string) FetchOutcome {
	bucket := models.TimeBucket(f.now(), f.loc)

	cancelled := ctx
	if f.timeout > 0 {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, f.timeout)
		defer stop()
	}

	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"deviceCode":  deviceID,
			"currentTime": bucket,
		}).
		Get(f.url)

	if err != nil {
		if cancelled.Err() != nil || errors.Is(err, context.Canceled) {
			f.log.Debugw("fetch_cancelled", "seq", seq)
			return Cancelled()
		}
		f.log.Warnw("fetch_network_error", "seq", seq, "err", err)
		return NetworkError(err)
	}
	if !f.IsCurrent(seq) {
		f.log.Debugw("fetch_superseded", "seq", seq)
		return Cancelled()
	}
	if resp.StatusCode() != http.StatusOK {
		f.log.Warnw("fetch_http_error", "seq", seq, "status", resp.StatusCode())
		return HTTPError(resp.StatusCode())
	}

	snap, err := models.ParseSchedule(resp.Body())
	if err != nil {
		f.log.Warnw("fetch_malformed", "seq", seq, "err", err)
		return Malformed(err)
	}
	out := Classify(snap, bucket)
	f.log.Debugw("fetch_ok", "seq", seq, "status", int(snap.Status), "effective", int(out.Effective), "bucket", bucket)
	return out
}
