package service

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"doctor_signage/internal/logger"
)

const (
	defaultProbeInterval = 15 * time.Second
	defaultProbeTimeout  = 3 * time.Second
)

// DialFunc matches net.Dialer.DialContext.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// ConnectivityMonitor probes the backend host over TCP and publishes the
// result on the Board. It never touches DisplayState.
type ConnectivityMonitor struct {
	target   string
	dial     DialFunc
	board    *Board
	clock    Clock
	interval time.Duration
	timeout  time.Duration
	log      *logger.Logger
}

type ConnectivityOptions struct {
	Interval time.Duration
	Timeout  time.Duration
	Clock    Clock
	Dial     DialFunc
}

// ProbeTarget derives host:port from the backend URL.
func ProbeTarget(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse backend url: %w", err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("backend url %q has no host", rawURL)
	}
	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "https":
			port = "443"
		default:
			port = "80"
		}
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}

func NewConnectivityMonitor(target string, board *Board, opts ConnectivityOptions, log *logger.Logger) *ConnectivityMonitor {
	if opts.Interval <= 0 {
		opts.Interval = defaultProbeInterval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultProbeTimeout
	}
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.Dial == nil {
		opts.Dial = (&net.Dialer{}).DialContext
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ConnectivityMonitor{
		target:   target,
		dial:     opts.Dial,
		board:    board,
		clock:    opts.Clock,
		interval: opts.Interval,
		timeout:  opts.Timeout,
		log:      log.Named("connectivity"),
	}
}

// Run probes once immediately, then on every tick until ctx is cancelled.
func (m *ConnectivityMonitor) Run(ctx context.Context) {
	t := m.clock.Ticker(m.interval)
	defer t.Stop()

	last := m.Probe(ctx)
	m.log.Infow("connectivity_initial", "target", m.target, "online", last)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.Chan():
			online := m.Probe(ctx)
			if online != last {
				m.log.Infow("connectivity_changed", "target", m.target, "online", online)
				last = online
			}
		}
	}
}

// Probe dials the target once and records the result.
func (m *ConnectivityMonitor) Probe(ctx context.Context) bool {
	pctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	conn, err := m.dial(pctx, "tcp", m.target)
	online := err == nil
	if conn != nil {
		_ = conn.Close()
	}
	if ctx.Err() != nil {
		return online
	}
	m.board.SetOnline(online)
	return online
}
