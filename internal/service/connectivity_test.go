package service

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestProbeTarget(t *testing.T) {
	cases := map[string]string{
		"https://api.example.com/api/Schedule/GetScheduleByDeviceCode": "api.example.com:443",
		"http://10.0.0.5/schedule":                                     "10.0.0.5:80",
		"http://localhost:8081/x":                                      "localhost:8081",
	}
	for in, want := range cases {
		got, err := ProbeTarget(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got)
	}

	_, err := ProbeTarget("/relative/only")
	require.Error(t, err)
}

func TestConnectivityMonitor_ProbeUpdatesBoard(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			_ = c.Close()
		}
	}()

	board := NewBoard()
	m := NewConnectivityMonitor(ln.Addr().String(), board, ConnectivityOptions{Timeout: time.Second}, nil)
	require.True(t, m.Probe(context.Background()))
	require.True(t, *board.View().Online)
}

func TestConnectivityMonitor_RunReportsChanges(t *testing.T) {
	var (
		mu sync.Mutex
		up = true
	)
	dial := func(ctx context.Context, network, addr string) (net.Conn, error) {
		mu.Lock()
		defer mu.Unlock()
		if up {
			client, server := net.Pipe()
			_ = server.Close()
			return client, nil
		}
		return nil, errBoom
	}

	board := NewBoard()
	clock := newFakeClock(time.Now())
	m := NewConnectivityMonitor("backend:443", board, ConnectivityOptions{Clock: clock, Dial: dial}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		v := board.View()
		return v.Online != nil && *v.Online
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	up = false
	mu.Unlock()
	require.Eventually(t, func() bool { return clock.tickerCount() == 1 }, time.Second, 5*time.Millisecond)
	clock.tick()

	require.Eventually(t, func() bool { return !*board.View().Online }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}
