package cmd

import (
	"context"
	"errors"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTransport blocks in Start until Shutdown releases it.
type stubTransport struct {
	startErr   error
	shutdowns  atomic.Int32
	releaseCh  chan struct{}
	startedCh  chan struct{}
	shutdownEr error
}

func newStubTransport() *stubTransport {
	return &stubTransport{
		releaseCh: make(chan struct{}),
		startedCh: make(chan struct{}),
	}
}

func (s *stubTransport) Start(addr string) error {
	close(s.startedCh)
	if s.startErr != nil {
		return s.startErr
	}
	<-s.releaseCh
	return nil
}

func (s *stubTransport) Shutdown(ctx context.Context) error {
	s.shutdowns.Add(1)
	close(s.releaseCh)
	return s.shutdownEr
}

func TestServeWithShutdownPropagatesStartError(t *testing.T) {
	transport := newStubTransport()
	transport.startErr = errors.New("address already in use")

	err := serveWithShutdown(transport, ":0")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "address already in use")
	assert.Equal(t, int32(0), transport.shutdowns.Load())
}

func TestServeWithShutdownDrainsOnSignal(t *testing.T) {
	transport := newStubTransport()

	done := make(chan error, 1)
	go func() {
		done <- serveWithShutdown(transport, ":0")
	}()

	// Wait for the transport to be serving before signalling, so the
	// signal arrives while NotifyContext is listening.
	select {
	case <-transport.startedCh:
	case <-time.After(2 * time.Second):
		t.Fatal("transport never started")
	}
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serveWithShutdown did not return after signal")
	}
	assert.Equal(t, int32(1), transport.shutdowns.Load())
}

func TestServeWithShutdownReportsShutdownError(t *testing.T) {
	transport := newStubTransport()
	transport.shutdownEr = errors.New("drain failed")

	done := make(chan error, 1)
	go func() {
		done <- serveWithShutdown(transport, ":0")
	}()

	<-transport.startedCh
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGINT))

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "drain failed")
	case <-time.After(5 * time.Second):
		t.Fatal("serveWithShutdown did not return after signal")
	}
}