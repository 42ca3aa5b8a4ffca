package ui

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for the spinner's animation goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNewSpinner(t *testing.T) {
	s := NewSpinner(&syncBuffer{}, "Adding server")
	assert.Equal(t, SpinnerPending, s.State())
	assert.Zero(t, s.Elapsed())
}

func TestSpinnerSuccess(t *testing.T) {
	var out syncBuffer
	s := NewSpinner(&out, "Adding server")

	s.Start()
	assert.Equal(t, SpinnerInProgress, s.State())
	time.Sleep(20 * time.Millisecond)
	s.Success()

	assert.Equal(t, SpinnerSuccess, s.State())
	assert.Contains(t, out.String(), "Adding server...")
	assert.Contains(t, out.String(), SymbolSuccess+" Adding server")
}

func TestSpinnerFail(t *testing.T) {
	var out syncBuffer
	s := NewSpinner(&out, "Adding server")

	s.Start()
	s.Fail()

	assert.Equal(t, SpinnerFailed, s.State())
	assert.Contains(t, out.String(), SymbolFail+" Adding server")
}

func TestSpinnerRun(t *testing.T) {
	var out syncBuffer
	require.NoError(t, NewSpinner(&out, "ok").Run(func() error { return nil }))
	assert.Contains(t, out.String(), SymbolSuccess+" ok")

	var failed syncBuffer
	boom := errors.New("boom")
	s := NewSpinner(&failed, "bad")
	assert.ErrorIs(t, s.Run(func() error { return boom }), boom)
	assert.Equal(t, SpinnerFailed, s.State())
	assert.Contains(t, failed.String(), SymbolFail+" bad")
}

func TestSpinnerFinishWithoutStart(t *testing.T) {
	var out syncBuffer
	s := NewSpinner(&out, "never started")
	s.Success()

	assert.Equal(t, SpinnerSuccess, s.State())
	assert.Contains(t, out.String(), "0.00s")
}

func TestSpinnerDoubleStart(t *testing.T) {
	s := NewSpinner(&syncBuffer{}, "Test")
	s.Start()
	s.Start()
	s.Success()
	assert.Equal(t, SpinnerSuccess, s.State())
}

func TestSpinnerElapsed(t *testing.T) {
	s := NewSpinner(&syncBuffer{}, "Test")
	s.Start()
	time.Sleep(20 * time.Millisecond)
	assert.GreaterOrEqual(t, s.Elapsed(), 20*time.Millisecond)
	s.Success()
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		want     string
	}{
		{0, "0.00s"},
		{50 * time.Millisecond, "0.05s"},
		{100 * time.Millisecond, "0.1s"},
		{1 * time.Second, "1.0s"},
		{1500 * time.Millisecond, "1.5s"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDuration(tt.duration))
		})
	}
}

func TestSpinnerConcurrentAccess(t *testing.T) {
	s := NewSpinner(&syncBuffer{}, "Test")
	s.Start()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.State()
			_ = s.Elapsed()
		}()
	}

	wg.Wait()
	s.Success()
	require.Equal(t, SpinnerSuccess, s.State())
}
