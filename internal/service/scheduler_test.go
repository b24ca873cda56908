package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRefresher struct {
	calls atomic.Int32
	err   error
}

func (r *stubRefresher) RefreshNow(context.Context) (int, time.Time, error) {
	r.calls.Add(1)
	return 3, fixedNow, r.err
}

func TestNewRefreshScheduler_RejectsBadSpec(t *testing.T) {
	_, err := NewRefreshScheduler("every now and then", &stubRefresher{}, quietLogger())
	assert.Error(t, err)

	_, err = NewRefreshScheduler("0 */6 * * *", &stubRefresher{}, quietLogger())
	assert.NoError(t, err)
}

func TestRefreshScheduler_TickSurvivesFailure(t *testing.T) {
	r := &stubRefresher{err: errors.New("refresh failed")}
	s, err := NewRefreshScheduler("@every 1h", r, quietLogger())
	require.NoError(t, err)

	s.Tick(context.Background())
	s.Tick(context.Background())

	assert.EqualValues(t, 2, r.calls.Load())
}

func TestRefreshScheduler_RunsUntilStopped(t *testing.T) {
	r := &stubRefresher{}
	s, err := NewRefreshScheduler("@every 1s", r, quietLogger())
	require.NoError(t, err)

	done := make(chan error)
	go func() { done <- s.Start(context.Background()) }()

	require.Eventually(t, func() bool { return r.calls.Load() >= 1 }, 3*time.Second, 10*time.Millisecond)
	s.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
