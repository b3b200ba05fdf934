package activity

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrackerCounts(t *testing.T) {
	tracker := NewTracker()
	require.False(t, tracker.Busy())
	require.Equal(t, 0, tracker.InFlight())

	tracker.Begin()
	tracker.Begin()
	require.True(t, tracker.Busy())
	require.Equal(t, 2, tracker.InFlight())

	tracker.End()
	require.True(t, tracker.Busy())

	tracker.End()
	require.False(t, tracker.Busy())
	require.Equal(t, 0, tracker.InFlight())
}

func TestTrackerNeverNegative(t *testing.T) {
	tracker := NewTracker()
	tracker.End()
	tracker.End()
	require.Equal(t, 0, tracker.InFlight())

	tracker.Begin()
	require.Equal(t, 1, tracker.InFlight())
}

func TestTrackerConcurrent(t *testing.T) {
	tracker := NewTracker()
	const requests = 64

	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Begin()
			require.True(t, tracker.Busy())
			tracker.End()
		}()
	}
	wg.Wait()

	require.False(t, tracker.Busy())
	require.Equal(t, 0, tracker.InFlight())
}

func TestTrackerSubscribe(t *testing.T) {
	tracker := NewTracker()
	updates := tracker.Subscribe()

	tracker.Begin()
	require.True(t, <-updates)

	// A second concurrent request produces no edge.
	tracker.Begin()
	tracker.End()
	select {
	case busy := <-updates:
		t.Fatalf("unexpected notification %v", busy)
	default:
	}

	tracker.End()
	require.False(t, <-updates)
}

func TestTrackerSubscribeCoalesces(t *testing.T) {
	tracker := NewTracker()
	updates := tracker.Subscribe()

	// Two full busy/idle cycles with no receiver; only the latest state
	// survives in the buffer.
	tracker.Begin()
	tracker.End()
	tracker.Begin()
	require.True(t, <-updates)
	tracker.End()
	require.False(t, <-updates)
}
