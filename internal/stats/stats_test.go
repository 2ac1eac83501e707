package stats

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SmitUplenchwar2687/Cadence/internal/timestep"
)

func quietClock() *timestep.Clock {
	return timestep.New(timestep.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestCollector_CountsCadences(t *testing.T) {
	c := quietClock()
	s := NewCollector()
	s.Attach(c)

	c.Tick(25 * time.Millisecond)
	c.Tick(25 * time.Millisecond)
	c.Tick(100 * time.Millisecond)

	snap := s.Snapshot()
	assert.Equal(t, uint64(3), snap.FixedSteps)
	assert.Equal(t, uint64(3), snap.Frames)
	assert.Equal(t, uint64(3), snap.Renders)
	assert.Equal(t, 100*time.Millisecond, snap.LastFrame)
	assert.Equal(t, 150*time.Millisecond, snap.SimTime)
}

func TestCollector_FPS(t *testing.T) {
	c := quietClock()
	s := NewCollector()
	s.Attach(c)

	for i := 0; i < 50; i++ {
		c.Tick(20 * time.Millisecond)
	}

	assert.InDelta(t, 50.0, s.Snapshot().FPS, 0.001)
}

func TestCollector_LifecycleAndDetach(t *testing.T) {
	c := quietClock()
	s := NewCollector()
	s.Attach(c)

	require.NoError(t, c.Start())
	assert.True(t, s.Snapshot().Running)
	c.Stop()
	assert.False(t, s.Snapshot().Running)

	s.Detach()
	c.Stop()
	snap := s.Snapshot()
	assert.Equal(t, uint64(1), snap.Starts)
	assert.Equal(t, uint64(1), snap.Stops)
}

func TestCollector_ReattachDoesNotDoubleCount(t *testing.T) {
	c := quietClock()
	s := NewCollector()
	s.Attach(c)
	s.Attach(c)

	c.Tick(50 * time.Millisecond)
	assert.Equal(t, uint64(1), s.Snapshot().FixedSteps)
}

func TestCollector_ConcurrentSnapshot(t *testing.T) {
	c := quietClock()
	s := NewCollector()
	s.Attach(c)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_ = s.Snapshot()
		}
	}()
	for i := 0; i < 100; i++ {
		c.Tick(10 * time.Millisecond)
	}
	wg.Wait()

	assert.Equal(t, uint64(20), s.Snapshot().FixedSteps)
}
