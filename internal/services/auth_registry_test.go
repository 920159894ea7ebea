package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_GetReusesContext(t *testing.T) {
	s := newAuthStack(t, false)
	r := NewAuthContextRegistry(s.newContext, time.Minute)

	a := r.Get("client-1")
	assert.Same(t, a, r.Get("client-1"))
	assert.NotSame(t, a, r.Get("client-2"))
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_SweepEvictsIdle(t *testing.T) {
	s := newAuthStack(t, false)
	r := NewAuthContextRegistry(s.newContext, time.Minute)

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	stale := r.Get("stale")
	now = now.Add(50 * time.Second)
	r.Get("fresh")
	now = now.Add(20 * time.Second)

	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 1, r.Len())
	assert.NotSame(t, stale, r.Get("stale"))
}

func TestRegistry_StartStop(t *testing.T) {
	s := newAuthStack(t, false)
	r := NewAuthContextRegistry(s.newContext, time.Nanosecond)
	r.Get("client-1")

	r.Start(time.Millisecond)
	require.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, 5*time.Millisecond)

	r.Stop()
	r.Wait()
	r.Stop()
}
