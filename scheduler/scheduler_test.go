package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestAddTicker_Runs(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()

	var count int32
	s.AddTicker("tick", 10*time.Millisecond, func() {
		atomic.AddInt32(&count, 1)
	})

	time.Sleep(60 * time.Millisecond)
	assert.Greater(t, atomic.LoadInt32(&count), int32(1))
}

func TestAddTicker_ReplaceByName(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()

	var first, second int32
	s.AddTicker("task", 10*time.Millisecond, func() { atomic.AddInt32(&first, 1) })
	s.AddTicker("task", 10*time.Millisecond, func() { atomic.AddInt32(&second, 1) })

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt32(&first))
	assert.Greater(t, atomic.LoadInt32(&second), int32(0))
	assert.Equal(t, []string{"task"}, s.ListTickers())
}

func TestRemove(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()

	var count int32
	s.AddTicker("gone", 10*time.Millisecond, func() { atomic.AddInt32(&count, 1) })
	s.Remove("gone")

	before := atomic.LoadInt32(&count)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, before, atomic.LoadInt32(&count))
	assert.Empty(t, s.ListTickers())
}

func TestPanicRecovered(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()

	var count int32
	s.AddTicker("panicky", 10*time.Millisecond, func() {
		atomic.AddInt32(&count, 1)
		panic("boom")
	})

	// The task keeps its schedule despite panicking every run.
	time.Sleep(60 * time.Millisecond)
	assert.Greater(t, atomic.LoadInt32(&count), int32(1))
}

func TestStopIdempotent(t *testing.T) {
	s := New(zap.NewNop())
	s.AddTicker("t", time.Minute, func() {})
	s.Stop()
	s.Stop()
}
