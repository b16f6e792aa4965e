package async

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelayer_CoalescesRapidTriggers(t *testing.T) {
	d := NewDelayer(50 * time.Millisecond)

	var mu sync.Mutex
	var ran []int
	done := make(chan struct{})

	for i := 1; i <= 5; i++ {
		i := i
		d.Trigger(func() {
			mu.Lock()
			ran = append(ran, i)
			mu.Unlock()
			close(done)
		})
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced task never ran")
	}

	// Give any stale timers a chance to misfire.
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, ran, 1, "exactly one execution expected")
	assert.Equal(t, 5, ran[0], "last registered task wins")
}

func TestDelayer_SeparateWindowsRunSeparately(t *testing.T) {
	d := NewDelayer(10 * time.Millisecond)

	var count atomic.Int32
	run := func() { count.Add(1) }

	d.Trigger(run)
	time.Sleep(60 * time.Millisecond)
	d.Trigger(run)
	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, int32(2), count.Load())
}

func TestDelayer_Cancel(t *testing.T) {
	d := NewDelayer(20 * time.Millisecond)

	var count atomic.Int32
	d.Trigger(func() { count.Add(1) })
	assert.True(t, d.IsTriggered())

	d.Cancel()
	assert.False(t, d.IsTriggered())

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), count.Load())
}

func TestDelayer_ZeroDelaySupersedesPending(t *testing.T) {
	d := NewDelayer(10 * time.Second)

	var count atomic.Int32
	done := make(chan struct{})

	d.Trigger(func() {
		count.Add(100)
	})
	// The zero-delay trigger replaces the pending task before its timer can
	// possibly fire, so only the second task runs.
	d.TriggerAfter(func() {
		count.Add(1)
		close(done)
	}, 0)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("zero-delay task never ran")
	}
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, int32(1), count.Load())
}

func TestDelayer_TriggerAfterOverridesDelay(t *testing.T) {
	d := NewDelayer(10 * time.Second)

	done := make(chan struct{})
	d.TriggerAfter(func() { close(done) }, 10*time.Millisecond)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("explicit delay was not honored")
	}
}
