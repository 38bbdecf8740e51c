package keylock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second

func done(t *testing.T, ch <-chan struct{}, msg string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(waitFor):
		t.Fatal(msg)
	}
}

func TestAcquireRelease(t *testing.T) {
	l := New()

	l.Acquire("alice")
	assert.True(t, l.Held("alice"))
	assert.Equal(t, 0, l.Pending("alice"))

	l.Release("alice")
	assert.False(t, l.Held("alice"))
}

func TestDisjointKeysDoNotBlock(t *testing.T) {
	l := New()
	l.Acquire("alice")
	defer l.Release("alice")

	finished := make(chan struct{})
	go func() {
		l.Acquire("bob")
		l.Release("bob")
		close(finished)
	}()

	done(t, finished, "acquire on an unrelated key blocked")
}

func TestWaitersGrantedInArrivalOrder(t *testing.T) {
	l := New()
	l.Acquire("k")

	const n = 8
	var (
		mu    sync.Mutex
		order []int
		wg    sync.WaitGroup
	)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			l.Acquire("k")
			mu.Lock()
			order = append(order, id)
			mu.Unlock()
			l.Release("k")
		}(i)

		// Pin arrival order before launching the next waiter.
		want := i + 1
		require.Eventually(t, func() bool { return l.Pending("k") == want }, waitFor, time.Millisecond)
	}

	l.Release("k")
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, order)
	assert.False(t, l.Held("k"))
}

func TestReleaseHandsOwnershipToNextWaiter(t *testing.T) {
	l := New()
	l.Acquire("k")

	acquired := make(chan struct{})
	proceed := make(chan struct{})
	go func() {
		l.Acquire("k")
		close(acquired)
		<-proceed
		l.Release("k")
	}()

	require.Eventually(t, func() bool { return l.Pending("k") == 1 }, waitFor, time.Millisecond)
	l.Release("k")
	done(t, acquired, "waiter was not woken by release")

	assert.True(t, l.Held("k"), "key must stay held across the handoff")
	assert.Equal(t, 0, l.Pending("k"))

	close(proceed)
	require.Eventually(t, func() bool { return !l.Held("k") }, waitFor, time.Millisecond)
}

func TestMultiKeyAcquiresInSortedOrder(t *testing.T) {
	l := New()
	l.Acquire("bob")

	acquired := make(chan struct{})
	go func() {
		// Caller order is bob, alice; the lock must take alice first.
		l.Acquire("bob", "alice")
		close(acquired)
	}()

	require.Eventually(t, func() bool { return l.Pending("bob") == 1 }, waitFor, time.Millisecond)
	assert.True(t, l.Held("alice"))

	l.Release("bob")
	done(t, acquired, "multi-key acquire did not complete")

	assert.True(t, l.Held("alice"))
	assert.True(t, l.Held("bob"))
	l.Release("alice", "bob")
	assert.False(t, l.Held("alice"))
	assert.False(t, l.Held("bob"))
}

func TestOppositeOrderMultiKeyDoesNotDeadlock(t *testing.T) {
	l := New()

	const rounds = 500
	var wg sync.WaitGroup
	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			l.Acquire("a", "b")
			l.Release("a", "b")
		}()
		go func() {
			defer wg.Done()
			l.Acquire("b", "a")
			l.Release("b", "a")
		}()
	}

	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()
	done(t, finished, "opposite-order multi-key acquires deadlocked")
}

func TestMutualExclusion(t *testing.T) {
	l := New()

	const workers, iterations = 20, 200
	counter := 0
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				l.Acquire("counter")
				counter++
				l.Release("counter")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, workers*iterations, counter)
}

func TestDuplicateKeysCollapsed(t *testing.T) {
	l := New()

	finished := make(chan struct{})
	go func() {
		l.Acquire("a", "a", "b")
		l.Release("b", "a", "a")
		close(finished)
	}()
	done(t, finished, "duplicate keys self-deadlocked")

	assert.False(t, l.Held("a"))
	assert.False(t, l.Held("b"))
}

func TestReleaseUnheldPanics(t *testing.T) {
	l := New()
	assert.Panics(t, func() { l.Release("ghost") })
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{nil, nil},
		{[]string{"x"}, []string{"x"}},
		{[]string{"receiver", "giver"}, []string{"giver", "receiver"}},
		{[]string{"b", "a", "b", "c", "a"}, []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalize(tt.in))
	}
}
