package search_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"go-directory/internal/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	fetched []string
	results []search.Result[string]
}

func (r *recorder) fetchedQueries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.fetched...)
}

func (r *recorder) delivered() []search.Result[string] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]search.Result[string](nil), r.results...)
}

func (r *recorder) deliver(res search.Result[string]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

func TestDebouncer_BurstFetchesLastQueryOnly(t *testing.T) {
	rec := &recorder{}
	d := search.New(20*time.Millisecond, func(ctx context.Context, q string) (string, error) {
		rec.mu.Lock()
		rec.fetched = append(rec.fetched, q)
		rec.mu.Unlock()
		return "result:" + q, nil
	}, rec.deliver)
	defer d.Close()

	for _, q := range []string{"a", "ad", "ada"} {
		d.Trigger(q)
	}

	require.Eventually(t, func() bool { return len(rec.delivered()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, []string{"ada"}, rec.fetchedQueries())
	got := rec.delivered()
	require.Len(t, got, 1)
	assert.Equal(t, "result:ada", got[0].Value)
	assert.Equal(t, uint64(1), got[0].Seq)
}

func TestDebouncer_DiscardsSupersededResponse(t *testing.T) {
	rec := &recorder{}
	slowStarted := make(chan struct{})
	slowCancelled := make(chan struct{})

	d := search.New(10*time.Millisecond, func(ctx context.Context, q string) (string, error) {
		if q == "slow" {
			close(slowStarted)
			<-ctx.Done()
			close(slowCancelled)
			// respond anyway, as a server that ignores cancellation would
			return "result:slow", nil
		}
		return "result:" + q, nil
	}, rec.deliver)
	defer d.Close()

	d.Trigger("slow")
	select {
	case <-slowStarted:
	case <-time.After(time.Second):
		t.Fatal("slow fetch never started")
	}

	d.Trigger("fast")

	select {
	case <-slowCancelled:
	case <-time.After(time.Second):
		t.Fatal("superseded fetch was not cancelled")
	}
	require.Eventually(t, func() bool { return len(rec.delivered()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	got := rec.delivered()
	require.Len(t, got, 1)
	assert.Equal(t, "fast", got[0].Query)
	assert.Equal(t, uint64(2), got[0].Seq)
}

func TestDebouncer_CloseDropsPendingTrigger(t *testing.T) {
	rec := &recorder{}
	d := search.New(30*time.Millisecond, func(ctx context.Context, q string) (string, error) {
		rec.mu.Lock()
		rec.fetched = append(rec.fetched, q)
		rec.mu.Unlock()
		return q, nil
	}, rec.deliver)

	d.Trigger("ada")
	d.Close()
	d.Trigger("grace")

	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, rec.fetchedQueries())
	assert.Empty(t, rec.delivered())
}

func TestDebouncer_DefaultDelay(t *testing.T) {
	start := time.Now()
	done := make(chan time.Duration, 1)
	d := search.New(0, func(ctx context.Context, q string) (string, error) {
		return q, nil
	}, func(search.Result[string]) { done <- time.Since(start) })
	defer d.Close()

	d.Trigger("x")

	select {
	case elapsed := <-done:
		assert.GreaterOrEqual(t, elapsed, search.DefaultDelay)
	case <-time.After(2 * time.Second):
		t.Fatal("no result delivered")
	}
}
