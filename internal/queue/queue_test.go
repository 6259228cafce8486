package queue_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"docscan/internal/queue"
)

// blockingRunner records executed ids and optionally holds each run until
// released, so tests can observe the queue mid-flight.
type blockingRunner struct {
	mu      sync.Mutex
	runs    []string
	release chan struct{}
	errs    map[string]error
}

func newBlockingRunner() *blockingRunner {
	return &blockingRunner{errs: make(map[string]error)}
}

func (r *blockingRunner) Run(ctx context.Context, docID string) error {
	r.mu.Lock()
	r.runs = append(r.runs, docID)
	release := r.release
	r.mu.Unlock()

	if release != nil {
		<-release
	}
	return r.errs[docID]
}

func (r *blockingRunner) Runs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.runs))
	copy(out, r.runs)
	return out
}

func TestQueue_DrainsInFIFOOrder(t *testing.T) {
	runner := newBlockingRunner()
	q := queue.New(runner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q.Enqueue("a")
	q.Enqueue("b")
	q.Enqueue("c")
	q.Start(ctx)
	q.Wait()

	require.Equal(t, []string{"a", "b", "c"}, runner.Runs())
}

func TestQueue_EnqueueWhileRunningIsNoOp(t *testing.T) {
	runner := newBlockingRunner()
	runner.release = make(chan struct{})
	q := queue.New(runner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q.Start(ctx)
	q.Enqueue("a")

	// Wait until "a" is actually running, then enqueue it again.
	require.Eventually(t, func() bool {
		return len(runner.Runs()) == 1
	}, time.Second, 5*time.Millisecond)

	q.Enqueue("a")
	q.Enqueue("a")
	require.Empty(t, q.Pending())

	close(runner.release)
	q.Wait()

	require.Equal(t, []string{"a"}, runner.Runs())
}

func TestQueue_PendingIsDeduplicated(t *testing.T) {
	runner := newBlockingRunner()
	runner.release = make(chan struct{})
	q := queue.New(runner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q.Start(ctx)
	q.Enqueue("a")
	require.Eventually(t, func() bool {
		return len(runner.Runs()) == 1
	}, time.Second, 5*time.Millisecond)

	q.Enqueue("b")
	q.Enqueue("b")
	q.Enqueue("c")
	require.Equal(t, []string{"b", "c"}, q.Pending())

	close(runner.release)
	q.Wait()

	require.Equal(t, []string{"a", "b", "c"}, runner.Runs())
}

func TestQueue_RunnerErrorDoesNotStopWorker(t *testing.T) {
	runner := newBlockingRunner()
	runner.errs["a"] = errors.New("document not found")
	q := queue.New(runner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q.Enqueue("a")
	q.Enqueue("b")
	q.Start(ctx)
	q.Wait()

	require.Equal(t, []string{"a", "b"}, runner.Runs())
}

func TestQueue_ResumeIsSafeAnytime(t *testing.T) {
	runner := newBlockingRunner()
	q := queue.New(runner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q.Resume()
	q.Start(ctx)
	q.Enqueue("a")
	q.Resume()
	q.Wait()

	require.Equal(t, []string{"a"}, runner.Runs())
}
