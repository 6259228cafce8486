package queue

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"docscan/internal/logger"
)

// JobRunner executes the OCR job for one document id.
type JobRunner interface {
	Run(ctx context.Context, docID string) error
}

// Queue schedules document OCR jobs. Ids drain in FIFO order through a
// single worker, so no two document runs ever overlap. Enqueue is
// idempotent against work already scheduled: an id that is currently
// running or already pending is not added again.
type Queue struct {
	runner JobRunner
	log    zerolog.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	pending []string
	queued  map[string]struct{}
	running string
	stopped bool

	startOnce sync.Once
}

// New creates a queue over the given job runner. Call Start to launch the
// worker.
func New(runner JobRunner) *Queue {
	q := &Queue{
		runner: runner,
		log:    logger.WithComponent("queue"),
		queued: make(map[string]struct{}),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Start launches the worker goroutine. The worker drains pending ids until
// ctx is canceled; starting twice is a no-op.
func (q *Queue) Start(ctx context.Context) {
	q.startOnce.Do(func() {
		go func() {
			<-ctx.Done()
			q.mu.Lock()
			q.stopped = true
			q.cond.Broadcast()
			q.mu.Unlock()
		}()
		go q.work(ctx)
	})
}

// Enqueue schedules a document for OCR. If the id is currently running or
// already waiting, the call is a no-op.
func (q *Queue) Enqueue(docID string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.running == docID {
		q.log.Debug().Str("doc_id", docID).Msg("already running, ignoring enqueue")
		return
	}
	if _, ok := q.queued[docID]; ok {
		q.log.Debug().Str("doc_id", docID).Msg("already pending, ignoring enqueue")
		return
	}

	q.pending = append(q.pending, docID)
	q.queued[docID] = struct{}{}
	q.log.Info().Str("doc_id", docID).Int("pending", len(q.pending)).Msg("document enqueued")
	q.cond.Broadcast()
}

// Resume nudges the worker after the host process returns to the
// foreground. Pending ids are drained as usual; documents left in the
// running state by an interruption are not re-enqueued automatically.
func (q *Queue) Resume() {
	q.mu.Lock()
	pending := len(q.pending)
	q.cond.Broadcast()
	q.mu.Unlock()

	q.log.Info().Int("pending", pending).Msg("queue resumed")
}

// Wait blocks until the queue is idle: no running job and nothing pending.
func (q *Queue) Wait() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for !q.stopped && (q.running != "" || len(q.pending) > 0) {
		q.cond.Wait()
	}
}

// Pending returns the waiting ids in drain order.
func (q *Queue) Pending() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]string, len(q.pending))
	copy(out, q.pending)
	return out
}

func (q *Queue) work(ctx context.Context) {
	q.mu.Lock()
	for {
		for len(q.pending) == 0 && !q.stopped {
			q.cond.Wait()
		}
		if q.stopped {
			q.mu.Unlock()
			return
		}

		docID := q.pending[0]
		q.pending = q.pending[1:]
		delete(q.queued, docID)
		q.running = docID
		q.mu.Unlock()

		// A failed run must not take down the worker; the queue simply
		// advances to the next pending id.
		if err := q.runner.Run(ctx, docID); err != nil {
			q.log.Error().Err(err).Str("doc_id", docID).Msg("document job failed")
		}

		q.mu.Lock()
		q.running = ""
		q.cond.Broadcast()
	}
}
