package planner

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultQueueDepth  = 64
	defaultMaxAttempts = 4
	defaultBaseDelay   = 250 * time.Millisecond
)

// mirrorOp is one pending remote mirror operation: a document write when
// write is set, a document delete otherwise.
type mirrorOp struct {
	write      bool
	collection string
	docID      string
	task       any
}

// MirrorQueue drains remote mirror operations on a background worker with
// bounded backoff. Enqueue never blocks the caller: a full queue drops the
// operation with a log line, keeping user-visible latency independent of
// backend availability.
type MirrorQueue struct {
	remote RemoteAPI
	log    *zap.Logger

	ops         chan mirrorOp
	maxAttempts int
	baseDelay   time.Duration

	mu      sync.Mutex
	started bool
	closed  bool
	wg      sync.WaitGroup
}

// NewMirrorQueue builds a queue over remoteAPI. depth <= 0 selects the
// default queue depth.
func NewMirrorQueue(remoteAPI RemoteAPI, log *zap.Logger, depth int) *MirrorQueue {
	if log == nil {
		log = zap.NewNop()
	}
	if depth <= 0 {
		depth = defaultQueueDepth
	}
	return &MirrorQueue{
		remote:      remoteAPI,
		log:         log,
		ops:         make(chan mirrorOp, depth),
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
	}
}

// Start launches the background worker. Re-entrant calls are no-ops.
func (q *MirrorQueue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.started = true
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for {
			select {
			case op, ok := <-q.ops:
				if !ok {
					return
				}
				q.apply(ctx, op)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Enqueue adds op to the queue. Drops and logs when the queue is full or
// already stopped.
func (q *MirrorQueue) Enqueue(op mirrorOp) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.log.Warn("mirror queue stopped, dropping operation", zap.String("doc", op.docID))
		return
	}

	select {
	case q.ops <- op:
	default:
		q.log.Warn("mirror queue full, dropping operation",
			zap.String("collection", op.collection), zap.String("doc", op.docID))
	}
}

// Stop closes the queue and waits until pending operations drain.
func (q *MirrorQueue) Stop() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	started := q.started
	close(q.ops)
	q.mu.Unlock()
	if started {
		q.wg.Wait()
	}
}

// apply runs one operation with bounded backoff. A final failure is
// logged and swallowed: the local store remains the source of truth.
func (q *MirrorQueue) apply(ctx context.Context, op mirrorOp) {
	var err error
	for attempt := 0; attempt < q.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(q.baseDelay << (attempt - 1)):
			case <-ctx.Done():
				return
			}
		}
		if op.write {
			err = q.remote.Write(ctx, op.collection, op.docID, op.task)
		} else {
			err = q.remote.Delete(ctx, op.collection, op.docID)
		}
		if err == nil {
			return
		}
	}
	q.log.Warn("remote mirror operation abandoned",
		zap.String("collection", op.collection),
		zap.String("doc", op.docID),
		zap.Bool("write", op.write),
		zap.Error(err))
}
