package engine

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/gyaneshwarpardhi/topicexplorer/internal/action"
	"github.com/gyaneshwarpardhi/topicexplorer/internal/metrics"
	"github.com/gyaneshwarpardhi/topicexplorer/internal/topic"
)

// Store owns the explorer State. Actions are folded one at a time, in
// arrival order, on a single goroutine; every accepted action publishes
// the new State to subscribers.
type Store struct {
	fold    *workerPool[action.Action, topic.State]
	current atomic.Pointer[topic.State]
	log     *zap.Logger

	mu     sync.Mutex
	subs   map[uint64]chan topic.State
	nextID uint64
	closed bool
}

// NewStore starts the fold from initial. queueDepth bounds how many actions
// may wait; Dispatch blocks rather than drop when the queue is full.
func NewStore(ctx context.Context, initial topic.State, queueDepth int, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	if queueDepth <= 0 {
		queueDepth = 1
	}
	s := &Store{
		log:  log,
		subs: make(map[uint64]chan topic.State),
	}
	s.current.Store(&initial)
	s.fold = newWorkerPool[action.Action, topic.State](ctx, 1, queueDepth, s.apply)
	return s
}

// Dispatch applies a and returns the resulting State. A rejected action
// returns the unchanged State and the reducer's error.
func (s *Store) Dispatch(ctx context.Context, a action.Action) (topic.State, error) {
	return s.fold.Do(ctx, a)
}

// State returns the latest State.
func (s *Store) State() topic.State {
	return *s.current.Load()
}

// Subscribe returns a channel that receives the current State immediately
// and then every newer one. The channel holds only the latest State: a
// slow reader skips intermediate States. Call cancel to unsubscribe.
func (s *Store) Subscribe() (<-chan topic.State, func()) {
	ch := make(chan topic.State, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	ch <- s.State()
	s.mu.Unlock()
	metrics.Subscribers.Inc()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(ch)
				metrics.Subscribers.Dec()
			}
		})
	}
}

// QueueUtilization returns queue used / capacity (0–1).
func (s *Store) QueueUtilization() float64 {
	if s.fold.QueueCap() == 0 {
		return 0
	}
	return float64(s.fold.QueueLen()) / float64(s.fold.QueueCap())
}

// Close stops accepting actions, applies those already queued and closes
// every subscription.
func (s *Store) Close() {
	s.fold.Drain()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
		metrics.Subscribers.Dec()
	}
}

// apply runs on the single fold goroutine.
func (s *Store) apply(_ context.Context, a action.Action) (topic.State, error) {
	prev := s.State()
	kind := "nil"
	if a != nil {
		kind = string(a.Kind())
	}

	next, err := action.Reduce(prev, a)
	if err != nil {
		metrics.ActionsRejected.WithLabelValues(kind).Inc()
		s.log.Warn("action rejected", zap.String("kind", kind), zap.Error(err))
		return prev, err
	}
	if cerr := next.Check(); cerr != nil {
		s.log.Error("state invariant violated", zap.String("kind", kind), zap.Error(cerr))
	}

	s.current.Store(&next)
	metrics.ActionsApplied.WithLabelValues(kind).Inc()
	metrics.HistoryLength.Set(float64(len(next.Topics)))
	metrics.GraphNodes.Set(float64(next.Graph.NodeCount()))
	s.log.Debug("action applied", zap.String("kind", kind), zap.Int("topics", len(next.Topics)))

	s.publish(next)
	return next, nil
}

func (s *Store) publish(st topic.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- st:
		default:
			// Replace the unread State with the newer one.
			select {
			case <-ch:
			default:
			}
			ch <- st
		}
	}
}
