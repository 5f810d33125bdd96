package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gyaneshwarpardhi/topicexplorer/internal/action"
	"github.com/gyaneshwarpardhi/topicexplorer/internal/config"
	"github.com/gyaneshwarpardhi/topicexplorer/internal/event"
	"github.com/gyaneshwarpardhi/topicexplorer/internal/metrics"
	"github.com/gyaneshwarpardhi/topicexplorer/internal/topic"
	"github.com/gyaneshwarpardhi/topicexplorer/internal/wiki"
)

// ErrBusy is returned when the lookup queue cannot take an exploration.
var ErrBusy = errors.New("lookup queue full")

// Lookup is the external encyclopedia. Links reports a nonexistent page with
// an error for which wiki.IsNotFound is true.
type Lookup interface {
	Search(ctx context.Context, query string) (string, error)
	Links(ctx context.Context, title string) ([]string, error)
}

// lookupRef lets a Lookup interface value live in an atomic.Pointer.
type lookupRef struct{ Lookup }

// Engine maps boundary events to actions and feeds them to the Store.
//
// Explorations share one slot: starting one cancels the exploration in
// flight, and only the newest exploration's result is ever dispatched.
type Engine struct {
	ctx     context.Context
	store   *Store
	lookup  atomic.Pointer[lookupRef]
	pool    *workerPool[*exploration, struct{}]
	timeout time.Duration
	log     *zap.Logger

	newSession func() string

	mu       sync.Mutex
	gen      uint64
	inflight *exploration
}

type exploration struct {
	gen         uint64
	kind        event.Type
	query       string
	parentIndex int
	ctx         context.Context
	cancel      context.CancelFunc
}

// New creates an Engine on top of store and starts the lookup workers.
// ctx bounds the engine's lifetime; dispatches the engine makes on its own
// behalf use it rather than a caller's request context.
func New(ctx context.Context, store *Store, l Lookup, conf config.ExplorerConf, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{
		ctx:        ctx,
		store:      store,
		timeout:    time.Duration(conf.LookupTimeoutMs) * time.Millisecond,
		log:        log,
		newSession: uuid.NewString,
	}
	if e.timeout <= 0 {
		e.timeout = 20 * time.Second
	}
	e.lookup.Store(&lookupRef{l})
	e.pool = newWorkerPool[*exploration, struct{}](
		ctx,
		max(conf.LookupWorkers, 1),
		max(conf.LookupQueueDepth, 1),
		func(_ context.Context, x *exploration) (struct{}, error) {
			e.run(x)
			return struct{}{}, nil
		},
	)
	return e
}

// Store returns the underlying state stream.
func (e *Engine) Store() *Store {
	return e.store
}

// SwapLookup atomically replaces the encyclopedia client (used on hot-reload).
// Explorations already running keep the client they started with.
func (e *Engine) SwapLookup(l Lookup) {
	e.lookup.Store(&lookupRef{l})
}

// Handle maps ev to actions. Synchronous events are applied before Handle
// returns; exploration events return the State after loading has been
// marked, and apply their result later.
func (e *Engine) Handle(ctx context.Context, ev *event.Event) (topic.State, error) {
	a, err := event.ToAction(ev)
	switch {
	case err == nil:
		return e.store.Dispatch(ctx, a)
	case errors.Is(err, event.ErrAsync):
		return e.explore(ev)
	default:
		return e.store.State(), err
	}
}

// Loading reports whether an exploration is in flight.
func (e *Engine) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inflight != nil
}

func (e *Engine) explore(ev *event.Event) (topic.State, error) {
	if err := event.CheckExploration(ev); err != nil {
		return e.store.State(), err
	}

	kind := ev.Type
	if kind == event.TypeKeySubmit {
		kind = event.TypeSubmitTopic
	}
	x := &exploration{kind: kind, query: ev.ExplorationQuery()}
	if kind == event.TypeSubtopicClick {
		x.parentIndex = *ev.TopicIndex
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.inflight != nil {
		e.inflight.cancel()
		metrics.ExplorationsSuperseded.Inc()
		e.log.Debug("exploration superseded", zap.String("query", e.inflight.query), zap.String("by", x.query))
		e.inflight = nil
	}
	e.gen++
	x.gen = e.gen
	x.ctx, x.cancel = context.WithTimeout(e.ctx, e.timeout)

	st, err := e.store.Dispatch(e.ctx, action.SetLoading{Loading: true})
	if err != nil {
		x.cancel()
		return st, err
	}

	if !e.pool.Submit(x) {
		x.cancel()
		metrics.Explorations.WithLabelValues(string(kind), "busy").Inc()
		st, _ = e.store.Dispatch(e.ctx, action.LookupFailed{Query: x.query, Reason: "too many explorations in progress, try again"})
		return st, ErrBusy
	}
	e.inflight = x
	return st, nil
}

// run executes on a lookup worker.
func (e *Engine) run(x *exploration) {
	l := e.lookup.Load().Lookup
	start := time.Now()

	var t topic.Topic
	var err error
	switch x.kind {
	case event.TypeSubtopicClick:
		t, err = fetchSubtopic(x.ctx, l, x.query)
	default:
		t, err = fetchRoot(x.ctx, l, x.query)
	}
	x.cancel()

	e.finish(x, t, err, time.Since(start))
}

func (e *Engine) finish(x *exploration, t topic.Topic, err error, took time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if x.gen != e.gen {
		metrics.Explorations.WithLabelValues(string(x.kind), "superseded").Inc()
		return
	}
	e.inflight = nil

	var a action.Action
	if err != nil {
		metrics.Explorations.WithLabelValues(string(x.kind), "failed").Inc()
		e.log.Info("exploration failed", zap.String("kind", string(x.kind)), zap.String("query", x.query),
			zap.Duration("took", took), zap.Error(err))
		a = action.LookupFailed{Query: x.query, Reason: Describe(x.query, err)}
	} else {
		metrics.Explorations.WithLabelValues(string(x.kind), "ok").Inc()
		e.log.Info("exploration done", zap.String("kind", string(x.kind)), zap.String("title", t.Title),
			zap.Int("subtopics", len(t.Subtopics)), zap.Duration("took", took))
		if x.kind == event.TypeSubtopicClick {
			a = action.AppendTopic{Topic: t, ParentIndex: x.parentIndex}
		} else {
			a = action.SetRootTopic{Topic: t, Session: e.newSession()}
		}
	}

	if _, derr := e.store.Dispatch(e.ctx, a); derr != nil {
		// A rejected AppendTopic leaves loading set; the clicked topic is
		// no longer in the history.
		_, _ = e.store.Dispatch(e.ctx, action.LookupFailed{Query: x.query, Reason: fmt.Sprintf("cannot explore %q from here", x.query)})
	}
}

// Shutdown cancels the exploration in flight and stops the lookup workers.
// The Store is left open.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	if e.inflight != nil {
		e.inflight.cancel()
	}
	e.mu.Unlock()
	e.pool.Drain()
}

func fetchRoot(ctx context.Context, l Lookup, query string) (topic.Topic, error) {
	title, err := timed(ctx, "search", func(ctx context.Context) (string, error) { return l.Search(ctx, query) })
	if err != nil {
		return topic.Topic{}, err
	}
	links, err := timed(ctx, "links", func(ctx context.Context) ([]string, error) { return l.Links(ctx, title) })
	if err != nil {
		return topic.Topic{}, err
	}
	return topic.Topic{Title: title, Subtopics: links}, nil
}

// fetchSubtopic looks up the clicked text as an exact title, falling back
// to a search when no such page exists.
func fetchSubtopic(ctx context.Context, l Lookup, text string) (topic.Topic, error) {
	links, err := timed(ctx, "links", func(ctx context.Context) ([]string, error) { return l.Links(ctx, text) })
	if err == nil {
		return topic.Topic{Title: text, Subtopics: links}, nil
	}
	if !wiki.IsNotFound(err) {
		return topic.Topic{}, err
	}
	return fetchRoot(ctx, l, text)
}

func timed[T any](ctx context.Context, op string, fn func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	v, err := fn(ctx)
	metrics.LookupDuration.WithLabelValues(op).Observe(float64(time.Since(start).Milliseconds()))
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.Lookups.WithLabelValues(op, outcome).Inc()
	return v, err
}

// Describe turns a lookup failure into the message shown to the user.
func Describe(query string, err error) string {
	switch {
	case errors.Is(err, wiki.ErrNoMatch):
		return fmt.Sprintf("no article matches %q", query)
	case wiki.IsNotFound(err):
		return fmt.Sprintf("no article titled %q", query)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("lookup for %q timed out", query)
	case errors.Is(err, wiki.ErrUnavailable):
		return "the encyclopedia is temporarily unavailable, try again shortly"
	case wiki.IsRateLimited(err):
		return "too many requests to the encyclopedia, try again shortly"
	default:
		return fmt.Sprintf("lookup for %q failed: %v", query, err)
	}
}
