package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/topicexplorer/internal/action"
	"github.com/gyaneshwarpardhi/topicexplorer/internal/topic"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(context.Background(), topic.Initial(topic.DefaultLimit, topic.PreferenceDefault), 16, nil)
	t.Cleanup(s.Close)
	return s
}

func TestStore_DispatchAppliesInOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Dispatch(ctx, action.SetRootTopic{Topic: topic.Topic{Title: "A", Subtopics: []string{"B"}}, Session: "s1"})
	require.NoError(t, err)
	st, err := s.Dispatch(ctx, action.AppendTopic{Topic: topic.Topic{Title: "B"}, ParentIndex: 0})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, st.Titles())
	assert.Equal(t, st, s.State())
}

func TestStore_RejectedActionKeepsState(t *testing.T) {
	s := newTestStore(t)
	before := s.State()

	st, err := s.Dispatch(context.Background(), action.AppendTopic{Topic: topic.Topic{Title: "B"}, ParentIndex: 3})
	require.ErrorIs(t, err, action.ErrParentOutOfRange)
	assert.Equal(t, before, st)
	assert.Equal(t, before, s.State())
}

func TestStore_ConcurrentDispatchLosesNothing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.Dispatch(ctx, action.SetRootTopic{Topic: topic.Topic{Title: "root"}, Session: "s"})
	require.NoError(t, err)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Dispatch(ctx, action.AppendTopic{Topic: topic.Topic{Title: "child"}, ParentIndex: 0})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	st := s.State()
	// Every append lands after index 0, so history is root plus one topic.
	assert.Len(t, st.Topics, 2)
	assert.Equal(t, n+1, st.Graph.NodeCount())
	assert.Equal(t, n, st.Graph.EdgeCount())
}

func TestStore_SubscribeSeedsCurrentState(t *testing.T) {
	s := newTestStore(t)
	ch, cancel := s.Subscribe()
	defer cancel()

	select {
	case st := <-ch:
		assert.Equal(t, s.State(), st)
	case <-time.After(time.Second):
		t.Fatal("no initial state")
	}
}

func TestStore_SubscribeKeepsLatest(t *testing.T) {
	s := newTestStore(t)
	ch, cancel := s.Subscribe()
	defer cancel()

	ctx := context.Background()
	for _, n := range []int{10, 20, 30} {
		_, err := s.Dispatch(ctx, action.SetSubtopicLimit{N: n})
		require.NoError(t, err)
	}

	st := <-ch
	assert.Equal(t, 30, st.Limit)
	select {
	case extra := <-ch:
		t.Fatalf("unexpected queued state with limit %d", extra.Limit)
	default:
	}
}

func TestStore_CancelAndClose(t *testing.T) {
	s := NewStore(context.Background(), topic.Initial(topic.DefaultLimit, topic.PreferenceDefault), 4, nil)

	ch1, cancel1 := s.Subscribe()
	ch2, _ := s.Subscribe()
	<-ch1
	<-ch2

	cancel1()
	cancel1()
	_, ok := <-ch1
	assert.False(t, ok)

	s.Close()
	_, ok = <-ch2
	assert.False(t, ok)

	_, err := s.Dispatch(context.Background(), action.SetLoading{Loading: true})
	assert.ErrorIs(t, err, ErrPoolClosed)

	ch3, _ := s.Subscribe()
	_, ok = <-ch3
	assert.False(t, ok)
}

func TestStore_QueueUtilization(t *testing.T) {
	s := newTestStore(t)
	assert.InDelta(t, 0.0, s.QueueUtilization(), 0.001)
}
