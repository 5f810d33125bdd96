package action_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/topicexplorer/internal/action"
	"github.com/gyaneshwarpardhi/topicexplorer/internal/graph"
	"github.com/gyaneshwarpardhi/topicexplorer/internal/topic"
)

func tp(title string, subtopics ...string) topic.Topic {
	return topic.Topic{Title: title, Subtopics: subtopics}
}

func initial() topic.State {
	return topic.Initial(topic.DefaultLimit, topic.PreferenceDefault)
}

// threeDeep returns a state with history [A, B, C] positioned at C.
func threeDeep(t *testing.T) topic.State {
	t.Helper()
	s, err := action.Fold(initial(),
		action.SetRootTopic{Topic: tp("A", "B"), Session: "s1"},
		action.AppendTopic{Topic: tp("B", "C"), ParentIndex: 0},
		action.AppendTopic{Topic: tp("C"), ParentIndex: 1},
	)
	require.NoError(t, err)
	return s
}

func current(t *testing.T, s topic.State) int {
	t.Helper()
	i, ok := s.Current()
	require.True(t, ok, "current topic index must be defined")
	return i
}

func nodeIDs(g graph.Graph) []string {
	out := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		out[i] = n.ID
	}
	return out
}

func TestSetRootTopic_ResetsEverything(t *testing.T) {
	for name, s := range map[string]topic.State{
		"initial":    initial(),
		"three deep": threeDeep(t),
	} {
		t.Run(name, func(t *testing.T) {
			got, err := action.Reduce(s, action.SetRootTopic{Topic: tp("Dog", "Wolf"), Session: "s2"})
			require.NoError(t, err)

			assert.Equal(t, 0, current(t, got))
			assert.Equal(t, []topic.Topic{tp("Dog", "Wolf")}, got.Topics)
			assert.Empty(t, got.Graph.Edges)
			assert.Equal(t, []string{"Dog"}, nodeIDs(got.Graph))
			assert.Equal(t, "s2", got.Graph.Session)
			require.NoError(t, got.Check())
		})
	}
}

func TestAppendTopic_TruncatesForwardBranch(t *testing.T) {
	s := threeDeep(t)
	require.Equal(t, 2, current(t, s))

	got, err := action.Reduce(s, action.AppendTopic{Topic: tp("T"), ParentIndex: 0})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "T"}, got.Titles())
	assert.Equal(t, 1, current(t, got))
	// The graph keeps the dropped branch.
	assert.Equal(t, []string{"A", "B", "C", "T"}, nodeIDs(got.Graph))
	assert.Equal(t, graph.Edge{ID: "A-T", From: "A", To: "T"}, got.Graph.Edges[2])
	require.NoError(t, got.Check())
}

func TestAppendTopic_OutOfRangeRejected(t *testing.T) {
	cases := map[string]struct {
		state  topic.State
		parent int
	}{
		"no current topic": {initial(), 0},
		"negative":         {threeDeep(t), -1},
		"past end":         {threeDeep(t), 3},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := action.Reduce(tc.state, action.AppendTopic{Topic: tp("X"), ParentIndex: tc.parent})
			require.ErrorIs(t, err, action.ErrParentOutOfRange)
			assert.Equal(t, tc.state, got)
		})
	}
}

func TestAppendTopic_GraphGrowsByOnePerCall(t *testing.T) {
	s, err := action.Reduce(initial(), action.SetRootTopic{Topic: tp("A"), Session: "s1"})
	require.NoError(t, err)

	parents := []int{0, 1, 0, 1, 1, 2, 0}
	for _, p := range parents {
		nodes, edges := s.Graph.NodeCount(), s.Graph.EdgeCount()
		s, err = action.Reduce(s, action.AppendTopic{Topic: tp("X"), ParentIndex: p})
		require.NoError(t, err)
		assert.Equal(t, nodes+1, s.Graph.NodeCount())
		assert.Equal(t, edges+1, s.Graph.EdgeCount())
		require.NoError(t, s.Check())
	}
}

func TestAppendTopic_EarlierStatesUnchanged(t *testing.T) {
	s := threeDeep(t)
	snapshot := s.Titles()
	nodes := len(s.Graph.Nodes)

	a, err := action.Reduce(s, action.AppendTopic{Topic: tp("X"), ParentIndex: 0})
	require.NoError(t, err)
	b, err := action.Reduce(s, action.AppendTopic{Topic: tp("Y"), ParentIndex: 0})
	require.NoError(t, err)

	assert.Equal(t, snapshot, s.Titles())
	assert.Len(t, s.Graph.Nodes, nodes)
	assert.Equal(t, []string{"A", "X"}, a.Titles())
	assert.Equal(t, []string{"A", "Y"}, b.Titles())
}

func TestShiftCurrentTopic_StaysInBounds(t *testing.T) {
	s := threeDeep(t)
	for _, d := range []int{-5, -3, -2, -1, 0, 1, 2, 3, 7} {
		for start := 0; start < len(s.Topics); start++ {
			at := s
			at.CurrentTopicIndex = topic.Index(start)

			got, err := action.Reduce(at, action.ShiftCurrentTopic{Delta: d})
			require.NoError(t, err)

			i := current(t, got)
			assert.GreaterOrEqual(t, i, 0)
			assert.LessOrEqual(t, i, len(got.Topics)-1)
			if start+d >= 0 && start+d <= 2 {
				assert.Equal(t, start+d, i)
			} else {
				assert.Equal(t, start, i, "out-of-range shift must leave the index unchanged")
			}
		}
	}
}

func TestShiftCurrentTopic_UndefinedIsNoop(t *testing.T) {
	s := initial()
	got, err := action.Reduce(s, action.ShiftCurrentTopic{Delta: 1})
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestShiftCurrentTopic_ZeroIsIdempotent(t *testing.T) {
	s := threeDeep(t)
	got, err := action.Reduce(s, action.ShiftCurrentTopic{Delta: 0})
	require.NoError(t, err)
	assert.Equal(t, s, got)
	assert.Same(t, s.CurrentTopicIndex, got.CurrentTopicIndex)
}

func TestSetSubtopicLimit(t *testing.T) {
	cases := []struct {
		n    int
		want int
	}{
		{0, 100},
		{-5, 100},
		{7, 7},
		{1, 1},
	}
	for _, tc := range cases {
		got, err := action.Reduce(initial(), action.SetSubtopicLimit{N: tc.n})
		require.NoError(t, err)
		assert.Equal(t, tc.want, got.Limit, "SetSubtopicLimit(%d)", tc.n)
	}
}

func TestSetSubtopicPreference(t *testing.T) {
	s, err := action.Reduce(initial(), action.SetSubtopicPreference{Preference: "random"})
	require.NoError(t, err)
	assert.Equal(t, topic.PreferenceRandom, s.Preference)

	s, err = action.Reduce(s, action.SetSubtopicPreference{Preference: "default"})
	require.NoError(t, err)
	assert.Equal(t, topic.PreferenceDefault, s.Preference)

	// Unknown values fall back to the first declared preference.
	s, err = action.Reduce(s, action.SetSubtopicPreference{Preference: "bogus"})
	require.NoError(t, err)
	assert.Equal(t, topic.Preferences[0], s.Preference)
	assert.Equal(t, topic.PreferenceRandom, s.Preference)
}

func TestLoadingAndFailure(t *testing.T) {
	s := threeDeep(t)

	s, err := action.Reduce(s, action.SetLoading{Loading: true})
	require.NoError(t, err)
	assert.True(t, s.IsLoading)

	failed, err := action.Reduce(s, action.LookupFailed{Query: "zzz", Reason: "no article matches \"zzz\""})
	require.NoError(t, err)
	assert.False(t, failed.IsLoading)
	assert.Equal(t, "no article matches \"zzz\"", failed.LastError)
	assert.Equal(t, s.Topics, failed.Topics)
	assert.Equal(t, s.Graph, failed.Graph)

	retry, err := action.Reduce(failed, action.SetLoading{Loading: true})
	require.NoError(t, err)
	assert.Empty(t, retry.LastError)

	done, err := action.Reduce(retry, action.AppendTopic{Topic: tp("D"), ParentIndex: 2})
	require.NoError(t, err)
	assert.False(t, done.IsLoading)
}

func TestReduce_NilAction(t *testing.T) {
	s := initial()
	got, err := action.Reduce(s, nil)
	require.Error(t, err)
	assert.Equal(t, s, got)
}

func TestFold_SkipsRejectedActions(t *testing.T) {
	s, err := action.Fold(initial(),
		action.AppendTopic{Topic: tp("X"), ParentIndex: 0},
		action.SetRootTopic{Topic: tp("A"), Session: "s1"},
		action.SetSubtopicLimit{N: 3},
	)
	require.ErrorIs(t, err, action.ErrParentOutOfRange)
	assert.Equal(t, []string{"A"}, s.Titles())
	assert.Equal(t, 3, s.Limit)
}

func TestEndToEnd_CatFeline(t *testing.T) {
	s, err := action.Fold(initial(),
		action.SetRootTopic{Topic: tp("Cat", "Feline", "Pet"), Session: "s1"},
		action.AppendTopic{Topic: tp("Feline", "Mammal"), ParentIndex: 0},
		action.ShiftCurrentTopic{Delta: -1},
	)
	require.NoError(t, err)

	assert.Equal(t, 0, current(t, s))
	assert.Equal(t, []string{"Cat", "Feline"}, s.Titles())
	assert.Equal(t, []string{"Cat", "Feline"}, nodeIDs(s.Graph))
	require.Len(t, s.Graph.Edges, 1)
	assert.Equal(t, "Cat", s.Graph.Edges[0].From)
	assert.Equal(t, "Feline", s.Graph.Edges[0].To)
}
