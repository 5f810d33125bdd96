package event_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/topicexplorer/internal/action"
	"github.com/gyaneshwarpardhi/topicexplorer/internal/event"
	"github.com/gyaneshwarpardhi/topicexplorer/internal/topic"
)

func TestToAction_Sync(t *testing.T) {
	cases := []struct {
		name string
		ev   event.Event
		want action.Action
	}{
		{"back", event.Event{Type: event.TypeNavigateBack}, action.ShiftCurrentTopic{Delta: -1}},
		{"forward", event.Event{Type: event.TypeNavigateForward}, action.ShiftCurrentTopic{Delta: 1}},
		{"limit", event.Event{Type: event.TypeChangeLimit, Value: "7"}, action.SetSubtopicLimit{N: 7}},
		{"limit junk", event.Event{Type: event.TypeChangeLimit, Value: "lots"}, action.SetSubtopicLimit{N: 100}},
		{"limit zero", event.Event{Type: event.TypeChangeLimit, Value: "0"}, action.SetSubtopicLimit{N: 100}},
		{"pref random", event.Event{Type: event.TypeChangePreference, Value: "random"}, action.SetSubtopicPreference{Preference: topic.PreferenceRandom}},
		{"pref default", event.Event{Type: event.TypeChangePreference, Value: "default"}, action.SetSubtopicPreference{Preference: topic.PreferenceDefault}},
		{"pref wrong case", event.Event{Type: event.TypeChangePreference, Value: "Default"}, action.SetSubtopicPreference{Preference: topic.PreferenceRandom}},
		{"pref bogus", event.Event{Type: event.TypeChangePreference, Value: "bogus"}, action.SetSubtopicPreference{Preference: topic.PreferenceRandom}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := event.ToAction(&tc.ev)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestToAction_NonSync(t *testing.T) {
	_, err := event.ToAction(&event.Event{Type: event.TypeSubmitTopic, Query: "cat"})
	assert.ErrorIs(t, err, event.ErrAsync)

	_, err = event.ToAction(&event.Event{Type: event.TypeKeySubmit, Key: "Enter", Query: "cat"})
	assert.ErrorIs(t, err, event.ErrAsync)

	_, err = event.ToAction(&event.Event{Type: event.TypeKeySubmit, Key: "a"})
	assert.ErrorIs(t, err, event.ErrIgnored)

	_, err = event.ToAction(&event.Event{Type: "hover"})
	assert.ErrorIs(t, err, event.ErrInvalid)
}

func TestParseLimit(t *testing.T) {
	cases := map[string]int{
		"7":    7,
		" 12 ": 12,
		"7abc": 7,
		"+3":   3,
		"-5":   100,
		"0":    100,
		"":     100,
		"abc":  100,
		"+":    100,
	}
	cases["99999999999999999999999"] = 100
	for in, want := range cases {
		assert.Equal(t, want, event.ParseLimit(in), "ParseLimit(%q)", in)
	}
}

func TestCheckExploration(t *testing.T) {
	idx := func(i int) *int { return &i }

	require.NoError(t, event.CheckExploration(&event.Event{Type: event.TypeSubmitTopic, Query: "cat"}))
	require.NoError(t, event.CheckExploration(&event.Event{Type: event.TypeKeySubmit, Key: "Enter", Query: "cat"}))
	require.NoError(t, event.CheckExploration(&event.Event{Type: event.TypeSubtopicClick, Subtopic: "Feline", TopicIndex: idx(0)}))

	bad := []event.Event{
		{Type: event.TypeSubmitTopic, Query: "   "},
		{Type: event.TypeSubtopicClick, Subtopic: "Feline"},
		{Type: event.TypeSubtopicClick, Subtopic: "Feline", TopicIndex: idx(-1)},
		{Type: event.TypeKeySubmit, Key: "Escape", Query: "cat"},
		{Type: event.TypeNavigateBack},
	}
	for _, ev := range bad {
		assert.ErrorIs(t, event.CheckExploration(&ev), event.ErrInvalid, "%+v", ev)
	}
}
