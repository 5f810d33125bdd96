// Package topic holds the explorer's data model: topics, display
// preferences and the State aggregate folded by the reducer.
package topic

import (
	"slices"

	"github.com/gyaneshwarpardhi/topicexplorer/internal/graph"
)

// Topic is an article title with the titles it links to.
type Topic struct {
	Title     string   `json:"title"`
	Subtopics []string `json:"subtopics"`
}

// Preference controls subtopic display ordering.
type Preference string

const (
	PreferenceDefault Preference = "default"
	PreferenceRandom  Preference = "random"
)

// Preferences lists the recognized values in declaration order. The first
// entry is the fallback for unrecognized input; a fresh State still starts
// with PreferenceDefault.
var Preferences = []Preference{PreferenceRandom, PreferenceDefault}

// ParsePreference returns the preference named exactly by s and whether s
// was recognized. Unrecognized input yields the first declared value.
func ParsePreference(s string) (Preference, bool) {
	p := Preference(s)
	if p.Valid() {
		return p, true
	}
	return Preferences[0], false
}

// Valid reports whether p is one of Preferences.
func (p Preference) Valid() bool {
	return slices.Contains(Preferences, p)
}

const (
	// DefaultLimit is the subtopic limit of a fresh session.
	DefaultLimit = 500
	// FallbackLimit replaces any non-positive limit.
	FallbackLimit = 100
)

// State is the explorer aggregate. Values are replaced, never mutated:
// slices held by a State must not be written after it is published.
type State struct {
	CurrentTopicIndex *int        `json:"current_topic_index,omitempty"`
	Topics            []Topic     `json:"topics"`
	Preference        Preference  `json:"preference"`
	Limit             int         `json:"limit"`
	Graph             graph.Graph `json:"graph"`
	IsLoading         bool        `json:"is_loading"`
	LastError         string      `json:"last_error,omitempty"`
}

// Initial returns the state of a session in which nothing has been explored.
// A non-positive limit or unknown preference falls back to the defaults.
func Initial(limit int, pref Preference) State {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if !pref.Valid() {
		pref = PreferenceDefault
	}
	return State{
		Topics:     []Topic{},
		Preference: pref,
		Limit:      limit,
		Graph:      graph.Graph{Nodes: []graph.Node{}, Edges: []graph.Edge{}},
	}
}

// Current returns the index of the displayed topic, if any.
func (s State) Current() (int, bool) {
	if s.CurrentTopicIndex == nil {
		return 0, false
	}
	return *s.CurrentTopicIndex, true
}

// CurrentTopic returns the displayed topic, if any.
func (s State) CurrentTopic() (Topic, bool) {
	i, ok := s.Current()
	if !ok || i < 0 || i >= len(s.Topics) {
		return Topic{}, false
	}
	return s.Topics[i], true
}

// Titles returns the titles of the active branch in order.
func (s State) Titles() []string {
	out := make([]string, len(s.Topics))
	for i, t := range s.Topics {
		out[i] = t.Title
	}
	return out
}

// Index returns a pointer to a fresh copy of i.
func Index(i int) *int {
	return &i
}
