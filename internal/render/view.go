// Package render projects explorer State into what the user sees: the
// topic panel, the subtopic list and incremental graph updates.
package render

import (
	"math/rand/v2"
	"slices"

	"github.com/gyaneshwarpardhi/topicexplorer/internal/topic"
)

// Shuffler permutes subtopics for the random preference. It must not
// modify its argument.
type Shuffler func([]string) []string

// Shuffle is the default Shuffler: a Fisher-Yates shuffle of a copy.
func Shuffle(in []string) []string {
	out := slices.Clone(in)
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// SubtopicItem is one selectable subtopic. TopicIndex is the index of the
// topic shown when the item was rendered and is sent back with a click.
type SubtopicItem struct {
	Key        string `json:"key"`
	Text       string `json:"text"`
	TopicIndex int    `json:"topic_index"`
}

// View is the projection of a State.
type View struct {
	Loading      bool           `json:"loading"`
	ShowContent  bool           `json:"show_content"`
	ShowControls bool           `json:"show_controls"`
	Heading      string         `json:"heading,omitempty"`
	StepsAway    int            `json:"steps_away"`
	CanBack      bool           `json:"can_back"`
	CanForward   bool           `json:"can_forward"`
	Subtopics    []SubtopicItem `json:"subtopics"`
	Limit        int            `json:"limit"`
	Preference   string         `json:"preference"`
	Error        string         `json:"error,omitempty"`
	Graph        *GraphUpdate   `json:"graph,omitempty"`
}

// Project derives the View of s. shuffle is used only when the preference
// is random; nil selects Shuffle.
func Project(s topic.State, shuffle Shuffler) View {
	v := View{
		Loading:    s.IsLoading,
		Subtopics:  []SubtopicItem{},
		Limit:      s.Limit,
		Preference: string(s.Preference),
		Error:      s.LastError,
	}

	idx, ok := s.Current()
	if !ok {
		return v
	}
	cur := s.Topics[idx]

	v.ShowControls = true
	v.ShowContent = !s.IsLoading
	v.Heading = cur.Title
	v.StepsAway = idx
	v.CanBack = idx > 0
	v.CanForward = idx < len(s.Topics)-1

	subs := cur.Subtopics
	if s.Preference == topic.PreferenceRandom {
		if shuffle == nil {
			shuffle = Shuffle
		}
		subs = shuffle(subs)
	}
	if s.Limit >= 0 && len(subs) > s.Limit {
		subs = subs[:s.Limit]
	}
	for _, text := range subs {
		v.Subtopics = append(v.Subtopics, SubtopicItem{Key: text, Text: text, TopicIndex: idx})
	}
	return v
}
