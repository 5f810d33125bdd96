// Package action defines the explorer's state transitions as values and
// the reducer that applies them.
package action

import (
	"github.com/gyaneshwarpardhi/topicexplorer/internal/topic"
)

// Kind discriminates the Action variants.
type Kind string

const (
	KindSetRootTopic          Kind = "set_root_topic"
	KindAppendTopic           Kind = "append_topic"
	KindShiftCurrentTopic     Kind = "shift_current_topic"
	KindSetSubtopicLimit      Kind = "set_subtopic_limit"
	KindSetSubtopicPreference Kind = "set_subtopic_preference"
	KindSetLoading            Kind = "set_loading"
	KindLookupFailed          Kind = "lookup_failed"
)

// Action is one state transition. The set of variants is closed: only the
// types in this package implement it, and Reduce matches all of them.
type Action interface {
	Kind() Kind
	action()
}

// SetRootTopic resets the exploration to a single topic.
// Session identifies the new graph session.
type SetRootTopic struct {
	Topic   topic.Topic
	Session string
}

// AppendTopic explores Topic from the topic at ParentIndex, dropping any
// history after ParentIndex.
type AppendTopic struct {
	Topic       topic.Topic
	ParentIndex int
}

// ShiftCurrentTopic moves the current index by Delta when the result stays
// inside the history.
type ShiftCurrentTopic struct {
	Delta int
}

// SetSubtopicLimit sets the number of subtopics shown.
type SetSubtopicLimit struct {
	N int
}

// SetSubtopicPreference sets the subtopic ordering.
type SetSubtopicPreference struct {
	Preference topic.Preference
}

// SetLoading marks whether an exploration lookup is outstanding.
type SetLoading struct {
	Loading bool
}

// LookupFailed records a failed exploration. Topics and graph are kept.
type LookupFailed struct {
	Query  string
	Reason string
}

func (SetRootTopic) Kind() Kind          { return KindSetRootTopic }
func (AppendTopic) Kind() Kind           { return KindAppendTopic }
func (ShiftCurrentTopic) Kind() Kind     { return KindShiftCurrentTopic }
func (SetSubtopicLimit) Kind() Kind      { return KindSetSubtopicLimit }
func (SetSubtopicPreference) Kind() Kind { return KindSetSubtopicPreference }
func (SetLoading) Kind() Kind            { return KindSetLoading }
func (LookupFailed) Kind() Kind          { return KindLookupFailed }

func (SetRootTopic) action()          {}
func (AppendTopic) action()           {}
func (ShiftCurrentTopic) action()     {}
func (SetSubtopicLimit) action()      {}
func (SetSubtopicPreference) action() {}
func (SetLoading) action()            {}
func (LookupFailed) action()          {}
