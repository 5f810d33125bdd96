package event

import "time"

// Type discriminates boundary input events.
type Type string

const (
	TypeSubmitTopic      Type = "submit_topic"
	TypeKeySubmit        Type = "key_submit"
	TypeSubtopicClick    Type = "subtopic_click"
	TypeNavigateBack     Type = "navigate_back"
	TypeNavigateForward  Type = "navigate_forward"
	TypeChangeLimit      Type = "change_limit"
	TypeChangePreference Type = "change_preference"
)

// SubmitKey is the key that submits the topic input.
const SubmitKey = "Enter"

// Event is the canonical model of one raw input event.
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type" validate:"required,oneof=submit_topic key_submit subtopic_click navigate_back navigate_forward change_limit change_preference"`
	OccurredAt time.Time `json:"occurred_at"`
	ReceivedAt time.Time `json:"-"`

	Query string `json:"query,omitempty"` // submit_topic, key_submit
	Key   string `json:"key,omitempty"`   // key_submit

	// TopicIndex is the index of the topic displayed when the subtopic was
	// clicked, captured together with the click.
	TopicIndex *int   `json:"topic_index,omitempty"`
	Subtopic   string `json:"subtopic,omitempty"`

	Value string `json:"value,omitempty"` // change_limit, change_preference
}

// IsExploration reports whether ev starts an asynchronous lookup.
func (ev *Event) IsExploration() bool {
	switch ev.Type {
	case TypeSubmitTopic, TypeSubtopicClick:
		return true
	case TypeKeySubmit:
		return ev.Key == SubmitKey
	}
	return false
}
