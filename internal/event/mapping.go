package event

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gyaneshwarpardhi/topicexplorer/internal/action"
	"github.com/gyaneshwarpardhi/topicexplorer/internal/topic"
)

var (
	// ErrInvalid indicates an event whose payload cannot produce an action.
	ErrInvalid = errors.New("invalid event")

	// ErrAsync is returned by ToAction for exploration events, which need
	// lookups before an action exists.
	ErrAsync = errors.New("event requires lookup")

	// ErrIgnored is returned for events that map to no action, such as a
	// non-submit key press.
	ErrIgnored = errors.New("event ignored")
)

// ToAction maps a synchronous event to its action.
func ToAction(ev *Event) (action.Action, error) {
	switch ev.Type {
	case TypeNavigateBack:
		return action.ShiftCurrentTopic{Delta: -1}, nil
	case TypeNavigateForward:
		return action.ShiftCurrentTopic{Delta: 1}, nil
	case TypeChangeLimit:
		return action.SetSubtopicLimit{N: ParseLimit(ev.Value)}, nil
	case TypeChangePreference:
		p, _ := topic.ParsePreference(ev.Value)
		return action.SetSubtopicPreference{Preference: p}, nil
	case TypeKeySubmit:
		if ev.Key != SubmitKey {
			return nil, fmt.Errorf("%w: key %q", ErrIgnored, ev.Key)
		}
		return nil, ErrAsync
	case TypeSubmitTopic, TypeSubtopicClick:
		return nil, ErrAsync
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalid, ev.Type)
	}
}

// ParseLimit reads a raw limit input the way a number field is read: an
// optional sign and the leading digits. Anything unreadable or non-positive
// becomes topic.FallbackLimit.
func ParseLimit(raw string) int {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return topic.FallbackLimit
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n <= 0 {
		return topic.FallbackLimit
	}
	return n
}

// ExplorationQuery returns the free-text topic request of an exploration event.
func (ev *Event) ExplorationQuery() string {
	if ev.Type == TypeSubtopicClick {
		return strings.TrimSpace(ev.Subtopic)
	}
	return strings.TrimSpace(ev.Query)
}

// CheckExploration validates the payload of an exploration event.
func CheckExploration(ev *Event) error {
	if !ev.IsExploration() {
		return fmt.Errorf("%w: %q is not an exploration", ErrInvalid, ev.Type)
	}
	if ev.ExplorationQuery() == "" {
		return fmt.Errorf("%w: empty topic", ErrInvalid)
	}
	if ev.Type == TypeSubtopicClick {
		if ev.TopicIndex == nil {
			return fmt.Errorf("%w: subtopic_click needs topic_index", ErrInvalid)
		}
		if *ev.TopicIndex < 0 {
			return fmt.Errorf("%w: negative topic_index %d", ErrInvalid, *ev.TopicIndex)
		}
	}
	return nil
}
