package action

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gyaneshwarpardhi/topicexplorer/internal/graph"
	"github.com/gyaneshwarpardhi/topicexplorer/internal/topic"
)

// ErrParentOutOfRange is returned for an AppendTopic whose parent index does
// not name a topic in the history.
var ErrParentOutOfRange = errors.New("parent topic index out of range")

// Reduce applies a to s and returns the next state. s is never modified.
// On error the returned state is s.
func Reduce(s topic.State, a Action) (topic.State, error) {
	switch a := a.(type) {
	case SetRootTopic:
		return setRootTopic(s, a), nil
	case AppendTopic:
		return appendTopic(s, a)
	case ShiftCurrentTopic:
		return shiftCurrentTopic(s, a), nil
	case SetSubtopicLimit:
		if a.N > 0 {
			s.Limit = a.N
		} else {
			s.Limit = topic.FallbackLimit
		}
		return s, nil
	case SetSubtopicPreference:
		if a.Preference.Valid() {
			s.Preference = a.Preference
		} else {
			s.Preference = topic.Preferences[0]
		}
		return s, nil
	case SetLoading:
		s.IsLoading = a.Loading
		if a.Loading {
			s.LastError = ""
		}
		return s, nil
	case LookupFailed:
		s.IsLoading = false
		s.LastError = a.Reason
		return s, nil
	case nil:
		return s, errors.New("nil action")
	default:
		return s, fmt.Errorf("unknown action %T", a)
	}
}

// Fold applies actions in order. Rejected actions leave the state as it was;
// their errors are joined into the returned error.
func Fold(s topic.State, actions ...Action) (topic.State, error) {
	var errs []error
	for _, a := range actions {
		next, err := Reduce(s, a)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s = next
	}
	return s, errors.Join(errs...)
}

func setRootTopic(s topic.State, a SetRootTopic) topic.State {
	s.CurrentTopicIndex = topic.Index(0)
	s.Topics = []topic.Topic{a.Topic}
	s.Graph = graph.NewRoot(a.Session, a.Topic.Title)
	s.IsLoading = false
	s.LastError = ""
	return s
}

func appendTopic(s topic.State, a AppendTopic) (topic.State, error) {
	if _, ok := s.Current(); !ok || a.ParentIndex < 0 || a.ParentIndex >= len(s.Topics) {
		return s, fmt.Errorf("%w: %d not in [0, %d)", ErrParentOutOfRange, a.ParentIndex, len(s.Topics))
	}
	parent := s.Topics[a.ParentIndex]

	s.Topics = slices.Concat(s.Topics[:a.ParentIndex+1], []topic.Topic{a.Topic})
	s.CurrentTopicIndex = topic.Index(a.ParentIndex + 1)
	s.Graph = s.Graph.WithChild(parent.Title, a.Topic.Title)
	s.IsLoading = false
	s.LastError = ""
	return s, nil
}

func shiftCurrentTopic(s topic.State, a ShiftCurrentTopic) topic.State {
	cur, ok := s.Current()
	if !ok {
		return s
	}
	next := cur + a.Delta
	if next < 0 || next > len(s.Topics)-1 || next == cur {
		return s
	}
	s.CurrentTopicIndex = topic.Index(next)
	return s
}
