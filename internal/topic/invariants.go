package topic

import (
	"errors"
	"fmt"
)

// Check reports every violated State invariant, or nil.
func (s State) Check() error {
	var errs []error
	if i, ok := s.Current(); ok {
		if len(s.Topics) == 0 {
			errs = append(errs, errors.New("current topic index set with empty history"))
		} else if i < 0 || i > len(s.Topics)-1 {
			errs = append(errs, fmt.Errorf("current topic index %d outside [0, %d]", i, len(s.Topics)-1))
		}
	}
	if s.Limit <= 0 {
		errs = append(errs, fmt.Errorf("limit %d is not positive", s.Limit))
	}
	if !s.Preference.Valid() {
		errs = append(errs, fmt.Errorf("unknown preference %q", s.Preference))
	}
	if s.Graph.NodeCount() < len(s.Topics) {
		errs = append(errs, fmt.Errorf("graph has %d nodes for %d topics", s.Graph.NodeCount(), len(s.Topics)))
	}
	return errors.Join(errs...)
}
