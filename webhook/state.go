package webhook

import "fmt"

/* State represents where a request is in its lifecycle
 * Follows the linear flow: Received -> Matched/Unmatched -> Processed -> Responded
 */
type State int

const (
	Received State = iota + 1
	Matched
	Unmatched
	Processed
	Responded
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case Received:
		return "received"
	case Matched:
		return "matched"
	case Unmatched:
		return "unmatched"
	case Processed:
		return "processed"
	case Responded:
		return "responded"
	default:
		return "unknown"
	}
}

// Validate checks if the state is valid
func (s State) Validate() error {
	if s < Received || s > Responded {
		return fmt.Errorf("invalid state: %d", s)
	}
	return nil
}

// CanTransition reports whether the flow may move from s to next
func (s State) CanTransition(next State) bool {
	switch s {
	case Received:
		return next == Matched || next == Unmatched
	case Matched:
		return next == Processed
	case Unmatched, Processed:
		return next == Responded
	default:
		return false
	}
}

// IsFinal returns true if the state is terminal
func (s State) IsFinal() bool {
	return s == Responded
}
