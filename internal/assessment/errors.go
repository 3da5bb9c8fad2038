package assessment

import "fmt"

// ValidationError reports a rejected configuration or input. The state it
// would have mutated is left untouched.
type ValidationError struct {
	Field   string // which config field or argument was bad
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// OutOfRangeError reports an item index outside the session's item list.
type OutOfRangeError struct {
	Index int
	Count int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("item index %d out of range (session has %d items)", e.Index, e.Count)
}

// InvalidStateError reports an operation attempted in a lifecycle state
// that does not accept it, e.g. answering a submitted session.
type InvalidStateError struct {
	Op     string
	Status Status
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s a session in state %q", e.Op, e.Status)
}
