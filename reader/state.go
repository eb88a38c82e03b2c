package reader

import "fmt"

// State contains runtime Reader state
type State struct {
	// Status is the reader status
	Status Status
	// Counters contains reader counters
	Counters Counters
}

// Counters are the running totals of a Reader
type Counters struct {
	// Events is the number of XML events pulled from the source
	Events int64
	// Rows is the number of rows sealed
	Rows int64
	// Batches is the number of batches returned
	Batches int64
	// Conflicts is the number of schema conflicts recovered
	Conflicts int64
	// Duplicates is the number of repeated fields and attributes
	// ignored (first occurrence wins)
	Duplicates int64
}

// Status is a Reader's (present) state
type Status int

const (
	// StatusInactive is the initial state, before the first read
	StatusInactive Status = iota
	// StatusReading is set by the first call to Next
	StatusReading
	// StatusDone indicates the source was exhausted or the row limit
	// was reached
	StatusDone
	// StatusError indicates the read failed; the error is returned by
	// every later call to Next
	StatusError
	// StatusClosed is set by Close
	StatusClosed
)

func (s Status) String() string {
	switch s {
	case StatusInactive:
		return "inactive"
	case StatusReading:
		return "reading"
	case StatusDone:
		return "done"
	case StatusError:
		return "error"
	case StatusClosed:
		return "closed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}
