package gate

// Limit counts rows against an optional maximum
type Limit struct {
	max int64
	n   int64
}

// NewLimit returns a Limit of max rows; max <= 0 means unbounded
func NewLimit(max int64) *Limit {
	if max < 0 {
		max = 0
	}
	return &Limit{max: max}
}

// Add counts one row and returns true if the limit is now reached
func (l *Limit) Add() bool {
	l.n++
	return l.Reached()
}

// Reached returns true once max rows have been counted
func (l *Limit) Reached() bool { return l.max > 0 && l.n >= l.max }

// Count returns the number of rows counted so far
func (l *Limit) Count() int64 { return l.n }

// Remaining returns the rows left before the limit, or -1 if unbounded
func (l *Limit) Remaining() int64 {
	if l.max == 0 {
		return -1
	}
	if l.n >= l.max {
		return 0
	}
	return l.max - l.n
}
