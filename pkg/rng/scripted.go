package rng

// Scripted is a Source that replays a fixed sequence of draws.
// Each value is reduced modulo n; once the script is exhausted every draw is 0.
// It is intended for tests that need exact outcomes.
type Scripted struct {
	values []int
	next   int
}

// NewScripted returns a Source that replays values in order.
func NewScripted(values ...int) *Scripted {
	return &Scripted{values: values}
}

// Intn returns the next scripted value reduced into [0, n).
func (s *Scripted) Intn(n int) int {
	if s.next >= len(s.values) {
		return 0
	}
	v := s.values[s.next]
	s.next++
	if v < 0 {
		v = -v
	}
	return v % n
}

// Remaining returns how many scripted values have not been consumed.
func (s *Scripted) Remaining() int {
	return len(s.values) - s.next
}
