package queue

// Set is the pair of lanes consumed by the dispatch loop.
type Set struct {
	Primary *FIFO
	Retry   *FIFO
}

// NewSet returns a Set with two empty lanes.
func NewSet() *Set {
	return &Set{Primary: NewFIFO(), Retry: NewFIFO()}
}

// Next pops the next job to dispatch, preferring the primary lane.
func (s *Set) Next() (Job, Lane, bool) {
	if job, ok := s.Primary.Pop(); ok {
		return job, LanePrimary, true
	}
	if job, ok := s.Retry.Pop(); ok {
		return job, LaneRetry, true
	}
	return Job{}, "", false
}

// Depths reports the current length of each lane.
func (s *Set) Depths() (primary, retry int) {
	return s.Primary.Len(), s.Retry.Len()
}
