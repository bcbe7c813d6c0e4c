package entities

// SkipReason explains why an iteration ended early
type SkipReason string

const (
	SkipNone         SkipReason = ""
	SkipPrimaryClick SkipReason = "primary_click"
	SkipCounterRead  SkipReason = "counter_read"
	SkipCounterParse SkipReason = "counter_parse"
)

// Iteration summarizes one pass of the poll loop
type Iteration struct {
	Clicked   bool
	Counter   int64
	Purchased *Slot
	Skipped   SkipReason
}

// Stats accumulates iteration results over a run
type Stats struct {
	Iterations int
	Clicks     int
	Purchases  int
	Skips      int
}

// Record adds one iteration to the totals
func (s *Stats) Record(it Iteration) {
	s.Iterations++
	if it.Clicked {
		s.Clicks++
	}
	if it.Purchased != nil {
		s.Purchases++
	}
	if it.Skipped != SkipNone {
		s.Skips++
	}
}
