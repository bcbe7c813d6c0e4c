package entities

// Outcome classifies the result of an element access
type Outcome int

const (
	// OutcomeOK - the operation succeeded
	OutcomeOK Outcome = iota
	// OutcomeRetryable - the operation failed transiently, try again next cycle
	OutcomeRetryable
	// OutcomeTimedOut - the bounded wait expired
	OutcomeTimedOut
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeRetryable:
		return "retryable"
	case OutcomeTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// TextResult is the result of reading an element's displayed text
type TextResult struct {
	Text     string
	Outcome  Outcome
	Attempts int   // single-shot reads, not counting the fallback wait
	FellBack bool  // the bounded-wait fallback was used
	Err      error // last underlying error, nil when OK
}

// OK reports whether the text is usable
func (r TextResult) OK() bool {
	return r.Outcome == OutcomeOK
}

// ClickResult is the result of clicking an element
type ClickResult struct {
	Outcome  Outcome
	Attempts int
	Err      error
}

// Clicked reports whether the click went through
func (r ClickResult) Clicked() bool {
	return r.Outcome == OutcomeOK
}
