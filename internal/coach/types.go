package coach

import "time"

// Request carries the aggregate results of a finished drill.
type Request struct {
	OriginalScore   string // e.g. "1/3"
	FinalMastery    string // e.g. "3/3"
	TrapsIdentified []string
	ExamDate        time.Time
}

// Message is the coach's closing words for a drill.
type Message struct {
	Headline string
	Body     string
}
