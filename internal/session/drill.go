package session

import (
	"github.com/abhisek/drillsergeant/internal/content"
	"github.com/abhisek/drillsergeant/internal/diagnosis"
)

// DrillPhase is the learner's position in a drill.
type DrillPhase int

const (
	PhaseExam       DrillPhase = iota // Answering questions
	PhaseAnalysis                     // Waiting for diagnoses
	PhaseRedemption                   // Retrying mistakes
	PhaseSummary                      // Showing the coach message
)

// Retry tracks one mistake through the redemption phase.
type Retry struct {
	Result
	Attempted bool
	Fixed     bool
}

// Drill is client-side state for one pass through a session: first answers,
// diagnoses, and one retry per mistake.
type Drill struct {
	Session Session
	Phase   DrillPhase
	Answers map[int]string
	Retries []Retry

	current int
}

// NewDrill starts a drill on s.
func NewDrill(s Session) *Drill {
	return &Drill{
		Session: s,
		Phase:   PhaseExam,
		Answers: make(map[int]string),
	}
}

// Answer records the first answer to a question.
func (d *Drill) Answer(questionID int, label string) {
	d.Answers[questionID] = label
}

// Submit moves the drill to analysis.
func (d *Drill) Submit() {
	d.Phase = PhaseAnalysis
}

// SetResults stores diagnoses and enters redemption, or goes straight to
// the summary when nothing was wrong.
func (d *Drill) SetResults(results []Result) {
	d.Retries = make([]Retry, len(results))
	for i, r := range results {
		d.Retries[i] = Retry{Result: r}
	}
	d.current = 0
	if len(d.Retries) == 0 {
		d.Phase = PhaseSummary
		return
	}
	d.Phase = PhaseRedemption
}

// CurrentRetry returns the mistake being retried, or nil once all are done.
func (d *Drill) CurrentRetry() *Retry {
	if d.current >= len(d.Retries) {
		return nil
	}
	return &d.Retries[d.current]
}

// RetryAnswer records the single retry for the current mistake and reports
// whether it was correct.
func (d *Drill) RetryAnswer(label string) bool {
	r := d.CurrentRetry()
	if r == nil || r.Attempted {
		return false
	}
	r.Attempted = true
	for _, q := range d.Session.Questions {
		if q.ID == r.QuestionID {
			r.Fixed = q.CorrectOption == content.NormalizeLabel(label)
			break
		}
	}
	return r.Fixed
}

// Next advances to the following mistake, entering the summary after the last.
func (d *Drill) Next() {
	if d.current < len(d.Retries) {
		d.current++
	}
	if d.current >= len(d.Retries) {
		d.Phase = PhaseSummary
	}
}

// OriginalCorrect counts first answers that were right.
func (d *Drill) OriginalCorrect() int {
	return len(d.Session.Questions) - len(FindMistakes(d.Session.Questions, d.Answers)) - d.unanswered()
}

func (d *Drill) unanswered() int {
	n := 0
	for _, q := range d.Session.Questions {
		if content.NormalizeLabel(d.Answers[q.ID]) == "" {
			n++
		}
	}
	return n
}

// FinalCorrect counts questions right after retries.
func (d *Drill) FinalCorrect() int {
	n := d.OriginalCorrect()
	for _, r := range d.Retries {
		if r.Fixed {
			n++
		}
	}
	return n
}

// TrapsIdentified lists the distinct trap types diagnosed, in order,
// excluding Unknown.
func (d *Drill) TrapsIdentified() []string {
	seen := make(map[diagnosis.TrapType]bool)
	var traps []string
	for _, r := range d.Retries {
		t := r.Diagnosis.TrapType
		if t == diagnosis.TrapUnknown || t == "" || seen[t] {
			continue
		}
		seen[t] = true
		traps = append(traps, string(t))
	}
	return traps
}

// SummaryRequest builds the request for ComposeSummary.
func (d *Drill) SummaryRequest() SummaryRequest {
	total := len(d.Session.Questions)
	return SummaryRequest{
		OriginalScore:   Score(d.OriginalCorrect(), total),
		FinalMastery:    Score(d.FinalCorrect(), total),
		TrapsIdentified: d.TrapsIdentified(),
		ExamDate:        d.Session.ExamDate,
	}
}
