package api

import (
	"time"

	"github.com/abhisek/drillsergeant/internal/session"
)

// GenerateSessionRequest is the body of POST /generate-session.
type GenerateSessionRequest struct {
	Difficulty string `json:"difficulty" validate:"required"`
	ExamDate   string `json:"exam_date" validate:"omitempty,datetime=2006-01-02"`
}

// PassageDTO is a passage on the wire.
type PassageDTO struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// QuestionDTO is a question on the wire.
type QuestionDTO struct {
	ID            int               `json:"id"`
	Text          string            `json:"text"`
	Options       map[string]string `json:"options"`
	CorrectOption string            `json:"correct_option"`
}

// SessionResponse is returned by POST /generate-session.
type SessionResponse struct {
	SessionID  string        `json:"session_id"`
	Difficulty string        `json:"difficulty"`
	Source     string        `json:"source"`
	Passage    PassageDTO    `json:"passage"`
	Questions  []QuestionDTO `json:"questions"`
}

// AnalyzeRequest is the body of POST /analyze-mistakes. Answers are keyed
// by question id.
type AnalyzeRequest struct {
	SessionID string            `json:"session_id" validate:"required"`
	Answers   map[string]string `json:"answers" validate:"required"`
}

// DiagnosisDTO is one diagnosis on the wire.
type DiagnosisDTO struct {
	TrapType        string `json:"trap_type"`
	HintForRetry    string `json:"hint_for_retry"`
	FullExplanation string `json:"full_explanation"`
}

// AnalyzeResult is one element of the POST /analyze-mistakes response.
type AnalyzeResult struct {
	QuestionID int          `json:"question_id"`
	Diagnosis  DiagnosisDTO `json:"user_mistake_diagnosis"`
}

// SummaryRequest is the body of POST /session-summary.
type SummaryRequest struct {
	SessionID       string   `json:"session_id"`
	OriginalScore   string   `json:"original_score" validate:"required"`
	FinalMastery    string   `json:"final_mastery" validate:"required"`
	TrapsIdentified []string `json:"traps_identified"`
	ExamDate        string   `json:"exam_date" validate:"omitempty,datetime=2006-01-02"`
}

// CoachMessageDTO is the coach message on the wire.
type CoachMessageDTO struct {
	Headline string `json:"headline"`
	Body     string `json:"body"`
}

// SummaryResponse is returned by POST /session-summary.
type SummaryResponse struct {
	OriginalScore   string          `json:"original_score"`
	FinalMastery    string          `json:"final_mastery"`
	TrapsIdentified []string        `json:"traps_identified"`
	CoachMessage    CoachMessageDTO `json:"coach_message"`
}

func toSessionResponse(s session.Session) SessionResponse {
	resp := SessionResponse{
		SessionID:  s.ID,
		Difficulty: string(s.Difficulty),
		Source:     string(s.Source),
		Passage:    PassageDTO{Title: s.Passage.Title, Text: s.Passage.Body},
		Questions:  make([]QuestionDTO, 0, len(s.Questions)),
	}
	for _, q := range s.Questions {
		resp.Questions = append(resp.Questions, QuestionDTO{
			ID:            q.ID,
			Text:          q.Stem,
			Options:       q.Options,
			CorrectOption: q.CorrectOption,
		})
	}
	return resp
}

func toAnalyzeResults(results []session.Result) []AnalyzeResult {
	out := make([]AnalyzeResult, 0, len(results))
	for _, r := range results {
		out = append(out, AnalyzeResult{
			QuestionID: r.QuestionID,
			Diagnosis: DiagnosisDTO{
				TrapType:        string(r.Diagnosis.TrapType),
				HintForRetry:    r.Diagnosis.RetryHint,
				FullExplanation: r.Diagnosis.FullExplanation,
			},
		})
	}
	return out
}

// parseDate accepts an empty string or a YYYY-MM-DD date.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.DateOnly, s)
}
