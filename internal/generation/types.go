package generation

// Draft is the LLM output before it becomes a content.Set.
type Draft struct {
	Title     string          `json:"title"`
	Text      string          `json:"text"`
	Questions []DraftQuestion `json:"questions"`
}

// DraftQuestion is one generated question.
type DraftQuestion struct {
	ID            int           `json:"id"`
	QuestionText  string        `json:"question_text"`
	Options       []DraftOption `json:"options"`
	CorrectOption string        `json:"correct_option"`
}

// DraftOption is a labelled answer choice.
type DraftOption struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}
