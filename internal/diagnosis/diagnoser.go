// Package diagnosis explains wrong answers on reading-comprehension
// questions in terms of GRE trap types.
package diagnosis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"text/template"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/abhisek/drillsergeant/internal/content"
	"github.com/abhisek/drillsergeant/internal/llm"
	"github.com/abhisek/drillsergeant/internal/metrics"
)

// DiagnoserConfig holds configuration for the LLM diagnoser.
type DiagnoserConfig struct {
	MaxTokens   int
	Temperature float64

	// MaxPassageChars truncates long passages in the prompt.
	MaxPassageChars int
}

// DefaultDiagnoserConfig returns sensible defaults.
func DefaultDiagnoserConfig() DiagnoserConfig {
	return DiagnoserConfig{
		MaxTokens:       700,
		Temperature:     0.3,
		MaxPassageChars: 4000,
	}
}

// Diagnoser performs LLM-based mistake diagnosis. Diagnose never fails;
// provider errors resolve to the Degraded value.
type Diagnoser struct {
	provider    llm.Provider
	cfg         DiagnoserConfig
	classifiers []Classifier
	logger      *zap.Logger
	metrics     *metrics.Metrics
}

// Option configures a Diagnoser.
type Option func(*Diagnoser)

// WithLogger sets the logger used for degraded results.
func WithLogger(l *zap.Logger) Option {
	return func(d *Diagnoser) { d.logger = l }
}

// WithMetrics records diagnosis counts and latency.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Diagnoser) { d.metrics = m }
}

// WithClassifiers replaces the rule-based pre-classifiers.
func WithClassifiers(cs ...Classifier) Option {
	return func(d *Diagnoser) { d.classifiers = cs }
}

// NewDiagnoser creates an LLM-based diagnoser.
func NewDiagnoser(provider llm.Provider, cfg DiagnoserConfig, opts ...Option) *Diagnoser {
	d := &Diagnoser{
		provider:    provider,
		cfg:         cfg,
		classifiers: DefaultClassifiers(),
		logger:      zap.NewNop(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// diagnosisOutput is the raw LLM response.
type diagnosisOutput struct {
	TrapType        string `json:"trap_type"`
	HintForRetry    string `json:"hint_for_retry"`
	FullExplanation string `json:"full_explanation"`
}

// Diagnose explains why submitted was chosen instead of correct.
func (d *Diagnoser) Diagnose(ctx context.Context, p content.Passage, q content.Question, submitted, correct string) Diagnosis {
	start := time.Now()
	diag, err := d.diagnose(ctx, p, q, submitted, correct)
	if err != nil {
		d.logger.Warn("diagnosis degraded",
			zap.Int("question_id", q.ID),
			zap.String("submitted", submitted),
			zap.Error(err),
		)
		d.metrics.RecordDegraded(metrics.KindDiagnosis)
		diag = Degraded()
	}
	d.metrics.RecordDiagnosis(string(diag.TrapType), diag.Degraded, time.Since(start).Seconds())
	return diag
}

func (d *Diagnoser) diagnose(ctx context.Context, p content.Passage, q content.Question, submitted, correct string) (Diagnosis, error) {
	if d.provider == nil {
		return Diagnosis{}, llm.ErrNotConfigured
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeDiagnosis)

	userMsg, err := d.buildMessage(p, q, submitted, correct)
	if err != nil {
		return Diagnosis{}, fmt.Errorf("build diagnosis prompt: %w", err)
	}

	req := llm.UserPrompt(diagnosisSystemPrompt, userMsg, DiagnosisSchema, d.cfg.MaxTokens, d.cfg.Temperature)
	resp, err := d.provider.Generate(ctx, req)
	if err != nil {
		return Diagnosis{}, fmt.Errorf("LLM diagnosis failed: %w", err)
	}
	if resp == nil {
		return Diagnosis{}, &llm.ErrInvalidResponse{Err: errors.New("empty diagnosis response")}
	}

	var raw diagnosisOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return Diagnosis{}, fmt.Errorf("failed to parse diagnosis response: %w", err)
	}

	diag := Diagnosis{
		TrapType:        NormalizeTrap(raw.TrapType),
		RetryHint:       strings.TrimSpace(raw.HintForRetry),
		FullExplanation: strings.TrimSpace(raw.FullExplanation),
	}
	if diag.RetryHint == "" || RevealsAnswer(diag.RetryHint, q, correct) {
		d.logger.Debug("retry hint replaced", zap.Int("question_id", q.ID))
		diag.RetryHint = FallbackHint
	}
	if diag.FullExplanation == "" {
		diag.FullExplanation = FallbackExplanation
	}
	return diag, nil
}

const diagnosisSystemPrompt = `You are a GRE verbal tutor. A learner answered a Reading Comprehension question incorrectly. Diagnose the trap they fell into.

Instructions:
- Classify the chosen option as exactly one trap type from the list provided.
- The retry hint must send the learner back to the relevant part of the passage. It must NOT name, quote, or paraphrase the correct option, and must not say which letter is correct.
- The full explanation may name the correct option and should explain why the chosen option fails.
- Keep the hint to two sentences and the explanation to five.
- Output valid JSON only.`

var diagnosisUserTemplate = template.Must(template.New("diagnosis").Parse(`Passage{{if .Title}} ("{{.Title}}"){{end}}:
{{.Passage}}

Question: {{.Stem}}
Options:
{{range .Options}}({{.Label}}) {{.Text}}
{{end}}
Learner's answer: ({{.Submitted}}) {{.SubmittedText}}
Correct answer: ({{.Correct}}) {{.CorrectText}}
{{if .Suspected}}Rule check suggests: {{.Suspected}}
{{end}}
Trap types:
{{range .Traps}}- {{.Type}}: {{.Description}}
{{end}}`))

type promptOption struct {
	Label string
	Text  string
}

type promptData struct {
	Title         string
	Passage       string
	Stem          string
	Options       []promptOption
	Submitted     string
	SubmittedText string
	Correct       string
	CorrectText   string
	Suspected     TrapType
	Traps         []Trap
}

func (d *Diagnoser) buildMessage(p content.Passage, q content.Question, submitted, correct string) (string, error) {
	body := p.Body
	if d.cfg.MaxPassageChars > 0 && len(body) > d.cfg.MaxPassageChars {
		cut := d.cfg.MaxPassageChars
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut] + "..."
	}

	submitted = content.NormalizeLabel(submitted)
	correct = content.NormalizeLabel(correct)

	data := promptData{
		Title:         p.Title,
		Passage:       body,
		Stem:          q.Stem,
		Submitted:     submitted,
		SubmittedText: q.Options[submitted],
		Correct:       correct,
		CorrectText:   q.Options[correct],
		Traps:         Traps(),
	}
	for _, l := range q.Labels() {
		data.Options = append(data.Options, promptOption{Label: l, Text: q.Options[l]})
	}
	data.Suspected, _, _ = RunClassifiers(d.classifiers, q, submitted)

	var buf bytes.Buffer
	if err := diagnosisUserTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// minQuotedChars is the shortest option text treated as a quotation.
const minQuotedChars = 12

// RevealsAnswer reports whether hint names the correct option by label
// ("option C", "(C)", "answer is C") or quotes its text.
func RevealsAnswer(hint string, q content.Question, correct string) bool {
	label := regexp.QuoteMeta(content.NormalizeLabel(correct))
	if label == "" {
		return false
	}
	byLabel := regexp.MustCompile(`\b(?i:option|choice|answer|letter)\s*\(?` + label + `\)?(?:\W|$)` +
		`|\(` + label + `\)` +
		`|\b(?i:answer\s+(?:is|was))\s+\(?` + label + `\b`)
	if byLabel.MatchString(hint) {
		return true
	}

	text := strings.ToLower(strings.TrimSpace(q.Options[content.NormalizeLabel(correct)]))
	return len(text) >= minQuotedChars && strings.Contains(strings.ToLower(hint), text)
}
