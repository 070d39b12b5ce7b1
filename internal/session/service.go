package session

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/drillsergeant/internal/coach"
	"github.com/abhisek/drillsergeant/internal/content"
	"github.com/abhisek/drillsergeant/internal/diagnosis"
	"github.com/abhisek/drillsergeant/internal/generation"
	"github.com/abhisek/drillsergeant/internal/metrics"
)

// ContentPicker returns a ready-made question set, typically from the
// local corpus.
type ContentPicker interface {
	Pick(ctx context.Context) (*content.Set, error)
}

// Diagnoser explains one mistake. It never fails; provider errors resolve
// to a degraded diagnosis.
type Diagnoser interface {
	Diagnose(ctx context.Context, p content.Passage, q content.Question, submitted, correct string) diagnosis.Diagnosis
}

var (
	errNoCorpus    = errors.New("no corpus configured")
	errNoGenerator = errors.New("no content generator configured")
	errNoCoach     = errors.New("no coach configured")
)

// SummaryRequest carries caller-computed results for the closing message.
type SummaryRequest struct {
	OriginalScore   string
	FinalMastery    string
	TrapsIdentified []string
	ExamDate        time.Time
}

// SummaryPayload is the coach message returned to the learner.
type SummaryPayload struct {
	Headline string
	Body     string
	Degraded bool
}

// FallbackSummary is returned when the coach cannot produce a message.
var FallbackSummary = SummaryPayload{
	Headline: "Session Complete",
	Body:     "Good job completing the drill. Come back tomorrow.",
	Degraded: true,
}

// Service orchestrates session creation, answer analysis and summaries.
type Service struct {
	store     *Store
	picker    ContentPicker
	generator generation.Generator
	diagnoser Diagnoser
	coach     coach.Coach
	cfg       Config
	logger    *zap.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithCorpus sets the primary content source.
func WithCorpus(p ContentPicker) Option { return func(s *Service) { s.picker = p } }

// WithGenerator sets the fallback content source.
func WithGenerator(g generation.Generator) Option { return func(s *Service) { s.generator = g } }

// WithDiagnoser sets the mistake diagnoser.
func WithDiagnoser(d Diagnoser) Option { return func(s *Service) { s.diagnoser = d } }

// WithCoach sets the summary writer.
func WithCoach(c coach.Coach) Option { return func(s *Service) { s.coach = c } }

// WithStore replaces the session store.
func WithStore(st *Store) Option { return func(s *Service) { s.store = st } }

// WithConfig sets timeouts and concurrency limits.
func WithConfig(cfg Config) Option { return func(s *Service) { s.cfg = cfg } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.logger = l } }

// WithMetrics records session metrics.
func WithMetrics(m *metrics.Metrics) Option { return func(s *Service) { s.metrics = m } }

// NewService creates an orchestrator with its own Store unless WithStore is given.
func NewService(opts ...Option) *Service {
	s := &Service{
		cfg:    DefaultConfig(),
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.store == nil {
		s.store = NewStore()
	}
	if s.cfg.MaxConcurrentDiagnoses < 1 {
		s.cfg.MaxConcurrentDiagnoses = 1
	}
	return s
}

// Store returns the session store.
func (s *Service) Store() *Store { return s.store }

// CreateSession sources a question set, corpus first and generation second,
// and stores it. Nothing is stored when both sources fail.
func (s *Service) CreateSession(ctx context.Context, difficulty content.Difficulty, examDate time.Time) (Session, error) {
	set, source, err := s.source(ctx, difficulty)
	if err != nil {
		return Session{}, err
	}

	sess := Session{
		Passage:    set.Passage,
		Questions:  set.Questions,
		Difficulty: difficulty,
		ExamDate:   examDate,
		Source:     source,
		CreatedAt:  s.now(),
	}
	sess.ID = s.store.Put(sess)
	s.metrics.RecordSessionCreated(string(source))

	s.logger.Info("session created",
		zap.String("session_id", sess.ID),
		zap.String("source", string(source)),
		zap.String("difficulty", string(difficulty)),
		zap.Int("questions", len(sess.Questions)),
	)
	return sess, nil
}

func (s *Service) source(ctx context.Context, difficulty content.Difficulty) (*content.Set, Source, error) {
	primaryErr := errNoCorpus
	if s.picker != nil {
		set, err := s.picker.Pick(ctx)
		if err == nil {
			return set, SourceCorpus, nil
		}
		primaryErr = err
	}
	s.metrics.RecordSourcingFailure(string(SourceCorpus))
	s.logger.Warn("corpus unavailable, generating content", zap.Error(primaryErr))

	if err := ctx.Err(); err != nil {
		return nil, "", &ContentSourcingError{Primary: primaryErr, Secondary: err}
	}

	secondaryErr := errNoGenerator
	if s.generator != nil {
		genCtx, cancel := context.WithTimeout(ctx, s.cfg.GenerationTimeout)
		defer cancel()
		set, err := s.generator.Generate(genCtx, difficulty)
		if err == nil {
			return set, SourceGenerated, nil
		}
		secondaryErr = err
	}
	s.metrics.RecordSourcingFailure(string(SourceGenerated))
	s.logger.Error("content generation failed", zap.Error(secondaryErr))

	return nil, "", &ContentSourcingError{Primary: primaryErr, Secondary: secondaryErr}
}

// AnalyzeAnswers diagnoses every wrong answer of a stored session.
// answers maps question id to the submitted option label. Diagnoses run
// concurrently; results follow the session's question order.
func (s *Service) AnalyzeAnswers(ctx context.Context, sessionID string, answers map[int]string) ([]Result, error) {
	sess, ok := s.store.Get(sessionID)
	if !ok {
		s.metrics.RecordAnalyze("not_found", 0)
		return nil, ErrNotFound
	}

	mistakes := FindMistakes(sess.Questions, answers)
	results := make([]Result, len(mistakes))
	if len(mistakes) == 0 {
		s.metrics.RecordAnalyze("ok", 0)
		return results, nil
	}

	var g errgroup.Group
	g.SetLimit(s.cfg.MaxConcurrentDiagnoses)
	for i, m := range mistakes {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("diagnosis panicked",
						zap.String("session_id", sessionID),
						zap.Int("question_id", m.Question.ID),
						zap.Any("panic", r),
					)
					s.metrics.RecordDegraded(metrics.KindDiagnosis)
					results[i] = Result{QuestionID: m.Question.ID, Diagnosis: diagnosis.Degraded()}
				}
			}()
			slotCtx, cancel := context.WithTimeout(ctx, s.cfg.DiagnosisTimeout)
			defer cancel()
			results[i] = Result{
				QuestionID: m.Question.ID,
				Diagnosis:  s.diagnose(slotCtx, sess.Passage, m),
			}
			return nil
		})
	}
	_ = g.Wait()

	degraded := 0
	for _, r := range results {
		if r.Diagnosis.Degraded {
			degraded++
		}
	}
	s.metrics.RecordAnalyze("ok", len(mistakes))
	s.logger.Info("answers analyzed",
		zap.String("session_id", sessionID),
		zap.Int("mistakes", len(mistakes)),
		zap.Int("degraded", degraded),
	)
	return results, nil
}

func (s *Service) diagnose(ctx context.Context, p content.Passage, m Mistake) diagnosis.Diagnosis {
	if s.diagnoser == nil {
		s.metrics.RecordDegraded(metrics.KindDiagnosis)
		return diagnosis.Degraded()
	}
	return s.diagnoser.Diagnose(ctx, p, m.Question, m.SubmittedOption, m.CorrectOption)
}

// ComposeSummary asks the coach for a closing message, falling back to
// FallbackSummary on any failure.
func (s *Service) ComposeSummary(ctx context.Context, req SummaryRequest) SummaryPayload {
	msg, err := s.summarize(ctx, req)
	if err == nil && msg == nil {
		err = coach.ErrEmptyMessage
	}
	if err != nil {
		s.logger.Warn("summary degraded", zap.Error(err))
		s.metrics.RecordDegraded(metrics.KindSummary)
		return FallbackSummary
	}
	return SummaryPayload{Headline: msg.Headline, Body: msg.Body}
}

func (s *Service) summarize(ctx context.Context, req SummaryRequest) (*coach.Message, error) {
	if s.coach == nil {
		return nil, errNoCoach
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.SummaryTimeout)
	defer cancel()
	return s.coach.Summarize(ctx, coach.Request{
		OriginalScore:   req.OriginalScore,
		FinalMastery:    req.FinalMastery,
		TrapsIdentified: req.TrapsIdentified,
		ExamDate:        req.ExamDate,
	})
}
