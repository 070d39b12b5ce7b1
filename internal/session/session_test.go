package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/drillsergeant/internal/coach"
	"github.com/abhisek/drillsergeant/internal/content"
	"github.com/abhisek/drillsergeant/internal/corpus"
	"github.com/abhisek/drillsergeant/internal/diagnosis"
	"github.com/abhisek/drillsergeant/internal/llm"
)

func testSet(t *testing.T, correct ...string) *content.Set {
	t.Helper()
	var qs []content.Question
	for i, c := range correct {
		q, err := content.NewQuestion(i+1, fmt.Sprintf("Question %d?", i+1), map[string]string{
			"A": "first", "B": "second", "C": "third", "D": "fourth",
		}, c)
		require.NoError(t, err)
		qs = append(qs, q)
	}
	set, err := content.NewSet(content.Passage{Title: "T", Body: "Passage body."}, qs)
	require.NoError(t, err)
	return set
}

type pickerFunc func(ctx context.Context) (*content.Set, error)

func (f pickerFunc) Pick(ctx context.Context) (*content.Set, error) { return f(ctx) }

type generatorFunc func(ctx context.Context, d content.Difficulty) (*content.Set, error)

func (f generatorFunc) Generate(ctx context.Context, d content.Difficulty) (*content.Set, error) {
	return f(ctx, d)
}

type diagnoserFunc func(ctx context.Context, p content.Passage, q content.Question, submitted, correct string) diagnosis.Diagnosis

func (f diagnoserFunc) Diagnose(ctx context.Context, p content.Passage, q content.Question, submitted, correct string) diagnosis.Diagnosis {
	return f(ctx, p, q, submitted, correct)
}

type coachFunc func(ctx context.Context, req coach.Request) (*coach.Message, error)

func (f coachFunc) Summarize(ctx context.Context, req coach.Request) (*coach.Message, error) {
	return f(ctx, req)
}

func fixedPicker(set *content.Set) ContentPicker {
	return pickerFunc(func(context.Context) (*content.Set, error) { return set, nil })
}

func okDiagnosis(trap diagnosis.TrapType) diagnosis.Diagnosis {
	return diagnosis.Diagnosis{TrapType: trap, RetryHint: "Reread line 3.", FullExplanation: "Because."}
}

func TestStore_PutGet(t *testing.T) {
	st := NewStore()
	id := st.Put(Session{ID: "ignored", Difficulty: content.Beginner})

	got, ok := st.Get(id)
	require.True(t, ok)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, content.Beginner, got.Difficulty)
	assert.Equal(t, 1, st.Len())

	_, ok = st.Get("missing")
	assert.False(t, ok)
}

func TestStore_RegeneratesCollidingID(t *testing.T) {
	st := NewStore()
	ids := []string{"dup", "dup", "fresh"}
	st.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	assert.Equal(t, "dup", st.Put(Session{}))
	assert.Equal(t, "fresh", st.Put(Session{}))
	assert.Equal(t, 2, st.Len())
}

func TestCreateSession_DistinctIDsUnderConcurrency(t *testing.T) {
	svc := NewService(WithCorpus(fixedPicker(testSet(t, "A", "B"))))

	const n = 64
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := svc.CreateSession(t.Context(), content.Intermediate, time.Time{})
			if err == nil {
				ids[i] = s.ID
			}
		}()
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, id := range ids {
		require.NotEmpty(t, id)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
		_, ok := svc.Store().Get(id)
		require.True(t, ok)
	}
	assert.Equal(t, n, svc.Store().Len())
}

func TestCreateSession_CorpusPrimary(t *testing.T) {
	var generated atomic.Int32
	gen := generatorFunc(func(context.Context, content.Difficulty) (*content.Set, error) {
		generated.Add(1)
		return nil, errors.New("unused")
	})
	exam := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	svc := NewService(WithCorpus(fixedPicker(testSet(t, "A", "C"))), WithGenerator(gen))

	s, err := svc.CreateSession(t.Context(), content.Advanced, exam)
	require.NoError(t, err)
	assert.Equal(t, SourceCorpus, s.Source)
	assert.Equal(t, content.Advanced, s.Difficulty)
	assert.Equal(t, exam, s.ExamDate)
	assert.Len(t, s.Questions, 2)
	assert.False(t, s.CreatedAt.IsZero())
	assert.Zero(t, generated.Load())
}

func TestCreateSession_EmptyCorpusFallsBackToGeneration(t *testing.T) {
	reader := corpus.NewReader(t.TempDir())
	var gotDifficulty content.Difficulty
	gen := generatorFunc(func(_ context.Context, d content.Difficulty) (*content.Set, error) {
		gotDifficulty = d
		return testSet(t, "B", "D", "A"), nil
	})
	svc := NewService(WithCorpus(reader), WithGenerator(gen))

	s, err := svc.CreateSession(t.Context(), content.Beginner, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, SourceGenerated, s.Source)
	assert.Equal(t, content.Beginner, gotDifficulty)
	assert.NotEmpty(t, s.Questions)
}

func TestCreateSession_MalformedCorpusFallsBack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"text": 1}`), 0o644))
	gen := generatorFunc(func(context.Context, content.Difficulty) (*content.Set, error) {
		return testSet(t, "A", "A"), nil
	})
	svc := NewService(WithCorpus(corpus.NewReader(dir)), WithGenerator(gen))

	s, err := svc.CreateSession(t.Context(), content.Intermediate, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, SourceGenerated, s.Source)
}

func TestCreateSession_BothFail(t *testing.T) {
	corpusErr := errors.New("disk gone")
	genErr := errors.New("provider down")
	svc := NewService(
		WithCorpus(pickerFunc(func(context.Context) (*content.Set, error) { return nil, corpusErr })),
		WithGenerator(generatorFunc(func(context.Context, content.Difficulty) (*content.Set, error) { return nil, genErr })),
	)

	_, err := svc.CreateSession(t.Context(), content.Intermediate, time.Time{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrContentSourcing)
	assert.ErrorIs(t, err, corpusErr)
	assert.ErrorIs(t, err, genErr)

	var cse *ContentSourcingError
	require.ErrorAs(t, err, &cse)
	assert.Equal(t, corpusErr, cse.Primary)
	assert.Zero(t, svc.Store().Len())
}

func TestCreateSession_NoSourcesConfigured(t *testing.T) {
	_, err := NewService().CreateSession(t.Context(), content.Beginner, time.Time{})
	assert.ErrorIs(t, err, ErrContentSourcing)
}

func TestCreateSession_GenerationTimeout(t *testing.T) {
	gen := generatorFunc(func(ctx context.Context, _ content.Difficulty) (*content.Set, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	cfg := DefaultConfig()
	cfg.GenerationTimeout = 10 * time.Millisecond
	svc := NewService(WithGenerator(gen), WithConfig(cfg))

	_, err := svc.CreateSession(t.Context(), content.Beginner, time.Time{})
	assert.ErrorIs(t, err, ErrContentSourcing)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAnalyzeAnswers_UnknownSession(t *testing.T) {
	_, err := NewService().AnalyzeAnswers(t.Context(), "nope", map[int]string{1: "A"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAnalyzeAnswers_AllCorrectMakesNoCalls(t *testing.T) {
	var calls atomic.Int32
	d := diagnoserFunc(func(context.Context, content.Passage, content.Question, string, string) diagnosis.Diagnosis {
		calls.Add(1)
		return okDiagnosis(diagnosis.TrapDistortion)
	})
	svc := NewService(WithCorpus(fixedPicker(testSet(t, "A", "B", "C"))), WithDiagnoser(d))
	s, err := svc.CreateSession(t.Context(), content.Intermediate, time.Time{})
	require.NoError(t, err)

	results, err := svc.AnalyzeAnswers(t.Context(), s.ID, map[int]string{1: "A", 2: " b ", 3: "c"})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, calls.Load())
}

func TestAnalyzeAnswers_SingleMistake(t *testing.T) {
	var gotSubmitted, gotCorrect string
	d := diagnoserFunc(func(_ context.Context, _ content.Passage, q content.Question, submitted, correct string) diagnosis.Diagnosis {
		gotSubmitted, gotCorrect = submitted, correct
		return okDiagnosis(diagnosis.TrapOutOfScope)
	})
	svc := NewService(WithCorpus(fixedPicker(testSet(t, "A", "B", "C"))), WithDiagnoser(d))
	s, err := svc.CreateSession(t.Context(), content.Intermediate, time.Time{})
	require.NoError(t, err)

	results, err := svc.AnalyzeAnswers(t.Context(), s.ID, map[int]string{1: "A", 2: "d", 3: "C"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].QuestionID)
	assert.Equal(t, diagnosis.TrapOutOfScope, results[0].Diagnosis.TrapType)
	assert.Equal(t, "D", gotSubmitted)
	assert.Equal(t, "B", gotCorrect)
}

func TestAnalyzeAnswers_OrderPreservedWhenFirstIsSlowest(t *testing.T) {
	d := diagnoserFunc(func(_ context.Context, _ content.Passage, q content.Question, _, _ string) diagnosis.Diagnosis {
		if q.ID == 1 {
			time.Sleep(50 * time.Millisecond)
		}
		return okDiagnosis(diagnosis.TrapType(fmt.Sprintf("trap-%d", q.ID)))
	})
	svc := NewService(WithCorpus(fixedPicker(testSet(t, "A", "A", "A"))), WithDiagnoser(d))
	s, err := svc.CreateSession(t.Context(), content.Intermediate, time.Time{})
	require.NoError(t, err)

	results, err := svc.AnalyzeAnswers(t.Context(), s.ID, map[int]string{1: "B", 2: "C", 3: "D"})
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, i+1, r.QuestionID)
		assert.Equal(t, diagnosis.TrapType(fmt.Sprintf("trap-%d", i+1)), r.Diagnosis.TrapType)
	}
}

func TestAnalyzeAnswers_RunsConcurrently(t *testing.T) {
	var inFlight, peak atomic.Int32
	release := make(chan struct{})
	d := diagnoserFunc(func(context.Context, content.Passage, content.Question, string, string) diagnosis.Diagnosis {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		if n == 3 {
			close(release)
		}
		<-release
		inFlight.Add(-1)
		return okDiagnosis(diagnosis.TrapDistortion)
	})
	svc := NewService(WithCorpus(fixedPicker(testSet(t, "A", "A", "A"))), WithDiagnoser(d))
	s, err := svc.CreateSession(t.Context(), content.Intermediate, time.Time{})
	require.NoError(t, err)

	results, err := svc.AnalyzeAnswers(t.Context(), s.ID, map[int]string{1: "B", 2: "B", 3: "B"})
	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Equal(t, int32(3), peak.Load())
}

func TestAnalyzeAnswers_ConcurrencyLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	d := diagnoserFunc(func(context.Context, content.Passage, content.Question, string, string) diagnosis.Diagnosis {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return okDiagnosis(diagnosis.TrapDistortion)
	})
	cfg := DefaultConfig()
	cfg.MaxConcurrentDiagnoses = 2
	svc := NewService(WithCorpus(fixedPicker(testSet(t, "A", "A", "A", "A", "A"))), WithDiagnoser(d), WithConfig(cfg))
	s, err := svc.CreateSession(t.Context(), content.Intermediate, time.Time{})
	require.NoError(t, err)

	results, err := svc.AnalyzeAnswers(t.Context(), s.ID, map[int]string{1: "B", 2: "B", 3: "B", 4: "B", 5: "B"})
	require.NoError(t, err)
	assert.Len(t, results, 5)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestAnalyzeAnswers_OneFailureDegradesOnlyItsSlot(t *testing.T) {
	d := diagnoserFunc(func(_ context.Context, _ content.Passage, q content.Question, _, _ string) diagnosis.Diagnosis {
		if q.ID == 2 {
			return diagnosis.Degraded()
		}
		return okDiagnosis(diagnosis.TrapReversal)
	})
	svc := NewService(WithCorpus(fixedPicker(testSet(t, "A", "A", "A"))), WithDiagnoser(d))
	s, err := svc.CreateSession(t.Context(), content.Intermediate, time.Time{})
	require.NoError(t, err)

	results, err := svc.AnalyzeAnswers(t.Context(), s.ID, map[int]string{1: "B", 2: "B", 3: "B"})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.False(t, results[0].Diagnosis.Degraded)
	assert.True(t, results[1].Diagnosis.Degraded)
	assert.Equal(t, diagnosis.TrapUnknown, results[1].Diagnosis.TrapType)
	assert.False(t, results[2].Diagnosis.Degraded)
}

func TestAnalyzeAnswers_PanickingSlotDegrades(t *testing.T) {
	provider := llm.ProviderFunc(func(_ context.Context, req llm.Request) (*llm.Response, error) {
		if strings.Contains(req.Messages[0].Content, "Question 2?") {
			panic("provider blew up")
		}
		return &llm.Response{Content: json.RawMessage(`{"trap_type":"Reversal","hint_for_retry":"Reread line 2.","full_explanation":"e"}`)}, nil
	})
	d := diagnosis.NewDiagnoser(provider, diagnosis.DefaultDiagnoserConfig())
	svc := NewService(WithCorpus(fixedPicker(testSet(t, "A", "A", "A"))), WithDiagnoser(d))
	s, err := svc.CreateSession(t.Context(), content.Intermediate, time.Time{})
	require.NoError(t, err)

	var results []Result
	require.NotPanics(t, func() {
		results, err = svc.AnalyzeAnswers(t.Context(), s.ID, map[int]string{1: "B", 2: "B", 3: "B"})
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 1, results[0].QuestionID)
	assert.False(t, results[0].Diagnosis.Degraded)
	assert.Equal(t, 2, results[1].QuestionID)
	assert.Equal(t, diagnosis.Degraded(), results[1].Diagnosis)
	assert.Equal(t, 3, results[2].QuestionID)
	assert.False(t, results[2].Diagnosis.Degraded)
}

func TestAnalyzeAnswers_SlotTimeoutIsPerSlot(t *testing.T) {
	d := diagnoserFunc(func(ctx context.Context, _ content.Passage, q content.Question, _, _ string) diagnosis.Diagnosis {
		if q.ID == 1 {
			<-ctx.Done()
			return diagnosis.Degraded()
		}
		time.Sleep(20 * time.Millisecond)
		if ctx.Err() != nil {
			return diagnosis.Degraded()
		}
		return okDiagnosis(diagnosis.TrapDistortion)
	})
	cfg := DefaultConfig()
	cfg.DiagnosisTimeout = 100 * time.Millisecond
	svc := NewService(WithCorpus(fixedPicker(testSet(t, "A", "A"))), WithDiagnoser(d), WithConfig(cfg))
	s, err := svc.CreateSession(t.Context(), content.Intermediate, time.Time{})
	require.NoError(t, err)

	results, err := svc.AnalyzeAnswers(t.Context(), s.ID, map[int]string{1: "B", 2: "B"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Diagnosis.Degraded)
	assert.False(t, results[1].Diagnosis.Degraded)
}

func TestAnalyzeAnswers_CallerCancellationReachesSlots(t *testing.T) {
	d := diagnoserFunc(func(ctx context.Context, _ content.Passage, _ content.Question, _, _ string) diagnosis.Diagnosis {
		<-ctx.Done()
		return diagnosis.Degraded()
	})
	svc := NewService(WithCorpus(fixedPicker(testSet(t, "A", "A"))), WithDiagnoser(d))
	s, err := svc.CreateSession(t.Context(), content.Intermediate, time.Time{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	results, err := svc.AnalyzeAnswers(ctx, s.ID, map[int]string{1: "B", 2: "B"})
	require.NoError(t, err)
	for _, r := range results {
		assert.True(t, r.Diagnosis.Degraded)
	}
}

func TestAnalyzeAnswers_NoDiagnoserDegrades(t *testing.T) {
	svc := NewService(WithCorpus(fixedPicker(testSet(t, "A"))))
	s, err := svc.CreateSession(t.Context(), content.Intermediate, time.Time{})
	require.NoError(t, err)

	results, err := svc.AnalyzeAnswers(t.Context(), s.ID, map[int]string{1: "C"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, diagnosis.Degraded(), results[0].Diagnosis)
}

func TestFindMistakes(t *testing.T) {
	set := testSet(t, "A", "B", "C", "D")
	mistakes := FindMistakes(set.Questions, map[int]string{
		1:  "a",  // correct after normalizing
		2:  "  ", // blank
		3:  "D",  // wrong
		99: "A",  // unknown question
	})
	require.Len(t, mistakes, 1)
	assert.Equal(t, 3, mistakes[0].Question.ID)
	assert.Equal(t, "D", mistakes[0].SubmittedOption)
	assert.Equal(t, "C", mistakes[0].CorrectOption)
}

func TestComposeSummary(t *testing.T) {
	var got coach.Request
	c := coachFunc(func(_ context.Context, req coach.Request) (*coach.Message, error) {
		got = req
		return &coach.Message{Headline: "Sharp Work", Body: "Keep drilling."}, nil
	})
	svc := NewService(WithCoach(c))
	exam := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)

	payload := svc.ComposeSummary(t.Context(), SummaryRequest{
		OriginalScore:   "1/3",
		FinalMastery:    "3/3",
		TrapsIdentified: []string{"Distortion"},
		ExamDate:        exam,
	})
	assert.Equal(t, SummaryPayload{Headline: "Sharp Work", Body: "Keep drilling."}, payload)
	assert.Equal(t, "1/3", got.OriginalScore)
	assert.Equal(t, []string{"Distortion"}, got.TrapsIdentified)
	assert.Equal(t, exam, got.ExamDate)
}

func TestComposeSummary_Fallback(t *testing.T) {
	failing := coachFunc(func(context.Context, coach.Request) (*coach.Message, error) {
		return nil, errors.New("boom")
	})
	empty := coachFunc(func(context.Context, coach.Request) (*coach.Message, error) {
		return nil, nil
	})
	for name, svc := range map[string]*Service{
		"error":    NewService(WithCoach(failing)),
		"nil":      NewService(WithCoach(empty)),
		"no coach": NewService(),
	} {
		t.Run(name, func(t *testing.T) {
			payload := svc.ComposeSummary(t.Context(), SummaryRequest{})
			assert.Equal(t, "Session Complete", payload.Headline)
			assert.Equal(t, "Good job completing the drill. Come back tomorrow.", payload.Body)
			assert.True(t, payload.Degraded)
		})
	}
}

func TestScore(t *testing.T) {
	assert.Equal(t, "1/3", Score(1, 3))
	assert.Equal(t, "0/0", Score(0, 0))
}
