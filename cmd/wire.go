package cmd

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/drillsergeant/internal/coach"
	"github.com/abhisek/drillsergeant/internal/config"
	"github.com/abhisek/drillsergeant/internal/corpus"
	"github.com/abhisek/drillsergeant/internal/diagnosis"
	"github.com/abhisek/drillsergeant/internal/generation"
	"github.com/abhisek/drillsergeant/internal/llm"
	"github.com/abhisek/drillsergeant/internal/metrics"
	"github.com/abhisek/drillsergeant/internal/session"
	"github.com/abhisek/drillsergeant/internal/store"
)

// services is everything a front end needs to run drills.
type services struct {
	Session *session.Service
	Store   *store.Store
}

func (s *services) Close() error {
	if s.Store == nil {
		return nil
	}
	return s.Store.Close()
}

// buildServices wires the event log, LLM provider, corpus and orchestrator.
// A missing LLM configuration is not fatal: the corpus still serves
// sessions and diagnoses degrade to their fallbacks.
func buildServices(ctx context.Context, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (*services, error) {
	dbPath := cfg.DB.Path
	var err error
	if dbPath == "" {
		if dbPath, err = store.DefaultDBPath(); err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
	} else if err = store.EnsureDir(dbPath); err != nil {
		return nil, fmt.Errorf("create DB dir: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	opts := []session.Option{
		session.WithConfig(cfg.Session()),
		session.WithLogger(logger),
		session.WithMetrics(m),
	}
	if cfg.Corpus.Dir != "" {
		opts = append(opts, session.WithCorpus(corpus.NewReader(cfg.Corpus.Dir)))
	}

	provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo(), logger.Named("llm"))
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		logger.Warn("no LLM provider configured; generation disabled, diagnoses and summaries will use fallbacks")
	case err != nil:
		st.Close()
		return nil, fmt.Errorf("LLM provider: %w", err)
	default:
		provider = m.WrapProvider(provider)
		logger.Info("llm provider ready", zap.String("model", provider.ModelID()))
		opts = append(opts,
			session.WithGenerator(generation.New(provider, generation.DefaultConfig())),
			session.WithDiagnoser(diagnosis.NewDiagnoser(provider, diagnosis.DefaultDiagnoserConfig(),
				diagnosis.WithLogger(logger.Named("diagnosis")),
				diagnosis.WithMetrics(m),
			)),
			session.WithCoach(coach.NewService(provider, coach.DefaultConfig())),
		)
	}

	return &services{Session: session.NewService(opts...), Store: st}, nil
}
