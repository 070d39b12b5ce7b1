package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/abhisek/drillsergeant/internal/llm"
)

type instrumentedProvider struct {
	inner llm.Provider
	m     *Metrics
}

// WrapProvider returns p instrumented with request, latency, token and
// error-kind metrics labelled by the request purpose. A nil receiver returns p as is.
func (m *Metrics) WrapProvider(p llm.Provider) llm.Provider {
	if m == nil {
		return p
	}
	return &instrumentedProvider{inner: p, m: m}
}

func (p *instrumentedProvider) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	purpose := llm.PurposeFrom(ctx)
	start := time.Now()
	resp, err := p.inner.Generate(ctx, req)

	p.m.ProviderRequests.WithLabelValues(purpose, p.inner.ModelID(), strconv.FormatBool(err == nil)).Inc()
	p.m.ProviderLatency.WithLabelValues(purpose).Observe(time.Since(start).Seconds())
	if err != nil {
		p.m.ProviderErrors.WithLabelValues(purpose, llm.ErrorKind(err)).Inc()
	}
	if resp != nil {
		p.m.ProviderTokens.WithLabelValues(purpose, "input").Add(float64(resp.Usage.InputTokens))
		p.m.ProviderTokens.WithLabelValues(purpose, "output").Add(float64(resp.Usage.OutputTokens))
	}
	return resp, err
}

func (p *instrumentedProvider) ModelID() string {
	return p.inner.ModelID()
}
