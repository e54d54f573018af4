package pipeline

import (
	"context"
	"fmt"

	"github.com/ppiankov/centauri/internal/cache"
	"github.com/ppiankov/centauri/internal/classify"
	"github.com/ppiankov/centauri/internal/llm"
	"github.com/ppiankov/centauri/internal/model"
	"github.com/ppiankov/centauri/internal/serp"
	"github.com/ppiankov/centauri/internal/util"
	"github.com/ppiankov/centauri/internal/worker"
)

// wireRoles builds one provider per configured classifier role. A role whose provider
// cannot be initialised is reported and left on its offline fallback.
func (p *Pipeline) wireRoles(ctx context.Context, cfg *model.Config) error {
	store, err := cache.New(cfg.Cache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}

	cc := cfg.Classifiers
	limiter := worker.NewLimiter(cc.RequestsPerSecond, cc.Burst)

	provider := func(role string, c model.LLMConfig) llm.Provider {
		if !c.Enabled() {
			return nil
		}
		prov, err := llm.NewProvider(ctx, llm.ConfigFromModel(c, cfg.HTTP), llm.DefaultRetryConfig())
		if err != nil {
			p.logf("Warning: %s classifier disabled: %v", role, err)
			return nil
		}
		return prov
	}

	if prov := provider("source_a", cc.Primary); prov != nil {
		p.sourceA = &classify.LLMAdapter{
			Provider:    prov,
			Technique:   classify.TechniqueLinguistic,
			Cache:       store,
			Limiter:     limiter,
			BatchSize:   cc.BatchSize,
			Concurrency: cc.Concurrency,
			Purpose:     "source_a",
			Log:         p.log,
		}
	}
	if prov := provider("source_b", cc.Secondary); prov != nil {
		p.sourceB = &classify.LLMAdapter{
			Provider:    prov,
			Technique:   classify.TechniqueEditorial,
			Cache:       store,
			Limiter:     limiter,
			BatchSize:   cc.BatchSize,
			Concurrency: cc.Concurrency,
			Purpose:     "source_b",
			Log:         p.log,
		}
	}

	p.escalator = &classify.Escalator{
		Provider:   provider("escalation", cc.Escalation),
		Cache:      store,
		Limiter:    limiter,
		MaxRetries: cc.MaxRetries,
		Log:        p.log,
	}
	p.signals = &classify.SignalTagger{
		Provider:    provider("signals", cc.Signals),
		Cache:       store,
		Limiter:     limiter,
		BatchSize:   cc.BatchSize,
		Concurrency: cc.Concurrency,
		Log:         p.log,
	}
	p.researcher = &serp.Researcher{
		Provider: provider("research", cc.Research),
		Cache:    store,
		Limiter:  limiter,
		Log:      p.log,
	}
	return nil
}

// newConfiguredFetcher builds the URL fetcher with robots.txt checks when enabled
func newConfiguredFetcher(cfg model.HTTPConfig) *Fetcher {
	f := NewFetcher(cfg.Timeout, cfg.UserAgent, cfg.MaxBodyBytes, cfg.InsecureTLS, cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy)
	f.WithLimiter(worker.NewLimiter(1, 1))
	if cfg.RespectRobots {
		f.WithRobots(util.NewRobotsChecker(cfg.UserAgent, f.Client()))
	}
	return f
}

// classifierNames maps each role to the classifier that served it
func (p *Pipeline) classifierNames() map[string]string {
	names := map[string]string{
		"source_a":   p.sourceA.Name(),
		"source_b":   p.sourceB.Name(),
		"escalation": "none",
		"signals":    "detectors",
		"research":   "none",
	}
	if p.escalator != nil && p.escalator.Provider != nil {
		names["escalation"] = p.escalator.Provider.Name()
	}
	if p.signals != nil && p.signals.Provider != nil {
		names["signals"] = p.signals.Provider.Name()
	}
	if p.researcher.Enabled() {
		names["research"] = p.researcher.Provider.Name()
	}
	return names
}
