// Package aggregator is the public entry point: one logical query fanned
// out to every enabled engine, merged into a single deduplicated result.
package aggregator

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/omnisearch/internal/aggregate"
	"github.com/hyperifyio/omnisearch/internal/executor"
	"github.com/hyperifyio/omnisearch/internal/registry"
	"github.com/hyperifyio/omnisearch/internal/search"
)

// ErrNoEnginesEnabled is returned when neither the configuration nor the
// registry yields any engine to dispatch to.
var ErrNoEnginesEnabled = errors.New("no engines enabled")

// Config is the caller-supplied surface. Loading it from files or the
// environment is the app layer's job.
type Config struct {
	// Timeout is the shared deadline for one fan-out. Zero disables the
	// aggregator-level bound.
	Timeout time.Duration
	// EnabledEngines selects engines by name; empty means every
	// registered engine, in registration order.
	EnabledEngines []string
	// MaxResultsPerEngine is applied as the max-results option when the
	// caller did not set one. Zero leaves it to each engine's default.
	MaxResultsPerEngine int
	// MaxTotalResults caps the merged output. Zero means unbounded.
	MaxTotalResults int
	// FailSilently tolerates individual engine failures as long as at
	// least one engine succeeds.
	FailSilently bool
}

// Aggregator owns no per-call state; concurrent searches share only the
// read-only registry.
type Aggregator struct {
	reg *registry.Registry
	cfg Config
}

func New(reg *registry.Registry, cfg Config) *Aggregator {
	return &Aggregator{reg: reg, cfg: cfg}
}

// AvailableEngines lists every registered engine name.
func (a *Aggregator) AvailableEngines() []string {
	return a.reg.Discover()
}

// EnabledEngines lists the engines a search would dispatch to.
func (a *Aggregator) EnabledEngines() []string {
	if len(a.cfg.EnabledEngines) > 0 {
		out := make([]string, len(a.cfg.EnabledEngines))
		copy(out, a.cfg.EnabledEngines)
		return out
	}
	return a.reg.Discover()
}

// Search dispatches text to every enabled engine and returns the merged,
// deduplicated result. Pre-dispatch failures (empty query, unknown engine
// name) abort immediately; per-engine failures follow the fail-silently
// policy and always leave their trace in the outcome map.
func (a *Aggregator) Search(ctx context.Context, text string, opts search.Options) (*search.AggregateResult, error) {
	start := time.Now()
	q := search.Query{Text: text, Options: opts}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	names := a.EnabledEngines()
	if len(names) == 0 {
		return nil, ErrNoEnginesEnabled
	}
	entries, err := a.reg.Resolve(names)
	if err != nil {
		return nil, err
	}

	if _, ok := q.Options.Int(search.OptMaxResults); !ok && a.cfg.MaxResultsPerEngine > 0 {
		q.Options = q.Options.Clone()
		q.Options[search.OptMaxResults] = a.cfg.MaxResultsPerEngine
	}

	id := uuid.NewString()
	log.Debug().Str("request", id).Str("query", text).Strs("engines", names).Msg("fan-out start")

	outcomes, err := executor.Execute(ctx, q, entries, executor.Config{
		Timeout:      a.cfg.Timeout,
		FailSilently: a.cfg.FailSilently,
	})
	if err != nil {
		log.Warn().Str("request", id).Err(err).Msg("fan-out failed")
		return nil, err
	}

	merged := aggregate.Merge(outcomes, names, a.cfg.MaxTotalResults)
	res := assemble(text, names, outcomes, merged, time.Since(start))
	log.Info().Str("request", id).Int("sources", len(res.Sources)).Dur("elapsed", res.Elapsed).Msg("fan-out done")
	return res, nil
}

// assemble wraps the merged sequence with top-level metadata. The direct
// answer is the first non-empty one in engine enablement order. Pure
// construction, no side effects.
func assemble(query string, order []string, outcomes map[string]search.Outcome, merged []search.Source, elapsed time.Duration) *search.AggregateResult {
	answer := ""
	for _, name := range order {
		o, ok := outcomes[name]
		if ok && o.OK() && o.Success.Answer != "" {
			answer = o.Success.Answer
			break
		}
	}
	return &search.AggregateResult{
		Query:    query,
		Elapsed:  elapsed,
		Sources:  merged,
		Answer:   answer,
		Outcomes: outcomes,
	}
}
