// Package executor fans one query out to every enabled engine under a
// shared deadline and collects per-engine outcomes.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/omnisearch/internal/registry"
	"github.com/hyperifyio/omnisearch/internal/search"
)

// Config controls fan-out behavior for one call.
type Config struct {
	// Timeout bounds the whole fan-out. Zero means the caller's context
	// deadline, if any, is the only bound.
	Timeout time.Duration
	// FailSilently absorbs individual engine failures into the outcome map.
	// When false, the first non-timeout failure (in engine order) surfaces
	// as the call's error; timeouts are always tolerated.
	FailSilently bool
}

// AllEnginesFailedError means no engine produced usable data. It is
// returned regardless of the fail-silently setting.
type AllEnginesFailedError struct {
	Outcomes map[string]search.Outcome
}

func (e *AllEnginesFailedError) Error() string {
	return fmt.Sprintf("all %d engines failed", len(e.Outcomes))
}

// FanoutError surfaces one engine's failure as the aggregate call's error
// while keeping the partial outcome map for diagnostics.
type FanoutError struct {
	Cause    *search.Error
	Outcomes map[string]search.Outcome
}

func (e *FanoutError) Error() string { return e.Cause.Error() }

func (e *FanoutError) Unwrap() error { return e.Cause }

// Execute invokes every engine concurrently with the same query. Each
// invocation is isolated: an error or panic in one engine never cancels
// its siblings. On deadline expiry engines that have not reported are
// recorded as timeouts and any result they eventually produce is
// discarded.
//
// The returned map always holds one outcome per engine, even when an
// error is returned alongside it.
func Execute(ctx context.Context, q search.Query, engines []registry.Entry, cfg Config) (map[string]search.Outcome, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	// Buffered so stragglers finishing after the deadline never block.
	results := make(chan search.Outcome, len(engines))
	for _, ent := range engines {
		go func(ent registry.Entry) {
			results <- invoke(ctx, ent, q)
		}(ent)
	}

	outcomes := make(map[string]search.Outcome, len(engines))
	for pending := len(engines); pending > 0; {
		select {
		case o := <-results:
			outcomes[o.Engine] = o
			pending--
		case <-ctx.Done():
			elapsed := time.Since(start)
			for _, ent := range engines {
				if _, ok := outcomes[ent.Name]; ok {
					continue
				}
				outcomes[ent.Name] = search.Outcome{
					Engine:  ent.Name,
					Err:     search.NewError(ent.Name, search.KindTimeout, "deadline expired before engine responded", ctx.Err()),
					Elapsed: elapsed,
				}
			}
			pending = 0
		}
	}

	return outcomes, policy(outcomes, engines, cfg)
}

// policy decides whether the collected outcomes amount to a call-level
// error. Engine order, not completion order, picks the surfaced failure.
func policy(outcomes map[string]search.Outcome, engines []registry.Entry, cfg Config) error {
	failed := 0
	var first *search.Error
	for _, ent := range engines {
		o := outcomes[ent.Name]
		if o.OK() {
			continue
		}
		failed++
		if first == nil && o.Err.Kind != search.KindTimeout {
			first = o.Err
		}
	}
	if len(engines) > 0 && failed == len(engines) {
		return &AllEnginesFailedError{Outcomes: outcomes}
	}
	if !cfg.FailSilently && first != nil {
		return &FanoutError{Cause: first, Outcomes: outcomes}
	}
	return nil
}

// invoke runs one engine and converts whatever happens, including a
// panic, into an Outcome.
func invoke(ctx context.Context, ent registry.Entry, q search.Query) (out search.Outcome) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("engine", ent.Name).Interface("panic", r).Msg("engine panicked")
			out = search.Outcome{
				Engine:  ent.Name,
				Err:     search.NewError(ent.Name, search.KindUnknown, fmt.Sprintf("engine panic: %v", r), nil),
				Elapsed: time.Since(start),
			}
		}
	}()

	s, err := ent.Engine.Search(ctx, q)
	elapsed := time.Since(start)
	if err != nil {
		e := search.Classify(ent.Name, err)
		log.Debug().Str("engine", ent.Name).Str("kind", string(e.Kind)).Dur("elapsed", elapsed).Msg("engine failed")
		return search.Outcome{Engine: ent.Name, Err: e, Elapsed: elapsed}
	}
	if s == nil {
		s = &search.Success{}
	}
	if s.Elapsed == 0 {
		s.Elapsed = elapsed
	}
	log.Debug().Str("engine", ent.Name).Int("sources", len(s.Sources)).Dur("elapsed", elapsed).Msg("engine succeeded")
	return search.Outcome{Engine: ent.Name, Success: s, Elapsed: elapsed}
}
