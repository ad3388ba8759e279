package search

import (
	"context"
	"strings"
	"time"
)

// Source is a single search hit from any engine. URL is the identity used
// for deduplication downstream. Score, when present, is on the producing
// backend's own scale and is not comparable across engines.
type Source struct {
	Title   string  `json:"title,omitempty"`
	URL     string  `json:"url"`
	Content string  `json:"content,omitempty"`
	Score   float64 `json:"score,omitempty"`
	Engine  string  `json:"engine,omitempty"`
}

// Success is what an engine returns when a search worked: an ordered list
// of sources, an optional direct answer, and how long the call took.
type Success struct {
	Sources []Source      `json:"sources"`
	Answer  string        `json:"answer,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
}

// Engine is the capability contract every backend adapter satisfies.
// Implementations validate their own option set, map transport failures
// onto the Error taxonomy, and must honor context cancellation.
type Engine interface {
	Name() string
	Search(ctx context.Context, q Query) (*Success, error)
}

// Query is one logical search request: non-empty text plus an open bag of
// per-call parameters.
type Query struct {
	Text    string
	Options Options
}

// Validate rejects empty or whitespace-only query text.
func (q Query) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return ErrInvalidQuery
	}
	return nil
}

// MaxResults returns the max-results option, or def when unset or invalid.
func (q Query) MaxResults(def int) int {
	if n, ok := q.Options.Int(OptMaxResults); ok && n > 0 {
		return n
	}
	return def
}

// Outcome records the result of invoking one engine for one query.
// Exactly one of Success or Err is set.
type Outcome struct {
	Engine  string        `json:"engine"`
	Success *Success      `json:"success,omitempty"`
	Err     *Error        `json:"error,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
}

// OK reports whether the engine produced a usable result.
func (o Outcome) OK() bool { return o.Success != nil }

// AggregateResult is the merged response for one logical search call.
// Outcomes keeps the raw per-engine record for diagnostics regardless of
// how many engines succeeded.
type AggregateResult struct {
	Query    string             `json:"query"`
	Elapsed  time.Duration      `json:"elapsed"`
	Sources  []Source           `json:"sources"`
	Answer   string             `json:"answer,omitempty"`
	Outcomes map[string]Outcome `json:"outcomes"`
}
