package aggregator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hyperifyio/omnisearch/internal/executor"
	"github.com/hyperifyio/omnisearch/internal/registry"
	"github.com/hyperifyio/omnisearch/internal/search"
)

type fakeEngine struct {
	name    string
	sources []search.Source
	answer  string
	err     error
	delay   time.Duration
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) Search(ctx context.Context, _ search.Query) (*search.Success, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &search.Success{Sources: f.sources, Answer: f.answer}, nil
}

func newRegistry(t *testing.T, engines ...*fakeEngine) *registry.Registry {
	t.Helper()
	r := registry.New()
	for _, e := range engines {
		e := e
		if err := r.Register(e.name, func() (search.Engine, error) { return e, nil }); err != nil {
			t.Fatalf("register %s: %v", e.name, err)
		}
	}
	return r
}

func TestSearch_EmptyQueryRejectedBeforeDispatch(t *testing.T) {
	a := New(newRegistry(t, &fakeEngine{name: "a"}), Config{})
	_, err := a.Search(context.Background(), "", nil)
	if !errors.Is(err, search.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestSearch_UnknownEngineRejectedBeforeDispatch(t *testing.T) {
	a := New(newRegistry(t, &fakeEngine{name: "a"}), Config{EnabledEngines: []string{"x"}})
	_, err := a.Search(context.Background(), "query", nil)
	var unknown *registry.UnknownEngineError
	if !errors.As(err, &unknown) || unknown.Name != "x" {
		t.Fatalf("expected UnknownEngineError for x, got %v", err)
	}
}

func TestSearch_NoEnginesEnabled(t *testing.T) {
	a := New(registry.New(), Config{})
	if _, err := a.Search(context.Background(), "query", nil); !errors.Is(err, ErrNoEnginesEnabled) {
		t.Fatalf("expected ErrNoEnginesEnabled, got %v", err)
	}
}

func TestSearch_MergesAndAssembles(t *testing.T) {
	reg := newRegistry(t,
		&fakeEngine{name: "web", sources: []search.Source{{URL: "https://e.com/1"}, {URL: "https://e.com/2"}}},
		&fakeEngine{name: "news", sources: []search.Source{{URL: "https://e.com/2"}, {URL: "https://e.com/3"}}, answer: "the answer"},
	)
	a := New(reg, Config{FailSilently: true})
	res, err := a.Search(context.Background(), "query", nil)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	want := []string{"https://e.com/1", "https://e.com/2", "https://e.com/3"}
	if len(res.Sources) != len(want) {
		t.Fatalf("expected %d merged sources, got %d", len(want), len(res.Sources))
	}
	for i, u := range want {
		if res.Sources[i].URL != u {
			t.Fatalf("position %d: expected %s, got %s", i, u, res.Sources[i].URL)
		}
	}
	if res.Answer != "the answer" {
		t.Fatalf("expected answer from news, got %q", res.Answer)
	}
	if res.Query != "query" || res.Elapsed <= 0 {
		t.Fatalf("metadata not assembled: %+v", res)
	}
	if len(res.Outcomes) != 2 {
		t.Fatalf("outcome map incomplete: %d", len(res.Outcomes))
	}
}

func TestSearch_AnswerPickedInEnablementOrder(t *testing.T) {
	reg := newRegistry(t,
		&fakeEngine{name: "a", answer: ""},
		&fakeEngine{name: "b", answer: "from b"},
		&fakeEngine{name: "c", answer: "from c"},
	)
	a := New(reg, Config{})
	res, err := a.Search(context.Background(), "query", nil)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.Answer != "from b" {
		t.Fatalf("expected first non-empty answer in engine order, got %q", res.Answer)
	}

	// Reversing enablement order flips the pick.
	rev := New(reg, Config{EnabledEngines: []string{"c", "b", "a"}})
	res, err = rev.Search(context.Background(), "query", nil)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.Answer != "from c" {
		t.Fatalf("expected answer from c, got %q", res.Answer)
	}
}

func TestSearch_TimedOutEngineExcludedButRecorded(t *testing.T) {
	reg := newRegistry(t,
		&fakeEngine{name: "fast", sources: []search.Source{{URL: "https://fast.com/1"}}},
		&fakeEngine{name: "slow", delay: 2 * time.Second, sources: []search.Source{{URL: "https://slow.com/1"}}},
	)
	a := New(reg, Config{Timeout: 50 * time.Millisecond, FailSilently: true})
	res, err := a.Search(context.Background(), "query", nil)
	if err != nil {
		t.Fatalf("one timeout of two engines must not fail the call: %v", err)
	}
	for _, s := range res.Sources {
		if s.URL == "https://slow.com/1" {
			t.Fatal("timed-out engine's sources must not appear in the merge")
		}
	}
	o, ok := res.Outcomes["slow"]
	if !ok || o.OK() || o.Err.Kind != search.KindTimeout {
		t.Fatalf("timeout must still be recorded in the outcome map: %+v", o)
	}
}

func TestSearch_AllFailedSurfaces(t *testing.T) {
	reg := newRegistry(t,
		&fakeEngine{name: "a", err: errors.New("down")},
		&fakeEngine{name: "b", err: errors.New("down")},
		&fakeEngine{name: "c", err: errors.New("down")},
	)
	a := New(reg, Config{FailSilently: true})
	_, err := a.Search(context.Background(), "query", nil)
	var all *executor.AllEnginesFailedError
	if !errors.As(err, &all) {
		t.Fatalf("expected AllEnginesFailedError, got %v", err)
	}
	if len(all.Outcomes) != 3 {
		t.Fatalf("error must carry all outcomes, got %d", len(all.Outcomes))
	}
}

func TestSearch_PerEngineMaxAppliedAsDefaultOption(t *testing.T) {
	var seen int
	probe := &optionProbe{name: "probe", got: &seen}
	r := registry.New()
	if err := r.Register("probe", func() (search.Engine, error) { return probe, nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	a := New(r, Config{MaxResultsPerEngine: 4})
	if _, err := a.Search(context.Background(), "query", nil); err != nil {
		t.Fatalf("search: %v", err)
	}
	if seen != 4 {
		t.Fatalf("expected max_results 4 injected, got %d", seen)
	}

	// Caller-supplied option wins.
	if _, err := a.Search(context.Background(), "query", search.Options{search.OptMaxResults: 2}); err != nil {
		t.Fatalf("search: %v", err)
	}
	if seen != 2 {
		t.Fatalf("caller option overridden: got %d", seen)
	}
}

type optionProbe struct {
	name string
	got  *int
}

func (p *optionProbe) Name() string { return p.name }

func (p *optionProbe) Search(_ context.Context, q search.Query) (*search.Success, error) {
	*p.got = q.MaxResults(0)
	return &search.Success{}, nil
}

func TestEngineListings(t *testing.T) {
	reg := newRegistry(t, &fakeEngine{name: "a"}, &fakeEngine{name: "b"})
	all := New(reg, Config{})
	if got := all.EnabledEngines(); len(got) != 2 {
		t.Fatalf("empty enablement should mean all engines, got %v", got)
	}
	some := New(reg, Config{EnabledEngines: []string{"b"}})
	if got := some.EnabledEngines(); len(got) != 1 || got[0] != "b" {
		t.Fatalf("expected [b], got %v", got)
	}
	if got := some.AvailableEngines(); len(got) != 2 {
		t.Fatalf("available should list every registration, got %v", got)
	}
}
