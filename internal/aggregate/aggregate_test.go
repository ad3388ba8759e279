package aggregate

import (
	"reflect"
	"testing"

	"github.com/hyperifyio/omnisearch/internal/search"
)

func success(urls ...string) search.Outcome {
	s := &search.Success{}
	for _, u := range urls {
		s.Sources = append(s.Sources, search.Source{URL: u})
	}
	return search.Outcome{Success: s}
}

func failure() search.Outcome {
	return search.Outcome{Err: search.NewError("x", search.KindUpstream, "down", nil)}
}

func urls(sources []search.Source) []string {
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		out = append(out, s.URL)
	}
	return out
}

func TestMerge_RoundRobinWithDuplicateSkip(t *testing.T) {
	// A=[u1,u2,u3], B=[u2,u4]: round 1 emits u1 (A) and u2 (B); round 2
	// skips A's duplicate u2 and emits B's u4; round 3 emits A's u3.
	outcomes := map[string]search.Outcome{
		"A": success("https://e.com/u1", "https://e.com/u2", "https://e.com/u3"),
		"B": success("https://e.com/u2", "https://e.com/u4"),
	}
	got := urls(Merge(outcomes, []string{"A", "B"}, 0))
	want := []string{"https://e.com/u1", "https://e.com/u2", "https://e.com/u4", "https://e.com/u3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestMerge_FairnessFirstRound(t *testing.T) {
	outcomes := map[string]search.Outcome{
		"A": success("https://a.com/1", "https://a.com/2", "https://a.com/3"),
		"B": success("https://b.com/1"),
		"C": success("https://c.com/1", "https://c.com/2"),
	}
	got := urls(Merge(outcomes, []string{"A", "B", "C"}, 0))
	// Every engine gets a turn before any engine gets a second item.
	want := []string{"https://a.com/1", "https://b.com/1", "https://c.com/1", "https://a.com/2", "https://c.com/2", "https://a.com/3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestMerge_FailedEngineContributesNothing(t *testing.T) {
	outcomes := map[string]search.Outcome{
		"A": success("https://a.com/1"),
		"B": failure(),
	}
	got := urls(Merge(outcomes, []string{"A", "B"}, 0))
	if !reflect.DeepEqual(got, []string{"https://a.com/1"}) {
		t.Fatalf("failed engine leaked sources: %v", got)
	}
}

func TestMerge_DedupByNormalizedURL(t *testing.T) {
	outcomes := map[string]search.Outcome{
		"A": success("https://Example.com/page?utm_source=x&utm_medium=y"),
		"B": success("https://example.com/page", "https://example.com/page#section"),
	}
	got := Merge(outcomes, []string{"A", "B"}, 0)
	if len(got) != 1 {
		t.Fatalf("expected 1 after dedup, got %d: %v", len(got), urls(got))
	}
	// Original URL is kept; normalization is identity-only.
	if got[0].URL != "https://Example.com/page?utm_source=x&utm_medium=y" {
		t.Fatalf("source mutated during merge: %q", got[0].URL)
	}
}

func TestMerge_MaxTotal(t *testing.T) {
	outcomes := map[string]search.Outcome{
		"A": success("https://a.com/1", "https://a.com/2"),
		"B": success("https://b.com/1", "https://b.com/2"),
	}
	got := urls(Merge(outcomes, []string{"A", "B"}, 3))
	want := []string{"https://a.com/1", "https://b.com/1", "https://a.com/2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestMerge_Deterministic(t *testing.T) {
	outcomes := map[string]search.Outcome{
		"A": success("https://a.com/1", "https://shared.com/x", "https://a.com/2"),
		"B": success("https://shared.com/x", "https://b.com/1"),
		"C": failure(),
	}
	order := []string{"A", "B", "C"}
	first := urls(Merge(outcomes, order, 0))
	for i := 0; i < 10; i++ {
		if again := urls(Merge(outcomes, order, 0)); !reflect.DeepEqual(first, again) {
			t.Fatalf("merge not deterministic: %v vs %v", first, again)
		}
	}
}

func TestMerge_EmptyAndMissingEngines(t *testing.T) {
	got := Merge(nil, []string{"A"}, 0)
	if len(got) != 0 {
		t.Fatalf("expected empty merge, got %v", urls(got))
	}
	outcomes := map[string]search.Outcome{"A": success()}
	if got := Merge(outcomes, []string{"A", "missing"}, 0); len(got) != 0 {
		t.Fatalf("expected empty merge, got %v", urls(got))
	}
}

func TestCanonicalURL(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"https://Example.COM/a?utm_source=x", "https://example.com/a"},
		{"  https://example.com/a#frag  ", "https://example.com/a"},
		{"https://example.com/a?q=1&fbclid=abc", "https://example.com/a?q=1"},
		{"not a url", "not a url"},
		{"", ""},
		{"   ", ""},
	}
	for _, c := range cases {
		if got := CanonicalURL(c.in); got != c.want {
			t.Fatalf("CanonicalURL(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
