package searxng

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hyperifyio/omnisearch/internal/fetch"
	"github.com/hyperifyio/omnisearch/internal/search"
)

func client(srv *httptest.Server) *fetch.Client {
	return &fetch.Client{HTTPClient: srv.Client()}
}

func TestSearch_ParsesResultsAndAnswer(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"title": "Doc", "url": "https://example.com", "content": "snippet", "score": 1.5},
				{"title": "Bad", "url": "", "content": "no url"},
			},
			"answers": []string{"direct answer"},
		})
	}))
	defer srv.Close()

	e := New(srv.URL, "", "", client(srv))
	got, err := e.Search(context.Background(), search.Query{Text: "query"})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if gotQuery != "query" {
		t.Fatalf("query not forwarded: %q", gotQuery)
	}
	if len(got.Sources) != 1 {
		t.Fatalf("expected 1 valid result, got %d", len(got.Sources))
	}
	s := got.Sources[0]
	if s.URL != "https://example.com" || s.Score != 1.5 || s.Engine != Name {
		t.Fatalf("unexpected source: %+v", s)
	}
	if got.Answer != "direct answer" {
		t.Fatalf("unexpected answer: %q", got.Answer)
	}
	if got.Elapsed <= 0 {
		t.Fatal("elapsed not recorded")
	}
}

func TestSearch_OptionValidation(t *testing.T) {
	e := New("http://unused.invalid", "", "", &fetch.Client{})
	_, err := e.Search(context.Background(), search.Query{
		Text:    "query",
		Options: search.Options{search.OptLanguage: "not a tag!"},
	})
	var ee *search.Error
	if !errors.As(err, &ee) || ee.Kind != search.KindInvalidParameters {
		t.Fatalf("expected invalid_parameters for bad language, got %v", err)
	}
	_, err = e.Search(context.Background(), search.Query{
		Text:    "query",
		Options: search.Options{search.OptTimeRange: "decade"},
	})
	if !errors.As(err, &ee) || ee.Kind != search.KindInvalidParameters {
		t.Fatalf("expected invalid_parameters for bad time_range, got %v", err)
	}
}

func TestSearch_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	e := New(srv.URL, "", "", client(srv))
	_, err := e.Search(context.Background(), search.Query{Text: "query"})
	var ee *search.Error
	if !errors.As(err, &ee) || ee.Kind != search.KindRateLimited {
		t.Fatalf("expected rate_limited, got %v", err)
	}
}
