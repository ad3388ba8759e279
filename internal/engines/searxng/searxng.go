// Package searxng implements the engine contract against a SearxNG
// instance's /search endpoint.
package searxng

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/hyperifyio/omnisearch/internal/fetch"
	"github.com/hyperifyio/omnisearch/internal/search"
)

const Name = "searxng"

// Engine queries a SearxNG instance. BaseURL is required; the API key is
// optional and instance-specific.
type Engine struct {
	BaseURL   string
	APIKey    string
	UserAgent string
	Client    *fetch.Client
}

func New(baseURL, apiKey, userAgent string, client *fetch.Client) *Engine {
	if client == nil {
		client = &fetch.Client{MaxAttempts: 2, PerRequestTimeout: 10 * time.Second}
	}
	return &Engine{BaseURL: baseURL, APIKey: apiKey, UserAgent: userAgent, Client: client}
}

func (e *Engine) Name() string { return Name }

// Search understands the max_results, language, categories, time_range and
// safe_search options.
func (e *Engine) Search(ctx context.Context, q search.Query) (*search.Success, error) {
	if e.BaseURL == "" {
		return nil, search.NewError(Name, search.KindInvalidParameters, "missing searxng base url", nil)
	}
	limit := q.MaxResults(10)

	u, err := url.Parse(e.BaseURL)
	if err != nil {
		return nil, search.NewError(Name, search.KindInvalidParameters, fmt.Sprintf("bad base url: %v", err), err)
	}
	if !strings.HasSuffix(u.Path, "/search") {
		u.Path = strings.TrimRight(u.Path, "/") + "/search"
	}

	vals := u.Query()
	vals.Set("q", q.Text)
	vals.Set("format", "json")
	vals.Set("count", fmt.Sprintf("%d", limit))
	if err := applyOptions(vals, q.Options); err != nil {
		return nil, err
	}
	if e.APIKey != "" {
		vals.Set("apikey", e.APIKey)
	}
	u.RawQuery = vals.Encode()

	start := time.Now()
	var sr searxResponse
	hdr := make(http.Header)
	if e.UserAgent != "" {
		hdr.Set("User-Agent", e.UserAgent)
	}
	if err := e.Client.GetJSON(ctx, u.String(), hdr, &sr); err != nil {
		return nil, mapErr(err)
	}

	out := make([]search.Source, 0, len(sr.Results))
	for _, r := range sr.Results {
		if r.URL == "" || r.Title == "" {
			continue
		}
		out = append(out, search.Source{
			Title:   strings.TrimSpace(r.Title),
			URL:     strings.TrimSpace(r.URL),
			Content: strings.TrimSpace(r.Content),
			Score:   r.Score,
			Engine:  Name,
		})
		if len(out) >= limit {
			break
		}
	}
	answer := ""
	if len(sr.Answers) > 0 {
		answer = strings.TrimSpace(sr.Answers[0])
	}
	return &search.Success{Sources: out, Answer: answer, Elapsed: time.Since(start)}, nil
}

func applyOptions(vals url.Values, opts search.Options) error {
	if lang, ok := opts.String(search.OptLanguage); ok {
		if _, err := language.Parse(lang); err != nil {
			return search.NewError(Name, search.KindInvalidParameters, fmt.Sprintf("bad language tag %q", lang), err)
		}
		vals.Set("language", lang)
	} else {
		vals.Set("language", "auto")
	}
	if cats, ok := opts.Strings(search.OptCategories); ok && len(cats) > 0 {
		vals.Set("categories", strings.Join(cats, ","))
	} else {
		vals.Set("categories", "general")
	}
	if tr, ok := opts.String(search.OptTimeRange); ok {
		switch tr {
		case "day", "week", "month", "year":
			vals.Set("time_range", tr)
		default:
			return search.NewError(Name, search.KindInvalidParameters, fmt.Sprintf("bad time_range %q", tr), nil)
		}
	}
	if safe, ok := opts.Bool(search.OptSafeSearch); ok && !safe {
		vals.Set("safesearch", "0")
	} else {
		vals.Set("safesearch", "1")
	}
	return nil
}

func mapErr(err error) *search.Error {
	var se *fetch.StatusError
	if errors.As(err, &se) {
		if se.Status == http.StatusTooManyRequests {
			return search.NewError(Name, search.KindRateLimited, "searxng rate limited", err)
		}
		return search.NewError(Name, search.KindUpstream, fmt.Sprintf("searxng status: %d", se.Status), err)
	}
	return search.Classify(Name, err)
}

type searxResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
	Answers []string `json:"answers"`
}
