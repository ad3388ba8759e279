// Package brave implements the engine contract against the Brave Search
// API. Brave trials are limited to ~1 request/second, so the adapter is
// built with a shared rate limiter in its fetch client.
package brave

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/hyperifyio/omnisearch/internal/fetch"
	"github.com/hyperifyio/omnisearch/internal/search"
)

const Name = "brave"

const defaultBaseURL = "https://api.search.brave.com/res/v1"

// Engine calls the Brave Search API. A subscription token is required.
type Engine struct {
	BaseURL string
	APIKey  string
	Client  *fetch.Client
}

func New(baseURL, apiKey string, client *fetch.Client) *Engine {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = &fetch.Client{
			MaxAttempts:       2,
			PerRequestTimeout: 15 * time.Second,
			Limiter:           rate.NewLimiter(rate.Limit(1), 1),
		}
	}
	return &Engine{BaseURL: baseURL, APIKey: apiKey, Client: client}
}

func (e *Engine) Name() string { return Name }

type response struct {
	Web struct {
		Results []result `json:"results"`
	} `json:"web"`
	News struct {
		Results []result `json:"results"`
	} `json:"news"`
}

type result struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Search understands the max_results, country, language and safe_search
// options. News results, when present, are appended after web results.
func (e *Engine) Search(ctx context.Context, q search.Query) (*search.Success, error) {
	if e.APIKey == "" {
		return nil, search.NewError(Name, search.KindInvalidParameters, "missing brave subscription token", nil)
	}
	limit := q.MaxResults(10)

	vals := url.Values{}
	vals.Set("q", q.Text)
	vals.Set("count", fmt.Sprintf("%d", limit))
	if country, ok := q.Options.String(search.OptCountry); ok {
		if len(country) != 2 {
			return nil, search.NewError(Name, search.KindInvalidParameters, fmt.Sprintf("bad country %q", country), nil)
		}
		vals.Set("country", strings.ToUpper(country))
	}
	if lang, ok := q.Options.String(search.OptLanguage); ok {
		vals.Set("search_lang", lang)
	}
	if safe, ok := q.Options.Bool(search.OptSafeSearch); ok && !safe {
		vals.Set("safesearch", "off")
	}

	hdr := make(http.Header)
	hdr.Set("Accept", "application/json")
	hdr.Set("X-Subscription-Token", e.APIKey)

	start := time.Now()
	var resp response
	endpoint := strings.TrimRight(e.BaseURL, "/") + "/web/search?" + vals.Encode()
	if err := e.Client.GetJSON(ctx, endpoint, hdr, &resp); err != nil {
		return nil, mapErr(err)
	}

	out := make([]search.Source, 0, limit)
	for _, r := range append(resp.Web.Results, resp.News.Results...) {
		if r.URL == "" {
			continue
		}
		out = append(out, search.Source{
			Title:   strings.TrimSpace(r.Title),
			URL:     strings.TrimSpace(r.URL),
			Content: strings.TrimSpace(r.Description),
			Engine:  Name,
		})
		if len(out) >= limit {
			break
		}
	}
	return &search.Success{Sources: out, Elapsed: time.Since(start)}, nil
}

func mapErr(err error) *search.Error {
	var se *fetch.StatusError
	if errors.As(err, &se) {
		switch se.Status {
		case http.StatusTooManyRequests:
			return search.NewError(Name, search.KindRateLimited, "brave rate limited", err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return search.NewError(Name, search.KindInvalidParameters, "brave rejected subscription token", err)
		default:
			return search.NewError(Name, search.KindUpstream, fmt.Sprintf("brave status: %d", se.Status), err)
		}
	}
	return search.Classify(Name, err)
}
