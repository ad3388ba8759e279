// Package tavily implements the engine contract against the Tavily search
// API (POST /search).
package tavily

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hyperifyio/omnisearch/internal/fetch"
	"github.com/hyperifyio/omnisearch/internal/search"
)

const Name = "tavily"

const defaultBaseURL = "https://api.tavily.com"

// Engine calls the Tavily REST API. An API key is required.
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
		client = &fetch.Client{MaxAttempts: 2, PerRequestTimeout: 15 * time.Second}
	}
	return &Engine{BaseURL: baseURL, APIKey: apiKey, Client: client}
}

func (e *Engine) Name() string { return Name }

type request struct {
	Query          string   `json:"query"`
	SearchDepth    string   `json:"search_depth,omitempty"`
	Topic          string   `json:"topic,omitempty"`
	MaxResults     int      `json:"max_results,omitempty"`
	IncludeDomains []string `json:"include_domains,omitempty"`
	ExcludeDomains []string `json:"exclude_domains,omitempty"`
	IncludeAnswer  bool     `json:"include_answer"`
}

type response struct {
	Answer  string `json:"answer"`
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// Search understands the max_results, search_depth, topic, include_domains
// and exclude_domains options.
func (e *Engine) Search(ctx context.Context, q search.Query) (*search.Success, error) {
	if e.APIKey == "" {
		return nil, search.NewError(Name, search.KindInvalidParameters, "missing tavily api key", nil)
	}
	req := request{
		Query:         q.Text,
		MaxResults:    q.MaxResults(10),
		IncludeAnswer: true,
	}
	if depth, ok := q.Options.String(search.OptSearchDepth); ok {
		if depth != "basic" && depth != "advanced" {
			return nil, search.NewError(Name, search.KindInvalidParameters, fmt.Sprintf("bad search_depth %q", depth), nil)
		}
		req.SearchDepth = depth
	}
	if topic, ok := q.Options.String(search.OptTopic); ok {
		switch topic {
		case "general", "news", "finance":
			req.Topic = topic
		default:
			return nil, search.NewError(Name, search.KindInvalidParameters, fmt.Sprintf("bad topic %q", topic), nil)
		}
	}
	if inc, ok := q.Options.Strings(search.OptIncludeDomains); ok {
		req.IncludeDomains = inc
	}
	if exc, ok := q.Options.Strings(search.OptExcludeDomains); ok {
		req.ExcludeDomains = exc
	}

	hdr := make(http.Header)
	hdr.Set("Authorization", "Bearer "+e.APIKey)

	start := time.Now()
	var resp response
	if err := e.Client.PostJSON(ctx, strings.TrimRight(e.BaseURL, "/")+"/search", hdr, req, &resp); err != nil {
		return nil, mapErr(err)
	}

	out := make([]search.Source, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r.URL == "" {
			continue
		}
		out = append(out, search.Source{
			Title:   strings.TrimSpace(r.Title),
			URL:     strings.TrimSpace(r.URL),
			Content: strings.TrimSpace(r.Content),
			Score:   r.Score,
			Engine:  Name,
		})
	}
	return &search.Success{Sources: out, Answer: strings.TrimSpace(resp.Answer), Elapsed: time.Since(start)}, nil
}

func mapErr(err error) *search.Error {
	var se *fetch.StatusError
	if errors.As(err, &se) {
		switch se.Status {
		case http.StatusTooManyRequests:
			return search.NewError(Name, search.KindRateLimited, "tavily rate limited", err)
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusUnprocessableEntity:
			return search.NewError(Name, search.KindInvalidParameters, fmt.Sprintf("tavily rejected request: %d", se.Status), err)
		default:
			return search.NewError(Name, search.KindUpstream, fmt.Sprintf("tavily status: %d", se.Status), err)
		}
	}
	return search.Classify(Name, err)
}
