// Package duckduckgo implements the engine contract by scraping the
// html.duckduckgo.com endpoint. No API key is needed, which makes it the
// default engine when nothing else is configured.
package duckduckgo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/hyperifyio/omnisearch/internal/fetch"
	"github.com/hyperifyio/omnisearch/internal/search"
)

const Name = "duckduckgo"

const defaultBaseURL = "https://html.duckduckgo.com/html/"

const browserUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Engine scrapes DuckDuckGo's HTML results page.
type Engine struct {
	BaseURL string
	Client  *fetch.Client
}

func New(baseURL string, client *fetch.Client) *Engine {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = &fetch.Client{MaxAttempts: 2, PerRequestTimeout: 15 * time.Second, UserAgent: browserUA}
	}
	return &Engine{BaseURL: baseURL, Client: client}
}

func (e *Engine) Name() string { return Name }

// Search understands the max_results option; everything else DuckDuckGo's
// HTML endpoint cannot express.
func (e *Engine) Search(ctx context.Context, q search.Query) (*search.Success, error) {
	limit := q.MaxResults(10)

	hdr := make(http.Header)
	hdr.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	hdr.Set("Accept-Language", "en-US,en;q=0.9")

	start := time.Now()
	body, err := e.Client.Get(ctx, e.BaseURL+"?q="+url.QueryEscape(q.Text), hdr)
	if err != nil {
		return nil, mapErr(err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, search.NewError(Name, search.KindUpstream, fmt.Sprintf("parse html: %v", err), err)
	}
	return &search.Success{Sources: parseResults(doc, limit), Elapsed: time.Since(start)}, nil
}

// parseResults walks the .result blocks of the HTML page. Links come back
// wrapped in a /l/?uddg= redirect, which is unwrapped to the target URL.
func parseResults(doc *goquery.Document, limit int) []search.Source {
	var out []search.Source
	doc.Find(".result").Each(func(_ int, s *goquery.Selection) {
		if len(out) >= limit {
			return
		}
		link := s.Find(".result__a")
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		href = unwrapRedirect(href)
		if href == "" || !strings.HasPrefix(href, "http") {
			return
		}
		out = append(out, search.Source{
			Title:   strings.TrimSpace(link.Text()),
			URL:     href,
			Content: strings.TrimSpace(s.Find(".result__snippet").Text()),
			Engine:  Name,
		})
	})
	return out
}

func unwrapRedirect(href string) string {
	if !strings.Contains(href, "duckduckgo.com/l/") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return u.Query().Get("uddg")
}

func mapErr(err error) *search.Error {
	var se *fetch.StatusError
	if errors.As(err, &se) {
		if se.Status == http.StatusTooManyRequests || se.Status == http.StatusForbidden {
			// DuckDuckGo answers scrapers it throttles with 403 as well.
			return search.NewError(Name, search.KindRateLimited, "duckduckgo throttled the request", err)
		}
		return search.NewError(Name, search.KindUpstream, fmt.Sprintf("duckduckgo status: %d", se.Status), err)
	}
	return search.Classify(Name, err)
}
