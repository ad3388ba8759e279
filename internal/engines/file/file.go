// Package file is an offline engine backed by a local JSON file, for
// tests and dry runs without network access.
package file

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/hyperifyio/omnisearch/internal/search"
)

const Name = "file"

// Engine loads sources from a JSON file: an array of objects with
// "title", "url" and "content" fields. Results are filtered by a
// case-insensitive substring match against title and content.
type Engine struct {
	Path string
}

func New(path string) *Engine { return &Engine{Path: path} }

func (e *Engine) Name() string { return Name }

func (e *Engine) Search(_ context.Context, q search.Query) (*search.Success, error) {
	if strings.TrimSpace(e.Path) == "" {
		return nil, search.NewError(Name, search.KindInvalidParameters, "file engine path is empty", nil)
	}
	start := time.Now()
	b, err := os.ReadFile(e.Path)
	if err != nil {
		return nil, search.NewError(Name, search.KindUpstream, err.Error(), err)
	}
	var raw []search.Source
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, search.NewError(Name, search.KindUpstream, "bad source file: "+err.Error(), err)
	}

	limit := q.MaxResults(10)
	needle := strings.ToLower(strings.TrimSpace(q.Text))
	out := make([]search.Source, 0, len(raw))
	for _, r := range raw {
		if r.URL == "" {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(r.Title), needle) && !strings.Contains(strings.ToLower(r.Content), needle) {
			continue
		}
		r.Engine = Name
		out = append(out, r)
		if len(out) >= limit {
			break
		}
	}
	return &search.Success{Sources: out, Elapsed: time.Since(start)}, nil
}
