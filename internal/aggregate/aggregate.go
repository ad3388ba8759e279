// Package aggregate merges per-engine result lists into one ordered,
// deduplicated sequence.
package aggregate

import (
	"net/url"
	"strings"

	"github.com/hyperifyio/omnisearch/internal/search"
)

// Merge interleaves sources from successful outcomes round-robin in the
// given engine order and deduplicates by normalized URL. Engines with a
// failure or timeout outcome contribute nothing. Each round advances every
// engine's cursor by one; a duplicate consumes the engine's turn for that
// round without emitting. maxTotal caps the output when positive.
//
// The output is fully deterministic given identical outcomes and order,
// and merging carries no state between calls.
func Merge(outcomes map[string]search.Outcome, order []string, maxTotal int) []search.Source {
	type cursor struct {
		sources []search.Source
		next    int
	}
	cursors := make([]cursor, 0, len(order))
	total := 0
	for _, name := range order {
		o, ok := outcomes[name]
		if !ok || !o.OK() {
			continue
		}
		cursors = append(cursors, cursor{sources: o.Success.Sources})
		total += len(o.Success.Sources)
	}

	seen := make(map[string]struct{}, total)
	out := make([]search.Source, 0, total)
	for {
		active := false
		for i := range cursors {
			c := &cursors[i]
			if c.next >= len(c.sources) {
				continue
			}
			active = true
			s := c.sources[c.next]
			c.next++
			key := CanonicalURL(s.URL)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, s)
			if maxTotal > 0 && len(out) >= maxTotal {
				return out
			}
		}
		if !active {
			return out
		}
	}
}

// CanonicalURL reduces a URL to its deduplication identity: trimmed, with
// scheme and host lowercased, fragment dropped, and common tracking
// parameters removed. An unparseable URL falls back to its trimmed text so
// exact repeats still deduplicate; an empty URL yields "".
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	q := u.Query()
	for _, p := range []string{"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content", "utm_id", "gclid", "fbclid"} {
		q.Del(p)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
