package app

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/hyperifyio/omnisearch/internal/search"
)

// render writes the aggregate result to stdout. Format "json" emits the
// full result object; anything else gets a human-readable listing.
func render(res *search.AggregateResult, format string) error {
	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Printf("Query: %s\n", res.Query)
	fmt.Printf("Elapsed: %s\n", res.Elapsed.Round(time.Millisecond))
	if res.Answer != "" {
		fmt.Printf("\nAnswer: %s\n", res.Answer)
	}
	fmt.Printf("\nResults (%d):\n", len(res.Sources))
	for i, s := range res.Sources {
		fmt.Printf("%2d. %s\n    %s\n", i+1, s.Title, s.URL)
		if s.Content != "" {
			fmt.Printf("    %s\n", truncate(s.Content, 160))
		}
	}

	fmt.Printf("\nEngines:\n")
	names := make([]string, 0, len(res.Outcomes))
	for name := range res.Outcomes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		o := res.Outcomes[name]
		if o.OK() {
			fmt.Printf("  %-12s ok    %3d sources  %s\n", name, len(o.Success.Sources), o.Elapsed.Round(time.Millisecond))
		} else {
			fmt.Printf("  %-12s %-5s %s\n", name, o.Err.Kind, o.Err.Message)
		}
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
