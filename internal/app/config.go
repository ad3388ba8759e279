package app

import "time"

// Config holds runtime configuration for the application.
type Config struct {
	// Engine credentials and endpoints
	SearxURL  string
	SearxKey  string
	SearxUA   string
	TavilyKey string
	BraveKey  string

	// AI-answer engine (OpenAI-compatible)
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	// Offline file engine
	SourceFile string

	// Aggregation
	Engines      []string
	Timeout      time.Duration
	MaxPerEngine int
	MaxTotal     int
	FailSilently bool

	// Output
	OutputFormat string // text or json
	OutputPDF    string // optional PDF path

	Verbose bool
}
