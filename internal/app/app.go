package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/omnisearch/internal/aggregator"
	"github.com/hyperifyio/omnisearch/internal/engines/aiweb"
	"github.com/hyperifyio/omnisearch/internal/engines/brave"
	"github.com/hyperifyio/omnisearch/internal/engines/duckduckgo"
	"github.com/hyperifyio/omnisearch/internal/engines/file"
	"github.com/hyperifyio/omnisearch/internal/engines/searxng"
	"github.com/hyperifyio/omnisearch/internal/engines/tavily"
	"github.com/hyperifyio/omnisearch/internal/registry"
	"github.com/hyperifyio/omnisearch/internal/search"
)

// App wires the registry and aggregator for one process.
type App struct {
	cfg Config
	agg *aggregator.Aggregator
}

// New registers every engine the configuration provides credentials for.
// Registration is an explicit list made once at startup; engines whose
// upstream is not configured are simply absent from the catalog.
func New(cfg Config) (*App, error) {
	reg := registry.New()

	// DuckDuckGo needs no credentials and is always available.
	if err := reg.Register(duckduckgo.Name, func() (search.Engine, error) {
		return duckduckgo.New("", nil), nil
	}); err != nil {
		return nil, err
	}
	if cfg.SearxURL != "" {
		if err := reg.Register(searxng.Name, func() (search.Engine, error) {
			return searxng.New(cfg.SearxURL, cfg.SearxKey, cfg.SearxUA, nil), nil
		}); err != nil {
			return nil, err
		}
	}
	if cfg.TavilyKey != "" {
		if err := reg.Register(tavily.Name, func() (search.Engine, error) {
			return tavily.New("", cfg.TavilyKey, nil), nil
		}); err != nil {
			return nil, err
		}
	}
	if cfg.BraveKey != "" {
		if err := reg.Register(brave.Name, func() (search.Engine, error) {
			return brave.New("", cfg.BraveKey, nil), nil
		}); err != nil {
			return nil, err
		}
	}
	if cfg.LLMModel != "" {
		if err := reg.Register(aiweb.Name, func() (search.Engine, error) {
			return aiweb.NewFromConfig(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel), nil
		}); err != nil {
			return nil, err
		}
	}
	if cfg.SourceFile != "" {
		if err := reg.Register(file.Name, func() (search.Engine, error) {
			return file.New(cfg.SourceFile), nil
		}); err != nil {
			return nil, err
		}
	}

	agg := aggregator.New(reg, aggregator.Config{
		Timeout:             cfg.Timeout,
		EnabledEngines:      cfg.Engines,
		MaxResultsPerEngine: cfg.MaxPerEngine,
		MaxTotalResults:     cfg.MaxTotal,
		FailSilently:        cfg.FailSilently,
	})
	log.Info().Strs("available", agg.AvailableEngines()).Strs("enabled", agg.EnabledEngines()).Msg("engines registered")
	return &App{cfg: cfg, agg: agg}, nil
}

// Aggregator exposes the wired entry point.
func (a *App) Aggregator() *aggregator.Aggregator { return a.agg }

// Run performs one search and renders the result to stdout per the
// configured output format, plus an optional PDF file.
func (a *App) Run(ctx context.Context, query string, opts search.Options) error {
	res, err := a.agg.Search(ctx, query, opts)
	if err != nil {
		return err
	}
	if err := render(res, a.cfg.OutputFormat); err != nil {
		return err
	}
	if a.cfg.OutputPDF != "" {
		if err := writeResultPDF(res, a.cfg.OutputPDF); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("path", a.cfg.OutputPDF).Msg("wrote PDF")
	}
	return nil
}
