package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/omnisearch/internal/app"
	"github.com/hyperifyio/omnisearch/internal/search"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		configPath   string
		searxURL     string
		searxKey     string
		searxUA      string
		tavilyKey    string
		braveKey     string
		llmBaseURL   string
		llmModel     string
		llmKey       string
		sourceFile   string
		engines      string
		timeout      time.Duration
		maxPerEngine int
		maxTotal     int
		failSilently bool
		language     string
		timeRange    string
		outputFormat string
		outputPDF    string
		listEngines  bool
		verbose      bool
	)

	flag.StringVar(&configPath, "config", "", "Path to optional YAML config file")
	flag.StringVar(&searxURL, "searx.url", os.Getenv("SEARX_URL"), "SearxNG base URL")
	flag.StringVar(&searxKey, "searx.key", os.Getenv("SEARX_KEY"), "SearxNG API key (optional)")
	flag.StringVar(&searxUA, "searx.ua", "omnisearch/1.0 (+https://github.com/hyperifyio/omnisearch)", "Custom User-Agent for SearxNG requests")
	flag.StringVar(&tavilyKey, "tavily.key", os.Getenv("TAVILY_API_KEY"), "Tavily API key")
	flag.StringVar(&braveKey, "brave.key", os.Getenv("BRAVE_API_KEY"), "Brave Search subscription token")
	flag.StringVar(&llmBaseURL, "llm.base", os.Getenv("LLM_BASE_URL"), "OpenAI-compatible base URL for the AI-answer engine")
	flag.StringVar(&llmModel, "llm.model", os.Getenv("LLM_MODEL"), "Model name for the AI-answer engine")
	flag.StringVar(&llmKey, "llm.key", os.Getenv("LLM_API_KEY"), "API key for OpenAI-compatible server")
	flag.StringVar(&sourceFile, "search.file", os.Getenv("SEARCH_FILE"), "Path to JSON file for the offline file engine")
	flag.StringVar(&engines, "engines", "", "Comma-separated engine names to enable (default: all registered)")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Shared deadline for one fan-out")
	flag.IntVar(&maxPerEngine, "max.perEngine", 10, "Maximum results requested from each engine")
	flag.IntVar(&maxTotal, "max.total", 0, "Maximum merged results (0 = unbounded)")
	flag.BoolVar(&failSilently, "failSilently", true, "Tolerate individual engine failures while any engine succeeds")
	flag.StringVar(&language, "lang", "", "Optional language hint, e.g. 'en' or 'fi'")
	flag.StringVar(&timeRange, "time", "", "Optional time window: day, week, month or year")
	flag.StringVar(&outputFormat, "output", "text", "Output format: text or json")
	flag.StringVar(&outputPDF, "output.pdf", "", "Optional path to also write results as PDF")
	flag.BoolVar(&listEngines, "list", false, "List available engines and exit")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg := app.Config{
		SearxURL:     searxURL,
		SearxKey:     searxKey,
		SearxUA:      searxUA,
		TavilyKey:    tavilyKey,
		BraveKey:     braveKey,
		LLMBaseURL:   llmBaseURL,
		LLMModel:     llmModel,
		LLMAPIKey:    llmKey,
		SourceFile:   sourceFile,
		Timeout:      timeout,
		MaxPerEngine: maxPerEngine,
		MaxTotal:     maxTotal,
		FailSilently: failSilently,
		OutputFormat: outputFormat,
		OutputPDF:    outputPDF,
		Verbose:      verbose,
	}
	if engines != "" {
		for _, name := range strings.Split(engines, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.Engines = append(cfg.Engines, name)
			}
		}
	}
	if configPath != "" {
		fc, err := app.LoadFileConfig(configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("config file")
		}
		fc.Merge(&cfg)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("startup")
	}

	if listEngines {
		for _, name := range a.Aggregator().AvailableEngines() {
			fmt.Println(name)
		}
		return
	}

	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if query == "" {
		fmt.Fprintln(os.Stderr, "usage: omnisearch [flags] <query>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	opts := search.Options{}
	if language != "" {
		opts[search.OptLanguage] = language
	}
	if timeRange != "" {
		opts[search.OptTimeRange] = timeRange
	}

	ctx := context.Background()
	if err := a.Run(ctx, query, opts); err != nil {
		log.Error().Err(err).Msg("search failed")
		os.Exit(1)
	}
}
