package app

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the single-file YAML schema. Nested sections map naturally
// to the flag namespace; flags and environment variables take precedence
// over file values.
type FileConfig struct {
	Searx struct {
		URL string `yaml:"url"`
		Key string `yaml:"key"`
		UA  string `yaml:"ua"`
	} `yaml:"searx"`

	Tavily struct {
		Key string `yaml:"key"`
	} `yaml:"tavily"`

	Brave struct {
		Key string `yaml:"key"`
	} `yaml:"brave"`

	LLM struct {
		BaseURL string `yaml:"base"`
		Model   string `yaml:"model"`
		APIKey  string `yaml:"key"`
	} `yaml:"llm"`

	Search struct {
		File string `yaml:"file"`
	} `yaml:"search"`

	Engines      []string `yaml:"engines"`
	Timeout      duration `yaml:"timeout"`
	MaxPerEngine int      `yaml:"maxPerEngine"`
	MaxTotal     int      `yaml:"maxTotal"`
	FailSilently *bool    `yaml:"failSilently"`

	Output struct {
		Format string `yaml:"format"`
		PDF    string `yaml:"pdf"`
	} `yaml:"output"`

	Verbose bool `yaml:"verbose"`
}

// duration accepts both "20s" style strings and plain nanosecond counts.
type duration time.Duration

func (d *duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("bad duration %q: %w", s, err)
		}
		*d = duration(v)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return err
	}
	*d = duration(n)
	return nil
}

// LoadFileConfig reads and parses a YAML config file.
func LoadFileConfig(path string) (*FileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &fc, nil
}

// Merge fills empty Config fields from the file, leaving flag/env values
// untouched.
func (fc *FileConfig) Merge(cfg *Config) {
	if cfg.SearxURL == "" {
		cfg.SearxURL = fc.Searx.URL
	}
	if cfg.SearxKey == "" {
		cfg.SearxKey = fc.Searx.Key
	}
	if cfg.SearxUA == "" {
		cfg.SearxUA = fc.Searx.UA
	}
	if cfg.TavilyKey == "" {
		cfg.TavilyKey = fc.Tavily.Key
	}
	if cfg.BraveKey == "" {
		cfg.BraveKey = fc.Brave.Key
	}
	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}
	if cfg.SourceFile == "" {
		cfg.SourceFile = fc.Search.File
	}
	if len(cfg.Engines) == 0 {
		cfg.Engines = fc.Engines
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = time.Duration(fc.Timeout)
	}
	if cfg.MaxPerEngine == 0 {
		cfg.MaxPerEngine = fc.MaxPerEngine
	}
	if cfg.MaxTotal == 0 {
		cfg.MaxTotal = fc.MaxTotal
	}
	if fc.FailSilently != nil {
		cfg.FailSilently = *fc.FailSilently
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = fc.Output.Format
	}
	if cfg.OutputPDF == "" {
		cfg.OutputPDF = fc.Output.PDF
	}
	if fc.Verbose {
		cfg.Verbose = true
	}
}
