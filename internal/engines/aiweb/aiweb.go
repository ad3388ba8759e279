// Package aiweb implements the engine contract on top of an
// OpenAI-compatible chat endpoint. The model is asked for a direct answer
// plus the web sources it drew on, under a strict JSON-only contract.
package aiweb

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/omnisearch/internal/search"
)

const Name = "aiweb"

// Client is the minimal chat-completion surface the engine needs, so any
// OpenAI-compatible or local backend can be swapped in (and faked in tests).
type Client interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Engine asks a chat model to answer the query and cite its sources.
type Engine struct {
	Client Client
	Model  string
}

func New(client Client, model string) *Engine {
	return &Engine{Client: client, Model: model}
}

// NewFromConfig builds an Engine talking to an OpenAI-compatible server.
func NewFromConfig(baseURL, apiKey, model string) *Engine {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return New(openai.NewClientWithConfig(cfg), model)
}

func (e *Engine) Name() string { return Name }

const systemMessage = "You are a web research assistant. Respond with strict JSON only, no narration. The JSON schema is {\"answer\": string, \"sources\": [{\"title\": string, \"url\": string, \"content\": string}]}. The answer must be a concise synthesis; sources must be real, relevant web pages with absolute URLs."

type reply struct {
	Answer  string `json:"answer"`
	Sources []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"sources"`
}

// Search understands the max_results option.
func (e *Engine) Search(ctx context.Context, q search.Query) (*search.Success, error) {
	if e.Client == nil || e.Model == "" {
		return nil, search.NewError(Name, search.KindInvalidParameters, "aiweb engine not configured", nil)
	}
	limit := q.MaxResults(5)

	start := time.Now()
	resp, err := e.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Answer this query and cite up to %d sources: %s", limit, q.Text)},
		},
		Temperature: 0.1,
		N:           1,
	})
	if err != nil {
		return nil, search.NewError(Name, search.KindUpstream, fmt.Sprintf("chat completion: %v", err), err)
	}
	if len(resp.Choices) == 0 {
		return nil, search.NewError(Name, search.KindUpstream, "model returned no choices", nil)
	}

	parsed, err := parseReply(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, search.NewError(Name, search.KindUpstream, err.Error(), err)
	}
	out := make([]search.Source, 0, len(parsed.Sources))
	for _, s := range parsed.Sources {
		u := strings.TrimSpace(s.URL)
		if !strings.HasPrefix(u, "http") {
			continue
		}
		out = append(out, search.Source{
			Title:   strings.TrimSpace(s.Title),
			URL:     u,
			Content: strings.TrimSpace(s.Content),
			Engine:  Name,
		})
		if len(out) >= limit {
			break
		}
	}
	return &search.Success{Sources: out, Answer: strings.TrimSpace(parsed.Answer), Elapsed: time.Since(start)}, nil
}

// parseReply tolerates a model that wraps its JSON in a code fence.
func parseReply(content string) (*reply, error) {
	raw := strings.TrimSpace(content)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
		raw = strings.TrimSpace(raw)
	}
	var r reply
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, fmt.Errorf("parse model reply: %w", err)
	}
	return &r, nil
}
