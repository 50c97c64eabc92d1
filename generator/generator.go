// Package generator turns a member suggestion into a poll with rated options
// by calling the OpenAI chat completions endpoint.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const prompt = "You are generating a poll for a group chat. " +
	"Members pick the option they believe correct and wager virtual tokens on it. " +
	"This is the suggested topic for the poll: {suggestion}. " +
	"Use the suggestion to phrase a creative poll and spice it up a little. " +
	"The poll must be the only text you produce, expressed as JSON in exactly this form: " +
	`{"text": "the poll question", "options": [{"rating": <number scoring how risky the option is>, "text": "option text"}]}`

type Option struct {
	Text   string  `json:"text"`
	Rating float64 `json:"rating"`
}

type Poll struct {
	Text    string   `json:"text"`
	Options []Option `json:"options"`
}

// Config carries the endpoint and credentials. URL and Model fall back to
// the public chat completions endpoint and the stock model.
type Config struct {
	Key        string
	URL        string
	Model      string
	HTTPClient *http.Client
}

type Generator struct {
	cfg Config
}

func New(cfg Config) *Generator {
	if strings.TrimSpace(cfg.URL) == "" {
		cfg.URL = "https://api.openai.com/v1/chat/completions"
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "gpt-3.5-turbo-0125"
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}

	return &Generator{cfg: cfg}
}

// Generate asks the model for a poll seeded by the suggestion and decodes the
// strict JSON contract out of the completion text.
func (g *Generator) Generate(ctx context.Context, suggestion string) (*Poll, error) {
	suggestion = strings.TrimSpace(suggestion)
	if suggestion == "" {
		return nil, fmt.Errorf("suggestion is required")
	}
	if strings.TrimSpace(g.cfg.Key) == "" {
		return nil, fmt.Errorf("api key is required")
	}

	requestBody, err := json.Marshal(map[string]any{
		"model": g.cfg.Model,
		"messages": []map[string]string{{
			"role":    "system",
			"content": strings.Replace(prompt, "{suggestion}", suggestion, 1),
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.URL, bytes.NewReader(requestBody))
	if err != nil {
		return nil, fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.cfg.Key)

	res, err := g.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, fmt.Errorf("completion request status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err = json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode completion response: %w", err)
	}
	if len(payload.Choices) == 0 {
		return nil, fmt.Errorf("completion response has no choices")
	}

	var poll Poll
	content := strings.TrimSpace(payload.Choices[0].Message.Content)
	if err = json.Unmarshal([]byte(content), &poll); err != nil {
		return nil, fmt.Errorf("decode generated poll: %w", err)
	}
	if poll.Text == "" || len(poll.Options) < 2 {
		return nil, fmt.Errorf("generated poll is incomplete")
	}

	return &poll, nil
}
