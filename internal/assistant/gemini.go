// Package assistant produces stylist replies, pairing advice and category
// guesses, from the Gemini API when it answers and from local rules when it
// does not.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/VedantYeola/Wear-Story/pkg/httpclient"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel   = "gemini-1.5-flash"
)

// Roles of a conversation turn.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Turn is one message of a conversation.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// GenerateRequest is a single generation call.
type GenerateRequest struct {
	System  string
	History []Turn
	Prompt  string
}

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// GeminiConfig selects the endpoint and model.
type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Wire types for models/{model}:generateContent.
type (
	geminiPart struct {
		Text string `json:"text"`
	}
	geminiContent struct {
		Role  string       `json:"role,omitempty"`
		Parts []geminiPart `json:"parts"`
	}
	geminiRequest struct {
		Contents          []geminiContent `json:"contents"`
		SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	}
	geminiResponse struct {
		Candidates []struct {
			Content      geminiContent `json:"content"`
			FinishReason string        `json:"finishReason"`
		} `json:"candidates"`
		PromptFeedback *struct {
			BlockReason string `json:"blockReason"`
		} `json:"promptFeedback,omitempty"`
	}
)

// ErrEmptyResponse means Gemini answered without any candidate text.
var ErrEmptyResponse = errors.New("gemini returned no text")

// Gemini calls the generateContent REST endpoint.
type Gemini struct {
	client httpclient.Doer
	cfg    GeminiConfig
	logger *slog.Logger
}

// NewGemini builds a client. client is normally a CircuitBreakerClient over
// an httpclient.Client.
func NewGemini(cfg GeminiConfig, client httpclient.Doer, logger *slog.Logger) *Gemini {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGeminiBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Gemini{client: client, cfg: cfg, logger: logger}
}

func (g *Gemini) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	body := geminiRequest{Contents: make([]geminiContent, 0, len(req.History)+1)}
	if req.System != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}
	// The API rejects conversations that open with a model turn, such as a
	// canned greeting.
	history := req.History
	for len(history) > 0 && history[0].Role == RoleModel {
		history = history[1:]
	}
	for _, t := range history {
		role := RoleUser
		if t.Role == RoleModel {
			role = RoleModel
		}
		body.Contents = append(body.Contents, geminiContent{Role: role, Parts: []geminiPart{{Text: t.Text}}})
	}
	body.Contents = append(body.Contents, geminiContent{Role: RoleUser, Parts: []geminiPart{{Text: req.Prompt}}})

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.cfg.BaseURL, g.cfg.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create gemini request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.cfg.APIKey)

	resp, err := g.client.Do(ctx, httpReq)
	if err != nil {
		return "", fmt.Errorf("call gemini: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", httpclient.ParseResponseError(resp, "gemini")
	}
	defer resp.Body.Close()

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("gemini blocked prompt: %s", out.PromptFeedback.BlockReason)
	}
	if len(out.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}

	g.logger.DebugContext(ctx, "gemini response received",
		slog.String("model", g.cfg.Model),
		slog.String("finish_reason", out.Candidates[0].FinishReason),
	)
	return sb.String(), nil
}
