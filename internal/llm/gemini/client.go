package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"cveezy-backend/internal/llm"
)

const apiBase = "https://generativelanguage.googleapis.com/v1beta/models"

// Client implements llm.Generator using the Gemini generateContent API.
type Client struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient constructs a new Gemini client.
func NewClient(apiKey, model string) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("GEMINI_MODEL is required")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("GEMINI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type generateRequest struct {
	Contents         []requestContent  `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type requestContent struct {
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      *float64 `json:"temperature,omitempty"`
	TopP             *float64 `json:"topP,omitempty"`
	TopK             *int     `json:"topK,omitempty"`
	MaxOutputTokens  *int     `json:"maxOutputTokens,omitempty"`
	ResponseMIMEType string   `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason,omitempty"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Generate calls the generateContent endpoint and maps the response into
// the provider-neutral result shape.
func (c *Client) Generate(ctx context.Context, input llm.GenerateInput) (llm.GenerateResult, error) {
	if strings.TrimSpace(input.Prompt) == "" {
		return llm.GenerateResult{}, fmt.Errorf("prompt is empty")
	}

	cfg := &generationConfig{}
	if input.Temperature > 0 {
		temp := input.Temperature
		cfg.Temperature = &temp
	}
	if input.TopP > 0 {
		topP := input.TopP
		cfg.TopP = &topP
	}
	if input.TopK > 0 {
		topK := input.TopK
		cfg.TopK = &topK
	}
	if input.MaxOutputTokens > 0 {
		maxTokens := input.MaxOutputTokens
		cfg.MaxOutputTokens = &maxTokens
	}
	cfg.ResponseMIMEType = input.ResponseMIMEType

	reqBody := generateRequest{
		Contents: []requestContent{
			{Parts: []requestPart{{Text: input.Prompt}}},
		},
		GenerationConfig: cfg,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return llm.GenerateResult{}, err
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s", apiBase, url.PathEscape(c.model), url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return llm.GenerateResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return llm.GenerateResult{}, fmt.Errorf("gemini request timeout: %w", err)
		}
		return llm.GenerateResult{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return llm.GenerateResult{}, err
	}
	if resp.StatusCode >= 500 {
		return llm.GenerateResult{}, fmt.Errorf("gemini http status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return llm.GenerateResult{}, fmt.Errorf("gemini response parse: %w", err)
	}
	if parsed.Error != nil {
		return llm.GenerateResult{}, fmt.Errorf("gemini error: %s (%s)", parsed.Error.Message, parsed.Error.Status)
	}
	if len(parsed.Candidates) == 0 {
		return llm.GenerateResult{}, fmt.Errorf("gemini response missing candidates")
	}

	out := llm.GenerateResult{}
	for _, cand := range parsed.Candidates {
		mapped := llm.Candidate{}
		for _, part := range cand.Content.Parts {
			mapped.Content.Parts = append(mapped.Content.Parts, llm.Part{Text: part.Text})
		}
		out.Candidates = append(out.Candidates, mapped)
	}
	return out, nil
}

var _ llm.Generator = (*Client)(nil)
