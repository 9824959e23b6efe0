package grammar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Match is one issue flagged by the checker, positioned by rune offset
// into the submitted text.
type Match struct {
	Offset       int      `json:"offset"`
	Length       int      `json:"length"`
	Message      string   `json:"message"`
	RuleID       string   `json:"ruleId"`
	RuleCategory string   `json:"ruleCategory"`
	Replacements []string `json:"replacements"`
}

// Checker runs a text through a grammar checking backend.
type Checker interface {
	Check(ctx context.Context, text, language string) ([]Match, error)
}

// Client talks to a LanguageTool-compatible HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a checker client. baseURL points at the API root,
// for example https://api.languagetool.org.
func NewClient(baseURL string) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("LANGUAGETOOL_URL is required")
	}
	timeout := 15 * time.Second
	if raw := strings.TrimSpace(os.Getenv("LANGUAGETOOL_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type checkResponse struct {
	Matches []struct {
		Message string `json:"message"`
		Offset  int    `json:"offset"`
		Length  int    `json:"length"`
		Rule    struct {
			ID       string `json:"id"`
			IssueTyp string `json:"issueType"`
			Category struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"category"`
		} `json:"rule"`
		Replacements []struct {
			Value string `json:"value"`
		} `json:"replacements"`
	} `json:"matches"`
}

// Check submits the text to the /v2/check endpoint.
func (c *Client) Check(ctx context.Context, text, language string) ([]Match, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if language == "" {
		language = "en-US"
	}

	form := url.Values{}
	form.Set("text", text)
	form.Set("language", language)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/check", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("languagetool http status %d", resp.StatusCode)
	}

	var parsed checkResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("languagetool response parse: %w", err)
	}

	out := make([]Match, 0, len(parsed.Matches))
	for _, m := range parsed.Matches {
		match := Match{
			Offset:       m.Offset,
			Length:       m.Length,
			Message:      m.Message,
			RuleID:       m.Rule.ID,
			RuleCategory: m.Rule.Category.ID,
		}
		for _, rep := range m.Replacements {
			match.Replacements = append(match.Replacements, rep.Value)
		}
		out = append(out, match)
	}
	return out, nil
}

var _ Checker = (*Client)(nil)
