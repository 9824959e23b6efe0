package grammar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientCheckParsesMatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v2/check" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.PostForm.Get("language"); got != "en-US" {
			t.Errorf("expected default language en-US, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"matches": [
				{
					"message": "Possible spelling mistake found.",
					"offset": 4,
					"length": 6,
					"rule": {
						"id": "MORFOLOGIK_RULE_EN_US",
						"category": {"id": "TYPOS", "name": "Possible Typo"}
					},
					"replacements": [{"value": "skills"}, {"value": "skill"}]
				}
			]
		}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	matches, err := client.Check(context.Background(), "Top skils in Go", "")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one match, got %d", len(matches))
	}
	m := matches[0]
	if m.Offset != 4 || m.Length != 6 || m.RuleID != "MORFOLOGIK_RULE_EN_US" || m.RuleCategory != "TYPOS" {
		t.Fatalf("match parsed wrong: %+v", m)
	}
	if len(m.Replacements) != 2 || m.Replacements[0] != "skills" {
		t.Fatalf("replacements parsed wrong: %+v", m.Replacements)
	}
}

func TestClientCheckSkipsEmptyText(t *testing.T) {
	client, err := NewClient("https://languagetool.invalid")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	matches, err := client.Check(context.Background(), "   ", "en-US")
	if err != nil || matches != nil {
		t.Fatalf("expected no call for empty text, got %v / %v", matches, err)
	}
}

func TestClientCheckReportsHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.Check(context.Background(), "some text", "en-US"); err == nil {
		t.Fatalf("expected an error on a 503 response")
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatalf("expected an error for an empty base URL")
	}
}
