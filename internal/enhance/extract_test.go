package enhance

import (
	"testing"

	"cveezy-backend/internal/llm"
)

func resultWith(text string) llm.GenerateResult {
	return llm.GenerateResult{
		Candidates: []llm.Candidate{
			{Content: llm.Content{Parts: []llm.Part{{Text: text}}}},
		},
	}
}

func TestExtractCandidate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "plain json",
			raw:  `{"description": "Led the migration."}`,
			want: "Led the migration.",
		},
		{
			name: "fenced json",
			raw:  "```json\n{\"description\": \"Led the migration.\"}\n```",
			want: "Led the migration.",
		},
		{
			name: "renamed single key",
			raw:  `{"text": "Led the migration."}`,
			want: "Led the migration.",
		},
		{
			name: "prose fallback takes first paragraph",
			raw:  "Led the migration.\n\nSecond paragraph ignored.",
			want: "Led the migration.",
		},
		{
			name: "bullet markers stripped",
			raw:  "- Led the migration.\n* Shipped the rollout.",
			want: "Led the migration. Shipped the rollout.",
		},
		{
			name: "empty",
			raw:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractCandidate(resultWith(tt.raw), "description"); got != tt.want {
				t.Fatalf("ExtractCandidate = %q, want %q", got, tt.want)
			}
		})
	}
}
