package enhance

import "testing"

func TestSimilarityPercent(t *testing.T) {
	if got := SimilarityPercent("abc", "abc"); got != 100 {
		t.Fatalf("identical strings: got %v, want 100", got)
	}
	if got := SimilarityPercent("", ""); got != 100 {
		t.Fatalf("empty strings: got %v, want 100", got)
	}
	if got := SimilarityPercent("abcd", "wxyz"); got != 0 {
		t.Fatalf("disjoint strings: got %v, want 0", got)
	}

	ab := SimilarityPercent("managed a team of five", "managed a team of nine")
	ba := SimilarityPercent("managed a team of nine", "managed a team of five")
	if ab != ba {
		t.Fatalf("not symmetric: %v vs %v", ab, ba)
	}
	if ab < 80 {
		t.Fatalf("near-identical strings scored %v, want >= 80", ab)
	}
}

func TestTooSimilar(t *testing.T) {
	thresholds := Thresholds{TextSimilarity: 80, Jaccard: 0.75, MinTokenLength: 3}

	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{name: "both empty", a: "", b: "", want: false},
		{name: "exact match", a: "Led the team.", b: "Led the team.", want: true},
		{name: "whitespace padded match", a: "  Led the team. ", b: "Led the team.", want: true},
		{
			name: "single word swap",
			a:    "Managed deployments across three production environments.",
			b:    "Managed deployments across four production environments.",
			want: true,
		},
		{
			name: "reordered tokens caught by jaccard",
			a:    "production environments deployments managed across three",
			b:    "Managed deployments across three production environments",
			want: true,
		},
		{
			name: "different content",
			a:    "Managed deployments across three production environments.",
			b:    "Designed onboarding curriculum for junior analysts.",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TooSimilar(tt.a, tt.b, thresholds); got != tt.want {
				t.Fatalf("TooSimilar(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := TooSimilar(tt.b, tt.a, thresholds); got != tt.want {
				t.Fatalf("TooSimilar not symmetric for %q / %q", tt.a, tt.b)
			}
		})
	}
}

func TestTooSimilarShortTokensSkipJaccard(t *testing.T) {
	thresholds := Thresholds{TextSimilarity: 80, Jaccard: 0.1, MinTokenLength: 10}
	// Every token is shorter than MinTokenLength, so only the character
	// check applies.
	if TooSimilar("cat dog fox", "fox dog cat", thresholds) {
		t.Fatalf("expected short-token texts to skip the jaccard check")
	}
}
