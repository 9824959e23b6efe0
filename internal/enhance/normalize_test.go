package enhance

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "whitespace only", in: "   \t\n ", want: ""},
		{name: "adds terminal period", in: "Led the migration", want: "Led the migration."},
		{name: "keeps bang", in: "Shipped it!", want: "Shipped it!"},
		{name: "keeps question mark", in: "Why not?", want: "Why not?"},
		{name: "strips placeholder", in: "Worked at [Company Name] as engineer", want: "Worked at as engineer."},
		{name: "strips nested placeholders", in: "Built [[the thing]] quickly", want: "Built quickly."},
		{name: "collapses whitespace", in: "a  b\t c\n\nd", want: "a b c d."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Worked at [Company] as [role] doing [[nested [deep]]] work",
		"plain   text with   spaces",
		"already terminated.",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Fatalf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
