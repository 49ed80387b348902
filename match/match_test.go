package match

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "suffix and punctuation stripped", input: "Super Store Inc.", want: "superstoreinc"},
		{name: "case folded", input: "SUPERSTORE", want: "superstore"},
		{name: "digits kept", input: "Store 24/7", want: "store247"},
		{name: "empty", input: "", want: ""},
		{name: "symbols only", input: "!!! ---", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_SlugEquivalence(t *testing.T) {
	// "Super Store Inc." and "SUPERSTORE" are not equal slugs, but the
	// first contains the second; Matches covers that case below.
	if Normalize("Super  Store") != Normalize("SUPERSTORE") {
		t.Errorf("spacing and case variants should normalize identically")
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{name: "exact", a: "Super Store", b: "Super Store", want: true},
		{name: "legal suffix", a: "Super Store", b: "Super Store Inc.", want: true},
		{name: "reversed containment", a: "Super Store Inc.", b: "Super Store", want: true},
		{name: "unrelated vendors", a: "Super Store", b: "Acme Corp", want: false},
		{name: "empty never matches", a: "", b: "Super Store", want: false},
		{name: "both empty", a: "", b: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.a, tt.b); got != tt.want {
				t.Errorf("Matches(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
