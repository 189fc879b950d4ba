package spotify

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "exact", input: "Hello", want: "hello"},
		{name: "dash suffix", input: "Track - Remastered 2011", want: "track"},
		{name: "bracket suffix", input: "Song (Live)", want: "song"},
		{name: "square bracket suffix", input: "Song [Radio Edit]", want: "song"},
		{name: "punctuation", input: "AC/DC", want: "ac dc"},
		{name: "not suffix", input: "Live Forever", want: "live forever"},
		{name: "blank", input: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
