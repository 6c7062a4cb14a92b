package textstat

import "testing"

func TestCountWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"simple", "hello world", 2},
		{"punctuation only", "... !!! ---", 0},
		{"contraction", "don't stop", 2},
		{"numbers", "chapter 42 begins", 3},
		{"mixed punctuation", "Hello, world! How's it going?", 5},
		{"accents", "café naïve résumé", 3},
		{"newlines", "one\ntwo\nthree", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountWords(tt.text); got != tt.want {
				t.Errorf("CountWords(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestCountSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"single", "Just one sentence.", 1},
		{"two", "First sentence. Second sentence!", 2},
		{"question", "Is this a question? Yes.", 2},
		{"no terminator", "trailing fragment without a period", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountSentences(tt.text); got != tt.want {
				t.Errorf("CountSentences(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestAnalyze_Characters(t *testing.T) {
	a := Analyze("héllo", "gpt-4o")
	// Character count is runes, not bytes.
	if a.CharacterCount != 5 {
		t.Errorf("CharacterCount = %d, want 5", a.CharacterCount)
	}
	if a.WordCount != 1 {
		t.Errorf("WordCount = %d, want 1", a.WordCount)
	}
}
