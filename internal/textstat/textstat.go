// Package textstat counts tokens, words, sentences, and characters for
// message text under a given model.
package textstat

import (
	"strings"
	"sync"
	"unicode"

	"github.com/clipperhouse/uax29/v2/sentences"
	"github.com/clipperhouse/uax29/v2/words"
	"github.com/pkoukk/tiktoken-go"

	"github.com/IchaiWiz/chat-gpt-insight/internal/model"
)

// modelEncodings maps model slugs to their tiktoken encoding. Unknown
// models fall back to defaultEncoding.
var modelEncodings = map[string]string{
	"gpt-4-browsing":              "o200k_base",
	"gpt-4-code-interpreter":      "o200k_base",
	"gpt-4-dalle":                 "o200k_base",
	"gpt-4-gizmo":                 "o200k_base",
	"gpt-4-plugins":               "o200k_base",
	"gpt-4o":                      "o200k_base",
	"gpt-4o-audio-preview":        "o200k_base",
	"gpt-4o-mini":                 "o200k_base",
	"o1-mini":                     "o200k_base",
	"o1-preview":                  "o200k_base",
	"text-davinci-002-render":     "p50k_base",
	"text-davinci-002-render-sha": "p50k_base",
	"gpt-4":                       "cl100k_base",
}

const defaultEncoding = "cl100k_base"

var (
	encMu    sync.Mutex
	encCache = make(map[string]*tiktoken.Tiktoken)
)

func encodingFor(modelSlug string) (*tiktoken.Tiktoken, error) {
	name, ok := modelEncodings[modelSlug]
	if !ok {
		name = defaultEncoding
	}

	encMu.Lock()
	defer encMu.Unlock()

	if enc, ok := encCache[name]; ok {
		return enc, nil
	}
	enc, err := tiktoken.GetEncoding(name)
	if err != nil {
		return nil, err
	}
	encCache[name] = enc
	return enc, nil
}

// CountTokens returns the token count of text under the encoding of the
// given model. An unavailable encoding degrades to 0, never an error:
// archives are heterogeneous and token counts are a best-effort metric.
func CountTokens(text, modelSlug string) int {
	enc, err := encodingFor(modelSlug)
	if err != nil {
		return 0
	}
	return len(enc.Encode(text, nil, nil))
}

// CountWords returns the number of word-like segments in text.
func CountWords(text string) int {
	n := 0
	tokens := words.FromString(text)
	for tokens.Next() {
		if isWordLike(tokens.Value()) {
			n++
		}
	}
	return n
}

// CountSentences returns the number of sentence segments in text.
func CountSentences(text string) int {
	n := 0
	segs := sentences.FromString(text)
	for segs.Next() {
		if strings.TrimSpace(segs.Value()) != "" {
			n++
		}
	}
	return n
}

// isWordLike reports whether a segment contains at least one letter or
// digit, filtering out whitespace and bare punctuation segments.
func isWordLike(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return true
		}
	}
	return false
}

// Analyze computes the full set of text metrics for one message.
func Analyze(text, modelSlug string) model.TextAnalysis {
	return model.TextAnalysis{
		CharacterCount: len([]rune(text)),
		WordCount:      CountWords(text),
		SentenceCount:  CountSentences(text),
		TokenCount:     CountTokens(text, modelSlug),
	}
}
