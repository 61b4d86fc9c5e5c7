package analysis

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultErrorWords are the words that make a label an error message.
var DefaultErrorWords = []string{"error", "erreur", "problem", "problème"}

// Keywords matches label texts against error words. Matching is a
// case-sensitive substring test on NFC-normalized text, so "problème" typed
// with a combining accent still matches.
type Keywords struct {
	words []string
}

// NewKeywords builds a matcher. An empty list means DefaultErrorWords.
func NewKeywords(words []string) *Keywords {
	if len(words) == 0 {
		words = DefaultErrorWords
	}
	k := &Keywords{words: make([]string, 0, len(words))}
	for _, w := range words {
		if w = norm.NFC.String(strings.TrimSpace(w)); w != "" {
			k.words = append(k.words, w)
		}
	}
	return k
}

// Words returns the normalized error words.
func (k *Keywords) Words() []string {
	return append([]string(nil), k.words...)
}

// Match returns the first error word found in text.
func (k *Keywords) Match(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	text = norm.NFC.String(text)
	for _, w := range k.words {
		if strings.Contains(text, w) {
			return w, true
		}
	}
	return "", false
}
