// ABOUTME: Regex-based word tokenizer with byte-indexed token spans
// ABOUTME: Supports reversible encode/decode and token-bounded truncation
package tokenizer

import (
	"regexp"
	"strings"
)

// tokenRegex matches words (including hyphen/underscore compounds) or any
// single non-space rune, so every non-whitespace byte lands in some token.
var tokenRegex = regexp.MustCompile(`\w+(?:[-_]\w+)*|\S`)

// Token is a single token with its byte span in the source text.
type Token struct {
	Text  string
	Start int
	End   int
}

// Tokenizer splits normalized text into tokens. The zero value is usable.
type Tokenizer struct{}

// New creates a new Tokenizer.
func New() *Tokenizer {
	return &Tokenizer{}
}

// Normalize collapses all whitespace runs to single spaces and trims.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Encode normalizes text and returns its tokens with byte spans into the
// normalized string.
func (t *Tokenizer) Encode(text string) (string, []Token) {
	normalized := Normalize(text)
	indices := tokenRegex.FindAllStringIndex(normalized, -1)

	tokens := make([]Token, 0, len(indices))
	for _, idx := range indices {
		tokens = append(tokens, Token{
			Text:  normalized[idx[0]:idx[1]],
			Start: idx[0],
			End:   idx[1],
		})
	}
	return normalized, tokens
}

// Decode reconstructs the text covered by a token slice. Because Normalize
// guarantees single spaces between tokens, joining token texts with spaces
// reproduces the exact normalized substring: Decode(Encode(x)) == Normalize(x).
func (t *Tokenizer) Decode(tokens []Token) string {
	if len(tokens) == 0 {
		return ""
	}
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = tok.Text
	}
	return strings.Join(parts, " ")
}

// Count returns the token count of text after normalization.
func (t *Tokenizer) Count(text string) int {
	_, tokens := t.Encode(text)
	return len(tokens)
}

// Truncate returns text cut to at most maxTokens tokens, normalized.
// Returns the text unchanged (normalized) when it already fits.
func (t *Tokenizer) Truncate(text string, maxTokens int) string {
	normalized, tokens := t.Encode(text)
	if maxTokens <= 0 || len(tokens) <= maxTokens {
		return normalized
	}
	kept := tokens[:maxTokens]
	return normalized[kept[0].Start:kept[len(kept)-1].End]
}
