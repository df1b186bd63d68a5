package parser

import (
	"strings"
	"unicode/utf8"
)

// Stats summarizes a body of context text.
type Stats struct {
	Chars        int `json:"chars"`
	Words        int `json:"words"`
	ApproxTokens int `json:"approx_tokens"`
}

// TextStats counts characters (runes) and whitespace-separated words.
func TextStats(text string) Stats {
	words := len(strings.Fields(text))
	return Stats{
		Chars:        utf8.RuneCountInString(text),
		Words:        words,
		ApproxTokens: estimateTokens(text, words),
	}
}

// estimateTokens gives a rough token count at ~1.33 tokens per word.
func estimateTokens(text string, words int) int {
	if text == "" {
		return 0
	}
	tokens := int(float64(words) * 1.33)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}
