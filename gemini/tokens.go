package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/leadscout"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ leadscout.TokenCounter = (*LocalTokens)(nil)

// LocalTokens counts tokens offline with the Gemini tokenizer.
type LocalTokens struct {
	tok *tokenizer.LocalTokenizer
}

// NewLocalTokens creates a LocalTokens for model. The tokenizer vocabulary
// is downloaded and cached on first use.
func NewLocalTokens(model string) (*LocalTokens, error) {
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, err
	}
	return &LocalTokens{tok: tok}, nil
}

// CountTokens returns the token count of text as a single user turn.
func (t *LocalTokens) CountTokens(ctx context.Context, text string) (int, error) {
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}
	result, err := t.tok.CountTokens([]*genai.Content{genai.NewContentFromText(text, "user")}, nil)
	if err != nil {
		return 0, err
	}
	return int(result.TotalTokens), nil
}
