package llm

import (
	"fmt"
	"sync"

	"github.com/tiktoken-go/tokenizer"
)

var (
	codecOnce sync.Once
	codec     tokenizer.Codec
	codecErr  error
)

// CountTokens estimates the token count of text with the cl100k_base encoding.
// Provider tokenizers differ, so the result is an approximation used for metrics only.
func CountTokens(text string) (int, error) {
	codecOnce.Do(func() {
		codec, codecErr = tokenizer.Get(tokenizer.Cl100kBase)
	})
	if codecErr != nil {
		return 0, fmt.Errorf("failed to get tokenizer: %w", codecErr)
	}

	tokens, _, err := codec.Encode(text)
	if err != nil {
		return 0, fmt.Errorf("failed to encode content: %w", err)
	}
	return len(tokens), nil
}
