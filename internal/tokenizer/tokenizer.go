// Package tokenizer estimates how many model tokens the generated context uses.
package tokenizer

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

const (
	// DefaultModel is used when no model is configured.
	DefaultModel        = "gpt-4"
	defaultEncodingName = "cl100k_base"
)

var offlineLoaderOnce sync.Once

// useOfflineEncodings makes tiktoken read its BPE ranks from the embedded
// loader instead of downloading them.
func useOfflineEncodings() {
	offlineLoaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})
}

// NewCounter returns a Counter for the requested model together with the name
// of the model or encoding actually used. Unknown models fall back to the
// cl100k_base encoding.
func NewCounter(model string) (Counter, string, error) {
	useOfflineEncodings()

	resolvedModel := strings.TrimSpace(model)
	if resolvedModel == "" {
		resolvedModel = DefaultModel
	}
	lowerModel := strings.ToLower(resolvedModel)

	encoding, modelError := tiktoken.EncodingForModel(lowerModel)
	if modelError == nil && encoding != nil {
		return openAICounter{encoding: encoding, name: lowerModel}, resolvedModel, nil
	}
	fallback, fallbackError := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackError != nil {
		return nil, "", fmt.Errorf("initialize fallback tokenizer: %w", fallbackError)
	}
	return openAICounter{encoding: fallback, name: defaultEncodingName}, defaultEncodingName, nil
}
