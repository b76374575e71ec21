// Package llm is the boundary to the generative model service. The rest of
// the application treats the model as an opaque producer of text and text
// streams; everything provider-specific lives here.
package llm

import (
	"context"
	"strings"
)

// ChunkFunc receives one streamed text fragment. Returning an error aborts
// the stream.
type ChunkFunc func(text string) error

// Client abstracts the generative model API.
type Client interface {
	// GenerateText issues a single-shot request and returns the full
	// response text.
	GenerateText(ctx context.Context, prompt string) (string, error)

	// GenerateTextStream issues a streaming request, invoking onChunk for
	// each non-empty text fragment as it arrives. Chunks with empty or
	// missing text are skipped, not errors.
	GenerateTextStream(ctx context.Context, prompt string, onChunk ChunkFunc) error
}

// CleanCodeFences strips a wrapping markdown code fence from model output.
// Models routinely wrap generated documents in ```html ... ``` (or a bare
// ```), which must not end up in the artifact.
func CleanCodeFences(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		// Drop an optional language tag on the fence line.
		if i := strings.IndexByte(content, '\n'); i >= 0 && isFenceTag(content[:i]) {
			content = content[i+1:]
		}
		content = strings.TrimSpace(content)
	}

	if strings.HasSuffix(content, "```") {
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	return content
}

func isFenceTag(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
