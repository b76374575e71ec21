package pipeline

import (
	"context"
	"encoding/json"

	"github.com/pichimail/spark-ui-designer/internal/jsonstream"
	"github.com/pichimail/spark-ui-designer/internal/llm"
	"github.com/pichimail/spark-ui-designer/pkg/schema"
)

// Variations streams alternate re-imaginings of one artifact's HTML. The
// model is instructed to emit newline-delimited JSON objects; each one
// whose name and html are both non-empty is delivered to onVariation as
// soon as its closing brace arrives. Malformed fragments are skipped, not
// fatal to the stream. Variations are ephemeral and never persisted.
func (p *Pipeline) Variations(ctx context.Context, html string, onVariation func(schema.ComponentVariation)) error {
	if p.client == nil {
		return llm.NewConfigError("GEMINI_API_KEY is not set")
	}

	ex := jsonstream.NewExtractor()
	return p.client.GenerateTextStream(ctx, llm.BuildVariationsPrompt(html), func(text string) error {
		for _, obj := range ex.Feed(text) {
			var v schema.ComponentVariation
			if err := json.Unmarshal(obj, &v); err != nil {
				p.logger.Debug("skipping malformed variation object", "error", err)
				continue
			}
			if v.Name == "" || v.HTML == "" {
				continue
			}
			onVariation(v)
		}
		return nil
	})
}
