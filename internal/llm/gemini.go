package llm

import (
	"context"

	"golang.org/x/time/rate"
	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client. It only
// focuses on the API calls themselves; a token-bucket limiter gates each
// request so rapid fan-outs stay inside the provider's rate limits.
type GeminiClient struct {
	cli     *genai.Client
	model   string
	limiter *rate.Limiter
}

// NewGeminiClient creates a Gemini-backed client.
func NewGeminiClient(ctx context.Context, cfg *Config) (*GeminiClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.SetDefaults()

	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, NewNetworkError(err)
	}

	return &GeminiClient{
		cli:     cli,
		model:   cfg.Model,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}, nil
}

// Name identifies the client for logs.
func (g *GeminiClient) Name() string { return "Gemini:" + g.model }

// GenerateText issues a single-shot generation request.
func (g *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		return "", NewAPIError(err)
	}

	return responseText(resp), nil
}

// GenerateTextStream issues a streaming request, delivering each non-empty
// text fragment to onChunk in arrival order.
func (g *GeminiClient) GenerateTextStream(ctx context.Context, prompt string, onChunk ChunkFunc) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return err
	}

	for resp, err := range g.cli.Models.GenerateContentStream(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	) {
		if err != nil {
			return NewAPIError(err)
		}
		text := responseText(resp)
		if text == "" {
			// Chunks without text (safety metadata, keepalives) are
			// skipped, not errors.
			continue
		}
		if err := onChunk(text); err != nil {
			return err
		}
	}

	return nil
}

// responseText concatenates the text parts of the first candidate. Missing
// candidates or parts yield the empty string.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var out string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			out += part.Text
		}
	}
	return out
}
