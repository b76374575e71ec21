package llm

import "fmt"

// BuildStyleNamesPrompt creates the style-naming prompt for a user request.
// The response is a bare JSON array so the caller can extract it even when
// the model wraps it in prose.
func BuildStyleNamesPrompt(userPrompt string) string {
	return fmt.Sprintf(`A user wants this UI component built: "%s"

Invent exactly 3 distinct design personas for it. Each persona is a short
style direction name of 1-3 words (e.g. "Neo Brutalist", "Soft Glass",
"Terminal Green").

Return ONLY a JSON array of 3 strings:
["name one", "name two", "name three"]`, userPrompt)
}

// BuildArtifactPrompt creates the body-generation prompt for one artifact.
// The response streams as raw HTML, not JSON.
func BuildArtifactPrompt(userPrompt, styleName string) string {
	return fmt.Sprintf(`Build this UI component: "%s"

Design persona: %s

REQUIREMENTS:
- One single self-contained HTML document: all CSS in a <style> tag, all
  behavior in a <script> tag, no external resources
- Polished and production-quality, committed fully to the persona
- Works standalone when opened in a browser

Return ONLY the HTML document. No explanations, no markdown fences.`, userPrompt, styleName)
}

// BuildVariationsPrompt creates the variations prompt for a focused
// artifact. The response is a stream of newline-delimited JSON objects so
// each variation can render as soon as its closing brace arrives.
func BuildVariationsPrompt(html string) string {
	return fmt.Sprintf(`Here is an existing self-contained UI component:

%s

Re-imagine it in 3 different design personas. For EACH persona emit one
JSON object on its own line, immediately, in this exact shape:
{"name": "persona name", "html": "<complete self-contained html document>"}

Emit the objects one after another with no surrounding array, no markdown
fences and no commentary.`, html)
}
