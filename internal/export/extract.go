package export

import (
	"regexp"
	"strings"
)

var (
	styleRe  = regexp.MustCompile(`(?is)<style[^>]*>(.*?)</style>`)
	scriptRe = regexp.MustCompile(`(?is)<script[^>]*>(.*?)</script>`)
	slugRe   = regexp.MustCompile(`[^a-z0-9]+`)
)

// SplitDocument pulls all <style> and <script> contents out of an HTML
// document, concatenated in document order, and returns the document with
// those tags removed. The extraction is deliberately naive tag matching,
// not an HTML parse; generated components keep their CSS and JS in plain
// inline tags, which is all this needs to handle.
func SplitDocument(html string) (body, css, js string) {
	var cssParts []string
	for _, m := range styleRe.FindAllStringSubmatch(html, -1) {
		cssParts = append(cssParts, strings.TrimSpace(m[1]))
	}

	var jsParts []string
	for _, m := range scriptRe.FindAllStringSubmatch(html, -1) {
		jsParts = append(jsParts, strings.TrimSpace(m[1]))
	}

	body = styleRe.ReplaceAllString(html, "")
	body = scriptRe.ReplaceAllString(body, "")

	return strings.TrimSpace(body), strings.Join(cssParts, "\n\n"), strings.Join(jsParts, "\n\n")
}

// slugify turns a style name into a filesystem-friendly folder name.
func slugify(name string) string {
	slug := slugRe.ReplaceAllString(strings.ToLower(name), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "artifact"
	}
	return slug
}
