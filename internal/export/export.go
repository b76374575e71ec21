// Package export turns artifacts and sessions into downloadable bytes: a
// single self-contained HTML document, or a zip archive of a full session.
package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pichimail/spark-ui-designer/pkg/schema"
)

// StandaloneHTML returns one self-contained HTML document for an artifact.
// Content that already is a full document passes through untouched;
// fragments are wrapped in a doctype/head/body shell.
func StandaloneHTML(a schema.Artifact) []byte {
	content := strings.TrimSpace(a.HTML)
	lower := strings.ToLower(content)
	if strings.HasPrefix(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return []byte(content)
	}

	doc := fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
</head>
<body>
%s
</body>
</html>
`, htmlTitle(a.StyleName), content)
	return []byte(doc)
}

// SessionArchive builds a zip archive for a session: session.json at the
// root, then one folder per artifact holding index.html, style.css,
// script.js (the naive split of the document) and a standalone copy.
func SessionArchive(s schema.Session) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	meta, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	if err := writeEntry(zw, "session.json", meta); err != nil {
		return nil, err
	}

	for i, art := range s.Artifacts {
		dir := fmt.Sprintf("%02d-%s", i+1, slugify(art.StyleName))

		body, css, js := SplitDocument(art.HTML)
		files := map[string][]byte{
			dir + "/index.html":      indexDocument(art.StyleName, body),
			dir + "/style.css":       []byte(css),
			dir + "/script.js":       []byte(js),
			dir + "/standalone.html": StandaloneHTML(art),
		}
		for _, name := range []string{dir + "/index.html", dir + "/style.css", dir + "/script.js", dir + "/standalone.html"} {
			if err := writeEntry(zw, name, files[name]); err != nil {
				return nil, err
			}
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

// indexDocument wraps the stripped body in a document that links the
// extracted stylesheet and script.
func indexDocument(styleName, body string) []byte {
	doc := fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<link rel="stylesheet" href="style.css">
</head>
<body>
%s
<script src="script.js"></script>
</body>
</html>
`, htmlTitle(styleName), body)
	return []byte(doc)
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create archive entry %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write archive entry %s: %w", name, err)
	}
	return nil
}

func htmlTitle(name string) string {
	if name == "" || name == schema.PlaceholderStyleName {
		return "Generated Component"
	}
	return name
}
