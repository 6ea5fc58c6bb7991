package assets

import (
	_ "embed"
	"html/template"
)

// IndexHTML is the page served at "/" in stream mode.
//
//go:embed index.html
var IndexHTML string

// IndexData fills the index template.
type IndexData struct {
	Title   string
	Width   int
	GameURL string
}

// IndexTemplate parses the embedded page.
func IndexTemplate() (*template.Template, error) {
	return template.New("index").Parse(IndexHTML)
}
