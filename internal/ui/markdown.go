package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

type rendererKey struct {
	style string
	width int
}

// renderers caches one glamour renderer per style and wrap width; building
// one parses the whole style sheet.
var (
	renderersMu sync.Mutex
	renderers   = map[rendererKey]*glamour.TermRenderer{}
)

// renderMarkdown renders md for the terminal. If glamour fails the source
// is returned as is.
func renderMarkdown(md, style string, width int) string {
	if width < 20 {
		width = 20
	}
	key := rendererKey{style: style, width: width}

	renderersMu.Lock()
	r, ok := renderers[key]
	if !ok {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			renderersMu.Unlock()
			return md
		}
		renderers[key] = r
	}
	out, err := r.Render(md)
	renderersMu.Unlock()
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}
