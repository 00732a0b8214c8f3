package content

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// DetailStyle is the glamour style used for full note rendering.
const DetailStyle = "dracula"

// RenderDetail renders the whole note at path as styled terminal markdown
// wrapped to width.
func RenderDetail(path string, width int) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read note: %w", err)
	}
	return RenderMarkdown(string(data), width)
}

// RenderMarkdown renders source as styled terminal markdown.
func RenderMarkdown(source string, width int) (string, error) {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(DetailStyle),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.ANSI256),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}

	out, err := r.Render(source)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
