package content

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/muesli/reflow/truncate"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/Paintersrp/ancards/internal/search"
)

var (
	embedRe    = regexp.MustCompile(`!\[\[([^\]|#]+)(?:[#|][^\]]*)?\]\]`)
	wikiLinkRe = regexp.MustCompile(`\[\[([^\]|]+)(?:\|([^\]]+))?\]\]`)
	spaceRe    = regexp.MustCompile(`\s+`)
)

var imageExts = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".webp": {}, ".svg": {}, ".bmp": {}, ".avif": {},
}

var markdown = goldmark.New()

// extracted is what a single parse of a note yields.
type extracted struct {
	text   string
	images []string
}

// extract walks the markdown AST of a note body collecting readable text and
// image references in document order. Code blocks and raw HTML are skipped.
func extract(data []byte) extracted {
	_, body := search.SplitFrontMatter(data)

	var (
		buf    strings.Builder
		images []string
	)

	// Embeds are not markdown; pull them out before goldmark sees the body.
	for _, m := range embedRe.FindAllSubmatch(body, -1) {
		images = append(images, strings.TrimSpace(string(m[1])))
	}
	body = embedRe.ReplaceAll(body, nil)

	doc := markdown.Parser().Parse(text.NewReader(body))
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.Image:
			if entering {
				images = append(images, string(node.Destination))
			}
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			if entering {
				buf.Write(node.Segment.Value(body))
				if node.SoftLineBreak() || node.HardLineBreak() {
					buf.WriteByte(' ')
				}
			}
		case *ast.CodeSpan:
			if entering {
				for c := node.FirstChild(); c != nil; c = c.NextSibling() {
					if t, ok := c.(*ast.Text); ok {
						buf.Write(t.Segment.Value(body))
					}
				}
			}
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph, *ast.Heading, *ast.ListItem, *ast.Blockquote:
			if !entering {
				buf.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})

	plain := wikiLinkRe.ReplaceAllStringFunc(buf.String(), func(link string) string {
		m := wikiLinkRe.FindStringSubmatch(link)
		if m[2] != "" {
			return m[2]
		}
		return m[1]
	})
	plain = strings.TrimSpace(spaceRe.ReplaceAllString(plain, " "))

	return extracted{text: plain, images: images}
}

// clip shortens s to at most limit cells, ending it with an ellipsis.
func clip(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	return truncate.StringWithTail(s, uint(limit), "…")
}

// resolveImages turns raw references into absolute paths or URLs. Local
// references are tried next to the note first and then from the vault root.
// Non-image and unresolvable references are dropped.
func resolveImages(root, notePath string, refs []string, limit int, exists func(string) bool) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, ref := range refs {
		if limit > 0 && len(out) >= limit {
			break
		}
		resolved := resolveImage(root, notePath, ref, exists)
		if resolved == "" {
			continue
		}
		if _, dup := seen[resolved]; dup {
			continue
		}
		seen[resolved] = struct{}{}
		out = append(out, resolved)
	}
	return out
}

func resolveImage(root, notePath, ref string, exists func(string) bool) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if u, err := url.Parse(ref); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return ref
	}
	if unescaped, err := url.PathUnescape(ref); err == nil {
		ref = unescaped
	}
	if _, ok := imageExts[strings.ToLower(filepath.Ext(ref))]; !ok {
		return ""
	}

	candidates := []string{
		filepath.Join(filepath.Dir(notePath), filepath.FromSlash(ref)),
		filepath.Join(root, filepath.FromSlash(ref)),
	}
	for _, c := range candidates {
		if exists(c) {
			return filepath.Clean(c)
		}
	}
	return ""
}
