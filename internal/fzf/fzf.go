// Package fzf picks a note from a result set with an fzf-style finder.
package fzf

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/Paintersrp/ancards/internal/content"
	"github.com/Paintersrp/ancards/internal/search"
)

// ErrNoSelection is returned when the user leaves the finder without picking.
var ErrNoSelection = errors.New("no note selected")

// FuzzyFinder selects one document out of a pipeline result.
type FuzzyFinder struct {
	Header string
	docs   []search.Document
	labels []string

	// find is swapped in tests.
	find func(slice interface{}, label func(int) string, opts ...fuzzyfinder.Option) (int, error)
}

func NewFuzzyFinder(docs []search.Document, header string) *FuzzyFinder {
	f := &FuzzyFinder{
		Header: header,
		docs:   docs,
		labels: make([]string, len(docs)),
		find:   fuzzyfinder.Find,
	}
	for i, doc := range docs {
		f.labels[i] = Label(doc)
	}
	return f
}

// Pick runs the finder seeded with query and returns the chosen document.
func (f *FuzzyFinder) Pick(query string) (search.Document, error) {
	if len(f.docs) == 0 {
		return search.Document{}, ErrNoSelection
	}

	options := []fuzzyfinder.Option{
		fuzzyfinder.WithPreviewWindow(f.preview),
	}
	if query != "" {
		options = append(options, fuzzyfinder.WithQuery(query))
	}
	if f.Header != "" {
		options = append(options, fuzzyfinder.WithHeader(f.Header))
	}

	idx, err := f.find(f.docs, func(i int) string { return f.labels[i] }, options...)
	if errors.Is(err, fuzzyfinder.ErrAbort) {
		return search.Document{}, ErrNoSelection
	}
	if err != nil {
		return search.Document{}, fmt.Errorf("fuzzy select: %w", err)
	}
	if idx < 0 || idx >= len(f.docs) {
		return search.Document{}, ErrNoSelection
	}
	return f.docs[idx], nil
}

// Label is the finder line for doc: its name, folder path and tags.
func Label(doc search.Document) string {
	var b strings.Builder
	b.WriteString(doc.Name)
	if dir := folder(doc.Rel); dir != "" {
		fmt.Fprintf(&b, " (%s)", dir)
	}
	if len(doc.Tags) == 0 {
		b.WriteString(" [No tags]")
	} else {
		fmt.Fprintf(&b, " [Tags: %s]", strings.Join(doc.Tags, ", "))
	}
	return b.String()
}

func folder(rel string) string {
	i := strings.LastIndex(rel, "/")
	if i <= 0 {
		return ""
	}
	return rel[:i]
}

func (f *FuzzyFinder) preview(i, w, _ int) string {
	if i < 0 || i >= len(f.docs) {
		return ""
	}

	data, err := os.ReadFile(f.docs[i].Path)
	if err != nil {
		return "Error reading file"
	}

	rendered, err := content.RenderMarkdown(string(data), max(w-4, 20))
	if err != nil {
		return "Error rendering markdown"
	}
	return rendered
}
