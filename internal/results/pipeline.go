// Package results turns the vault index into the ordered list of documents
// the card view materializes: query, search filter, sort and limit, memoized
// per request and index revision.
package results

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Paintersrp/ancards/internal/logging"
	"github.com/Paintersrp/ancards/internal/search"
)

// ErrInvalidQuery wraps every failure of the upstream query.
var ErrInvalidQuery = errors.New("invalid query")

// Source supplies documents for an expression.
type Source interface {
	Query(expression string) ([]search.Document, error)
	// Revision changes whenever the documents a query would return may have
	// changed.
	Revision() uint64
}

// Request is everything that shapes a result set.
type Request struct {
	Expression string
	Search     string
	Sort       Sort
	// Seed drives the shuffle when Sort is SortRandom.
	Seed int64
	// Limit caps the result set after sorting. Zero means unlimited.
	Limit int
}

// Identity distinguishes result sets for pagination. Two requests with the
// same identity describe the same list even if the index changed underneath.
func (r Request) Identity() string {
	parts := []string{
		strings.TrimSpace(r.Expression),
		strings.ToLower(strings.Join(strings.Fields(r.Search), " ")),
		string(r.Sort),
		strconv.Itoa(max(r.Limit, 0)),
	}
	if r.Sort == SortRandom {
		parts = append(parts, strconv.FormatInt(r.Seed, 10))
	}
	return strings.Join(parts, "\x1f")
}

// Outcome is the product of one pipeline run.
type Outcome struct {
	Documents []search.Document
	// Matched counts documents before the limit was applied.
	Matched  int
	Identity string
	Revision uint64
	// Err is set when the query failed. Documents is then empty and Message
	// holds the text shown to the user.
	Err     error
	Message string
}

// Total is the length of the result set.
func (o Outcome) Total() int {
	return len(o.Documents)
}

// Pipeline runs requests against a Source.
type Pipeline struct {
	source Source
	log    *slog.Logger

	memoReq Request
	memoRev uint64
	memo    *Outcome
}

// NewPipeline returns a pipeline reading from source.
func NewPipeline(source Source, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.New("results")
	}
	return &Pipeline{source: source, log: logger}
}

// Run evaluates req. Results are reused while neither the request nor the
// source revision changes. A failing query yields an empty outcome carrying
// the error and never panics.
func (p *Pipeline) Run(req Request) Outcome {
	if req.Sort == "" {
		req.Sort = DefaultSort
	}
	if req.Limit < 0 {
		req.Limit = 0
	}

	rev := p.source.Revision()
	if p.memo != nil && p.memoReq == req && p.memoRev == rev {
		return *p.memo
	}

	out := p.evaluate(req, rev)
	p.memoReq, p.memoRev, p.memo = req, rev, &out
	return out
}

// Invalidate drops the memoized outcome.
func (p *Pipeline) Invalidate() {
	p.memo = nil
}

func (p *Pipeline) evaluate(req Request, rev uint64) Outcome {
	out := Outcome{Identity: req.Identity(), Revision: rev}

	docs, err := p.query(req.Expression)
	if err != nil {
		out.Err = fmt.Errorf("%w: %w", ErrInvalidQuery, err)
		out.Message = queryMessage(err)
		p.log.Info("query failed", "expression", req.Expression, "error", err)
		return out
	}

	terms := parseTerms(req.Search)
	filtered := make([]search.Document, 0, len(docs))
	for _, doc := range docs {
		if terms.match(doc) {
			filtered = append(filtered, doc)
		}
	}

	order(filtered, req.Sort, req.Seed)
	out.Matched = len(filtered)
	if req.Limit > 0 && len(filtered) > req.Limit {
		filtered = filtered[:req.Limit]
	}
	out.Documents = filtered
	return out
}

func (p *Pipeline) query(expression string) (docs []search.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			docs, err = nil, fmt.Errorf("query panicked: %v", r)
		}
	}()
	return p.source.Query(expression)
}

func queryMessage(err error) string {
	msg := err.Error()
	msg = strings.TrimPrefix(msg, search.ErrInvalidExpression.Error()+": ")
	return "Query error: " + msg
}

type terms struct {
	text []string
	tags []string
}

func parseTerms(input string) terms {
	var t terms
	for _, field := range strings.Fields(strings.ToLower(input)) {
		if strings.HasPrefix(field, "#") {
			if tag := strings.TrimPrefix(field, "#"); tag != "" {
				t.tags = append(t.tags, tag)
			}
			continue
		}
		t.text = append(t.text, field)
	}
	return t
}

func (t terms) match(doc search.Document) bool {
	for _, tag := range t.tags {
		if !doc.HasTag(tag) {
			return false
		}
	}
	for _, term := range t.text {
		if !matchText(doc, term) {
			return false
		}
	}
	return true
}

func matchText(doc search.Document, term string) bool {
	if strings.Contains(strings.ToLower(doc.Name), term) ||
		strings.Contains(strings.ToLower(doc.Rel), term) {
		return true
	}
	for _, tag := range doc.Tags {
		if strings.Contains(tag, term) {
			return true
		}
	}
	for _, values := range doc.Properties {
		for _, v := range values {
			if strings.Contains(strings.ToLower(v), term) {
				return true
			}
		}
	}
	return false
}
