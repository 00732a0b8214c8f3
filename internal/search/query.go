package search

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidExpression reports a query expression that cannot be parsed.
var ErrInvalidExpression = errors.New("invalid query expression")

type clauseKind int

const (
	clauseText clauseKind = iota
	clauseTag
	clausePath
	clauseProperty
)

type clause struct {
	kind   clauseKind
	key    string
	value  string
	negate bool
}

// Expr is a parsed query expression. The zero Expr matches every document.
//
// Clauses are separated by whitespace and must all hold:
//
//	tag:project     note carries the tag (nested tags included)
//	path:journal    note lives under the folder
//	status:active   front-matter property has the value
//	meeting         name or path contains the text
//
// A leading '-' negates a clause. Double quotes group values with spaces.
type Expr struct {
	source  string
	clauses []clause
}

// ParseExpr parses s. Unbalanced quotes and operators without a value are
// rejected with ErrInvalidExpression.
func ParseExpr(s string) (Expr, error) {
	tokens, err := tokenize(s)
	if err != nil {
		return Expr{}, err
	}

	expr := Expr{source: strings.TrimSpace(s)}
	for _, tok := range tokens {
		c, err := parseClause(tok)
		if err != nil {
			return Expr{}, err
		}
		expr.clauses = append(expr.clauses, c)
	}
	return expr, nil
}

// MustParseExpr is ParseExpr for expressions known to be valid.
func MustParseExpr(s string) Expr {
	expr, err := ParseExpr(s)
	if err != nil {
		panic(err)
	}
	return expr
}

// String returns the trimmed source text.
func (e Expr) String() string {
	return e.source
}

// Empty reports whether the expression has no clauses.
func (e Expr) Empty() bool {
	return len(e.clauses) == 0
}

// Match reports whether doc satisfies every clause.
func (e Expr) Match(doc Document) bool {
	for _, c := range e.clauses {
		if c.match(doc) == c.negate {
			return false
		}
	}
	return true
}

func (c clause) match(doc Document) bool {
	switch c.kind {
	case clauseTag:
		return doc.HasTag(c.value)
	case clausePath:
		rel := strings.ToLower(doc.Rel)
		folder := strings.Trim(strings.ToLower(c.value), "/")
		return rel == folder || strings.HasPrefix(rel, folder+"/")
	case clauseProperty:
		for _, v := range doc.Values(c.key) {
			if strings.EqualFold(strings.TrimSpace(v), c.value) {
				return true
			}
		}
		return false
	default:
		value := strings.ToLower(c.value)
		return strings.Contains(strings.ToLower(doc.Name), value) ||
			strings.Contains(strings.ToLower(doc.Rel), value)
	}
}

type token struct {
	text string
	// literal is set when the token opened with a quote, which keeps a
	// colon inside it from being read as an operator.
	literal bool
}

func tokenize(s string) ([]token, error) {
	var (
		tokens  []token
		current strings.Builder
		inQuote bool
		literal bool
		started bool
	)

	flush := func() {
		if started {
			tokens = append(tokens, token{text: current.String(), literal: literal})
		}
		current.Reset()
		literal, started = false, false
	}

	for _, r := range s {
		switch {
		case r == '"':
			if !started {
				literal = true
			}
			inQuote = !inQuote
			started = true
		case unicode.IsSpace(r) && !inQuote:
			flush()
		default:
			current.WriteRune(r)
			started = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("%w: unbalanced quote", ErrInvalidExpression)
	}
	flush()
	return tokens, nil
}

func parseClause(tok token) (clause, error) {
	text := tok.text
	negate := false
	if strings.HasPrefix(text, "-") && len(text) > 1 {
		negate = true
		text = text[1:]
	}

	key, value, found := strings.Cut(text, ":")
	if !found || tok.literal {
		if strings.TrimSpace(text) == "" {
			return clause{}, fmt.Errorf("%w: empty term", ErrInvalidExpression)
		}
		return clause{kind: clauseText, value: text, negate: negate}, nil
	}

	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" {
		return clause{}, fmt.Errorf("%w: missing field before %q", ErrInvalidExpression, ":"+value)
	}
	if value == "" {
		return clause{}, fmt.Errorf("%w: %s: needs a value", ErrInvalidExpression, key)
	}

	switch strings.ToLower(key) {
	case "tag":
		return clause{kind: clauseTag, value: normalizeTag(value), negate: negate}, nil
	case "path":
		return clause{kind: clausePath, value: value, negate: negate}, nil
	default:
		return clause{kind: clauseProperty, key: key, value: value, negate: negate}, nil
	}
}
