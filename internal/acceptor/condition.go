package acceptor

import (
	"regexp"
	"strings"

	"github.com/satu-n/sprig/internal/apperr"
	"github.com/satu-n/sprig/internal/model"
)

// maxRegexLen bounds regex source size; a longer pattern is rejected as
// "regex too large".
const maxRegexLen = 256

// CompiledExpression is a title/assign/link expression ready to match:
// either a word list or a compiled regexp, never both.
type CompiledExpression struct {
	Words []string
	Regex *regexp.Regexp
}

// CompileExpression compiles e, if present. Regex compilation happens
// here so it runs exactly once per request, not once per task scanned.
func CompileExpression(e *model.Expression) (*CompiledExpression, error) {
	if e == nil {
		return nil, nil
	}
	if e.Kind == model.Words {
		return &CompiledExpression{Words: e.List}, nil
	}
	if len(e.Src) > maxRegexLen {
		return nil, apperr.NewBadRequest("regex too large")
	}
	re, err := regexp.Compile(e.Src)
	if err != nil {
		return nil, apperr.NewBadRequest("invalid regex: %v", err)
	}
	return &CompiledExpression{Regex: re}, nil
}

// CompiledCondition is a Condition with its three expressions compiled.
type CompiledCondition struct {
	model.Condition
	Title  *CompiledExpression
	Assign *CompiledExpression
	Link   *CompiledExpression
}

// CompileCondition compiles every expression clause of c once.
func CompileCondition(c model.Condition) (*CompiledCondition, error) {
	title, err := CompileExpression(c.Title)
	if err != nil {
		return nil, err
	}
	assign, err := CompileExpression(c.Assign)
	if err != nil {
		return nil, err
	}
	link, err := CompileExpression(c.Link)
	if err != nil {
		return nil, err
	}
	return &CompiledCondition{Condition: c, Title: title, Assign: assign, Link: link}, nil
}

// Match reports whether value satisfies e: a word-list expression
// matches if any of its words occurs, case-insensitively, as a substring
// of value; a regex expression matches if the pattern matches anywhere in
// value.
func (e *CompiledExpression) Match(value string) bool {
	if e == nil {
		return true
	}
	if e.Regex != nil {
		return e.Regex.MatchString(value)
	}
	for _, w := range e.Words {
		if strings.Contains(strings.ToLower(value), strings.ToLower(w)) {
			return true
		}
	}
	return false
}
