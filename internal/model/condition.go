package model

import "github.com/satu-n/sprig/internal/timeutil"

// Range is an optional [Lo, Hi] bound pair; either side may be absent.
type Range[T any] struct {
	Lo *T
	Hi *T
}

// ExpressionKind distinguishes a word-list match from a regex match.
type ExpressionKind int

const (
	Words ExpressionKind = iota
	Regex
)

// Expression is an uncompiled title/assign/link match clause, as parsed
// from a condition atom. acceptor.CompileExpression turns it into a
// matcher; model itself stays free of regexp state.
type Expression struct {
	Kind ExpressionKind
	List []string // space-separated words, when Kind == Words
	Src  string   // raw pattern text, when Kind == Regex
}

// Condition is a search predicate over tasks: optional numeric/temporal
// ranges, boolean tri-states, and word-list/regex expressions.
type Condition struct {
	Context Range[int]
	Weight  Range[float64]

	Startable Range[timeutil.PartialDateTime]
	Deadline  Range[timeutil.PartialDateTime]
	CreatedAt Range[timeutil.PartialDateTime]
	UpdatedAt Range[timeutil.PartialDateTime]

	Archived *bool
	Starred  *bool
	Leaf     *bool
	Root     *bool

	Title  *Expression
	Assign *Expression
	Link   *Expression
}
