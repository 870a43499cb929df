// Package dsl implements the task-DSL lexer/parser: text in, a Request
// value out. It never touches the graph, the repository or time zones
// beyond constructing timeutil.PartialDateTime values — completion and
// globalization are internal/timeutil's job.
package dsl

import (
	"fmt"

	"github.com/satu-n/sprig/internal/model"
	"github.com/satu-n/sprig/internal/timeutil"
)

// Request is the total result of a parse: exactly one of Command or
// Tasks is populated (Tasks may legitimately be an empty-but-non-nil
// slice only when Command is set; a TaskBatch always has at least one
// task).
type Request struct {
	Command *Command
	Tasks   []ReqTask
}

// CommandKind discriminates the recognized slash-commands.
type CommandKind int

const (
	Help CommandKind = iota
	User
	Search
	Tutorial
	Coffee
)

// Command is a parsed "/..." request.
type Command struct {
	Kind      CommandKind
	User      *ReqUser
	Condition []model.Condition
}

// ReqUserKind discriminates the "/u" sub-forms.
type ReqUserKind int

const (
	UserInfo ReqUserKind = iota
	UserSetEmail
	UserSetPassword
	UserSetName
	UserSetTimescale
	UserSetAllocations
)

// ReqUser is a parsed "/u ..." request.
type ReqUser struct {
	Kind        ReqUserKind
	Email       string
	Password    PasswordSet
	Name        string
	Timescale   string
	Allocations []AllocationSpec
}

// PasswordSet carries the three tokens of "/u -p <old> <new> <confirm>".
type PasswordSet struct {
	Old     string
	New     string
	Confirm string
}

// AllocationSpec is one "<H:M-Ih>" token of "/u -a ...".
type AllocationSpec struct {
	OpenHour   int
	OpenMinute int
	Hours      int
}

// Valid reports whether the spec falls within spec.md §2's declared
// ranges: a wall-clock open time and a 1..=24 hour duration.
func (a AllocationSpec) Valid() bool {
	return a.OpenHour >= 0 && a.OpenHour <= 23 &&
		a.OpenMinute >= 0 && a.OpenMinute <= 59 &&
		a.Hours >= 1 && a.Hours <= 24
}

// Attribute is one parsed task-line token cluster, pre-graph.
type Attribute struct {
	IsStarred bool
	ID        *int64
	Weight    *float64
	JointHead *string
	JointTail *string
	Assign    *string
	Startable *timeutil.PartialDateTime
	Deadline  *timeutil.PartialDateTime
	Title     string
}

// ReqTask is one parsed task line, pre-graph: indent depth, its merged
// attribute set, and an optional continuation link line.
type ReqTask struct {
	Indent    int
	Attribute Attribute
	Link      *string
}

// ErrorKind classifies a ParseError.
type ErrorKind int

const (
	UnexpectedChar ErrorKind = iota
	EmptyTitle
	UnterminatedQuote
	BadNumber
	BadRegex
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedChar:
		return "UnexpectedChar"
	case EmptyTitle:
		return "EmptyTitle"
	case UnterminatedQuote:
		return "UnterminatedQuote"
	case BadNumber:
		return "BadNumber"
	case BadRegex:
		return "BadRegex"
	default:
		return "Unknown"
	}
}

// ParseError is the one error shape the parser ever returns: total on
// failure, it never panics.
type ParseError struct {
	Kind     ErrorKind
	Position int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at position %d", e.Kind, e.Position)
}
