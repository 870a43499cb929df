package dsl

import "strings"

// Parse is the lexer/parser's total public contract: every accepted
// input produces exactly one Request; every rejected input produces a
// structured ParseError. Parse never panics.
func Parse(input string) (Request, *ParseError) {
	washed := wash(input)

	if strings.HasPrefix(washed, "/") {
		cmd, perr := parseCommand(washed)
		if perr != nil {
			return Request{}, perr
		}
		return Request{Command: cmd}, nil
	}

	tasks, perr := ParseTaskBatch(washed)
	if perr != nil {
		return Request{}, perr
	}
	return Request{Tasks: tasks}, nil
}
