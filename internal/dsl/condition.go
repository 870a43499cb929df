package dsl

import (
	"strconv"
	"strings"

	"github.com/satu-n/sprig/internal/model"
	"github.com/satu-n/sprig/internal/timeutil"
)

// ParseConditions parses a space-separated run of "/s" condition atoms.
func ParseConditions(input string) ([]model.Condition, *ParseError) {
	s := newScanner(strings.TrimSpace(input))
	var cond model.Condition

	for {
		s.skipInlineSpaces()
		if s.eos() {
			break
		}

		if atom, ok := parseRangeAtom(s); ok {
			if err := applyRangeAtom(&cond, atom); err != nil {
				return nil, err
			}
			continue
		}
		if ok, err := parseBooleanFlags(s, &cond); ok {
			if err != nil {
				return nil, err
			}
			continue
		}
		if ok, err := parseExpressionAtom(s, &cond); ok {
			if err != nil {
				return nil, err
			}
			continue
		}

		return nil, &ParseError{Kind: UnexpectedChar, Position: s.save()}
	}

	return []model.Condition{cond}, nil
}

func isRangeValueChar(r rune) bool {
	return isDigit(r) || r == '.' || r == '/' || r == ':' || r == 'T'
}

func isFieldLetter(r rune) bool {
	switch r {
	case '#', 'w', 's', 'd', 'c', 'u':
		return true
	}
	return false
}

type rangeAtom struct {
	letter rune
	left   string
	right  string
}

// parseRangeAtom matches "L<X<R", "L<X", "X<R" or bare "X" where X is one
// of the field letters and L/R are left as raw text for the caller to
// interpret by field type.
func parseRangeAtom(s *scanner) (rangeAtom, bool) {
	mark := s.save()

	left, _ := s.skipWhile(isRangeValueChar)
	if s.skip('<') {
		if letter, ok := s.peek(); ok && isFieldLetter(letter) {
			s.next()
			right := ""
			if s.skip('<') {
				right, _ = s.skipWhile(isRangeValueChar)
			}
			return rangeAtom{letter: letter, left: left, right: right}, true
		}
	}
	s.restore(mark)

	if letter, ok := s.peek(); ok && isFieldLetter(letter) {
		next, ok2 := s.peekAt(1)
		if !ok2 || next == ' ' {
			s.next()
			return rangeAtom{letter: letter}, true
		}
		if next == '<' {
			s.next()
			s.next()
			right, _ := s.skipWhile(isRangeValueChar)
			return rangeAtom{letter: letter, right: right}, true
		}
	}

	s.restore(mark)
	return rangeAtom{}, false
}

func parseNonNegFloatText(text string) (*float64, bool) {
	if text == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f < 0 {
		return nil, false
	}
	return &f, true
}

func parseDatetimeText(text string) (*timeutil.PartialDateTime, bool) {
	if text == "" {
		return nil, true
	}
	sub := newScanner(text)
	pdt, ok := parseDatetime(sub)
	if !ok || !sub.eos() {
		return nil, false
	}
	return pdt, true
}

func applyRangeAtom(cond *model.Condition, atom rangeAtom) *ParseError {
	switch atom.letter {
	case '#':
		lo, ok1 := parseIntText(atom.left)
		hi, ok2 := parseIntText(atom.right)
		if !ok1 || !ok2 {
			return &ParseError{Kind: BadNumber}
		}
		cond.Context = model.Range[int]{Lo: lo, Hi: hi}
	case 'w':
		lo, ok1 := parseNonNegFloatText(atom.left)
		hi, ok2 := parseNonNegFloatText(atom.right)
		if !ok1 || !ok2 {
			return &ParseError{Kind: BadNumber}
		}
		cond.Weight = model.Range[float64]{Lo: lo, Hi: hi}
	case 's':
		lo, ok1 := parseDatetimeText(atom.left)
		hi, ok2 := parseDatetimeText(atom.right)
		if !ok1 || !ok2 {
			return &ParseError{Kind: BadNumber}
		}
		cond.Startable = model.Range[timeutil.PartialDateTime]{Lo: lo, Hi: hi}
	case 'd':
		lo, ok1 := parseDatetimeText(atom.left)
		hi, ok2 := parseDatetimeText(atom.right)
		if !ok1 || !ok2 {
			return &ParseError{Kind: BadNumber}
		}
		cond.Deadline = model.Range[timeutil.PartialDateTime]{Lo: lo, Hi: hi}
	case 'c':
		lo, ok1 := parseDatetimeText(atom.left)
		hi, ok2 := parseDatetimeText(atom.right)
		if !ok1 || !ok2 {
			return &ParseError{Kind: BadNumber}
		}
		cond.CreatedAt = model.Range[timeutil.PartialDateTime]{Lo: lo, Hi: hi}
	case 'u':
		lo, ok1 := parseDatetimeText(atom.left)
		hi, ok2 := parseDatetimeText(atom.right)
		if !ok1 || !ok2 {
			return &ParseError{Kind: BadNumber}
		}
		cond.UpdatedAt = model.Range[timeutil.PartialDateTime]{Lo: lo, Hi: hi}
	}
	return nil
}

func parseIntText(text string) (*int, bool) {
	if text == "" {
		return nil, true
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return nil, false
	}
	return &n, true
}

func parseBooleanFlags(s *scanner, cond *model.Condition) (bool, *ParseError) {
	mark := s.save()
	if !s.skip('-') {
		return false, nil
	}

	yes, no := true, false
	matchedAny := false
	for {
		negate := s.skip('!')
		r, ok := s.peek()
		if !ok {
			break
		}
		var target **bool
		switch r {
		case 'a':
			target = &cond.Archived
		case 's':
			target = &cond.Starred
		case 'l':
			target = &cond.Leaf
		case 'r':
			target = &cond.Root
		default:
			if negate {
				s.restore(mark)
				return false, nil
			}
		}
		if target == nil {
			break
		}
		s.next()
		matchedAny = true
		if negate {
			*target = &no
		} else {
			*target = &yes
		}
	}

	if !matchedAny {
		s.restore(mark)
		return false, nil
	}
	return true, nil
}

func parseExpressionAtom(s *scanner, cond *model.Condition) (bool, *ParseError) {
	mark := s.save()

	var target **model.Expression
	switch {
	case s.skip('@'):
		target = &cond.Assign
	case s.skip('&'):
		target = &cond.Link
	default:
		target = &cond.Title
	}

	expr, ok, perr := parseExpressionValue(s)
	if perr != nil {
		return true, perr
	}
	if !ok {
		s.restore(mark)
		return false, nil
	}
	*target = expr
	return true, nil
}

func parseExpressionValue(s *scanner) (*model.Expression, bool, *ParseError) {
	mark := s.save()
	isRegex := s.skip('r')

	content, ok, perr := parseQuoted(s)
	if perr != nil {
		return nil, false, perr
	}
	if !ok {
		s.restore(mark)
		return nil, false, nil
	}
	if isRegex {
		return &model.Expression{Kind: model.Regex, Src: content}, true, nil
	}
	return &model.Expression{Kind: model.Words, List: strings.Fields(content)}, true, nil
}
