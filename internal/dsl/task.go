package dsl

import (
	"strconv"
	"strings"

	"github.com/satu-n/sprig/internal/timeutil"
)

// ParseTaskBatch parses the washed body of a TaskBatch request: one or
// more task lines, each taking its link from an "http(s)://" token on the
// line itself or from a same-indent link line that follows it.
func ParseTaskBatch(washed string) ([]ReqTask, *ParseError) {
	lines := strings.Split(washed, "\n")
	var tasks []ReqTask

	i := 0
	for i < len(lines) {
		line := strings.TrimRight(lines[i], "\r")
		if strings.TrimSpace(line) == "" {
			i++
			continue
		}

		sc := newScanner(line)
		indent, perr := parseIndent(sc)
		if perr != nil {
			return nil, perr
		}
		attr, link, perr := parseAttributes1(sc)
		if perr != nil {
			return nil, perr
		}
		sc.skipInlineSpaces()
		if !sc.eos() {
			return nil, &ParseError{Kind: UnexpectedChar, Position: sc.save()}
		}

		task := ReqTask{Indent: indent, Attribute: *attr, Link: link}

		if i+1 < len(lines) {
			nextLine := strings.TrimRight(lines[i+1], "\r")
			nsc := newScanner(nextLine)
			if nIndent, nerr := parseIndent(nsc); nerr == nil && nIndent == indent {
				if link, ok := parseLink(nsc); ok {
					nsc.skipInlineSpaces()
					if nsc.eos() {
						l := link
						task.Link = &l
						i++
					}
				}
			}
		}

		tasks = append(tasks, task)
		i++
	}

	if len(tasks) == 0 {
		return nil, &ParseError{Kind: EmptyTitle}
	}
	return tasks, nil
}

// parseIndent counts indent units (a tab, or exactly four spaces) at the
// front of the line; a leftover 1-3 space run that doesn't fill a unit
// is rejected.
func parseIndent(s *scanner) (int, *ParseError) {
	units := 0
	for {
		if s.skip('\t') {
			units++
			continue
		}
		mark := s.save()
		if s.skipString("    ") {
			units++
			continue
		}
		s.restore(mark)
		break
	}
	if r, ok := s.peek(); ok && r == ' ' {
		return 0, &ParseError{Kind: UnexpectedChar, Position: s.save()}
	}
	return units, nil
}

func parseLink(s *scanner) (string, bool) {
	mark := s.save()
	if !s.skipString("https://") {
		s.restore(mark)
		if !s.skipString("http://") {
			s.restore(mark)
			return "", false
		}
	}
	s.skipWhile(isGraphic)
	return string(s.runes[mark:s.pos]), true
}

func isAsciiGraphic(r rune) bool {
	return r > 0x20 && r < 0x7f
}

func isGraphicNoBrackets(r rune) bool {
	return isGraphic(r) && r != '[' && r != ']'
}

// atBoundary reports whether the cursor sits at a token boundary: end of
// line or a space. Structured attribute tokens must end here or they are
// not structured after all — just part of a longer title fragment.
func atBoundary(s *scanner) bool {
	r, ok := s.peek()
	return !ok || r == ' '
}

func parseNonNegFloatRaw(s *scanner) (string, bool) {
	mark := s.save()
	intPart, hasInt := s.skipWhile(isDigit)
	hasDot := s.skip('.')
	fracPart, hasFrac := s.skipWhile(isDigit)
	if !hasInt && !hasDot {
		s.restore(mark)
		return "", false
	}
	if hasDot && !hasInt && !hasFrac {
		// a bare "." with no digits on either side is not a number
		s.restore(mark)
		return "", false
	}
	text := intPart
	if hasDot {
		text += "." + fracPart
	}
	return text, true
}

func parseStarredAttr(s *scanner) bool {
	mark := s.save()
	if s.skip('*') && atBoundary(s) {
		return true
	}
	s.restore(mark)
	return false
}

func parseIDAttr(s *scanner) (*int64, bool) {
	mark := s.save()
	if s.skip('#') {
		if text, ok := s.skipWhile(isDigit); ok && atBoundary(s) {
			n, err := strconv.ParseInt(text, 10, 64)
			if err == nil {
				return &n, true
			}
		}
	}
	s.restore(mark)
	return nil, false
}

func parseWeightAttr(s *scanner) (*float64, bool) {
	mark := s.save()
	if s.skip('$') {
		if text, ok := parseNonNegFloatRaw(s); ok && atBoundary(s) {
			f, err := strconv.ParseFloat(text, 64)
			if err == nil {
				return &f, true
			}
		}
	}
	s.restore(mark)
	return nil, false
}

func parseAssignAttr(s *scanner) (*string, bool) {
	mark := s.save()
	if s.skip('@') {
		if text, ok := s.skipWhile(isAsciiGraphic); ok && atBoundary(s) {
			return &text, true
		}
	}
	s.restore(mark)
	return nil, false
}

func parseDeadlineAttr(s *scanner) (*timeutil.PartialDateTime, bool) {
	mark := s.save()
	if s.skip('-') {
		if pdt, ok := parseDatetime(s); ok && atBoundary(s) {
			return pdt, true
		}
	}
	s.restore(mark)
	return nil, false
}

func parseStartableAttr(s *scanner) (*timeutil.PartialDateTime, bool) {
	mark := s.save()
	if pdt, ok := parseDatetime(s); ok {
		if s.skip('-') && atBoundary(s) {
			return pdt, true
		}
	}
	s.restore(mark)
	return nil, false
}

func parseJointTailAttr(s *scanner) (*string, bool) {
	mark := s.save()
	if s.skip('[') {
		if text, ok := s.skipWhile(isGraphicNoBrackets); ok && atBoundary(s) {
			return &text, true
		}
	}
	s.restore(mark)
	return nil, false
}

func parseJointHeadAttr(s *scanner) (*string, bool) {
	mark := s.save()
	if text, ok := s.skipWhile(isGraphicNoBrackets); ok {
		if s.skip(']') && atBoundary(s) {
			return &text, true
		}
	}
	s.restore(mark)
	return nil, false
}

// parseAttributes1 consumes one-or-more space-separated attribute tokens,
// trying every structured form before falling back to a title fragment.
// An "http://" or "https://" token is returned separately as the link.
func parseAttributes1(s *scanner) (*Attribute, *string, *ParseError) {
	var attr Attribute
	var link *string
	var titleFragments []string

	first := true
	for {
		if !first {
			if !s.skipSpaces1() {
				break
			}
		}
		first = false
		if s.eos() {
			break
		}

		switch {
		case parseStarredAttr(s):
			attr.IsStarred = true
		default:
			if id, ok := parseIDAttr(s); ok {
				attr.ID = id
			} else if w, ok := parseWeightAttr(s); ok {
				attr.Weight = w
			} else if a, ok := parseAssignAttr(s); ok {
				attr.Assign = a
			} else if dl, ok := parseDeadlineAttr(s); ok {
				attr.Deadline = dl
			} else if jt, ok := parseJointTailAttr(s); ok {
				attr.JointTail = jt
			} else if jh, ok := parseJointHeadAttr(s); ok {
				attr.JointHead = jh
			} else if sa, ok := parseStartableAttr(s); ok {
				attr.Startable = sa
			} else if l, ok := parseLink(s); ok {
				link = &l
			} else if frag, ok := s.graphics1(); ok {
				titleFragments = append(titleFragments, frag)
			} else {
				return nil, nil, &ParseError{Kind: UnexpectedChar, Position: s.save()}
			}
		}

		peeked, ok := s.peek()
		if !ok || peeked != ' ' {
			break
		}
	}

	attr.Title = strings.Join(titleFragments, " ")
	if attr.Title == "" {
		return nil, nil, &ParseError{Kind: EmptyTitle, Position: s.save()}
	}
	return &attr, link, nil
}
