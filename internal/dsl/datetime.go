package dsl

import (
	"strconv"

	"github.com/satu-n/sprig/internal/timeutil"
)

func parseOptionalInt(s *scanner) *int {
	text, ok := s.skipWhile(isDigit)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return nil
	}
	return &n
}

// parseDate matches DATE := [Y] '/' [M] '/' [D]; both slashes are
// mandatory, the digits around them are not.
func parseDate(s *scanner) (*timeutil.PartialDate, bool) {
	mark := s.save()
	y := parseOptionalInt(s)
	if !s.skip('/') {
		s.restore(mark)
		return nil, false
	}
	m := parseOptionalInt(s)
	if !s.skip('/') {
		s.restore(mark)
		return nil, false
	}
	d := parseOptionalInt(s)
	return &timeutil.PartialDate{Y: y, M: m, D: d}, true
}

// parseTime matches TIME := [H] ':' [M]; the colon is mandatory.
func parseTime(s *scanner) (*timeutil.PartialTime, bool) {
	mark := s.save()
	h := parseOptionalInt(s)
	if !s.skip(':') {
		s.restore(mark)
		return nil, false
	}
	m := parseOptionalInt(s)
	return &timeutil.PartialTime{H: h, Mi: m}, true
}

// parseDatetime matches DT := DATE 'T' TIME | DATE | TIME, trying the
// alternatives strictly in that order since DATE can greedily consume
// digits that TIME would otherwise need.
func parseDatetime(s *scanner) (*timeutil.PartialDateTime, bool) {
	mark := s.save()

	if date, ok := parseDate(s); ok {
		afterDate := s.save()
		if s.skip('T') {
			if tm, ok2 := parseTime(s); ok2 {
				return &timeutil.PartialDateTime{Date: date, Time: tm}, true
			}
		}
		s.restore(afterDate)
		return &timeutil.PartialDateTime{Date: date}, true
	}

	s.restore(mark)
	if tm, ok := parseTime(s); ok {
		return &timeutil.PartialDateTime{Time: tm}, true
	}

	s.restore(mark)
	return nil, false
}
