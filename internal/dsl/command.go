package dsl

import "strconv"

func parseCommand(washed string) (*Command, *ParseError) {
	s := newScanner(washed)
	if !s.skip('/') {
		return nil, &ParseError{Kind: UnexpectedChar, Position: 0}
	}
	s.skipInlineSpaces()
	if s.eos() {
		return &Command{Kind: Help}, nil
	}

	word, _ := s.skipWhile(isAsciiGraphic)
	switch word {
	case "u":
		return parseUserCommand(s)
	case "s":
		s.skipInlineSpaces()
		rest := string(s.runes[s.pos:])
		conds, perr := ParseConditions(rest)
		if perr != nil {
			return nil, perr
		}
		return &Command{Kind: Search, Condition: conds}, nil
	case "tutorial":
		return &Command{Kind: Tutorial}, nil
	case "coffee":
		return &Command{Kind: Coffee}, nil
	default:
		return nil, &ParseError{Kind: UnexpectedChar, Position: 1}
	}
}

func parseUserCommand(s *scanner) (*Command, *ParseError) {
	s.skipInlineSpaces()
	if s.eos() {
		return &Command{Kind: User, User: &ReqUser{Kind: UserInfo}}, nil
	}
	if !s.skip('-') {
		return nil, &ParseError{Kind: UnexpectedChar, Position: s.save()}
	}
	flag, ok := s.next()
	if !ok {
		return nil, &ParseError{Kind: UnexpectedChar, Position: s.save()}
	}

	switch flag {
	case 'e':
		s.skipSpaces1()
		email, ok := s.skipWhile(isAsciiGraphic)
		if !ok {
			return nil, &ParseError{Kind: UnexpectedChar, Position: s.save()}
		}
		return &Command{Kind: User, User: &ReqUser{Kind: UserSetEmail, Email: email}}, nil

	case 'p':
		var tokens [3]string
		for i := 0; i < 3; i++ {
			if !s.skipSpaces1() {
				return nil, &ParseError{Kind: UnexpectedChar, Position: s.save()}
			}
			t, ok := s.graphics1()
			if !ok {
				return nil, &ParseError{Kind: UnexpectedChar, Position: s.save()}
			}
			tokens[i] = t
		}
		return &Command{Kind: User, User: &ReqUser{
			Kind: UserSetPassword,
			Password: PasswordSet{
				Old:     tokens[0],
				New:     tokens[1],
				Confirm: tokens[2],
			},
		}}, nil

	case 'n':
		s.skipSpaces1()
		name, ok := s.graphics1()
		if !ok {
			return nil, &ParseError{Kind: UnexpectedChar, Position: s.save()}
		}
		return &Command{Kind: User, User: &ReqUser{Kind: UserSetName, Name: name}}, nil

	case 't':
		s.skipSpaces1()
		ts, ok := s.graphics1()
		if !ok {
			return nil, &ParseError{Kind: UnexpectedChar, Position: s.save()}
		}
		return &Command{Kind: User, User: &ReqUser{Kind: UserSetTimescale, Timescale: ts}}, nil

	case 'a':
		var specs []AllocationSpec
		for {
			if !s.skipSpaces1() {
				break
			}
			if s.eos() {
				break
			}
			spec, ok, perr := parseAllocationSpec(s)
			if perr != nil {
				return nil, perr
			}
			if !ok {
				return nil, &ParseError{Kind: UnexpectedChar, Position: s.save()}
			}
			specs = append(specs, spec)
		}
		if len(specs) == 0 {
			return nil, &ParseError{Kind: UnexpectedChar, Position: s.save()}
		}
		return &Command{Kind: User, User: &ReqUser{Kind: UserSetAllocations, Allocations: specs}}, nil

	default:
		return nil, &ParseError{Kind: UnexpectedChar, Position: s.save()}
	}
}

// parseAllocationSpec matches "H:M-Ih": open hour, open minute, duration
// hours.
func parseAllocationSpec(s *scanner) (AllocationSpec, bool, *ParseError) {
	mark := s.save()

	hText, _ := s.skipWhile(isDigit)
	if !s.skip(':') {
		s.restore(mark)
		return AllocationSpec{}, false, nil
	}
	mText, _ := s.skipWhile(isDigit)
	if !s.skip('-') {
		s.restore(mark)
		return AllocationSpec{}, false, nil
	}
	iText, _ := s.skipWhile(isDigit)
	if !s.skip('h') {
		s.restore(mark)
		return AllocationSpec{}, false, nil
	}

	h, err1 := strconv.Atoi(hText)
	m, err2 := strconv.Atoi(mText)
	i, err3 := strconv.Atoi(iText)
	if err1 != nil || err2 != nil || err3 != nil {
		return AllocationSpec{}, false, &ParseError{Kind: BadNumber, Position: mark}
	}

	spec := AllocationSpec{OpenHour: h, OpenMinute: m, Hours: i}
	if !spec.Valid() {
		return AllocationSpec{}, false, &ParseError{Kind: BadNumber, Position: mark}
	}
	return spec, true, nil
}
