package dsl

import "strings"

// parseQuoted matches a raw-delimited string at increasing hash depth
// 0..=4: d hash chars, a quote, lazily-matched text, a quote, d hash
// chars. The first depth whose opening matches wins; if its closing
// delimiter is never found, the atom fails outright (mismatched trailing
// hashes never fall through to a deeper depth).
func parseQuoted(s *scanner) (string, bool, *ParseError) {
	for d := 0; d <= 4; d++ {
		mark := s.save()
		hashes := strings.Repeat("#", d)
		if !s.skipString(hashes) {
			s.restore(mark)
			continue
		}
		if !s.skip('"') {
			s.restore(mark)
			continue
		}
		closing := "\"" + hashes
		contentStart := s.save()
		idx := indexFrom(s.runes, contentStart, closing)
		if idx == -1 {
			return "", false, &ParseError{Kind: UnterminatedQuote, Position: mark}
		}
		content := string(s.runes[contentStart:idx])
		s.pos = idx + len([]rune(closing))
		return content, true, nil
	}
	return "", false, nil
}
