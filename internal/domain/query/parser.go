package query

import "strings"

// Structural characters of the query syntax. ':' and '-' are interpreted by Normalize.
const (
	separator  = ','
	groupOpen  = '['
	groupClose = ']'
)

// scanner walks the raw query and yields whitespace-trimmed, non-empty tokens.
type scanner struct {
	src string
	pos int
}

func (s *scanner) next() (string, bool) {
	for s.pos < len(s.src) {
		start := s.pos
		end := strings.IndexByte(s.src[start:], separator)
		if end < 0 {
			s.pos = len(s.src)
			end = len(s.src)
		} else {
			end += start
			s.pos = end + 1
		}
		if tok := strings.TrimSpace(s.src[start:end]); tok != "" {
			return tok, true
		}
	}
	return "", false
}

// Parse turns a raw query string into a Query.
//
// Tokens are separated by ','. A token starting with '[' opens an OR-group and a
// token ending with ']' closes it; everything in between becomes group members.
// Outside a group a stray ']' is a literal character of the tag name, inside a
// group a '[' is. An unterminated group is dropped. Parse never fails.
func Parse(raw string) Query {
	var (
		terms   []Term
		members []Condition
		inGroup bool
	)

	sc := scanner{src: raw}
	for {
		tok, ok := sc.next()
		if !ok {
			break
		}

		if !inGroup {
			if tok[0] != groupOpen {
				terms = append(terms, NewSimple(Normalize(tok)))
				continue
			}
			inGroup = true
			members = nil
			tok = tok[1:]
		}

		closing := strings.HasSuffix(tok, string(groupClose))
		if closing {
			tok = tok[:len(tok)-1]
		}
		if tok = strings.TrimSpace(tok); tok != "" {
			members = append(members, Normalize(tok))
		}
		if closing {
			terms = append(terms, NewGroup(members...))
			inGroup = false
		}
	}

	return New(terms...)
}
