package pathmatch

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokChar tokenKind = iota
	tokEscaped
	tokName
	tokPattern
	tokModifier
	tokOpen
	tokClose
	tokEnd
)

func (k tokenKind) String() string {
	switch k {
	case tokChar:
		return "character"
	case tokEscaped:
		return "escaped character"
	case tokName:
		return "parameter name"
	case tokPattern:
		return "pattern"
	case tokModifier:
		return "modifier"
	case tokOpen:
		return "'{'"
	case tokClose:
		return "'}'"
	default:
		return "end"
	}
}

type token struct {
	kind  tokenKind
	index int
	value string
}

// wildcardPattern is what a bare '*' expands to.
const wildcardPattern = ".*"

func isNameChar(c byte) bool {
	return c == '_' ||
		(c >= '0' && c <= '9') ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z')
}

// lex splits a path template into tokens. A '*' that does not follow a
// parameter, pattern or group is a wildcard matching any remainder.
func lex(s string) ([]token, error) {
	var tokens []token
	prevQuantifiable := false

	for i := 0; i < len(s); {
		c := s[i]

		switch c {
		case '*', '+', '?':
			if c == '*' && !prevQuantifiable {
				tokens = append(tokens, token{kind: tokPattern, index: i, value: wildcardPattern})
				prevQuantifiable = false
				i++
				continue
			}
			tokens = append(tokens, token{kind: tokModifier, index: i, value: string(c)})
			prevQuantifiable = false
			i++

		case '\\':
			if i+1 >= len(s) {
				return nil, fmt.Errorf("dangling escape at %d", i)
			}
			tokens = append(tokens, token{kind: tokEscaped, index: i, value: s[i+1 : i+2]})
			prevQuantifiable = false
			i += 2

		case '{':
			tokens = append(tokens, token{kind: tokOpen, index: i, value: "{"})
			prevQuantifiable = false
			i++

		case '}':
			tokens = append(tokens, token{kind: tokClose, index: i, value: "}"})
			prevQuantifiable = true
			i++

		case ':':
			j := i + 1
			for j < len(s) && isNameChar(s[j]) {
				j++
			}
			if j == i+1 {
				return nil, fmt.Errorf("missing parameter name at %d", i)
			}
			tokens = append(tokens, token{kind: tokName, index: i, value: s[i+1 : j]})
			prevQuantifiable = true
			i = j

		case '(':
			pattern, next, err := lexPattern(s, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokPattern, index: i, value: pattern})
			prevQuantifiable = true
			i = next

		default:
			tokens = append(tokens, token{kind: tokChar, index: i, value: string(c)})
			prevQuantifiable = false
			i++
		}
	}

	tokens = append(tokens, token{kind: tokEnd, index: len(s)})
	return tokens, nil
}

// lexPattern reads a parenthesised custom pattern starting at s[start] == '('.
// It returns the inner pattern and the index after the closing parenthesis.
func lexPattern(s string, start int) (string, int, error) {
	depth := 1
	j := start + 1
	var b strings.Builder

	if j < len(s) && s[j] == '?' {
		return "", 0, fmt.Errorf("pattern cannot start with \"?\" at %d", j)
	}

	for j < len(s) {
		c := s[j]
		if c == '\\' {
			if j+1 >= len(s) {
				break
			}
			b.WriteByte(c)
			b.WriteByte(s[j+1])
			j += 2
			continue
		}
		if c == ')' {
			depth--
			if depth == 0 {
				j++
				break
			}
		} else if c == '(' {
			depth++
			if j+1 >= len(s) || s[j+1] != '?' {
				return "", 0, fmt.Errorf("capturing groups are not allowed at %d", j)
			}
		}
		b.WriteByte(c)
		j++
	}

	if depth != 0 {
		return "", 0, fmt.Errorf("unbalanced pattern at %d", start)
	}
	if b.Len() == 0 {
		return "", 0, fmt.Errorf("missing pattern at %d", start)
	}

	return b.String(), j, nil
}
