package pathmatch

import (
	"regexp"
	"strings"
)

// Screen hints passed to the identity provider's authorization page.
const (
	ScreenHintSignIn = "sign-in"
	ScreenHintSignUp = "sign-up"
)

// Matcher tests request pathnames against one compiled path template.
// Matching is anchored, case-insensitive and tolerates a trailing slash.
type Matcher struct {
	pattern string
	re      *regexp.Regexp
}

// Compile parses a path template such as "/users/:id", "/docs/:path*",
// "/files/(\\d+)" or "/public/*". Parse failures are returned as
// *RouteConfigError.
func Compile(pattern string) (*Matcher, error) {
	tokens, err := lex(pattern)
	if err != nil {
		return nil, &RouteConfigError{Pattern: pattern, Cause: err}
	}

	parts, err := parse(tokens)
	if err != nil {
		return nil, &RouteConfigError{Pattern: pattern, Cause: err}
	}

	re, err := regexp.Compile(toRegexp(parts))
	if err != nil {
		return nil, &RouteConfigError{Pattern: pattern, Cause: err}
	}

	return &Matcher{pattern: pattern, re: re}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern string) *Matcher {
	m, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return m
}

// Match reports whether pathname matches the template.
func (m *Matcher) Match(pathname string) bool {
	return m.re.MatchString(pathname)
}

// Pattern returns the source template.
func (m *Matcher) Pattern() string {
	return m.pattern
}

func toRegexp(parts []part) string {
	var b strings.Builder
	b.WriteString("(?i)^")

	for _, p := range parts {
		if !p.isParam {
			b.WriteString(regexp.QuoteMeta(p.literal))
			continue
		}

		prefix := regexp.QuoteMeta(p.prefix)
		suffix := regexp.QuoteMeta(p.suffix)
		repeated := p.modifier == "+" || p.modifier == "*"

		switch {
		case p.pattern == "":
			b.WriteString("(?:" + prefix + suffix + ")" + p.modifier)
		case prefix != "" || suffix != "":
			if repeated {
				mod := ""
				if p.modifier == "*" {
					mod = "?"
				}
				b.WriteString("(?:" + prefix + "((?:" + p.pattern + ")(?:" + suffix + prefix + "(?:" + p.pattern + "))*)" + suffix + ")" + mod)
			} else {
				b.WriteString("(?:" + prefix + "(" + p.pattern + ")" + suffix + ")" + p.modifier)
			}
		case repeated:
			b.WriteString("((?:" + p.pattern + ")" + p.modifier + ")")
		default:
			b.WriteString("(" + p.pattern + ")" + p.modifier)
		}
	}

	b.WriteString("/?$")
	return b.String()
}

// Set is an ordered list of matchers.
type Set []*Matcher

// CompileAll compiles every template, stopping at the first failure.
func CompileAll(patterns []string) (Set, error) {
	set := make(Set, 0, len(patterns))
	for _, p := range patterns {
		m, err := Compile(p)
		if err != nil {
			return nil, err
		}
		set = append(set, m)
	}
	return set, nil
}

// Match reports whether any matcher in the set matches pathname.
func (s Set) Match(pathname string) bool {
	for _, m := range s {
		if m.Match(pathname) {
			return true
		}
	}
	return false
}

// Patterns returns the source templates in order.
func (s Set) Patterns() []string {
	out := make([]string, len(s))
	for i, m := range s {
		out[i] = m.pattern
	}
	return out
}

// ScreenHint picks the authorization screen for pathname: sign-up when it
// matches any sign-up template, sign-in otherwise.
func ScreenHint(signUp Set, pathname string) string {
	if signUp.Match(pathname) {
		return ScreenHintSignUp
	}
	return ScreenHintSignIn
}
