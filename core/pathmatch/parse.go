package pathmatch

import "fmt"

// part is either a literal run of text or a parameter.
type part struct {
	literal  string
	isParam  bool
	prefix   string
	suffix   string
	pattern  string
	modifier string
}

// defaultPattern matches a single path segment.
const defaultPattern = `[^/#?]+?`

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) try(kind tokenKind) (string, bool) {
	if p.pos < len(p.tokens) && p.tokens[p.pos].kind == kind {
		v := p.tokens[p.pos].value
		p.pos++
		return v, true
	}
	return "", false
}

func (p *parser) must(kind tokenKind) error {
	if _, ok := p.try(kind); ok {
		return nil
	}
	t := p.tokens[p.pos]
	return fmt.Errorf("unexpected %s at %d, expected %s", t.kind, t.index, kind)
}

// text consumes a run of plain and escaped characters.
func (p *parser) text() string {
	var out string
	for {
		if v, ok := p.try(tokChar); ok {
			out += v
			continue
		}
		if v, ok := p.try(tokEscaped); ok {
			out += v
			continue
		}
		return out
	}
}

// parse turns tokens into literal and parameter parts. A '/' or '.'
// directly before a parameter becomes its prefix so optional and repeated
// parameters swallow their separator.
func parse(tokens []token) ([]part, error) {
	p := &parser{tokens: tokens}
	var parts []part
	path := ""

	flush := func() {
		if path != "" {
			parts = append(parts, part{literal: path})
			path = ""
		}
	}

	for p.pos < len(p.tokens) {
		char, hasChar := p.try(tokChar)
		_, hasName := p.try(tokName)
		pattern, hasPattern := p.try(tokPattern)

		if hasName || hasPattern {
			prefix := char
			if prefix != "/" && prefix != "." {
				path += prefix
				prefix = ""
			}
			flush()

			if !hasPattern {
				pattern = defaultPattern
			}
			modifier, _ := p.try(tokModifier)
			parts = append(parts, part{isParam: true, prefix: prefix, pattern: pattern, modifier: modifier})
			continue
		}

		if hasChar {
			path += char
			continue
		}
		if v, ok := p.try(tokEscaped); ok {
			path += v
			continue
		}

		flush()

		if _, ok := p.try(tokOpen); ok {
			prefix := p.text()
			_, hasName := p.try(tokName)
			pattern, hasPattern := p.try(tokPattern)
			suffix := p.text()
			if err := p.must(tokClose); err != nil {
				return nil, err
			}
			if hasName && !hasPattern {
				pattern = defaultPattern
			}
			modifier, _ := p.try(tokModifier)
			parts = append(parts, part{
				isParam:  true,
				prefix:   prefix,
				suffix:   suffix,
				pattern:  pattern,
				modifier: modifier,
			})
			continue
		}

		if err := p.must(tokEnd); err != nil {
			return nil, err
		}
	}

	return parts, nil
}
