package parsing

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	lineBreak      = "\n"
	paragraphBreak = "\n\n"
)

var (
	spaceRunPattern     = regexp.MustCompile(` {2,}`)
	blankRunPattern     = regexp.MustCompile(`\n{3,}`)
	numberedItemPattern = regexp.MustCompile(`^\d+[.)]\s`)
	bulletMarkers       = []string{"-", "*", "•", "▪", "◦"}
)

// Normalize rejoins line-wrapped paragraphs while keeping deliberate breaks
// (headers, bullets, numbered items, lines after a colon, paragraph gaps).
// It never fails; empty or whitespace-only input yields "".
func (p *Parser) Normalize(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	text := norm.NFKC.String(raw)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = collapseSpaces(text)

	var tokens []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		last := ""
		if len(tokens) > 0 {
			last = tokens[len(tokens)-1]
		}
		atBreak := len(tokens) == 0 || last == lineBreak || last == paragraphBreak

		switch {
		case line == "":
			if !atBreak {
				tokens = append(tokens, paragraphBreak)
			}
		case p.isHeaderLine(line):
			if !atBreak {
				tokens = append(tokens, lineBreak)
			}
			tokens = append(tokens, line)
		case atBreak:
			tokens = append(tokens, line)
		case startsListItem(line) || strings.HasSuffix(last, ":") || p.isHeaderLine(last):
			tokens = append(tokens, lineBreak, line)
		default:
			tokens = append(tokens, " ", line)
		}
	}

	out := collapseSpaces(strings.Join(tokens, ""))
	out = blankRunPattern.ReplaceAllString(out, paragraphBreak)
	return strings.TrimSpace(out)
}

func (p *Parser) isHeaderLine(line string) bool {
	_, ok := p.taxonomy.HeaderName(line)
	return ok
}

func collapseSpaces(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	return spaceRunPattern.ReplaceAllString(s, " ")
}

func startsListItem(line string) bool {
	for _, marker := range bulletMarkers {
		if strings.HasPrefix(line, marker) {
			return true
		}
	}
	return numberedItemPattern.MatchString(line)
}
