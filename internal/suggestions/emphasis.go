package suggestions

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const boldMarker = "**"

var boldSpanPattern = regexp.MustCompile(`\*\*(.+?)\*\*`)

// trailingPunctuation stays outside a closing bold marker.
const trailingPunctuation = ",.;:!?)"

type wordSpan struct {
	start int
	end   int
}

type wordRange struct {
	first int
	last  int
}

// StripBold removes well-formed bold markers, keeping their contents.
func StripBold(s string) string {
	return boldSpanPattern.ReplaceAllString(s, "$1")
}

// ApplyBoldingPattern transplants the bold words of annotated onto rewritten by
// word position. Bullet markers are ignored when counting words, bold already in
// rewritten is kept, and the original spacing of rewritten is preserved. Positions
// beyond the shorter of the two word sequences are ignored. When annotated carries
// no bold, rewritten is returned unchanged.
func ApplyBoldingPattern(annotated, rewritten string) string {
	_, annWords, annRanges := analyzeBold(annotated)
	if len(annRanges) == 0 {
		return rewritten
	}
	plain, words, ownRanges := analyzeBold(rewritten)
	if len(words) == 0 {
		return rewritten
	}

	bold := make([]bool, len(words))
	for _, r := range ownRanges {
		for i := r.first; i <= r.last && i < len(words); i++ {
			bold[i] = true
		}
	}
	limit := min(len(annWords), len(words))
	for _, r := range annRanges {
		for i := r.first; i <= r.last && i < limit; i++ {
			bold[i] = true
		}
	}

	var b strings.Builder
	cursor := 0
	for i := 0; i < len(words); {
		if !bold[i] {
			i++
			continue
		}
		j := i
		for j+1 < len(words) && bold[j+1] {
			j++
		}
		start, end := words[i].start, trimPunctuation(plain, words[i].start, words[j].end)
		b.WriteString(plain[cursor:start])
		b.WriteString(boldMarker)
		b.WriteString(plain[start:end])
		b.WriteString(boldMarker)
		cursor = end
		i = j + 1
	}
	b.WriteString(plain[cursor:])
	return b.String()
}

// analyzeBold strips bold markers from s and reports the content words of the
// plain text (a leading bullet excluded) plus which of those words were bold.
func analyzeBold(s string) (string, []wordSpan, []wordRange) {
	type byteRange struct{ start, end int }

	var b strings.Builder
	var spans []byteRange
	last := 0
	for _, m := range boldSpanPattern.FindAllStringSubmatchIndex(s, -1) {
		b.WriteString(s[last:m[0]])
		inner := s[m[2]:m[3]]
		lead := len(inner) - len(strings.TrimLeftFunc(inner, unicode.IsSpace))
		trimmed := strings.TrimSpace(inner)
		start := b.Len() + lead
		b.WriteString(inner)
		if trimmed != "" {
			spans = append(spans, byteRange{start: start, end: start + len(trimmed)})
		}
		last = m[1]
	}
	b.WriteString(s[last:])
	plain := b.String()

	words := contentWords(plain)
	var ranges []wordRange
	for _, sp := range spans {
		first, lastWord := -1, -1
		for i, w := range words {
			if w.end > sp.start && w.start < sp.end {
				if first < 0 {
					first = i
				}
				lastWord = i
			}
		}
		if first >= 0 {
			ranges = append(ranges, wordRange{first: first, last: lastWord})
		}
	}
	return plain, words, ranges
}

func contentWords(s string) []wordSpan {
	var words []wordSpan
	start := -1
	for i, r := range s {
		if unicode.IsSpace(r) {
			if start >= 0 {
				words = append(words, wordSpan{start: start, end: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		words = append(words, wordSpan{start: start, end: len(s)})
	}
	if len(words) > 0 && isBulletToken(s[words[0].start:words[0].end]) {
		words = words[1:]
	}
	return words
}

func isBulletToken(tok string) bool {
	switch tok {
	case "-", "*", "•", "▪", "◦", "–":
		return true
	}
	return false
}

func trimPunctuation(s string, start, end int) int {
	trimmed := end
	for trimmed > start {
		r, size := utf8.DecodeLastRuneInString(s[start:trimmed])
		if !strings.ContainsRune(trailingPunctuation, r) {
			break
		}
		trimmed -= size
	}
	if trimmed == start {
		return end
	}
	return trimmed
}

// stripBullet removes a leading list marker and surrounding whitespace.
func stripBullet(s string) string {
	s = strings.TrimSpace(s)
	if tok, rest, ok := strings.Cut(s, " "); ok && isBulletToken(tok) {
		return strings.TrimSpace(rest)
	}
	return s
}
