package parsing

import (
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

// Segment splits normalized text into a preamble and named sections in detection
// order. A section seen twice gets the later body appended to the earlier one.
// Text without any recognized header is returned whole as the preamble.
func (p *Parser) Segment(cleaned string) (string, []types.Section) {
	if strings.TrimSpace(cleaned) == "" {
		return "", nil
	}

	var (
		preambleLines []string
		body          []string
		current       string
		secs          []types.Section
	)
	index := make(map[string]int)

	flush := func() {
		if current == "" {
			return
		}
		text := strings.TrimSpace(strings.Join(body, "\n"))
		body = nil
		if text == "" {
			return
		}
		if i, ok := index[current]; ok {
			secs[i].Body = strings.TrimSpace(secs[i].Body + "\n" + text)
			return
		}
		index[current] = len(secs)
		secs = append(secs, types.Section{Name: current, Body: text})
	}

	for _, line := range strings.Split(cleaned, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			if name, ok := p.taxonomy.HeaderName(line); ok {
				flush()
				current = name
				continue
			}
		}
		if current == "" {
			preambleLines = append(preambleLines, line)
		} else {
			body = append(body, line)
		}
	}
	flush()

	if len(secs) == 0 {
		return strings.TrimSpace(cleaned), nil
	}
	return strings.TrimSpace(strings.Join(preambleLines, "\n")), secs
}

// BuildFullText reassembles a document: preamble first, then canonical sections in
// taxonomy order, then any other sections in first-seen order. Empty bodies are
// skipped. With markdownHeaders each section is introduced by "## <Title>".
func (p *Parser) BuildFullText(preamble string, secs []types.Section, markdownHeaders bool) string {
	merged := mergeSections(secs)
	bodies := make(map[string]string, len(merged))
	for _, s := range merged {
		bodies[s.Name] = s.Body
	}

	var blocks []string
	if pre := strings.TrimSpace(preamble); pre != "" {
		blocks = append(blocks, pre)
	}
	addBlock := func(name, body string) {
		if body == "" {
			return
		}
		if markdownHeaders {
			blocks = append(blocks, "## "+p.taxonomy.Title(name)+"\n\n"+body)
			return
		}
		blocks = append(blocks, body)
	}
	for _, name := range p.taxonomy.Order() {
		addBlock(name, bodies[name])
	}
	for _, s := range merged {
		if !p.taxonomy.IsCanonical(s.Name) {
			addBlock(s.Name, s.Body)
		}
	}
	return strings.Join(blocks, "\n\n")
}

// mergeSections trims bodies, drops empty ones, and folds duplicate names into
// their first occurrence.
func mergeSections(secs []types.Section) []types.Section {
	out := make([]types.Section, 0, len(secs))
	index := make(map[string]int, len(secs))
	for _, s := range secs {
		body := strings.TrimSpace(s.Body)
		if body == "" {
			continue
		}
		if i, ok := index[s.Name]; ok {
			out[i].Body = out[i].Body + "\n" + body
			continue
		}
		index[s.Name] = len(out)
		out = append(out, types.Section{Name: s.Name, Body: body})
	}
	return out
}
