package suggestions

import "strings"

// markdownSection is a byte range of text that starts at a "## " header line and
// runs to the next one. Deeper headers ("###") do not open a section.
type markdownSection struct {
	Title string
	Start int
	End   int
}

func splitMarkdownSections(text string) []markdownSection {
	var out []markdownSection
	pos := 0
	for pos < len(text) {
		lineEnd := strings.IndexByte(text[pos:], '\n')
		if lineEnd < 0 {
			lineEnd = len(text)
		} else {
			lineEnd += pos
		}
		if title, ok := topHeaderTitle(text[pos:lineEnd]); ok {
			if n := len(out); n > 0 {
				out[n-1].End = pos
			}
			out = append(out, markdownSection{Title: title, Start: pos, End: len(text)})
		}
		pos = lineEnd + 1
	}
	return out
}

func topHeaderTitle(line string) (string, bool) {
	line = strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(line, "##") || strings.HasPrefix(line, "###") {
		return "", false
	}
	return strings.TrimSpace(line[2:]), true
}

// searchScope narrows a search to the first section whose header and hint contain
// one another, ignoring case. Without a hint, or when nothing matches, the whole
// text is in scope.
func searchScope(sections []markdownSection, hint string, length int) (int, int) {
	want := strings.ToLower(strings.TrimSpace(strings.TrimLeft(hint, "# ")))
	want = strings.TrimRight(want, ":")
	if want == "" {
		return 0, length
	}
	for _, s := range sections {
		title := strings.ToLower(s.Title)
		if title == "" {
			continue
		}
		if strings.Contains(title, want) || strings.Contains(want, title) {
			return s.Start, s.End
		}
	}
	return 0, length
}
