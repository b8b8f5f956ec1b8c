package sections

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var markdownHeaderPrefix = regexp.MustCompile(`^#+\s*`)

type matcher struct {
	name string
	re   *regexp.Regexp
}

// Taxonomy is a compiled, immutable section taxonomy. It is safe for concurrent use.
type Taxonomy struct {
	order        []string
	canonical    map[string]bool
	matchers     []matcher
	titles       map[string]string
	maxHeaderLen int
}

var defaultTaxonomy = sync.OnceValue(func() *Taxonomy {
	t, err := BuildMatchers(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return t
})

// Default returns the taxonomy built from the embedded configuration.
func Default() *Taxonomy {
	return defaultTaxonomy()
}

// BuildMatchers validates cfg and compiles one whole-line matcher per canonical section.
// Each section's own title is added as an implicit variant so reassembled
// "## Title" markers always segment back to the same section.
func BuildMatchers(cfg *Config) (*Taxonomy, error) {
	if cfg == nil {
		return nil, &ConfigError{Message: "config is nil"}
	}
	if len(cfg.Order) == 0 {
		return nil, &ConfigError{Message: "order must list at least one section"}
	}

	t := &Taxonomy{
		canonical:    make(map[string]bool, len(cfg.Order)),
		titles:       make(map[string]string, len(cfg.Order)),
		maxHeaderLen: cfg.MaxHeaderLength,
	}
	if t.maxHeaderLen <= 0 {
		t.maxHeaderLen = DefaultMaxHeaderLength
	}

	for _, name := range cfg.Order {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, &ConfigError{Message: "order contains an empty section name"}
		}
		if t.canonical[name] {
			return nil, &ConfigError{Section: name, Message: "listed more than once in order"}
		}
		t.canonical[name] = true
		t.order = append(t.order, name)
		t.titles[name] = Title(name)
	}
	for name := range cfg.Variants {
		if !t.canonical[name] {
			return nil, &ConfigError{Section: name, Message: "variants given for a section missing from order"}
		}
	}

	// owner maps a folded variant to the section that claims it
	owner := make(map[string]string)
	variants := make(map[string][]string, len(t.order))
	for _, name := range t.order {
		if name == Preamble {
			continue
		}
		for _, v := range cfg.Variants[name] {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			key := foldVariant(v)
			if prev, ok := owner[key]; ok && prev != name {
				return nil, &ConfigError{Section: name, Message: fmt.Sprintf("variant %q is already claimed by %s", v, prev)}
			}
			if _, ok := owner[key]; ok {
				continue
			}
			owner[key] = name
			variants[name] = append(variants[name], v)
		}
		if len(variants[name]) == 0 {
			return nil, &ConfigError{Section: name, Message: "at least one header variant is required"}
		}
	}
	for _, name := range t.order {
		if name == Preamble {
			continue
		}
		key := foldVariant(t.titles[name])
		if _, taken := owner[key]; !taken {
			owner[key] = name
			variants[name] = append(variants[name], t.titles[name])
		}
	}

	for _, name := range t.order {
		if name == Preamble {
			continue
		}
		parts := make([]string, 0, len(variants[name]))
		for _, v := range variants[name] {
			parts = append(parts, regexp.QuoteMeta(v))
		}
		re, err := regexp.Compile(`(?i)^\s*(?:` + strings.Join(parts, "|") + `)\s*[.:]?\s*$`)
		if err != nil {
			return nil, &ConfigError{Section: name, Message: err.Error()}
		}
		t.matchers = append(t.matchers, matcher{name: name, re: re})
	}
	return t, nil
}

// Match reports the canonical section a line introduces. Lines longer than the
// header length cap never match. A leading markdown "#" run is ignored.
func (t *Taxonomy) Match(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > t.maxHeaderLen {
		return "", false
	}
	trimmed = markdownHeaderPrefix.ReplaceAllString(trimmed, "")
	for _, m := range t.matchers {
		if m.re.MatchString(trimmed) {
			return m.name, true
		}
	}
	return "", false
}

// HeaderName is Match extended to explicit level-two markdown headers: a
// "## Title" line outside the taxonomy names a custom section by its slug.
func (t *Taxonomy) HeaderName(line string) (string, bool) {
	if name, ok := t.Match(line); ok {
		return name, true
	}
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "## ") || utf8.RuneCountInString(trimmed) > t.maxHeaderLen {
		return "", false
	}
	slug := Slug(trimmed[3:])
	if slug == "" {
		return "", false
	}
	return slug, true
}

// Order returns the canonical sections in reassembly order, excluding the preamble.
func (t *Taxonomy) Order() []string {
	out := make([]string, 0, len(t.order))
	for _, name := range t.order {
		if name != Preamble {
			out = append(out, name)
		}
	}
	return out
}

// IsCanonical reports whether name is part of the taxonomy.
func (t *Taxonomy) IsCanonical(name string) bool {
	return t.canonical[name]
}

// Title returns the display title of a section.
func (t *Taxonomy) Title(name string) string {
	if title, ok := t.titles[name]; ok {
		return title
	}
	return Title(name)
}

// MaxHeaderLength returns the header candidate length cap.
func (t *Taxonomy) MaxHeaderLength() int {
	return t.maxHeaderLen
}

// Canonicalize maps a free-form section label (for example one produced by a model)
// onto a canonical name when it names a known header, or onto its slug otherwise.
func (t *Taxonomy) Canonicalize(label string) string {
	label = strings.TrimSpace(label)
	if t.canonical[label] {
		return label
	}
	if name, ok := t.Match(label); ok {
		return name
	}
	slug := Slug(label)
	if slug == "" {
		return "other"
	}
	return slug
}

// Title converts a section name such as "key_projects" into "Key Projects".
func Title(name string) string {
	words := strings.ReplaceAll(strings.TrimSpace(name), "_", " ")
	return cases.Title(language.English).String(words)
}

// Slug converts a header such as "Volunteer Work!" into "volunteer_work".
func Slug(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

func foldVariant(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimRight(v, ".:")
	return strings.ToLower(strings.Join(strings.Fields(v), " "))
}
