package parsing

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jonathan/resume-tailor/internal/types"
)

const (
	maxPhoneCandidateLen = 50
	minPhoneDigits       = 7
	maxPhoneDigits       = 15
	maxOtherURLs         = 3
)

var (
	phonePattern = regexp.MustCompile(
		`(?:\+?1[-.\s]*)?\(?\d{3}\)?[-.\s\x{2013}]*\d{3}[-.\s\x{2013}]*\d{4}\b|` +
			`\b\d{3}[-.\s\x{2013}]+\d{3}[-.\s\x{2013}]+\d{4}\b|` +
			`\b\d{10}\b|` +
			`\+?\d{1,3}[-.\s]?\(?\d{2,4}\)?[-.\s]?\d{2,4}[-.\s]?\d{2,4}[-.\s]?\d{2,4}\b`)
	emailPattern     = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	linkedInPattern  = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?linkedin\.com/in/[\w\-./]+`)
	portfolioPattern = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?[a-z0-9][-a-z0-9.]*\.(?:com|io|co|net|me|dev)(?:/[\w\-./?=&#]*)?`)
	urlPattern       = regexp.MustCompile(`https?://[^\s<>"')]+|www\.[^\s<>"')]+`)
	// Location stays on one line: "City, ST" or "City Name, Region Name".
	locationPattern = regexp.MustCompile(`\b([A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+)*),[ \t]*([A-Z]{2}|[A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+)*)\b`)

	presentPattern   = regexp.MustCompile(`(?i)\bpresent\b`)
	yearRangePattern = regexp.MustCompile(`\d{4}\s*[-\x{2013}]\s*(?:\d{4}|\w+)`)
	monthNames       = []string{
		"january", "february", "march", "april", "may", "june", "july",
		"august", "september", "october", "november", "december",
		"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "oct", "nov", "dec",
	}
	excludedOtherDomains = []string{"linkedin", "facebook", "twitter"}
)

// IsPlausiblePhone reports whether s looks like a real phone number rather than a
// date range or a stray digit run. Callers use it to re-check phone values
// obtained from model output.
func IsPlausiblePhone(s string) bool {
	s = strings.TrimSpace(s)
	if looksLikeDateRange(s) {
		return false
	}
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < minPhoneDigits || digits > maxPhoneDigits {
		return false
	}
	if len(s) == 10 && digits == 10 {
		// bare run: a year prefix or an impossible area code
		if strings.HasPrefix(s, "19") || strings.HasPrefix(s, "20") || s[0] == '0' || s[0] == '1' {
			return false
		}
	}
	return true
}

// ContainsContactDetail reports whether s holds an email address or a plausible
// phone number.
func ContainsContactDetail(s string) bool {
	if emailPattern.MatchString(s) {
		return true
	}
	for _, candidate := range phonePattern.FindAllString(s, -1) {
		if IsPlausiblePhone(candidate) {
			return true
		}
	}
	return false
}

func looksLikeDateRange(s string) bool {
	if s == "" || len(s) > maxPhoneCandidateLen {
		return true
	}
	lower := strings.ToLower(s)
	if presentPattern.MatchString(lower) {
		return true
	}
	for _, month := range monthNames {
		if strings.Contains(lower, month) {
			return true
		}
	}
	return yearRangePattern.MatchString(lower)
}

// ExtractContact scans text for phones, emails, and LinkedIn URLs anywhere, and for
// portfolio/other URLs and a location only near the top of the document.
func (p *Parser) ExtractContact(text string) types.ExtractedContact {
	contact := types.ExtractedContact{
		Phones:        []string{},
		Emails:        []string{},
		LinkedInURLs:  []string{},
		PortfolioURLs: []string{},
		OtherURLs:     []string{},
	}
	if strings.TrimSpace(text) == "" {
		return contact
	}

	for _, candidate := range phonePattern.FindAllString(text, -1) {
		candidate = strings.TrimSpace(candidate)
		if IsPlausiblePhone(candidate) {
			contact.Phones = appendUnique(contact.Phones, candidate)
		}
	}
	for _, email := range emailPattern.FindAllString(text, -1) {
		contact.Emails = appendUnique(contact.Emails, email)
	}
	for _, u := range linkedInPattern.FindAllString(text, -1) {
		contact.LinkedInURLs = appendUnique(contact.LinkedInURLs, normalizeLinkedIn(u))
	}

	header := prefix(text, p.headerZone)
	for _, loc := range portfolioPattern.FindAllStringIndex(header, -1) {
		u := strings.TrimRight(header[loc[0]:loc[1]], ".")
		if !plausiblePortfolio(header, loc[0], loc[1], u) {
			continue
		}
		contact.PortfolioURLs = appendUnique(contact.PortfolioURLs, withScheme(u))
	}
	for _, u := range urlPattern.FindAllString(header, -1) {
		u = strings.TrimRight(u, ".,;:")
		if containsAny(strings.ToLower(u), excludedOtherDomains) {
			continue
		}
		if containsURL(contact.PortfolioURLs, u) {
			continue
		}
		contact.OtherURLs = appendUnique(contact.OtherURLs, u)
		if len(contact.OtherURLs) == maxOtherURLs {
			break
		}
	}

	if m := locationPattern.FindStringSubmatch(prefix(text, p.locationZone)); m != nil {
		contact.Location = m[1] + ", " + m[2]
	}
	return contact
}

// plausiblePortfolio rejects domain-shaped matches that belong to an email
// address or a longer word, LinkedIn profiles, and bare names whose top-level
// domain is capitalised ("ASP.NET", "Socket.IO").
func plausiblePortfolio(text string, start, end int, u string) bool {
	lower := strings.ToLower(u)
	if strings.Contains(lower, "linkedin") {
		return false
	}
	if start > 0 && (text[start-1] == '@' || isWordByte(text[start-1])) {
		return false
	}
	if end < len(text) && (text[end] == '@' || isWordByte(text[end])) {
		return false
	}
	if !strings.HasPrefix(lower, "http") && !strings.HasPrefix(lower, "www.") {
		host := u
		if i := strings.IndexByte(host, '/'); i >= 0 {
			host = host[:i]
		}
		tld := host[strings.LastIndexByte(host, '.')+1:]
		for _, r := range tld {
			if unicode.IsUpper(r) {
				return false
			}
		}
	}
	return true
}

func normalizeLinkedIn(u string) string {
	u = strings.TrimRight(u, ".")
	if strings.HasPrefix(strings.ToLower(u), "http") {
		return u
	}
	u = strings.TrimLeft(u, "./")
	if strings.HasPrefix(strings.ToLower(u), "www.") {
		return "https://" + u
	}
	return "https://www." + u
}

func withScheme(u string) string {
	if strings.HasPrefix(strings.ToLower(u), "http") {
		return u
	}
	return "https://" + u
}

func containsURL(list []string, u string) bool {
	key := stripScheme(u)
	for _, existing := range list {
		if stripScheme(existing) == key {
			return true
		}
	}
	return false
}

func stripScheme(u string) string {
	u = strings.ToLower(strings.TrimSpace(u))
	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "http://")
	u = strings.TrimPrefix(u, "www.")
	return strings.TrimRight(u, "/")
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func isWordByte(b byte) bool {
	return b == '_' || b == '-' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// prefix returns at most n bytes of s without splitting a UTF-8 sequence.
func prefix(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
