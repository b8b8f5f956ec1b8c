package ratelimit

import "strings"

// probe is the health check rule used when no configured rule matches it.
var probe = EndpointConfig{Path: "/health", Method: "GET", Limit: 0}

// MatchEndpoint returns the rule for a request, or nil when none applies.
// Exact paths win over prefix rules (paths ending in "/"), the longest prefix
// wins among prefixes, and a rule for the exact method wins over "*". Unless
// configured otherwise, GET /health is unlimited.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	var (
		best      *EndpointConfig
		bestScore int
	)
	for i := range configs {
		c := &configs[i]
		score := matchScore(c, path, method)
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	if best == nil && matchScore(&probe, path, method) > 0 {
		p := probe
		return &p
	}
	return best
}

// matchScore ranks how specifically c matches the request; zero is no match.
func matchScore(c *EndpointConfig, path, method string) int {
	score := 0
	switch {
	case c.Path == path:
		score = 2 * (len(path) + 1)
	case strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path):
		score = 2 * len(c.Path)
	default:
		return 0
	}

	switch c.Method {
	case method:
		score++
	case "*":
	default:
		return 0
	}
	return score
}
