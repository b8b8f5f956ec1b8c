package ratelimit

import (
	"fmt"
	"log"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the token-bucket rule for one route. A Limit of zero or
// less leaves the route unlimited.
type EndpointConfig struct {
	Path   string        // Exact path, or a prefix when it ends in "/"
	Method string        // HTTP method, or "*" for any
	Limit  int           // Requests refilled per Window
	Window time.Duration // Refill period
	Burst  int           // Bucket capacity (defaults to Limit if 0)
}

func (e EndpointConfig) String() string {
	return fmt.Sprintf("%s %s=%d/%s/%d", e.Method, e.Path, e.Limit, e.Window, e.Burst)
}

// AddrSet is a set of client addresses and CIDR ranges. The zero value and
// nil are empty sets.
type AddrSet struct {
	addrs    map[netip.Addr]bool
	prefixes []netip.Prefix
}

// ParseAddrSet parses a comma-separated list of IPs and CIDR ranges. Entries
// that are neither are returned in invalid.
func ParseAddrSet(list string) (set *AddrSet, invalid []string) {
	set = &AddrSet{addrs: make(map[netip.Addr]bool)}
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				invalid = append(invalid, entry)
				continue
			}
			set.prefixes = append(set.prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			invalid = append(invalid, entry)
			continue
		}
		set.addrs[addr.Unmap()] = true
	}
	return set, invalid
}

// Contains reports whether client, an IP address, is in the set.
func (s *AddrSet) Contains(client string) bool {
	if s == nil {
		return false
	}
	addr, err := netip.ParseAddr(client)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	if s.addrs[addr] {
		return true
	}
	for _, p := range s.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// Len returns the number of addresses and ranges in the set.
func (s *AddrSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.addrs) + len(s.prefixes)
}

// LoadConfig loads rate limiting configuration from RATE_LIMIT_* environment
// variables. Unparseable values fall back to their defaults with a log line.
func LoadConfig() *Config {
	if !envValue("RATE_LIMIT_ENABLED", true, strconv.ParseBool) {
		return &Config{Enabled: false}
	}

	cfg := &Config{
		Enabled:         true,
		DefaultLimit:    envValue("RATE_LIMIT_DEFAULT_LIMIT", 1000, strconv.Atoi),
		DefaultWindow:   envValue("RATE_LIMIT_DEFAULT_WINDOW", time.Minute, time.ParseDuration),
		CleanupInterval: envValue("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute, time.ParseDuration),
		IdleTTL:         envValue("RATE_LIMIT_IDLE_TTL", defaultIdleTTL, time.ParseDuration),
		Whitelist:       envAddrSet("RATE_LIMIT_WHITELIST"),
		Blacklist:       envAddrSet("RATE_LIMIT_BLACKLIST"),
		EndpointConfigs: DefaultEndpointConfigs(),
	}

	if raw := os.Getenv("RATE_LIMIT_ENDPOINTS"); raw != "" {
		overrides, err := ParseEndpointConfigs(raw)
		if err != nil {
			log.Printf("Warning: ignoring RATE_LIMIT_ENDPOINTS: %v", err)
		} else {
			cfg.EndpointConfigs = mergeEndpointConfigs(cfg.EndpointConfigs, overrides)
		}
	}
	return cfg
}

// DefaultEndpointConfigs returns the built-in per-route limits.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Calls out to the text-generation service
		{Path: "/api/suggestions", Method: "POST", Limit: 30, Window: time.Hour, Burst: 3},

		// Local parsing and editing
		{Path: "/api/parse", Method: "POST", Limit: 120, Window: time.Minute, Burst: 10},
		{Path: "/api/apply", Method: "POST", Limit: 300, Window: time.Minute, Burst: 20},
		{Path: "/api/merge", Method: "POST", Limit: 300, Window: time.Minute, Burst: 20},
		{Path: "/api/runs/", Method: "DELETE", Limit: 60, Window: time.Minute, Burst: 10},
	}
}

// ParseEndpointConfigs parses comma-separated rules of the form
// "METHOD PATH=LIMIT/WINDOW[/BURST]", e.g. "POST /api/parse=60/1m/5".
func ParseEndpointConfigs(raw string) ([]EndpointConfig, error) {
	var out []EndpointConfig
	for _, rule := range strings.Split(raw, ",") {
		rule = strings.TrimSpace(rule)
		if rule == "" {
			continue
		}
		route, quota, ok := strings.Cut(rule, "=")
		if !ok {
			return nil, fmt.Errorf("rule %q: missing '='", rule)
		}
		method, path, ok := strings.Cut(strings.TrimSpace(route), " ")
		path = strings.TrimSpace(path)
		if !ok || method == "" || !strings.HasPrefix(path, "/") {
			return nil, fmt.Errorf("rule %q: route must be \"METHOD /path\"", rule)
		}

		parts := strings.Split(strings.TrimSpace(quota), "/")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("rule %q: want LIMIT/WINDOW[/BURST]", rule)
		}
		limit, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("rule %q: invalid limit: %w", rule, err)
		}
		window, err := time.ParseDuration(parts[1])
		if err != nil {
			return nil, fmt.Errorf("rule %q: invalid window: %w", rule, err)
		}
		burst := 0
		if len(parts) == 3 {
			if burst, err = strconv.Atoi(parts[2]); err != nil {
				return nil, fmt.Errorf("rule %q: invalid burst: %w", rule, err)
			}
		}

		out = append(out, EndpointConfig{
			Path:   path,
			Method: strings.ToUpper(method),
			Limit:  limit,
			Window: window,
			Burst:  burst,
		})
	}
	return out, nil
}

// mergeEndpointConfigs replaces base rules that share a method and path with
// an override and appends the remaining overrides.
func mergeEndpointConfigs(base, overrides []EndpointConfig) []EndpointConfig {
	merged := append([]EndpointConfig(nil), base...)
	for _, o := range overrides {
		replaced := false
		for i := range merged {
			if merged[i].Method == o.Method && merged[i].Path == o.Path {
				merged[i] = o
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, o)
		}
	}
	return merged
}

// envValue parses the environment variable key, returning def when it is unset
// or unparseable.
func envValue[T any](key string, def T, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using default %v", key, raw, def)
		return def
	}
	return v
}

func envAddrSet(key string) *AddrSet {
	set, invalid := ParseAddrSet(os.Getenv(key))
	if len(invalid) > 0 {
		log.Printf("Warning: %s: ignoring invalid entries %v", key, invalid)
	}
	return set
}
