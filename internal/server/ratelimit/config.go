package ratelimit

import (
	"strconv"
	"strings"
	"time"
)

// Rule limits one class of requests. Pattern is a path.Match pattern, so
// "/projects/*/assist/*" covers every assist action of every project.
type Rule struct {
	Pattern string
	Method  string
	Limit   int           // requests per Window
	Window  time.Duration
	Burst   int // defaults to Limit
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration
	Allowlist       map[string]bool
	Denylist        map[string]bool
	Rules           []Rule
}

// LoadConfig reads RATE_LIMIT_* variables through getenv.
func LoadConfig(getenv func(string) string) *Config {
	env := envReader(getenv)
	if !env.bool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    env.int("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   env.duration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.duration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		IdleTTL:         time.Hour,
		Allowlist:       parseIPList(getenv("RATE_LIMIT_ALLOWLIST")),
		Denylist:        parseIPList(getenv("RATE_LIMIT_DENYLIST")),
		Rules:           DefaultRules(),
	}
}

// DefaultRules puts model-backed routes in the strictest tier and writes in
// the next one. Reads fall through to the default limit; /health is never limited.
func DefaultRules() []Rule {
	modelCall := func(pattern string) Rule {
		return Rule{Pattern: pattern, Method: "POST", Limit: 30, Window: time.Hour, Burst: 5}
	}
	write := func(pattern, method string) Rule {
		return Rule{Pattern: pattern, Method: method, Limit: 120, Window: time.Minute, Burst: 20}
	}
	return []Rule{
		modelCall("/analyze"),
		modelCall("/analyze/stream"),
		modelCall("/assist/bullets"),
		modelCall("/projects/*/assist/*"),
		{Pattern: "/projects/*/export", Method: "POST", Limit: 60, Window: time.Hour, Burst: 5},

		write("/projects", "POST"),
		write("/projects/*", "PUT"),
		write("/projects/*", "DELETE"),
		write("/projects/*/sections", "POST"),
		write("/projects/*/sections/reorder", "POST"),
		write("/projects/*/autofill", "POST"),
		write("/sections/*", "PUT"),
		write("/sections/*", "DELETE"),
	}
}

type envReader func(string) string

func (e envReader) int(key string, def int) int {
	if v, err := strconv.Atoi(e(key)); err == nil {
		return v
	}
	return def
}

func (e envReader) bool(key string, def bool) bool {
	if v, err := strconv.ParseBool(e(key)); err == nil {
		return v
	}
	return def
}

func (e envReader) duration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(e(key)); err == nil {
		return v
	}
	return def
}

func parseIPList(list string) map[string]bool {
	out := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			out[ip] = true
		}
	}
	return out
}
