package ratelimit

import "path"

// unlimited marks routes that bypass limiting.
var unlimited = Rule{Pattern: "/health", Method: "GET"}

// Match returns the first rule whose method and pattern fit the request, or
// nil when the default limit applies.
func Match(urlPath, method string, rules []Rule) *Rule {
	if urlPath == unlimited.Pattern && method == unlimited.Method {
		return &unlimited
	}
	for i := range rules {
		r := &rules[i]
		if r.Method != method {
			continue
		}
		if ok, err := path.Match(r.Pattern, urlPath); err == nil && ok {
			return r
		}
	}
	return nil
}
