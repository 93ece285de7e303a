package rendering

import (
	"html"
	"regexp"
	"strings"
)

var (
	// styleValue limits what a style value may contain before it is written into CSS.
	styleValue = regexp.MustCompile(`^[#\w\s,.'"%()+-]{1,100}$`)
	urlScheme  = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+-]*:`)
)

// esc escapes free text for HTML.
func esc(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

// joinNonEmpty joins the non-blank parts with sep.
func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// href turns a user-supplied link into an http(s) URL. A link with any other
// scheme yields "".
func href(raw string) string {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)
	switch {
	case raw == "":
		return ""
	case strings.HasPrefix(lower, "https://"), strings.HasPrefix(lower, "http://"):
		return raw
	case urlScheme.MatchString(raw):
		return ""
	default:
		return "https://" + raw
	}
}

// displayURL strips the scheme and "www." from a link for display.
func displayURL(raw string) string {
	s := strings.TrimSpace(raw)
	for _, p := range []string{"https://", "http://", "www."} {
		if len(s) >= len(p) && strings.EqualFold(s[:len(p)], p) {
			s = s[len(p):]
		}
	}
	return strings.TrimSuffix(s, "/")
}

// anchor renders a link, or "" when raw is not a usable URL.
func anchor(raw string) string {
	u := href(raw)
	if u == "" {
		return ""
	}
	return `<a href="` + html.EscapeString(u) + `">` + esc(displayURL(raw)) + `</a>`
}
