package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-analyzer/internal/apperr"
	"github.com/jonathan/resume-analyzer/internal/logging"
)

// maxLoggedPayload bounds the raw reply written to debug logs.
const maxLoggedPayload = 2000

var (
	trailingComma = regexp.MustCompile(`,(\s*[}\]])`)
	controlChars  = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
)

// CleanJSONBlock removes markdown code fences around a JSON reply.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// ExtractJSONObject returns the first balanced {...} object in text. Braces
// inside string literals are ignored. The second result is false when no
// complete object exists.
func ExtractJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// repairJSON fixes the two defects models produce most often.
func repairJSON(s string) string {
	s = controlChars.ReplaceAllString(s, "")
	return trailingComma.ReplaceAllString(s, "$1")
}

// DecodeObject parses a model reply into a generic JSON object. It tries the
// reply as-is, then the first balanced object in it, then a repaired version
// of that object. Failure is KindMalformedResponse.
func DecodeObject(raw string, logger zerolog.Logger) (map[string]any, error) {
	cleaned := CleanJSONBlock(raw)
	candidates := []string{cleaned}
	if obj, ok := ExtractJSONObject(cleaned); ok {
		candidates = append(candidates, obj, repairJSON(obj))
	}

	var lastErr error
	for _, c := range candidates {
		var out map[string]any
		if err := json.Unmarshal([]byte(c), &out); err != nil {
			lastErr = err
			continue
		}
		if out != nil {
			return out, nil
		}
	}

	logger.Debug().
		Str("payload", logging.Truncate(raw, maxLoggedPayload)).
		Msg("model reply is not valid JSON")
	return nil, apperr.Wrap(apperr.KindMalformedResponse, lastErr, "the analysis service returned an unreadable response")
}

// stringList coerces v into a list of non-empty strings. Anything that is not
// an array becomes an empty list.
func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// number reads a JSON number, accepting numeric strings.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		var f float64
		if err := json.Unmarshal([]byte(strings.TrimSpace(n)), &f); err == nil {
			return f, true
		}
	}
	return 0, false
}

func clampScore(f float64) int {
	switch {
	case f < 0:
		return 0
	case f > 100:
		return 100
	default:
		return int(f + 0.5)
	}
}
