package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed reports model output that holds no decodable JSON object.
var ErrParseFailed = errors.New("failed to parse response")

var fencePattern = regexp.MustCompile("(?s)```(?:json|JSON)?[ \\t]*\\n?(.*?)```")

// excerptLen caps how much of the rejected content is echoed in the error.
const excerptLen = 120

// Parse decodes a chat completion reply into T. Models wrap JSON in prose or
// code fences despite instructions, so the candidates tried are the whole
// reply, each fenced block in order, and finally the outermost {...} span.
func Parse[T any](content string) (T, error) {
	var result T
	content = strings.TrimSpace(content)

	for _, candidate := range candidates(content) {
		var v T
		if err := json.Unmarshal([]byte(candidate), &v); err == nil {
			return v, nil
		}
	}

	return result, fmt.Errorf("%w: %q", ErrParseFailed, excerpt(content))
}

func candidates(content string) []string {
	out := []string{content}
	for _, m := range fencePattern.FindAllStringSubmatch(content, -1) {
		out = append(out, strings.TrimSpace(m[1]))
	}
	start := strings.IndexByte(content, '{')
	end := strings.LastIndexByte(content, '}')
	if start >= 0 && end > start {
		out = append(out, content[start:end+1])
	}
	return out
}

func excerpt(s string) string {
	if len(s) <= excerptLen {
		return s
	}
	return s[:excerptLen] + "..."
}
