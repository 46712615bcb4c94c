package parsing

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"taskflow/internal/core/domain"
)

const fence = "```"

// Normalize strips a markdown code fence wrapping the provider output and
// parses what remains as JSON. Prose outside the fence is not removed, so a
// response that explains itself fails here.
func Normalize(raw string) (gjson.Result, error) {
	cleaned := stripFence(raw)
	if cleaned == "" {
		return gjson.Result{}, fmt.Errorf("%w: empty response", domain.ErrMalformedResponse)
	}
	if !gjson.Valid(cleaned) {
		return gjson.Result{}, fmt.Errorf("%w: response is not valid json", domain.ErrMalformedResponse)
	}
	return gjson.Parse(cleaned), nil
}

func stripFence(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, fence) {
		text = text[len(fence):]
		if len(text) >= 4 && strings.EqualFold(text[:4], "json") {
			text = text[4:]
		}
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), fence)
	return strings.TrimSpace(text)
}
