package generate

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/julianstephens/dayplan/internal/logger"
)

// ErrNoJSON is returned when no JSON object can be recovered from model output
var ErrNoJSON = errors.New("no valid JSON in model response")

var (
	fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	braceSpan   = regexp.MustCompile(`(?s)\{.*\}`)
)

// ExtractJSON recovers the JSON document from model output. It tries the whole text,
// then the first fenced code block, then the widest {...} span.
func ExtractJSON(text string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(text)
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed), nil
	}

	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		candidate := strings.TrimSpace(m[1])
		if json.Valid([]byte(candidate)) {
			logger.Debug("Extracted JSON from code block")
			return json.RawMessage(candidate), nil
		}
		logger.Warn("Code block does not hold valid JSON")
	}

	if m := braceSpan.FindString(text); m != "" {
		if json.Valid([]byte(m)) {
			logger.Debug("Extracted JSON from brace span")
			return json.RawMessage(m), nil
		}
		logger.Warn("Brace span does not hold valid JSON")
	}

	return nil, ErrNoJSON
}
