package scoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// Schema is the scorable part of a survey form. Options are ordered from the
// lowest to the highest rating.
type Schema struct {
	Questions []Question `json:"questions"`
}

type response struct {
	Answers map[string]json.RawMessage `json:"answers"`
}

// ParseSchema decodes and validates a survey schema document.
func ParseSchema(raw []byte) (Schema, error) {
	var schema Schema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return Schema{}, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	if len(schema.Questions) == 0 {
		return Schema{}, fmt.Errorf("%w: no questions", ErrInvalidSchema)
	}

	seen := make(map[string]struct{}, len(schema.Questions))
	for i, question := range schema.Questions {
		id := strings.TrimSpace(question.ID)
		if id == "" {
			return Schema{}, fmt.Errorf("%w: question %d has no id", ErrInvalidSchema, i+1)
		}
		if _, ok := seen[id]; ok {
			return Schema{}, fmt.Errorf("%w: duplicate question id %q", ErrInvalidSchema, id)
		}
		if len(question.Options) == 0 {
			return Schema{}, fmt.Errorf("%w: question %q has no options", ErrInvalidSchema, id)
		}
		seen[id] = struct{}{}
		schema.Questions[i].ID = id
	}

	return schema, nil
}

// ParseAnswers decodes response data of the form {"answers": {"<question id>": <answer>}}.
// Empty input means nothing was answered.
func ParseAnswers(raw []byte) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return map[string]json.RawMessage{}, nil
	}

	var decoded response
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if decoded.Answers == nil {
		return map[string]json.RawMessage{}, nil
	}
	return decoded.Answers, nil
}

// Position maps a raw answer to a zero-based option position. A number is
// taken as the position itself, a string is matched against option text.
// Null, unknown and out-of-range answers count as unanswered.
func (q Question) Position(raw json.RawMessage) (int, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0, false
	}

	var number float64
	if err := json.Unmarshal(trimmed, &number); err == nil {
		if number != math.Trunc(number) {
			return 0, false
		}
		position := int(number)
		if position < 0 || position >= len(q.Options) {
			return 0, false
		}
		return position, true
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err != nil {
		return 0, false
	}
	text = strings.TrimSpace(text)
	for i, option := range q.Options {
		if option == text {
			return i, true
		}
	}
	for i, option := range q.Options {
		if strings.EqualFold(strings.TrimSpace(option), text) {
			return i, true
		}
	}
	return 0, false
}
