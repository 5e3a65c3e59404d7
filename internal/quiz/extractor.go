package quiz

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	reFence       = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	reObjectArray = regexp.MustCompile(`(?s)\[\s*\{.*\}\s*\]`)
	reTrailComma  = regexp.MustCompile(`,\s*([}\]])`)
	reAdjacentObj = regexp.MustCompile(`\}\s*\{`)
)

// Extract parses raw completion output into validated Questions. Models
// reliably produce JSON-ish arrays wrapped in prose or code fences with the
// occasional trailing or missing comma; the normalization here is bounded to
// exactly those cases and anything else fails loudly.
func Extract(raw string) ([]Question, error) {
	candidate := normalize(selectCandidate(raw))

	var items []map[string]interface{}
	if err := json.Unmarshal([]byte(candidate), &items); err != nil {
		return nil, &MalformedError{Raw: raw, Err: err}
	}
	if len(items) == 0 {
		return nil, &MalformedError{Raw: raw, Err: fmt.Errorf("no questions in output")}
	}

	questions := make([]Question, 0, len(items))
	for i, item := range items {
		q, err := parseQuestion(item)
		if err != nil {
			return nil, &InvalidQuestionError{Index: i, Reason: err.Error()}
		}
		questions = append(questions, q)
	}

	return questions, nil
}

// selectCandidate picks the JSON text to parse: a fenced code block first,
// then the first bracket-delimited array of objects, then the whole text.
func selectCandidate(raw string) string {
	if m := reFence.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	if m := reObjectArray.FindString(raw); m != "" {
		return m
	}
	return raw
}

// normalize repairs the documented malformation cases: trailing commas
// before a closing brace or bracket, missing commas between adjacent
// objects, and missing outer brackets.
func normalize(s string) string {
	s = strings.TrimSpace(s)
	s = reTrailComma.ReplaceAllString(s, "$1")
	s = reAdjacentObj.ReplaceAllString(s, "},{")
	if !strings.HasPrefix(s, "[") {
		s = "[" + s
	}
	if !strings.HasSuffix(s, "]") {
		s = s + "]"
	}
	return s
}

func parseQuestion(item map[string]interface{}) (Question, error) {
	text, ok := item["question"].(string)
	if !ok || strings.TrimSpace(text) == "" {
		return Question{}, fmt.Errorf(`missing or empty "question"`)
	}

	rawOptions, ok := item["options"].([]interface{})
	if !ok {
		return Question{}, fmt.Errorf(`"options" is missing or not an array`)
	}
	if len(rawOptions) < 2 {
		return Question{}, fmt.Errorf(`"options" has %d entries, need at least 2`, len(rawOptions))
	}

	options := make([]string, 0, len(rawOptions))
	seen := make(map[string]bool, len(rawOptions))
	for i, o := range rawOptions {
		s, ok := o.(string)
		if !ok {
			return Question{}, fmt.Errorf("option %d is not a string", i)
		}
		if seen[s] {
			return Question{}, fmt.Errorf("option %d duplicates an earlier option", i)
		}
		seen[s] = true
		options = append(options, s)
	}

	correct, err := parseCorrectAnswer(item["correct_answer"])
	if err != nil {
		return Question{}, err
	}
	if correct < 0 || correct >= len(options) {
		return Question{}, fmt.Errorf(`"correct_answer" %d is outside options range [0,%d)`, correct, len(options))
	}

	return Question{Text: text, Options: options, CorrectAnswer: correct}, nil
}

// parseCorrectAnswer accepts an integer, or a string coercible to one.
// Coercion is attempted exactly once; anything else fails the question.
func parseCorrectAnswer(v interface{}) (int, error) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf(`"correct_answer" %v is not an integer`, n)
		}
		return int(n), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf(`"correct_answer" %q is not coercible to an integer`, n)
		}
		return i, nil
	case nil:
		return 0, fmt.Errorf(`missing "correct_answer"`)
	default:
		return 0, fmt.Errorf(`"correct_answer" has unsupported type %T`, v)
	}
}
