// Package validate performs strict schema validation of extracted model
// payloads. Every generated payload is treated like hostile network input:
// all required fields checked, enums and bounds enforced, nothing trusted
// by type alone. All violations are reported in one failure, never just the
// first.
package validate

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"docsight/internal/rag/errs"
	"docsight/internal/rag/schema"
)

// Bounds declared by the analysis result shape.
const (
	SummaryMinLen = 10
	SummaryMaxLen = 500
)

var allowedStatuses = map[string]bool{
	schema.StatusComplete: true,
	schema.StatusPartial:  true,
	schema.StatusUnknown:  true,
}

// Analysis validates a payload against the analysis result shape and
// returns the typed result, or a ValidationError enumerating every violated
// field.
func Analysis(payload map[string]interface{}) (*schema.AnalysisResult, error) {
	verr := &errs.ValidationError{}
	result := &schema.AnalysisResult{}

	result.Summary = requireString(payload, "summary", verr)
	if result.Summary != "" {
		if n := utf8.RuneCountInString(result.Summary); n < SummaryMinLen || n > SummaryMaxLen {
			verr.Addf("summary", "length %d outside bounds [%d, %d]", n, SummaryMinLen, SummaryMaxLen)
		}
	}

	result.CompletenessStatus = requireString(payload, "completeness_status", verr)
	if result.CompletenessStatus != "" && !allowedStatuses[result.CompletenessStatus] {
		verr.Addf("completeness_status", "%q is not one of [complete, partial, unknown]", result.CompletenessStatus)
	}

	// missing_points defaults to empty when absent.
	result.MissingPoints = []string{}
	if raw, ok := payload["missing_points"]; ok {
		result.MissingPoints = stringList(raw, "missing_points", verr)
	}
	if result.CompletenessStatus == schema.StatusComplete && len(result.MissingPoints) > 0 {
		verr.Add("missing_points", "must be empty when completeness_status is complete")
	}

	if raw, ok := payload["evidence"]; ok {
		result.Evidence = stringList(raw, "evidence", verr)
		if result.Evidence != nil && len(result.Evidence) < 1 {
			verr.Add("evidence", "at least one item is required")
		}
	} else {
		verr.Add("evidence", "missing required field")
	}

	if raw, ok := payload["confidence"]; ok {
		confidence, ok := coerceFloat(raw)
		switch {
		case !ok:
			verr.Add("confidence", "not coercible to a number")
		case confidence < 0 || confidence > 1:
			verr.Addf("confidence", "%v outside bounds [0, 1]", confidence)
		default:
			result.Confidence = confidence
		}
	} else {
		verr.Add("confidence", "missing required field")
	}

	if verr.HasViolations() {
		return nil, verr
	}
	return result, nil
}

// QA validates a payload against the Q&A result shape. Sources are not part
// of the model payload; the agent attaches them from the retrieval hits
// used to build the prompt.
func QA(payload map[string]interface{}) (*schema.QAResult, error) {
	verr := &errs.ValidationError{}

	answer := requireString(payload, "answer", verr)
	if answer != "" && strings.TrimSpace(answer) == "" {
		verr.Add("answer", "must not be blank")
	}

	if verr.HasViolations() {
		return nil, verr
	}
	return &schema.QAResult{Answer: answer, Sources: []schema.Source{}}, nil
}

// requireString extracts a required string field, recording a violation for
// a missing field or a non-string value.
func requireString(payload map[string]interface{}, field string, verr *errs.ValidationError) string {
	raw, ok := payload[field]
	if !ok {
		verr.Add(field, "missing required field")
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		verr.Addf(field, "expected a string, got %T", raw)
		return ""
	}
	if s == "" {
		verr.Add(field, "must not be empty")
		return ""
	}
	return s
}

// stringList coerces a payload value into a list of strings, recording a
// violation when the value or any element has the wrong type. Returns nil
// when the shape was wrong.
func stringList(raw interface{}, field string, verr *errs.ValidationError) []string {
	items, ok := raw.([]interface{})
	if !ok {
		verr.Addf(field, "expected a list of strings, got %T", raw)
		return nil
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			verr.Addf(field, "element %d: expected a string, got %T", i, item)
			return nil
		}
		out = append(out, s)
	}
	return out
}

// coerceFloat accepts only safe numeric representations: JSON numbers and
// numeric-looking strings. Booleans, lists, and anything else are rejected.
func coerceFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
