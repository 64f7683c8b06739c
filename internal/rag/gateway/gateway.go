// Package gateway invokes the generative model and recovers a structured
// payload from its free-form response. Model output is treated as untrusted
// input from an adversarial source: nothing is used before extraction and
// validation succeed.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"docsight/internal/rag/errs"
	"docsight/internal/rag/interfaces"
	"docsight/internal/rag/schema"
	"docsight/pkg/logger"
)

// DefaultTimeout bounds one generation call when the caller supplies none.
const DefaultTimeout = 60 * time.Second

// fencedBlock matches a fenced code block explicitly marked as structured
// data, e.g. ```json { ... } ```.
var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// Gateway wraps a generative model client. One call per Generate, no
// internal retry; the caller owns retry policy.
type Gateway struct {
	llm     interfaces.LLM
	timeout time.Duration
	log     *logger.Logger
}

// New creates a Gateway. A non-positive timeout falls back to
// DefaultTimeout.
func New(llm interfaces.LLM, timeout time.Duration, log *logger.Logger) *Gateway {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gateway{llm: llm, timeout: timeout, log: log}
}

// Generate sends the assembled prompt to the model and returns the raw
// response text. Transport failures and timeouts surface as
// model-unavailable errors; a blank response surfaces as empty output.
func (g *Gateway) Generate(ctx context.Context, p schema.Prompt) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := g.llm.Generate(ctx, p.Text())
	if err != nil {
		return "", errs.Wrap(err, errs.KindModelUnavailable, "calling generative model")
	}
	if strings.TrimSpace(raw) == "" {
		return "", errs.New(errs.KindEmptyOutput, "model returned an empty response")
	}
	return raw, nil
}

// ExtractPayload recovers a single JSON object from free-form model text.
// Three stages, first parse wins:
//
//  1. a fenced block explicitly marked as structured data
//  2. the first balanced brace span in the text
//  3. the entire text
//
// When none parse, the failure carries the raw text for diagnostics; it is
// logged here rather than surfaced to end users.
func (g *Gateway) ExtractPayload(raw string) (map[string]interface{}, error) {
	for _, candidate := range extractionCandidates(raw) {
		var payload map[string]interface{}
		if err := json.Unmarshal([]byte(candidate), &payload); err == nil {
			return payload, nil
		}
	}

	g.log.WithField("raw_output", truncate(raw, 500)).Warn("no parseable structured payload in model output")
	return nil, &errs.Error{
		Kind:    errs.KindMalformedOutput,
		Message: "no parseable structured payload in model output",
		Err:     fmt.Errorf("raw output: %s", truncate(raw, 200)),
	}
}

// extractionCandidates returns the stage outputs in priority order,
// skipping stages that found nothing.
func extractionCandidates(raw string) []string {
	var candidates []string
	if m := fencedBlock.FindStringSubmatch(raw); m != nil {
		candidates = append(candidates, m[1])
	}
	if span, ok := balancedBraceSpan(raw); ok {
		candidates = append(candidates, span)
	}
	candidates = append(candidates, strings.TrimSpace(raw))
	return candidates
}

// balancedBraceSpan scans for the first balanced {...} span, tracking JSON
// string and escape state so braces inside string values never unbalance
// the scan.
func balancedBraceSpan(raw string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(raw); i++ {
		c := raw[i]

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
			if start >= 0 {
				inString = true
			}
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
