package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsight/internal/rag/errs"
	"docsight/internal/rag/schema"
	"docsight/pkg/logger"
)

type stubLLM struct {
	response string
	err      error
	delay    time.Duration
}

func (s *stubLLM) Generate(ctx context.Context, _ string) (string, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.response, s.err
}

func testGateway(llm *stubLLM, timeout time.Duration) *Gateway {
	return New(llm, timeout, logger.New("gateway-test"))
}

func TestGenerateReturnsRawText(t *testing.T) {
	g := testGateway(&stubLLM{response: `{"answer": "42"}`}, time.Second)
	raw, err := g.Generate(context.Background(), schema.Prompt{System: "s", User: "u"})
	require.NoError(t, err)
	assert.Equal(t, `{"answer": "42"}`, raw)
}

func TestGenerateTransportFailure(t *testing.T) {
	g := testGateway(&stubLLM{err: errors.New("connection reset")}, time.Second)
	_, err := g.Generate(context.Background(), schema.Prompt{})
	require.Error(t, err)
	assert.Equal(t, errs.KindModelUnavailable, errs.KindOf(err))
}

func TestGenerateTimeoutSurfacesAsModelUnavailable(t *testing.T) {
	g := testGateway(&stubLLM{response: "late", delay: 200 * time.Millisecond}, 20*time.Millisecond)
	_, err := g.Generate(context.Background(), schema.Prompt{})
	require.Error(t, err)
	assert.Equal(t, errs.KindModelUnavailable, errs.KindOf(err))
}

func TestGenerateEmptyResponse(t *testing.T) {
	g := testGateway(&stubLLM{response: "   \n\t  "}, time.Second)
	_, err := g.Generate(context.Background(), schema.Prompt{})
	require.Error(t, err)
	assert.Equal(t, errs.KindEmptyOutput, errs.KindOf(err))
}

func TestExtractPayloadFromFencedBlock(t *testing.T) {
	g := testGateway(&stubLLM{}, time.Second)
	raw := "Here is the analysis:\n```json\n{\"summary\": \"ok\", \"confidence\": 0.9}\n```\nHope that helps!"

	payload, err := g.ExtractPayload(raw)
	require.NoError(t, err)
	assert.Equal(t, "ok", payload["summary"])
	assert.Equal(t, 0.9, payload["confidence"])
}

func TestExtractPayloadFromBalancedBraces(t *testing.T) {
	g := testGateway(&stubLLM{}, time.Second)
	raw := `Sure! The result is {"answer": "value with {braces} inside", "n": 2} as requested.`

	payload, err := g.ExtractPayload(raw)
	require.NoError(t, err)
	assert.Equal(t, "value with {braces} inside", payload["answer"])
	assert.Equal(t, float64(2), payload["n"])
}

func TestExtractPayloadWholeText(t *testing.T) {
	g := testGateway(&stubLLM{}, time.Second)
	payload, err := g.ExtractPayload(`  {"answer": "plain"}  `)
	require.NoError(t, err)
	assert.Equal(t, "plain", payload["answer"])
}

func TestExtractPayloadFencedBlockWinsOverLaterBraces(t *testing.T) {
	g := testGateway(&stubLLM{}, time.Second)
	raw := "intro {not json} text\n```json\n{\"answer\": \"fenced\"}\n```"

	payload, err := g.ExtractPayload(raw)
	require.NoError(t, err)
	assert.Equal(t, "fenced", payload["answer"])
}

func TestExtractPayloadNestedObjects(t *testing.T) {
	g := testGateway(&stubLLM{}, time.Second)
	raw := `prefix {"outer": {"inner": [1, 2]}, "s": "x\"y"} suffix`

	payload, err := g.ExtractPayload(raw)
	require.NoError(t, err)
	outer, ok := payload["outer"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, outer, "inner")
}

func TestExtractPayloadMalformed(t *testing.T) {
	g := testGateway(&stubLLM{}, time.Second)
	_, err := g.ExtractPayload("I am sorry, I cannot produce structured output today.")
	require.Error(t, err)
	assert.Equal(t, errs.KindMalformedOutput, errs.KindOf(err))
	// The raw text travels with the error for diagnostics.
	assert.Contains(t, err.Error(), "cannot produce structured output")
}
