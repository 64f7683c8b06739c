package agent

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsight/internal/rag/errs"
	"docsight/internal/rag/gateway"
	"docsight/internal/rag/guideline"
	"docsight/internal/rag/schema"
	"docsight/pkg/logger"
)

// stubEmbedder returns a fixed-dimension vector derived from text length,
// deterministic across calls.
type stubEmbedder struct{}

func (stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = []float32{float32(len(text) % 7), float32(len(text) % 5), 1}
	}
	return out, nil
}

// stubLLM returns a canned response, counting calls.
type stubLLM struct {
	mu       sync.Mutex
	response string
	err      error
	calls    int
}

func (s *stubLLM) Generate(_ context.Context, _ string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubLLM) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

const partialAnalysisJSON = `{
	"summary": "A proposal for an AI-powered task manager with a feature list.",
	"completeness_status": "partial",
	"missing_points": ["timeline", "budget"],
	"evidence": ["Features: Task creation"],
	"confidence": 0.8
}`

const proposalText = "Project Proposal: AI Task Manager\n\n" +
	"We want to build an AI-powered task manager.\n\n" +
	"Features:\n- Task creation\n- Priority suggestions"

func newAnalysisAgent(t *testing.T, llm *stubLLM) *Analysis {
	t.Helper()
	logger.Init(logger.ParseLevel("error"))
	log := logger.New("agent_test")

	index, err := guideline.NewIndex(context.Background(), stubEmbedder{}, guideline.DefaultCorpus)
	require.NoError(t, err)

	return NewAnalysis(index, gateway.New(llm, 0, log), log)
}

func TestAnalyzePartialDocument(t *testing.T) {
	llm := &stubLLM{response: partialAnalysisJSON}
	agent := newAnalysisAgent(t, llm)

	result, err := agent.Analyze(context.Background(), proposalText)
	require.NoError(t, err)
	assert.Equal(t, schema.StatusPartial, result.CompletenessStatus)
	assert.NotEmpty(t, result.MissingPoints)
	assert.Equal(t, 1, llm.callCount())
}

func TestAnalyzeRejectsShortTextBeforeRetrieval(t *testing.T) {
	llm := &stubLLM{response: partialAnalysisJSON}
	agent := newAnalysisAgent(t, llm)

	_, err := agent.Analyze(context.Background(), "too short")
	require.Error(t, err)
	assert.Equal(t, errs.KindInput, errs.KindOf(err))
	assert.Zero(t, llm.callCount(), "input rejection must not reach the model")
}

func TestAnalyzeRejectsOversizedText(t *testing.T) {
	llm := &stubLLM{response: partialAnalysisJSON}
	agent := newAnalysisAgent(t, llm)

	_, err := agent.Analyze(context.Background(), strings.Repeat("x", AnalyzeMaxLen+1))
	require.Error(t, err)
	assert.Equal(t, errs.KindInput, errs.KindOf(err))
	assert.Zero(t, llm.callCount())
}

func TestAnalyzeBoundaryLengthsAccepted(t *testing.T) {
	llm := &stubLLM{response: partialAnalysisJSON}
	agent := newAnalysisAgent(t, llm)

	for _, n := range []int{AnalyzeMinLen, AnalyzeMaxLen} {
		_, err := agent.Analyze(context.Background(), strings.Repeat("y", n))
		assert.NoError(t, err, "length %d is inside the window", n)
	}
}

func TestAnalyzeModelFailureSurfacesKind(t *testing.T) {
	llm := &stubLLM{err: errors.New("connection refused")}
	agent := newAnalysisAgent(t, llm)

	_, err := agent.Analyze(context.Background(), proposalText)
	require.Error(t, err)
	assert.Equal(t, errs.KindModelUnavailable, errs.KindOf(err))
	assert.Equal(t, 1, llm.callCount(), "no internal retry")
}

func TestAnalyzeMalformedOutput(t *testing.T) {
	llm := &stubLLM{response: "I'm sorry, I can't produce structured output today."}
	agent := newAnalysisAgent(t, llm)

	_, err := agent.Analyze(context.Background(), proposalText)
	require.Error(t, err)
	assert.Equal(t, errs.KindMalformedOutput, errs.KindOf(err))
}

func TestAnalyzeInvalidPayloadFailsValidation(t *testing.T) {
	llm := &stubLLM{response: `{"summary": "short", "completeness_status": "done"}`}
	agent := newAnalysisAgent(t, llm)

	_, err := agent.Analyze(context.Background(), proposalText)
	require.Error(t, err)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
}

func TestAnalyzeConcurrentCallsAreIndependent(t *testing.T) {
	llm := &stubLLM{response: partialAnalysisJSON}
	agent := newAnalysisAgent(t, llm)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*schema.AnalysisResult, callers)
	errsOut := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errsOut[i] = agent.Analyze(context.Background(), proposalText)
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errsOut[i])
		assert.Equal(t, results[0], results[i], "identical input must yield identical output regardless of call order")
	}
}
