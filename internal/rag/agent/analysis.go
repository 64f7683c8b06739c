package agent

import (
	"context"
	"unicode/utf8"

	"docsight/internal/rag/errs"
	"docsight/internal/rag/gateway"
	"docsight/internal/rag/guideline"
	"docsight/internal/rag/prompt"
	"docsight/internal/rag/schema"
	"docsight/internal/rag/validate"
	"docsight/pkg/logger"
)

// Input bounds for a single analysis request, in characters.
const (
	AnalyzeMinLen = 20
	AnalyzeMaxLen = 10000
)

// GuidelineTopK is how many guidelines inform one analysis.
const GuidelineTopK = 2

// Analysis runs the document completeness pipeline: guideline retrieval,
// prompt assembly, one generation call, strict validation.
type Analysis struct {
	guidelines *guideline.Index
	gw         *gateway.Gateway
	log        *logger.Logger
}

// NewAnalysis creates an analysis agent.
func NewAnalysis(guidelines *guideline.Index, gw *gateway.Gateway, log *logger.Logger) *Analysis {
	return &Analysis{guidelines: guidelines, gw: gw, log: log}
}

// Analyze runs one analysis of documentText. Text outside the length window
// is rejected before any retrieval cost is paid. One attempt per call; the
// caller owns retry policy.
func (a *Analysis) Analyze(ctx context.Context, documentText string) (*schema.AnalysisResult, error) {
	if n := utf8.RuneCountInString(documentText); n < AnalyzeMinLen || n > AnalyzeMaxLen {
		return nil, errs.Newf(errs.KindInput,
			"document length %d outside bounds [%d, %d]", n, AnalyzeMinLen, AnalyzeMaxLen)
	}

	a.transition(stateRetrieving)
	guidelines, err := a.guidelines.Retrieve(ctx, documentText, GuidelineTopK)
	if err != nil {
		return nil, a.fail(err)
	}

	a.transition(statePrompting)
	p := prompt.Assemble(schema.TaskAnalysis, documentText, guidelines)

	a.transition(stateGenerating)
	raw, err := a.gw.Generate(ctx, p)
	if err != nil {
		return nil, a.fail(err)
	}
	payload, err := a.gw.ExtractPayload(raw)
	if err != nil {
		return nil, a.fail(err)
	}

	a.transition(stateValidating)
	result, err := validate.Analysis(payload)
	if err != nil {
		return nil, a.fail(err)
	}

	a.transition(stateDone)
	return result, nil
}

func (a *Analysis) transition(s state) {
	a.log.WithField("state", string(s)).Debug("analysis pipeline")
}

func (a *Analysis) fail(err error) error {
	a.log.WithField("state", string(stateFailed)).WithError(err).Warn("analysis pipeline failed")
	return err
}
