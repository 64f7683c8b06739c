// Package agent orchestrates the analysis and question-answering pipelines.
// Each call runs the full retrieve, prompt, generate, validate sequence once;
// no internal retry, no per-request state outside the call stack.
package agent

// state names the phase a pipeline run is in, for structured logging. It
// lives on the stack of one call, never on the agent.
type state string

const (
	stateRetrieving state = "retrieving"
	statePrompting  state = "prompting"
	stateGenerating state = "generating"
	stateValidating state = "validating"
	stateDone       state = "done"
	stateFailed     state = "failed"
)
