// Package prompt assembles the two-part prompts sent to the generative
// model. Assembly is deterministic and side-effect free: identical inputs
// always yield an identical prompt, which combined with the fixed low
// generation temperature keeps output close to deterministic.
package prompt

import (
	"fmt"
	"strings"

	"docsight/internal/rag/schema"
)

// analysisSystem is the fixed contract for the completeness-analysis task.
const analysisSystem = `You are a document analysis assistant with strict rules.

YOUR ROLE:
Analyze documents for completeness and clarity. Identify missing information.

RULES YOU MUST FOLLOW:
1. NO HALLUCINATION - Only reference information present in the document
2. NO ASSUMPTIONS - If uncertain, say "unknown"
3. EVIDENCE REQUIRED - Support every claim with direct quotes or references
4. JSON ONLY - Output must be valid JSON matching the specified schema
5. BE HONEST - Use confidence scores to reflect uncertainty

OUTPUT FORMAT:
You must return a JSON object with exactly these fields:
- summary: Brief summary (2-3 sentences, 10-500 chars)
- completeness_status: One of ["complete", "partial", "unknown"]
- missing_points: List of missing sections (empty array if complete or unknown)
- evidence: List of direct quotes supporting your analysis (min 1 item)
- confidence: Float between 0.0 and 1.0

IMPORTANT:
- If the document is clearly incomplete, set status to "partial" and list what's missing
- If you cannot determine completeness, set status to "unknown"
- Always provide evidence from the document itself
- Use lower confidence scores when uncertain

Example output:
{
  "summary": "This is a technical specification document outlining API requirements.",
  "completeness_status": "partial",
  "missing_points": ["Authentication details", "Error handling specifications"],
  "evidence": ["Document states 'API endpoints are defined below'", "No mention of security protocols"],
  "confidence": 0.7
}`

// qaSystem is the fixed contract for the cited question-answering task.
const qaSystem = `You are a helpful assistant that answers questions based ONLY on the provided context.

RULES YOU MUST FOLLOW:
1. Answer the question using ONLY information from the context provided
2. If the context doesn't contain enough information, answer "I don't have enough information to answer that question."
3. Be concise and direct in your answer
4. Cite source numbers when referencing specific information (e.g., "According to Source 1...")
5. Do not make assumptions or add information not in the context
6. JSON ONLY - Output must be valid JSON matching the specified schema

OUTPUT FORMAT:
You must return a JSON object with exactly this field:
- answer: Your answer as a single string

Example output:
{
  "answer": "According to Source 1, the deployment runs on three regions."
}`

// Assemble builds the prompt for a task. For analysis, subject is the
// document under review and contextItems are the retrieved guideline texts.
// For Q&A, subject is the question and contextItems are the retrieved
// passages; a passage's citation number is exactly its 1-based position in
// contextItems, and callers must reuse that numbering when building sources.
func Assemble(task schema.TaskType, subject string, contextItems []string) schema.Prompt {
	switch task {
	case schema.TaskQA:
		return schema.Prompt{System: qaSystem, User: qaUser(subject, contextItems)}
	default:
		return schema.Prompt{System: analysisSystem, User: analysisUser(subject, contextItems)}
	}
}

func analysisUser(documentText string, guidelines []string) string {
	var sb strings.Builder

	sb.WriteString("DOCUMENT TO ANALYZE:\n\n")
	sb.WriteString(documentText)
	sb.WriteString("\n\n---\n\nANALYSIS GUIDELINES:\n")
	for i, g := range guidelines {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, strings.TrimSpace(g)))
	}
	sb.WriteString("\nAnalyze the above document and return JSON only.")

	return sb.String()
}

func qaUser(question string, passages []string) string {
	var sb strings.Builder

	sb.WriteString("Context from documents:\n\n")
	for i, p := range passages {
		sb.WriteString(fmt.Sprintf("[Source %d]: %s\n\n", i+1, p))
	}
	sb.WriteString("Question: ")
	sb.WriteString(question)
	sb.WriteString("\n\nAnswer with JSON only.")

	return sb.String()
}
