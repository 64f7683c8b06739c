package guideline

// DefaultCorpus is the static set of analysis guidelines embedded at
// startup. The completeness prompts were written against these texts; they
// are never mutated at runtime.
var DefaultCorpus = []string{
	`A complete document should include:
- Clear title or heading
- Introduction or overview section
- Main content with logical structure
- Conclusion or summary
- References or citations (if applicable)`,

	`When assessing document completeness:
- Check for logical flow between sections
- Verify that claims are supported by evidence
- Look for missing context or unexplained terms
- Identify gaps in reasoning or argumentation`,

	`Evidence-based analysis principles:
- Only cite information present in the document
- Use direct quotes when possible
- Do not make assumptions about missing information
- Mark uncertain assessments with lower confidence scores`,

	`Common completeness issues to check:
- Missing introduction or background
- Undefined abbreviations or acronyms
- Unsupported claims without evidence
- Abrupt ending without conclusion
- Missing references for cited facts`,
}
