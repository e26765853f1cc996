package domain

import "strings"

// QueryContext is a coarse query-intent classification used to pick
// which source adapters participate in a search.
type QueryContext string

const (
	// ContextAuto asks the orchestrator to classify the query itself.
	ContextAuto QueryContext = "auto"

	// ContextError indicates a troubleshooting query.
	ContextError QueryContext = "error"

	// ContextCodeExample indicates a query looking for sample code.
	ContextCodeExample QueryContext = "code_example"

	// ContextDocumentation indicates a query for reference material.
	ContextDocumentation QueryContext = "documentation"

	// ContextBestPractice indicates a query about patterns and tuning.
	ContextBestPractice QueryContext = "best_practice"

	// ContextAll searches every source.
	ContextAll QueryContext = "all"
)

// Valid reports whether the context is a recognised classification.
func (c QueryContext) Valid() bool {
	switch c {
	case ContextAuto, ContextError, ContextCodeExample, ContextDocumentation, ContextBestPractice, ContextAll:
		return true
	}
	return false
}

// Keyword lists for query classification, checked in order. The first
// matching bucket wins; queries matching nothing default to ContextAll.
var (
	errorKeywords    = []string{"error", "exception", "traceback", "failed", "crash", "bug", "troubleshoot"}
	codeKeywords     = []string{"example", "sample", "how to", "tutorial", "implementation", "repo", "pull request", "issue"}
	docKeywords      = []string{"documentation", "docs", "api", "reference", "guide", "manual"}
	practiceKeywords = []string{"best practice", "pattern", "optimization", "performance", "design pattern"}
)

// DetectContext classifies a query by keyword matching. This is a
// heuristic, not a model: substring matches against the lowercased
// query, ties resolved by bucket order.
func DetectContext(query string) QueryContext {
	q := strings.ToLower(query)

	if containsAny(q, errorKeywords) {
		return ContextError
	}
	if containsAny(q, codeKeywords) {
		return ContextCodeExample
	}
	if containsAny(q, docKeywords) {
		return ContextDocumentation
	}
	if containsAny(q, practiceKeywords) {
		return ContextBestPractice
	}
	return ContextAll
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// SourcesFor maps a resolved context to the sources worth querying.
// ContextAll (and anything unrecognised) fans out to every source.
func (c QueryContext) SourcesFor() []SourceType {
	switch c {
	case ContextError:
		return []SourceType{SourceQASite}
	case ContextCodeExample:
		return []SourceType{SourceCodeHost}
	case ContextDocumentation, ContextBestPractice:
		return []SourceType{SourceDocs}
	}
	return AllSourceTypes
}
