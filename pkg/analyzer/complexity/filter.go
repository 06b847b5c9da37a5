package complexity

import (
	"github.com/panbanda/swiftcx/pkg/stats"
)

// FilterByThreshold keeps the functions whose cyclomatic or cognitive
// complexity reaches threshold. Files left without functions are dropped and
// summaries are recomputed. A nil threshold returns results unchanged.
func FilterByThreshold(results []ComplexityResult, threshold *int) []ComplexityResult {
	if threshold == nil {
		return results
	}

	filtered := make([]ComplexityResult, 0, len(results))
	for _, r := range results {
		var kept []FunctionComplexity
		for _, fn := range r.Functions {
			if fn.Exceeds(*threshold) {
				kept = append(kept, fn)
			}
		}
		if len(kept) > 0 {
			filtered = append(filtered, NewResult(r.FilePath, kept))
		}
	}
	return filtered
}

// ExceedsThreshold reports whether any function in results reaches threshold.
func ExceedsThreshold(results []ComplexityResult, threshold int) bool {
	for _, r := range results {
		for _, fn := range r.Functions {
			if fn.Exceeds(threshold) {
				return true
			}
		}
	}
	return false
}

// BatchSummary aggregates a whole batch of file results.
type BatchSummary struct {
	TotalFiles     int                `json:"totalFiles" toon:"totalFiles"`
	TotalFunctions int                `json:"totalFunctions" toon:"totalFunctions"`
	Cyclomatic     stats.Distribution `json:"cyclomatic" toon:"cyclomatic"`
	Cognitive      stats.Distribution `json:"cognitive" toon:"cognitive"`
}

// SummarizeBatch computes the batch-wide metric distributions.
func SummarizeBatch(results []ComplexityResult) BatchSummary {
	var cyclomatic, cognitive []int
	for _, r := range results {
		for _, fn := range r.Functions {
			cyclomatic = append(cyclomatic, fn.CyclomaticComplexity)
			cognitive = append(cognitive, fn.CognitiveComplexity)
		}
	}
	return BatchSummary{
		TotalFiles:     len(results),
		TotalFunctions: len(cyclomatic),
		Cyclomatic:     stats.Describe(stats.Ints(cyclomatic)),
		Cognitive:      stats.Describe(stats.Ints(cognitive)),
	}
}
