package complexity

import (
	"github.com/panbanda/swiftcx/pkg/syntax"
)

// DetectedFunction is a function-like declaration found in a syntax tree.
type DetectedFunction struct {
	Name      string
	Signature string
	Body      *syntax.Node
	Location  syntax.Location
}

// FunctionComplexity holds both metrics for a single function.
type FunctionComplexity struct {
	Name                 string          `json:"name" toon:"name"`
	Signature            string          `json:"signature" toon:"signature"`
	CyclomaticComplexity int             `json:"cyclomaticComplexity" toon:"cyclomaticComplexity"`
	CognitiveComplexity  int             `json:"cognitiveComplexity" toon:"cognitiveComplexity"`
	Location             syntax.Location `json:"location" toon:"location"`
}

// Exceeds reports whether either metric reaches threshold.
func (f FunctionComplexity) Exceeds(threshold int) bool {
	return f.CyclomaticComplexity >= threshold || f.CognitiveComplexity >= threshold
}

// FileSummary aggregates the functions of one file.
type FileSummary struct {
	TotalFunctions              int     `json:"totalFunctions" toon:"totalFunctions"`
	AverageCyclomaticComplexity float64 `json:"averageCyclomaticComplexity" toon:"averageCyclomaticComplexity"`
	AverageCognitiveComplexity  float64 `json:"averageCognitiveComplexity" toon:"averageCognitiveComplexity"`
	MaxCyclomaticComplexity     int     `json:"maxCyclomaticComplexity" toon:"maxCyclomaticComplexity"`
	MaxCognitiveComplexity      int     `json:"maxCognitiveComplexity" toon:"maxCognitiveComplexity"`
	TotalCyclomaticComplexity   int     `json:"totalCyclomaticComplexity" toon:"totalCyclomaticComplexity"`
	TotalCognitiveComplexity    int     `json:"totalCognitiveComplexity" toon:"totalCognitiveComplexity"`
}

// Summarize derives a FileSummary from a function list. An empty list yields
// the zero summary.
func Summarize(functions []FunctionComplexity) FileSummary {
	var s FileSummary
	if len(functions) == 0 {
		return s
	}

	s.TotalFunctions = len(functions)
	for _, fn := range functions {
		s.TotalCyclomaticComplexity += fn.CyclomaticComplexity
		s.TotalCognitiveComplexity += fn.CognitiveComplexity
		s.MaxCyclomaticComplexity = max(s.MaxCyclomaticComplexity, fn.CyclomaticComplexity)
		s.MaxCognitiveComplexity = max(s.MaxCognitiveComplexity, fn.CognitiveComplexity)
	}
	s.AverageCyclomaticComplexity = float64(s.TotalCyclomaticComplexity) / float64(s.TotalFunctions)
	s.AverageCognitiveComplexity = float64(s.TotalCognitiveComplexity) / float64(s.TotalFunctions)
	return s
}

// ComplexityResult is the analysis of one file.
type ComplexityResult struct {
	FilePath  string               `json:"filePath" toon:"filePath"`
	Functions []FunctionComplexity `json:"functions" toon:"functions"`
	Summary   FileSummary          `json:"summary" toon:"summary"`
}

// NewResult builds a result whose summary is derived from functions.
func NewResult(path string, functions []FunctionComplexity) ComplexityResult {
	if functions == nil {
		functions = []FunctionComplexity{}
	}
	return ComplexityResult{
		FilePath:  path,
		Functions: functions,
		Summary:   Summarize(functions),
	}
}
