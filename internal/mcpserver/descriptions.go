package mcpserver

// Tool descriptions with interpretation guidance for LLMs.

func describeComplexity() string {
	return `Measures cyclomatic and cognitive complexity of every function, method, initializer, deinitializer and property accessor in Swift files.

USE WHEN:
- Identifying Swift functions that are hard to test or maintain
- Finding refactoring candidates before code reviews
- Checking whether a change pushed a function over a team threshold

INTERPRETING RESULTS:
- Cyclomatic complexity counts independent paths: 1 + each if, guard, loop, case, catch, ternary, &&, || and ??
- Cyclomatic complexity >= 10: many code paths, consider splitting
- Cognitive complexity weighs nesting: nested branches cost more than flat ones
- Cognitive complexity >= 15: hard to follow, flatten with early exits or extraction
- Each else-if costs 1 regardless of depth; guard costs 1 and never nests
- Recursion is not scored

METRICS RETURNED:
- Per-function: name, signature, cyclomaticComplexity, cognitiveComplexity, location (line, column)
- Per-file: totals, averages and maxima
- Summary: mean, max, P50, P90, P95 of both metrics across the batch
- Failures: files that could not be read when keep_going is set`
}

func describeSource() string {
	return `Measures cyclomatic and cognitive complexity of inline Swift source code without touching the filesystem.

USE WHEN:
- Scoring a snippet before it is written to disk
- Comparing two candidate implementations of the same function

INTERPRETING RESULTS:
- Same metrics and thresholds as analyze_complexity
- Syntax errors do not fail the analysis; partially parsed functions are still scored

METRICS RETURNED:
- Per-function: name, signature, cyclomaticComplexity, cognitiveComplexity, location
- Per-file summary: totals, averages and maxima`
}
