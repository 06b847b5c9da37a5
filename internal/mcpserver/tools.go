package mcpserver

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/swiftcx/internal/output"
	"github.com/panbanda/swiftcx/internal/service/analysis"
	"github.com/panbanda/swiftcx/pkg/analyzer/complexity"
	toon "github.com/toon-format/toon-go"
)

// ComplexityInput is the input of analyze_complexity.
type ComplexityInput struct {
	Paths     []string `json:"paths,omitempty" jsonschema:"Swift files or directories to analyze. Defaults to the current directory if empty."`
	Format    string   `json:"format,omitempty" jsonschema:"Output format: toon (default) or json."`
	Threshold int      `json:"threshold,omitempty" jsonschema:"Only report functions whose cyclomatic or cognitive complexity is at least this value. 0 reports all."`
	Recursive bool     `json:"recursive,omitempty" jsonschema:"Descend into subdirectories."`
	KeepGoing bool     `json:"keep_going,omitempty" jsonschema:"Report unreadable files as failures instead of aborting."`
}

// SourceInput is the input of analyze_source.
type SourceInput struct {
	Code     string `json:"code" jsonschema:"Swift source code to analyze."`
	FileName string `json:"file_name,omitempty" jsonschema:"Name reported for the source. Default Input.swift."`
	Format   string `json:"format,omitempty" jsonschema:"Output format: toon (default) or json."`
}

// Failure is a file that could not be analyzed.
type Failure struct {
	Path  string `json:"path" toon:"path"`
	Error string `json:"error" toon:"error"`
}

// ComplexityPayload is the analyze_complexity response document.
type ComplexityPayload struct {
	Files     []complexity.ComplexityResult `json:"files" toon:"files"`
	Summary   complexity.BatchSummary       `json:"summary" toon:"summary"`
	Exceeded  bool                          `json:"exceeded" toon:"exceeded"`
	Failures  []Failure                     `json:"failures,omitempty" toon:"failures,omitempty"`
	Threshold int                           `json:"threshold,omitempty" toon:"threshold,omitempty"`
}

const defaultSourceName = "Input.swift"

func getPaths(input ComplexityInput) []string {
	if len(input.Paths) == 0 {
		return []string{"."}
	}
	return input.Paths
}

func getFormat(format string) output.Format {
	if strings.EqualFold(format, "json") {
		return output.FormatJSON
	}
	return output.FormatTOON
}

func formatOutput(data any, format output.Format) (string, error) {
	if format == output.FormatJSON {
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
	out, err := toon.Marshal(data, toon.WithIndent(2))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

func (s *Server) handleAnalyzeComplexity(ctx context.Context, req *mcp.CallToolRequest, input ComplexityInput) (*mcp.CallToolResult, any, error) {
	if input.Threshold < 0 {
		return toolError("threshold must not be negative")
	}

	recursive := input.Recursive
	files, err := s.svc.Collect(getPaths(input), analysis.CollectOptions{Recursive: &recursive})
	if err != nil {
		return toolError(err.Error())
	}

	report, err := s.svc.AnalyzeComplexity(ctx, files, analysis.ComplexityOptions{KeepGoing: input.KeepGoing})
	if err != nil {
		return toolError(err.Error())
	}

	results := report.Results
	payload := ComplexityPayload{Threshold: input.Threshold}
	if input.Threshold > 0 {
		payload.Exceeded = complexity.ExceedsThreshold(results, input.Threshold)
		results = complexity.FilterByThreshold(results, &input.Threshold)
	}
	summary := output.NewSummaryReport(results)
	payload.Files = summary.Files
	payload.Summary = summary.Summary
	for _, f := range report.Failures.Errors {
		payload.Failures = append(payload.Failures, Failure{Path: f.Path, Error: f.Err.Error()})
	}

	return toolResult(payload, getFormat(input.Format))
}

func (s *Server) handleAnalyzeSource(ctx context.Context, req *mcp.CallToolRequest, input SourceInput) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(input.Code) == "" {
		return toolError("code is required")
	}
	name := input.FileName
	if name == "" {
		name = defaultSourceName
	}

	result, err := s.svc.AnalyzeSource(ctx, []byte(input.Code), name)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(result, getFormat(input.Format))
}
