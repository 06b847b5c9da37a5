package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/panbanda/swiftcx/pkg/analyzer/complexity"
	"github.com/panbanda/swiftcx/pkg/stats"
	toon "github.com/toon-format/toon-go"
)

// Format represents an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatXML      Format = "xml"
	FormatXcode    Format = "xcode"
	FormatMarkdown Format = "markdown"
	FormatTOON     Format = "toon"
)

// ParseFormat converts a string to Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "xml":
		return FormatXML, nil
	case "xcode":
		return FormatXcode, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "toon":
		return FormatTOON, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Metric selects which complexity columns are shown.
type Metric string

const (
	MetricBoth       Metric = "both"
	MetricCyclomatic Metric = "cyclomatic"
	MetricCognitive  Metric = "cognitive"
)

// ParseMetric converts a string to Metric.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(s) {
	case "", "both":
		return MetricBoth, nil
	case "cyclomatic":
		return MetricCyclomatic, nil
	case "cognitive":
		return MetricCognitive, nil
	default:
		return "", fmt.Errorf("unknown metric %q", s)
	}
}

func (m Metric) showCyclomatic() bool { return m != MetricCognitive }
func (m Metric) showCognitive() bool  { return m != MetricCyclomatic }

// Options controls rendering.
type Options struct {
	Format Format
	Metric Metric
	// Threshold is the user threshold; xcode warnings use it when set.
	Threshold int
	// Per-metric warning levels, used for highlighting and as xcode
	// fallbacks when Threshold is 0.
	CyclomaticWarn int
	CognitiveWarn  int
	Colored        bool
}

// Formatter handles output formatting.
type Formatter struct {
	opts   Options
	writer io.Writer
	file   *os.File
}

// NewFormatter creates a formatter writing to output, or stdout when output
// is empty. Color is disabled for file output.
func NewFormatter(opts Options, output string) (*Formatter, error) {
	var writer io.Writer = os.Stdout
	var file *os.File

	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return nil, err
		}
		writer = f
		file = f
		opts.Colored = false
	}

	f := NewWriterFormatter(opts, writer)
	f.file = file
	return f, nil
}

// NewWriterFormatter creates a formatter over an existing writer.
func NewWriterFormatter(opts Options, w io.Writer) *Formatter {
	if opts.Format == "" {
		opts.Format = FormatText
	}
	if opts.Metric == "" {
		opts.Metric = MetricBoth
	}
	return &Formatter{opts: opts, writer: w}
}

// Close closes the formatter's writer if it's a file.
func (f *Formatter) Close() error {
	if f.file != nil {
		return f.file.Close()
	}
	return nil
}

// Writer returns the underlying writer.
func (f *Formatter) Writer() io.Writer {
	return f.writer
}

// Format returns the configured format.
func (f *Formatter) Format() Format {
	return f.opts.Format
}

// Colored returns whether colored output is enabled.
func (f *Formatter) Colored() bool {
	return f.opts.Colored
}

// Render writes results in the configured format.
func (f *Formatter) Render(results []complexity.ComplexityResult) error {
	switch f.opts.Format {
	case FormatJSON:
		return f.renderJSON(results)
	case FormatXML:
		return f.renderXML(results)
	case FormatXcode:
		return f.renderXcode(results)
	case FormatMarkdown:
		return f.renderMarkdown(results)
	case FormatTOON:
		return f.renderTOON(results)
	default:
		return f.renderText(results)
	}
}

// Report is the document shape of the json format.
type Report struct {
	Files []complexity.ComplexityResult `json:"files" toon:"files"`
}

// SummaryReport adds the batch summary; used by toon and MCP output.
type SummaryReport struct {
	Files   []complexity.ComplexityResult `json:"files" toon:"files"`
	Summary complexity.BatchSummary       `json:"summary" toon:"summary"`
}

// NewSummaryReport pairs results with their batch summary.
func NewSummaryReport(results []complexity.ComplexityResult) SummaryReport {
	if results == nil {
		results = []complexity.ComplexityResult{}
	}
	return SummaryReport{Files: results, Summary: complexity.SummarizeBatch(results)}
}

func (f *Formatter) renderJSON(results []complexity.ComplexityResult) error {
	if results == nil {
		results = []complexity.ComplexityResult{}
	}
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(Report{Files: results})
}

func (f *Formatter) renderTOON(results []complexity.ComplexityResult) error {
	out, err := toon.Marshal(NewSummaryReport(results), toon.WithIndent(2))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f.writer, string(out))
	return err
}

func (f *Formatter) headers() []string {
	headers := []string{"Function/Method"}
	if f.opts.Metric.showCyclomatic() {
		headers = append(headers, "Cyclomatic")
	}
	if f.opts.Metric.showCognitive() {
		headers = append(headers, "Cognitive")
	}
	return headers
}

func (f *Formatter) row(fn complexity.FunctionComplexity, colored bool) []string {
	row := []string{fn.Name}
	if f.opts.Metric.showCyclomatic() {
		row = append(row, level(fn.CyclomaticComplexity, f.opts.CyclomaticWarn, colored))
	}
	if f.opts.Metric.showCognitive() {
		row = append(row, level(fn.CognitiveComplexity, f.opts.CognitiveWarn, colored))
	}
	return row
}

// summaryLine renders the per-file footer.
func (f *Formatter) summaryLine(s complexity.FileSummary) string {
	line := fmt.Sprintf("Total: %d functions", s.TotalFunctions)
	if f.opts.Metric.showCyclomatic() {
		line += fmt.Sprintf(", Average Cyclomatic: %.1f", s.AverageCyclomaticComplexity)
	}
	if f.opts.Metric.showCognitive() {
		line += fmt.Sprintf(", Average Cognitive: %.1f", s.AverageCognitiveComplexity)
	}
	return line
}

// batchLines renders the batch summary footer.
func (f *Formatter) batchLines(s complexity.BatchSummary) []string {
	lines := []string{fmt.Sprintf("Files: %d, Functions: %d", s.TotalFiles, s.TotalFunctions)}
	if s.TotalFunctions == 0 {
		return lines
	}
	if f.opts.Metric.showCyclomatic() {
		lines = append(lines, "Cyclomatic: "+distribution(s.Cyclomatic))
	}
	if f.opts.Metric.showCognitive() {
		lines = append(lines, "Cognitive: "+distribution(s.Cognitive))
	}
	return lines
}

func distribution(d stats.Distribution) string {
	return fmt.Sprintf("mean %.1f, max %.0f, p50 %.0f, p90 %.0f, p95 %.0f", d.Mean, d.Max, d.P50, d.P90, d.P95)
}

func (f *Formatter) renderText(results []complexity.ComplexityResult) error {
	w := f.writer
	colored := f.opts.Colored
	printed := 0

	for _, r := range results {
		if len(r.Functions) == 0 {
			continue
		}
		if printed > 0 {
			fmt.Fprintln(w)
		}
		printed++

		if colored {
			color.New(color.Bold).Fprintf(w, "File: %s\n", r.FilePath)
		} else {
			fmt.Fprintf(w, "File: %s\n", r.FilePath)
		}

		table := newTable(w)
		table.Header(f.headers())
		for _, fn := range r.Functions {
			if err := table.Append(f.row(fn, colored)); err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
		fmt.Fprintln(w, f.summaryLine(r.Summary))
	}

	if len(results) > 1 {
		fmt.Fprintln(w)
		for _, line := range f.batchLines(complexity.SummarizeBatch(results)) {
			if colored {
				color.New(color.FgCyan).Fprintln(w, line)
			} else {
				fmt.Fprintln(w, line)
			}
		}
	}
	return nil
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{
					AutoFormat: tw.Off,
				},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
	)
}

func (f *Formatter) renderMarkdown(results []complexity.ComplexityResult) error {
	w := f.writer
	headers := f.headers()

	fmt.Fprintln(w, "# Complexity Report")
	fmt.Fprintln(w)

	for _, r := range results {
		if len(r.Functions) == 0 {
			continue
		}
		fmt.Fprintf(w, "## %s\n\n", r.FilePath)
		fmt.Fprintf(w, "| %s |\n", strings.Join(headers, " | "))

		seps := make([]string, len(headers))
		for i := range seps {
			seps[i] = "---"
		}
		fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))

		for _, fn := range r.Functions {
			row := f.row(fn, false)
			row[0] = "`" + strings.ReplaceAll(fn.Name, "|", `\|`) + "`"
			fmt.Fprintf(w, "| %s |\n", strings.Join(row, " | "))
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s\n\n", f.summaryLine(r.Summary))
	}

	fmt.Fprintln(w, "## Summary")
	fmt.Fprintln(w)
	for _, line := range f.batchLines(complexity.SummarizeBatch(results)) {
		fmt.Fprintf(w, "- %s\n", line)
	}
	return nil
}

// renderXcode emits compiler-style warnings that Xcode shows inline.
func (f *Formatter) renderXcode(results []complexity.ComplexityResult) error {
	cyclomaticLimit, cognitiveLimit := f.opts.CyclomaticWarn, f.opts.CognitiveWarn
	if f.opts.Threshold > 0 {
		cyclomaticLimit, cognitiveLimit = f.opts.Threshold, f.opts.Threshold
	}

	for _, r := range results {
		for _, fn := range r.Functions {
			prefix := r.FilePath + ":" + strconv.Itoa(fn.Location.Line) + ":" + strconv.Itoa(fn.Location.Column)
			if f.opts.Metric.showCyclomatic() && cyclomaticLimit > 0 && fn.CyclomaticComplexity >= cyclomaticLimit {
				fmt.Fprintf(f.writer, "%s: warning: '%s' has cyclomatic complexity of %d (threshold %d)\n",
					prefix, fn.Name, fn.CyclomaticComplexity, cyclomaticLimit)
			}
			if f.opts.Metric.showCognitive() && cognitiveLimit > 0 && fn.CognitiveComplexity >= cognitiveLimit {
				fmt.Fprintf(f.writer, "%s: warning: '%s' has cognitive complexity of %d (threshold %d)\n",
					prefix, fn.Name, fn.CognitiveComplexity, cognitiveLimit)
			}
		}
	}
	return nil
}

// level formats a metric value, colored by how far it is past warn.
func level(value, warn int, colored bool) string {
	text := strconv.Itoa(value)
	if !colored || warn <= 0 {
		return text
	}
	switch {
	case value >= warn*2:
		return color.RedString(text)
	case value >= warn:
		return color.YellowString(text)
	default:
		return text
	}
}

// Message helpers for colored output

func (f *Formatter) Success(format string, args ...any) {
	if f.opts.Colored {
		color.New(color.FgGreen).Fprintf(f.writer, format+"\n", args...)
	} else {
		fmt.Fprintf(f.writer, format+"\n", args...)
	}
}

func (f *Formatter) Warning(format string, args ...any) {
	if f.opts.Colored {
		color.New(color.FgYellow).Fprintf(f.writer, format+"\n", args...)
	} else {
		fmt.Fprintf(f.writer, "WARNING: "+format+"\n", args...)
	}
}

func (f *Formatter) Error(format string, args ...any) {
	if f.opts.Colored {
		color.New(color.FgRed).Fprintf(f.writer, format+"\n", args...)
	} else {
		fmt.Fprintf(f.writer, "ERROR: "+format+"\n", args...)
	}
}
