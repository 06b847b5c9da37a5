package output

import (
	"encoding/xml"
	"fmt"

	"github.com/panbanda/swiftcx/pkg/analyzer/complexity"
)

type xmlReport struct {
	XMLName xml.Name  `xml:"complexity-report"`
	Files   []xmlFile `xml:"file"`
}

type xmlFile struct {
	Path      string        `xml:"path,attr"`
	Functions []xmlFunction `xml:"function"`
	Summary   xmlSummary    `xml:"summary"`
}

type xmlFunction struct {
	Name       string `xml:"name,attr"`
	Signature  string `xml:"signature,attr"`
	Line       int    `xml:"line,attr"`
	Column     int    `xml:"column,attr"`
	Cyclomatic int    `xml:"cyclomatic-complexity"`
	Cognitive  int    `xml:"cognitive-complexity"`
}

type xmlSummary struct {
	TotalFunctions    int     `xml:"total-functions"`
	AverageCyclomatic float64 `xml:"average-cyclomatic-complexity"`
	AverageCognitive  float64 `xml:"average-cognitive-complexity"`
	MaxCyclomatic     int     `xml:"max-cyclomatic-complexity"`
	MaxCognitive      int     `xml:"max-cognitive-complexity"`
}

func newXMLReport(results []complexity.ComplexityResult) xmlReport {
	report := xmlReport{Files: make([]xmlFile, 0, len(results))}
	for _, r := range results {
		file := xmlFile{
			Path:      r.FilePath,
			Functions: make([]xmlFunction, 0, len(r.Functions)),
			Summary: xmlSummary{
				TotalFunctions:    r.Summary.TotalFunctions,
				AverageCyclomatic: r.Summary.AverageCyclomaticComplexity,
				AverageCognitive:  r.Summary.AverageCognitiveComplexity,
				MaxCyclomatic:     r.Summary.MaxCyclomaticComplexity,
				MaxCognitive:      r.Summary.MaxCognitiveComplexity,
			},
		}
		for _, fn := range r.Functions {
			file.Functions = append(file.Functions, xmlFunction{
				Name:       fn.Name,
				Signature:  fn.Signature,
				Line:       fn.Location.Line,
				Column:     fn.Location.Column,
				Cyclomatic: fn.CyclomaticComplexity,
				Cognitive:  fn.CognitiveComplexity,
			})
		}
		report.Files = append(report.Files, file)
	}
	return report
}

func (f *Formatter) renderXML(results []complexity.ComplexityResult) error {
	if _, err := fmt.Fprint(f.writer, xml.Header); err != nil {
		return err
	}
	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(newXMLReport(results)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(f.writer)
	return err
}
