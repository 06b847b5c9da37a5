// Package parser turns Swift source into the reduced syntax tree used by the
// complexity calculators.
package parser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/panbanda/swiftcx/pkg/syntax"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/swift"
)

// SwiftExtension is the file extension of Swift sources.
const SwiftExtension = ".swift"

// ErrNoTree is returned when tree-sitter produces no tree for the input.
var ErrNoTree = errors.New("parser produced no syntax tree")

// Parser wraps a tree-sitter Swift parser. A Parser is not safe for
// concurrent use; give each goroutine its own.
type Parser struct {
	parser *sitter.Parser
}

// New creates a new parser instance.
func New() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(swift.GetLanguage())
	return &Parser{parser: p}
}

// ParseFile reads and parses a Swift source file.
func (p *Parser) ParseFile(ctx context.Context, path string) (*syntax.File, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return p.Parse(ctx, source, path)
}

// Parse parses source code. Syntax errors in the input do not fail the parse;
// erroneous regions are lowered like any other unknown construct.
func (p *Parser) Parse(ctx context.Context, source []byte, path string) (*syntax.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}
	if tree == nil {
		return nil, ErrNoTree
	}
	defer tree.Close()

	l := &lowerer{src: source}
	root := l.lower(tree.RootNode())
	if root == nil {
		root = syntax.NewFile()
	}
	root.Kind = syntax.KindFile

	return &syntax.File{
		Path:  path,
		Root:  root,
		Lines: syntax.NewLineIndex(source),
	}, nil
}

// Close releases parser resources.
func (p *Parser) Close() {
	p.parser.Close()
}

// IsSwiftFile reports whether path names a Swift source file.
func IsSwiftFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), SwiftExtension)
}

// GetNodeText extracts the source text for a node.
// Returns empty string if node is nil or byte offsets are out of bounds.
func GetNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if start > end || end > uint32(len(source)) {
		return ""
	}
	return string(source[start:end])
}
