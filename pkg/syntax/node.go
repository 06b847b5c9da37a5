// Package syntax defines the reduced Swift syntax tree consumed by the
// complexity calculators.
//
// The parser lowers a concrete tree-sitter tree into this closed set of node
// kinds. Every construct the calculators do not score is kept as KindOther so
// that nested scorable constructs stay reachable.
package syntax

// Kind identifies the syntactic role of a Node.
type Kind uint8

const (
	KindOther Kind = iota
	KindFile
	KindTypeDecl
	KindVarDecl
	KindFunctionDecl
	KindInitDecl
	KindDeinitDecl
	KindAccessorDecl
	KindBlock
	KindIf
	KindElse
	KindGuard
	KindWhile
	KindFor
	KindRepeat
	KindSwitch
	KindCase
	KindDefault
	KindDo
	KindCatch
	KindTernary
	KindBinary
	KindCall
	KindClosure

	kindCount
)

var kindNames = [kindCount]string{
	KindOther:        "other",
	KindFile:         "file",
	KindTypeDecl:     "type_decl",
	KindVarDecl:      "var_decl",
	KindFunctionDecl: "function_decl",
	KindInitDecl:     "init_decl",
	KindDeinitDecl:   "deinit_decl",
	KindAccessorDecl: "accessor_decl",
	KindBlock:        "block",
	KindIf:           "if",
	KindElse:         "else",
	KindGuard:        "guard",
	KindWhile:        "while",
	KindFor:          "for",
	KindRepeat:       "repeat",
	KindSwitch:       "switch",
	KindCase:         "case",
	KindDefault:      "default",
	KindDo:           "do",
	KindCatch:        "catch",
	KindTernary:      "ternary",
	KindBinary:       "binary",
	KindCall:         "call",
	KindClosure:      "closure",
}

func (k Kind) String() string {
	if k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Kinds returns every node kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := KindOther; k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// IsDecl reports whether the kind is a function-like declaration.
func (k Kind) IsDecl() bool {
	switch k {
	case KindFunctionDecl, KindInitDecl, KindDeinitDecl, KindAccessorDecl:
		return true
	}
	return false
}

// Logical operator spellings.
const (
	OpAnd           = "&&"
	OpOr            = "||"
	OpNilCoalescing = "??"
)

// Node is a single element of the reduced tree.
//
// Children are ordered as in source. For declarations the Body (when present)
// is also the last child. A Binary node always has exactly two children, the
// left and right operands.
type Node struct {
	Kind     Kind
	Pos      int
	Children []*Node

	// Declarations only.
	Name      string
	Signature string
	Keyword   int
	Body      *Node

	// Binary only.
	Op string
}

// IsLogical reports whether n is a && or || operator.
func (n *Node) IsLogical() bool {
	return n.Kind == KindBinary && (n.Op == OpAnd || n.Op == OpOr)
}

// ChainedIf returns the if statement an else clause continues into, or nil
// when the else clause is terminal.
func (n *Node) ChainedIf() *Node {
	if n.Kind != KindElse || len(n.Children) != 1 {
		return nil
	}
	if c := n.Children[0]; c.Kind == KindIf {
		return c
	}
	return nil
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of the current node.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Count returns the number of nodes in the subtree rooted at n matching pred.
func Count(n *Node, pred func(*Node) bool) int {
	count := 0
	Walk(n, func(c *Node) bool {
		if pred(c) {
			count++
		}
		return true
	})
	return count
}
