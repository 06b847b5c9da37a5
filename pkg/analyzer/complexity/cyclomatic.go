package complexity

import (
	"github.com/panbanda/swiftcx/pkg/syntax"
)

// Cyclomatic computes the McCabe complexity of a function body: one plus the
// number of decision points. A nil body has complexity 1.
func Cyclomatic(body *syntax.Node) int {
	if body == nil {
		return 1
	}
	return 1 + decisionPoints(body)
}

func decisionPoints(n *syntax.Node) int {
	count := 0
	switch n.Kind {
	case syntax.KindIf, syntax.KindGuard, syntax.KindWhile, syntax.KindFor,
		syntax.KindRepeat, syntax.KindCase, syntax.KindCatch, syntax.KindTernary:
		count = 1
	case syntax.KindBinary:
		switch n.Op {
		case syntax.OpAnd, syntax.OpOr, syntax.OpNilCoalescing:
			count = 1
		}
	case syntax.KindOther, syntax.KindFile, syntax.KindTypeDecl, syntax.KindVarDecl,
		syntax.KindFunctionDecl, syntax.KindInitDecl, syntax.KindDeinitDecl,
		syntax.KindAccessorDecl, syntax.KindBlock, syntax.KindElse, syntax.KindSwitch,
		syntax.KindDefault, syntax.KindDo, syntax.KindCall, syntax.KindClosure:
	}

	for _, c := range n.Children {
		count += decisionPoints(c)
	}
	return count
}
