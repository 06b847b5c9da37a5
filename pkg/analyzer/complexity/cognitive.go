package complexity

import (
	"github.com/panbanda/swiftcx/pkg/syntax"
)

// cognitiveState is threaded through the cognitive walk. Every call to
// Cognitive starts from the zero value.
type cognitiveState struct {
	total   int
	nesting int
	// logicalRun is set once a && or || has been seen in the current
	// operator run; the next logical operator then costs +1.
	logicalRun bool
	// elseIf marks that the next if visited is the direct continuation of
	// an else clause.
	elseIf bool
}

// Cognitive computes the cognitive complexity of a function body. A nil body
// scores 0.
func Cognitive(body *syntax.Node) int {
	if body == nil {
		return 0
	}
	return cognitiveWalk(body, cognitiveState{}).total
}

func cognitiveWalk(n *syntax.Node, st cognitiveState) cognitiveState {
	switch n.Kind {
	case syntax.KindIf:
		if st.elseIf {
			st.elseIf = false
			st.total++
			return cognitiveChildren(n, st)
		}
		st.total += 1 + st.nesting
		return cognitiveNested(n, st)

	case syntax.KindElse:
		if next := n.ChainedIf(); next != nil {
			st.elseIf = true
			return cognitiveWalk(next, st)
		}
		st.total++
		return cognitiveChildren(n, st)

	case syntax.KindGuard:
		st.total++
		return cognitiveChildren(n, st)

	case syntax.KindWhile, syntax.KindFor, syntax.KindRepeat, syntax.KindSwitch, syntax.KindCatch:
		st.total += 1 + st.nesting
		return cognitiveNested(n, st)

	case syntax.KindTernary:
		st.total += 1 + st.nesting
		return cognitiveChildren(n, st)

	case syntax.KindBinary:
		// Root of an operator tree: a new expression starts a new run.
		st.logicalRun = false
		return cognitiveOperator(n, st)

	case syntax.KindCall:
		run := st.logicalRun
		st.logicalRun = false
		st = cognitiveChildren(n, st)
		st.logicalRun = run
		return st

	case syntax.KindOther, syntax.KindFile, syntax.KindTypeDecl, syntax.KindVarDecl,
		syntax.KindFunctionDecl, syntax.KindInitDecl, syntax.KindDeinitDecl,
		syntax.KindAccessorDecl, syntax.KindBlock, syntax.KindCase, syntax.KindDefault,
		syntax.KindDo, syntax.KindClosure:
		return cognitiveChildren(n, st)
	}
	return cognitiveChildren(n, st)
}

func cognitiveChildren(n *syntax.Node, st cognitiveState) cognitiveState {
	for _, c := range n.Children {
		st = cognitiveWalk(c, st)
	}
	return st
}

// cognitiveNested walks the children of n one nesting level deeper.
func cognitiveNested(n *syntax.Node, st cognitiveState) cognitiveState {
	level := st.nesting
	st.nesting++
	st = cognitiveChildren(n, st)
	st.nesting = level
	return st
}

// cognitiveOperator visits a binary expression in source order: left operand,
// operator, right operand. Operands that are themselves binary expressions
// continue the current run.
func cognitiveOperator(n *syntax.Node, st cognitiveState) cognitiveState {
	var left, right *syntax.Node
	if len(n.Children) > 0 {
		left = n.Children[0]
	}
	if len(n.Children) > 1 {
		right = n.Children[1]
	}

	st = cognitiveOperand(left, st)
	if n.IsLogical() {
		if st.logicalRun {
			st.total++
		}
		st.logicalRun = true
	} else {
		st.logicalRun = false
	}
	return cognitiveOperand(right, st)
}

func cognitiveOperand(n *syntax.Node, st cognitiveState) cognitiveState {
	switch {
	case n == nil:
		return st
	case n.Kind == syntax.KindBinary:
		return cognitiveOperator(n, st)
	default:
		return cognitiveWalk(n, st)
	}
}
