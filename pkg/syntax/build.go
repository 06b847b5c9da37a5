package syntax

// Constructors used by the parser lowering and by tests that assemble trees
// by hand. Nil children are dropped, except for Binary operands which are
// replaced with an empty Other node so the operand order is preserved.

func compact(nodes []*Node) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// New creates a node of the given kind.
func New(kind Kind, children ...*Node) *Node {
	return &Node{Kind: kind, Children: compact(children)}
}

// NewFile creates a source file root.
func NewFile(decls ...*Node) *Node {
	return New(KindFile, decls...)
}

// NewBlock creates a brace-delimited statement list.
func NewBlock(stmts ...*Node) *Node {
	return New(KindBlock, stmts...)
}

// NewOther creates a node the calculators do not score.
func NewOther(children ...*Node) *Node {
	return New(KindOther, children...)
}

// NewDecl creates a function-like declaration. A nil body marks a bodiless
// requirement.
func NewDecl(kind Kind, name, signature string, body *Node) *Node {
	n := New(kind, body)
	n.Name = name
	n.Signature = signature
	n.Body = body
	return n
}

// NewFunc creates a func declaration.
func NewFunc(name string, body *Node) *Node {
	return NewDecl(KindFunctionDecl, name, "func "+name+"()", body)
}

// NewIf creates an if statement. els may be nil, a block (terminal else) or
// another if statement (else-if continuation).
func NewIf(cond, then, els *Node) *Node {
	n := New(KindIf, cond, then)
	if els != nil {
		n.Children = append(n.Children, New(KindElse, els))
	}
	return n
}

// NewGuard creates a guard statement with its else block.
func NewGuard(cond, elseBlock *Node) *Node {
	return New(KindGuard, cond, elseBlock)
}

// NewWhile creates a while loop.
func NewWhile(cond, body *Node) *Node {
	return New(KindWhile, cond, body)
}

// NewFor creates a for-in loop.
func NewFor(seq, body *Node) *Node {
	return New(KindFor, seq, body)
}

// NewRepeat creates a repeat-while loop.
func NewRepeat(body, cond *Node) *Node {
	return New(KindRepeat, body, cond)
}

// NewSwitch creates a switch over subject with the given case and default
// entries.
func NewSwitch(subject *Node, entries ...*Node) *Node {
	return New(KindSwitch, append([]*Node{subject}, entries...)...)
}

// NewCase creates a case entry.
func NewCase(body *Node, patterns ...*Node) *Node {
	return New(KindCase, append(patterns, body)...)
}

// NewDefault creates a default entry.
func NewDefault(body *Node) *Node {
	return New(KindDefault, body)
}

// NewDo creates a do statement with its catch clauses.
func NewDo(body *Node, catches ...*Node) *Node {
	return New(KindDo, append([]*Node{body}, catches...)...)
}

// NewCatch creates a catch clause.
func NewCatch(body *Node) *Node {
	return New(KindCatch, body)
}

// NewTernary creates a conditional expression.
func NewTernary(cond, then, els *Node) *Node {
	return New(KindTernary, cond, then, els)
}

// NewBinary creates an infix operator expression.
func NewBinary(op string, left, right *Node) *Node {
	if left == nil {
		left = NewOther()
	}
	if right == nil {
		right = NewOther()
	}
	return &Node{Kind: KindBinary, Op: op, Children: []*Node{left, right}}
}

// NewCall creates a call expression.
func NewCall(callee *Node, args ...*Node) *Node {
	return New(KindCall, append([]*Node{callee}, args...)...)
}

// NewClosure creates a closure literal.
func NewClosure(body *Node) *Node {
	return New(KindClosure, body)
}
