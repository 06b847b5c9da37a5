package complexity

import (
	"github.com/panbanda/swiftcx/pkg/syntax"
)

// Helpers for assembling bodies by hand. Leaves that carry no score are
// plain Other nodes.

func leaf() *syntax.Node { return syntax.NewOther() }

func ret() *syntax.Node { return syntax.NewOther(leaf()) }

func block(stmts ...*syntax.Node) *syntax.Node { return syntax.NewBlock(stmts...) }

func cmp(op string) *syntax.Node { return syntax.NewBinary(op, leaf(), leaf()) }

func and(l, r *syntax.Node) *syntax.Node { return syntax.NewBinary(syntax.OpAnd, l, r) }

func or(l, r *syntax.Node) *syntax.Node { return syntax.NewBinary(syntax.OpOr, l, r) }

// deepElseIfBody mirrors testdata/deep_else_if.swift.
func deepElseIfBody() *syntax.Node {
	state := syntax.NewIf(leaf(), block(
		syntax.NewIf(cmp("=="), block(ret()),
			syntax.NewIf(cmp("=="), block(ret()), block(ret()))),
	), block(ret()))

	country := syntax.NewIf(leaf(), block(
		syntax.NewIf(cmp("=="), block(state),
			syntax.NewIf(cmp("=="), block(ret()), block(ret()))),
	), block(ret()))

	user := syntax.NewIf(leaf(), block(
		syntax.NewIf(cmp(">="), block(country), block(ret())),
	), block(ret()))

	system := syntax.NewIf(leaf(), block(
		syntax.NewIf(cmp(">"), block(ret()), block(ret())),
	), block(ret()))

	return block(
		syntax.NewGuard(leaf(), block(ret())),
		syntax.NewIf(cmp("=="), block(user),
			syntax.NewIf(cmp("=="), block(system), block(ret()))),
	)
}

// elseIfChainBody is if / else if / else.
func elseIfChainBody() *syntax.Node {
	return block(
		syntax.NewIf(cmp("=="), block(ret()),
			syntax.NewIf(cmp("=="), block(ret()), block(ret()))),
	)
}

// nestedIfBody is if a > 0 { if b > 0 { ... } }.
func nestedIfBody() *syntax.Node {
	return block(
		syntax.NewIf(cmp(">"), block(
			syntax.NewIf(cmp(">"), block(ret()), nil),
		), nil),
		ret(),
	)
}
