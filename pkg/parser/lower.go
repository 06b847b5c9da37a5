package parser

import (
	"strings"

	"github.com/panbanda/swiftcx/pkg/syntax"
	sitter "github.com/smacker/go-tree-sitter"
)

// accessorKeywords maps tree-sitter accessor node types to their keyword.
var accessorKeywords = map[string]string{
	"computed_getter": "get",
	"computed_setter": "set",
	"computed_modify": "_modify",
	"willset_clause":  "willSet",
	"didset_clause":   "didSet",
}

// declKeywords maps declaration kinds to the token that introduces them.
var declKeywords = map[syntax.Kind]string{
	syntax.KindFunctionDecl: "func",
	syntax.KindInitDecl:     "init",
	syntax.KindDeinitDecl:   "deinit",
}

// lowerer converts tree-sitter nodes into syntax nodes.
type lowerer struct {
	src []byte
}

// lower converts n and its subtree. Anonymous tokens, comments and named
// leaves with nothing scorable beneath them lower to nil.
func (l *lowerer) lower(n *sitter.Node) *syntax.Node {
	if n == nil || n.IsNull() || !n.IsNamed() {
		return nil
	}

	typ := n.Type()
	switch typ {
	case "comment", "multiline_comment":
		return nil
	case "function_declaration", "protocol_function_declaration":
		return l.decl(n, syntax.KindFunctionDecl)
	case "init_declaration":
		return l.decl(n, syntax.KindInitDecl)
	case "deinit_declaration":
		return l.decl(n, syntax.KindDeinitDecl)
	case "computed_getter", "computed_setter", "computed_modify", "willset_clause", "didset_clause":
		return l.accessor(n, accessorKeywords[typ])
	case "class_declaration", "protocol_declaration":
		return l.node(syntax.KindTypeDecl, n, l.lowerAll(n))
	case "property_declaration", "protocol_property_declaration", "subscript_declaration":
		return l.node(syntax.KindVarDecl, n, l.lowerAll(n))
	case "statements":
		return l.node(syntax.KindBlock, n, l.lowerAll(n))
	case "if_statement":
		return l.ifStatement(n)
	case "guard_statement":
		return l.node(syntax.KindGuard, n, l.braced(n, 0, int(n.ChildCount())))
	case "while_statement":
		return l.node(syntax.KindWhile, n, l.braced(n, 0, int(n.ChildCount())))
	case "for_statement":
		return l.node(syntax.KindFor, n, l.braced(n, 0, int(n.ChildCount())))
	case "repeat_while_statement":
		return l.node(syntax.KindRepeat, n, l.braced(n, 0, int(n.ChildCount())))
	case "switch_statement":
		return l.node(syntax.KindSwitch, n, l.lowerAll(n))
	case "switch_entry":
		return l.switchEntry(n)
	case "do_statement":
		return l.node(syntax.KindDo, n, l.braced(n, 0, int(n.ChildCount())))
	case "catch_block":
		return l.node(syntax.KindCatch, n, l.braced(n, 0, int(n.ChildCount())))
	case "ternary_expression":
		return l.node(syntax.KindTernary, n, l.lowerAll(n))
	case "conjunction_expression":
		return l.binary(n, syntax.OpAnd)
	case "disjunction_expression":
		return l.binary(n, syntax.OpOr)
	case "nil_coalescing_expression":
		return l.binary(n, syntax.OpNilCoalescing)
	case "comparison_expression", "equality_expression", "additive_expression",
		"multiplicative_expression", "infix_expression", "range_expression", "bitwise_operation":
		return l.binary(n, "")
	case "call_expression":
		// `!(a && b)` parses as a call whose callee is the bang operator.
		if n.ChildCount() > 0 && n.Child(0).Type() == "bang" {
			return l.node(syntax.KindOther, n, l.lowerAll(n))
		}
		return l.node(syntax.KindCall, n, l.lowerAll(n))
	case "lambda_literal":
		return l.node(syntax.KindClosure, n, l.braced(n, 0, int(n.ChildCount())))
	}

	children := l.lowerAll(n)
	if len(children) == 0 {
		return nil
	}
	return l.node(syntax.KindOther, n, children)
}

func (l *lowerer) node(kind syntax.Kind, n *sitter.Node, children []*syntax.Node) *syntax.Node {
	out := syntax.New(kind, children...)
	out.Pos = int(n.StartByte())
	return out
}

func (l *lowerer) lowerAll(n *sitter.Node) []*syntax.Node {
	var out []*syntax.Node
	for i := range int(n.ChildCount()) {
		if c := l.lower(n.Child(i)); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// braced lowers the direct children of n in [from, to). Statements between
// a "{" and its "}" token are grouped into a Block node.
func (l *lowerer) braced(n *sitter.Node, from, to int) []*syntax.Node {
	var out []*syntax.Node
	var block *syntax.Node
	for i := from; i < to; i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		switch c.Type() {
		case "{":
			block = syntax.NewBlock()
			block.Pos = int(c.StartByte())
			continue
		case "}":
			if block != nil {
				out = append(out, block)
				block = nil
			}
			continue
		case "statements":
			if block != nil {
				block.Children = append(block.Children, l.lowerAll(c)...)
				continue
			}
		}

		lowered := l.lower(c)
		if lowered == nil {
			continue
		}
		if block != nil {
			block.Children = append(block.Children, lowered)
		} else {
			out = append(out, lowered)
		}
	}
	if block != nil {
		// Unterminated block in erroneous input.
		out = append(out, block)
	}
	return out
}

func firstBlock(nodes []*syntax.Node) *syntax.Node {
	for _, n := range nodes {
		if n.Kind == syntax.KindBlock {
			return n
		}
	}
	return nil
}

// ifStatement splits the if statement at its else token. The else branch is
// either a block or a directly chained if statement.
func (l *lowerer) ifStatement(n *sitter.Node) *syntax.Node {
	count := int(n.ChildCount())
	elseAt := -1
	for i := range count {
		if c := n.Child(i); c != nil && c.Type() == "else" {
			elseAt = i
			break
		}
	}
	if elseAt < 0 {
		return l.node(syntax.KindIf, n, l.braced(n, 0, count))
	}

	out := l.node(syntax.KindIf, n, l.braced(n, 0, elseAt))
	els := l.node(syntax.KindElse, n.Child(elseAt), l.braced(n, elseAt+1, count))
	out.Children = append(out.Children, els)
	return out
}

func (l *lowerer) switchEntry(n *sitter.Node) *syntax.Node {
	kind := syntax.KindCase
	var children []*syntax.Node
	for i := range int(n.ChildCount()) {
		c := n.Child(i)
		if c == nil {
			continue
		}
		switch c.Type() {
		case "default_keyword", "default":
			kind = syntax.KindDefault
			continue
		case "statements":
			children = append(children, l.node(syntax.KindBlock, c, l.lowerAll(c)))
			continue
		}
		if lowered := l.lower(c); lowered != nil {
			children = append(children, lowered)
		}
	}
	return l.node(kind, n, children)
}

// binary lowers an infix expression. When op is empty it is read from the
// node's op field or, failing that, from the text between the operands.
func (l *lowerer) binary(n *sitter.Node, op string) *syntax.Node {
	lhs := n.ChildByFieldName("lhs")
	rhs := n.ChildByFieldName("rhs")
	if lhs == nil || rhs == nil {
		named := make([]*sitter.Node, 0, 2)
		for i := range int(n.NamedChildCount()) {
			if c := n.NamedChild(i); c != nil && c.Type() != "comment" {
				named = append(named, c)
			}
		}
		if len(named) > 0 {
			lhs = named[0]
		}
		if len(named) > 1 {
			rhs = named[len(named)-1]
		}
	}

	if op == "" {
		op = l.operator(n, lhs, rhs)
	}

	out := syntax.NewBinary(op, l.lower(lhs), l.lower(rhs))
	out.Pos = int(n.StartByte())
	return out
}

func (l *lowerer) operator(n, lhs, rhs *sitter.Node) string {
	if opNode := n.ChildByFieldName("op"); opNode != nil {
		return strings.TrimSpace(GetNodeText(opNode, l.src))
	}
	if lhs == nil || rhs == nil {
		return ""
	}
	start, end := int(lhs.EndByte()), int(rhs.StartByte())
	if start > end || end > len(l.src) {
		return ""
	}
	return strings.TrimSpace(string(l.src[start:end]))
}

// decl lowers a func, init or deinit declaration. The signature runs from
// the introducing keyword through the parameter clause, followed by the
// return clause, with whitespace collapsed.
func (l *lowerer) decl(n *sitter.Node, kind syntax.Kind) *syntax.Node {
	start := int(n.StartByte())
	if kw := findToken(n, declKeywords[kind]); kw != nil {
		start = int(kw.StartByte())
	}
	end := int(n.EndByte())

	var body *syntax.Node
	bodyNode := n.ChildByFieldName("body")
	if bodyNode == nil || bodyNode.Type() != "function_body" {
		bodyNode = childOfType(n, "function_body")
	}
	if bodyNode != nil {
		body = firstBlock(l.braced(bodyNode, 0, int(bodyNode.ChildCount())))
		if body == nil {
			body = syntax.NewBlock()
			body.Pos = int(bodyNode.StartByte())
		}
		end = int(bodyNode.StartByte())
	} else if open := childOfType(n, "{"); open != nil {
		body = firstBlock(l.braced(n, 0, int(n.ChildCount())))
		end = int(open.StartByte())
	}

	var name, signature string
	switch kind {
	case syntax.KindInitDecl:
		name = "init"
		signature = l.signature(n, start, end)
	case syntax.KindDeinitDecl:
		name = "deinit"
		signature = "deinit"
	default:
		name = GetNodeText(n.ChildByFieldName("name"), l.src)
		if name == "" {
			name = GetNodeText(childOfType(n, "simple_identifier"), l.src)
		}
		signature = l.signature(n, start, end)
	}

	out := syntax.NewDecl(kind, name, signature, body)
	out.Pos = int(n.StartByte())
	out.Keyword = start
	return out
}

func (l *lowerer) accessor(n *sitter.Node, keyword string) *syntax.Node {
	start := int(n.StartByte())
	if kw := findToken(n, keyword); kw != nil {
		start = int(kw.StartByte())
	}
	body := firstBlock(l.braced(n, 0, int(n.ChildCount())))

	out := syntax.NewDecl(syntax.KindAccessorDecl, keyword, keyword, body)
	out.Pos = int(n.StartByte())
	out.Keyword = start
	return out
}

// signature leaves out effect specifiers and generic where clauses. Headers
// without a closing parenthesis fall back to the full text up to end.
func (l *lowerer) signature(n *sitter.Node, start, end int) string {
	closing, arrow, retEnd := -1, -1, -1
	for i := range int(n.ChildCount()) {
		c := n.Child(i)
		if c == nil || int(c.StartByte()) >= end || c.Type() == "type_constraints" {
			break
		}
		switch {
		case c.Type() == ")" && arrow < 0:
			closing = int(c.EndByte())
		case c.Type() == "->":
			arrow = int(c.StartByte())
		case arrow >= 0:
			retEnd = int(c.EndByte())
		}
	}
	if closing <= start {
		return l.text(start, end)
	}

	sig := l.text(start, closing)
	if arrow >= 0 && retEnd > arrow {
		sig += " " + l.text(arrow, retEnd)
	}
	return sig
}

func (l *lowerer) text(start, end int) string {
	if start < 0 || start > end || end > len(l.src) {
		return ""
	}
	return strings.Join(strings.Fields(string(l.src[start:end])), " ")
}

func childOfType(n *sitter.Node, typ string) *sitter.Node {
	for i := range int(n.ChildCount()) {
		if c := n.Child(i); c != nil && c.Type() == typ {
			return c
		}
	}
	return nil
}

// findToken searches the declaration header of n for a token of the given
// type, without descending into bodies.
func findToken(n *sitter.Node, typ string) *sitter.Node {
	if typ == "" {
		return nil
	}
	for i := range int(n.ChildCount()) {
		c := n.Child(i)
		if c == nil {
			continue
		}
		switch c.Type() {
		case typ:
			return c
		case "{", "function_body", "statements":
			return nil
		}
		if c.ChildCount() > 0 {
			if found := findToken(c, typ); found != nil {
				return found
			}
		}
	}
	return nil
}
