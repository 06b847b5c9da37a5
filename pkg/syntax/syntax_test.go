package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	for _, k := range Kinds() {
		assert.NotEqual(t, "unknown", k.String(), "kind %d has no name", k)
		assert.NotEmpty(t, k.String())
	}
	assert.Equal(t, "unknown", kindCount.String())
	assert.Equal(t, "if", KindIf.String())
}

func TestKindIsDecl(t *testing.T) {
	decls := map[Kind]bool{
		KindFunctionDecl: true,
		KindInitDecl:     true,
		KindDeinitDecl:   true,
		KindAccessorDecl: true,
	}
	for _, k := range Kinds() {
		assert.Equal(t, decls[k], k.IsDecl(), k.String())
	}
}

func TestLineIndex(t *testing.T) {
	src := []byte("func a() {}\n\n  func b() {\n}\n")
	li := NewLineIndex(src)

	tests := []struct {
		offset int
		want   Location
	}{
		{0, Location{1, 1}},
		{5, Location{1, 6}},
		{11, Location{1, 12}},
		{12, Location{2, 1}},
		{15, Location{3, 3}},
		{len(src), Location{5, 1}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, li.Location(tt.offset), "offset %d", tt.offset)
	}

	var nilIndex *LineIndex
	assert.Equal(t, Location{}, nilIndex.Location(3))
	assert.Equal(t, Location{}, li.Location(-1))
}

func TestNewIfElseShapes(t *testing.T) {
	terminal := NewIf(NewOther(), NewBlock(), NewBlock())
	assert.Len(t, terminal.Children, 3)
	els := terminal.Children[2]
	assert.Equal(t, KindElse, els.Kind)
	assert.Nil(t, els.ChainedIf())

	chained := NewIf(NewOther(), NewBlock(), NewIf(NewOther(), NewBlock(), nil))
	next := chained.Children[2].ChainedIf()
	if assert.NotNil(t, next) {
		assert.Equal(t, KindIf, next.Kind)
		assert.Len(t, next.Children, 2)
	}

	assert.Nil(t, NewBlock().ChainedIf())
}

func TestNewBinaryKeepsOperandSlots(t *testing.T) {
	n := NewBinary(OpAnd, nil, NewCall(nil))
	assert.Len(t, n.Children, 2)
	assert.Equal(t, KindOther, n.Children[0].Kind)
	assert.Equal(t, KindCall, n.Children[1].Kind)
	assert.True(t, n.IsLogical())
	assert.False(t, NewBinary(OpNilCoalescing, nil, nil).IsLogical())
	assert.False(t, NewBinary(">", nil, nil).IsLogical())
}

func TestNewDeclBodyIsChild(t *testing.T) {
	body := NewBlock()
	fn := NewFunc("run", body)
	assert.Same(t, body, fn.Body)
	assert.Equal(t, []*Node{body}, fn.Children)
	assert.Equal(t, "func run()", fn.Signature)

	req := NewDecl(KindFunctionDecl, "req", "func req()", nil)
	assert.Nil(t, req.Body)
	assert.Empty(t, req.Children)
}

func TestWalkAndCount(t *testing.T) {
	root := NewFile(
		NewFunc("a", NewBlock(NewIf(NewOther(), NewBlock(), nil))),
		NewFunc("b", NewBlock()),
	)
	assert.Equal(t, 2, Count(root, func(n *Node) bool { return n.Kind == KindFunctionDecl }))
	assert.Equal(t, 1, Count(root, func(n *Node) bool { return n.Kind == KindIf }))

	visited := 0
	Walk(root, func(n *Node) bool {
		visited++
		return n.Kind != KindFunctionDecl
	})
	assert.Equal(t, 3, visited)

	Walk(nil, func(*Node) bool {
		t.Fatal("nil tree visited")
		return true
	})
}
