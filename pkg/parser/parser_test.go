package parser

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/panbanda/swiftcx/pkg/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *syntax.File {
	t.Helper()
	p := New()
	defer p.Close()

	file, err := p.Parse(context.Background(), []byte(src), "Test.swift")
	require.NoError(t, err)
	require.NotNil(t, file.Root)
	return file
}

// find returns the first node of kind in pre-order.
func find(root *syntax.Node, kind syntax.Kind) *syntax.Node {
	var found *syntax.Node
	syntax.Walk(root, func(n *syntax.Node) bool {
		if found != nil {
			return false
		}
		if n.Kind == kind {
			found = n
			return false
		}
		return true
	})
	return found
}

func count(root *syntax.Node, kind syntax.Kind) int {
	return syntax.Count(root, func(n *syntax.Node) bool { return n.Kind == kind })
}

func TestNew(t *testing.T) {
	p := New()
	if p == nil {
		t.Fatal("New() returned nil")
	}
	if p.parser == nil {
		t.Error("parser field is nil")
	}
	p.Close()
}

func TestIsSwiftFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"main.swift", true},
		{"Sources/App/View.swift", true},
		{"Upper.SWIFT", true},
		{"main.go", false},
		{"swift", false},
		{"Package.resolved", false},
	}
	for _, tt := range tests {
		if got := IsSwiftFile(tt.path); got != tt.want {
			t.Errorf("IsSwiftFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestParse_Function(t *testing.T) {
	file := parse(t, "import Foundation\n\nfunc greet(name: String) -> String {\n    return \"hi \\(name)\"\n}\n")

	assert.Equal(t, syntax.KindFile, file.Root.Kind)
	assert.Equal(t, "Test.swift", file.Path)

	fn := find(file.Root, syntax.KindFunctionDecl)
	require.NotNil(t, fn)
	assert.Equal(t, "greet", fn.Name)
	assert.Equal(t, "func greet(name: String) -> String", fn.Signature)
	require.NotNil(t, fn.Body)
	assert.Equal(t, syntax.KindBlock, fn.Body.Kind)
	assert.Equal(t, syntax.Location{Line: 3, Column: 1}, file.Location(fn.Keyword))
}

func TestParse_ModifiersExcludedFromSignature(t *testing.T) {
	file := parse(t, "struct S {\n    public static func make() -> S { S() }\n}\n")

	fn := find(file.Root, syntax.KindFunctionDecl)
	require.NotNil(t, fn)
	assert.Equal(t, "func make() -> S", fn.Signature)
	assert.Equal(t, syntax.Location{Line: 2, Column: 19}, file.Location(fn.Keyword))
}

func TestParse_ProtocolRequirementHasNoBody(t *testing.T) {
	file := parse(t, "protocol P {\n    func run()\n}\n")

	fn := find(file.Root, syntax.KindFunctionDecl)
	require.NotNil(t, fn)
	assert.Nil(t, fn.Body)
	assert.Equal(t, "run", fn.Name)
}

func TestParse_IfElseChain(t *testing.T) {
	file := parse(t, `func f(v: Int) {
    if v == 1 {
        print(1)
    } else if v == 2 {
        print(2)
    } else {
        print(3)
    }
}
`)

	head := find(file.Root, syntax.KindIf)
	require.NotNil(t, head)

	els := head.Children[len(head.Children)-1]
	require.Equal(t, syntax.KindElse, els.Kind)
	next := els.ChainedIf()
	require.NotNil(t, next, "else-if should chain into an if")

	last := next.Children[len(next.Children)-1]
	require.Equal(t, syntax.KindElse, last.Kind)
	assert.Nil(t, last.ChainedIf())
	require.Len(t, last.Children, 1)
	assert.Equal(t, syntax.KindBlock, last.Children[0].Kind)

	assert.Equal(t, 2, count(file.Root, syntax.KindIf))
}

func TestParse_ControlFlowKinds(t *testing.T) {
	file := parse(t, `func f(items: [Int]) throws {
    guard !items.isEmpty else { return }
    for i in items {
        while i > 0 { break }
    }
    repeat { } while false
    switch items.count {
    case 0: print("none")
    case 1, 2: print("few")
    default: print("many")
    }
    do {
        try g()
    } catch {
        print(error)
    }
    let x = items.isEmpty ? 0 : 1
}
`)

	for kind, want := range map[syntax.Kind]int{
		syntax.KindGuard:   1,
		syntax.KindFor:     1,
		syntax.KindWhile:   1,
		syntax.KindRepeat:  1,
		syntax.KindSwitch:  1,
		syntax.KindCase:    2,
		syntax.KindDefault: 1,
		syntax.KindDo:      1,
		syntax.KindCatch:   1,
		syntax.KindTernary: 1,
	} {
		assert.Equal(t, want, count(file.Root, kind), kind.String())
	}
}

func TestParse_BinaryOperators(t *testing.T) {
	file := parse(t, "func f(a: Bool, b: Bool, c: Int?) -> Bool {\n    return a && b || (c ?? 0) > 1\n}\n")

	var ops []string
	syntax.Walk(file.Root, func(n *syntax.Node) bool {
		if n.Kind == syntax.KindBinary {
			ops = append(ops, n.Op)
			assert.Len(t, n.Children, 2)
		}
		return true
	})
	assert.ElementsMatch(t, []string{"&&", "||", "??", ">"}, ops)
}

func TestParse_NegatedGroupIsNotACall(t *testing.T) {
	file := parse(t, "func f(a: Bool, b: Bool, c: Bool) {\n    if !(a && b) || c { }\n}\n")

	assert.Zero(t, count(file.Root, syntax.KindCall))
	assert.Equal(t, 2, count(file.Root, syntax.KindBinary))
}

func TestParse_SignatureStopsAtReturnClause(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"effects", "func load(id: Int) async throws -> String { \"\" }\n", "func load(id: Int) -> String"},
		{"rethrows", "func each(_ body: () throws -> Void) rethrows { }\n", "func each(_ body: () throws -> Void)"},
		{"where clause", "func pick<T>(_ v: [T]) -> T? where T: Equatable { nil }\n", "func pick<T>(_ v: [T]) -> T?"},
		{"default value", "func pad(width: Int = max(1, 2)) throws { }\n", "func pad(width: Int = max(1, 2))"},
		{"init", "struct S {\n    init<T>(value: T) throws where T: Hashable { }\n}\n", "init<T>(value: T)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := parse(t, tt.src)
			decl := find(file.Root, syntax.KindFunctionDecl)
			if decl == nil {
				decl = find(file.Root, syntax.KindInitDecl)
			}
			require.NotNil(t, decl)
			assert.Equal(t, tt.want, decl.Signature)
		})
	}
}

func TestParse_Accessors(t *testing.T) {
	file := parse(t, `class C {
    var x: Int {
        get { return 1 }
        set { print(newValue) }
    }
    var y = 0 {
        willSet { print(newValue) }
        didSet { print(oldValue) }
    }
    init() {}
    deinit {}
}
`)

	var names []string
	syntax.Walk(file.Root, func(n *syntax.Node) bool {
		if n.Kind.IsDecl() {
			names = append(names, n.Name)
			assert.NotNil(t, n.Body, n.Name)
		}
		return true
	})
	assert.Equal(t, []string{"get", "set", "willSet", "didSet", "init", "deinit"}, names)
}

func TestParse_CommentsDropped(t *testing.T) {
	file := parse(t, "// if a { }\n/* while true { } */\nfunc f() {}\n")
	assert.Equal(t, 0, count(file.Root, syntax.KindIf))
	assert.Equal(t, 0, count(file.Root, syntax.KindWhile))
	assert.Equal(t, 1, count(file.Root, syntax.KindFunctionDecl))
}

func TestParse_SyntaxErrorsDoNotFail(t *testing.T) {
	file := parse(t, "func broken( {\n    if x {\n")
	assert.Equal(t, syntax.KindFile, file.Root.Kind)
}

func TestParse_Empty(t *testing.T) {
	file := parse(t, "")
	assert.Equal(t, syntax.KindFile, file.Root.Kind)
	assert.Empty(t, file.Root.Children)
}

func TestParse_CanceledContext(t *testing.T) {
	p := New()
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Parse(ctx, []byte("func f() {}"), "F.swift")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "A.swift")
	require.NoError(t, os.WriteFile(path, []byte("func a() {}\n"), 0o644))

	p := New()
	defer p.Close()

	file, err := p.ParseFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, file.Path)
	assert.Equal(t, 1, count(file.Root, syntax.KindFunctionDecl))

	_, err = p.ParseFile(context.Background(), filepath.Join(dir, "Missing.swift"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}
