package complexity

import (
	"testing"

	"github.com/panbanda/swiftcx/pkg/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decl(kind syntax.Kind, name string, keyword int, body *syntax.Node) *syntax.Node {
	n := syntax.NewDecl(kind, name, name+"()", body)
	n.Keyword = keyword
	return n
}

func TestDetect(t *testing.T) {
	src := []byte("class A {\n    init() {}\n    func run() {}\n}\n")
	root := syntax.NewFile(
		syntax.New(syntax.KindTypeDecl,
			decl(syntax.KindInitDecl, "ignored", 14, block()),
			decl(syntax.KindFunctionDecl, "run", 28, block(
				decl(syntax.KindFunctionDecl, "inner", 28, block()),
			)),
		),
	)
	file := &syntax.File{Root: root, Lines: syntax.NewLineIndex(src)}

	got := Detect(file)
	require.Len(t, got, 3)

	assert.Equal(t, "init", got[0].Name)
	assert.Equal(t, syntax.Location{Line: 2, Column: 5}, got[0].Location)
	assert.Equal(t, "run", got[1].Name)
	assert.Equal(t, syntax.Location{Line: 3, Column: 5}, got[1].Location)
	assert.Equal(t, "run()", got[1].Signature)
	assert.Equal(t, "inner", got[2].Name)
}

func TestDetect_SkipsBodilessDeclarations(t *testing.T) {
	protocol := syntax.New(syntax.KindTypeDecl,
		decl(syntax.KindFunctionDecl, "area", 0, nil),
		decl(syntax.KindInitDecl, "init", 0, nil),
		syntax.New(syntax.KindVarDecl, decl(syntax.KindAccessorDecl, "get", 0, nil)),
	)
	file := &syntax.File{Root: syntax.NewFile(protocol)}
	assert.Empty(t, Detect(file))

	extension := syntax.New(syntax.KindTypeDecl, decl(syntax.KindFunctionDecl, "area", 0, block()))
	file = &syntax.File{Root: syntax.NewFile(protocol, extension)}
	got := Detect(file)
	require.Len(t, got, 1)
	assert.Equal(t, "area", got[0].Name)
}

func TestDetect_DeclarationKinds(t *testing.T) {
	file := &syntax.File{Root: syntax.NewFile(
		decl(syntax.KindDeinitDecl, "whatever", 0, block()),
		syntax.New(syntax.KindVarDecl,
			decl(syntax.KindAccessorDecl, "get", 0, block()),
			decl(syntax.KindAccessorDecl, "willSet", 0, block()),
		),
	)}

	var names []string
	for _, fn := range Detect(file) {
		names = append(names, fn.Name)
	}
	assert.Equal(t, []string{"deinit", "get", "willSet"}, names)
}

func TestDetect_FindsDeclarationsInsideClosures(t *testing.T) {
	body := block(syntax.NewCall(leaf(), syntax.NewClosure(block(
		syntax.NewFunc("helper", block()),
	))))
	file := &syntax.File{Root: syntax.NewFile(syntax.NewFunc("outer", body))}

	got := Detect(file)
	require.Len(t, got, 2)
	assert.Equal(t, "outer", got[0].Name)
	assert.Equal(t, "helper", got[1].Name)
}

func TestDetect_NilFile(t *testing.T) {
	assert.Nil(t, Detect(nil))
	assert.Empty(t, Detect(&syntax.File{}))
}
