package complexity

import (
	"github.com/panbanda/swiftcx/pkg/syntax"
)

// Detect returns every function, initializer, deinitializer and accessor in
// file that has a body, in pre-order. Nested types, nested functions and
// extensions are traversed. Bodiless requirements are skipped.
func Detect(file *syntax.File) []DetectedFunction {
	if file == nil {
		return nil
	}

	var functions []DetectedFunction
	syntax.Walk(file.Root, func(n *syntax.Node) bool {
		if !n.Kind.IsDecl() || n.Body == nil {
			return true
		}
		functions = append(functions, DetectedFunction{
			Name:      declName(n),
			Signature: n.Signature,
			Body:      n.Body,
			Location:  file.Location(n.Keyword),
		})
		return true
	})
	return functions
}

func declName(n *syntax.Node) string {
	switch n.Kind {
	case syntax.KindInitDecl:
		return "init"
	case syntax.KindDeinitDecl:
		return "deinit"
	default:
		return n.Name
	}
}
