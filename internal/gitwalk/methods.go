package gitwalk

import (
	"go/ast"
	"go/parser"
	"go/token"
	"path"
	"strings"
)

type funcSpan struct {
	name       string
	start, end int
}

func isGoSource(filePath string) bool {
	return strings.EqualFold(path.Ext(filePath), ".go")
}

// goFuncs lists the functions and methods declared in a Go source file.
// Files that do not parse have none.
func goFuncs(filename, src string) []funcSpan {
	if src == "" {
		return nil
	}
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return nil
	}

	var spans []funcSpan
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		name := fn.Name.Name
		if fn.Recv != nil && len(fn.Recv.List) > 0 {
			name = receiverName(fn.Recv.List[0].Type) + "." + name
		}
		spans = append(spans, funcSpan{
			name:  name,
			start: fset.Position(fn.Pos()).Line,
			end:   fset.Position(fn.End()).Line,
		})
	}
	return spans
}

func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.IndexExpr:
		return receiverName(t.X)
	case *ast.IndexListExpr:
		return receiverName(t.X)
	case *ast.Ident:
		return t.Name
	}
	return ""
}

// countChangedFuncs counts the distinct functions touched by a change: new
// functions spanning an inserted line plus old functions spanning a deleted one.
func countChangedFuncs(newFuncs []funcSpan, inserted []lineRange, oldFuncs []funcSpan, deleted []lineRange) int {
	changed := make(map[string]struct{})
	mark := func(funcs []funcSpan, ranges []lineRange) {
		for _, fn := range funcs {
			for _, r := range ranges {
				if r.overlaps(fn.start, fn.end) {
					changed[fn.name] = struct{}{}
					break
				}
			}
		}
	}
	mark(newFuncs, inserted)
	mark(oldFuncs, deleted)
	return len(changed)
}
