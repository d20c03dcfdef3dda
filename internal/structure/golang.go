package structure

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
)

// goExtractor parses Go source with go/parser and walks the AST.
type goExtractor struct{}

func (g *goExtractor) Extract(source string) (*Info, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", source, parser.ParseComments)
	if err != nil {
		return nil, &ParseError{Lang: "go", Err: err}
	}

	info := &Info{}
	methods := map[string][]string{}

	for _, imp := range file.Imports {
		info.Imports = append(info.Imports, strings.Trim(imp.Path.Value, `"`))
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			fn := Declaration{
				Name:      d.Name.Name,
				Docstring: docText(d.Doc),
				Params:    paramNames(d.Type),
			}
			info.Functions = append(info.Functions, fn)
			if d.Recv != nil && len(d.Recv.List) > 0 {
				if recv := receiverType(d.Recv.List[0].Type); recv != "" {
					methods[recv] = append(methods[recv], d.Name.Name)
				}
			}
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				doc := docText(ts.Doc)
				if doc == "" {
					doc = docText(d.Doc)
				}
				decl := Declaration{Name: ts.Name.Name, Docstring: doc}
				if iface, ok := ts.Type.(*ast.InterfaceType); ok {
					for _, method := range iface.Methods.List {
						for _, name := range method.Names {
							decl.Members = append(decl.Members, name.Name)
						}
					}
				}
				info.Types = append(info.Types, decl)
			}
		}
	}

	// Attach methods to their receiver types.
	for i := range info.Types {
		if ms := methods[info.Types[i].Name]; len(ms) > 0 {
			info.Types[i].Members = append(info.Types[i].Members, ms...)
		}
	}

	for _, group := range file.Comments {
		for _, c := range group.List {
			text := strings.TrimSpace(strings.TrimPrefix(c.Text, "//"))
			if strings.HasPrefix(c.Text, "/*") {
				text = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(c.Text, "/*"), "*/"))
			}
			if text != "" {
				info.Comments = append(info.Comments, text)
			}
		}
	}

	info.Imports = dedupe(info.Imports)
	return info, nil
}

func docText(group *ast.CommentGroup) string {
	if group == nil {
		return ""
	}
	return strings.TrimSpace(group.Text())
}

func paramNames(ft *ast.FuncType) []string {
	if ft == nil || ft.Params == nil {
		return nil
	}
	var names []string
	for _, field := range ft.Params.List {
		for _, name := range field.Names {
			names = append(names, name.Name)
		}
	}
	return names
}

func receiverType(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverType(t.X)
	case *ast.IndexExpr:
		return receiverType(t.X)
	}
	return ""
}
