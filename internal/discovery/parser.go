package discovery

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/erdmap/erdmap/internal/schema"
)

// constructorTypes maps field constructor names to the closed FieldType set.
var constructorTypes = map[string]string{
	"String":   "string",
	"Text":     "text",
	"Int":      "integer",
	"Float":    "float",
	"Bool":     "boolean",
	"DateTime": "datetime",
	"Date":     "date",
	"Time":     "time",
	"UUID":     "uuid",
	"JSON":     "json",
	"Bytes":    "bytes",
	"Array":    "array",
	"Enum":     "enum",
}

// ExtractModelClasses parses one declaration file and returns its table-backed
// entities in declaration order. Plain value types are skipped. A file that
// is not well-formed Go, or that uses a declaration outside the recognized
// grammar, fails with a *ParseError carrying the path and line.
func (d *Discovery) ExtractModelClasses(path string) ([]*schema.ModelMetadata, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
	if err != nil {
		return nil, parseErrorFrom(path, err)
	}

	p := &fileParser{path: path, fset: fset}

	// First pass: collect entity declarations so methods can be attached
	// regardless of declaration order.
	var models []*schema.ModelMetadata
	byName := make(map[string]*schema.ModelMetadata)
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok || !embedsEntityMarker(st) {
				continue
			}
			model := schema.NewModelMetadata(ts.Name.Name)
			model.FilePath = path
			model.Line = fset.Position(ts.Pos()).Line
			models = append(models, model)
			byName[model.Name] = model
		}
	}

	// Second pass: attach Fields, Edges, and TableName declarations.
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv == nil || len(fn.Recv.List) != 1 {
			continue
		}
		model := byName[receiverName(fn.Recv.List[0].Type)]
		if model == nil {
			continue
		}
		switch fn.Name.Name {
		case "Fields":
			if err := p.parseFields(model, fn); err != nil {
				return nil, err
			}
		case "Edges":
			if err := p.parseEdges(model, fn); err != nil {
				return nil, err
			}
		case "TableName":
			if name, ok := literalReturn(fn); ok {
				model.TableName = name
			}
		}
	}

	d.logger.Debug("extracted entities",
		zap.String("path", path),
		zap.Int("count", len(models)))
	return models, nil
}

// fileParser carries the position context needed for error reporting.
type fileParser struct {
	path string
	fset *token.FileSet
}

func (p *fileParser) errorf(node ast.Node, format string, args ...interface{}) error {
	return &ParseError{
		Path: p.path,
		Line: p.fset.Position(node.Pos()).Line,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// parseFields extracts every field declaration from a Fields method body.
func (p *fileParser) parseFields(model *schema.ModelMetadata, fn *ast.FuncDecl) error {
	elems, err := p.declarationList(fn)
	if err != nil {
		return err
	}
	for _, elem := range elems {
		field, err := p.parseFieldChain(elem)
		if err != nil {
			return err
		}
		model.Fields = append(model.Fields, field)
	}
	return nil
}

// parseEdges extracts every relationship declaration from an Edges method body.
func (p *fileParser) parseEdges(model *schema.ModelMetadata, fn *ast.FuncDecl) error {
	elems, err := p.declarationList(fn)
	if err != nil {
		return err
	}
	for _, elem := range elems {
		rel, err := p.parseEdgeChain(model.Name, elem)
		if err != nil {
			return err
		}
		model.Relationships = append(model.Relationships, rel)
	}
	return nil
}

// declarationList locates the returned composite literal of a Fields or
// Edges method and returns its elements in declaration order.
func (p *fileParser) declarationList(fn *ast.FuncDecl) ([]ast.Expr, error) {
	if fn.Body == nil {
		return nil, p.errorf(fn, "%s has no body", fn.Name.Name)
	}
	for _, stmt := range fn.Body.List {
		ret, ok := stmt.(*ast.ReturnStmt)
		if !ok {
			continue
		}
		if len(ret.Results) != 1 {
			return nil, p.errorf(ret, "%s must return a single declaration list", fn.Name.Name)
		}
		if ident, ok := ret.Results[0].(*ast.Ident); ok && ident.Name == "nil" {
			return nil, nil
		}
		lit, ok := ret.Results[0].(*ast.CompositeLit)
		if !ok {
			return nil, p.errorf(ret, "%s must return a composite literal", fn.Name.Name)
		}
		return lit.Elts, nil
	}
	return nil, p.errorf(fn, "%s has no return statement", fn.Name.Name)
}

// chainCall is one link of a builder chain: a method name plus its arguments.
type chainCall struct {
	name string
	args []ast.Expr
	node ast.Node
}

// unwindChain flattens a builder chain like pkg.Ctor(a).M1().M2(b) into the
// package name, the constructor call, and the modifier calls in source order.
func (p *fileParser) unwindChain(expr ast.Expr) (pkg string, calls []chainCall, err error) {
	for {
		call, ok := expr.(*ast.CallExpr)
		if !ok {
			return "", nil, p.errorf(expr, "expected a declaration call chain")
		}
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok {
			return "", nil, p.errorf(call, "expected a declaration call chain")
		}
		calls = append([]chainCall{{name: sel.Sel.Name, args: call.Args, node: call}}, calls...)
		if ident, ok := sel.X.(*ast.Ident); ok {
			return ident.Name, calls, nil
		}
		expr = sel.X
	}
}

// parseFieldChain converts one field.<Type>(name).<modifiers> chain into a
// FieldDefinition.
func (p *fileParser) parseFieldChain(expr ast.Expr) (*schema.FieldDefinition, error) {
	pkg, calls, err := p.unwindChain(expr)
	if err != nil {
		return nil, err
	}
	if pkg != "field" {
		return nil, p.errorf(expr, "expected a field declaration, got %s.%s", pkg, calls[0].name)
	}

	ctor := calls[0]
	typeToken, ok := constructorTypes[ctor.name]
	if !ok {
		return nil, p.errorf(ctor.node, "unknown field constructor field.%s", ctor.name)
	}
	typ, err := schema.ParseFieldType(typeToken)
	if err != nil {
		return nil, p.errorf(ctor.node, "%v", err)
	}
	name, err := p.stringArg(ctor, 0)
	if err != nil {
		return nil, err
	}

	field := schema.NewFieldDefinition(name, typ)
	field.Line = p.fset.Position(ctor.node.Pos()).Line

	for _, call := range calls[1:] {
		switch call.name {
		case "PrimaryKey":
			field.SetPrimaryKey()
		case "Unique":
			field.IsUnique = true
		case "Optional":
			field.SetNullable()
		case "Default":
			value, err := p.literalArg(call, 0)
			if err != nil {
				return nil, err
			}
			field.DefaultValue = value
		case "MaxLen":
			n, err := p.intArg(call, 0)
			if err != nil {
				return nil, err
			}
			field.MaxLength = &n
		case "Precision":
			precision, err := p.intArg(call, 0)
			if err != nil {
				return nil, err
			}
			scale, err := p.intArg(call, 1)
			if err != nil {
				return nil, err
			}
			field.Precision = &precision
			field.Scale = &scale
		case "References":
			entity, err := p.stringArg(call, 0)
			if err != nil {
				return nil, err
			}
			column, err := p.stringArg(call, 1)
			if err != nil {
				return nil, err
			}
			field.SetReferences(entity, column)
		case "Values":
			for i := range call.args {
				v, err := p.stringArg(call, i)
				if err != nil {
					return nil, err
				}
				field.EnumValues = append(field.EnumValues, v)
			}
		default:
			return nil, p.errorf(call.node, "unknown field modifier .%s on %q", call.name, name)
		}
	}
	return field, nil
}

// parseEdgeChain converts one edge.<Type>(name, Target{}).<modifiers> chain
// into a RelationshipDefinition.
func (p *fileParser) parseEdgeChain(fromEntity string, expr ast.Expr) (*schema.RelationshipDefinition, error) {
	pkg, calls, err := p.unwindChain(expr)
	if err != nil {
		return nil, err
	}
	if pkg != "edge" {
		return nil, p.errorf(expr, "expected an edge declaration, got %s.%s", pkg, calls[0].name)
	}

	ctor := calls[0]
	var typ schema.RelationshipType
	switch ctor.name {
	case "OneToOne":
		typ = schema.OneToOne
	case "OneToMany":
		typ = schema.OneToMany
	case "ManyToOne":
		typ = schema.ManyToOne
	case "ManyToMany":
		typ = schema.ManyToMany
	default:
		return nil, p.errorf(ctor.node, "unknown edge constructor edge.%s", ctor.name)
	}
	name, err := p.stringArg(ctor, 0)
	if err != nil {
		return nil, err
	}
	if len(ctor.args) < 2 {
		return nil, p.errorf(ctor.node, "edge.%s(%q) is missing its target entity", ctor.name, name)
	}
	target, err := p.targetArg(ctor.args[1])
	if err != nil {
		return nil, err
	}

	rel := schema.NewRelationshipDefinition(fromEntity, target, name, typ)
	rel.Line = p.fset.Position(ctor.node.Pos()).Line

	for _, call := range calls[1:] {
		switch call.name {
		case "BackPopulates":
			inverse, err := p.stringArg(call, 0)
			if err != nil {
				return nil, err
			}
			rel.BackPopulates = inverse
		case "CascadeDelete":
			rel.CascadeDelete = true
		case "Label":
			label, err := p.stringArg(call, 0)
			if err != nil {
				return nil, err
			}
			rel.Label = label
		default:
			return nil, p.errorf(call.node, "unknown edge modifier .%s on %q", call.name, name)
		}
	}
	return rel, nil
}

// targetArg extracts the target entity name from Item{}, Item, pkg.Item{},
// or an explicit "Item" string.
func (p *fileParser) targetArg(arg ast.Expr) (string, error) {
	switch v := arg.(type) {
	case *ast.CompositeLit:
		switch t := v.Type.(type) {
		case *ast.Ident:
			return t.Name, nil
		case *ast.SelectorExpr:
			return t.Sel.Name, nil
		}
	case *ast.Ident:
		return v.Name, nil
	case *ast.BasicLit:
		if v.Kind == token.STRING {
			return strconv.Unquote(v.Value)
		}
	}
	return "", p.errorf(arg, "unsupported edge target expression")
}

func (p *fileParser) stringArg(call chainCall, i int) (string, error) {
	if i >= len(call.args) {
		return "", p.errorf(call.node, "%s is missing argument %d", call.name, i+1)
	}
	lit, ok := call.args[i].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", p.errorf(call.args[i], "%s argument %d must be a string literal", call.name, i+1)
	}
	return strconv.Unquote(lit.Value)
}

func (p *fileParser) intArg(call chainCall, i int) (int, error) {
	if i >= len(call.args) {
		return 0, p.errorf(call.node, "%s is missing argument %d", call.name, i+1)
	}
	lit, ok := call.args[i].(*ast.BasicLit)
	if !ok || lit.Kind != token.INT {
		return 0, p.errorf(call.args[i], "%s argument %d must be an integer literal", call.name, i+1)
	}
	return strconv.Atoi(lit.Value)
}

// literalArg extracts a basic default-value literal: string, int, float,
// or boolean.
func (p *fileParser) literalArg(call chainCall, i int) (interface{}, error) {
	if i >= len(call.args) {
		return nil, p.errorf(call.node, "%s is missing argument %d", call.name, i+1)
	}
	switch v := call.args[i].(type) {
	case *ast.BasicLit:
		switch v.Kind {
		case token.STRING:
			s, err := strconv.Unquote(v.Value)
			if err != nil {
				return nil, p.errorf(v, "invalid string literal %s", v.Value)
			}
			return s, nil
		case token.INT:
			n, err := strconv.Atoi(v.Value)
			if err != nil {
				return nil, p.errorf(v, "invalid integer literal %s", v.Value)
			}
			return n, nil
		case token.FLOAT:
			f, err := strconv.ParseFloat(v.Value, 64)
			if err != nil {
				return nil, p.errorf(v, "invalid float literal %s", v.Value)
			}
			return f, nil
		}
	case *ast.Ident:
		switch v.Name {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return nil, p.errorf(call.args[i], "%s argument %d must be a basic literal", call.name, i+1)
}

// embedsEntityMarker reports whether a struct embeds schema.Entity.
func embedsEntityMarker(st *ast.StructType) bool {
	for _, f := range st.Fields.List {
		if len(f.Names) != 0 {
			continue
		}
		sel, ok := f.Type.(*ast.SelectorExpr)
		if !ok {
			continue
		}
		if ident, ok := sel.X.(*ast.Ident); ok && ident.Name == "schema" && sel.Sel.Name == "Entity" {
			return true
		}
	}
	return false
}

// receiverName returns the receiver's type name, unwrapping a pointer.
func receiverName(expr ast.Expr) string {
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	if ident, ok := expr.(*ast.Ident); ok {
		return ident.Name
	}
	return ""
}

// literalReturn extracts the string literal returned by a TableName method.
// Bodies outside the single-return form fall back to the derived table name.
func literalReturn(fn *ast.FuncDecl) (string, bool) {
	if fn.Body == nil || len(fn.Body.List) != 1 {
		return "", false
	}
	ret, ok := fn.Body.List[0].(*ast.ReturnStmt)
	if !ok || len(ret.Results) != 1 {
		return "", false
	}
	lit, ok := ret.Results[0].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	name, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return name, true
}

// parseErrorFrom converts a go/parser failure into a ParseError with the
// first reported line where determinable.
func parseErrorFrom(path string, err error) *ParseError {
	if list, ok := err.(scanner.ErrorList); ok && len(list) > 0 {
		return &ParseError{Path: path, Line: list[0].Pos.Line, Msg: list[0].Msg}
	}
	msg := err.Error()
	msg = strings.TrimPrefix(msg, path+":")
	return &ParseError{Path: path, Msg: msg}
}
