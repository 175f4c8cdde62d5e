// Package treesitter implements the reference front-end collaborator: a
// tree-sitter-based walker over a dynamically-typed OO source language,
// populating the shared DefinitionStore, ScopeTree, ClassRegistry, and
// ModuleRegistry as it discovers constructs.
package treesitter

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/viant/afs"

	"github.com/example/aidcall/internal/frontend"
	"github.com/example/aidcall/internal/model"
	"github.com/example/aidcall/internal/namespace"
)

const (
	callAttr         = "<call>"
	returnAttr       = "<return>"
	litAttr          = "<dict-keys>"
	accessAttrPrefix = "<subscript>:"
)

// FrontEnd walks one entry point (and, transitively, the modules it imports)
// using a tree-sitter grammar for the target language.
type FrontEnd struct {
	params frontend.Params
	fs     afs.Service
	parser *sitter.Parser
	walked map[string]struct{}
}

// NewFactory builds a frontend.Factory bound to fs, usable as either the
// engine's PRE or POST collaborator (the same walk logic serves both modes;
// import-following and the recording of Definition.Params are gated on
// Mode == ModePre).
func NewFactory(fs afs.Service) frontend.Factory {
	return func(p frontend.Params) (frontend.FrontEnd, error) {
		parser := sitter.NewParser()
		parser.SetLanguage(python.GetLanguage())
		return &FrontEnd{params: p, fs: fs, parser: parser, walked: map[string]struct{}{}}, nil
	}
}

// Analyze parses the entry point and, in PRE mode, follows its imports.
func (f *FrontEnd) Analyze() (map[string]struct{}, error) {
	ctx := context.Background()
	if err := f.analyzeModule(ctx, f.params.InputModuleNS, f.params.InputFile); err != nil {
		return f.walked, err
	}
	return f.walked, nil
}

func (f *FrontEnd) analyzeModule(ctx context.Context, modNS, filePath string) error {
	if _, done := f.walked[modNS]; done {
		return nil
	}
	if _, done := f.params.ModulesAnalyzed[modNS]; done {
		f.walked[modNS] = struct{}{}
		return nil
	}
	src, err := f.fs.DownloadWithURL(ctx, filePath)
	if err != nil {
		return err
	}
	tree, err := f.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return err
	}
	f.walked[modNS] = struct{}{}
	f.params.Modules.AddModule(modNS, filePath, true)
	f.params.Defs.Create(modNS, model.KindModule)

	scope := f.params.Scopes.AddRootScope(modNS, "module")
	root := tree.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		f.statement(ctx, root.NamedChild(i), src, modNS, scope, modNS)
	}
	return nil
}

// statement dispatches one top-level or nested statement node. ownerNS is the
// namespace new declarations are nested under (a module, class or function); defNS is
// the namespace whose Definition records name-pointer growth for expressions
// evaluated directly in this statement (the enclosing function or module).
func (f *FrontEnd) statement(ctx context.Context, n *sitter.Node, src []byte, ownerNS string, scope *model.Scope, defNS string) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "import_statement":
		f.handleImport(ctx, n, src, ownerNS)
	case "import_from_statement":
		f.handleImportFrom(ctx, n, src, ownerNS)
	case "function_definition":
		f.handleFunctionDefinition(n, src, ownerNS, scope)
	case "class_definition":
		f.handleClassDefinition(n, src, ownerNS, scope)
	case "decorated_definition":
		if def := n.ChildByFieldName("definition"); def != nil {
			f.statement(ctx, def, src, ownerNS, scope, defNS)
		}
	case "expression_statement":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			f.expr(n.NamedChild(i), src, scope, defNS)
		}
	case "return_statement":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if target, ok := f.expr(n.NamedChild(i), src, scope, defNS); ok {
				f.defOf(defNS).AddNamePointer(returnAttr, target)
			}
		}
	case "block":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			f.statement(ctx, n.NamedChild(i), src, ownerNS, scope, defNS)
		}
	case "if_statement", "while_statement", "for_statement", "with_statement", "try_statement":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			f.statement(ctx, n.NamedChild(i), src, ownerNS, scope, defNS)
		}
	default:
		// unrecognized construct: still evaluate nested expressions so call
		// sites and attribute accesses inside it are not silently dropped.
		for i := 0; i < int(n.NamedChildCount()); i++ {
			f.expr(n.NamedChild(i), src, scope, defNS)
		}
	}
}

func (f *FrontEnd) defOf(ns string) *model.Definition {
	return f.params.Defs.Create(ns, model.KindName)
}

func (f *FrontEnd) handleFunctionDefinition(n *sitter.Node, src []byte, ownerNS string, scope *model.Scope) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nameNode.Content(src)
	fnNS := namespace.Join(ownerNS, name)

	d := f.params.Defs.Create(fnNS, model.KindFunction)
	scope.Bind(name, fnNS)
	f.params.Scopes.Bind(scope, name, fnNS)

	fnScope := f.params.Scopes.AddScope(ownerNS, name, "function")
	d.ScopeNamespace = fnScope.Namespace

	if paramsNode := n.ChildByFieldName("parameters"); paramsNode != nil {
		f.bindParameters(paramsNode, src, d, fnNS, fnScope)
	}

	if mNS, ok := f.moduleOf(ownerNS); ok {
		f.params.Modules.AddMethod(mNS, fnNS)
	}

	if body := n.ChildByFieldName("body"); body != nil {
		f.statement(context.Background(), body, src, fnNS, fnScope, fnNS)
	}
}

// bindParameters records a callable's formal parameters on its Definition
// and binds them into its scope. Params is written only during the
// discovery pass; a postprocess re-walk must not grow the recorded list.
func (f *FrontEnd) bindParameters(paramsNode *sitter.Node, src []byte, d *model.Definition, ownerNS string, ownerScope *model.Scope) {
	for i := 0; i < int(paramsNode.NamedChildCount()); i++ {
		pname := paramName(paramsNode.NamedChild(i), src)
		if pname == "" {
			continue
		}
		if f.params.Mode == frontend.ModePre {
			d.Params = append(d.Params, pname)
		}
		paramNS := namespace.Join(ownerNS, pname)
		f.params.Defs.Create(paramNS, model.KindName)
		ownerScope.Bind(pname, paramNS)
	}
}

// paramName extracts a parameter node's bound simple name, skipping default
// values, *args/**kwargs markers, and type annotations.
func paramName(n *sitter.Node, src []byte) string {
	switch n.Type() {
	case "identifier":
		return n.Content(src)
	case "default_parameter", "typed_parameter", "typed_default_parameter":
		if nameNode := n.ChildByFieldName("name"); nameNode != nil {
			return nameNode.Content(src)
		}
		if n.NamedChildCount() > 0 {
			return paramName(n.NamedChild(0), src)
		}
	case "list_splat_pattern", "dictionary_splat_pattern":
		if n.NamedChildCount() > 0 {
			return paramName(n.NamedChild(0), src)
		}
	}
	return ""
}

func (f *FrontEnd) handleClassDefinition(n *sitter.Node, src []byte, ownerNS string, scope *model.Scope) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nameNode.Content(src)
	clsNS := namespace.Join(ownerNS, name)

	f.params.Defs.Create(clsNS, model.KindClass)
	scope.Bind(name, clsNS)
	f.params.Scopes.Bind(scope, name, clsNS)

	mNS, _ := f.moduleOf(ownerNS)
	f.params.Classes.AddClass(clsNS, mNS)

	var bases []string
	if superclasses := n.ChildByFieldName("superclasses"); superclasses != nil {
		for i := 0; i < int(superclasses.NamedChildCount()); i++ {
			arg := superclasses.NamedChild(i)
			if target, ok := f.expr(arg, src, scope, clsNS); ok {
				bases = append(bases, target)
			}
		}
	}
	if len(bases) > 0 {
		_ = f.params.Classes.SetBases(clsNS, bases)
	}

	clsScope := f.params.Scopes.AddScope(ownerNS, name, "class")
	if body := n.ChildByFieldName("body"); body != nil {
		f.statement(context.Background(), body, src, clsNS, clsScope, clsNS)
	}
}

func (f *FrontEnd) moduleOf(ns string) (string, bool) {
	for cur := ns; cur != ""; cur = namespace.Parent(cur) {
		if m, ok := f.params.Modules.Get(cur); ok {
			return m.Namespace, true
		}
	}
	return "", false
}

// expr evaluates an expression node for its points-to targets, recording
// call sites, attribute/subscript accesses, and assignments along the way.
// It returns the resolved target namespace (best-effort) and whether one
// could be determined at all.
func (f *FrontEnd) expr(n *sitter.Node, src []byte, scope *model.Scope, defNS string) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Type() {
	case "identifier":
		name := n.Content(src)
		if target, ok := f.params.Scopes.Lookup(scope, name); ok {
			return target, true
		}
		return name, true

	case "attribute":
		obj := n.ChildByFieldName("object")
		attrNode := n.ChildByFieldName("attribute")
		if attrNode == nil {
			return "", false
		}
		attr := attrNode.Content(src)
		objNS, ok := f.expr(obj, src, scope, defNS)
		if !ok {
			return "", false
		}
		recv := f.params.Defs.Create(objNS, model.KindExt)
		if targets := recv.NamesOf(attr); len(targets) > 0 {
			return targets[0], true
		}
		if _, exists := recv.NamePointer[attr]; !exists {
			recv.NamePointer[attr] = map[string]struct{}{}
		}
		return namespace.Join(objNS, attr), true

	case "call":
		fnNode := n.ChildByFieldName("function")
		target, ok := f.expr(fnNode, src, scope, defNS)
		if ok {
			f.defOf(defNS).AddNamePointer(callAttr, target)
		}
		if args := n.ChildByFieldName("arguments"); args != nil {
			for i := 0; i < int(args.NamedChildCount()); i++ {
				f.expr(args.NamedChild(i), src, scope, defNS)
			}
		}
		if ok {
			return target, true
		}
		return "", false

	case "subscript":
		value := n.ChildByFieldName("value")
		objNS, ok := f.expr(value, src, scope, defNS)
		if !ok {
			return "", false
		}
		recv := f.params.Defs.Create(objNS, model.KindExt)
		for i := 0; i < int(n.NamedChildCount())-1; i++ {
			idx := n.NamedChild(i + 1)
			if key, isStr := stringLiteralValue(idx, src); isStr {
				attr := accessAttrPrefix + key
				if _, exists := recv.NamePointer[attr]; !exists {
					recv.NamePointer[attr] = map[string]struct{}{}
				}
			}
		}
		return "", false

	case "dictionary":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			pair := n.NamedChild(i)
			if pair.Type() != "pair" {
				continue
			}
			if key, isStr := stringLiteralValue(pair.ChildByFieldName("key"), src); isStr {
				// represented via defOf(defNS): the statement assigning this
				// literal to a variable attaches litAttr on that variable's
				// Definition, not here; record on defNS as a fallback anchor
				// for dict literals used inline (e.g. passed as an argument).
				f.defOf(defNS).AddNamePointer(litAttr, key)
			}
			if val := pair.ChildByFieldName("value"); val != nil {
				f.expr(val, src, scope, defNS)
			}
		}
		return "", false

	case "assignment":
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		target, ok := f.expr(right, src, scope, defNS)
		lhsNS, lhsOK := f.lvalue(left, src, scope, defNS)
		if lhsOK {
			if ok {
				f.defOf(lhsNS).AddNamePointer(model.RootAttr, target)
			}
			if right != nil && right.Type() == "dictionary" {
				f.copyDictKeys(right, src, lhsNS)
			}
		}
		return lhsNS, lhsOK

	case "lambda":
		name := scope.NextAnonymousName("lambda")
		lamNS := namespace.Join(scope.Namespace, name)
		d := f.params.Defs.Create(lamNS, model.KindFunction)
		lamScope := f.params.Scopes.AddScope(scope.Namespace, name, "lambda")
		d.ScopeNamespace = lamScope.Namespace
		if paramsNode := n.ChildByFieldName("parameters"); paramsNode != nil {
			f.bindParameters(paramsNode, src, d, lamNS, lamScope)
		}
		if body := n.ChildByFieldName("body"); body != nil {
			if target, ok := f.expr(body, src, lamScope, lamNS); ok {
				d.AddNamePointer(returnAttr, target)
			}
		}
		return lamNS, true

	case "list_comprehension", "set_comprehension", "dictionary_comprehension", "generator_expression":
		name := scope.NextAnonymousName(comprehensionTag(n.Type()))
		compNS := namespace.Join(scope.Namespace, name)
		f.params.Defs.Create(compNS, model.KindName)
		compScope := f.params.Scopes.AddScope(scope.Namespace, name, "comprehension")
		// Bind the loop variables before the body reads them.
		for i := 0; i < int(n.NamedChildCount()); i++ {
			clause := n.NamedChild(i)
			if clause.Type() != "for_in_clause" {
				continue
			}
			if right := clause.ChildByFieldName("right"); right != nil {
				f.expr(right, src, compScope, compNS)
			}
			if left := clause.ChildByFieldName("left"); left != nil {
				f.lvalue(left, src, compScope, compNS)
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if child.Type() == "for_in_clause" {
				continue
			}
			f.expr(child, src, compScope, compNS)
		}
		return compNS, true

	case "string":
		f.defOf(defNS).AddLitPointer(model.RootAttr, model.LitString)
		return "", false
	case "integer":
		f.defOf(defNS).AddLitPointer(model.RootAttr, model.LitInt)
		return "", false
	case "float":
		f.defOf(defNS).AddLitPointer(model.RootAttr, model.LitFloat)
		return "", false
	case "true", "false":
		f.defOf(defNS).AddLitPointer(model.RootAttr, model.LitBool)
		return "", false
	case "none":
		f.defOf(defNS).AddLitPointer(model.RootAttr, model.LitNone)
		return "", false

	default:
		var last string
		var lastOK bool
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if t, ok := f.expr(n.NamedChild(i), src, scope, defNS); ok {
				last, lastOK = t, true
			}
		}
		return last, lastOK
	}
}

// lvalue resolves the namespace an assignment target denotes, binding a
// fresh local Definition into scope if the simple name hasn't been seen yet.
func (f *FrontEnd) lvalue(n *sitter.Node, src []byte, scope *model.Scope, defNS string) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Type() {
	case "identifier":
		name := n.Content(src)
		if target, ok := f.params.Scopes.Lookup(scope, name); ok {
			return target, true
		}
		target := namespace.Join(scope.Namespace, name)
		f.params.Defs.Create(target, model.KindName)
		scope.Bind(name, target)
		f.params.Scopes.Bind(scope, name, target)
		return target, true
	case "attribute":
		obj := n.ChildByFieldName("object")
		attrNode := n.ChildByFieldName("attribute")
		if attrNode == nil {
			return "", false
		}
		objNS, ok := f.expr(obj, src, scope, defNS)
		if !ok {
			return "", false
		}
		f.params.Defs.Create(objNS, model.KindExt)
		return namespace.Join(objNS, attrNode.Content(src)), true
	case "pattern_list", "tuple_pattern", "list_pattern":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			f.lvalue(n.NamedChild(i), src, scope, defNS)
		}
		return "", false
	default:
		return f.expr(n, src, scope, defNS)
	}
}

// comprehensionTag names the anonymous-site counter for a comprehension
// node type, e.g. "<listcomp>#1".
func comprehensionTag(nodeType string) string {
	switch nodeType {
	case "dictionary_comprehension":
		return "dictcomp"
	case "set_comprehension":
		return "setcomp"
	case "generator_expression":
		return "genexpr"
	default:
		return "listcomp"
	}
}

// copyDictKeys records the literal keys of a dict literal on the variable
// it is assigned to, so keyerr's known-key index sees them.
func (f *FrontEnd) copyDictKeys(dict *sitter.Node, src []byte, targetNS string) {
	d := f.params.Defs.Create(targetNS, model.KindName)
	for i := 0; i < int(dict.NamedChildCount()); i++ {
		pair := dict.NamedChild(i)
		if pair.Type() != "pair" {
			continue
		}
		if key, isStr := stringLiteralValue(pair.ChildByFieldName("key"), src); isStr {
			d.AddNamePointer(litAttr, key)
		}
	}
}

func stringLiteralValue(n *sitter.Node, src []byte) (string, bool) {
	if n == nil || n.Type() != "string" {
		return "", false
	}
	raw := n.Content(src)
	raw = strings.Trim(raw, "'\"")
	return raw, true
}

func (f *FrontEnd) handleImport(ctx context.Context, n *sitter.Node, src []byte, ownerNS string) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		spec := child.Content(src)
		f.resolveImport(ctx, ownerNS, spec)
	}
}

func (f *FrontEnd) handleImportFrom(ctx context.Context, n *sitter.Node, src []byte, ownerNS string) {
	moduleNode := n.ChildByFieldName("module_name")
	if moduleNode == nil {
		return
	}
	spec := moduleNode.Content(src)
	f.resolveImport(ctx, ownerNS, spec)
}

func (f *FrontEnd) resolveImport(ctx context.Context, ownerNS, spec string) {
	if f.params.Mode != frontend.ModePre || !f.params.Resolver.Active() {
		return
	}
	modNS, err := f.params.Resolver.Resolve(ownerNS, spec)
	if err != nil || modNS == "" {
		return
	}
	root := f.params.Resolver.PackageRoot()
	candidate := root + "/" + strings.ReplaceAll(modNS, ".", "/") + ".py"
	if ok, _ := f.fs.Exists(ctx, candidate); ok {
		f.params.Defs.Create(modNS, model.KindModule)
		_ = f.analyzeModule(ctx, modNS, candidate)
		return
	}
	f.params.Modules.AddModule(modNS, "", false)
	f.params.Defs.Create(modNS, model.KindExt)
}
