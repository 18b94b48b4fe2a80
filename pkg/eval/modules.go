package eval

import (
	"os"
	"strings"

	"zen/pkg/ast"
	"zen/pkg/lexer"
	"zen/pkg/object"
	"zen/pkg/parser"
)

// evalLoadStatement loads each listed module in order and binds it in the
// current environment. The first failure aborts the statement; the value of
// a load statement is the last module it bound.
func (in *Interpreter) evalLoadStatement(node *ast.LoadStatement, env *object.Environment) object.Object {
	var result object.Object = object.NIL

	for _, path := range node.Imports {
		module := in.loadModule(path, env)
		if isError(module) {
			return module
		}
		result = module
	}

	return result
}

// loadModule resolves, evaluates and caches one module. A cache hit only
// rebinds the existing Module; the module body runs at most once per
// interpreter, whatever the import order.
func (in *Interpreter) loadModule(path string, env *object.Environment) object.Object {
	if cached, ok := in.registry.Lookup(path); ok {
		env.Set(cached.Name, cached)
		return cached
	}

	if in.registry.IsLoading(path) {
		return newError("Circular import detected: %s", path)
	}

	file, ok := in.registry.Resolve(path)
	if !ok {
		return newError("Module not found: %s", path)
	}

	in.registry.BeginLoad(path)
	defer in.registry.EndLoad(path)

	source, err := os.ReadFile(file)
	if err != nil {
		return newError("could not read module %s: %s", path, err)
	}

	program, parseErrs := parser.Parse(lexer.Tokenize(string(source)))
	if len(parseErrs) > 0 {
		return newError("parse errors in module %s: %s", path, strings.Join(parseErrs, "; "))
	}

	// The module body runs in its own top-level environment. Builtins are
	// seeded fresh; nothing from the importing scope leaks in.
	moduleEnv := object.NewEnvironment()
	in.installBuiltins(moduleEnv)

	if result := in.Eval(program, moduleEnv); isError(result) {
		return result
	}

	module := &object.Module{
		Name:        object.ModuleName(path),
		Path:        file,
		Env:         publicView(moduleEnv),
		PrivateEnv:  moduleEnv,
		PackageName: packageName(moduleEnv),
	}

	in.registry.Store(path, module)
	env.Set(module.Name, module)
	return module
}

// publicView filters the module's top-level bindings down to the exported
// names: uppercase-first identifiers, never "__"-prefixed ones.
func publicView(moduleEnv *object.Environment) *object.Environment {
	public := object.NewEnvironment()
	for name, obj := range moduleEnv.Bindings() {
		if object.IsPublicName(name) {
			public.Set(name, obj)
		}
	}
	return public
}

func packageName(moduleEnv *object.Environment) string {
	if marker, ok := moduleEnv.Get("__package__"); ok {
		if s, ok := marker.(*object.String); ok {
			return s.Value
		}
	}
	return ""
}
