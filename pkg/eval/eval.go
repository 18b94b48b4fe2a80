// Package eval walks the AST and evaluates Zen programs.
//
// Evaluation is single-threaded and recursive. Errors are ordinary runtime
// values: evaluating a child that yields an *object.Error short-circuits
// the parent, which forwards the same Error unchanged. Return statements
// travel as *object.ReturnValue wrappers until the nearest function-call
// boundary unwraps them.
package eval

import (
	"fmt"
	"io"
	"os"
	"strings"

	"zen/pkg/ast"
	"zen/pkg/lexer"
	"zen/pkg/object"
	"zen/pkg/parser"
)

// Interpreter owns one evaluation universe: the global environment, the
// module registry and the I/O endpoints the builtins use. Independent
// interpreters share nothing.
type Interpreter struct {
	globals  *object.Environment
	registry *object.Registry
	builtins map[string]*object.Builtin

	// I/O and process hooks, replaceable for tests and embedders.
	Stdout io.Writer
	Stdin  io.Reader
	Exit   func(code int)

	stdin *lineReader
}

func New() *Interpreter {
	return NewWithRegistry(object.NewRegistry())
}

func NewWithRegistry(registry *object.Registry) *Interpreter {
	in := &Interpreter{
		globals:  object.NewEnvironment(),
		registry: registry,
		Stdout:   os.Stdout,
		Stdin:    os.Stdin,
		Exit:     os.Exit,
	}
	in.builtins = in.makeBuiltins()
	in.installBuiltins(in.globals)
	return in
}

func (in *Interpreter) Globals() *object.Environment { return in.globals }
func (in *Interpreter) Registry() *object.Registry   { return in.registry }

// Run lexes, parses and evaluates source in the interpreter's global
// environment. Parse errors are aggregated into a single Error value.
func (in *Interpreter) Run(source string) object.Object {
	return in.evalSource(source, in.globals)
}

// EvalFile evaluates a file in a fresh builtin-seeded environment.
func (in *Interpreter) EvalFile(path string) object.Object {
	src, err := os.ReadFile(path)
	if err != nil {
		return newError("could not read %s: %s", path, err)
	}
	env := object.NewEnvironment()
	in.installBuiltins(env)
	return in.evalSource(string(src), env)
}

func (in *Interpreter) evalSource(source string, env *object.Environment) object.Object {
	program, errs := parser.Parse(lexer.Tokenize(source))
	if len(errs) > 0 {
		return newError("parse errors: %s", strings.Join(errs, "; "))
	}
	return in.Eval(program, env)
}

// Eval dispatches on the node kind. It is defined for every AST node.
func (in *Interpreter) Eval(node ast.Node, env *object.Environment) object.Object {
	switch node := node.(type) {
	case nil:
		return object.NIL

	// Statements
	case *ast.Program:
		return in.evalProgram(node, env)

	case *ast.BlockStatement:
		return in.evalBlockStatement(node, env)

	case *ast.ExpressionStatement:
		return in.Eval(node.Expression, env)

	case *ast.ReturnStatement:
		return in.evalReturnStatement(node, env)

	case *ast.AssignStatement:
		return in.evalAssignStatement(node, env)

	case *ast.PackageStatement:
		env.Set("__package__", &object.String{Value: node.Name})
		return object.NIL

	case *ast.LoadStatement:
		return in.evalLoadStatement(node, env)

	case *ast.FunctionStatement:
		fn := &object.Function{
			Name:       node.Name,
			Parameters: node.Parameters,
			Body:       node.Body,
			Env:        env,
		}
		env.Set(node.Name, fn)
		return fn

	case *ast.ClassStatement:
		return in.evalClassStatement(node, env)

	// Expressions
	case *ast.IntegerLiteral:
		return &object.Integer{Value: node.Value}

	case *ast.StringLiteral:
		return &object.String{Value: node.Value}

	case *ast.BooleanLiteral:
		return object.NativeBoolToBoolean(node.Value)

	case *ast.NilLiteral:
		return object.NIL

	case *ast.FunctionLiteral:
		return &object.Function{
			Parameters: node.Parameters,
			Body:       node.Body,
			Env:        env,
		}

	case *ast.SelfExpression:
		if self, ok := env.Get("self"); ok {
			return self
		}
		return newError("'self' used outside of instance method")

	case *ast.Identifier:
		if val, ok := env.Get(node.Value); ok {
			return val
		}
		return newError("identifier not found: %s", node.Value)

	case *ast.PrefixExpression:
		right := in.Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return evalPrefixExpression(node.Operator, right)

	case *ast.InfixExpression:
		left := in.Eval(node.Left, env)
		if isError(left) {
			return left
		}
		right := in.Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return evalInfixExpression(node.Operator, left, right)

	case *ast.CallExpression:
		function := in.Eval(node.Function, env)
		if isError(function) {
			return function
		}
		args, errObj := in.evalExpressions(node.Arguments, env)
		if errObj != nil {
			return errObj
		}
		return in.applyFunction(function, args)

	case *ast.MemberAccessExpression:
		return in.evalMemberAccess(node, env)
	}

	return newError("unknown node type: %T", node)
}

// evalProgram unwraps a top-level ReturnValue in place.
func (in *Interpreter) evalProgram(program *ast.Program, env *object.Environment) object.Object {
	var result object.Object = object.NIL

	for _, statement := range program.Statements {
		result = in.Eval(statement, env)

		switch result := result.(type) {
		case *object.ReturnValue:
			return result.Value
		case *object.Error:
			return result
		}
	}

	return result
}

// evalBlockStatement forwards ReturnValue and Error unopened so they reach
// the enclosing call boundary.
func (in *Interpreter) evalBlockStatement(block *ast.BlockStatement, env *object.Environment) object.Object {
	var result object.Object = object.NIL

	for _, statement := range block.Statements {
		result = in.Eval(statement, env)

		switch result.(type) {
		case *object.ReturnValue, *object.Error:
			return result
		}
	}

	return result
}

func (in *Interpreter) evalReturnStatement(node *ast.ReturnStatement, env *object.Environment) object.Object {
	if node.Value == nil {
		return &object.ReturnValue{Value: object.NIL}
	}
	val := in.Eval(node.Value, env)
	if isError(val) {
		return val
	}
	return &object.ReturnValue{Value: val}
}

func (in *Interpreter) evalAssignStatement(node *ast.AssignStatement, env *object.Environment) object.Object {
	value := in.Eval(node.Value, env)
	if isError(value) {
		return value
	}

	switch target := node.Target.(type) {
	case *ast.Identifier:
		// Assignment writes through the scope chain: the nearest frame
		// already binding the name is mutated, which is what makes
		// closure upvalues shared.
		env.Update(target.Value, value)
		return value
	case *ast.MemberAccessExpression:
		return in.evalMemberAssignment(target, value, env)
	default:
		return newError("invalid assignment target: %s", node.Target.String())
	}
}

func (in *Interpreter) evalMemberAssignment(target *ast.MemberAccessExpression, value object.Object, env *object.Environment) object.Object {
	obj := in.Eval(target.Object, env)
	if isError(obj) {
		return obj
	}

	instance, ok := obj.(*object.Instance)
	if !ok {
		return newError("cannot assign to member of %s", obj.Type())
	}
	instance.SetField(target.Member, value)
	return value
}

func (in *Interpreter) evalClassStatement(node *ast.ClassStatement, env *object.Environment) object.Object {
	methods := make(map[string]*object.Function, len(node.Methods))
	for _, m := range node.Methods {
		methods[m.Name] = &object.Function{
			Name:       m.Name,
			Parameters: m.Parameters,
			Body:       m.Body,
			Env:        env,
		}
	}

	class := &object.Class{Name: node.Name, Methods: methods}
	env.Set(node.Name, class)
	return class
}

func (in *Interpreter) evalExpressions(exps []ast.Expression, env *object.Environment) ([]object.Object, object.Object) {
	result := make([]object.Object, 0, len(exps))

	for _, e := range exps {
		evaluated := in.Eval(e, env)
		if isError(evaluated) {
			return nil, evaluated
		}
		result = append(result, evaluated)
	}

	return result, nil
}

// applyFunction is polymorphic over the three callable kinds: user
// functions, builtins and classes (constructors).
func (in *Interpreter) applyFunction(fn object.Object, args []object.Object) object.Object {
	switch fn := fn.(type) {
	case *object.Function:
		return in.applyUserFunction(fn, args)
	case *object.Builtin:
		return fn.Fn(args...)
	case *object.Class:
		return in.applyClassConstructor(fn, args)
	default:
		return newError("not a function: %s", fn.Type())
	}
}

func (in *Interpreter) applyUserFunction(fn *object.Function, args []object.Object) object.Object {
	if len(args) != len(fn.Parameters) {
		return newError("wrong number of arguments: expected %d, got %d",
			len(fn.Parameters), len(args))
	}

	extended := object.NewEnclosedEnvironment(fn.Env)
	for i, param := range fn.Parameters {
		extended.Set(param, args[i])
	}

	evaluated := in.Eval(fn.Body, extended)
	return unwrapReturnValue(evaluated)
}

// applyClassConstructor builds a fresh instance and runs __init__ when the
// class defines one. The constructor always returns the instance, never
// whatever __init__ evaluated to.
func (in *Interpreter) applyClassConstructor(class *object.Class, args []object.Object) object.Object {
	instance := &object.Instance{Class: class, Fields: object.NewEnvironment()}

	if init, ok := class.GetMethod("__init__"); ok {
		initArgs := append([]object.Object{instance}, args...)
		if result := in.applyUserFunction(init, initArgs); isError(result) {
			return result
		}
	}

	return instance
}

// evalMemberAccess dispatches on the dynamic type of the object: instance
// fields before class methods, module public views, unbound class methods.
func (in *Interpreter) evalMemberAccess(node *ast.MemberAccessExpression, env *object.Environment) object.Object {
	obj := in.Eval(node.Object, env)
	if isError(obj) {
		return obj
	}

	switch obj := obj.(type) {
	case *object.Instance:
		if field, ok := obj.GetField(node.Member); ok {
			return field
		}
		if method, ok := obj.GetMethod(node.Member); ok {
			return bindMethod(method, obj)
		}
		return newError("attribute '%s' not found on %s instance", node.Member, obj.Class.Name)

	case *object.Module:
		if member, ok := obj.Member(node.Member); ok {
			return member
		}
		return newError("module '%s' has no public attribute '%s'", obj.Name, node.Member)

	case *object.Class:
		if method, ok := obj.GetMethod(node.Member); ok {
			return method
		}
		return newError("class '%s' has no attribute '%s'", obj.Name, node.Member)

	default:
		return newError("cannot access member '%s' on %s", node.Member, obj.Type())
	}
}

// bindMethod returns a copy of the method whose closure is extended with
// self bound to the instance; a leading 'self' parameter is stripped so the
// caller does not pass it.
func bindMethod(method *object.Function, instance *object.Instance) *object.Function {
	bound := object.NewEnclosedEnvironment(method.Env)
	bound.Set("self", instance)

	params := method.Parameters
	if len(params) > 0 && params[0] == "self" {
		params = params[1:]
	}

	return &object.Function{
		Name:       method.Name,
		Parameters: params,
		Body:       method.Body,
		Env:        bound,
	}
}

func evalPrefixExpression(operator string, right object.Object) object.Object {
	switch operator {
	case "!":
		return evalBangOperator(right)
	case "-":
		if i, ok := right.(*object.Integer); ok {
			return &object.Integer{Value: -i.Value}
		}
		return newError("unknown operator: -%s", right.Type())
	default:
		return newError("unknown prefix operator: %s", operator)
	}
}

// evalBangOperator is a fixed three-way table, not truthiness negation:
// only the boolean singletons flip, nil maps to true, everything else maps
// to false.
func evalBangOperator(right object.Object) object.Object {
	switch right {
	case object.TRUE:
		return object.FALSE
	case object.FALSE:
		return object.TRUE
	case object.NIL:
		return object.TRUE
	default:
		return object.FALSE
	}
}

func evalInfixExpression(operator string, left, right object.Object) object.Object {
	switch {
	case left.Type() == object.INTEGER_OBJ && right.Type() == object.INTEGER_OBJ:
		return evalIntegerInfixExpression(operator, left.(*object.Integer), right.(*object.Integer))

	case left.Type() == object.STRING_OBJ && right.Type() == object.STRING_OBJ:
		return evalStringInfixExpression(operator, left.(*object.String), right.(*object.String))

	case operator == "==":
		return object.NativeBoolToBoolean(objectsEqual(left, right))

	case operator == "!=":
		return object.NativeBoolToBoolean(!objectsEqual(left, right))

	case operator == "&&":
		// Both operands are already evaluated; the operator only selects
		// one of them by truthiness.
		if !left.IsTruthy() {
			return left
		}
		return right

	case operator == "||":
		if left.IsTruthy() {
			return left
		}
		return right

	default:
		return newError("unknown operator: %s %s %s", left.Type(), operator, right.Type())
	}
}

func evalIntegerInfixExpression(operator string, left, right *object.Integer) object.Object {
	l, r := left.Value, right.Value

	switch operator {
	case "+":
		return &object.Integer{Value: l + r}
	case "-":
		return &object.Integer{Value: l - r}
	case "*":
		return &object.Integer{Value: l * r}
	case "/":
		if r == 0 {
			return newError("division by zero")
		}
		return &object.Integer{Value: floorDiv(l, r)}
	case "<":
		return object.NativeBoolToBoolean(l < r)
	case ">":
		return object.NativeBoolToBoolean(l > r)
	case "<=":
		return object.NativeBoolToBoolean(l <= r)
	case ">=":
		return object.NativeBoolToBoolean(l >= r)
	case "==":
		return object.NativeBoolToBoolean(l == r)
	case "!=":
		return object.NativeBoolToBoolean(l != r)
	default:
		return newError("unknown operator: %s %s %s", left.Type(), operator, right.Type())
	}
}

// floorDiv truncates toward negative infinity: -7 / 2 is -4.
func floorDiv(l, r int64) int64 {
	q := l / r
	if l%r != 0 && (l < 0) != (r < 0) {
		q--
	}
	return q
}

func evalStringInfixExpression(operator string, left, right *object.String) object.Object {
	switch operator {
	case "+":
		return &object.String{Value: left.Value + right.Value}
	case "==":
		return object.NativeBoolToBoolean(left.Value == right.Value)
	case "!=":
		return object.NativeBoolToBoolean(left.Value != right.Value)
	default:
		return newError("unknown operator: %s %s %s", left.Type(), operator, right.Type())
	}
}

// objectsEqual requires matching type tags, compares integers, strings and
// booleans by value, nil trivially, and everything else by identity: two
// distinct instances are never equal, whatever their fields hold.
func objectsEqual(left, right object.Object) bool {
	if left.Type() != right.Type() {
		return false
	}

	switch left := left.(type) {
	case *object.Integer:
		return left.Value == right.(*object.Integer).Value
	case *object.String:
		return left.Value == right.(*object.String).Value
	case *object.Boolean:
		return left.Value == right.(*object.Boolean).Value
	case *object.Nil:
		return true
	default:
		return left == right
	}
}

func unwrapReturnValue(obj object.Object) object.Object {
	if rv, ok := obj.(*object.ReturnValue); ok {
		return rv.Value
	}
	return obj
}

func isError(obj object.Object) bool {
	if obj != nil {
		return obj.Type() == object.ERROR_OBJ
	}
	return false
}

func newError(format string, a ...interface{}) *object.Error {
	return &object.Error{Message: fmt.Sprintf(format, a...)}
}
