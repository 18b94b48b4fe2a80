// Package object defines the Zen runtime value model: the tagged union of
// values the evaluator produces, the lexically scoped Environment, and the
// module Registry.
package object

import (
	"fmt"
	"sort"
	"strings"

	"zen/pkg/ast"
)

type ObjectType string

const (
	INTEGER_OBJ      = "INTEGER"
	STRING_OBJ       = "STRING"
	BOOLEAN_OBJ      = "BOOLEAN"
	NIL_OBJ          = "NIL"
	RETURN_VALUE_OBJ = "RETURN_VALUE"
	ERROR_OBJ        = "ERROR"
	FUNCTION_OBJ     = "FUNCTION"
	CLASS_OBJ        = "CLASS"
	INSTANCE_OBJ     = "INSTANCE"
	BUILTIN_OBJ      = "BUILTIN"
	MODULE_OBJ       = "MODULE"
)

type Object interface {
	Type() ObjectType
	Inspect() string
	IsTruthy() bool
}

// Integer wraps a machine integer. Overflow wraps around per int64
// arithmetic; there is no saturation or promotion.
type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return fmt.Sprintf("%d", i.Value) }
func (i *Integer) IsTruthy() bool   { return i.Value != 0 }

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return fmt.Sprintf("%q", s.Value) }
func (s *String) IsTruthy() bool   { return len(s.Value) > 0 }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return fmt.Sprintf("%t", b.Value) }
func (b *Boolean) IsTruthy() bool   { return b.Value }

type Nil struct{}

func (n *Nil) Type() ObjectType { return NIL_OBJ }
func (n *Nil) Inspect() string  { return "nil" }
func (n *Nil) IsTruthy() bool   { return false }

// ReturnValue wraps a value travelling up to the nearest call boundary. It
// is a control signal only and never escapes the evaluator.
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }
func (rv *ReturnValue) IsTruthy() bool   { return true }

// Error is both a control signal and a user-facing diagnostic. Errors flow
// through the same return channel as results; the evaluator never panics on
// language-level failures.
type Error struct {
	Message string
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string  { return "ERROR: " + e.Message }
func (e *Error) IsTruthy() bool   { return false }

// Function is a closure: the body plus the environment captured at its
// definition site, by shared reference.
type Function struct {
	Name       string
	Parameters []string
	Body       *ast.BlockStatement
	Env        *Environment
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	name := f.Name
	if name == "" {
		name = "<anonymous>"
	}
	return fmt.Sprintf("fx %s(%s) { ... }", name, strings.Join(f.Parameters, ", "))
}
func (f *Function) IsTruthy() bool { return true }

type Class struct {
	Name    string
	Methods map[string]*Function
}

func (c *Class) Type() ObjectType { return CLASS_OBJ }
func (c *Class) Inspect() string {
	names := make([]string, 0, len(c.Methods))
	for name := range c.Methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("clx %s { %s }", c.Name, strings.Join(names, ", "))
}
func (c *Class) IsTruthy() bool { return true }

func (c *Class) GetMethod(name string) (*Function, bool) {
	m, ok := c.Methods[name]
	return m, ok
}

// Instance is an object of a user-defined class. Fields are dynamic: the
// field store starts empty and grows on assignment.
type Instance struct {
	Class  *Class
	Fields *Environment
}

func (in *Instance) Type() ObjectType { return INSTANCE_OBJ }
func (in *Instance) Inspect() string  { return fmt.Sprintf("<%s instance>", in.Class.Name) }
func (in *Instance) IsTruthy() bool   { return true }

func (in *Instance) GetField(name string) (Object, bool) {
	return in.Fields.Get(name)
}

func (in *Instance) SetField(name string, value Object) {
	in.Fields.Set(name, value)
}

func (in *Instance) GetMethod(name string) (*Function, bool) {
	return in.Class.GetMethod(name)
}

// BuiltinFunction is the native signature behind a Builtin. Builtins
// validate their own arity and argument types and report violations as
// Error values, never by panicking.
type BuiltinFunction func(args ...Object) Object

type Builtin struct {
	Name string
	Fn   BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return fmt.Sprintf("<builtin function %s>", b.Name) }
func (b *Builtin) IsTruthy() bool   { return true }

// Module is the result of loading a file once. Env is the filtered public
// view (uppercase-first names), PrivateEnv the full evaluated namespace.
type Module struct {
	Name        string
	Path        string
	Env         *Environment
	PrivateEnv  *Environment
	PackageName string
}

func (m *Module) Type() ObjectType { return MODULE_OBJ }
func (m *Module) Inspect() string  { return fmt.Sprintf("<module %s>", m.Name) }
func (m *Module) IsTruthy() bool   { return true }

// Member looks a name up in the module's public view only.
func (m *Module) Member(name string) (Object, bool) {
	return m.Env.Get(name)
}

// Shared singletons; true, false and nil are compared by identity
// everywhere, which the evaluator relies on for cheap equality.
var (
	NIL   = &Nil{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

func NativeBoolToBoolean(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}
