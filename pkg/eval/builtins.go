package eval

import (
	"bufio"
	"strconv"
	"strings"
	"unicode/utf8"

	"zen/pkg/object"
)

// lineReader wraps the interpreter's stdin in a persistent buffered reader
// so consecutive input() calls do not swallow each other's lookahead.
type lineReader struct {
	r *bufio.Reader
}

func (lr *lineReader) readLine() (string, bool) {
	line, err := lr.r.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if err != nil && line == "" {
		return "", false
	}
	return line, true
}

// makeBuiltins builds the closed set of native functions. Builtins close
// over the interpreter so they can reach its I/O endpoints.
func (in *Interpreter) makeBuiltins() map[string]*object.Builtin {
	builtins := map[string]object.BuiltinFunction{
		"print": in.builtinPrint,
		"len":   builtinLen,
		"type":  builtinType,
		"str":   builtinStr,
		"int":   builtinInt,
		"bool":  builtinBool,
		"input": in.builtinInput,
		"exit":  in.builtinExit,
	}

	out := make(map[string]*object.Builtin, len(builtins))
	for name, fn := range builtins {
		out[name] = &object.Builtin{Name: name, Fn: fn}
	}
	return out
}

// installBuiltins seeds an environment with the builtin bindings. Every
// top-level environment gets the same set; user code may shadow them.
func (in *Interpreter) installBuiltins(env *object.Environment) {
	for name, builtin := range in.builtins {
		env.Set(name, builtin)
	}
}

// display renders a value for print and str: strings appear raw, without
// the quotes Inspect adds; everything else uses its Inspect form.
func display(obj object.Object) string {
	if s, ok := obj.(*object.String); ok {
		return s.Value
	}
	return obj.Inspect()
}

func (in *Interpreter) builtinPrint(args ...object.Object) object.Object {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = display(arg)
	}
	line := strings.Join(parts, " ")
	if _, err := in.Stdout.Write([]byte(line + "\n")); err != nil {
		return newError("print failed: %s", err)
	}
	return object.NIL
}

func builtinLen(args ...object.Object) object.Object {
	if len(args) != 1 {
		return newError("wrong number of arguments to len(): expected 1, got %d", len(args))
	}
	s, ok := args[0].(*object.String)
	if !ok {
		return newError("len() not supported for %s", args[0].Type())
	}
	return &object.Integer{Value: int64(utf8.RuneCountInString(s.Value))}
}

func builtinType(args ...object.Object) object.Object {
	if len(args) != 1 {
		return newError("wrong number of arguments to type(): expected 1, got %d", len(args))
	}
	return &object.String{Value: strings.ToLower(string(args[0].Type()))}
}

func builtinStr(args ...object.Object) object.Object {
	if len(args) != 1 {
		return newError("wrong number of arguments to str(): expected 1, got %d", len(args))
	}
	if s, ok := args[0].(*object.String); ok {
		return s
	}
	return &object.String{Value: display(args[0])}
}

func builtinInt(args ...object.Object) object.Object {
	if len(args) != 1 {
		return newError("wrong number of arguments to int(): expected 1, got %d", len(args))
	}

	switch arg := args[0].(type) {
	case *object.Integer:
		return arg
	case *object.String:
		v, err := strconv.ParseInt(strings.TrimSpace(arg.Value), 10, 64)
		if err != nil {
			return newError("cannot convert '%s' to integer", arg.Value)
		}
		return &object.Integer{Value: v}
	case *object.Boolean:
		if arg.Value {
			return &object.Integer{Value: 1}
		}
		return &object.Integer{Value: 0}
	default:
		return newError("cannot convert %s to integer", args[0].Type())
	}
}

func builtinBool(args ...object.Object) object.Object {
	if len(args) != 1 {
		return newError("wrong number of arguments to bool(): expected 1, got %d", len(args))
	}
	return object.NativeBoolToBoolean(args[0].IsTruthy())
}

// builtinInput writes the optional prompt, then blocks for one line.
// End of input yields the empty string rather than an error.
func (in *Interpreter) builtinInput(args ...object.Object) object.Object {
	if len(args) > 1 {
		return newError("wrong number of arguments to input(): expected 0 or 1, got %d", len(args))
	}
	if len(args) == 1 {
		if _, err := in.Stdout.Write([]byte(display(args[0]))); err != nil {
			return newError("input failed: %s", err)
		}
	}

	if in.stdin == nil {
		in.stdin = &lineReader{r: bufio.NewReader(in.Stdin)}
	}
	line, _ := in.stdin.readLine()
	return &object.String{Value: line}
}

func (in *Interpreter) builtinExit(args ...object.Object) object.Object {
	if len(args) > 1 {
		return newError("wrong number of arguments to exit(): expected 0 or 1, got %d", len(args))
	}

	code := int64(0)
	if len(args) == 1 {
		i, ok := args[0].(*object.Integer)
		if !ok {
			return newError("exit code must be an integer, got %s", args[0].Type())
		}
		code = i.Value
	}

	in.Exit(int(code))
	// Reached only when Exit is a non-terminating test hook.
	return object.NIL
}
