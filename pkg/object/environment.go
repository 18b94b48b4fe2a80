package object

// Environment is a chained, mutable lexical scope mapping names to runtime
// objects. Closures capture their defining Environment by shared reference,
// so writes through Update are visible to every holder of the frame.
type Environment struct {
	store map[string]Object
	outer *Environment
}

func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Object)}
}

func NewEnclosedEnvironment(outer *Environment) *Environment {
	return &Environment{store: make(map[string]Object), outer: outer}
}

// Get searches the local frame first, then walks the outer chain.
func (e *Environment) Get(name string) (Object, bool) {
	obj, ok := e.store[name]
	if !ok && e.outer != nil {
		return e.outer.Get(name)
	}
	return obj, ok
}

// Set writes to the local frame, shadowing any outer binding.
func (e *Environment) Set(name string, val Object) Object {
	e.store[name] = val
	return val
}

// Update mutates the nearest frame already binding name. If no frame in the
// chain binds it, the binding is created locally. This is what assignment
// uses, and what makes closure upvalues shared and mutable.
func (e *Environment) Update(name string, val Object) Object {
	if _, ok := e.store[name]; ok {
		e.store[name] = val
		return val
	}
	if e.outer != nil && e.outer.Has(name) {
		return e.outer.Update(name, val)
	}
	e.store[name] = val
	return val
}

func (e *Environment) Has(name string) bool {
	if _, ok := e.store[name]; ok {
		return true
	}
	return e.outer != nil && e.outer.Has(name)
}

// Bindings exposes the local frame only; outer frames are not included.
// Used to seed module environments and to build public views.
func (e *Environment) Bindings() map[string]Object {
	return e.store
}
