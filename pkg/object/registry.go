package object

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Ext is the Zen source file extension, including the dot.
const Ext = ".zen"

// defaultRoots are the conventional module search locations, tried after
// the literal path relative to the working directory.
var defaultRoots = []string{".", "examples", "lib", "modules"}

// Registry owns module loading state: the never-evicted cache of loaded
// modules, the stack of in-flight loads used for circular import detection,
// and the ordered list of filesystem search roots.
//
// A Registry is an explicit instance owned by one interpreter, not process
// state, so independent interpreters can coexist. It is not safe for
// concurrent use; the evaluator is single-threaded.
type Registry struct {
	modules map[string]*Module
	loading []string
	roots   []string
}

func NewRegistry(extraRoots ...string) *Registry {
	r := &Registry{
		modules: make(map[string]*Module),
		roots:   append([]string{}, defaultRoots...),
	}
	r.AddRoots(extraRoots...)
	return r
}

// AddRoots appends search roots, keeping the configured order.
func (r *Registry) AddRoots(roots ...string) {
	r.roots = append(r.roots, roots...)
}

func (r *Registry) Roots() []string {
	return append([]string{}, r.roots...)
}

// Lookup returns the cached module for an import path, if any.
func (r *Registry) Lookup(path string) (*Module, bool) {
	m, ok := r.modules[path]
	return m, ok
}

// Store caches a loaded module under its import path. Cached modules are
// never evicted; re-imports are rebinds, not re-executions.
func (r *Registry) Store(path string, m *Module) {
	r.modules[path] = m
}

// IsLoading reports whether path is currently on the in-flight load stack.
func (r *Registry) IsLoading(path string) bool {
	for _, p := range r.loading {
		if p == path {
			return true
		}
	}
	return false
}

func (r *Registry) BeginLoad(path string) {
	r.loading = append(r.loading, path)
}

func (r *Registry) EndLoad(path string) {
	for i := len(r.loading) - 1; i >= 0; i-- {
		if r.loading[i] == path {
			r.loading = append(r.loading[:i], r.loading[i+1:]...)
			return
		}
	}
}

// Resolve maps an import path to an existing file. Per search root it tries
// the literal path, path+".zen", path+"/main.zen" and path+"/index.zen",
// first hit wins; a path already carrying the extension is tried literally
// only.
func (r *Registry) Resolve(path string) (string, bool) {
	candidates := []string{path}
	if !strings.HasSuffix(path, Ext) {
		candidates = append(candidates,
			path+Ext,
			filepath.Join(path, "main"+Ext),
			filepath.Join(path, "index"+Ext),
		)
	}

	for _, root := range r.roots {
		for _, candidate := range candidates {
			full := filepath.Join(root, candidate)
			info, err := os.Stat(full)
			if err != nil || info.IsDir() {
				continue
			}
			if abs, err := filepath.Abs(full); err == nil {
				return abs, true
			}
			return full, true
		}
	}

	return "", false
}

// ModuleName extracts the binding name for an import path: the trailing
// path component with the extension stripped.
func ModuleName(path string) string {
	path = strings.TrimSuffix(path, Ext)
	path = strings.ReplaceAll(path, "\\", "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// IsPublicName implements the visibility rule: names starting with an
// uppercase letter are exported; everything else, including the internal
// "__"-prefixed marker bindings, is private.
func IsPublicName(name string) bool {
	if name == "" || strings.HasPrefix(name, "__") {
		return false
	}
	return unicode.IsUpper([]rune(name)[0])
}
