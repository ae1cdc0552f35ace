package directory

import (
	"github.com/xirelogy/go-babyduck/internal/ast"
	"github.com/xirelogy/go-babyduck/internal/memory"
	"github.com/xirelogy/go-babyduck/internal/semantics"
)

// GlobalScope holds program-level variables; MainScope is the entry
// procedure. Both are reserved names in the directory.
const (
	GlobalScope = "global"
	MainScope   = "main"
)

// VarInfo records a declared variable's type and virtual address.
type VarInfo struct {
	Type semantics.Type
	Addr int32
}

// ParamInfo records one parameter in declaration order.
type ParamInfo struct {
	Name string
	Type semantics.Type
	Addr int32
}

// FunctionInfo is one scope's entry: parameters, locals, the quad index
// where the body starts, and the resources the scope consumes.
type FunctionInfo struct {
	Name      string
	IsProgram bool
	Params    []ParamInfo
	Locals    map[string]VarInfo
	StartQuad int
	Resources memory.ResourceCounts
}

// FunctionDirectory maps scope names to their entries.
type FunctionDirectory struct {
	funcs map[string]*FunctionInfo
	order []string
}

// Build walks the program's declarations: the global scope first, then main,
// then each procedure. Parameters are allocated before locals; a local may
// clash with neither a parameter nor an earlier local.
func Build(prog *ast.Program, alloc *memory.Allocator) (*FunctionDirectory, error) {
	d := &FunctionDirectory{funcs: make(map[string]*FunctionInfo)}

	global := &FunctionInfo{
		Name:   GlobalScope,
		Locals: make(map[string]VarInfo),
	}
	d.insert(global)
	for _, v := range prog.Vars {
		if err := addLocal(global, v, alloc); err != nil {
			return nil, err
		}
	}
	global.Resources = countVars(global)

	d.insert(&FunctionInfo{
		Name:      prog.Name,
		IsProgram: true,
		Locals:    make(map[string]VarInfo),
	})

	d.insert(&FunctionInfo{
		Name:   MainScope,
		Locals: make(map[string]VarInfo),
	})

	for _, fn := range prog.Funcs {
		if err := d.addFunction(fn, alloc); err != nil {
			return nil, err
		}
	}

	return d, nil
}

func (d *FunctionDirectory) addFunction(fn *ast.FuncDecl, alloc *memory.Allocator) error {
	if _, exists := d.funcs[fn.Name]; exists {
		return &semantics.DuplicateFunctionError{Name: fn.Name}
	}

	info := &FunctionInfo{
		Name:   fn.Name,
		Locals: make(map[string]VarInfo),
	}

	seen := make(map[string]bool)
	for _, p := range fn.Params {
		if seen[p.Name] {
			return &semantics.DuplicateVariableError{Name: p.Name, Scope: fn.Name}
		}
		seen[p.Name] = true
		typ := typeOf(p.ParamType)
		addr, err := alloc.NewVar(typ)
		if err != nil {
			return err
		}
		info.Params = append(info.Params, ParamInfo{Name: p.Name, Type: typ, Addr: addr})
	}

	for _, v := range fn.Vars {
		if seen[v.Name] {
			return &semantics.DuplicateVariableError{Name: v.Name, Scope: fn.Name}
		}
		if err := addLocal(info, v, alloc); err != nil {
			return err
		}
	}

	info.Resources = countVars(info)
	d.insert(info)
	return nil
}

func addLocal(info *FunctionInfo, v ast.VarDecl, alloc *memory.Allocator) error {
	scope := info.Name
	if _, dup := info.Locals[v.Name]; dup {
		return &semantics.DuplicateVariableError{Name: v.Name, Scope: scope}
	}
	typ := typeOf(v.VarType)
	addr, err := alloc.NewVar(typ)
	if err != nil {
		return err
	}
	info.Locals[v.Name] = VarInfo{Type: typ, Addr: addr}
	return nil
}

func countVars(info *FunctionInfo) memory.ResourceCounts {
	var rc memory.ResourceCounts
	bump := func(t semantics.Type) {
		switch t {
		case semantics.Int:
			rc.Ints++
		case semantics.Float:
			rc.Floats++
		case semantics.Bool:
			rc.Bools++
		}
	}
	for _, p := range info.Params {
		bump(p.Type)
	}
	for _, v := range info.Locals {
		bump(v.Type)
	}
	return rc
}

func (d *FunctionDirectory) insert(info *FunctionInfo) {
	d.funcs[info.Name] = info
	d.order = append(d.order, info.Name)
}

// Get returns the entry for a scope name.
func (d *FunctionDirectory) Get(name string) (*FunctionInfo, bool) {
	info, ok := d.funcs[name]
	return info, ok
}

// Names returns scope names in registration order.
func (d *FunctionDirectory) Names() []string {
	return d.order
}

// Resolve looks a variable up in the given scope (parameters, then locals)
// and falls back to the global scope.
func (d *FunctionDirectory) Resolve(scope, name string) (VarInfo, bool) {
	if info, ok := d.funcs[scope]; ok {
		for _, p := range info.Params {
			if p.Name == name {
				return VarInfo{Type: p.Type, Addr: p.Addr}, true
			}
		}
		if v, ok := info.Locals[name]; ok {
			return v, true
		}
	}
	if scope != GlobalScope {
		if global, ok := d.funcs[GlobalScope]; ok {
			if v, ok := global.Locals[name]; ok {
				return v, true
			}
		}
	}
	return VarInfo{}, false
}

func typeOf(t ast.TypeName) semantics.Type {
	switch t {
	case ast.TypeFloat:
		return semantics.Float
	case ast.TypeBool:
		return semantics.Bool
	default:
		return semantics.Int
	}
}
