package program

import (
	"github.com/xirelogy/go-babyduck/internal/quads"
)

// ScopeSizes records where a scope's cells live: the first address and cell
// count per base type, for variables and temporaries. Indexed by
// semantics.Type. A zero count leaves the base meaningless.
type ScopeSizes struct {
	VarBase   [3]int32
	VarCount  [3]int32
	TempBase  [3]int32
	TempCount [3]int32
}

// Function is one entry of the object program's function table.
type Function struct {
	Name       string
	StartQuad  int32
	ParamAddrs []int32
	Sizes      ScopeSizes
}

// Object is the compiled program handed to the virtual machine: the quad
// stream, the constant table, the function table, and per-scope size
// descriptors.
type Object struct {
	Name      string
	Globals   ScopeSizes
	Functions []Function

	IntConsts    []int32
	FloatConsts  []float64
	BoolConsts   []bool
	StringConsts []string

	Quads []quads.Quad
}

// Lookup returns the function table entry with the given name.
func (o *Object) Lookup(name string) (*Function, bool) {
	for i := range o.Functions {
		if o.Functions[i].Name == name {
			return &o.Functions[i], true
		}
	}
	return nil, false
}

// LookupStart returns the function table entry whose body starts at the
// given quad index.
func (o *Object) LookupStart(start int32) (*Function, bool) {
	for i := range o.Functions {
		if o.Functions[i].StartQuad == start {
			return &o.Functions[i], true
		}
	}
	return nil, false
}
