package gen

import (
	"fmt"

	"github.com/xirelogy/go-babyduck/internal/ast"
	"github.com/xirelogy/go-babyduck/internal/directory"
	"github.com/xirelogy/go-babyduck/internal/memory"
	"github.com/xirelogy/go-babyduck/internal/program"
	"github.com/xirelogy/go-babyduck/internal/quads"
	"github.com/xirelogy/go-babyduck/internal/semantics"
)

// Generator translates a parsed program into a linear quadruple stream. It
// owns the four compile-time stacks; none of them leak into the object
// program.
type Generator struct {
	dir    *directory.FunctionDirectory
	alloc  *memory.Allocator
	consts *memory.ConstTable
	scope  string

	operands  []int32
	types     []semantics.Type
	operators []quads.OpCode
	jumps     []int

	quads     []quads.Quad
	callSites []callSite
	sizes     map[string]program.ScopeSizes
}

// callSite is an ERA or GOSUB quad awaiting its callee's start quad.
type callSite struct {
	quadIdx int
	callee  string
}

// Generate walks the program tree and produces the object program.
// Procedure bodies are emitted first (each records its start quad), then
// main; the final quad is END.
func Generate(prog *ast.Program, dir *directory.FunctionDirectory, alloc *memory.Allocator) (*program.Object, error) {
	g := &Generator{
		dir:    dir,
		alloc:  alloc,
		consts: memory.NewConstTable(),
		sizes:  make(map[string]program.ScopeSizes),
	}

	for _, fn := range prog.Funcs {
		info, _ := dir.Get(fn.Name)
		if err := g.emitFunction(info, fn.Body); err != nil {
			return nil, err
		}
	}

	mainInfo, _ := dir.Get(directory.MainScope)
	if err := g.emitMain(mainInfo, prog.MainBody); err != nil {
		return nil, err
	}

	if err := g.patchCallSites(); err != nil {
		return nil, err
	}

	return g.buildObject(prog.Name), nil
}

func (g *Generator) emitFunction(info *directory.FunctionInfo, body []ast.Statement) error {
	g.scope = info.Name
	tempMark := g.alloc.Totals()
	info.StartQuad = len(g.quads)

	if err := g.genStatements(body); err != nil {
		return err
	}
	g.emit(quads.New(quads.OpEndFunc, -1, -1, -1))

	g.recordSizes(info, tempMark)
	return nil
}

func (g *Generator) emitMain(info *directory.FunctionInfo, body []ast.Statement) error {
	g.scope = directory.MainScope
	tempMark := g.alloc.Totals()
	info.StartQuad = len(g.quads)

	if err := g.genStatements(body); err != nil {
		return err
	}
	g.emit(quads.New(quads.OpEnd, -1, -1, -1))

	g.recordSizes(info, tempMark)
	return nil
}

// recordSizes derives the scope's segment origins. Parameters and locals
// were allocated contiguously per type band at directory build, so the
// minimum address per type is the scope's base in that band. Temporaries
// are whatever the body just consumed.
func (g *Generator) recordSizes(info *directory.FunctionInfo, mark memory.ResourceCounts) {
	var s program.ScopeSizes
	for t := 0; t < 3; t++ {
		s.VarBase[t] = -1
		s.TempBase[t] = -1
	}

	note := func(typ semantics.Type, addr int32) {
		if s.VarBase[typ] == -1 || addr < s.VarBase[typ] {
			s.VarBase[typ] = addr
		}
		s.VarCount[typ]++
	}
	for _, p := range info.Params {
		note(p.Type, p.Addr)
	}
	for _, v := range info.Locals {
		note(v.Type, v.Addr)
	}

	now := g.alloc.Totals()
	tempUsed := [3][2]int32{
		{mark.TempInts, now.TempInts},
		{mark.TempFloats, now.TempFloats},
		{mark.TempBools, now.TempBools},
	}
	tempBases := [3]int32{memory.TempIntBase, memory.TempFloatBase, memory.TempBoolBase}
	for t := 0; t < 3; t++ {
		if count := tempUsed[t][1] - tempUsed[t][0]; count > 0 {
			s.TempBase[t] = tempBases[t] + tempUsed[t][0]
			s.TempCount[t] = count
		}
	}

	info.Resources.TempInts = now.TempInts - mark.TempInts
	info.Resources.TempFloats = now.TempFloats - mark.TempFloats
	info.Resources.TempBools = now.TempBools - mark.TempBools
	g.sizes[info.Name] = s
}

func (g *Generator) genStatements(stmts []ast.Statement) error {
	for _, stmt := range stmts {
		if err := g.genStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) genStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.AssignStmt:
		return g.genAssign(s)
	case *ast.PrintStmt:
		return g.genPrint(s)
	case *ast.IfStmt:
		return g.genIf(s)
	case *ast.WhileStmt:
		return g.genWhile(s)
	case *ast.CallStmt:
		return g.genCall(s)
	default:
		return fmt.Errorf("unsupported statement type %T", stmt)
	}
}

func (g *Generator) genAssign(s *ast.AssignStmt) error {
	if err := g.genExpression(s.Value); err != nil {
		return err
	}
	srcAddr, srcType, err := g.popOperand()
	if err != nil {
		return err
	}
	target, ok := g.dir.Resolve(g.scope, s.Name)
	if !ok {
		return &semantics.UndeclaredVariableError{Name: s.Name, Scope: g.scope}
	}
	if !semantics.AssignOK(target.Type, srcType) {
		return &semantics.AssignmentTypeMismatchError{Target: target.Type, Source: srcType}
	}
	g.emit(quads.New(quads.OpAssign, srcAddr, -1, target.Addr))
	return nil
}

func (g *Generator) genPrint(s *ast.PrintStmt) error {
	for _, item := range s.Items {
		if item.Str != nil {
			addr, err := g.consts.StringConst(*item.Str)
			if err != nil {
				return err
			}
			g.emit(quads.New(quads.OpPrint, addr, -1, -1))
			continue
		}
		if err := g.genExpression(item.Expr); err != nil {
			return err
		}
		addr, _, err := g.popOperand()
		if err != nil {
			return err
		}
		g.emit(quads.New(quads.OpPrint, addr, -1, -1))
	}
	return nil
}

func (g *Generator) genIf(s *ast.IfStmt) error {
	condAddr, err := g.genCondition(s.Condition, "if")
	if err != nil {
		return err
	}
	g.pushJump(len(g.quads))
	g.emit(quads.New(quads.OpGotoF, condAddr, -1, -1))

	if err := g.genStatements(s.Then); err != nil {
		return err
	}

	if s.Else == nil {
		g.patch(g.popJump(), int32(len(g.quads)))
		return nil
	}

	gotoIdx := len(g.quads)
	g.emit(quads.New(quads.OpGoto, -1, -1, -1))
	g.patch(g.popJump(), int32(len(g.quads)))
	g.pushJump(gotoIdx)

	if err := g.genStatements(s.Else); err != nil {
		return err
	}
	g.patch(g.popJump(), int32(len(g.quads)))
	return nil
}

func (g *Generator) genWhile(s *ast.WhileStmt) error {
	returnPos := int32(len(g.quads))
	condAddr, err := g.genCondition(s.Condition, "while")
	if err != nil {
		return err
	}
	g.pushJump(len(g.quads))
	g.emit(quads.New(quads.OpGotoF, condAddr, -1, -1))

	if err := g.genStatements(s.Body); err != nil {
		return err
	}
	g.emit(quads.New(quads.OpGoto, -1, -1, returnPos))
	g.patch(g.popJump(), int32(len(g.quads)))
	return nil
}

func (g *Generator) genCondition(cond ast.Expression, construct string) (int32, error) {
	if err := g.genExpression(cond); err != nil {
		return 0, err
	}
	addr, typ, err := g.popOperand()
	if err != nil {
		return 0, err
	}
	if typ != semantics.Bool {
		return 0, fmt.Errorf("%s condition must be bool, got %s", construct, typ)
	}
	return addr, nil
}

func (g *Generator) genCall(s *ast.CallStmt) error {
	info, ok := g.dir.Get(s.Name)
	if !ok || info.IsProgram || s.Name == directory.GlobalScope || s.Name == directory.MainScope {
		return &semantics.UndeclaredFunctionError{Name: s.Name}
	}
	if len(s.Args) != len(info.Params) {
		return &semantics.ArgumentCountMismatchError{
			Function: s.Name,
			Expected: len(info.Params),
			Got:      len(s.Args),
		}
	}

	g.callSites = append(g.callSites, callSite{quadIdx: len(g.quads), callee: s.Name})
	g.emit(quads.New(quads.OpEra, -1, -1, -1))

	for k, arg := range s.Args {
		if err := g.genExpression(arg); err != nil {
			return err
		}
		addr, typ, err := g.popOperand()
		if err != nil {
			return err
		}
		param := info.Params[k]
		if !semantics.AssignOK(param.Type, typ) {
			return &semantics.AssignmentTypeMismatchError{Target: param.Type, Source: typ}
		}
		g.emit(quads.New(quads.OpParam, addr, -1, int32(k)))
	}

	g.callSites = append(g.callSites, callSite{quadIdx: len(g.quads), callee: s.Name})
	g.emit(quads.New(quads.OpGosub, -1, -1, -1))
	return nil
}

// patchCallSites fills ERA and GOSUB targets once every body has been
// emitted and all start quads are known.
func (g *Generator) patchCallSites() error {
	for _, site := range g.callSites {
		info, ok := g.dir.Get(site.callee)
		if !ok {
			return &semantics.UndeclaredFunctionError{Name: site.callee}
		}
		g.quads[site.quadIdx].Result = int32(info.StartQuad)
	}
	return nil
}

func (g *Generator) emit(q quads.Quad) {
	g.quads = append(g.quads, q)
}

func (g *Generator) patch(quadIdx int, target int32) {
	g.quads[quadIdx].Result = target
}

func (g *Generator) pushJump(quadIdx int) {
	g.jumps = append(g.jumps, quadIdx)
}

func (g *Generator) popJump() int {
	idx := g.jumps[len(g.jumps)-1]
	g.jumps = g.jumps[:len(g.jumps)-1]
	return idx
}

func (g *Generator) buildObject(name string) *program.Object {
	obj := &program.Object{
		Name:         name,
		IntConsts:    g.consts.Ints(),
		FloatConsts:  g.consts.Floats(),
		BoolConsts:   g.consts.Bools(),
		StringConsts: g.consts.Strings(),
		Quads:        g.quads,
	}

	global, _ := g.dir.Get(directory.GlobalScope)
	obj.Globals = globalSizes(global)

	mainInfo, _ := g.dir.Get(directory.MainScope)
	obj.Functions = append(obj.Functions, program.Function{
		Name:      directory.MainScope,
		StartQuad: int32(mainInfo.StartQuad),
		Sizes:     g.sizes[directory.MainScope],
	})
	for _, scopeName := range g.dir.Names() {
		info, _ := g.dir.Get(scopeName)
		if info.IsProgram || scopeName == directory.GlobalScope || scopeName == directory.MainScope {
			continue
		}
		fn := program.Function{
			Name:      scopeName,
			StartQuad: int32(info.StartQuad),
			Sizes:     g.sizes[scopeName],
		}
		for _, p := range info.Params {
			fn.ParamAddrs = append(fn.ParamAddrs, p.Addr)
		}
		obj.Functions = append(obj.Functions, fn)
	}
	return obj
}

// globalSizes covers the global scope, which has no body and therefore no
// temporaries of its own.
func globalSizes(info *directory.FunctionInfo) program.ScopeSizes {
	var s program.ScopeSizes
	for t := 0; t < 3; t++ {
		s.VarBase[t] = -1
		s.TempBase[t] = -1
	}
	for _, v := range info.Locals {
		if s.VarBase[v.Type] == -1 || v.Addr < s.VarBase[v.Type] {
			s.VarBase[v.Type] = v.Addr
		}
		s.VarCount[v.Type]++
	}
	return s
}
