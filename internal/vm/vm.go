package vm

import (
	"fmt"
	"io"

	"github.com/xirelogy/go-babyduck/internal/memory"
	"github.com/xirelogy/go-babyduck/internal/program"
	"github.com/xirelogy/go-babyduck/internal/quads"
	"github.com/xirelogy/go-babyduck/internal/semantics"
)

// Machine interprets a quadruple object program over tri-typed segmented
// memory. One Machine executes one program; concurrent programs need
// independent instances.
type Machine struct {
	obj *program.Object
	out io.Writer

	ip        int
	callStack []int
	staged    []Value

	// cells per segment, indexed by memory.Segment
	segSize [10]int

	intVals   []int32
	intInit   []bool
	floatVals []float64
	floatInit []bool
	boolVals  []bool
	boolInit  []bool
}

// New prepares a machine for the object program, writing print output to out.
func New(obj *program.Object, out io.Writer) *Machine {
	m := &Machine{obj: obj, out: out}
	m.sizeMemory()
	m.loadConstants()
	return m
}

// sizeMemory scans the program once for the highest address used per
// segment and sizes the three type vectors to vars+consts+temps.
func (m *Machine) sizeMemory() {
	track := func(addr int32) {
		if addr < 0 {
			return
		}
		seg, ok := memory.SegmentOf(addr)
		if !ok {
			return
		}
		off := int(addr-seg.Base()) + 1
		if off > m.segSize[seg] {
			m.segSize[seg] = off
		}
	}

	for _, q := range m.obj.Quads {
		track(q.Arg1)
		track(q.Arg2)
		switch q.Op {
		case quads.OpAssign, quads.OpAdd, quads.OpSub, quads.OpMul, quads.OpDiv,
			quads.OpGt, quads.OpLt, quads.OpEq, quads.OpNeq:
			track(q.Result)
		}
	}
	for _, fn := range m.obj.Functions {
		for _, addr := range fn.ParamAddrs {
			track(addr)
		}
		trackSizes(track, fn.Sizes)
	}
	trackSizes(track, m.obj.Globals)

	m.segSize[memory.ConstInt] = max(m.segSize[memory.ConstInt], len(m.obj.IntConsts))
	m.segSize[memory.ConstFloat] = max(m.segSize[memory.ConstFloat], len(m.obj.FloatConsts))
	m.segSize[memory.ConstBool] = max(m.segSize[memory.ConstBool], len(m.obj.BoolConsts))
	m.segSize[memory.ConstString] = max(m.segSize[memory.ConstString], len(m.obj.StringConsts))

	intTotal := m.segSize[memory.VarInt] + m.segSize[memory.ConstInt] + m.segSize[memory.TempInt]
	floatTotal := m.segSize[memory.VarFloat] + m.segSize[memory.ConstFloat] + m.segSize[memory.TempFloat]
	boolTotal := m.segSize[memory.VarBool] + m.segSize[memory.ConstBool] + m.segSize[memory.TempBool]

	m.intVals = make([]int32, intTotal)
	m.intInit = make([]bool, intTotal)
	m.floatVals = make([]float64, floatTotal)
	m.floatInit = make([]bool, floatTotal)
	m.boolVals = make([]bool, boolTotal)
	m.boolInit = make([]bool, boolTotal)
}

func trackSizes(track func(int32), s program.ScopeSizes) {
	for t := 0; t < 3; t++ {
		if s.VarCount[t] > 0 && s.VarBase[t] >= 0 {
			track(s.VarBase[t] + s.VarCount[t] - 1)
		}
		if s.TempCount[t] > 0 && s.TempBase[t] >= 0 {
			track(s.TempBase[t] + s.TempCount[t] - 1)
		}
	}
}

func (m *Machine) loadConstants() {
	for i, v := range m.obj.IntConsts {
		idx, _ := m.intIndex(memory.ConstIntBase + int32(i))
		m.intVals[idx] = v
		m.intInit[idx] = true
	}
	for i, v := range m.obj.FloatConsts {
		idx, _ := m.floatIndex(memory.ConstFloatBase + int32(i))
		m.floatVals[idx] = v
		m.floatInit[idx] = true
	}
	for i, v := range m.obj.BoolConsts {
		idx, _ := m.boolIndex(memory.ConstBoolBase + int32(i))
		m.boolVals[idx] = v
		m.boolInit[idx] = true
	}
}

// Run executes from main's start quad until END.
func (m *Machine) Run() error {
	mainFn, ok := m.obj.Lookup("main")
	if !ok {
		return fmt.Errorf("object program has no main")
	}
	m.ip = int(mainFn.StartQuad)
	m.callStack = m.callStack[:0]
	m.staged = m.staged[:0]

	for {
		if m.ip < 0 || m.ip >= len(m.obj.Quads) {
			return m.errf(ErrInvalidAddress, "instruction pointer %d outside program", m.ip)
		}
		q := m.obj.Quads[m.ip]

		switch q.Op {
		case quads.OpAssign:
			val, err := m.getValue(q.Arg1)
			if err != nil {
				return err
			}
			if err := m.setValue(q.Result, val); err != nil {
				return err
			}
			m.ip++

		case quads.OpAdd, quads.OpSub, quads.OpMul, quads.OpDiv:
			left, err := m.getValue(q.Arg1)
			if err != nil {
				return err
			}
			right, err := m.getValue(q.Arg2)
			if err != nil {
				return err
			}
			result, err := m.arith(q.Op, left, right)
			if err != nil {
				return err
			}
			if err := m.setValue(q.Result, result); err != nil {
				return err
			}
			m.ip++

		case quads.OpGt, quads.OpLt, quads.OpEq, quads.OpNeq:
			left, err := m.getValue(q.Arg1)
			if err != nil {
				return err
			}
			right, err := m.getValue(q.Arg2)
			if err != nil {
				return err
			}
			result, err := m.compare(q.Op, left, right)
			if err != nil {
				return err
			}
			if err := m.setValue(q.Result, BoolVal(result)); err != nil {
				return err
			}
			m.ip++

		case quads.OpPrint:
			if seg, ok := memory.SegmentOf(q.Arg1); ok && seg == memory.ConstString {
				off := int(q.Arg1 - memory.ConstStringBase)
				if off >= len(m.obj.StringConsts) {
					return m.errKind(ErrInvalidAddress, q.Arg1)
				}
				fmt.Fprintln(m.out, m.obj.StringConsts[off])
				m.ip++
				break
			}
			val, err := m.getValue(q.Arg1)
			if err != nil {
				return err
			}
			fmt.Fprintln(m.out, val.Format())
			m.ip++

		case quads.OpGoto:
			m.ip = int(q.Result)

		case quads.OpGotoF, quads.OpGotoT:
			cond, err := m.getValue(q.Arg1)
			if err != nil {
				return err
			}
			if cond.Kind != KindBool {
				return m.errf(ErrTypeMismatch, "jump condition is %s, not bool", cond.Kind)
			}
			jump := !cond.B
			if q.Op == quads.OpGotoT {
				jump = cond.B
			}
			if jump {
				m.ip = int(q.Result)
			} else {
				m.ip++
			}

		case quads.OpEra:
			fn, ok := m.obj.LookupStart(q.Result)
			if !ok {
				return m.errf(ErrInvalidAddress, "ERA: no function starts at quad %d", q.Result)
			}
			m.resetActivation(fn)
			m.staged = m.staged[:0]
			m.ip++

		case quads.OpParam:
			val, err := m.getValue(q.Arg1)
			if err != nil {
				return err
			}
			idx := int(q.Result)
			for len(m.staged) <= idx {
				m.staged = append(m.staged, Value{})
			}
			m.staged[idx] = val
			m.ip++

		case quads.OpGosub:
			fn, ok := m.obj.LookupStart(q.Result)
			if !ok {
				return m.errf(ErrInvalidAddress, "GOSUB: no function starts at quad %d", q.Result)
			}
			if len(m.staged) != len(fn.ParamAddrs) {
				return m.errf(ErrTypeMismatch, "call to %s staged %d parameters, expected %d",
					fn.Name, len(m.staged), len(fn.ParamAddrs))
			}
			for k, val := range m.staged {
				if err := m.setValue(fn.ParamAddrs[k], val); err != nil {
					return err
				}
			}
			m.staged = m.staged[:0]
			m.callStack = append(m.callStack, m.ip+1)
			m.ip = int(q.Result)

		case quads.OpEndFunc:
			if len(m.callStack) == 0 {
				return m.errKind(ErrStackUnderflow, -1)
			}
			m.ip = m.callStack[len(m.callStack)-1]
			m.callStack = m.callStack[:len(m.callStack)-1]

		case quads.OpEnd:
			return nil

		default:
			return m.errf(ErrInvalidAddress, "unknown op code %d", q.Op)
		}
	}
}

func (m *Machine) arith(op quads.OpCode, left, right Value) (Value, error) {
	if left.Kind == KindBool || right.Kind == KindBool {
		return Value{}, m.errf(ErrTypeMismatch, "%s on %s and %s", op.Name(), left.Kind, right.Kind)
	}
	if left.Kind == KindInt && right.Kind == KindInt {
		switch op {
		case quads.OpAdd:
			return IntVal(left.I + right.I), nil
		case quads.OpSub:
			return IntVal(left.I - right.I), nil
		case quads.OpMul:
			return IntVal(left.I * right.I), nil
		default:
			if right.I == 0 {
				return Value{}, m.errKind(ErrDivisionByZero, -1)
			}
			return IntVal(left.I / right.I), nil
		}
	}
	l, r := left.AsFloat(), right.AsFloat()
	switch op {
	case quads.OpAdd:
		return FloatVal(l + r), nil
	case quads.OpSub:
		return FloatVal(l - r), nil
	case quads.OpMul:
		return FloatVal(l * r), nil
	default:
		if r == 0 {
			return Value{}, m.errKind(ErrDivisionByZero, -1)
		}
		return FloatVal(l / r), nil
	}
}

func (m *Machine) compare(op quads.OpCode, left, right Value) (bool, error) {
	if left.Kind == KindBool || right.Kind == KindBool {
		if left.Kind != KindBool || right.Kind != KindBool {
			return false, m.errf(ErrTypeMismatch, "%s on %s and %s", op.Name(), left.Kind, right.Kind)
		}
		switch op {
		case quads.OpEq:
			return left.B == right.B, nil
		case quads.OpNeq:
			return left.B != right.B, nil
		default:
			return false, m.errf(ErrTypeMismatch, "%s on bool operands", op.Name())
		}
	}
	if left.Kind == KindInt && right.Kind == KindInt {
		switch op {
		case quads.OpGt:
			return left.I > right.I, nil
		case quads.OpLt:
			return left.I < right.I, nil
		case quads.OpEq:
			return left.I == right.I, nil
		default:
			return left.I != right.I, nil
		}
	}
	l, r := left.AsFloat(), right.AsFloat()
	switch op {
	case quads.OpGt:
		return l > r, nil
	case quads.OpLt:
		return l < r, nil
	case quads.OpEq:
		return l == r, nil
	default:
		return l != r, nil
	}
}

// resetActivation zeroes the callee's local and temporary cells and leaves
// its parameter cells uninitialised, to be filled by the following
// PARAM/GOSUB pair.
func (m *Machine) resetActivation(fn *program.Function) {
	set := func(addr int32, init bool) {
		seg, ok := memory.SegmentOf(addr)
		if !ok {
			return
		}
		vt, ok := seg.ValueType()
		if !ok {
			return
		}
		switch vt {
		case semantics.Int:
			if idx, err := m.intIndex(addr); err == nil {
				m.intVals[idx] = 0
				m.intInit[idx] = init
			}
		case semantics.Float:
			if idx, err := m.floatIndex(addr); err == nil {
				m.floatVals[idx] = 0
				m.floatInit[idx] = init
			}
		default:
			if idx, err := m.boolIndex(addr); err == nil {
				m.boolVals[idx] = false
				m.boolInit[idx] = init
			}
		}
	}
	for t := 0; t < 3; t++ {
		for i := int32(0); i < fn.Sizes.VarCount[t]; i++ {
			set(fn.Sizes.VarBase[t]+i, true)
		}
		for i := int32(0); i < fn.Sizes.TempCount[t]; i++ {
			set(fn.Sizes.TempBase[t]+i, true)
		}
	}
	for _, addr := range fn.ParamAddrs {
		set(addr, false)
	}
}

func (m *Machine) getValue(addr int32) (Value, error) {
	seg, ok := memory.SegmentOf(addr)
	if !ok {
		return Value{}, m.errKind(ErrInvalidAddress, addr)
	}
	vt, ok := seg.ValueType()
	if !ok {
		return Value{}, m.errKind(ErrInvalidAddress, addr)
	}
	switch vt {
	case semantics.Int:
		idx, err := m.intIndex(addr)
		if err != nil {
			return Value{}, err
		}
		if !m.intInit[idx] {
			return Value{}, m.errKind(ErrUninitialisedRead, addr)
		}
		return IntVal(m.intVals[idx]), nil
	case semantics.Float:
		idx, err := m.floatIndex(addr)
		if err != nil {
			return Value{}, err
		}
		if !m.floatInit[idx] {
			return Value{}, m.errKind(ErrUninitialisedRead, addr)
		}
		return FloatVal(m.floatVals[idx]), nil
	default:
		idx, err := m.boolIndex(addr)
		if err != nil {
			return Value{}, err
		}
		if !m.boolInit[idx] {
			return Value{}, m.errKind(ErrUninitialisedRead, addr)
		}
		return BoolVal(m.boolVals[idx]), nil
	}
}

// setValue stores with the assignment coercion rules: int widens into float
// cells, and int/bool interconvert as 0/1 when a narrowing slips past the
// compile-time cube.
func (m *Machine) setValue(addr int32, v Value) error {
	seg, ok := memory.SegmentOf(addr)
	if !ok {
		return m.errKind(ErrInvalidAddress, addr)
	}
	vt, ok := seg.ValueType()
	if !ok {
		return m.errKind(ErrInvalidAddress, addr)
	}
	switch vt {
	case semantics.Int:
		idx, err := m.intIndex(addr)
		if err != nil {
			return err
		}
		switch v.Kind {
		case KindInt:
			m.intVals[idx] = v.I
		case KindBool:
			m.intVals[idx] = 0
			if v.B {
				m.intVals[idx] = 1
			}
		default:
			return m.errf(ErrTypeMismatch, "cannot store float into int cell %d", addr)
		}
		m.intInit[idx] = true
	case semantics.Float:
		idx, err := m.floatIndex(addr)
		if err != nil {
			return err
		}
		switch v.Kind {
		case KindFloat:
			m.floatVals[idx] = v.F
		case KindInt:
			m.floatVals[idx] = float64(v.I)
		default:
			return m.errf(ErrTypeMismatch, "cannot store bool into float cell %d", addr)
		}
		m.floatInit[idx] = true
	default:
		idx, err := m.boolIndex(addr)
		if err != nil {
			return err
		}
		switch v.Kind {
		case KindBool:
			m.boolVals[idx] = v.B
		case KindInt:
			m.boolVals[idx] = v.I != 0
		default:
			return m.errf(ErrTypeMismatch, "cannot store float into bool cell %d", addr)
		}
		m.boolInit[idx] = true
	}
	return nil
}

// intIndex resolves an int-typed address into the int vector, laid out as
// vars, constants, temps.
func (m *Machine) intIndex(addr int32) (int, error) {
	return m.index(addr, memory.VarInt, memory.ConstInt, memory.TempInt)
}

func (m *Machine) floatIndex(addr int32) (int, error) {
	return m.index(addr, memory.VarFloat, memory.ConstFloat, memory.TempFloat)
}

func (m *Machine) boolIndex(addr int32) (int, error) {
	return m.index(addr, memory.VarBool, memory.ConstBool, memory.TempBool)
}

func (m *Machine) index(addr int32, varSeg, constSeg, tempSeg memory.Segment) (int, error) {
	seg, _ := memory.SegmentOf(addr)
	off := int(addr - seg.Base())
	switch seg {
	case varSeg:
		if off >= m.segSize[varSeg] {
			return 0, m.errKind(ErrInvalidAddress, addr)
		}
		return off, nil
	case constSeg:
		if off >= m.segSize[constSeg] {
			return 0, m.errKind(ErrInvalidAddress, addr)
		}
		return m.segSize[varSeg] + off, nil
	case tempSeg:
		if off >= m.segSize[tempSeg] {
			return 0, m.errKind(ErrInvalidAddress, addr)
		}
		return m.segSize[varSeg] + m.segSize[constSeg] + off, nil
	default:
		return 0, m.errKind(ErrInvalidAddress, addr)
	}
}
