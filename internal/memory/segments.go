package memory

import (
	"fmt"

	"github.com/xirelogy/go-babyduck/internal/semantics"
)

// Segment identifies one band of the virtual address space.
type Segment int

const (
	VarInt Segment = iota
	VarFloat
	VarBool
	ConstInt
	ConstFloat
	ConstBool
	TempInt
	TempFloat
	TempBool
	ConstString
)

// Address bands. Variables of every scope share the var bands: addresses are
// unique program-wide, so the activation overlay stays flat.
const (
	VarIntBase      int32 = 1000
	VarFloatBase    int32 = 2000
	VarBoolBase     int32 = 3000
	ConstIntBase    int32 = 4000
	ConstFloatBase  int32 = 4500
	ConstBoolBase   int32 = 4800
	TempIntBase     int32 = 5000
	TempFloatBase   int32 = 6000
	TempBoolBase    int32 = 7000
	ConstStringBase int32 = 8000

	VarIntEnd      int32 = 1999
	VarFloatEnd    int32 = 2999
	VarBoolEnd     int32 = 3999
	ConstIntEnd    int32 = 4499
	ConstFloatEnd  int32 = 4799
	ConstBoolEnd   int32 = 4999
	TempIntEnd     int32 = 5999
	TempFloatEnd   int32 = 6999
	TempBoolEnd    int32 = 7999
	ConstStringEnd int32 = 8499
)

var segmentRanges = []struct {
	seg  Segment
	base int32
	end  int32
}{
	{VarInt, VarIntBase, VarIntEnd},
	{VarFloat, VarFloatBase, VarFloatEnd},
	{VarBool, VarBoolBase, VarBoolEnd},
	{ConstInt, ConstIntBase, ConstIntEnd},
	{ConstFloat, ConstFloatBase, ConstFloatEnd},
	{ConstBool, ConstBoolBase, ConstBoolEnd},
	{TempInt, TempIntBase, TempIntEnd},
	{TempFloat, TempFloatBase, TempFloatEnd},
	{TempBool, TempBoolBase, TempBoolEnd},
	{ConstString, ConstStringBase, ConstStringEnd},
}

// SegmentOf recovers the segment an address belongs to.
func SegmentOf(addr int32) (Segment, bool) {
	for _, r := range segmentRanges {
		if addr >= r.base && addr <= r.end {
			return r.seg, true
		}
	}
	return 0, false
}

// Base returns the first address of the segment.
func (s Segment) Base() int32 {
	for _, r := range segmentRanges {
		if r.seg == s {
			return r.base
		}
	}
	return -1
}

// End returns the last address of the segment.
func (s Segment) End() int32 {
	for _, r := range segmentRanges {
		if r.seg == s {
			return r.end
		}
	}
	return -1
}

// ValueType returns the base type stored in the segment. ConstString has no
// base type and reports ok=false.
func (s Segment) ValueType() (semantics.Type, bool) {
	switch s {
	case VarInt, ConstInt, TempInt:
		return semantics.Int, true
	case VarFloat, ConstFloat, TempFloat:
		return semantics.Float, true
	case VarBool, ConstBool, TempBool:
		return semantics.Bool, true
	default:
		return 0, false
	}
}

func (s Segment) String() string {
	switch s {
	case VarInt:
		return "var int"
	case VarFloat:
		return "var float"
	case VarBool:
		return "var bool"
	case ConstInt:
		return "const int"
	case ConstFloat:
		return "const float"
	case ConstBool:
		return "const bool"
	case TempInt:
		return "temp int"
	case TempFloat:
		return "temp float"
	case TempBool:
		return "temp bool"
	case ConstString:
		return "const string"
	default:
		return "unknown"
	}
}

// SegmentOverflowError reports address-space exhaustion; it is fatal to
// compilation.
type SegmentOverflowError struct {
	Segment Segment
}

func (e *SegmentOverflowError) Error() string {
	return fmt.Sprintf("segment %s exhausted", e.Segment)
}
