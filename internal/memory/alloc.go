package memory

import "github.com/xirelogy/go-babyduck/internal/semantics"

// ResourceCounts summarises how many cells a scope uses per segment kind.
// Parameters count as variables of their type.
type ResourceCounts struct {
	Ints       int32
	Floats     int32
	Bools      int32
	TempInts   int32
	TempFloats int32
	TempBools  int32
}

// Allocator hands out addresses from per-segment monotonic counters. One
// allocator serves the whole program; BeginScope and Snapshot report what
// was allocated since a mark, and Totals gives the cumulative counters.
type Allocator struct {
	varNext  [3]int32 // next offset per type in the var bands
	tempNext [3]int32 // next offset per type in the temp bands
	mark     ResourceCounts
}

// NewAllocator returns an allocator with all segments empty.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// NewVar allocates the next variable cell of the given type.
func (a *Allocator) NewVar(t semantics.Type) (int32, error) {
	base, end := varBand(t)
	addr := base + a.varNext[t]
	if addr > end {
		seg, _ := SegmentOf(base)
		return 0, &SegmentOverflowError{Segment: seg}
	}
	a.varNext[t]++
	return addr, nil
}

// NewTemp allocates the next temporary cell of the given type.
func (a *Allocator) NewTemp(t semantics.Type) (int32, error) {
	base, end := tempBand(t)
	addr := base + a.tempNext[t]
	if addr > end {
		seg, _ := SegmentOf(base)
		return 0, &SegmentOverflowError{Segment: seg}
	}
	a.tempNext[t]++
	return addr, nil
}

// BeginScope marks the current counters; the next Snapshot reports usage
// relative to this mark.
func (a *Allocator) BeginScope() {
	a.mark = a.totals()
}

// Snapshot returns the per-type counts of variables and temporaries
// allocated since the last BeginScope.
func (a *Allocator) Snapshot() ResourceCounts {
	now := a.totals()
	return ResourceCounts{
		Ints:       now.Ints - a.mark.Ints,
		Floats:     now.Floats - a.mark.Floats,
		Bools:      now.Bools - a.mark.Bools,
		TempInts:   now.TempInts - a.mark.TempInts,
		TempFloats: now.TempFloats - a.mark.TempFloats,
		TempBools:  now.TempBools - a.mark.TempBools,
	}
}

// Totals returns the cumulative usage across all scopes.
func (a *Allocator) Totals() ResourceCounts {
	return a.totals()
}

func (a *Allocator) totals() ResourceCounts {
	return ResourceCounts{
		Ints:       a.varNext[semantics.Int],
		Floats:     a.varNext[semantics.Float],
		Bools:      a.varNext[semantics.Bool],
		TempInts:   a.tempNext[semantics.Int],
		TempFloats: a.tempNext[semantics.Float],
		TempBools:  a.tempNext[semantics.Bool],
	}
}

func varBand(t semantics.Type) (base, end int32) {
	switch t {
	case semantics.Int:
		return VarIntBase, VarIntEnd
	case semantics.Float:
		return VarFloatBase, VarFloatEnd
	default:
		return VarBoolBase, VarBoolEnd
	}
}

func tempBand(t semantics.Type) (base, end int32) {
	switch t {
	case semantics.Int:
		return TempIntBase, TempIntEnd
	case semantics.Float:
		return TempFloatBase, TempFloatEnd
	default:
		return TempBoolBase, TempBoolEnd
	}
}
