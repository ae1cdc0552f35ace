package memory

import (
	"errors"
	"testing"

	"github.com/xirelogy/go-babyduck/internal/semantics"
)

func TestAllocatorMonotonic(t *testing.T) {
	a := NewAllocator()
	a1, _ := a.NewVar(semantics.Int)
	a2, _ := a.NewVar(semantics.Int)
	f1, _ := a.NewVar(semantics.Float)
	if a1 != VarIntBase || a2 != VarIntBase+1 {
		t.Fatalf("unexpected int addresses %d %d", a1, a2)
	}
	if f1 != VarFloatBase {
		t.Fatalf("unexpected float address %d", f1)
	}
	t1, _ := a.NewTemp(semantics.Bool)
	if t1 != TempBoolBase {
		t.Fatalf("unexpected temp address %d", t1)
	}
}

func TestAllocatorSnapshot(t *testing.T) {
	a := NewAllocator()
	a.NewVar(semantics.Int) // global
	a.BeginScope()
	a.NewVar(semantics.Int)
	a.NewVar(semantics.Float)
	a.NewTemp(semantics.Int)
	a.NewTemp(semantics.Int)
	got := a.Snapshot()
	want := ResourceCounts{Ints: 1, Floats: 1, TempInts: 2}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	totals := a.Totals()
	if totals.Ints != 2 {
		t.Fatalf("expected 2 ints total, got %d", totals.Ints)
	}
}

func TestAllocatorOverflow(t *testing.T) {
	a := NewAllocator()
	for i := int32(0); i <= VarIntEnd-VarIntBase; i++ {
		if _, err := a.NewVar(semantics.Int); err != nil {
			t.Fatalf("unexpected overflow at %d", i)
		}
	}
	_, err := a.NewVar(semantics.Int)
	var soe *SegmentOverflowError
	if !errors.As(err, &soe) {
		t.Fatalf("expected SegmentOverflowError, got %v", err)
	}
	if soe.Segment != VarInt {
		t.Fatalf("expected var int segment, got %s", soe.Segment)
	}
}

func TestConstTableDedup(t *testing.T) {
	c := NewConstTable()
	a1, _ := c.IntConst(10)
	a2, _ := c.IntConst(10)
	a3, _ := c.IntConst(20)
	if a1 != a2 {
		t.Fatalf("expected deduplicated address, got %d and %d", a1, a2)
	}
	if a3 == a1 {
		t.Fatalf("distinct literals share address %d", a3)
	}
	f1, _ := c.FloatConst(1.5)
	f2, _ := c.FloatConst(1.5)
	if f1 != f2 || f1 != ConstFloatBase {
		t.Fatalf("unexpected float addresses %d %d", f1, f2)
	}
	s1, _ := c.StringConst("hi")
	s2, _ := c.StringConst("hi")
	if s1 != s2 || s1 != ConstStringBase {
		t.Fatalf("unexpected string addresses %d %d", s1, s2)
	}
	if len(c.Ints()) != 2 || len(c.Floats()) != 1 || len(c.Strings()) != 1 {
		t.Fatalf("unexpected table sizes")
	}
}

func TestSegmentOf(t *testing.T) {
	cases := []struct {
		addr int32
		seg  Segment
	}{
		{1000, VarInt},
		{2999, VarFloat},
		{3500, VarBool},
		{4000, ConstInt},
		{4500, ConstFloat},
		{4800, ConstBool},
		{5123, TempInt},
		{6001, TempFloat},
		{7999, TempBool},
		{8000, ConstString},
	}
	for _, c := range cases {
		seg, ok := SegmentOf(c.addr)
		if !ok || seg != c.seg {
			t.Fatalf("SegmentOf(%d): expected %s, got %s ok=%v", c.addr, c.seg, seg, ok)
		}
	}
	if _, ok := SegmentOf(999); ok {
		t.Fatalf("expected 999 to be unmapped")
	}
	if _, ok := SegmentOf(-1); ok {
		t.Fatalf("expected -1 to be unmapped")
	}
}
