package quads

import (
	"strings"
	"testing"
)

func TestOpCodeNames(t *testing.T) {
	cases := map[OpCode]string{
		OpAssign:  "=",
		OpAdd:     "+",
		OpSub:     "-",
		OpMul:     "*",
		OpDiv:     "/",
		OpGt:      ">",
		OpLt:      "<",
		OpEq:      "==",
		OpNeq:     "!=",
		OpPrint:   "PRINT",
		OpGoto:    "GOTO",
		OpGotoF:   "GOTOF",
		OpGotoT:   "GOTOT",
		OpEra:     "ERA",
		OpParam:   "PARAM",
		OpGosub:   "GOSUB",
		OpEndFunc: "ENDFUNC",
		OpEnd:     "END",
	}
	for op, want := range cases {
		if got := op.Name(); got != want {
			t.Fatalf("op %d: expected %q, got %q", op, want, got)
		}
	}
	if OpCode(99).Name() != "UNKNOWN" {
		t.Fatalf("unknown op should report UNKNOWN")
	}
}

func TestOpClasses(t *testing.T) {
	for _, op := range []OpCode{OpAdd, OpSub, OpMul, OpDiv} {
		if !op.IsArithmetic() || op.IsComparison() {
			t.Fatalf("%s misclassified", op.Name())
		}
	}
	for _, op := range []OpCode{OpGt, OpLt, OpEq, OpNeq} {
		if !op.IsComparison() || op.IsArithmetic() {
			t.Fatalf("%s misclassified", op.Name())
		}
	}
	if OpPrint.IsArithmetic() || OpPrint.IsComparison() {
		t.Fatalf("PRINT misclassified")
	}
}

func TestQuadString(t *testing.T) {
	q := New(OpAdd, 1000, 4000, 5000)
	if q.String() != "(+, 1000, 4000, 5000)" {
		t.Fatalf("unexpected string %q", q.String())
	}
	q = New(OpPrint, 1000, -1, -1)
	if q.String() != "(PRINT, 1000, -, -)" {
		t.Fatalf("unexpected string %q", q.String())
	}
}

func TestDisassemble(t *testing.T) {
	var sb strings.Builder
	Disassemble(&sb, []Quad{
		New(OpAssign, 4000, -1, 1000),
		New(OpEnd, -1, -1, -1),
	})
	want := "0000 (=, 4000, -, 1000)\n0001 (END, -, -, -)\n"
	if sb.String() != want {
		t.Fatalf("unexpected listing %q", sb.String())
	}
}
