package quads

import (
	"fmt"
	"io"
)

// Disassemble writes a readable listing of the quad stream to w, one
// numbered quadruple per line.
func Disassemble(w io.Writer, qs []Quad) {
	for i, q := range qs {
		fmt.Fprintf(w, "%04d %s\n", i, q.String())
	}
}

// String formats a quadruple as (op, arg1, arg2, result) with unused
// slots printed as '-'.
func (q Quad) String() string {
	return fmt.Sprintf("(%s, %s, %s, %s)",
		q.Op.Name(), formatField(q.Arg1), formatField(q.Arg2), formatField(q.Result))
}

func formatField(v int32) string {
	if v == -1 {
		return "-"
	}
	return fmt.Sprintf("%d", v)
}
