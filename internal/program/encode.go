package program

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xirelogy/go-babyduck/internal/memory"
)

// The object file is line-oriented text: named sections, comma-separated
// fields, comments starting with //. Encode and Decode are exact inverses,
// so recompiling the same source yields byte-identical object files.

// Encode writes the object program to w.
func (o *Object) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "// babyduck object program: %s\n", o.Name)

	fmt.Fprintln(bw, "COUNTS:")
	writeSizes(bw, "global", o.Globals)
	for _, fn := range o.Functions {
		writeSizes(bw, fn.Name, fn.Sizes)
	}
	fmt.Fprintln(bw, "END_COUNTS")

	fmt.Fprintln(bw, "FUNCTIONS:")
	for _, fn := range o.Functions {
		fmt.Fprintf(bw, "%s,%d,%d", fn.Name, fn.StartQuad, len(fn.ParamAddrs))
		for _, addr := range fn.ParamAddrs {
			fmt.Fprintf(bw, ",%d", addr)
		}
		fmt.Fprintln(bw)
	}
	fmt.Fprintln(bw, "END_FUNCTIONS")

	fmt.Fprintln(bw, "CONSTANTS_INT:")
	for i, v := range o.IntConsts {
		fmt.Fprintf(bw, "%d,%d\n", v, memory.ConstIntBase+int32(i))
	}
	fmt.Fprintln(bw, "END_CONSTANTS_INT")

	fmt.Fprintln(bw, "CONSTANTS_FLOAT:")
	for i, v := range o.FloatConsts {
		fmt.Fprintf(bw, "%s,%d\n", strconv.FormatFloat(v, 'g', -1, 64), memory.ConstFloatBase+int32(i))
	}
	fmt.Fprintln(bw, "END_CONSTANTS_FLOAT")

	fmt.Fprintln(bw, "CONSTANTS_BOOL:")
	for i, v := range o.BoolConsts {
		fmt.Fprintf(bw, "%t,%d\n", v, memory.ConstBoolBase+int32(i))
	}
	fmt.Fprintln(bw, "END_CONSTANTS_BOOL")

	fmt.Fprintln(bw, "CONSTANTS_STRING:")
	for i, v := range o.StringConsts {
		fmt.Fprintf(bw, "%s,%d\n", strconv.Quote(v), memory.ConstStringBase+int32(i))
	}
	fmt.Fprintln(bw, "END_CONSTANTS_STRING")

	fmt.Fprintln(bw, "QUADRUPLES:")
	for _, q := range o.Quads {
		fmt.Fprintf(bw, "%d,%d,%d,%d\n", q.Op, q.Arg1, q.Arg2, q.Result)
	}
	fmt.Fprintln(bw, "END_QUADRUPLES")

	return bw.Flush()
}

func writeSizes(w io.Writer, scope string, s ScopeSizes) {
	fmt.Fprintf(w, "%s", scope)
	for t := 0; t < 3; t++ {
		fmt.Fprintf(w, ",%d,%d", s.VarBase[t], s.VarCount[t])
	}
	for t := 0; t < 3; t++ {
		fmt.Fprintf(w, ",%d,%d", s.TempBase[t], s.TempCount[t])
	}
	fmt.Fprintln(w)
}

func parseSizes(fields []string) (ScopeSizes, error) {
	var s ScopeSizes
	if len(fields) != 12 {
		return s, fmt.Errorf("counts line needs 12 numeric fields, got %d", len(fields))
	}
	vals := make([]int32, 12)
	for i, f := range fields {
		n, err := strconv.ParseInt(strings.TrimSpace(f), 10, 32)
		if err != nil {
			return s, fmt.Errorf("invalid counts field %q: %w", f, err)
		}
		vals[i] = int32(n)
	}
	for t := 0; t < 3; t++ {
		s.VarBase[t] = vals[2*t]
		s.VarCount[t] = vals[2*t+1]
		s.TempBase[t] = vals[6+2*t]
		s.TempCount[t] = vals[6+2*t+1]
	}
	return s, nil
}
