package program

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xirelogy/go-babyduck/internal/memory"
	"github.com/xirelogy/go-babyduck/internal/quads"
)

// Decode reads an object program previously written by Encode.
func Decode(r io.Reader) (*Object, error) {
	obj := &Object{}
	sizes := make(map[string]ScopeSizes)
	var sizeOrder []string

	section := ""
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "//") {
			if obj.Name == "" {
				if _, rest, ok := strings.Cut(line, "object program:"); ok {
					obj.Name = strings.TrimSpace(rest)
				}
			}
			continue
		}
		if strings.HasSuffix(line, ":") && !strings.Contains(line, ",") {
			section = strings.TrimSuffix(line, ":")
			continue
		}
		if strings.HasPrefix(line, "END_") {
			section = ""
			continue
		}

		var err error
		switch section {
		case "COUNTS":
			err = decodeCounts(line, sizes, &sizeOrder)
		case "FUNCTIONS":
			err = decodeFunction(obj, line)
		case "CONSTANTS_INT":
			err = decodeIntConst(obj, line)
		case "CONSTANTS_FLOAT":
			err = decodeFloatConst(obj, line)
		case "CONSTANTS_BOOL":
			err = decodeBoolConst(obj, line)
		case "CONSTANTS_STRING":
			err = decodeStringConst(obj, line)
		case "QUADRUPLES":
			err = decodeQuad(obj, line)
		default:
			err = fmt.Errorf("content outside any section")
		}
		if err != nil {
			return nil, fmt.Errorf("object line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if g, ok := sizes["global"]; ok {
		obj.Globals = g
	}
	for i := range obj.Functions {
		if s, ok := sizes[obj.Functions[i].Name]; ok {
			obj.Functions[i].Sizes = s
		}
	}
	return obj, nil
}

func decodeCounts(line string, sizes map[string]ScopeSizes, order *[]string) error {
	fields := strings.Split(line, ",")
	if len(fields) < 2 {
		return fmt.Errorf("invalid counts line")
	}
	s, err := parseSizes(fields[1:])
	if err != nil {
		return err
	}
	name := fields[0]
	sizes[name] = s
	*order = append(*order, name)
	return nil
}

func decodeFunction(obj *Object, line string) error {
	fields := strings.Split(line, ",")
	if len(fields) < 3 {
		return fmt.Errorf("invalid function line")
	}
	start, err := strconv.ParseInt(fields[1], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid start quad %q", fields[1])
	}
	count, err := strconv.Atoi(fields[2])
	if err != nil || count < 0 {
		return fmt.Errorf("invalid parameter count %q", fields[2])
	}
	if len(fields) != 3+count {
		return fmt.Errorf("function %s: expected %d parameter addresses, got %d",
			fields[0], count, len(fields)-3)
	}
	fn := Function{Name: fields[0], StartQuad: int32(start)}
	for _, f := range fields[3:] {
		addr, err := strconv.ParseInt(f, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid parameter address %q", f)
		}
		fn.ParamAddrs = append(fn.ParamAddrs, int32(addr))
	}
	obj.Functions = append(obj.Functions, fn)
	return nil
}

func decodeIntConst(obj *Object, line string) error {
	val, addr, err := splitConst(line)
	if err != nil {
		return err
	}
	n, err := strconv.ParseInt(val, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid int constant %q", val)
	}
	if want := memory.ConstIntBase + int32(len(obj.IntConsts)); addr != want {
		return fmt.Errorf("int constant address %d out of order, expected %d", addr, want)
	}
	obj.IntConsts = append(obj.IntConsts, int32(n))
	return nil
}

func decodeFloatConst(obj *Object, line string) error {
	val, addr, err := splitConst(line)
	if err != nil {
		return err
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fmt.Errorf("invalid float constant %q", val)
	}
	if want := memory.ConstFloatBase + int32(len(obj.FloatConsts)); addr != want {
		return fmt.Errorf("float constant address %d out of order, expected %d", addr, want)
	}
	obj.FloatConsts = append(obj.FloatConsts, f)
	return nil
}

func decodeBoolConst(obj *Object, line string) error {
	val, addr, err := splitConst(line)
	if err != nil {
		return err
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return fmt.Errorf("invalid bool constant %q", val)
	}
	if want := memory.ConstBoolBase + int32(len(obj.BoolConsts)); addr != want {
		return fmt.Errorf("bool constant address %d out of order, expected %d", addr, want)
	}
	obj.BoolConsts = append(obj.BoolConsts, b)
	return nil
}

func decodeStringConst(obj *Object, line string) error {
	val, addr, err := splitConst(line)
	if err != nil {
		return err
	}
	s, err := strconv.Unquote(val)
	if err != nil {
		return fmt.Errorf("invalid string constant %s", val)
	}
	if want := memory.ConstStringBase + int32(len(obj.StringConsts)); addr != want {
		return fmt.Errorf("string constant address %d out of order, expected %d", addr, want)
	}
	obj.StringConsts = append(obj.StringConsts, s)
	return nil
}

// splitConst separates "<value>,<address>" on the last comma, so quoted
// string values may contain commas.
func splitConst(line string) (string, int32, error) {
	idx := strings.LastIndex(line, ",")
	if idx < 0 {
		return "", 0, fmt.Errorf("invalid constant line")
	}
	addr, err := strconv.ParseInt(line[idx+1:], 10, 32)
	if err != nil {
		return "", 0, fmt.Errorf("invalid constant address %q", line[idx+1:])
	}
	return line[:idx], int32(addr), nil
}

func decodeQuad(obj *Object, line string) error {
	fields := strings.Split(line, ",")
	if len(fields) != 4 {
		return fmt.Errorf("invalid quadruple line")
	}
	vals := make([]int32, 4)
	for i, f := range fields {
		n, err := strconv.ParseInt(strings.TrimSpace(f), 10, 32)
		if err != nil {
			return fmt.Errorf("invalid quadruple field %q", f)
		}
		vals[i] = int32(n)
	}
	obj.Quads = append(obj.Quads, quads.New(quads.OpCode(vals[0]), vals[1], vals[2], vals[3]))
	return nil
}
