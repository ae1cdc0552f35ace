package semantics

import "github.com/xirelogy/go-babyduck/internal/quads"

// ResultOf is the semantic cube: the total lookup of
// (op, left type, right type) to result type. Arithmetic on two ints stays
// int and widens to float when either side is float; booleans only enter
// through == and !=, which compare equal base types.
func ResultOf(op quads.OpCode, left, right Type) (Type, error) {
	switch {
	case op.IsArithmetic():
		if left == Bool || right == Bool {
			return 0, &TypeMismatchError{Op: op, Left: left, Right: right}
		}
		if left == Float || right == Float {
			return Float, nil
		}
		return Int, nil
	case op == quads.OpGt || op == quads.OpLt:
		if left == Bool || right == Bool {
			return 0, &TypeMismatchError{Op: op, Left: left, Right: right}
		}
		return Bool, nil
	case op == quads.OpEq || op == quads.OpNeq:
		if left == Bool && right == Bool {
			return Bool, nil
		}
		if left == Bool || right == Bool {
			return 0, &TypeMismatchError{Op: op, Left: left, Right: right}
		}
		return Bool, nil
	default:
		return 0, &TypeMismatchError{Op: op, Left: left, Right: right}
	}
}

// AssignOK reports whether a value of type src may be stored into a cell of
// type dst: same type always, and int widens to float. Float never narrows.
func AssignOK(dst, src Type) bool {
	if dst == src {
		return true
	}
	return dst == Float && src == Int
}
