package semantics

import (
	"fmt"

	"github.com/xirelogy/go-babyduck/internal/quads"
)

// Compile-time error kinds. Each carries the offending name or token and,
// where it applies, the scope it was found in.

type DuplicateVariableError struct {
	Name  string
	Scope string
}

func (e *DuplicateVariableError) Error() string {
	return fmt.Sprintf("duplicate variable %q in scope %q", e.Name, e.Scope)
}

type DuplicateFunctionError struct {
	Name string
}

func (e *DuplicateFunctionError) Error() string {
	return fmt.Sprintf("duplicate function name %q", e.Name)
}

type UndeclaredVariableError struct {
	Name  string
	Scope string
}

func (e *UndeclaredVariableError) Error() string {
	return fmt.Sprintf("undeclared variable %q in scope %q", e.Name, e.Scope)
}

type UndeclaredFunctionError struct {
	Name string
}

func (e *UndeclaredFunctionError) Error() string {
	return fmt.Sprintf("undeclared function %q", e.Name)
}

type TypeMismatchError struct {
	Op    quads.OpCode
	Left  Type
	Right Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: %s %s %s", e.Left, e.Op.Name(), e.Right)
}

type ArgumentCountMismatchError struct {
	Function string
	Expected int
	Got      int
}

func (e *ArgumentCountMismatchError) Error() string {
	return fmt.Sprintf("call to %q expects %d arguments, got %d", e.Function, e.Expected, e.Got)
}

type AssignmentTypeMismatchError struct {
	Target Type
	Source Type
}

func (e *AssignmentTypeMismatchError) Error() string {
	return fmt.Sprintf("cannot assign %s to %s", e.Source, e.Target)
}

type UnbalancedParensError struct{}

func (e *UnbalancedParensError) Error() string {
	return "unbalanced parentheses in expression"
}
