package gen

import (
	"fmt"

	"github.com/xirelogy/go-babyduck/internal/ast"
	"github.com/xirelogy/go-babyduck/internal/quads"
	"github.com/xirelogy/go-babyduck/internal/semantics"
	"github.com/xirelogy/go-babyduck/internal/token"
)

// fakeBottom is the sentinel pushed onto the operator stack at '(' so
// reductions cannot cross the parenthesis.
const fakeBottom quads.OpCode = -1

// Precedence classes for reduction, higher binds tighter.
const (
	precComparison = 1
	precSum        = 2
	precProduct    = 3
)

func precedenceOf(op quads.OpCode) int {
	switch op {
	case quads.OpMul, quads.OpDiv:
		return precProduct
	case quads.OpAdd, quads.OpSub:
		return precSum
	default:
		return precComparison
	}
}

func opcodeOf(t token.Type) quads.OpCode {
	switch t {
	case token.Plus:
		return quads.OpAdd
	case token.Minus:
		return quads.OpSub
	case token.Star:
		return quads.OpMul
	case token.Slash:
		return quads.OpDiv
	case token.Greater:
		return quads.OpGt
	case token.Less:
		return quads.OpLt
	case token.Equal:
		return quads.OpEq
	default:
		return quads.OpNeq
	}
}

// genExpression evaluates the expression onto the operand/type stacks,
// emitting quads for every reduction. Exactly one operand (and its type)
// remains pushed when it returns without error.
func (g *Generator) genExpression(e ast.Expression) error {
	switch e := e.(type) {
	case *ast.Identifier:
		v, ok := g.dir.Resolve(g.scope, e.Name)
		if !ok {
			return &semantics.UndeclaredVariableError{Name: e.Name, Scope: g.scope}
		}
		g.pushOperand(v.Addr, v.Type)
		return nil
	case *ast.IntLiteral:
		addr, err := g.consts.IntConst(e.Value)
		if err != nil {
			return err
		}
		g.pushOperand(addr, semantics.Int)
		return nil
	case *ast.FloatLiteral:
		addr, err := g.consts.FloatConst(e.Value)
		if err != nil {
			return err
		}
		g.pushOperand(addr, semantics.Float)
		return nil
	case *ast.BoolLiteral:
		addr, err := g.consts.BoolConst(e.Value)
		if err != nil {
			return err
		}
		g.pushOperand(addr, semantics.Bool)
		return nil
	case *ast.GroupExpr:
		g.operators = append(g.operators, fakeBottom)
		if err := g.genExpression(e.Inner); err != nil {
			return err
		}
		if len(g.operators) == 0 || g.operators[len(g.operators)-1] != fakeBottom {
			return &semantics.UnbalancedParensError{}
		}
		g.operators = g.operators[:len(g.operators)-1]
		return nil
	case *ast.BinaryExpr:
		if err := g.genExpression(e.Left); err != nil {
			return err
		}
		op := opcodeOf(e.Operator)
		// equal precedence reduces before the push, keeping operators
		// left-associative
		if err := g.reduceWhile(precedenceOf(op)); err != nil {
			return err
		}
		g.operators = append(g.operators, op)
		if err := g.genExpression(e.Right); err != nil {
			return err
		}
		return g.reduceWhile(precedenceOf(op))
	default:
		return fmt.Errorf("unsupported expression type %T", e)
	}
}

// reduceWhile folds stacked operators of at least minPrec, stopping at a
// false bottom.
func (g *Generator) reduceWhile(minPrec int) error {
	for len(g.operators) > 0 {
		top := g.operators[len(g.operators)-1]
		if top == fakeBottom || precedenceOf(top) < minPrec {
			return nil
		}
		if err := g.reduceTop(); err != nil {
			return err
		}
	}
	return nil
}

// reduceTop pops one operator and two operands, consults the cube,
// allocates a result temporary and emits the quad.
func (g *Generator) reduceTop() error {
	op := g.operators[len(g.operators)-1]
	g.operators = g.operators[:len(g.operators)-1]

	rightAddr, rightType, err := g.popOperand()
	if err != nil {
		return err
	}
	leftAddr, leftType, err := g.popOperand()
	if err != nil {
		return err
	}

	resultType, err := semantics.ResultOf(op, leftType, rightType)
	if err != nil {
		return err
	}
	temp, err := g.alloc.NewTemp(resultType)
	if err != nil {
		return err
	}
	g.emit(quads.New(op, leftAddr, rightAddr, temp))
	g.pushOperand(temp, resultType)
	return nil
}

func (g *Generator) pushOperand(addr int32, t semantics.Type) {
	g.operands = append(g.operands, addr)
	g.types = append(g.types, t)
}

func (g *Generator) popOperand() (int32, semantics.Type, error) {
	if len(g.operands) == 0 {
		return 0, 0, &semantics.UnbalancedParensError{}
	}
	addr := g.operands[len(g.operands)-1]
	typ := g.types[len(g.types)-1]
	g.operands = g.operands[:len(g.operands)-1]
	g.types = g.types[:len(g.types)-1]
	return addr, typ, nil
}
