package ast

import "github.com/xirelogy/go-babyduck/internal/token"

// Node represents any AST node.
type Node interface {
	Pos() token.Position
}

// Statement is an executable node.
type Statement interface {
	Node
	stmtNode()
}

// Expression produces a value.
type Expression interface {
	Node
	exprNode()
}

// Program is the root node: program header, global variables, procedures,
// and the main body.
type Program struct {
	Name     string
	NamePos  token.Position
	Vars     []VarDecl
	Funcs    []*FuncDecl
	MainBody []Statement
}

func (p *Program) Pos() token.Position { return p.NamePos }

// VarDecl declares one variable with its type. A source group
// `var a, b: int;` expands into one VarDecl per name.
type VarDecl struct {
	Name    string
	VarType TypeName
	PosT    token.Position
}

func (v *VarDecl) Pos() token.Position { return v.PosT }

// TypeName is the declared type keyword.
type TypeName string

const (
	TypeInt   TypeName = "int"
	TypeFloat TypeName = "float"
	TypeBool  TypeName = "bool"
)

// FuncDecl is a non-returning procedure with value parameters.
type FuncDecl struct {
	Name    string
	NamePos token.Position
	Params  []Param
	Vars    []VarDecl
	Body    []Statement
}

func (f *FuncDecl) Pos() token.Position { return f.NamePos }

// Param is one declared parameter.
type Param struct {
	Name      string
	ParamType TypeName
	PosT      token.Position
}

// Statements

type AssignStmt struct {
	Name  string
	Value Expression
	PosT  token.Position
}

func (a *AssignStmt) Pos() token.Position { return a.PosT }
func (a *AssignStmt) stmtNode()           {}

// PrintStmt emits one line per item; items are expressions or raw strings.
type PrintStmt struct {
	Items []PrintItem
	PosT  token.Position
}

func (p *PrintStmt) Pos() token.Position { return p.PosT }
func (p *PrintStmt) stmtNode()           {}

// PrintItem is either an expression or a string literal (Str set, Expr nil).
type PrintItem struct {
	Expr Expression
	Str  *string
	PosT token.Position
}

type IfStmt struct {
	Condition Expression
	Then      []Statement
	Else      []Statement // nil when no else clause
	PosT      token.Position
}

func (i *IfStmt) Pos() token.Position { return i.PosT }
func (i *IfStmt) stmtNode()           {}

type WhileStmt struct {
	Condition Expression
	Body      []Statement
	PosT      token.Position
}

func (w *WhileStmt) Pos() token.Position { return w.PosT }
func (w *WhileStmt) stmtNode()           {}

type CallStmt struct {
	Name string
	Args []Expression
	PosT token.Position
}

func (c *CallStmt) Pos() token.Position { return c.PosT }
func (c *CallStmt) stmtNode()           {}

// Expressions

type Identifier struct {
	Name string
	PosT token.Position
}

func (i *Identifier) Pos() token.Position { return i.PosT }
func (i *Identifier) exprNode()           {}

type IntLiteral struct {
	Value int32
	PosT  token.Position
}

func (n *IntLiteral) Pos() token.Position { return n.PosT }
func (n *IntLiteral) exprNode()           {}

type FloatLiteral struct {
	Value float64
	PosT  token.Position
}

func (n *FloatLiteral) Pos() token.Position { return n.PosT }
func (n *FloatLiteral) exprNode()           {}

type BoolLiteral struct {
	Value bool
	PosT  token.Position
}

func (b *BoolLiteral) Pos() token.Position { return b.PosT }
func (b *BoolLiteral) exprNode()           {}

type BinaryExpr struct {
	Left     Expression
	Operator token.Type
	Right    Expression
	PosT     token.Position
}

func (b *BinaryExpr) Pos() token.Position { return b.PosT }
func (b *BinaryExpr) exprNode()           {}

// GroupExpr keeps explicit parentheses so later stages see the boundary.
type GroupExpr struct {
	Inner Expression
	PosT  token.Position
}

func (g *GroupExpr) Pos() token.Position { return g.PosT }
func (g *GroupExpr) exprNode()           {}
