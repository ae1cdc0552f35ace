package parser

import (
	"testing"

	"github.com/xirelogy/go-babyduck/internal/ast"
	"github.com/xirelogy/go-babyduck/internal/lexer"
	"github.com/xirelogy/go-babyduck/internal/token"
)

func parseSource(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := New(lexer.New(src))
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("parser errors: %v", p.Errors())
	}
	return prog
}

func TestParseProgramHeader(t *testing.T) {
	prog := parseSource(t, `program demo; main { } end`)
	if prog.Name != "demo" {
		t.Fatalf("expected program name demo, got %q", prog.Name)
	}
	if len(prog.Vars) != 0 || len(prog.Funcs) != 0 || len(prog.MainBody) != 0 {
		t.Fatalf("expected empty program")
	}
}

func TestParseVarGroups(t *testing.T) {
	prog := parseSource(t, `program demo;
var x, y: int; z: float;
var ok: bool;
main { } end`)
	want := []struct {
		name string
		typ  ast.TypeName
	}{
		{"x", ast.TypeInt},
		{"y", ast.TypeInt},
		{"z", ast.TypeFloat},
		{"ok", ast.TypeBool},
	}
	if len(prog.Vars) != len(want) {
		t.Fatalf("expected %d vars, got %d", len(want), len(prog.Vars))
	}
	for i, w := range want {
		if prog.Vars[i].Name != w.name || prog.Vars[i].VarType != w.typ {
			t.Fatalf("var %d: expected %s:%s, got %s:%s", i, w.name, w.typ, prog.Vars[i].Name, prog.Vars[i].VarType)
		}
	}
}

func TestParseFuncDecl(t *testing.T) {
	prog := parseSource(t, `program demo;
void f(a: float, b: int) [
  var t: int;
  { t = b; print(a); }
];
main { f(1.5, 2); } end`)
	if len(prog.Funcs) != 1 {
		t.Fatalf("expected 1 function, got %d", len(prog.Funcs))
	}
	fn := prog.Funcs[0]
	if fn.Name != "f" {
		t.Fatalf("expected function f, got %q", fn.Name)
	}
	if len(fn.Params) != 2 || fn.Params[0].ParamType != ast.TypeFloat || fn.Params[1].ParamType != ast.TypeInt {
		t.Fatalf("unexpected params %+v", fn.Params)
	}
	if len(fn.Vars) != 1 || fn.Vars[0].Name != "t" {
		t.Fatalf("unexpected locals %+v", fn.Vars)
	}
	if len(fn.Body) != 2 {
		t.Fatalf("expected 2 body statements, got %d", len(fn.Body))
	}
	call, ok := prog.MainBody[0].(*ast.CallStmt)
	if !ok {
		t.Fatalf("expected call statement, got %T", prog.MainBody[0])
	}
	if call.Name != "f" || len(call.Args) != 2 {
		t.Fatalf("unexpected call %+v", call)
	}
}

func TestParsePrecedence(t *testing.T) {
	prog := parseSource(t, `program demo; var x: int; main { x = 2 + 3 * 4; } end`)
	assign := prog.MainBody[0].(*ast.AssignStmt)
	add, ok := assign.Value.(*ast.BinaryExpr)
	if !ok || add.Operator != token.Plus {
		t.Fatalf("expected + at root, got %+v", assign.Value)
	}
	mul, ok := add.Right.(*ast.BinaryExpr)
	if !ok || mul.Operator != token.Star {
		t.Fatalf("expected * on the right, got %+v", add.Right)
	}
}

func TestParseGroupPreserved(t *testing.T) {
	prog := parseSource(t, `program demo; var x: int; main { x = (2 + 3) * 4; } end`)
	assign := prog.MainBody[0].(*ast.AssignStmt)
	mul, ok := assign.Value.(*ast.BinaryExpr)
	if !ok || mul.Operator != token.Star {
		t.Fatalf("expected * at root, got %+v", assign.Value)
	}
	if _, ok := mul.Left.(*ast.GroupExpr); !ok {
		t.Fatalf("expected parenthesised group on the left, got %T", mul.Left)
	}
}

func TestParseComparisonRoot(t *testing.T) {
	prog := parseSource(t, `program demo; var x: int; main { if (x + 1 > 3 * 2) { print(x); } } end`)
	cond := prog.MainBody[0].(*ast.IfStmt).Condition
	cmp, ok := cond.(*ast.BinaryExpr)
	if !ok || cmp.Operator != token.Greater {
		t.Fatalf("expected > at root, got %+v", cond)
	}
}

func TestParseIfElseAndWhile(t *testing.T) {
	prog := parseSource(t, `program demo; var x: int; main {
  x = 0;
  if (x > 3) { print(1); } else { print(0); };
  while (x < 3) do { x = x + 1; };
} end`)
	if len(prog.MainBody) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(prog.MainBody))
	}
	ifStmt, ok := prog.MainBody[1].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected if, got %T", prog.MainBody[1])
	}
	if len(ifStmt.Then) != 1 || ifStmt.Else == nil || len(ifStmt.Else) != 1 {
		t.Fatalf("unexpected if bodies %+v", ifStmt)
	}
	whileStmt, ok := prog.MainBody[2].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("expected while, got %T", prog.MainBody[2])
	}
	if len(whileStmt.Body) != 1 {
		t.Fatalf("unexpected while body %+v", whileStmt.Body)
	}
}

func TestParsePrintItems(t *testing.T) {
	prog := parseSource(t, `program demo; var x: int; main { print("x is", x, x + 1); } end`)
	pr := prog.MainBody[0].(*ast.PrintStmt)
	if len(pr.Items) != 3 {
		t.Fatalf("expected 3 print items, got %d", len(pr.Items))
	}
	if pr.Items[0].Str == nil || *pr.Items[0].Str != "x is" {
		t.Fatalf("expected leading string item, got %+v", pr.Items[0])
	}
	if pr.Items[1].Expr == nil || pr.Items[2].Expr == nil {
		t.Fatalf("expected expression items")
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		`program ; main { } end`,
		`program demo; main { x = ; } end`,
		`program demo; main { if x > 1 { } } end`,
		`program demo; var x int; main { } end`,
		`program demo; var x: int; main { x = 1 > 2 > 3; } end`,
	}
	for _, src := range cases {
		p := New(lexer.New(src))
		p.ParseProgram()
		if len(p.Errors()) == 0 {
			t.Fatalf("expected parse errors for %q", src)
		}
	}
}
