package lexer

import (
	"testing"

	"github.com/xirelogy/go-babyduck/internal/token"
)

func TestLexerBasicTokens(t *testing.T) {
	input := `
program demo;
var x: int;
main {
  x = 10;
  if (x > 5) {
    print(x);
  };
}
end
`

	tests := []token.Token{
		{Type: token.Program, Literal: "program"},
		{Type: token.Ident, Literal: "demo"},
		{Type: token.Semicolon, Literal: ";"},
		{Type: token.Var, Literal: "var"},
		{Type: token.Ident, Literal: "x"},
		{Type: token.Colon, Literal: ":"},
		{Type: token.Int, Literal: "int"},
		{Type: token.Semicolon, Literal: ";"},
		{Type: token.Main, Literal: "main"},
		{Type: token.LBrace, Literal: "{"},
		{Type: token.Ident, Literal: "x"},
		{Type: token.Assign, Literal: "="},
		{Type: token.CteInt, Literal: "10"},
		{Type: token.Semicolon, Literal: ";"},
		{Type: token.If, Literal: "if"},
		{Type: token.LParen, Literal: "("},
		{Type: token.Ident, Literal: "x"},
		{Type: token.Greater, Literal: ">"},
		{Type: token.CteInt, Literal: "5"},
		{Type: token.RParen, Literal: ")"},
		{Type: token.LBrace, Literal: "{"},
		{Type: token.Print, Literal: "print"},
		{Type: token.LParen, Literal: "("},
		{Type: token.Ident, Literal: "x"},
		{Type: token.RParen, Literal: ")"},
		{Type: token.Semicolon, Literal: ";"},
		{Type: token.RBrace, Literal: "}"},
		{Type: token.Semicolon, Literal: ";"},
		{Type: token.RBrace, Literal: "}"},
		{Type: token.End, Literal: "end"},
		{Type: token.EOF},
	}

	l := New(input)
	for i, expected := range tests {
		tok := l.NextToken()
		if tok.Type != expected.Type || tok.Literal != expected.Literal {
			t.Fatalf("token %d: expected %v %q, got %v %q", i, expected.Type, expected.Literal, tok.Type, tok.Literal)
		}
	}
}

func TestLexerOperatorsAndLiterals(t *testing.T) {
	input := `y = 20.5; while (y != 0) do { y = y - 1.0; };
print("done", y == 0);`

	expectedTypes := []token.Type{
		token.Ident, token.Assign, token.CteFloat, token.Semicolon,
		token.While, token.LParen, token.Ident, token.NotEqual, token.CteInt, token.RParen,
		token.Do, token.LBrace,
		token.Ident, token.Assign, token.Ident, token.Minus, token.CteFloat, token.Semicolon,
		token.RBrace, token.Semicolon,
		token.Print, token.LParen, token.CteString, token.Comma, token.Ident, token.Equal, token.CteInt, token.RParen, token.Semicolon,
		token.EOF,
	}

	l := New(input)
	for i, typ := range expectedTypes {
		tok := l.NextToken()
		if tok.Type != typ {
			t.Fatalf("token %d: expected %v, got %v (%q)", i, typ, tok.Type, tok.Literal)
		}
	}
}

func TestLexerFunctionHeader(t *testing.T) {
	input := `void f(a: float, b: int) [ var t: bool; { f(1.5, 2); } ];`

	expectedTypes := []token.Type{
		token.Void, token.Ident, token.LParen,
		token.Ident, token.Colon, token.Float, token.Comma,
		token.Ident, token.Colon, token.Int, token.RParen,
		token.LBracket, token.Var, token.Ident, token.Colon, token.Bool, token.Semicolon,
		token.LBrace, token.Ident, token.LParen, token.CteFloat, token.Comma, token.CteInt, token.RParen, token.Semicolon, token.RBrace,
		token.RBracket, token.Semicolon,
		token.EOF,
	}

	l := New(input)
	for i, typ := range expectedTypes {
		tok := l.NextToken()
		if tok.Type != typ {
			t.Fatalf("token %d: expected %v, got %v (%q)", i, typ, tok.Type, tok.Literal)
		}
	}
}

func TestLexerComments(t *testing.T) {
	input := `x = 1; // trailing
/* block
   comment */ y = 2;`

	expectedTypes := []token.Type{
		token.Ident, token.Assign, token.CteInt, token.Semicolon,
		token.Ident, token.Assign, token.CteInt, token.Semicolon,
		token.EOF,
	}

	l := New(input)
	for i, typ := range expectedTypes {
		tok := l.NextToken()
		if tok.Type != typ {
			t.Fatalf("token %d: expected %v, got %v (%q)", i, typ, tok.Type, tok.Literal)
		}
	}
}

func TestLexerStringEscapes(t *testing.T) {
	l := New(`print("a\"b\n");`)
	l.NextToken() // print
	l.NextToken() // (
	tok := l.NextToken()
	if tok.Type != token.CteString {
		t.Fatalf("expected string token, got %v", tok.Type)
	}
	if tok.Literal != "a\"b\n" {
		t.Fatalf("unexpected string literal %q", tok.Literal)
	}
}

func TestLexerPositions(t *testing.T) {
	l := New("x =\n  10")
	tok := l.NextToken()
	if tok.Pos.Line != 1 || tok.Pos.Column != 1 {
		t.Fatalf("x: expected 1:1, got %d:%d", tok.Pos.Line, tok.Pos.Column)
	}
	l.NextToken() // =
	tok = l.NextToken()
	if tok.Pos.Line != 2 || tok.Pos.Column != 3 {
		t.Fatalf("10: expected 2:3, got %d:%d", tok.Pos.Line, tok.Pos.Column)
	}
}
