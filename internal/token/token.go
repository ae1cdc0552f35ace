package token

// Type identifies the category of a token.
type Type string

// Token carries the lexical item along with its source position.
type Token struct {
	Type    Type
	Literal string
	Pos     Position
}

// Position describes a byte offset and 1-based line/column.
type Position struct {
	Offset int
	Line   int
	Column int
}

const (
	Illegal Type = "ILLEGAL"
	EOF     Type = "EOF"

	// identifiers and literals
	Ident     Type = "IDENT"
	CteInt    Type = "CTE_INT"
	CteFloat  Type = "CTE_FLOAT"
	CteString Type = "CTE_STRING"

	// keywords
	Program Type = "PROGRAM"
	Main    Type = "MAIN"
	End     Type = "END"
	Var     Type = "VAR"
	Void    Type = "VOID"
	If      Type = "IF"
	Else    Type = "ELSE"
	While   Type = "WHILE"
	Do      Type = "DO"
	Print   Type = "PRINT"
	Int     Type = "INT"
	Float   Type = "FLOAT"
	Bool    Type = "BOOL"
	True    Type = "TRUE"
	False   Type = "FALSE"

	// operators
	Assign   Type = "ASSIGN"   // =
	Plus     Type = "PLUS"     // +
	Minus    Type = "MINUS"    // -
	Star     Type = "STAR"     // *
	Slash    Type = "SLASH"    // /
	Equal    Type = "EQUAL"    // ==
	NotEqual Type = "NOTEQUAL" // !=
	Less     Type = "LESS"     // <
	Greater  Type = "GREATER"  // >

	// delimiters
	Comma     Type = "COMMA"
	Colon     Type = "COLON"
	Semicolon Type = "SEMICOLON"
	LParen    Type = "LPAREN"
	RParen    Type = "RPAREN"
	LBrace    Type = "LBRACE"
	RBrace    Type = "RBRACE"
	LBracket  Type = "LBRACKET"
	RBracket  Type = "RBRACKET"
)

var keywords = map[string]Type{
	"program": Program,
	"main":    Main,
	"end":     End,
	"var":     Var,
	"void":    Void,
	"if":      If,
	"else":    Else,
	"while":   While,
	"do":      Do,
	"print":   Print,
	"int":     Int,
	"float":   Float,
	"bool":    Bool,
	"true":    True,
	"false":   False,
}

// LookupIdent returns the keyword token type or Ident.
func LookupIdent(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return Ident
}
