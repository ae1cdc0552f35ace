package lexer

import (
	"strings"

	"github.com/xirelogy/go-babyduck/internal/token"
)

// Lexer converts source text into a stream of tokens.
type Lexer struct {
	input   string
	pos     int  // current position in bytes
	readPos int  // next read position
	ch      byte // current char
	line    int
	column  int
}

// New creates a lexer for the provided source text.
func New(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0,
	}
	l.readChar()
	return l
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() token.Token {
	for {
		l.skipWhitespace()

		if l.ch == 0 {
			return l.makeToken(token.EOF, "")
		}

		if l.ch == '/' {
			if l.peekChar() == '/' {
				l.skipLineComment()
				continue
			}
			if l.peekChar() == '*' {
				l.skipBlockComment()
				continue
			}
		}

		switch l.ch {
		case '=':
			if l.peekChar() == '=' {
				ch := l.ch
				l.readChar()
				tok := l.makeToken(token.Equal, string(ch)+string(l.ch))
				l.readChar()
				return tok
			}
			tok := l.makeToken(token.Assign, string(l.ch))
			l.readChar()
			return tok
		case '!':
			if l.peekChar() == '=' {
				ch := l.ch
				l.readChar()
				tok := l.makeToken(token.NotEqual, string(ch)+string(l.ch))
				l.readChar()
				return tok
			}
			tok := l.makeToken(token.Illegal, string(l.ch))
			l.readChar()
			return tok
		case '+':
			tok := l.makeToken(token.Plus, string(l.ch))
			l.readChar()
			return tok
		case '-':
			tok := l.makeToken(token.Minus, string(l.ch))
			l.readChar()
			return tok
		case '*':
			tok := l.makeToken(token.Star, string(l.ch))
			l.readChar()
			return tok
		case '/':
			tok := l.makeToken(token.Slash, string(l.ch))
			l.readChar()
			return tok
		case '<':
			tok := l.makeToken(token.Less, string(l.ch))
			l.readChar()
			return tok
		case '>':
			tok := l.makeToken(token.Greater, string(l.ch))
			l.readChar()
			return tok
		case ',':
			tok := l.makeToken(token.Comma, string(l.ch))
			l.readChar()
			return tok
		case ':':
			tok := l.makeToken(token.Colon, string(l.ch))
			l.readChar()
			return tok
		case ';':
			tok := l.makeToken(token.Semicolon, string(l.ch))
			l.readChar()
			return tok
		case '(':
			tok := l.makeToken(token.LParen, string(l.ch))
			l.readChar()
			return tok
		case ')':
			tok := l.makeToken(token.RParen, string(l.ch))
			l.readChar()
			return tok
		case '{':
			tok := l.makeToken(token.LBrace, string(l.ch))
			l.readChar()
			return tok
		case '}':
			tok := l.makeToken(token.RBrace, string(l.ch))
			l.readChar()
			return tok
		case '[':
			tok := l.makeToken(token.LBracket, string(l.ch))
			l.readChar()
			return tok
		case ']':
			tok := l.makeToken(token.RBracket, string(l.ch))
			l.readChar()
			return tok
		case '"':
			return l.readString()
		default:
			if isLetter(l.ch) {
				return l.readIdentifier()
			}
			if isDigit(l.ch) {
				return l.readNumber()
			}

			tok := l.makeToken(token.Illegal, string(l.ch))
			l.readChar()
			return tok
		}
	}
}

func (l *Lexer) makeToken(t token.Type, lit string) token.Token {
	return token.Token{
		Type:    t,
		Literal: lit,
		Pos: token.Position{
			Offset: l.pos,
			Line:   l.line,
			Column: l.column,
		},
	}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
		l.readChar()
	}
}

func (l *Lexer) skipLineComment() {
	for l.ch != 0 && l.ch != '\n' {
		l.readChar()
	}
}

func (l *Lexer) skipBlockComment() {
	l.readChar() // consume '/'
	l.readChar() // consume '*'
	for {
		if l.ch == 0 {
			return
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar() // '*'
			l.readChar() // '/'
			return
		}
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() token.Token {
	start := l.makeToken(token.Ident, "")
	var sb strings.Builder
	for isLetter(l.ch) || isDigit(l.ch) {
		sb.WriteByte(l.ch)
		l.readChar()
	}
	lit := sb.String()
	start.Type = token.LookupIdent(lit)
	start.Literal = lit
	return start
}

func (l *Lexer) readNumber() token.Token {
	start := l.makeToken(token.CteInt, "")
	var sb strings.Builder
	for isDigit(l.ch) {
		sb.WriteByte(l.ch)
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		start.Type = token.CteFloat
		sb.WriteByte(l.ch)
		l.readChar()
		for isDigit(l.ch) {
			sb.WriteByte(l.ch)
			l.readChar()
		}
	}
	start.Literal = sb.String()
	return start
}

func (l *Lexer) readString() token.Token {
	start := l.makeToken(token.CteString, "")
	var sb strings.Builder

	for {
		l.readChar()
		if l.ch == 0 || l.ch == '\n' {
			illegal := l.makeToken(token.Illegal, "unterminated string")
			return illegal
		}
		if l.ch == '"' {
			l.readChar()
			break
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case '"', '\\':
				sb.WriteByte(l.ch)
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(l.ch)
			}
			continue
		}
		sb.WriteByte(l.ch)
	}

	start.Literal = sb.String()
	return start
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.pos = l.readPos
		l.ch = 0
		return
	}

	l.ch = l.input[l.readPos]
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
}
