// Package lexer converts ICL source text into an ordered token stream
// (spec.md §4.2). Structure follows the teacher's rune-scanning lexer
// (internal/lexer/lexer.go): a small cursor over the input with
// readChar/peekChar helpers and a switch-dispatched NextToken.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/funvibe/icl/internal/diagnostics"
	"github.com/funvibe/icl/internal/token"
)

// Lexer scans ICL source text into tokens.
type Lexer struct {
	input        string
	filename     string
	position     int
	readPosition int
	ch           rune
	line         int
	column       int
	errors       diagnostics.List
}

// New creates a Lexer over source, attributing spans to filename.
func New(input, filename string) *Lexer {
	l := &Lexer{input: input, filename: filename, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.position = l.readPosition
	l.readPosition += size
	l.ch = r
	if r == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) here() token.Span {
	return token.Span{File: l.filename, Line: l.line, Column: l.column}
}

// Tokenize scans the full input and returns every token including a
// trailing EOF, plus any accumulated lexical diagnostics.
func (l *Lexer) Tokenize() ([]token.Token, diagnostics.List) {
	var toks []token.Token
	for {
		t := l.NextToken()
		toks = append(toks, t)
		if t.Type == token.EOF {
			break
		}
	}
	return toks, l.errors
}

// NextToken scans and returns the next token.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	start := l.here()

	switch {
	case l.ch == 0:
		return l.simple(token.EOF, "", start)
	case l.ch == ':':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.span(token.ASSIGN, ":=", start)
		}
		l.readChar()
		return l.span(token.COLON, ":", start)
	case l.ch == '=':
		if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return l.span(token.ARROW, "=>", start)
		}
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.span(token.EQ, "==", start)
		}
		l.readChar()
		return l.illegal("=", start)
	case l.ch == '?':
		l.readChar()
		return l.span(token.QUESTION, "?", start)
	case l.ch == '.':
		if l.peekChar() == '.' {
			l.readChar()
			l.readChar()
			return l.span(token.RANGE, "..", start)
		}
		l.readChar()
		return l.illegal(".", start)
	case l.ch == '@':
		l.readChar()
		return l.span(token.AT, "@", start)
	case l.ch == '#':
		l.readChar()
		return l.span(token.HASH, "#", start)
	case l.ch == '+':
		l.readChar()
		return l.span(token.PLUS, "+", start)
	case l.ch == '-':
		l.readChar()
		return l.span(token.MINUS, "-", start)
	case l.ch == '*':
		l.readChar()
		return l.span(token.STAR, "*", start)
	case l.ch == '/':
		l.readChar()
		return l.span(token.SLASH, "/", start)
	case l.ch == '%':
		l.readChar()
		return l.span(token.PERCENT, "%", start)
	case l.ch == '!':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.span(token.NE, "!=", start)
		}
		l.readChar()
		return l.span(token.NOT, "!", start)
	case l.ch == '<':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.span(token.LE, "<=", start)
		}
		l.readChar()
		return l.span(token.LT, "<", start)
	case l.ch == '>':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.span(token.GE, ">=", start)
		}
		l.readChar()
		return l.span(token.GT, ">", start)
	case l.ch == '&':
		if l.peekChar() == '&' {
			l.readChar()
			l.readChar()
			return l.span(token.AND, "&&", start)
		}
		l.readChar()
		return l.illegal("&", start)
	case l.ch == '|':
		if l.peekChar() == '|' {
			l.readChar()
			l.readChar()
			return l.span(token.OR, "||", start)
		}
		l.readChar()
		return l.illegal("|", start)
	case l.ch == '(':
		l.readChar()
		return l.span(token.LPAREN, "(", start)
	case l.ch == ')':
		l.readChar()
		return l.span(token.RPAREN, ")", start)
	case l.ch == '{':
		l.readChar()
		return l.span(token.LBRACE, "{", start)
	case l.ch == '}':
		l.readChar()
		return l.span(token.RBRACE, "}", start)
	case l.ch == ',':
		l.readChar()
		return l.span(token.COMMA, ",", start)
	case l.ch == ';':
		l.readChar()
		return l.span(token.SEMICOLON, ";", start)
	case l.ch == '"':
		return l.readString(start)
	case isDigit(l.ch):
		return l.readNumber(start)
	case isIdentStart(l.ch):
		return l.readIdentifier(start)
	default:
		ch := string(l.ch)
		l.readChar()
		return l.illegal(ch, start)
	}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
			l.readChar()
		}
		if l.ch == '/' && l.peekChar() == '/' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		break
	}
}

func (l *Lexer) endSpan(start token.Span) token.Span {
	s := start
	s.EndLine = l.line
	s.EndColumn = l.column
	return s
}

func (l *Lexer) simple(tt token.Type, lex string, start token.Span) token.Token {
	return token.Token{Type: tt, Lexeme: lex, Span: l.endSpan(start)}
}

func (l *Lexer) span(tt token.Type, lex string, start token.Span) token.Token {
	return token.Token{Type: tt, Lexeme: lex, Span: l.endSpan(start)}
}

func (l *Lexer) illegal(lex string, start token.Span) token.Token {
	sp := l.endSpan(start)
	l.errors = append(l.errors, diagnostics.New("LEX001", sp, "unexpected character '"+lex+"'"))
	return token.Token{Type: token.ILLEGAL, Lexeme: lex, Span: sp}
}

func (l *Lexer) readIdentifier(start token.Span) token.Token {
	var b strings.Builder
	for isIdentPart(l.ch) {
		b.WriteRune(l.ch)
		l.readChar()
	}
	lit := b.String()
	tt := token.LookupIdent(lit)
	tok := token.Token{Type: tt, Lexeme: lit, Span: l.endSpan(start)}
	if tt == token.TRUE {
		tok.Literal = true
	} else if tt == token.FALSE {
		tok.Literal = false
	}
	return tok
}

func (l *Lexer) readNumber(start token.Span) token.Token {
	var b strings.Builder
	seenDot := false
	for isDigit(l.ch) || (l.ch == '.' && !seenDot && isDigit(l.peekChar())) {
		if l.ch == '.' {
			seenDot = true
		}
		b.WriteRune(l.ch)
		l.readChar()
	}
	lit := b.String()
	return token.Token{Type: token.NUMBER, Lexeme: lit, Span: l.endSpan(start)}
}

func (l *Lexer) readString(start token.Span) token.Token {
	l.readChar() // consume opening quote
	var b strings.Builder
	for {
		if l.ch == 0 {
			sp := l.endSpan(start)
			l.errors = append(l.errors, diagnostics.New("LEX002", sp, "unterminated string literal"))
			return token.Token{Type: token.STRING, Lexeme: b.String(), Literal: b.String(), Span: sp}
		}
		if l.ch == '"' {
			l.readChar()
			break
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			default:
				b.WriteRune(l.ch)
			}
			l.readChar()
			continue
		}
		b.WriteRune(l.ch)
		l.readChar()
	}
	val := b.String()
	return token.Token{Type: token.STRING, Lexeme: val, Literal: val, Span: l.endSpan(start)}
}

func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}
