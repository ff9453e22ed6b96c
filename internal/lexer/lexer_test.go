package lexer

import (
	"testing"

	"github.com/funvibe/icl/internal/token"
	"github.com/stretchr/testify/require"
)

func typesOf(t []token.Token) []token.Type {
	out := make([]token.Type, len(t))
	for i, tok := range t {
		out[i] = tok.Type
	}
	return out
}

func TestTokenizeAssignmentArithmetic(t *testing.T) {
	toks, errs := New("x := 1 + 2;", "<test>").Tokenize()
	require.Empty(t, errs)
	require.Equal(t, []token.Type{
		token.IDENT, token.ASSIGN, token.NUMBER, token.PLUS, token.NUMBER, token.SEMICOLON, token.EOF,
	}, typesOf(toks))
}

func TestTokenizeMultiCharOperatorsPriority(t *testing.T) {
	toks, errs := New(":= => .. == != <= >= && ||", "<test>").Tokenize()
	require.Empty(t, errs)
	require.Equal(t, []token.Type{
		token.ASSIGN, token.ARROW, token.RANGE, token.EQ, token.NE,
		token.LE, token.GE, token.AND, token.OR, token.EOF,
	}, typesOf(toks))
}

func TestTokenizeStringEscapes(t *testing.T) {
	toks, errs := New(`"a\nb\t\"c\\"`, "<test>").Tokenize()
	require.Empty(t, errs)
	require.Equal(t, "a\nb\t\"c\\", toks[0].Literal)
}

func TestTokenizeCommentIgnored(t *testing.T) {
	toks, errs := New("x := 1; // trailing comment\ny := 2;", "<test>").Tokenize()
	require.Empty(t, errs)
	require.NotContains(t, typesOf(toks), token.HASH)
	require.Equal(t, []token.Type{
		token.IDENT, token.ASSIGN, token.NUMBER, token.SEMICOLON,
		token.IDENT, token.ASSIGN, token.NUMBER, token.SEMICOLON, token.EOF,
	}, typesOf(toks))
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, errs := New(`"abc`, "<test>").Tokenize()
	require.Len(t, errs, 1)
	require.Equal(t, "LEX002", errs[0].Code)
}

func TestTokenizeUnexpectedCharacter(t *testing.T) {
	_, errs := New("x := 1 ~ 2;", "<test>").Tokenize()
	require.Len(t, errs, 1)
	require.Equal(t, "LEX001", errs[0].Code)
}

func TestTokenizeDecimalNumber(t *testing.T) {
	toks, errs := New("3.14", "<test>").Tokenize()
	require.Empty(t, errs)
	require.Equal(t, "3.14", toks[0].Lexeme)
}

func TestTokenizeKeywordsAndLambda(t *testing.T) {
	toks, errs := New("fn if loop in ret true false lam", "<test>").Tokenize()
	require.Empty(t, errs)
	require.Equal(t, []token.Type{
		token.FN, token.IF, token.LOOP, token.IN, token.RET, token.TRUE, token.FALSE, token.LAM, token.EOF,
	}, typesOf(toks))
}
