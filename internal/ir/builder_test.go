package ir

import (
	"testing"

	"github.com/funvibe/icl/internal/lexer"
	"github.com/funvibe/icl/internal/parser"
	"github.com/funvibe/icl/internal/semantic"
	"github.com/funvibe/icl/internal/typesystem"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, src string) *Module {
	t.Helper()
	toks, lexErrs := lexer.New(src, "<test>").Tokenize()
	require.Empty(t, lexErrs)
	prog, parseErrs := parser.New(toks).ParseProgram()
	require.Empty(t, parseErrs)
	sem, semErrs := semantic.New().Analyze(prog)
	require.Empty(t, semErrs)
	return NewBuilder(sem).Build(prog)
}

func TestBuildSequentialIDsStartAtOne(t *testing.T) {
	mod := build(t, "x := 1 + 2;")
	require.Equal(t, 1, mod.Statements[0].ID())
	ids := map[int]bool{mod.ID(): true}
	for _, s := range mod.Statements {
		require.False(t, ids[s.ID()], "duplicate id %d", s.ID())
		ids[s.ID()] = true
	}
}

func TestBuildAssignmentValueType(t *testing.T) {
	mod := build(t, "x := 1 + 2;")
	assign := mod.Statements[0].(*Assignment)
	require.Equal(t, typesystem.Num, assign.Value.Type())
}

func TestBuildAtPrefixedCallPreservedAsMetadata(t *testing.T) {
	mod := build(t, "fn f(a) => a; y := @f(1);")
	assign := mod.Statements[1].(*Assignment)
	call := assign.Value.(*Call)
	require.True(t, call.AtPrefixed)
}

func TestBuildLiteralKindsTagged(t *testing.T) {
	mod := build(t, `s := "hi"; n := 1; b := true;`)
	require.Equal(t, LiteralStr, mod.Statements[0].(*Assignment).Value.(*Literal).Kind)
	require.Equal(t, LiteralNum, mod.Statements[1].(*Assignment).Value.(*Literal).Kind)
	require.Equal(t, LiteralBool, mod.Statements[2].(*Assignment).Value.(*Literal).Kind)
}

func TestBuildLambdaYieldsFnType(t *testing.T) {
	mod := build(t, "f := lam(x) => x + 1;")
	assign := mod.Statements[0].(*Assignment)
	lam := assign.Value.(*Lambda)
	require.Equal(t, typesystem.Fn, lam.Type())
}

func TestBuildSourceMapCoversEveryID(t *testing.T) {
	toks, lexErrs := lexer.New("x := 1; if x > 0 ? { y := x; }", "<test>").Tokenize()
	require.Empty(t, lexErrs)
	prog, parseErrs := parser.New(toks).ParseProgram()
	require.Empty(t, parseErrs)
	sem, semErrs := semantic.New().Analyze(prog)
	require.Empty(t, semErrs)
	b := NewBuilder(sem)
	mod := b.Build(prog)
	require.NotNil(t, mod)
	for id := 1; id <= mod.ID(); id++ {
		require.Contains(t, b.SourceMap().Entries, id)
	}
}

func TestBuildIfElseStatements(t *testing.T) {
	mod := build(t, "x := 1; if x > 0 ? { y := 1; } : { y := 2; }")
	ifStmt := mod.Statements[1].(*If)
	require.Len(t, ifStmt.Then, 1)
	require.Len(t, ifStmt.Else, 1)
}

func TestBuildLoopStructure(t *testing.T) {
	mod := build(t, "loop i in 1..5 { x := i; }")
	loop := mod.Statements[0].(*Loop)
	require.Equal(t, "i", loop.Iterator)
	require.Len(t, loop.Body, 1)
}

func TestBuildFunctionExprBody(t *testing.T) {
	mod := build(t, "fn add(a,b) => a + b;")
	fn := mod.Statements[0].(*Function)
	require.NotNil(t, fn.ExprBody)
	require.Nil(t, fn.Body)
}
