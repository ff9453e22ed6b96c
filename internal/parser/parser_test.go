package parser

import (
	"testing"

	"github.com/funvibe/icl/internal/ast"
	"github.com/funvibe/icl/internal/lexer"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, lexErrs := lexer.New(src, "<test>").Tokenize()
	require.Empty(t, lexErrs)
	prog, parseErrs := New(toks).ParseProgram()
	require.Empty(t, parseErrs)
	return prog
}

func TestParseAssignmentArithmetic(t *testing.T) {
	prog := parse(t, "x := 1 + 2;")
	require.Len(t, prog.Statements, 1)
	assign, ok := prog.Statements[0].(*ast.AssignmentStmt)
	require.True(t, ok)
	require.Equal(t, "x", assign.Name)
	bin, ok := assign.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, "+", bin.Operator)
}

func TestParseTypedAssignment(t *testing.T) {
	prog := parse(t, "v:Num := 1;")
	assign := prog.Statements[0].(*ast.AssignmentStmt)
	require.Equal(t, "Num", assign.TypeHint)
}

func TestParseFunctionExprBody(t *testing.T) {
	prog := parse(t, "fn add(a:Num,b:Num):Num => a+b;")
	fn := prog.Statements[0].(*ast.FunctionDefStmt)
	require.True(t, fn.IsExprBody())
	require.Equal(t, "Num", fn.ReturnType)
	require.Len(t, fn.Params, 2)
}

func TestParseFunctionBlockBody(t *testing.T) {
	prog := parse(t, "fn add(a,b) { ret a + b; }")
	fn := prog.Statements[0].(*ast.FunctionDefStmt)
	require.False(t, fn.IsExprBody())
	require.Len(t, fn.Body, 1)
}

func TestParseIfElse(t *testing.T) {
	prog := parse(t, "if x > 1 ? { y := x; } : { y := 0; }")
	ifs := prog.Statements[0].(*ast.IfStmt)
	require.Len(t, ifs.Then, 1)
	require.Len(t, ifs.Else, 1)
}

func TestParseLoop(t *testing.T) {
	prog := parse(t, "loop i in 0..3 { sum := sum + i; }")
	loop := prog.Statements[0].(*ast.LoopStmt)
	require.Equal(t, "i", loop.Iterator)
	require.Len(t, loop.Body, 1)
}

func TestParseAtCall(t *testing.T) {
	prog := parse(t, "z := @inc(1);")
	assign := prog.Statements[0].(*ast.AssignmentStmt)
	call := assign.Value.(*ast.CallExpr)
	require.True(t, call.AtPrefixed)
	require.Equal(t, "inc", call.Callee.(*ast.IdentifierExpr).Name)
}

func TestParseMacro(t *testing.T) {
	prog := parse(t, `#echo(1);`)
	macro := prog.Statements[0].(*ast.MacroStmt)
	require.Equal(t, "echo", macro.Name)
	require.Len(t, macro.Args, 1)
}

func TestParseLambda(t *testing.T) {
	prog := parse(t, "f := lam(n:Num):Num => n + 1;")
	assign := prog.Statements[0].(*ast.AssignmentStmt)
	lam := assign.Value.(*ast.LambdaExpr)
	require.Len(t, lam.Params, 1)
	require.Equal(t, "Num", lam.ReturnType)
}

func TestParsePrecedence(t *testing.T) {
	prog := parse(t, "x := 1 + 2 * 3;")
	assign := prog.Statements[0].(*ast.AssignmentStmt)
	bin := assign.Value.(*ast.BinaryExpr)
	require.Equal(t, "+", bin.Operator)
	right := bin.Right.(*ast.BinaryExpr)
	require.Equal(t, "*", right.Operator)
}

func TestParseErrorRecoveryAggregatesMultiple(t *testing.T) {
	toks, _ := lexer.New("x := ; y := ; z := 1;", "<test>").Tokenize()
	_, errs := New(toks).ParseProgram()
	require.Len(t, errs, 2)
}
