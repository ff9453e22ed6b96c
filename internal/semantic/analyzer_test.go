package semantic

import (
	"testing"

	"github.com/funvibe/icl/internal/lexer"
	"github.com/funvibe/icl/internal/parser"
	"github.com/stretchr/testify/require"
)

func analyze(t *testing.T, src string) (codes []string) {
	t.Helper()
	toks, lexErrs := lexer.New(src, "<test>").Tokenize()
	require.Empty(t, lexErrs)
	prog, parseErrs := parser.New(toks).ParseProgram()
	require.Empty(t, parseErrs)
	_, errs := New().Analyze(prog)
	for _, e := range errs {
		codes = append(codes, e.Code)
	}
	return codes
}

func TestAnalyzeAssignmentArithmeticOK(t *testing.T) {
	require.Empty(t, analyze(t, "x := 1 + 2;"))
}

func TestAnalyzeForwardReference(t *testing.T) {
	require.Empty(t, analyze(t, "out := add(1,2); fn add(a,b) { ret a + b; }"))
}

func TestAnalyzeUndefinedIdentifier(t *testing.T) {
	require.Contains(t, analyze(t, "y := x + 1;"), "SEM011")
}

func TestAnalyzeIfConditionMustBeBool(t *testing.T) {
	require.Contains(t, analyze(t, "if 1 ? { x := 1; }"), "SEM003")
}

func TestAnalyzeLoopBoundsMustBeNum(t *testing.T) {
	require.Contains(t, analyze(t, `loop i in "a".."b" { x := i; }`), "SEM004")
}

func TestAnalyzeExprBodyReturnMismatch(t *testing.T) {
	require.Contains(t, analyze(t, `fn f():Num => "x";`), "SEM006")
}

func TestAnalyzeMissingReturn(t *testing.T) {
	require.Contains(t, analyze(t, "fn f():Num { x := 1; }"), "SEM007")
}

func TestAnalyzeReturnOutsideFunction(t *testing.T) {
	require.Contains(t, analyze(t, "ret 1;"), "SEM008")
}

func TestAnalyzeCallArityMismatch(t *testing.T) {
	require.Contains(t, analyze(t, "fn add(a,b) { ret a+b; } x := add(1);"), "SEM019")
}

func TestAnalyzeEqualityRequiresMatchingTypes(t *testing.T) {
	require.Contains(t, analyze(t, `x := 1 == "a";`), "SEM014")
}

func TestAnalyzeEqualityAllowsAny(t *testing.T) {
	require.Empty(t, analyze(t, "fn id(a) => a; x := id(1) == 2;"))
}

func TestAnalyzeMacroSurvivingFails(t *testing.T) {
	require.Contains(t, analyze(t, "#unregistered(1);"), "SEM010")
}

func TestAnalyzeBuiltinPrintArity(t *testing.T) {
	require.Empty(t, analyze(t, "print(1);"))
}
