package lowering

import (
	"testing"

	"github.com/funvibe/icl/internal/ir"
	"github.com/funvibe/icl/internal/lexer"
	"github.com/funvibe/icl/internal/manifest"
	"github.com/funvibe/icl/internal/parser"
	"github.com/funvibe/icl/internal/semantic"
	"github.com/stretchr/testify/require"
)

func buildIR(t *testing.T, src string) *ir.Module {
	t.Helper()
	toks, lexErrs := lexer.New(src, "<test>").Tokenize()
	require.Empty(t, lexErrs)
	prog, parseErrs := parser.New(toks).ParseProgram()
	require.Empty(t, parseErrs)
	sem, semErrs := semantic.New().Analyze(prog)
	require.Empty(t, semErrs)
	return ir.NewBuilder(sem).Build(prog)
}

func fullCoverageManifest() *manifest.PackManifest {
	return &manifest.PackManifest{
		PackID: "test-pack", Target: "python",
		FeatureCoverage: map[string]bool{
			"assignment": true, "typed_annotation": true, "expression_stmt": true,
			"if": true, "loop": true, "function": true, "return": true,
			"literal": true, "reference": true, "unary": true,
			"arithmetic": true, "comparison": true, "logic": true,
			"call": true, "at_call": true, "lambda": true,
		},
	}
}

func TestLowerExpressionBodyNormalizedToReturn(t *testing.T) {
	mod := buildIR(t, "fn add(a,b) => a + b;")
	lowered, err := New().Lower(mod, "python", fullCoverageManifest())
	require.Nil(t, err)
	fn := lowered.Statements[0].(*Function)
	require.Len(t, fn.Body, 1)
	_, isReturn := fn.Body[0].(*Return)
	require.True(t, isReturn)
}

func TestLowerAtPrefixedCallFlagDropped(t *testing.T) {
	mod := buildIR(t, "fn f(a) => a; y := @f(1);")
	lowered, err := New().Lower(mod, "python", fullCoverageManifest())
	require.Nil(t, err)
	assign := lowered.Statements[1].(*Assignment)
	_, isCall := assign.Value.(*Call)
	require.True(t, isCall)
}

func TestLowerMissingFeatureFailsLOW001(t *testing.T) {
	mod := buildIR(t, "x := 1;")
	m := &manifest.PackManifest{PackID: "bare", Target: "bare", FeatureCoverage: map[string]bool{}}
	_, err := New().Lower(mod, "bare", m)
	require.NotNil(t, err)
	require.Equal(t, "LOW001", err.Code)
}

func TestLowerAbsentFeatureKeyTreatedAsUnsupported(t *testing.T) {
	mod := buildIR(t, "x := 1;")
	m := &manifest.PackManifest{PackID: "partial", Target: "partial", FeatureCoverage: map[string]bool{
		"literal": true,
	}}
	_, err := New().Lower(mod, "partial", m)
	require.NotNil(t, err)
	require.Equal(t, "LOW001", err.Code)
}

func TestLowerHelperDiscoveryForWebTarget(t *testing.T) {
	mod := buildIR(t, "print(1);")
	lowered, err := New().Lower(mod, "web", fullCoverageManifest())
	require.Nil(t, err)
	require.Contains(t, lowered.RequiredHelpers, "print")
}

func TestLowerNoHelpersForPythonTarget(t *testing.T) {
	mod := buildIR(t, "print(1);")
	lowered, err := New().Lower(mod, "python", fullCoverageManifest())
	require.Nil(t, err)
	require.Empty(t, lowered.RequiredHelpers)
}

func TestLowerOperatorNameRetained(t *testing.T) {
	mod := buildIR(t, "x := 1 + 2;")
	lowered, err := New().Lower(mod, "python", fullCoverageManifest())
	require.Nil(t, err)
	assign := lowered.Statements[0].(*Assignment)
	bin := assign.Value.(*Binary)
	require.Equal(t, "+", bin.Operator)
}
