package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckOKOnValidSource(t *testing.T) {
	p := New()
	errs := p.Check("x := 1 + 2;", Options{Filename: "<test>"})
	require.False(t, errs.HasErrors())
}

func TestCheckReportsSemanticError(t *testing.T) {
	p := New()
	errs := p.Check("x := 1; y := x + true;", Options{Filename: "<test>"})
	require.True(t, errs.HasErrors())
}

func TestCompilePythonProducesAssignment(t *testing.T) {
	p := New()
	results := p.Compile("x := 1 + 2;", []string{"python"}, Options{Filename: "<test>"})
	res := results["python"]
	require.False(t, res.Diagnostics.HasErrors())
	require.Contains(t, res.Bundle.Code(), "x = (1 + 2)")
}

func TestCompileJavaScriptDeclaresWithLet(t *testing.T) {
	p := New()
	results := p.Compile("x := 1 + 2;", []string{"js"}, Options{Filename: "<test>"})
	res := results["js"]
	require.False(t, res.Diagnostics.HasErrors())
	require.Contains(t, res.Bundle.Code(), "let x = (1 + 2);")
}

func TestCompileRustAssignsTypedLet(t *testing.T) {
	p := New()
	results := p.Compile("x := 1 + 2;", []string{"rust"}, Options{Filename: "<test>"})
	res := results["rust"]
	require.False(t, res.Diagnostics.HasErrors())
	require.Contains(t, res.Bundle.Code(), "let mut x: f64")
}

func TestCompileWebBundleHasThreeFiles(t *testing.T) {
	p := New()
	results := p.Compile("print(1);", []string{"web"}, Options{Filename: "<test>"})
	res := results["web"]
	require.False(t, res.Diagnostics.HasErrors())
	require.Len(t, res.Bundle.Files, 3)
	require.Equal(t, "index.html", res.Bundle.PrimaryPath)
}

func TestCompileUnknownTargetFailsPACK001(t *testing.T) {
	p := New()
	results := p.Compile("x := 1;", []string{"brainfuck"}, Options{Filename: "<test>"})
	res := results["brainfuck"]
	require.True(t, res.Diagnostics.HasErrors())
	require.Equal(t, "PACK001", res.Diagnostics[0].Code)
}

func TestCompileFeatureGateFailsLOW001(t *testing.T) {
	p := New()
	results := p.Compile("x:Num := 1;", []string{"typescript"}, Options{Filename: "<test>"})
	res := results["typescript"]
	require.True(t, res.Diagnostics.HasErrors())
	require.Equal(t, "LOW001", res.Diagnostics[0].Code)
}

func TestCompileFrontendFailureReportedForEveryTarget(t *testing.T) {
	p := New()
	results := p.Compile("x := 1 + true;", []string{"python", "rust"}, Options{Filename: "<test>"})
	require.True(t, results["python"].Diagnostics.HasErrors())
	require.True(t, results["rust"].Diagnostics.HasErrors())
}

func TestExplainIncludesASTIRAndGraph(t *testing.T) {
	p := New()
	out, errs := p.Explain("x := 1 + 2;", "", Options{Filename: "<test>"})
	require.Nil(t, errs)
	require.Equal(t, "Program", out.AST["kind"])
	require.Equal(t, "Module", out.IR["kind"])
	require.NotEmpty(t, out.Graph.Nodes)
	require.Nil(t, out.Lowered)
}

func TestExplainWithTargetIncludesLowered(t *testing.T) {
	p := New()
	out, errs := p.Explain("x := 1 + 2;", "python", Options{Filename: "<test>"})
	require.Nil(t, errs)
	require.NotNil(t, out.Lowered)
	require.Equal(t, "LoweredModule", out.Lowered["kind"])
}

func TestExplainNaturalAliasTraceRecorded(t *testing.T) {
	p := New()
	out, errs := p.Explain("x := 1; say(x);", "", Options{Filename: "<test>", Natural: true})
	require.Nil(t, errs)
	require.NotEmpty(t, out.AliasTrace)
}

func TestCompressRoundTripsBasicAssignment(t *testing.T) {
	out, errs := Compress("x := 1 + 2;", "<test>")
	require.Nil(t, errs)
	require.Contains(t, out, "x:=")
	again, errs := Compress(out, "<test>")
	require.Nil(t, errs)
	require.Equal(t, out, again)
}

func TestCompressRoundTripsFunctionDef(t *testing.T) {
	out, errs := Compress("fn add(a:Num,b:Num):Num => a+b;", "<test>")
	require.Nil(t, errs)
	require.Contains(t, out, "fn add(")
	require.Contains(t, out, "=>")
	again, errs := Compress(out, "<test>")
	require.Nil(t, errs)
	require.Equal(t, out, again)
}

func TestDiffDetectsAddedNode(t *testing.T) {
	p := New()
	before, _ := p.Explain("x := 1;", "", Options{Filename: "<test>"})
	after, _ := p.Explain("x := 1; y := 2;", "", Options{Filename: "<test>"})
	d := Diff(before.Graph, after.Graph)
	require.NotEmpty(t, d.AddedNodes)
}
