package pseudo

import (
	"testing"

	"github.com/funvibe/icl/internal/ir"
	"github.com/funvibe/icl/internal/lexer"
	"github.com/funvibe/icl/internal/lowering"
	"github.com/funvibe/icl/internal/pack"
	"github.com/funvibe/icl/internal/parser"
	"github.com/funvibe/icl/internal/semantic"
	"github.com/stretchr/testify/require"
)

func lowerSrc(t *testing.T, src, target string) *lowering.Module {
	t.Helper()
	toks, lexErrs := lexer.New(src, "<test>").Tokenize()
	require.Empty(t, lexErrs)
	prog, parseErrs := parser.New(toks).ParseProgram()
	require.Empty(t, parseErrs)
	sem, semErrs := semantic.New().Analyze(prog)
	require.Empty(t, semErrs)
	mod := ir.NewBuilder(sem).Build(prog)

	p := New(Profile{Target: target, Extension: "x", CommentPrefix: "//", FunctionKeyword: "fn", DeclarationPrefix: "var "})
	lowered, err := lowering.New().Lower(mod, target, p.Manifest())
	require.Nil(t, err)
	return lowered
}

func TestProfilesHasElevenTargets(t *testing.T) {
	require.Len(t, Profiles, 11)
}

func TestEmitAssignmentUsesDeclarationPrefix(t *testing.T) {
	lowered := lowerSrc(t, "x := 1;", "go")
	p := New(Profile{Target: "go", Extension: "go", CommentPrefix: "//", FunctionKeyword: "func", DeclarationPrefix: "var "})
	out, err := p.Emit(lowered, &pack.EmissionContext{Target: "go"})
	require.NoError(t, err)
	require.Contains(t, out, "var x = 1;")
	require.Contains(t, out, "// experimental ICL pack: go")
}

func TestEmitFunctionUsesFunctionKeyword(t *testing.T) {
	lowered := lowerSrc(t, "fn add(a, b) => a + b;", "ruby")
	p := New(Profile{Target: "ruby", Extension: "rb", CommentPrefix: "#", FunctionKeyword: "def", DeclarationPrefix: ""})
	out, err := p.Emit(lowered, &pack.EmissionContext{Target: "ruby"})
	require.NoError(t, err)
	require.Contains(t, out, "def add(a, b) {")
}

func TestRegisterAllRegistersEveryTarget(t *testing.T) {
	r := pack.New()
	errs := RegisterAll(r)
	require.Empty(t, errs)
	for _, profile := range Profiles {
		require.True(t, r.HasTarget(profile.Target))
	}
}

func TestManifestDeclaresExperimentalFeaturesFalse(t *testing.T) {
	p := New(Profiles[0])
	m := p.Manifest()
	require.False(t, m.Supports("typed_annotation"))
	require.False(t, m.Supports("logic"))
	require.False(t, m.Supports("at_call"))
	require.True(t, m.Supports("assignment"))
}
