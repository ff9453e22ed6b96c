// Package pseudo implements the experimental pseudo-language packs
// supplemented from original_source/icl/packs/builtin.py's PseudoProfile /
// PseudoPack: a single best-effort brace-syntax emitter parameterized by a
// small per-target syntax profile, covering broad language surface without
// a dedicated backend per target. These packs declare feature_coverage with
// typed_annotation, logic, and at_call left false until a target gets its
// own real backend — mirroring builtin.py's EXPERIMENTAL_FEATURES table.
package pseudo

import (
	"strconv"
	"strings"

	"github.com/funvibe/icl/internal/diagnostics"
	"github.com/funvibe/icl/internal/lowering"
	"github.com/funvibe/icl/internal/manifest"
	"github.com/funvibe/icl/internal/pack"
)

// Profile is a small syntax profile for an experimental emitter.
type Profile struct {
	Target            string
	Extension         string
	CommentPrefix     string
	FunctionKeyword   string
	DeclarationPrefix string
}

// Profiles lists the eleven supplemented experimental targets, grounded on
// builtin.py's experimental_profiles table.
var Profiles = []Profile{
	{Target: "typescript", Extension: "ts", CommentPrefix: "//", FunctionKeyword: "function", DeclarationPrefix: "let "},
	{Target: "go", Extension: "go", CommentPrefix: "//", FunctionKeyword: "func", DeclarationPrefix: "var "},
	{Target: "java", Extension: "java", CommentPrefix: "//", FunctionKeyword: "static Object", DeclarationPrefix: "var "},
	{Target: "csharp", Extension: "cs", CommentPrefix: "//", FunctionKeyword: "static object", DeclarationPrefix: "var "},
	{Target: "cpp", Extension: "cpp", CommentPrefix: "//", FunctionKeyword: "auto", DeclarationPrefix: "auto "},
	{Target: "php", Extension: "php", CommentPrefix: "//", FunctionKeyword: "function", DeclarationPrefix: "$"},
	{Target: "ruby", Extension: "rb", CommentPrefix: "#", FunctionKeyword: "def", DeclarationPrefix: ""},
	{Target: "kotlin", Extension: "kt", CommentPrefix: "//", FunctionKeyword: "fun", DeclarationPrefix: "var "},
	{Target: "swift", Extension: "swift", CommentPrefix: "//", FunctionKeyword: "func", DeclarationPrefix: "var "},
	{Target: "lua", Extension: "lua", CommentPrefix: "--", FunctionKeyword: "function", DeclarationPrefix: "local "},
	{Target: "dart", Extension: "dart", CommentPrefix: "//", FunctionKeyword: "dynamic", DeclarationPrefix: "var "},
}

// Pack is the experimental pseudo-emitter for one profile's target.
type Pack struct {
	pack.BasePack
	profile Profile
}

// New builds a pseudo language pack for profile.
func New(profile Profile) *Pack {
	return &Pack{
		profile: profile,
		BasePack: pack.BasePack{M: &manifest.PackManifest{
			PackID: "icl-experimental-" + profile.Target, Version: "1.0.0", Target: profile.Target,
			Stability: manifest.Experimental, FileExtension: profile.Extension,
			BlockModel: manifest.BlockBraces, StatementTermination: manifest.TermSemicolon,
			TypeStrategy: manifest.TypeStrategy{Strategy: "gradual_symbolic_best_effort", Notes: "syntax is a best-effort scaffold, semantics-parity is the goal"},
			Scaffolding: manifest.Scaffolding{PrimaryFile: "main." + profile.Extension},
			FeatureCoverage: map[string]bool{
				"assignment": true, "expression_stmt": true, "if": true, "loop": true,
				"function": true, "return": true, "literal": true, "reference": true,
				"unary": true, "arithmetic": true, "comparison": true, "call": true,
				"typed_annotation": false, "logic": false, "at_call": false, "lambda": false,
			},
		}},
	}
}

// RegisterAll registers every experimental pseudo pack into r.
func RegisterAll(r *pack.Registry) []*diagnostics.Error {
	var errs []*diagnostics.Error
	for _, profile := range Profiles {
		if err := r.Register(New(profile)); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Emit renders lowered as best-effort pseudo-target source text.
func (p *Pack) Emit(mod *lowering.Module, ctx *pack.EmissionContext) (string, error) {
	prof := p.profile
	lines := []string{
		prof.CommentPrefix + " experimental ICL pack: " + prof.Target,
		prof.CommentPrefix + " semantics-parity target, syntax is best-effort scaffold",
		"",
	}
	for _, stmt := range mod.Statements {
		lines = append(lines, p.emitStmt(stmt, 0)...)
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n", nil
}

func (p *Pack) emitStmt(stmt lowering.LStmt, level int) []string {
	prof := p.profile
	pad := strings.Repeat("    ", level)

	switch s := stmt.(type) {
	case *lowering.Assignment:
		return []string{pad + prof.DeclarationPrefix + s.Name + " = " + p.emitExpr(s.Value) + ";"}

	case *lowering.ExpressionStmt:
		return []string{pad + p.emitExpr(s.Expr) + ";"}

	case *lowering.If:
		lines := []string{pad + "if (" + p.emitExpr(s.Condition) + ") {"}
		for _, t := range s.Then {
			lines = append(lines, p.emitStmt(t, level+1)...)
		}
		if len(s.Else) > 0 {
			lines = append(lines, pad+"} else {")
			for _, el := range s.Else {
				lines = append(lines, p.emitStmt(el, level+1)...)
			}
		}
		lines = append(lines, pad+"}")
		return lines

	case *lowering.Loop:
		start, end := p.emitExpr(s.Start), p.emitExpr(s.End)
		it := s.Iterator
		lines := []string{pad + "for (" + prof.DeclarationPrefix + it + " = " + start + "; " + it + " < " + end + "; " + it + "++) {"}
		for _, b := range s.Body {
			lines = append(lines, p.emitStmt(b, level+1)...)
		}
		lines = append(lines, pad+"}")
		return lines

	case *lowering.Function:
		names := make([]string, len(s.Params))
		for i, param := range s.Params {
			names[i] = param.Name
		}
		lines := []string{pad + prof.FunctionKeyword + " " + s.Name + "(" + strings.Join(names, ", ") + ") {"}
		for _, b := range s.Body {
			lines = append(lines, p.emitStmt(b, level+1)...)
		}
		if len(s.Body) == 0 {
			lines = append(lines, pad+"    return 0;")
		}
		lines = append(lines, pad+"}")
		return lines

	case *lowering.Return:
		if s.Value == nil {
			return []string{pad + "return;"}
		}
		return []string{pad + "return " + p.emitExpr(s.Value) + ";"}

	default:
		return []string{pad + prof.CommentPrefix + " unsupported statement"}
	}
}

func (p *Pack) emitExpr(expr lowering.LExpr) string {
	switch e := expr.(type) {
	case *lowering.Literal:
		return pseudoLiteral(e.Value)

	case *lowering.Ref:
		return e.Name

	case *lowering.Unary:
		return "(" + e.Operator + p.emitExpr(e.Operand) + ")"

	case *lowering.Binary:
		return "(" + p.emitExpr(e.Left) + " " + e.Operator + " " + p.emitExpr(e.Right) + ")"

	case *lowering.Call:
		callee := p.emitExpr(e.Callee)
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = p.emitExpr(a)
		}
		return callee + "(" + strings.Join(args, ", ") + ")"

	default:
		return "null"
	}
}

func pseudoLiteral(v any) string {
	switch val := v.(type) {
	case bool:
		if val {
			return "true"
		}
		return "false"
	case string:
		return strconv.Quote(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return "null"
	}
}
