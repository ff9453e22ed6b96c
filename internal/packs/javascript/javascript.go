// Package javascript implements the required `javascript` language pack
// (spec.md §4.8), grounded on original_source/icl/expanders/js_backend.go.
package javascript

import (
	"encoding/json"
	"strings"

	"github.com/funvibe/icl/internal/lowering"
	"github.com/funvibe/icl/internal/manifest"
	"github.com/funvibe/icl/internal/pack"
)

// Pack emits JavaScript source from a lowered ICL module.
type Pack struct {
	pack.BasePack
	declared map[string]bool
}

// New builds the javascript language pack with its manifest.
func New() *Pack {
	return &Pack{BasePack: pack.BasePack{M: &manifest.PackManifest{
		PackID: "icl-javascript", Version: "1.0.0", Target: "javascript",
		Aliases:   []string{"js"},
		Stability: manifest.Stable, FileExtension: "js",
		BlockModel: manifest.BlockBraces, StatementTermination: manifest.TermSemicolon,
		TypeStrategy: manifest.TypeStrategy{Strategy: "dynamic", Notes: "symbolic types are erased; `let` bindings carry JS's own dynamic typing"},
		Scaffolding: manifest.Scaffolding{PrimaryFile: "main.js"},
		RuntimeHelpers: []string{"print"},
		FeatureCoverage: map[string]bool{
			"assignment": true, "typed_annotation": true, "expression_stmt": true,
			"if": true, "loop": true, "function": true, "return": true,
			"literal": true, "reference": true, "unary": true,
			"arithmetic": true, "comparison": true, "logic": true,
			"call": true, "at_call": true, "lambda": true,
		},
	}}}
}

// Emit renders lowered as JavaScript source text.
func (p *Pack) Emit(mod *lowering.Module, ctx *pack.EmissionContext) (string, error) {
	e := &emitter{declared: map[string]bool{}}
	var lines []string
	for _, stmt := range mod.Statements {
		lines = append(lines, e.stmt(stmt, 0)...)
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n", nil
}

type emitter struct {
	declared map[string]bool
}

func ind(s string, level int) string { return strings.Repeat("  ", level) + s }

func (e *emitter) stmt(stmt lowering.LStmt, level int) []string {
	switch s := stmt.(type) {
	case *lowering.Assignment:
		value := e.expr(s.Value)
		if e.declared[s.Name] {
			return []string{ind(s.Name+" = "+value+";", level)}
		}
		e.declared[s.Name] = true
		return []string{ind("let "+s.Name+" = "+value+";", level)}

	case *lowering.ExpressionStmt:
		return []string{ind(e.expr(s.Expr)+";", level)}

	case *lowering.If:
		lines := []string{ind("if ("+e.expr(s.Condition)+") {", level)}
		for _, t := range s.Then {
			lines = append(lines, e.stmt(t, level+1)...)
		}
		if len(s.Else) > 0 {
			lines = append(lines, ind("} else {", level))
			for _, el := range s.Else {
				lines = append(lines, e.stmt(el, level+1)...)
			}
		}
		lines = append(lines, ind("}", level))
		return lines

	case *lowering.Loop:
		header := ind("for (let "+s.Iterator+" = "+e.expr(s.Start)+"; "+s.Iterator+" < "+e.expr(s.End)+"; "+s.Iterator+"++) {", level)
		lines := []string{header}
		for _, b := range s.Body {
			lines = append(lines, e.stmt(b, level+1)...)
		}
		lines = append(lines, ind("}", level))
		return lines

	case *lowering.Function:
		names := make([]string, len(s.Params))
		for i, p := range s.Params {
			names[i] = p.Name
		}
		lines := []string{ind("function "+s.Name+"("+strings.Join(names, ", ")+") {", level)}
		for _, b := range s.Body {
			lines = append(lines, e.stmt(b, level+1)...)
		}
		lines = append(lines, ind("}", level))
		return lines

	case *lowering.Return:
		if s.Value != nil {
			return []string{ind("return "+e.expr(s.Value)+";", level)}
		}
		return []string{ind("return;", level)}

	default:
		return []string{ind("// unsupported statement", level)}
	}
}

func (e *emitter) expr(expr lowering.LExpr) string {
	switch ex := expr.(type) {
	case *lowering.Literal:
		return jsRepr(ex.Value)

	case *lowering.Ref:
		return ex.Name

	case *lowering.Unary:
		return "(" + ex.Operator + e.expr(ex.Operand) + ")"

	case *lowering.Binary:
		return "(" + e.expr(ex.Left) + " " + ex.Operator + " " + e.expr(ex.Right) + ")"

	case *lowering.Call:
		callee := e.expr(ex.Callee)
		args := make([]string, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = e.expr(a)
		}
		return callee + "(" + strings.Join(args, ", ") + ")"

	case *lowering.Lambda:
		names := make([]string, len(ex.Params))
		for i, p := range ex.Params {
			names[i] = p.Name
		}
		return "((" + strings.Join(names, ", ") + ") => " + e.expr(ex.Body) + ")"

	default:
		return "null"
	}
}

func jsRepr(v any) string {
	if b, ok := v.(bool); ok {
		if b {
			return "true"
		}
		return "false"
	}
	encoded, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(encoded)
}
