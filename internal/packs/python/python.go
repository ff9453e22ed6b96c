// Package python implements the required `python` language pack
// (spec.md §4.8), grounded on original_source/icl/expanders/python_backend.go.
package python

import (
	"strconv"
	"strings"

	"github.com/funvibe/icl/internal/lowering"
	"github.com/funvibe/icl/internal/manifest"
	"github.com/funvibe/icl/internal/pack"
)

// Pack emits Python source from a lowered ICL module.
type Pack struct {
	pack.BasePack
}

// New builds the python language pack with its manifest.
func New() *Pack {
	return &Pack{BasePack: pack.BasePack{M: &manifest.PackManifest{
		PackID: "icl-python", Version: "1.0.0", Target: "python",
		Stability: manifest.Stable, FileExtension: "py",
		BlockModel: manifest.BlockIndent, StatementTermination: manifest.TermNewline,
		TypeStrategy: manifest.TypeStrategy{Strategy: "dynamic", Notes: "symbolic types are erased; values carry Python's own dynamic typing"},
		Scaffolding: manifest.Scaffolding{PrimaryFile: "main.py"},
		FeatureCoverage: map[string]bool{
			"assignment": true, "typed_annotation": true, "expression_stmt": true,
			"if": true, "loop": true, "function": true, "return": true,
			"literal": true, "reference": true, "unary": true,
			"arithmetic": true, "comparison": true, "logic": true,
			"call": true, "at_call": true, "lambda": true,
		},
	}}}
}

// Emit renders lowered as Python source text.
func (p *Pack) Emit(mod *lowering.Module, ctx *pack.EmissionContext) (string, error) {
	var lines []string
	for _, stmt := range mod.Statements {
		lines = append(lines, emitStmt(stmt, 0)...)
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n", nil
}

func ind(s string, level int) string { return strings.Repeat("    ", level) + s }

func emitStmt(stmt lowering.LStmt, level int) []string {
	switch s := stmt.(type) {
	case *lowering.Assignment:
		return []string{ind(s.Name+" = "+emitExpr(s.Value), level)}

	case *lowering.ExpressionStmt:
		return []string{ind(emitExpr(s.Expr), level)}

	case *lowering.If:
		lines := []string{ind("if "+emitExpr(s.Condition)+":", level)}
		if len(s.Then) == 0 {
			lines = append(lines, ind("pass", level+1))
		}
		for _, t := range s.Then {
			lines = append(lines, emitStmt(t, level+1)...)
		}
		if len(s.Else) > 0 {
			lines = append(lines, ind("else:", level))
			for _, e := range s.Else {
				lines = append(lines, emitStmt(e, level+1)...)
			}
		}
		return lines

	case *lowering.Loop:
		lines := []string{ind("for "+s.Iterator+" in range("+emitExpr(s.Start)+", "+emitExpr(s.End)+"):", level)}
		if len(s.Body) == 0 {
			lines = append(lines, ind("pass", level+1))
		}
		for _, b := range s.Body {
			lines = append(lines, emitStmt(b, level+1)...)
		}
		return lines

	case *lowering.Function:
		names := make([]string, len(s.Params))
		for i, p := range s.Params {
			names[i] = p.Name
		}
		lines := []string{ind("def "+s.Name+"("+strings.Join(names, ", ")+"):", level)}
		if len(s.Body) == 0 {
			lines = append(lines, ind("pass", level+1))
		}
		for _, b := range s.Body {
			lines = append(lines, emitStmt(b, level+1)...)
		}
		return lines

	case *lowering.Return:
		if s.Value != nil {
			return []string{ind("return "+emitExpr(s.Value), level)}
		}
		return []string{ind("return", level)}

	default:
		return []string{ind("# unsupported statement", level)}
	}
}

func emitExpr(expr lowering.LExpr) string {
	switch e := expr.(type) {
	case *lowering.Literal:
		return pyRepr(e.Value)

	case *lowering.Ref:
		return e.Name

	case *lowering.Unary:
		operand := emitExpr(e.Operand)
		if e.Operator == "!" {
			return "(not " + operand + ")"
		}
		return "(" + e.Operator + operand + ")"

	case *lowering.Binary:
		op := e.Operator
		switch op {
		case "&&":
			op = "and"
		case "||":
			op = "or"
		}
		return "(" + emitExpr(e.Left) + " " + op + " " + emitExpr(e.Right) + ")"

	case *lowering.Call:
		callee := emitExpr(e.Callee)
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = emitExpr(a)
		}
		return callee + "(" + strings.Join(args, ", ") + ")"

	case *lowering.Lambda:
		names := make([]string, len(e.Params))
		for i, p := range e.Params {
			names[i] = p.Name
		}
		return "(lambda " + strings.Join(names, ", ") + ": " + emitExpr(e.Body) + ")"

	default:
		return "None"
	}
}

func pyRepr(v any) string {
	switch val := v.(type) {
	case bool:
		if val {
			return "True"
		}
		return "False"
	case string:
		return strconv.Quote(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return "None"
	}
}
