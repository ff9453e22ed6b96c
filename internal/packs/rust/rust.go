// Package rust implements the required `rust` language pack (spec.md
// §4.8), grounded on original_source/icl/expanders/rust_backend.go. Unlike
// the reference implementation (which infers Rust types while walking an
// untyped graph), this pack reads the symbolic type already attached to
// every lowering.LExpr by the semantic analyzer, so no separate type
// inference pass is needed at emission time.
package rust

import (
	"strconv"
	"strings"

	"github.com/funvibe/icl/internal/lowering"
	"github.com/funvibe/icl/internal/manifest"
	"github.com/funvibe/icl/internal/pack"
)

// Pack emits Rust source from a lowered ICL module.
type Pack struct {
	pack.BasePack
}

// New builds the rust language pack with its manifest.
func New() *Pack {
	return &Pack{BasePack: pack.BasePack{M: &manifest.PackManifest{
		PackID: "icl-rust", Version: "1.0.0", Target: "rust",
		Stability: manifest.Beta, FileExtension: "rs",
		BlockModel: manifest.BlockBraces, StatementTermination: manifest.TermSemicolon,
		TypeStrategy: manifest.TypeStrategy{Strategy: "static", Notes: "Num -> f64, Str -> String, Bool -> bool, Void -> (), Fn -> closure"},
		Scaffolding: manifest.Scaffolding{PrimaryFile: "main.rs"},
		FeatureCoverage: map[string]bool{
			"assignment": true, "typed_annotation": true, "expression_stmt": true,
			"if": true, "loop": true, "function": true, "return": true,
			"literal": true, "reference": true, "unary": true,
			"arithmetic": true, "comparison": true, "logic": true,
			"call": true, "at_call": true, "lambda": true,
		},
	}}}
}

// Emit renders lowered as Rust source text: hoisted function definitions
// followed by a synthesized fn main() wrapping top-level statements.
func (p *Pack) Emit(mod *lowering.Module, ctx *pack.EmissionContext) (string, error) {
	var fns []*lowering.Function
	var main []lowering.LStmt
	for _, stmt := range mod.Statements {
		if fn, ok := stmt.(*lowering.Function); ok {
			fns = append(fns, fn)
		} else {
			main = append(main, stmt)
		}
	}

	var lines []string
	for _, fn := range fns {
		lines = append(lines, emitFunction(fn, 0)...)
		lines = append(lines, "")
	}

	lines = append(lines, "fn main() {")
	if len(main) == 0 {
		lines = append(lines, ind("// empty", 1))
	}
	for _, s := range main {
		lines = append(lines, emitStmt(s, 1)...)
	}
	lines = append(lines, "}")

	return strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n", nil
}

func ind(s string, level int) string { return strings.Repeat("    ", level) + s }

func emitFunction(fn *lowering.Function, level int) []string {
	returnType := rustType(fn.ReturnType)
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Name + ": " + rustType(p.TypeHint)
	}
	lines := []string{ind("fn "+fn.Name+"("+strings.Join(params, ", ")+") -> "+returnType+" {", level)}
	sawReturn := false
	for _, s := range fn.Body {
		lines = append(lines, emitStmt(s, level+1)...)
		if _, ok := s.(*lowering.Return); ok {
			sawReturn = true
		}
	}
	if !sawReturn {
		lines = append(lines, ind("return "+defaultValue(returnType)+";", level+1))
	}
	lines = append(lines, ind("}", level))
	return lines
}

func emitStmt(stmt lowering.LStmt, level int) []string {
	switch s := stmt.(type) {
	case *lowering.Assignment:
		declared := rustType(exprTypeHint(s.Value))
		if s.TypeHint != "" {
			declared = rustType(s.TypeHint)
		}
		value := coerce(emitExpr(s.Value), s.Value.ExprType(), declared)
		if declared == "Fn" {
			return []string{ind("let mut "+s.Name+" = "+value+";", level)}
		}
		return []string{ind("let mut "+s.Name+": "+declared+" = "+value+";", level)}

	case *lowering.ExpressionStmt:
		if call, ok := s.Expr.(*lowering.Call); ok {
			if ref, ok := call.Callee.(*lowering.Ref); ok && ref.Name == "print" {
				arg := `""`
				if len(call.Args) > 0 {
					arg = emitExpr(call.Args[0])
				}
				return []string{ind(`println!("{:?}", `+arg+");", level)}
			}
		}
		return []string{ind(emitExpr(s.Expr)+";", level)}

	case *lowering.If:
		lines := []string{ind("if "+coerce(emitExpr(s.Condition), s.Condition.ExprType(), "bool")+" {", level)}
		for _, t := range s.Then {
			lines = append(lines, emitStmt(t, level+1)...)
		}
		if len(s.Else) > 0 {
			lines = append(lines, ind("} else {", level))
			for _, el := range s.Else {
				lines = append(lines, emitStmt(el, level+1)...)
			}
			lines = append(lines, ind("}", level))
		} else {
			lines = append(lines, ind("}", level))
		}
		return lines

	case *lowering.Loop:
		start := coerce(emitExpr(s.Start), s.Start.ExprType(), "i64")
		end := coerce(emitExpr(s.End), s.End.ExprType(), "i64")
		lines := []string{ind("for "+s.Iterator+" in ("+start+")..("+end+") {", level)}
		for _, b := range s.Body {
			lines = append(lines, emitStmt(b, level+1)...)
		}
		lines = append(lines, ind("}", level))
		return lines

	case *lowering.Function:
		return emitFunction(s, level)

	case *lowering.Return:
		if s.Value != nil {
			return []string{ind("return "+emitExpr(s.Value)+";", level)}
		}
		return []string{ind("return;", level)}

	default:
		return []string{ind("// unsupported statement", level)}
	}
}

func emitExpr(expr lowering.LExpr) string {
	switch e := expr.(type) {
	case *lowering.Literal:
		return rustLiteral(e.Value)

	case *lowering.Ref:
		return e.Name

	case *lowering.Unary:
		operand := emitExpr(e.Operand)
		if e.Operator == "!" {
			return "(!" + coerce(operand, e.Operand.ExprType(), "bool") + ")"
		}
		return "(" + e.Operator + coerce(operand, e.Operand.ExprType(), "Num") + ")"

	case *lowering.Binary:
		return emitBinary(e)

	case *lowering.Call:
		callee := "unknown"
		if ref, ok := e.Callee.(*lowering.Ref); ok {
			callee = ref.Name
		} else {
			callee = emitExpr(e.Callee)
		}
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
		return "|" + strings.Join(names, ", ") + "| " + emitExpr(e.Body)

	default:
		return "0.0"
	}
}

func emitBinary(e *lowering.Binary) string {
	leftSrc, rightSrc := emitExpr(e.Left), emitExpr(e.Right)
	leftTy, rightTy := e.Left.ExprType(), e.Right.ExprType()

	switch e.Operator {
	case "+", "-", "*", "/", "%":
		if e.Operator == "+" && (leftTy == "Str" || rightTy == "Str") {
			return `format!("{}{}", ` + toStringExpr(leftSrc, leftTy) + ", " + toStringExpr(rightSrc, rightTy) + ")"
		}
		l := coerce(leftSrc, leftTy, "Num")
		r := coerce(rightSrc, rightTy, "Num")
		return "(" + l + " " + e.Operator + " " + r + ")"

	case "==", "!=":
		if leftTy == "Str" || rightTy == "Str" {
			return "(" + toStringExpr(leftSrc, leftTy) + " " + e.Operator + " " + toStringExpr(rightSrc, rightTy) + ")"
		}
		return "(" + leftSrc + " " + e.Operator + " " + rightSrc + ")"

	case "<", "<=", ">", ">=":
		l := coerce(leftSrc, leftTy, "Num")
		r := coerce(rightSrc, rightTy, "Num")
		return "(" + l + " " + e.Operator + " " + r + ")"

	case "&&", "||":
		l := coerce(leftSrc, leftTy, "Bool")
		r := coerce(rightSrc, rightTy, "Bool")
		return "(" + l + " " + e.Operator + " " + r + ")"

	default:
		return "0.0"
	}
}

// rustType maps a symbolic type name (as stored on lowering.LExpr.ExprType
// or an ast/ir type-hint string) to its Rust rendering.
func rustType(symbolic string) string {
	switch symbolic {
	case "Num":
		return "f64"
	case "Bool":
		return "bool"
	case "Str":
		return "String"
	case "Void":
		return "()"
	case "Fn":
		return "Fn"
	default:
		return "f64"
	}
}

func exprTypeHint(e lowering.LExpr) string { return e.ExprType() }

// coerce converts a rendered expression from one symbolic type to a target
// Rust type, mirroring original_source's numeric/bool/string coercion table.
func coerce(src, fromSymbolic, toRust string) string {
	from := rustType(fromSymbolic)
	if from == toRust {
		return src
	}
	if from == "Fn" || toRust == "Fn" {
		return src
	}
	if toRust == "bool" && from == "f64" {
		return "(" + src + " != 0.0)"
	}
	if toRust == "f64" && from == "bool" {
		return "(if " + src + " { 1.0 } else { 0.0 })"
	}
	if toRust == "String" {
		return toStringExpr(src, fromSymbolic)
	}
	return src
}

func toStringExpr(src, fromSymbolic string) string {
	switch fromSymbolic {
	case "Str":
		return src
	default:
		return "(" + src + ").to_string()"
	}
}

func defaultValue(rustTy string) string {
	switch rustTy {
	case "bool":
		return "false"
	case "String":
		return "String::new()"
	case "()":
		return "()"
	default:
		return "0.0"
	}
}

func rustLiteral(v any) string {
	switch val := v.(type) {
	case bool:
		if val {
			return "true"
		}
		return "false"
	case string:
		return strconv.Quote(val) + ".to_string()"
	case float64:
		s := strconv.FormatFloat(val, 'g', -1, 64)
		if !strings.Contains(s, ".") && !strings.ContainsAny(s, "eE") {
			s += ".0"
		}
		return s
	default:
		return "0.0"
	}
}
