package compiler

import (
	"strconv"
	"strings"

	"github.com/funvibe/icl/internal/ast"
	"github.com/funvibe/icl/internal/diagnostics"
	"github.com/funvibe/icl/internal/lexer"
	"github.com/funvibe/icl/internal/parser"
)

// Compress parses source and re-renders it in ICL's compact form:
// whitespace-minimal, with every statement concatenated onto a single line
// (spec.md §6's `compress` command and §8's round-trip property:
// `parse(compress(parse(s))) == parse(s)`, modulo span offsets). Compress
// does not run the alias normalizer: natural-language alias words in source
// are not rewritten to their canonical spelling.
func Compress(source, filename string) (string, diagnostics.List) {
	toks, lexErrs := lexer.New(source, filename).Tokenize()
	if lexErrs.HasErrors() {
		return "", lexErrs
	}
	program, parseErrs := parser.New(toks).ParseProgram()
	if parseErrs.HasErrors() {
		return "", parseErrs
	}

	var b strings.Builder
	for _, s := range program.Statements {
		b.WriteString(compressStmt(s))
	}
	return b.String(), nil
}

func compressStmt(s ast.Statement) string {
	switch n := s.(type) {
	case *ast.AssignmentStmt:
		if n.TypeHint != "" {
			return n.Name + ":" + n.TypeHint + ":=" + compressExpr(n.Value) + ";"
		}
		return n.Name + ":=" + compressExpr(n.Value) + ";"

	case *ast.ExpressionStmt:
		return compressExpr(n.Expr) + ";"

	case *ast.IfStmt:
		out := "if " + compressExpr(n.Condition) + "?{" + compressBlock(n.Then) + "}"
		if n.Else != nil {
			out += ":{" + compressBlock(n.Else) + "}"
		}
		return out + ";"

	case *ast.LoopStmt:
		return "loop " + n.Iterator + " in " + compressExpr(n.Start) + ".." + compressExpr(n.End) + "{" + compressBlock(n.Body) + "};"

	case *ast.FunctionDefStmt:
		sig := "fn " + n.Name + "(" + compressParams(n.Params) + ")"
		if n.ReturnType != "" {
			sig += ":" + n.ReturnType
		}
		if n.IsExprBody() {
			return sig + "=>" + compressExpr(n.ExprBody) + ";"
		}
		return sig + "{" + compressBlock(n.Body) + "};"

	case *ast.ReturnStmt:
		if n.Value != nil {
			return "ret " + compressExpr(n.Value) + ";"
		}
		return "ret;"

	case *ast.MacroStmt:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = compressExpr(a)
		}
		return "#" + n.Name + "(" + strings.Join(args, ",") + ");"

	default:
		return ""
	}
}

func compressBlock(stmts []ast.Statement) string {
	var b strings.Builder
	for _, s := range stmts {
		b.WriteString(compressStmt(s))
	}
	return b.String()
}

func compressParams(params []ast.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		if p.TypeHint != "" {
			parts[i] = p.Name + ":" + p.TypeHint
		} else {
			parts[i] = p.Name
		}
	}
	return strings.Join(parts, ",")
}

func compressExpr(e ast.Expression) string {
	switch n := e.(type) {
	case *ast.LiteralExpr:
		switch n.Kind {
		case ast.LiteralStr:
			return strconv.Quote(n.Value.(string))
		case ast.LiteralBool:
			if n.Value.(bool) {
				return "true"
			}
			return "false"
		default:
			return strconv.FormatFloat(n.Value.(float64), 'g', -1, 64)
		}

	case *ast.IdentifierExpr:
		return n.Name

	case *ast.UnaryExpr:
		return n.Operator + compressExpr(n.Operand)

	case *ast.BinaryExpr:
		return compressExpr(n.Left) + n.Operator + compressExpr(n.Right)

	case *ast.LambdaExpr:
		sig := "lam(" + compressParams(n.Params) + ")"
		if n.ReturnType != "" {
			sig += ":" + n.ReturnType
		}
		return sig + "=>" + compressExpr(n.Body)

	case *ast.CallExpr:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = compressExpr(a)
		}
		prefix := ""
		if n.AtPrefixed {
			prefix = "@"
		}
		return prefix + compressExpr(n.Callee) + "(" + strings.Join(args, ",") + ")"

	case *ast.GroupExpr:
		return "(" + compressExpr(n.Inner) + ")"

	default:
		return ""
	}
}
