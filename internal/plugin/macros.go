package plugin

import (
	"github.com/funvibe/icl/internal/ast"
	"github.com/funvibe/icl/internal/diagnostics"
	"github.com/funvibe/icl/internal/token"
)

// EchoMacro implements `#echo(expr)` → `print(expr);`, grounded on
// original_source/icl/plugins/std_macros.go.
type EchoMacro struct{}

func (EchoMacro) Name() string { return "echo" }

func (EchoMacro) Expand(stmt *ast.MacroStmt) ([]ast.Statement, error) {
	if len(stmt.Args) != 1 {
		return nil, diagnostics.New("PLG101", stmt.Span(), "#echo expects exactly 1 argument")
	}
	return []ast.Statement{printCall(stmt.Tok, stmt.Args[0])}, nil
}

// DbgMacro implements `#dbg(expr)` → `print("dbg:"); print(expr);`.
type DbgMacro struct{}

func (DbgMacro) Name() string { return "dbg" }

func (DbgMacro) Expand(stmt *ast.MacroStmt) ([]ast.Statement, error) {
	if len(stmt.Args) != 1 {
		return nil, diagnostics.New("PLG102", stmt.Span(), "#dbg expects exactly 1 argument")
	}
	label := &ast.LiteralExpr{Tok: stmt.Tok, Kind: ast.LiteralStr, Value: "dbg:"}
	return []ast.Statement{
		printCall(stmt.Tok, label),
		printCall(stmt.Tok, stmt.Args[0]),
	}, nil
}

func printCall(tok token.Token, arg ast.Expression) ast.Statement {
	callee := &ast.IdentifierExpr{Tok: tok, Name: "print"}
	call := &ast.CallExpr{Tok: tok, Callee: callee, Args: []ast.Expression{arg}}
	return &ast.ExpressionStmt{Tok: tok, Expr: call}
}

// RegisterStdMacros installs the built-in macro set on m.
func RegisterStdMacros(m *Manager) {
	m.RegisterMacro(EchoMacro{})
	m.RegisterMacro(DbgMacro{})
}
