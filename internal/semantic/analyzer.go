// Package semantic implements ICL's two-pass scope/type checker
// (spec.md §4.5), grounded on original_source/icl/semantic.py. One resolved
// deviation from that reference (documented in DESIGN.md / SPEC_FULL.md §9):
// equality (`== !=`) requires identical base types or an Any operand,
// matching spec.md's literal operator-typing table, rather than the
// reference's unconditional Bool result for any operand types.
package semantic

import (
	"strconv"

	"github.com/funvibe/icl/internal/ast"
	"github.com/funvibe/icl/internal/diagnostics"
	"github.com/funvibe/icl/internal/symbols"
	"github.com/funvibe/icl/internal/token"
	"github.com/funvibe/icl/internal/typesystem"
)

// Result carries the module's global scope and the inferred type of every
// analyzed expression node (keyed by Go pointer identity, the natural
// analogue of original_source's `id(expr)` keying).
type Result struct {
	GlobalScope *symbols.Scope
	ExprTypes   map[ast.Expression]typesystem.Type
}

// TypeOf returns the inferred type for expr, or Any if it was never
// recorded (e.g. analysis aborted before reaching it).
func (r *Result) TypeOf(expr ast.Expression) typesystem.Type {
	if t, ok := r.ExprTypes[expr]; ok {
		return t
	}
	return typesystem.Any
}

// Analyzer runs the two-pass semantic check described in spec.md §4.5.
type Analyzer struct {
	global          *symbols.Scope
	exprTypes       map[ast.Expression]typesystem.Type
	errors          diagnostics.List
	currentFn       *symbols.Symbol // non-nil while inside a function body/expr-body
}

// New creates an Analyzer with a fresh global scope.
func New() *Analyzer {
	return &Analyzer{
		global:    symbols.NewScope(nil),
		exprTypes: make(map[ast.Expression]typesystem.Type),
	}
}

// Analyze runs both passes over program and returns the result plus any
// accumulated diagnostics.
func (a *Analyzer) Analyze(program *ast.Program) (*Result, diagnostics.List) {
	a.defineBuiltins()

	// Pass 1: register every top-level function signature so forward
	// references resolve (spec.md §4.5).
	for _, stmt := range program.Statements {
		if fn, ok := stmt.(*ast.FunctionDefStmt); ok {
			a.registerFunctionSignature(fn)
		}
	}

	// Pass 2: analyze statements in source order.
	for _, stmt := range program.Statements {
		a.analyzeStmt(stmt, a.global)
	}

	return &Result{GlobalScope: a.global, ExprTypes: a.exprTypes}, a.errors
}

func (a *Analyzer) defineBuiltins() {
	arity := 1
	a.global.Define(symbols.Symbol{
		Name: "print", Kind: symbols.BuiltinSymbol, Type: typesystem.Fn,
		Arity: &arity, ReturnType: typesystem.Void, ParamTypes: []typesystem.Type{typesystem.Any},
	})
}

func (a *Analyzer) registerFunctionSignature(fn *ast.FunctionDefStmt) {
	arity := len(fn.Params)
	paramTypes := make([]typesystem.Type, arity)
	for i, p := range fn.Params {
		paramTypes[i] = annotationType(p.TypeHint)
	}
	returnType := typesystem.Any
	if fn.ReturnType != "" {
		returnType = annotationType(fn.ReturnType)
	}
	sym := symbols.Symbol{
		Name: fn.Name, Kind: symbols.FunctionSymbol, Type: typesystem.Fn,
		Arity: &arity, ReturnType: returnType, ParamTypes: paramTypes, Span: fn.Span(),
	}
	if !a.global.Define(sym) {
		a.addErr("SEM001", fn.Span(), "function '"+fn.Name+"' is already defined", "")
	}
}

func annotationType(hint string) typesystem.Type {
	if hint == "" {
		return typesystem.Any
	}
	if t, ok := typesystem.Parse(hint); ok {
		return t
	}
	return typesystem.Any
}

// analyzeStmt analyzes one statement in scope and reports whether it
// definitively returns on every reachable path (used for SEM007 reachability).
func (a *Analyzer) analyzeStmt(stmt ast.Statement, scope *symbols.Scope) bool {
	switch s := stmt.(type) {
	case *ast.AssignmentStmt:
		valueType := a.inferExpr(s.Value, scope)
		targetType := valueType
		if s.TypeHint != "" {
			declared := annotationType(s.TypeHint)
			if !typesystem.Compatible(declared, valueType) {
				a.addErr("SEM002", s.Span(), "assignment to '"+s.Name+"' has type "+valueType.String()+", incompatible with declared "+declared.String(), "")
			}
			targetType = declared
		}
		scope.Define(symbols.Symbol{Name: s.Name, Kind: symbols.VariableSymbol, Type: targetType, Span: s.Span()})
		return false

	case *ast.ExpressionStmt:
		a.inferExpr(s.Expr, scope)
		return false

	case *ast.IfStmt:
		condType := a.inferExpr(s.Condition, scope)
		if !typesystem.Compatible(typesystem.Bool, condType) {
			a.addErr("SEM003", s.Span(), "if condition has type "+condType.String()+", expected Bool", "")
		}
		thenScope := symbols.NewScope(scope)
		thenReturns := false
		for _, st := range s.Then {
			if a.analyzeStmt(st, thenScope) {
				thenReturns = true
			}
		}
		elseReturns := false
		if s.Else != nil {
			elseScope := symbols.NewScope(scope)
			for _, st := range s.Else {
				if a.analyzeStmt(st, elseScope) {
					elseReturns = true
				}
			}
		}
		return thenReturns && elseReturns && s.Else != nil

	case *ast.LoopStmt:
		startType := a.inferExpr(s.Start, scope)
		endType := a.inferExpr(s.End, scope)
		if !typesystem.Compatible(typesystem.Num, startType) || !typesystem.Compatible(typesystem.Num, endType) {
			a.addErr("SEM004", s.Span(), "loop bounds must be Num, got "+startType.String()+".."+endType.String(), "")
		}
		loopScope := symbols.NewScope(scope)
		loopScope.Define(symbols.Symbol{Name: s.Iterator, Kind: symbols.VariableSymbol, Type: typesystem.Num, Span: s.Span()})
		for _, st := range s.Body {
			a.analyzeStmt(st, loopScope)
		}
		return false

	case *ast.FunctionDefStmt:
		return a.analyzeFunctionDef(s, scope)

	case *ast.ReturnStmt:
		if a.currentFn == nil {
			a.addErr("SEM008", s.Span(), "'ret' outside of a function", "")
			return true
		}
		var valueType typesystem.Type = typesystem.Void
		if s.Value != nil {
			valueType = a.inferExpr(s.Value, scope)
		}
		if !typesystem.Compatible(a.currentFn.ReturnType, valueType) {
			a.addErr("SEM009", s.Span(), "return type "+valueType.String()+" incompatible with declared "+a.currentFn.ReturnType.String(), "")
		}
		return true

	case *ast.MacroStmt:
		a.addErr("SEM010", s.Span(), "macro '#"+s.Name+"' survived to semantic analysis; it should have been expanded", "")
		return false

	default:
		a.addErr("SEM099", stmt.Span(), "unsupported statement kind", "")
		return false
	}
}

func (a *Analyzer) analyzeFunctionDef(fn *ast.FunctionDefStmt, scope *symbols.Scope) bool {
	sym, ok := a.global.Resolve(fn.Name)
	if !ok {
		a.addErr("SEM005", fn.Span(), "function '"+fn.Name+"' has no registered signature", "")
		return false
	}

	fnScope := symbols.NewScope(scope)
	for i, p := range fn.Params {
		pt := typesystem.Any
		if i < len(sym.ParamTypes) {
			pt = sym.ParamTypes[i]
		}
		fnScope.Define(symbols.Symbol{Name: p.Name, Kind: symbols.ParameterSymbol, Type: pt, Span: fn.Span()})
	}

	prevFn := a.currentFn
	symCopy := sym
	a.currentFn = &symCopy
	defer func() { a.currentFn = prevFn }()

	if fn.IsExprBody() {
		bodyType := a.inferExpr(fn.ExprBody, fnScope)
		if !typesystem.Compatible(sym.ReturnType, bodyType) {
			a.addErr("SEM006", fn.Span(), "function '"+fn.Name+"' body type "+bodyType.String()+" incompatible with declared return "+sym.ReturnType.String(), "")
		}
		return false
	}

	foundReturn := false
	for _, st := range fn.Body {
		if a.analyzeStmt(st, fnScope) {
			foundReturn = true
		}
	}
	if sym.ReturnType != typesystem.Void && !foundReturn {
		a.addErr("SEM007", fn.Span(), "function '"+fn.Name+"' declares non-Void return but has no statically-reachable return", "")
	}
	return false
}

func (a *Analyzer) inferExpr(expr ast.Expression, scope *symbols.Scope) typesystem.Type {
	t := a.inferExprUncached(expr, scope)
	a.exprTypes[expr] = t
	return t
}

func (a *Analyzer) inferExprUncached(expr ast.Expression, scope *symbols.Scope) typesystem.Type {
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		switch e.Kind {
		case ast.LiteralBool:
			return typesystem.Bool
		case ast.LiteralNum:
			return typesystem.Num
		case ast.LiteralStr:
			return typesystem.Str
		}
		return typesystem.Any

	case *ast.IdentifierExpr:
		sym, ok := scope.Resolve(e.Name)
		if !ok {
			a.addErr("SEM011", e.Span(), "undefined identifier '"+e.Name+"'", "")
			return typesystem.Any
		}
		if sym.Kind == symbols.FunctionSymbol || sym.Kind == symbols.BuiltinSymbol {
			return typesystem.Fn
		}
		return sym.Type

	case *ast.UnaryExpr:
		operandType := a.inferExpr(e.Operand, scope)
		switch e.Operator {
		case "!":
			if !typesystem.Compatible(typesystem.Bool, operandType) {
				a.addErr("SEM012", e.Span(), "unary '!' requires Bool, got "+operandType.String(), "")
			}
			return typesystem.Bool
		case "+", "-":
			if !typesystem.Compatible(typesystem.Num, operandType) {
				a.addErr("SEM013", e.Span(), "unary '"+e.Operator+"' requires Num, got "+operandType.String(), "")
			}
			return typesystem.Num
		}
		return typesystem.Any

	case *ast.BinaryExpr:
		leftType := a.inferExpr(e.Left, scope)
		rightType := a.inferExpr(e.Right, scope)
		return a.inferBinary(e, leftType, rightType)

	case *ast.LambdaExpr:
		lamScope := symbols.NewScope(scope)
		for _, p := range e.Params {
			lamScope.Define(symbols.Symbol{Name: p.Name, Kind: symbols.ParameterSymbol, Type: annotationType(p.TypeHint), Span: e.Span()})
		}
		bodyType := a.inferExpr(e.Body, lamScope)
		if e.ReturnType != "" {
			declared := annotationType(e.ReturnType)
			if !typesystem.Compatible(declared, bodyType) {
				a.addErr("SEM021", e.Span(), "lambda body type "+bodyType.String()+" incompatible with declared return "+declared.String(), "")
			}
		}
		return typesystem.Fn

	case *ast.CallExpr:
		for _, arg := range e.Args {
			a.inferExpr(arg, scope)
		}
		return a.inferCall(e, scope)

	case *ast.GroupExpr:
		return a.inferExpr(e.Inner, scope)

	default:
		a.addErr("SEM098", expr.Span(), "unsupported expression kind", "")
		return typesystem.Any
	}
}

func (a *Analyzer) inferBinary(e *ast.BinaryExpr, left, right typesystem.Type) typesystem.Type {
	switch e.Operator {
	case "+", "-", "*", "/", "%":
		if !typesystem.Compatible(typesystem.Num, left) || !typesystem.Compatible(typesystem.Num, right) {
			a.addErr("SEM014", e.Span(), "arithmetic '"+e.Operator+"' requires Num operands, got "+left.String()+" and "+right.String(), "")
		}
		return typesystem.Num
	case "<", "<=", ">", ">=":
		if !typesystem.Compatible(typesystem.Num, left) || !typesystem.Compatible(typesystem.Num, right) {
			a.addErr("SEM015", e.Span(), "comparison '"+e.Operator+"' requires Num operands, got "+left.String()+" and "+right.String(), "")
		}
		return typesystem.Bool
	case "==", "!=":
		// spec.md's literal operator table: either side Any, or same base.
		if left != typesystem.Any && right != typesystem.Any && left != right {
			a.addErr("SEM014", e.Span(), "equality '"+e.Operator+"' requires matching types or Any, got "+left.String()+" and "+right.String(), "")
		}
		return typesystem.Bool
	case "&&", "||":
		if !typesystem.Compatible(typesystem.Bool, left) || !typesystem.Compatible(typesystem.Bool, right) {
			a.addErr("SEM016", e.Span(), "logical '"+e.Operator+"' requires Bool operands, got "+left.String()+" and "+right.String(), "")
		}
		return typesystem.Bool
	default:
		a.addErr("SEM098", e.Span(), "unsupported binary operator '"+e.Operator+"'", "")
		return typesystem.Any
	}
}

func (a *Analyzer) inferCall(e *ast.CallExpr, scope *symbols.Scope) typesystem.Type {
	if ident, ok := e.Callee.(*ast.IdentifierExpr); ok {
		sym, found := scope.Resolve(ident.Name)
		if !found {
			a.addErr("SEM017", e.Span(), "call to undefined function '"+ident.Name+"'", "")
			return typesystem.Any
		}
		a.exprTypes[ident] = sym.Type
		if sym.Kind == symbols.FunctionSymbol || sym.Kind == symbols.BuiltinSymbol {
			if sym.Arity != nil && *sym.Arity != len(e.Args) {
				a.addErr("SEM019", e.Span(), "call to '"+ident.Name+"' expects "+itoa(*sym.Arity)+" argument(s), got "+itoa(len(e.Args)), "")
			}
			return sym.ReturnType
		}
		if sym.Type == typesystem.Any || sym.Type == typesystem.Fn {
			return typesystem.Any
		}
		a.addErr("SEM018", e.Span(), "'"+ident.Name+"' is not callable (type "+sym.Type.String()+")", "")
		return typesystem.Any
	}

	calleeType := a.inferExpr(e.Callee, scope)
	if calleeType != typesystem.Fn && calleeType != typesystem.Any {
		a.addErr("SEM020", e.Span(), "call target has type "+calleeType.String()+", expected Fn", "")
	}
	return typesystem.Any
}

func (a *Analyzer) addErr(code string, span token.Span, msg, hint string) {
	if hint != "" {
		a.errors = append(a.errors, diagnostics.NewWithHint(code, span, msg, hint))
		return
	}
	a.errors = append(a.errors, diagnostics.New(code, span, msg))
}

func itoa(i int) string { return strconv.Itoa(i) }
