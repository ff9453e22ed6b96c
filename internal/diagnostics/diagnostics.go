// Package diagnostics implements the structured, phase-owned error taxonomy
// shared by every compiler stage (spec.md §7): LEX*, PAR*, SEM*, PLG*, PACK*,
// LOW*, CLI*, SRV*.
package diagnostics

import (
	"fmt"

	"github.com/funvibe/icl/internal/token"
)

// Diagnostic is the stable wire shape for a single error or warning:
// {code, message, span?, hint?}.
type Diagnostic struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Span    *token.Span `json:"span,omitempty"`
	Hint    string      `json:"hint,omitempty"`
}

// Error adapts a Diagnostic to the standard error interface so compiler
// stages can accumulate and return them like ordinary Go errors while still
// exposing the structured payload to hosts.
type Error struct {
	Diagnostic
}

func (e *Error) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New builds a diagnostic error with an optional span.
func New(code string, span token.Span, message string) *Error {
	s := span
	return &Error{Diagnostic{Code: code, Message: message, Span: &s}}
}

// NewWithHint builds a diagnostic error carrying a human-readable hint.
func NewWithHint(code string, span token.Span, message, hint string) *Error {
	s := span
	return &Error{Diagnostic{Code: code, Message: message, Span: &s, Hint: hint}}
}

// NewNoSpan builds a diagnostic error with no source span (pack/registry
// level failures that are not tied to a specific source location).
func NewNoSpan(code, message, hint string) *Error {
	return &Error{Diagnostic{Code: code, Message: message, Hint: hint}}
}

// List is an ordered collection of diagnostics accumulated by a stage.
type List []*Error

func (l List) Error() string {
	if len(l) == 0 {
		return ""
	}
	if len(l) == 1 {
		return l[0].Error()
	}
	msg := fmt.Sprintf("%d errors:", len(l))
	for _, e := range l {
		msg += "\n  " + e.Error()
	}
	return msg
}

// HasErrors reports whether any diagnostics were collected.
func (l List) HasErrors() bool { return len(l) > 0 }

// ToDiagnostics flattens the list to plain Diagnostic values for
// serialization.
func (l List) ToDiagnostics() []Diagnostic {
	out := make([]Diagnostic, 0, len(l))
	for _, e := range l {
		out = append(out, e.Diagnostic)
	}
	return out
}
