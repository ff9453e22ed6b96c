// Package alias implements the optional pre-lex alias normalizer
// (spec.md §4.1), grounded on original_source/icl/alias_map.go and
// natural_aliases.py: a hand-scanned rewrite of natural-language words to
// canonical ICL tokens, outside string and comment regions.
package alias

import (
	"sort"
	"strings"

	"github.com/funvibe/icl/internal/diagnostics"
	"github.com/funvibe/icl/internal/token"
)

// Mode selects which alias tiers participate in normalization.
type Mode int

const (
	Core Mode = iota
	Extended
)

// Entry is one canonical-form alias group, documenting how each target
// renders the canonical form (informational only, surfaced via Catalog).
type Entry struct {
	Canonical   string
	Aliases     []string
	Category    string
	Tier        Mode
	Description string
}

// Entries is the full supplemented alias catalog (original_source's 16
// entries across the core/extended tiers).
var Entries = []Entry{
	{Canonical: "fn", Aliases: []string{"mkfn", "makefn", "defn", "func", "function"}, Category: "keyword", Tier: Core, Description: "function definition"},
	{Canonical: "lam", Aliases: []string{"lambda", "anon", "anonfn", "mklam"}, Category: "keyword", Tier: Core, Description: "lambda expression"},
	{Canonical: "ret", Aliases: []string{"rtn", "return", "giveback"}, Category: "keyword", Tier: Core, Description: "return statement"},
	{Canonical: "if", Aliases: []string{"iff", "when", "cond"}, Category: "keyword", Tier: Core, Description: "conditional statement"},
	{Canonical: "loop", Aliases: []string{"lp", "repeat", "forloop", "iter"}, Category: "keyword", Tier: Core, Description: "loop statement"},
	{Canonical: "in", Aliases: []string{"within"}, Category: "keyword", Tier: Core, Description: "loop range keyword"},
	{Canonical: "print", Aliases: []string{"prnt", "echo", "say", "log"}, Category: "builtin", Tier: Core, Description: "print builtin"},
	{Canonical: "true", Aliases: []string{"yes", "on"}, Category: "literal", Tier: Extended, Description: "boolean true"},
	{Canonical: "false", Aliases: []string{"no", "off"}, Category: "literal", Tier: Extended, Description: "boolean false"},
	{Canonical: "&&", Aliases: []string{"and"}, Category: "operator", Tier: Extended, Description: "logical and"},
	{Canonical: "||", Aliases: []string{"or"}, Category: "operator", Tier: Extended, Description: "logical or"},
	{Canonical: "!", Aliases: []string{"not"}, Category: "operator", Tier: Extended, Description: "logical not"},
	{Canonical: "==", Aliases: []string{"eq"}, Category: "operator", Tier: Extended, Description: "equality"},
	{Canonical: "!=", Aliases: []string{"neq"}, Category: "operator", Tier: Extended, Description: "inequality"},
	{Canonical: ">=", Aliases: []string{"gte"}, Category: "operator", Tier: Extended, Description: "greater-or-equal"},
	{Canonical: "<=", Aliases: []string{"lte"}, Category: "operator", Tier: Extended, Description: "less-or-equal"},
}

// Lookup returns a flat alias-word to canonical-word map for the given mode.
// Extended mode includes the core tier.
func Lookup(mode Mode) map[string]string {
	out := map[string]string{}
	for _, e := range Entries {
		if e.Tier == Extended && mode == Core {
			continue
		}
		for _, a := range e.Aliases {
			out[a] = e.Canonical
		}
	}
	return out
}

// Catalog returns the alias entries applicable to mode, sorted by canonical
// form, for documentation/JSON output.
func Catalog(mode Mode) []Entry {
	var out []Entry
	for _, e := range Entries {
		if e.Tier == Extended && mode == Core {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Canonical < out[j].Canonical })
	return out
}

// Rewrite records a single alias-to-canonical substitution applied during
// normalization, keyed by the ORIGINAL word's span.
type Rewrite struct {
	From string
	To   string
	Span token.Span
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}

// Normalize rewrites natural-language aliases in source outside string
// literals and line comments, returning the normalized text and an ordered
// trace of the rewrites applied.
func Normalize(source, filename string, mode Mode) (string, []Rewrite, error) {
	lookup := Lookup(mode)
	var out strings.Builder
	var trace []Rewrite

	line, col := 1, 0
	bump := func(ch byte) {
		if ch == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}

	i := 0
	n := len(source)
	for i < n {
		ch := source[i]

		// Line comment: copy verbatim to end of line.
		if ch == '/' && i+1 < n && source[i+1] == '/' {
			for i < n && source[i] != '\n' {
				out.WriteByte(source[i])
				bump(source[i])
				i++
			}
			continue
		}

		// String literal: copy verbatim, respecting backslash escapes.
		if ch == '"' {
			out.WriteByte(ch)
			bump(ch)
			i++
			for i < n && source[i] != '"' {
				if source[i] == '\\' && i+1 < n {
					out.WriteByte(source[i])
					bump(source[i])
					i++
					out.WriteByte(source[i])
					bump(source[i])
					i++
					continue
				}
				out.WriteByte(source[i])
				bump(source[i])
				i++
			}
			if i < n {
				out.WriteByte(source[i])
				bump(source[i])
				i++
			}
			continue
		}

		// Identifier-shaped word: candidate for alias rewrite.
		if isIdentStart(ch) {
			start := i
			startLine, startCol := line, col+1
			for i < n && isIdentPart(source[i]) {
				bump(source[i])
				i++
			}
			word := source[start:i]
			if canon, ok := lookup[word]; ok {
				out.WriteString(canon)
				trace = append(trace, Rewrite{
					From: word,
					To:   canon,
					Span: token.Span{File: filename, Line: startLine, Column: startCol},
				})
			} else {
				out.WriteString(word)
			}
			continue
		}

		// Multi-char operator aliases (&&, ||, etc.) are identifier-shaped
		// only via their word aliases (and/or/not/eq/...), already handled
		// above; literal operator glyphs never participate in rewriting.
		out.WriteByte(ch)
		bump(ch)
		i++
	}

	return out.String(), trace, nil
}

// ValidateRewrites fails with ALI001 when two rewrites collide on the same
// span (the only ambiguity the character-scanning normalizer can introduce,
// since it never rewrites inside strings/comments and only ever replaces a
// whole identifier-shaped word with another whole word).
func ValidateRewrites(trace []Rewrite) *diagnostics.Error {
	seen := map[token.Span]Rewrite{}
	for _, r := range trace {
		if prev, ok := seen[r.Span]; ok && prev.To != r.To {
			return diagnostics.New("ALI001", r.Span, "ambiguous alias rewrite: '"+prev.To+"' vs '"+r.To+"' at the same position")
		}
		seen[r.Span] = r
	}
	return nil
}
