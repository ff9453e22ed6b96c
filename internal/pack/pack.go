// Package pack implements the language-pack contract and registry
// (spec.md §4.8, §3), grounded on original_source/icl/language_pack.go.
package pack

import (
	"sort"

	"github.com/funvibe/icl/internal/diagnostics"
	"github.com/funvibe/icl/internal/lowering"
	"github.com/funvibe/icl/internal/manifest"
)

// EmissionContext is passed into a pack's Emit/Scaffold calls.
type EmissionContext struct {
	Target   string
	Debug    bool
	Metadata map[string]any
}

// OutputBundle is the scaffolded output payload for a target: one primary
// file plus zero or more additional files (e.g. the web target's
// index.html/styles.css/app.js split).
type OutputBundle struct {
	PrimaryPath string
	Files       map[string]string
}

// Code returns the emitted text of the bundle's primary file.
func (b *OutputBundle) Code() string { return b.Files[b.PrimaryPath] }

// LanguagePack is the emit+scaffold contract every target implements
// (spec.md §4.8). Packs never read source text, tokens, or AST — only
// lowered IR, enforced by Emit's signature taking *lowering.Module.
type LanguagePack interface {
	Manifest() *manifest.PackManifest
	Emit(lowered *lowering.Module, ctx *EmissionContext) (string, error)
	Scaffold(emitted string, ctx *EmissionContext) (*OutputBundle, error)
}

// BasePack gives packs a default single-file Scaffold implementation,
// mirroring original_source/icl/language_pack.go's LanguagePack.scaffold
// default. Embed it and override Scaffold only for multi-file targets.
type BasePack struct {
	M *manifest.PackManifest
}

func (p BasePack) Manifest() *manifest.PackManifest { return p.M }

func (p BasePack) Scaffold(emitted string, ctx *EmissionContext) (*OutputBundle, error) {
	filename := p.M.Scaffolding.PrimaryFile
	if filename == "" {
		filename = "main." + p.M.FileExtension
	}
	return &OutputBundle{PrimaryPath: filename, Files: map[string]string{filename: emitted}}, nil
}

// ValidationResult reports whether a pack's manifest satisfies spec.md §3's
// required-field contract.
type ValidationResult struct {
	Target string
	OK     bool
	Errors []string
}

// Registry registers language packs and resolves target aliases to their
// canonical pack, grounded on original_source/icl/language_pack.go's
// PackRegistry.
type Registry struct {
	packs        map[string]LanguagePack
	aliasToTarget map[string]string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{packs: make(map[string]LanguagePack), aliasToTarget: make(map[string]string)}
}

// Register validates m's manifest and adds pack under its canonical target
// and every declared alias.
func (r *Registry) Register(p LanguagePack) *diagnostics.Error {
	m := p.Manifest()
	if errs := validateManifest(m); len(errs) > 0 {
		return diagnostics.NewNoSpan("PACK002",
			"invalid language pack manifest for target '"+m.Target+"'", joinErrors(errs))
	}
	r.packs[m.Target] = p
	r.aliasToTarget[m.Target] = m.Target
	for _, alias := range m.Aliases {
		r.aliasToTarget[alias] = m.Target
	}
	return nil
}

// HasTarget reports whether target (canonical id or alias) resolves to a
// registered pack.
func (r *Registry) HasTarget(target string) bool {
	_, ok := r.aliasToTarget[target]
	return ok
}

// Get resolves target (canonical id or alias) to its registered pack.
func (r *Registry) Get(target string) (LanguagePack, *diagnostics.Error) {
	canonical, ok := r.aliasToTarget[target]
	if !ok {
		return nil, diagnostics.NewNoSpan("PACK001",
			"unknown target language pack '"+target+"'",
			"available packs: "+joinErrors(r.Targets(nil)))
	}
	return r.packs[canonical], nil
}

// Targets returns every registered canonical target id, optionally filtered
// by stability, sorted for deterministic CLI listing.
func (r *Registry) Targets(stability *manifest.Stability) []string {
	ms := r.Manifests(stability)
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Target
	}
	return out
}

// Manifests returns every registered pack's manifest, optionally filtered
// by stability, sorted by target for determinism.
func (r *Registry) Manifests(stability *manifest.Stability) []*manifest.PackManifest {
	var out []*manifest.PackManifest
	for _, p := range r.packs {
		m := p.Manifest()
		if stability != nil && m.Stability != *stability {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Target < out[j].Target })
	return out
}

// Validate re-checks registered manifests (or just target, if given)
// against the manifest contract.
func (r *Registry) Validate(target string) []ValidationResult {
	var ms []*manifest.PackManifest
	if target != "" {
		p, err := r.Get(target)
		if err != nil {
			return []ValidationResult{{Target: target, OK: false, Errors: []string{err.Error()}}}
		}
		ms = []*manifest.PackManifest{p.Manifest()}
	} else {
		ms = r.Manifests(nil)
	}

	results := make([]ValidationResult, 0, len(ms))
	for _, m := range ms {
		errs := validateManifest(m)
		results = append(results, ValidationResult{Target: m.Target, OK: len(errs) == 0, Errors: errs})
	}
	return results
}

var validStabilities = map[manifest.Stability]bool{
	manifest.Experimental: true, manifest.Beta: true, manifest.Stable: true,
}

func validateManifest(m *manifest.PackManifest) []string {
	var errs []string
	if m.PackID == "" {
		errs = append(errs, "pack_id is required")
	}
	if m.Version == "" {
		errs = append(errs, "version is required")
	}
	if m.Target == "" {
		errs = append(errs, "target is required")
	}
	if !validStabilities[m.Stability] {
		errs = append(errs, "stability must be one of: experimental, beta, stable")
	}
	if m.FileExtension == "" {
		errs = append(errs, "file_extension is required")
	}
	if m.BlockModel == "" {
		errs = append(errs, "block_model is required")
	}
	if m.StatementTermination == "" {
		errs = append(errs, "statement_termination is required")
	}
	if m.TypeStrategy.Strategy == "" {
		errs = append(errs, "type_strategy is required")
	}
	if m.FeatureCoverage == nil {
		errs = append(errs, "feature_coverage must be a mapping")
	}
	return errs
}

func joinErrors(items []string) string {
	out := ""
	for i, s := range items {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}
