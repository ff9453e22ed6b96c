package pack

import "github.com/funvibe/icl/internal/diagnostics"

// Loader produces one or more packs to register, the Go-static analogue of
// original_source/icl/language_pack.go's `module[:symbol]` dynamic import
// convention. Go has no runtime module loading, so `--pack name` resolves
// against a compiled-in name→Loader table instead of an importable path;
// this is documented as a deliberate deviation in DESIGN.md.
type Loader func() []LanguagePack

// LoaderTable maps a `--pack`/`--plugin` CLI spec name to its Loader.
type LoaderTable map[string]Loader

// LoadSpec resolves spec against table and registers every pack it produces.
func LoadSpec(r *Registry, table LoaderTable, spec string) *diagnostics.Error {
	loader, ok := table[spec]
	if !ok {
		return diagnostics.NewNoSpan("PACK003",
			"unknown pack spec '"+spec+"'",
			"register a Loader for this name in the compiled-in LoaderTable")
	}
	for _, p := range loader() {
		if err := r.Register(p); err != nil {
			return err
		}
	}
	return nil
}

// LoadSpecs resolves every spec in specs, in order.
func LoadSpecs(r *Registry, table LoaderTable, specs []string) *diagnostics.Error {
	for _, spec := range specs {
		if err := LoadSpec(r, table, spec); err != nil {
			return err
		}
	}
	return nil
}
