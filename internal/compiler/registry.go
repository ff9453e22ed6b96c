package compiler

import (
	"github.com/funvibe/icl/internal/diagnostics"
	"github.com/funvibe/icl/internal/pack"
	"github.com/funvibe/icl/internal/packs/javascript"
	"github.com/funvibe/icl/internal/packs/pseudo"
	"github.com/funvibe/icl/internal/packs/python"
	"github.com/funvibe/icl/internal/packs/rust"
	"github.com/funvibe/icl/internal/packs/web"
)

// BuildRegistry assembles the process-wide pack registry (spec.md §5's "the
// pack registry is process-wide state with explicit register/unregister
// operations") with every built-in pack: the four required stable/beta
// targets plus the eleven supplemented experimental pseudo-targets.
func BuildRegistry() *pack.Registry {
	r := pack.New()
	must(r.Register(python.New()))
	must(r.Register(javascript.New()))
	must(r.Register(rust.New()))
	must(r.Register(web.New()))
	for _, err := range pseudo.RegisterAll(r) {
		must(err)
	}
	return r
}

func must(err *diagnostics.Error) {
	if err != nil {
		panic(err)
	}
}
