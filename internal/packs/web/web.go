// Package web implements the required `web` language pack (spec.md §4.8):
// a browser target that scaffolds index.html + styles.css + app.js,
// reusing the javascript pack's emitter for app.js's logic body. Grounded
// on original_source/icl/expanders/js_backend.go plus spec.md's explicit
// "web target produces index.html, styles.css, app.js" example.
package web

import (
	"strings"

	"github.com/funvibe/icl/internal/lowering"
	"github.com/funvibe/icl/internal/manifest"
	"github.com/funvibe/icl/internal/pack"
	"github.com/funvibe/icl/internal/packs/javascript"
)

// Pack emits a browser-ready bundle from a lowered ICL module.
type Pack struct {
	pack.BasePack
	js *javascript.Pack
}

// New builds the web language pack with its manifest.
func New() *Pack {
	return &Pack{
		js: javascript.New(),
		BasePack: pack.BasePack{M: &manifest.PackManifest{
			PackID: "icl-web", Version: "1.0.0", Target: "web",
			Stability: manifest.Beta, FileExtension: "html",
			BlockModel: manifest.BlockBraces, StatementTermination: manifest.TermSemicolon,
			TypeStrategy: manifest.TypeStrategy{Strategy: "dynamic", Notes: "delegates expression/statement typing to the javascript pack"},
			RuntimeHelpers: []string{"print"},
			Scaffolding: manifest.Scaffolding{
				PrimaryFile:     "index.html",
				AdditionalFiles: []string{"styles.css", "app.js"},
				Entrypoint:      "index.html",
			},
			FeatureCoverage: map[string]bool{
				"assignment": true, "typed_annotation": true, "expression_stmt": true,
				"if": true, "loop": true, "function": true, "return": true,
				"literal": true, "reference": true, "unary": true,
				"arithmetic": true, "comparison": true, "logic": true,
				"call": true, "at_call": true, "lambda": true,
			},
		}},
	}
}

// Emit renders app.js's logic body; Scaffold wraps it into the full bundle.
func (p *Pack) Emit(mod *lowering.Module, ctx *pack.EmissionContext) (string, error) {
	return p.js.Emit(mod, ctx)
}

// Scaffold produces the three-file browser bundle: index.html, styles.css,
// and app.js (the `print` runtime helper is injected as a DOM console
// fallback, since the RequiredHelpers discovery in spec.md §4.7 step 5
// names it for this target).
func (p *Pack) Scaffold(appJS string, ctx *pack.EmissionContext) (*pack.OutputBundle, error) {
	html := strings.Join([]string{
		`<!DOCTYPE html>`,
		`<html lang="en">`,
		`<head>`,
		`  <meta charset="utf-8">`,
		`  <title>ICL program</title>`,
		`  <link rel="stylesheet" href="styles.css">`,
		`</head>`,
		`<body>`,
		`  <pre id="output"></pre>`,
		`  <script src="app.js"></script>`,
		`</body>`,
		`</html>`,
	}, "\n") + "\n"

	css := strings.Join([]string{
		`body { font-family: monospace; margin: 2rem; }`,
		`#output { white-space: pre-wrap; }`,
	}, "\n") + "\n"

	js := strings.Join([]string{
		`function print(value) {`,
		`  const out = document.getElementById("output");`,
		`  out.textContent += String(value) + "\n";`,
		`}`,
		``,
		appJS,
	}, "\n")

	return &pack.OutputBundle{
		PrimaryPath: "index.html",
		Files: map[string]string{
			"index.html": html,
			"styles.css": css,
			"app.js":     js,
		},
	}, nil
}
