// Package tests runs golden-fixture functional tests: every *.icl file in
// testdata/ is compiled in-process against each target for which a sibling
// <name>.<target>.want file exists, and the emitted code must match exactly.
//
// The teacher's own functional_test.go built a funxy-test-binary and ran it
// as a subprocess over .lang/.want pairs — that shape doesn't fit here since
// ICL compiles to other languages' source rather than to an executable of
// its own (ICL runtime execution is out of scope), so this drives
// internal/compiler directly instead of shelling out to a built binary.
package tests

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funvibe/icl/internal/compiler"
)

func TestFunctional(t *testing.T) {
	sources, err := filepath.Glob("testdata/*.icl")
	if err != nil {
		t.Fatalf("glob testdata: %v", err)
	}
	if len(sources) == 0 {
		t.Skip("no .icl fixtures in testdata/")
	}

	wants, err := filepath.Glob("testdata/*.want")
	if err != nil {
		t.Fatalf("glob testdata wants: %v", err)
	}

	p := compiler.New()
	for _, srcPath := range sources {
		name := strings.TrimSuffix(filepath.Base(srcPath), ".icl")
		source, err := os.ReadFile(srcPath)
		if err != nil {
			t.Fatalf("read %s: %v", srcPath, err)
		}

		for _, wantPath := range wants {
			base := filepath.Base(wantPath)
			if !strings.HasPrefix(base, name+".") {
				continue
			}
			target := strings.TrimSuffix(strings.TrimPrefix(base, name+"."), ".want")

			t.Run(name+"/"+target, func(t *testing.T) {
				wantBytes, err := os.ReadFile(wantPath)
				if err != nil {
					t.Fatalf("read %s: %v", wantPath, err)
				}
				want := strings.TrimSpace(string(wantBytes))

				results := p.Compile(string(source), []string{target}, compiler.Options{Filename: srcPath})
				res := results[target]
				if res.Diagnostics.HasErrors() {
					t.Fatalf("compile %s -> %s: %s", srcPath, target, res.Diagnostics.ToDiagnostics()[0].Message)
				}
				got := strings.TrimSpace(res.Bundle.Code())
				if got != want {
					t.Errorf("output mismatch for %s -> %s:\n--- want ---\n%s\n--- got ---\n%s", srcPath, target, want, got)
				}
			})
		}
	}
}
