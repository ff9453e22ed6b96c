// Command iclc is a thin demonstration CLI binding spec.md §6's command
// table (compile, check, explain, compress, diff, pack, contract) to
// internal/compiler's and internal/pack's package API — the teacher's own
// cmd/funxy is likewise a thin wrapper that defers all real work to
// pkg/cli/internal packages, never itself containing compiler logic.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/funvibe/icl/internal/alias"
	"github.com/funvibe/icl/internal/compiler"
	"github.com/funvibe/icl/internal/diagnostics"
	"github.com/funvibe/icl/internal/graph"
	"github.com/funvibe/icl/internal/manifest"
	"github.com/funvibe/icl/internal/pack"
)

// exit codes per spec.md §6.
const (
	exitOK          = 0
	exitCompileErr  = 1
	exitUsageErr    = 2
	exitInternalErr = 3
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		usage()
		return exitUsageErr
	}

	switch args[0] {
	case "compile":
		return cmdCompile(args[1:])
	case "check":
		return cmdCheck(args[1:])
	case "explain":
		return cmdExplain(args[1:])
	case "compress":
		return cmdCompress(args[1:])
	case "diff":
		return cmdDiff(args[1:])
	case "pack":
		return cmdPack(args[1:])
	case "contract":
		return cmdContract(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "iclc: unknown command %q\n", args[0])
		usage()
		return exitUsageErr
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: iclc <command> [flags] [source]

commands:
  compile --targets t1,t2 [source]   emit target source (or bundles)
  check [source]                     OK or aggregated diagnostics
  explain [--target t] [source]      JSON ast/ir/lowered/graph/source_map
  compress [source]                  canonical compact ICL serialization
  diff <before.json> <after.json>    structural graph diff
  pack list [--stability s]          registered pack manifests
  pack validate [--target t]         per-pack manifest validation
  contract test [--targets t1,t2] [--all]   per-feature per-target matrix

source is a file path, or literal ICL text if the path does not exist.`)
}

// readSource resolves spec.md §6's "path or literal source" duality: if arg
// names an existing file, its contents are used; otherwise arg itself is
// treated as inline ICL source text.
func readSource(arg string) (string, error) {
	if arg == "" {
		return "", fmt.Errorf("no source given")
	}
	if data, err := os.ReadFile(arg); err == nil {
		return string(data), nil
	}
	return arg, nil
}

// commonOptions registers the shared compile-time flags on fs and returns
// both the Options being filled in and the raw --alias-mode string; after
// fs.Parse, finishOptions converts that string into opts.AliasMode
// (flag.Value conversion doesn't fit alias.Mode's int-backed enum cleanly,
// so the string is converted once parsing has actually populated it).
func commonOptions(fs *flag.FlagSet) (*compiler.Options, *string) {
	opts := &compiler.Options{}
	aliasMode := new(string)
	fs.BoolVar(&opts.Natural, "natural", false, "enable natural-language alias preprocessing")
	fs.StringVar(aliasMode, "alias-mode", "core", "alias tier: core|extended")
	fs.BoolVar(&opts.Optimize, "optimize", false, "run the non-normative graph optimization pass")
	fs.BoolVar(&opts.Debug, "debug", false, "include debug metadata in emission")
	fs.StringVar(&opts.Filename, "filename", "<stdin>", "filename used in diagnostic spans")
	return opts, aliasMode
}

func finishOptions(opts *compiler.Options, aliasMode *string) {
	if *aliasMode == "extended" {
		opts.AliasMode = alias.Extended
	}
}

func printDiagnostics(errs diagnostics.List) {
	f := diagnostics.NewFormatter(os.Stderr)
	fmt.Fprintln(os.Stderr, f.FormatAll(errs.ToDiagnostics()))
}

func cmdCompile(args []string) int {
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	var targets string
	fs.StringVar(&targets, "targets", "", "comma-separated target ids")
	fs.StringVar(&targets, "target", "", "single target id")
	opts, aliasMode := commonOptions(fs)
	if err := fs.Parse(args); err != nil {
		return exitUsageErr
	}
	finishOptions(opts, aliasMode)
	if targets == "" {
		fmt.Fprintln(os.Stderr, "iclc compile: --target or --targets is required")
		return exitUsageErr
	}
	source, err := readSource(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsageErr
	}

	p := compiler.New()
	results := p.Compile(source, strings.Split(targets, ","), *opts)

	failed := false
	for _, t := range strings.Split(targets, ",") {
		res := results[t]
		if res.Diagnostics.HasErrors() {
			failed = true
			fmt.Fprintf(os.Stderr, "--- %s ---\n", t)
			printDiagnostics(res.Diagnostics)
			continue
		}
		fmt.Printf("--- %s: %s ---\n%s\n", t, res.Bundle.PrimaryPath, res.Bundle.Code())
	}
	if failed {
		return exitCompileErr
	}
	return exitOK
}

func cmdCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	opts, aliasMode := commonOptions(fs)
	if err := fs.Parse(args); err != nil {
		return exitUsageErr
	}
	finishOptions(opts, aliasMode)
	source, err := readSource(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsageErr
	}

	p := compiler.New()
	errs := p.Check(source, *opts)
	if errs.HasErrors() {
		printDiagnostics(errs)
		return exitCompileErr
	}
	fmt.Println("OK")
	return exitOK
}

func cmdExplain(args []string) int {
	fs := flag.NewFlagSet("explain", flag.ContinueOnError)
	var target string
	fs.StringVar(&target, "target", "", "optional target to include a lowered projection for")
	opts, aliasMode := commonOptions(fs)
	if err := fs.Parse(args); err != nil {
		return exitUsageErr
	}
	finishOptions(opts, aliasMode)
	source, err := readSource(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsageErr
	}

	p := compiler.New()
	out, errs := p.Explain(source, target, *opts)
	if errs != nil {
		printDiagnostics(errs)
		return exitCompileErr
	}
	data, jsonErr := json.MarshalIndent(out, "", "  ")
	if jsonErr != nil {
		fmt.Fprintln(os.Stderr, jsonErr)
		return exitInternalErr
	}
	fmt.Println(string(data))
	return exitOK
}

func cmdCompress(args []string) int {
	fs := flag.NewFlagSet("compress", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return exitUsageErr
	}
	source, err := readSource(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsageErr
	}

	out, errs := compiler.Compress(source, "<stdin>")
	if errs != nil {
		printDiagnostics(errs)
		return exitCompileErr
	}
	fmt.Print(out)
	return exitOK
}

func cmdDiff(args []string) int {
	fs := flag.NewFlagSet("diff", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return exitUsageErr
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "iclc diff: requires two serialized-graph JSON file paths")
		return exitUsageErr
	}

	before, err1 := loadGraphJSON(fs.Arg(0))
	after, err2 := loadGraphJSON(fs.Arg(1))
	if err1 != nil || err2 != nil {
		fmt.Fprintln(os.Stderr, "iclc diff: failed to load graph JSON")
		return exitUsageErr
	}

	d := compiler.Diff(before, after)
	data, jsonErr := json.MarshalIndent(d, "", "  ")
	if jsonErr != nil {
		fmt.Fprintln(os.Stderr, jsonErr)
		return exitInternalErr
	}
	fmt.Println(string(data))
	return exitOK
}

func loadGraphJSON(path string) (graph.GraphJSON, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return graph.GraphJSON{}, err
	}
	var g graph.GraphJSON
	if err := json.Unmarshal(data, &g); err != nil {
		return graph.GraphJSON{}, err
	}
	return g, nil
}

func cmdPack(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "iclc pack: expected a subcommand (list|validate)")
		return exitUsageErr
	}
	p := compiler.New()
	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("pack list", flag.ContinueOnError)
		var stability string
		fs.StringVar(&stability, "stability", "", "filter: experimental|beta|stable")
		if err := fs.Parse(args[1:]); err != nil {
			return exitUsageErr
		}
		var filter *manifest.Stability
		if stability != "" {
			s := manifest.Stability(stability)
			filter = &s
		}
		data, _ := json.MarshalIndent(p.Registry.Manifests(filter), "", "  ")
		fmt.Println(string(data))
		return exitOK

	case "validate":
		fs := flag.NewFlagSet("pack validate", flag.ContinueOnError)
		var target string
		fs.StringVar(&target, "target", "", "validate only this target")
		if err := fs.Parse(args[1:]); err != nil {
			return exitUsageErr
		}
		results := p.Registry.Validate(target)
		data, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(data))
		for _, r := range results {
			if !r.OK {
				return exitCompileErr
			}
		}
		return exitOK

	default:
		fmt.Fprintf(os.Stderr, "iclc pack: unknown subcommand %q\n", args[0])
		return exitUsageErr
	}
}

func cmdContract(args []string) int {
	if len(args) == 0 || args[0] != "test" {
		fmt.Fprintln(os.Stderr, "iclc contract: expected subcommand \"test\"")
		return exitUsageErr
	}
	fs := flag.NewFlagSet("contract test", flag.ContinueOnError)
	var targets string
	var all bool
	fs.StringVar(&targets, "targets", "", "comma-separated target ids (default: stable targets)")
	fs.BoolVar(&all, "all", false, "run every registered target, not just stable ones")
	if err := fs.Parse(args[1:]); err != nil {
		return exitUsageErr
	}

	p := compiler.New()
	var selected []string
	switch {
	case targets != "":
		selected = strings.Split(targets, ",")
	case all:
		selected = p.Registry.Targets(nil)
	}

	result, err := pack.RunContractSuite(context.Background(), p.Registry, selected, func(source, target string) (bool, string, string) {
		res := p.Compile(source, []string{target}, compiler.Options{Filename: "<contract>"})[target]
		if res.Diagnostics.HasErrors() {
			return false, res.Diagnostics[0].Code, res.Diagnostics[0].Message
		}
		return true, "", ""
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitInternalErr
	}

	data, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(data))
	if !result.OK {
		return exitCompileErr
	}
	return exitOK
}
