package pack

import (
	"context"
	"runtime"
	"sort"
	"strings"

	"github.com/funvibe/icl/internal/manifest"
	"golang.org/x/sync/errgroup"
)

// ContractCase is one canonical cross-target fixture, grounded on
// original_source/icl/contract_tests.py's CONTRACT_CASES table.
type ContractCase struct {
	Name              string
	Source            string
	Features          []string
	RequiredForStable bool
}

// ContractCases is the fixed fixture set every `contract test` run exercises
// against the selected targets.
var ContractCases = []ContractCase{
	{Name: "assignment_arithmetic", Source: "x := 1 + 2;", Features: []string{"assignment", "arithmetic", "literal"}, RequiredForStable: true},
	{Name: "reference_reuse", Source: "x := 1; y := x + 2;", Features: []string{"assignment", "reference", "arithmetic", "literal"}, RequiredForStable: true},
	{Name: "function_call_return", Source: "fn add(a,b){ret a+b;} out := add(1,2);", Features: []string{"function", "return", "call", "assignment", "arithmetic", "literal", "reference"}, RequiredForStable: true},
	{Name: "if_else_comparison", Source: "x := 2; if x>1?{y:=x;}:{y:=0;};", Features: []string{"if", "comparison", "assignment", "literal", "reference"}, RequiredForStable: true},
	{Name: "loop_update", Source: "sum := 0; loop i in 0..3{sum:=sum+i;};", Features: []string{"loop", "assignment", "arithmetic", "literal", "reference"}, RequiredForStable: true},
	{Name: "unary_logic", Source: "ok := true&&!false;", Features: []string{"assignment", "logic", "unary", "literal"}, RequiredForStable: true},
	{Name: "expression_stmt_call", Source: "print(1);", Features: []string{"expression_stmt", "call", "literal"}, RequiredForStable: true},
	{Name: "typed_annotation", Source: "v:Num := 1;", Features: []string{"typed_annotation", "assignment", "literal"}, RequiredForStable: true},
	{Name: "at_call", Source: "fn inc(n){ret n+1;} z := @inc(1);", Features: []string{"at_call", "call", "function", "return", "assignment", "arithmetic", "literal", "reference"}, RequiredForStable: true},
}

// AllFeatures is every feature name exercised by ContractCases, sorted.
func AllFeatures() []string {
	set := map[string]bool{}
	for _, c := range ContractCases {
		for _, f := range c.Features {
			set[f] = true
		}
	}
	return sortedKeys(set)
}

// RequiredStableFeatures is every feature a stable target must support,
// derived from the cases marked RequiredForStable.
func RequiredStableFeatures() []string {
	set := map[string]bool{}
	for _, c := range ContractCases {
		if !c.RequiredForStable {
			continue
		}
		for _, f := range c.Features {
			set[f] = true
		}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// CaseResult is one case/target compilation outcome.
type CaseResult struct {
	Case         string
	Target       string
	OK           bool
	ErrorCode    string
	ErrorMessage string
}

// FeatureStatus classifies one feature's behavior on one target, grounded
// on contract_tests.py's per-feature status enum.
type FeatureStatus struct {
	DeclaredSupported bool
	Status            string
	Cases             []string
	PassCount         int
	LOW001Count       int
	OtherFailCount    int
}

// TargetSummary rolls up one target's contract run.
type TargetSummary struct {
	Passed          int
	Total           int
	Stability       string
	AllCasesOK      bool
	StableFeatureOK bool
	TargetOK        bool
}

// TargetFeatureMatrix is one target's full per-feature contradiction report.
type TargetFeatureMatrix struct {
	Target          string
	Stability       string
	Contradictions  []string
	Features        map[string]FeatureStatus
}

// SuiteResult is the full `contract test` report.
type SuiteResult struct {
	OK                     bool
	Targets                []string
	RequiredStableFeatures []string
	Results                []CaseResult
	Summary                map[string]TargetSummary
	FeatureMatrix          map[string]TargetFeatureMatrix
}

// CompileFunc compiles source against target and reports whether it
// succeeded, abstracting internal/compiler.Pipeline.Compile so this package
// never imports the compiler package (which already imports pack).
type CompileFunc func(source, target string) (ok bool, errorCode, errorMessage string)

// RunContractSuite runs every ContractCases fixture against every selected
// target, fanning the case×target matrix out across an errgroup bounded by
// GOMAXPROCS — each pair is an independent, side-effect-free compilation
// (spec.md §5's per-compilation isolation guarantee; see SPEC_FULL.md §5's
// addition for orchestration above that guarantee), then classifies every
// feature's status the way original_source/icl/contract_tests.py does.
func RunContractSuite(ctx context.Context, r *Registry, targets []string, compile CompileFunc) (*SuiteResult, error) {
	if len(targets) == 0 {
		st := manifest.Stable
		targets = r.Targets(&st)
	}
	sort.Strings(targets)

	type pair struct {
		caseIdx int
		target  string
	}
	var pairs []pair
	for _, t := range targets {
		for ci := range ContractCases {
			pairs = append(pairs, pair{caseIdx: ci, target: t})
		}
	}

	results := make([]CaseResult, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, pr := range pairs {
		i, pr := i, pr
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			c := ContractCases[pr.caseIdx]
			ok, code, msg := compile(c.Source, pr.target)
			results[i] = CaseResult{Case: c.Name, Target: pr.target, OK: ok, ErrorCode: code, ErrorMessage: msg}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summarize(r, targets, results), nil
}

func summarize(r *Registry, targets []string, results []CaseResult) *SuiteResult {
	allFeatures := AllFeatures()
	requiredStable := RequiredStableFeatures()

	byTarget := map[string][]CaseResult{}
	for _, res := range results {
		byTarget[res.Target] = append(byTarget[res.Target], res)
	}

	summary := map[string]TargetSummary{}
	matrix := map[string]TargetFeatureMatrix{}
	allOK := true

	for _, target := range targets {
		p, err := r.Get(target)
		if err != nil {
			continue
		}
		m := p.Manifest()
		targetResults := byTarget[target]
		byCase := map[string]CaseResult{}
		for _, res := range targetResults {
			byCase[res.Case] = res
		}

		passed := 0
		for _, res := range targetResults {
			if res.OK {
				passed++
			}
		}

		features := map[string]FeatureStatus{}
		var contradictions []string

		for _, feature := range allFeatures {
			declared := m.Supports(feature)
			var caseNames []string
			for _, c := range ContractCases {
				if containsStr(c.Features, feature) {
					caseNames = append(caseNames, c.Name)
				}
			}

			var relevant []CaseResult
			if declared {
				for _, c := range ContractCases {
					if !containsStr(c.Features, feature) {
						continue
					}
					if allFeaturesSupported(m, c.Features) {
						relevant = append(relevant, byCase[c.Name])
					}
				}
			} else {
				for _, name := range caseNames {
					relevant = append(relevant, byCase[name])
				}
			}

			passCount, low001, other := 0, 0, 0
			for _, res := range relevant {
				switch {
				case res.OK:
					passCount++
				case res.ErrorCode == "LOW001":
					low001++
				default:
					other++
				}
			}

			var status string
			switch {
			case len(relevant) == 0:
				status = "unexercised"
			case declared && passCount == len(relevant):
				status = "supported"
			case declared && low001 > 0:
				status = "declared_supported_but_rejected"
			case declared:
				status = "declared_supported_but_failed"
			case !declared && low001 == len(relevant):
				status = "unsupported_enforced"
			case !declared && passCount > 0:
				status = "declared_unsupported_but_passed"
			default:
				status = "declared_unsupported_but_failed_nonstruct"
			}
			if strings.Contains(status, "but") {
				contradictions = append(contradictions, feature+":"+status)
			}

			features[feature] = FeatureStatus{
				DeclaredSupported: declared, Status: status, Cases: caseNames,
				PassCount: passCount, LOW001Count: low001, OtherFailCount: other,
			}
		}

		allCasesOK := len(targetResults) > 0
		for _, res := range targetResults {
			if !res.OK {
				allCasesOK = false
			}
		}
		stableFeatureOK := true
		for _, f := range requiredStable {
			if features[f].Status != "supported" {
				stableFeatureOK = false
			}
		}

		isStable := string(m.Stability) == "stable"
		var targetOK bool
		if isStable {
			targetOK = allCasesOK && stableFeatureOK && len(contradictions) == 0
		} else {
			targetOK = len(contradictions) == 0
		}
		if !targetOK {
			allOK = false
		}

		summary[target] = TargetSummary{
			Passed: passed, Total: len(targetResults), Stability: string(m.Stability),
			AllCasesOK: allCasesOK, StableFeatureOK: stableFeatureOK, TargetOK: targetOK,
		}
		matrix[target] = TargetFeatureMatrix{
			Target: target, Stability: string(m.Stability),
			Contradictions: contradictions, Features: features,
		}
	}

	return &SuiteResult{
		OK: allOK, Targets: targets, RequiredStableFeatures: requiredStable,
		Results: results, Summary: summary, FeatureMatrix: matrix,
	}
}

func containsStr(items []string, v string) bool {
	for _, it := range items {
		if it == v {
			return true
		}
	}
	return false
}

func allFeaturesSupported(m *manifest.PackManifest, features []string) bool {
	for _, f := range features {
		if !m.Supports(f) {
			return false
		}
	}
	return true
}
