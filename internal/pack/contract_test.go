package pack_test

import (
	"context"
	"testing"

	"github.com/funvibe/icl/internal/compiler"
	"github.com/funvibe/icl/internal/pack"
	"github.com/stretchr/testify/require"
)

func compileFuncFor(p *compiler.Pipeline) pack.CompileFunc {
	return func(source, target string) (bool, string, string) {
		results := p.Compile(source, []string{target}, compiler.Options{Filename: "<contract>"})
		res := results[target]
		if res.Diagnostics.HasErrors() {
			return false, res.Diagnostics[0].Code, res.Diagnostics[0].Message
		}
		return true, "", ""
	}
}

func TestRunContractSuiteAllStableTargetsPass(t *testing.T) {
	p := compiler.New()
	result, err := pack.RunContractSuite(context.Background(), p.Registry, nil, compileFuncFor(p))
	require.NoError(t, err)
	require.True(t, result.OK)
	for _, target := range result.Targets {
		require.True(t, result.Summary[target].TargetOK, "target %s should pass its contract", target)
	}
}

func TestRunContractSuiteExperimentalTargetDeclaresGapsWithoutContradiction(t *testing.T) {
	p := compiler.New()
	result, err := pack.RunContractSuite(context.Background(), p.Registry, []string{"typescript"}, compileFuncFor(p))
	require.NoError(t, err)
	matrix := result.FeatureMatrix["typescript"]
	require.Empty(t, matrix.Contradictions)
	require.Equal(t, "unsupported_enforced", matrix.Features["typed_annotation"].Status)
}

func TestAllFeaturesAndRequiredStableFeaturesAreSorted(t *testing.T) {
	all := pack.AllFeatures()
	for i := 1; i < len(all); i++ {
		require.Less(t, all[i-1], all[i])
	}
	require.NotEmpty(t, pack.RequiredStableFeatures())
}
