package pack_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/funvibe/icl/internal/compiler"
	"github.com/funvibe/icl/internal/pack"
	"github.com/stretchr/testify/require"
)

func TestContractHistoryRecordsAndReadsLatestRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "contract_history.sqlite")
	h, err := pack.OpenContractHistory(dbPath)
	require.NoError(t, err)
	defer h.Close()

	p := compiler.New()
	result, err := pack.RunContractSuite(context.Background(), p.Registry, nil, compileFuncFor(p))
	require.NoError(t, err)

	id, err := h.Record(1000, result)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	latest, err := h.Latest()
	require.NoError(t, err)
	require.Equal(t, id, latest.ID)
	require.Equal(t, result.OK, latest.OK)
	require.ElementsMatch(t, result.Targets, latest.Targets)
}

func TestContractHistoryDetectsStableRegression(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "contract_history.sqlite")
	h, err := pack.OpenContractHistory(dbPath)
	require.NoError(t, err)
	defer h.Close()

	passing := &pack.SuiteResult{
		OK:      true,
		Targets: []string{"python"},
		Summary: map[string]pack.TargetSummary{
			"python": {Stability: "stable", TargetOK: true},
		},
	}
	_, err = h.Record(1000, passing)
	require.NoError(t, err)

	failing := &pack.SuiteResult{
		OK:      false,
		Targets: []string{"python"},
		Summary: map[string]pack.TargetSummary{
			"python": {Stability: "stable", TargetOK: false},
		},
	}
	regressions, err := h.StableRegressions(failing)
	require.NoError(t, err)
	require.Equal(t, []string{"python"}, regressions)
}
