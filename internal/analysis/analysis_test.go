package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphi011/gflow/internal/compat"
	"github.com/raphi011/gflow/internal/config"
	"github.com/raphi011/gflow/internal/conflict"
	"github.com/raphi011/gflow/internal/divergence"
	"github.com/raphi011/gflow/internal/vcs"
	"github.com/raphi011/gflow/internal/vcs/vcstest"
)

var all = config.ProfileCapabilities(config.ProfileUltimate)

func newGateway() *vcstest.Gateway {
	gw := vcstest.New()
	gw.SetBase("feature", "main", "base")
	return gw
}

func TestAnalyze_Clean(t *testing.T) {
	t.Parallel()
	gw := newGateway()

	report, err := New(gw, nil, all).Analyze(context.Background(), "feature", "main")
	require.NoError(t, err)

	require.NotNil(t, report.Compat)
	require.NotNil(t, report.Conflicts)
	require.NotNil(t, report.Divergence)
	assert.Equal(t, VerdictClean, report.Verdict())
	assert.False(t, gw.Mutated())
}

func TestAnalyze_Capabilities(t *testing.T) {
	t.Parallel()
	gw := newGateway()
	caps := config.ProfileCapabilities(config.ProfileWorking)

	report, err := New(gw, nil, caps).Analyze(context.Background(), "feature", "main")
	require.NoError(t, err)

	assert.NotNil(t, report.Compat)
	assert.NotNil(t, report.Conflicts)
	assert.Nil(t, report.Divergence)
	assert.False(t, gw.Called("AheadBehind"))
}

func TestAnalyze_BasicRunsNothing(t *testing.T) {
	t.Parallel()
	gw := newGateway()

	report, err := New(gw, nil, config.Capabilities{}).Analyze(context.Background(), "feature", "main")
	require.NoError(t, err)

	assert.Equal(t, VerdictClean, report.Verdict())
	assert.Empty(t, gw.Reads)
}

func TestAnalyze_UnrelatedHistoriesAbort(t *testing.T) {
	t.Parallel()
	gw := vcstest.New()

	report, err := New(gw, nil, all).Analyze(context.Background(), "island", "main")
	assert.ErrorIs(t, err, vcs.ErrNoCommonAncestor)
	assert.Nil(t, report)
	assert.False(t, gw.Called("AheadBehind"), "analysis stops at the first error")
}

func TestAnalyze_Verdicts(t *testing.T) {
	t.Parallel()
	gw := newGateway()
	gw.AddChange(vcs.Range{From: "main", To: "feature", MergeBase: true}, vcs.Deleted, "main.go")

	report, err := New(gw, nil, all).Analyze(context.Background(), "feature", "main")
	require.NoError(t, err)
	assert.Equal(t, VerdictCaution, report.Verdict())

	gw.Conflicting = map[[2]string]bool{{"main", "feature"}: true}
	report, err = New(gw, nil, all).Analyze(context.Background(), "feature", "main")
	require.NoError(t, err)
	assert.Equal(t, VerdictConflicts, report.Verdict())

	gw.SetCounts("feature", "main", 80, 2)
	report, err = New(gw, nil, all).Analyze(context.Background(), "feature", "main")
	require.NoError(t, err)
	assert.Equal(t, VerdictReplaceSuggested, report.Verdict())
}

func TestVerdict_Precedence(t *testing.T) {
	t.Parallel()
	issues := &compat.Report{Signals: []compat.Signal{{Kind: compat.KindConfigChange}}}
	conflicts := &conflict.Prediction{HasConflicts: true}
	replace := &divergence.Report{SuggestReplace: true}

	tests := []struct {
		name   string
		report Report
		want   Verdict
	}{
		{"empty", Report{}, VerdictClean},
		{"compat issues", Report{Compat: issues}, VerdictCaution},
		{"conflicts over caution", Report{Compat: issues, Conflicts: conflicts}, VerdictConflicts},
		{"replace over conflicts", Report{Compat: issues, Conflicts: conflicts, Divergence: replace}, VerdictReplaceSuggested},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.report.Verdict())
		})
	}
}
