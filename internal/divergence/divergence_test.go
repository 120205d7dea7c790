package divergence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphi011/gflow/internal/vcs"
	"github.com/raphi011/gflow/internal/vcs/vcstest"
)

func TestRecommend(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		counts  Counts
		want    bool
		reasons int
	}{
		{"in sync", Counts{}, false, 0},
		{"total exactly at limit", Counts{Ahead: 50}, true, 1}, // ratio trigger only
		{"total over limit", Counts{Ahead: 51}, true, 2},
		{"behind 31 ahead 32", Counts{Ahead: 32, Behind: 31}, true, 2},
		{"behind 31 ahead 30", Counts{Ahead: 30, Behind: 31}, true, 1}, // total 61
		{"ratio needs more than 20 ahead", Counts{Ahead: 20, Behind: 1}, false, 0},
		{"ratio over 3", Counts{Ahead: 21, Behind: 5}, true, 1},
		{"ratio exactly 3", Counts{Ahead: 21, Behind: 7}, false, 0},
		{"structural exactly at limit", Counts{Added: 10, Deleted: 10}, false, 0},
		{"structural over limit", Counts{Added: 15, Deleted: 6}, true, 1},
		{"everything", Counts{Ahead: 100, Behind: 31, Added: 30}, true, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, reasons := Recommend(tt.counts)
			assert.Equal(t, tt.want, got)
			assert.Len(t, reasons, tt.reasons)
		})
	}
}

func TestRecommend_TotalBoundary(t *testing.T) {
	t.Parallel()
	// Ahead 50 / behind 0 trips the ratio trigger but not the total trigger.
	_, reasons := Recommend(Counts{Ahead: 50})
	for _, r := range reasons {
		assert.NotContains(t, r, "diverged by")
	}

	_, reasons = Recommend(Counts{Ahead: 51})
	require.NotEmpty(t, reasons)
	assert.Contains(t, reasons[0], "diverged by 51 commits")
}

func TestRecommend_BehindBoundary(t *testing.T) {
	t.Parallel()
	_, reasons := Recommend(Counts{Ahead: 32, Behind: 31})
	assert.Contains(t, reasons, "source is 31 commits behind and even further ahead (32)")

	_, reasons = Recommend(Counts{Ahead: 30, Behind: 31})
	assert.NotContains(t, reasons, "source is 31 commits behind and even further ahead (30)")
}

func TestRecommend_Deterministic(t *testing.T) {
	t.Parallel()
	c := Counts{Ahead: 70, Behind: 40, Added: 12, Deleted: 11}
	s1, r1 := Recommend(c)
	s2, r2 := Recommend(c)
	assert.Equal(t, s1, s2)
	assert.Equal(t, r1, r2)
}

func newGateway() *vcstest.Gateway {
	gw := vcstest.New()
	gw.SetCounts("feature", "main", 12, 3)
	r := vcs.Range{From: "main", To: "feature"}
	gw.AddChange(r, vcs.Added, "a.go")
	gw.AddChange(r, vcs.Added, "b.go")
	gw.AddChange(r, vcs.Deleted, "old.go")
	gw.AddChange(r, vcs.Modified, "c.go")
	return gw
}

func TestAnalyze(t *testing.T) {
	t.Parallel()
	gw := newGateway()

	report, err := NewAnalyzer(gw).Analyze(context.Background(), "feature", "main")
	require.NoError(t, err)

	assert.Equal(t, &Report{
		Source: "feature",
		Target: "main",
		Counts: Counts{Ahead: 12, Behind: 3, Added: 2, Deleted: 1},
	}, report)
	assert.False(t, gw.Mutated())
}

func TestAnalyze_Idempotent(t *testing.T) {
	t.Parallel()
	gw := newGateway()
	a := NewAnalyzer(gw)

	first, err := a.Analyze(context.Background(), "feature", "main")
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), "feature", "main")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnalyze_Error(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	for _, method := range []string{"AheadBehind", "DiffNames"} {
		t.Run(method, func(t *testing.T) {
			t.Parallel()
			gw := newGateway()
			gw.Fail(method, boom)

			report, err := NewAnalyzer(gw).Analyze(context.Background(), "feature", "main")
			assert.ErrorIs(t, err, boom)
			assert.Nil(t, report)
		})
	}
}
