package conflict

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphi011/gflow/internal/vcs"
	"github.com/raphi011/gflow/internal/vcs/vcstest"
)

func newGateway() *vcstest.Gateway {
	gw := vcstest.New()
	gw.SetBase("feature", "main", "base123")
	return gw
}

func TestPredict_NoChanges(t *testing.T) {
	t.Parallel()
	gw := newGateway()

	p, err := NewPredictor(gw).Predict(context.Background(), "feature", "main")
	require.NoError(t, err)

	assert.Equal(t, "base123", p.Base)
	assert.False(t, p.HasConflicts)
	assert.Empty(t, p.Files)
	assert.False(t, gw.Mutated())
}

func TestPredict_Overlap(t *testing.T) {
	t.Parallel()
	gw := newGateway()
	ours := vcs.Range{From: "base123", To: "feature"}
	theirs := vcs.Range{From: "base123", To: "main"}
	gw.AddChange(ours, vcs.Modified, "src/z.go")
	gw.AddChange(ours, vcs.Modified, "src/a.go")
	gw.AddChange(ours, vcs.Added, "only-ours.txt")
	gw.AddChange(theirs, vcs.Modified, "src/a.go")
	gw.AddChange(theirs, vcs.Modified, "src/z.go")
	gw.AddChange(theirs, vcs.Modified, "only-theirs.txt")
	gw.Conflicting = map[[2]string]bool{{"main", "feature"}: true}

	p, err := NewPredictor(gw).Predict(context.Background(), "feature", "main")
	require.NoError(t, err)

	assert.True(t, p.HasConflicts)
	assert.Equal(t, []string{"src/a.go", "src/z.go"}, p.Files)
}

func TestPredict_SimulatesTargetThenSource(t *testing.T) {
	t.Parallel()
	gw := newGateway()

	_, err := NewPredictor(gw).Predict(context.Background(), "feature", "main")
	require.NoError(t, err)

	var sim vcstest.Call
	for _, c := range gw.Reads {
		if c.Method == "SimulateMerge" {
			sim = c
		}
	}
	assert.Equal(t, []string{"base123", "main", "feature"}, sim.Args)
}

func TestPredict_NoCommonAncestor(t *testing.T) {
	t.Parallel()
	gw := vcstest.New()

	p, err := NewPredictor(gw).Predict(context.Background(), "island", "main")
	assert.ErrorIs(t, err, vcs.ErrNoCommonAncestor)
	assert.Nil(t, p)
	assert.False(t, gw.Called("SimulateMerge"))
}

func TestPredict_SimulationFailureKeepsFiles(t *testing.T) {
	t.Parallel()
	boom := errors.New("merge-tree exploded")
	gw := newGateway()
	gw.AddChange(vcs.Range{From: "base123", To: "feature"}, vcs.Modified, "shared.go")
	gw.AddChange(vcs.Range{From: "base123", To: "main"}, vcs.Modified, "shared.go")
	gw.Fail("SimulateMerge", boom)

	p, err := NewPredictor(gw).Predict(context.Background(), "feature", "main")
	assert.Nil(t, p)
	assert.ErrorIs(t, err, boom)

	var simErr *SimulationError
	require.ErrorAs(t, err, &simErr)
	assert.Equal(t, []string{"shared.go"}, simErr.Files)
	assert.Equal(t, "base123", simErr.Base)
}

func TestPredict_DiffErrorAborts(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	gw := newGateway()
	gw.Fail("DiffNames", boom)

	_, err := NewPredictor(gw).Predict(context.Background(), "feature", "main")
	assert.ErrorIs(t, err, boom)

	var simErr *SimulationError
	assert.False(t, errors.As(err, &simErr))
}
