package score

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreAllOneRecordPerInput(t *testing.T) {
	reg := NewRegistry()
	reg.Register(staticEval("a", 0.5, 2))
	r := NewRunner(reg, time.Second)

	artifacts := []*Artifact{
		{Name: "one", Category: CategoryModel},
		{Name: "two", Category: CategoryModel, PrepFailed: true},
		{Name: "three", Category: CategoryModel},
		nil,
	}

	reports := r.ScoreAll(context.Background(), artifacts)
	require.Len(t, reports, len(artifacts))

	assert.Equal(t, "one", reports[0].Name)
	assert.Equal(t, 0.5, reports[0].NetScore)

	// the failed artifact still yields a record with net_score 0.0
	assert.Equal(t, "two", reports[1].Name)
	assert.Equal(t, 0.0, reports[1].NetScore)
	assert.Equal(t, int64(0), reports[1].NetScoreLatency)

	assert.Equal(t, 0.5, reports[2].NetScore)
	require.NotNil(t, reports[3])
	assert.Equal(t, 0.0, reports[3].NetScore)
}

func TestScoreAllEmpty(t *testing.T) {
	r := NewRunner(NewRegistry(), time.Second)
	reports := r.ScoreAll(context.Background(), nil)
	assert.Empty(t, reports)
}

func TestScoreAllOrderPreserved(t *testing.T) {
	reg := NewRegistry()
	reg.Register(staticEval("a", 1.0, 1))
	r := NewRunner(reg, time.Second)

	names := []string{"m0", "m1", "m2", "m3", "m4", "m5", "m6", "m7", "m8", "m9"}
	artifacts := make([]*Artifact, len(names))
	for i, n := range names {
		artifacts[i] = &Artifact{Name: n}
	}

	reports := r.ScoreAll(context.Background(), artifacts)
	require.Len(t, reports, len(names))
	for i, n := range names {
		assert.Equal(t, n, reports[i].Name)
	}
}

func TestBatchWorkerLimit(t *testing.T) {
	n := batchWorkerLimit()
	assert.GreaterOrEqual(t, n, 1)
	assert.LessOrEqual(t, n, batchWorkerMax)
}
