package score

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineageFixture wires a runner whose single evaluator returns a fixed
// own score per artifact id, plus a static parent graph.
func lineageFixture(t *testing.T, own map[string]float64, graph map[string][]string) (*LineageResolver, *int32) {
	t.Helper()

	var evals int32

	reg := NewRegistry()
	reg.Register(Evaluator{
		Name: "own",
		Fn: func(_ context.Context, a *Artifact) (Result, error) {
			atomic.AddInt32(&evals, 1)
			return Result{Score: own[a.Name], Latency: 1}, nil
		},
	})

	runner := NewRunner(reg, time.Second)

	parents := func(_ context.Context, id string) []string {
		return graph[id]
	}
	build := func(_ context.Context, id string) *Artifact {
		return &Artifact{Name: id, Category: CategoryModel}
	}

	return NewLineageResolver(runner, parents, build), &evals
}

func TestLineageNoAncestors(t *testing.T) {
	l, _ := lineageFixture(t, map[string]float64{"a": 0.7}, nil)
	s := l.Resolve(context.Background(), &Artifact{Name: "a"})
	assert.Equal(t, 0.7, s)
}

func TestLineageTwoAncestors(t *testing.T) {
	l, _ := lineageFixture(t,
		map[string]float64{"a": 0.2, "b": 0.5, "c": 1.0},
		map[string][]string{"a": {"b", "c"}},
	)
	s := l.Resolve(context.Background(), &Artifact{Name: "a"})
	assert.Equal(t, 0.475, s)
}

func TestLineageDeclaredParentsPreferred(t *testing.T) {
	// parents already present on the artifact are used without a
	// metadata lookup for the top node
	l, _ := lineageFixture(t,
		map[string]float64{"a": 0.2, "b": 0.5, "c": 1.0},
		map[string][]string{"a": {"ignored"}},
	)
	s := l.Resolve(context.Background(), &Artifact{Name: "a", Parents: []string{"b", "c"}})
	assert.Equal(t, 0.475, s)
}

func TestLineageCycleTerminates(t *testing.T) {
	l, evals := lineageFixture(t,
		map[string]float64{"a": 0.4, "b": 0.8},
		map[string][]string{"a": {"b"}, "b": {"a"}},
	)

	s := l.Resolve(context.Background(), &Artifact{Name: "a"})

	// a is visited, b contributes, the back edge to a is skipped:
	// (0.4 + 0.8) / 2
	assert.Equal(t, 0.6, s)
	assert.GreaterOrEqual(t, s, 0.0)
	assert.LessOrEqual(t, s, 1.0)
	// no more distinct evaluations than nodes in the graph
	require.LessOrEqual(t, atomic.LoadInt32(evals), int32(2))
}

func TestLineageSelfLoop(t *testing.T) {
	l, _ := lineageFixture(t,
		map[string]float64{"a": 0.6},
		map[string][]string{"a": {"a"}},
	)
	s := l.Resolve(context.Background(), &Artifact{Name: "a"})
	assert.Equal(t, 0.6, s)
}

func TestLineageSharedAncestorScoredOnce(t *testing.T) {
	// diamond: a -> b, c; b -> d; c -> d
	l, evals := lineageFixture(t,
		map[string]float64{"a": 0.4, "b": 0.6, "c": 0.8, "d": 1.0},
		map[string][]string{"a": {"b", "c"}, "b": {"d"}, "c": {"d"}},
	)

	s := l.Resolve(context.Background(), &Artifact{Name: "a"})

	// ancestors: b, c, d each once -> mean 0.8; (0.4 + 0.8) / 2
	assert.Equal(t, 0.6, s)
	assert.Equal(t, int32(4), atomic.LoadInt32(evals))
}

func TestLineageTransitiveChain(t *testing.T) {
	l, _ := lineageFixture(t,
		map[string]float64{"a": 0.0, "b": 0.4, "c": 0.8},
		map[string][]string{"a": {"b"}, "b": {"c"}},
	)
	s := l.Resolve(context.Background(), &Artifact{Name: "a"})
	// (0.0 + (0.4+0.8)/2) / 2
	assert.Equal(t, 0.3, s)
}

func TestLineageEvaluatorRegistered(t *testing.T) {
	l, _ := lineageFixture(t, map[string]float64{"a": 0.5}, nil)
	ev := l.Evaluator()
	assert.Equal(t, EvaluatorTreeScore, ev.Name)

	res, err := ev.Fn(context.Background(), &Artifact{Name: "a"})
	require.NoError(t, err)
	assert.Equal(t, 0.5, res.Score)
	assert.GreaterOrEqual(t, res.Latency, int64(0))
}

func TestLineageOwnScoreExcludesTreeScore(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Evaluator{
		Name: "own",
		Fn: func(_ context.Context, _ *Artifact) (Result, error) {
			return Result{Score: 0.8, Latency: 1}, nil
		},
	})

	runner := NewRunner(reg, time.Second)
	l := NewLineageResolver(runner, nil, nil)
	reg.Register(l.Evaluator())

	rep := runner.Score(context.Background(), &Artifact{Name: "a", Category: CategoryModel})

	// treescore ran without recursing and equals the own score
	assert.Equal(t, 0.8, rep.Scalar(EvaluatorTreeScore))
	assert.Equal(t, 0.8, rep.NetScore)
}
