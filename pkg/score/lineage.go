package score

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	// EvaluatorTreeScore names the lineage evaluator.
	EvaluatorTreeScore = "treescore"
)

// ParentsFunc resolves the declared ancestor ids for an artifact id via
// the external metadata collaborator.
type ParentsFunc func(ctx context.Context, id string) []string

// BuildFunc materializes an artifact reference for an ancestor id so
// its own score can be computed.
type BuildFunc func(ctx context.Context, id string) *Artifact

// LineageResolver computes a lineage score for an artifact by blending
// its own net score with the scores of its declared ancestors. One
// resolution owns a private memo cache and visited set, so shared
// ancestors are scored once and cyclic graphs terminate.
type LineageResolver struct {
	runner  *Runner
	parents ParentsFunc
	build   BuildFunc
}

func NewLineageResolver(runner *Runner, parents ParentsFunc, build BuildFunc) *LineageResolver {
	return &LineageResolver{
		runner:  runner,
		parents: parents,
		build:   build,
	}
}

// Evaluator adapts the resolver to the standard evaluator contract so
// it can be registered alongside the other checks.
func (l *LineageResolver) Evaluator() Evaluator {
	return Evaluator{
		Name: EvaluatorTreeScore,
		Fn: func(ctx context.Context, a *Artifact) (Result, error) {
			start := time.Now()
			s := l.Resolve(ctx, a)
			return Result{Score: s, Latency: time.Since(start).Milliseconds()}, nil
		},
	}
}

// Resolve computes the lineage score for an artifact:
//   - no declared ancestors: the artifact's own net score
//   - otherwise: average of the own score and the mean own score over
//     the full transitive set of reachable ancestors
//
// The result is clamped to [0,1] and rounded to 4 decimals.
func (l *LineageResolver) Resolve(ctx context.Context, a *Artifact) float64 {
	if a == nil || a.Name == "" {
		return 0.0
	}

	q := &lineageQuery{
		resolver: l,
		memo:     make(map[string]float64),
		visited:  map[string]bool{a.Name: true},
	}

	own := q.ownScore(ctx, a.Name, a)

	sum, n := q.expand(ctx, l.parentsOf(ctx, a))
	if n == 0 {
		return clamp(own)
	}

	ancestorMean := sum / float64(n)
	return round4(clamp((own + ancestorMean) / 2))
}

func (l *LineageResolver) parentsOf(ctx context.Context, a *Artifact) []string {
	if len(a.Parents) > 0 {
		return a.Parents
	}
	if l.parents == nil {
		return nil
	}
	return l.parents(ctx, a.Name)
}

// lineageQuery carries the state of one top-level resolution. It is
// never shared across resolutions.
type lineageQuery struct {
	resolver *LineageResolver

	mu      sync.Mutex
	memo    map[string]float64
	visited map[string]bool
}

// expand walks a set of ancestor ids, returning the sum of their own
// scores and the number of distinct contributing nodes. Ids already
// visited in this query contribute nothing and are not re-expanded.
func (q *lineageQuery) expand(ctx context.Context, ids []string) (float64, int) {
	var sum float64
	var n int

	for _, id := range ids {
		if id == "" {
			continue
		}

		q.mu.Lock()
		seen := q.visited[id]
		if !seen {
			q.visited[id] = true
		}
		q.mu.Unlock()

		if seen {
			log.Debugf("lineage: already visited %s, skipping branch", id)
			continue
		}

		sum += q.ownScore(ctx, id, nil)
		n++

		var next []string
		if q.resolver.parents != nil {
			next = q.resolver.parents(ctx, id)
		}
		s, c := q.expand(ctx, next)
		sum += s
		n += c
	}

	return sum, n
}

// ownScore computes (at most once per query) the artifact's net score
// using every evaluator except the lineage evaluator itself.
func (q *lineageQuery) ownScore(ctx context.Context, id string, a *Artifact) float64 {
	q.mu.Lock()
	if v, ok := q.memo[id]; ok {
		q.mu.Unlock()
		return v
	}
	q.mu.Unlock()

	if a == nil && q.resolver.build != nil {
		a = q.resolver.build(ctx, id)
	}
	if a == nil {
		a = &Artifact{Name: id, Category: CategoryModel}
	}

	rep := q.resolver.runner.ScoreExcluding(ctx, a, EvaluatorTreeScore)

	q.mu.Lock()
	q.memo[id] = rep.NetScore
	q.mu.Unlock()

	return rep.NetScore
}
