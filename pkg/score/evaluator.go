package score

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Result is the output of a single evaluator invocation. Score is either
// a float64 scalar, a map of sub-keys to scalars (e.g. one score per
// hardware profile), or an opaque value that contributes nothing to the
// net score but is still surfaced in the report.
type Result struct {
	Score   any
	Latency int64
}

// Fallback is the standard substitute recorded for a failed, timed-out,
// or skipped evaluator.
func Fallback() Result {
	return Result{Score: 0.0, Latency: 0}
}

// EvalFunc computes one score for an artifact. The context carries the
// invocation deadline; implementations doing network I/O must honor it.
type EvalFunc func(ctx context.Context, a *Artifact) (Result, error)

// Evaluator is a named scoring check.
type Evaluator struct {
	Name string
	Fn   EvalFunc

	// RequiresRepo marks evaluators that only make sense when the
	// artifact has a resolvable code repository.
	RequiresRepo bool
}

// Registry holds the active evaluator set. Evaluators are registered
// explicitly at startup; there is no runtime discovery.
type Registry struct {
	evals []Evaluator
	names map[string]bool
}

func NewRegistry() *Registry {
	return &Registry{
		evals: make([]Evaluator, 0),
		names: make(map[string]bool),
	}
}

// Register adds evaluators to the active set. Invalid entries (missing
// name or function, duplicate name) are logged and skipped; registration
// as a whole never fails.
func (r *Registry) Register(evals ...Evaluator) {
	for _, e := range evals {
		if e.Name == "" || e.Fn == nil {
			log.Warnf("skipping invalid evaluator registration: %q", e.Name)
			continue
		}
		if r.names[e.Name] {
			log.Warnf("skipping duplicate evaluator registration: %q", e.Name)
			continue
		}
		r.names[e.Name] = true
		r.evals = append(r.evals, e)
	}
}

// Evaluators returns the registered set in registration order.
func (r *Registry) Evaluators() []Evaluator {
	out := make([]Evaluator, len(r.evals))
	copy(out, r.evals)
	return out
}

// Names returns the registered evaluator names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.evals))
	for _, e := range r.evals {
		out = append(out, e.Name)
	}
	return out
}

func (r *Registry) Len() int {
	return len(r.evals)
}
