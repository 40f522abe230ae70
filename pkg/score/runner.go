package score

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	// EvaluatorTimeoutDefault bounds a single evaluator invocation.
	EvaluatorTimeoutDefault = 90 * time.Second
)

// Runner executes the registered evaluators for one artifact. Every
// evaluator runs as an independent concurrent task under its own
// timeout; a failure or timeout in one never affects another.
type Runner struct {
	registry *Registry
	timeout  time.Duration
}

func NewRunner(registry *Registry, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = EvaluatorTimeoutDefault
	}
	return &Runner{
		registry: registry,
		timeout:  timeout,
	}
}

func (r *Runner) Registry() *Registry {
	return r.registry
}

// Score runs every registered evaluator against the artifact and
// returns its aggregate report. The report is fully assembled (every
// evaluator present, by real result or fallback) before it is returned.
func (r *Runner) Score(ctx context.Context, a *Artifact) *Report {
	return r.ScoreExcluding(ctx, a)
}

// ScoreExcluding is Score with named evaluators left out entirely. It
// is used by the lineage resolver to compute ancestor scores without
// recursing into itself.
func (r *Runner) ScoreExcluding(ctx context.Context, a *Artifact, exclude ...string) *Report {
	rep := NewReport(a)
	if a == nil || a.PrepFailed {
		return FallbackReport(a)
	}

	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}

	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, ev := range r.registry.Evaluators() {
		if skip[ev.Name] {
			continue
		}

		if ev.RequiresRepo && a.SkipRepoEvaluators {
			log.Debugf("skipping repo-dependent evaluator %s for %s (no code repository)", ev.Name, a.Name)
			mu.Lock()
			rep.set(ev.Name, Fallback())
			mu.Unlock()
			continue
		}

		wg.Add(1)
		go func(ev Evaluator) {
			defer wg.Done()
			res := r.runOne(ctx, ev, a)
			mu.Lock()
			rep.set(ev.Name, res)
			mu.Unlock()
		}(ev)
	}

	wg.Wait()
	rep.finalize()
	return rep
}

// runOne invokes a single evaluator under the configured timeout. On
// timeout the evaluator's context is cancelled and the fallback result
// is recorded without waiting for the overrun task to unwind.
func (r *Runner) runOne(ctx context.Context, ev Evaluator, a *Artifact) Result {
	evalCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	done := make(chan Result, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				log.Errorf("evaluator %s panicked for %s: %v", ev.Name, a.Name, p)
				done <- Fallback()
			}
		}()

		res, err := ev.Fn(evalCtx, a)
		if err != nil {
			log.WithFields(log.Fields{
				"evaluator": ev.Name,
				"artifact":  a.Name,
			}).Warnf("evaluator failed: %v", err)
			done <- Fallback()
			return
		}
		if res.Latency < 0 {
			res.Latency = 0
		}
		done <- res
	}()

	select {
	case res := <-done:
		return res
	case <-evalCtx.Done():
		log.WithFields(log.Fields{
			"evaluator": ev.Name,
			"artifact":  a.Name,
			"timeout":   r.timeout,
		}).Warn("evaluator timed out")
		return Fallback()
	}
}
