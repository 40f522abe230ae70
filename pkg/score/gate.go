package score

import (
	"context"
	"fmt"
)

const (
	// GateThresholdDefault is the minimum scalar each gated evaluator
	// must reach before an artifact is admitted.
	GateThresholdDefault = 0.5
)

// GatedEvaluatorsDefault lists the non-latency evaluators checked by
// the ingest gate.
var GatedEvaluatorsDefault = []string{
	"reviewedness",
	"dataset_quality",
	"dataset_and_code_score",
	EvaluatorTreeScore,
}

// Gate decides whether an artifact is admitted to the registry. A
// rejection is an expected caller-facing outcome, not a fault.
type Gate struct {
	runner    *Runner
	gated     []string
	threshold float64
}

func NewGate(runner *Runner, gated []string, threshold float64) *Gate {
	if len(gated) == 0 {
		gated = GatedEvaluatorsDefault
	}
	if threshold <= 0 {
		threshold = GateThresholdDefault
	}
	return &Gate{
		runner:    runner,
		gated:     gated,
		threshold: threshold,
	}
}

// Check runs the full scoring pipeline and applies the threshold rule:
// every gated evaluator's scalar contribution must be at or above the
// threshold. On rejection the reason names the first offending
// evaluator and its value; the report is returned either way.
func (g *Gate) Check(ctx context.Context, a *Artifact) (bool, *Report, string) {
	rep := g.runner.Score(ctx, a)

	for _, name := range g.gated {
		if v := rep.Scalar(name); v < g.threshold {
			return false, rep, fmt.Sprintf("Ingest rejected: %s=%.2f < %.2f", name, v, g.threshold)
		}
	}

	return true, rep, ""
}
