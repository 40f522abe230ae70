// Package metrics provides the concrete evaluators run against scored
// artifacts. Each evaluator computes one scalar (or one map of
// sub-scores) from fetched metadata, plus its own latency.
package metrics

import (
	"time"

	"github.com/google/go-github/v83/github"

	"github.com/mtrust/mtctl/pkg/hub"
	"github.com/mtrust/mtctl/pkg/score"
)

// Evaluator names as they appear in reports.
const (
	EvaluatorRampUpTime          = "ramp_up_time"
	EvaluatorBusFactor           = "bus_factor"
	EvaluatorPerformanceClaims   = "performance_claims"
	EvaluatorLicense             = "license"
	EvaluatorSizeScore           = "size_score"
	EvaluatorDatasetAndCodeScore = "dataset_and_code_score"
	EvaluatorDatasetQuality      = "dataset_quality"
	EvaluatorCodeQuality         = "code_quality"
	EvaluatorReproducibility     = "reproducibility"
	EvaluatorReviewedness        = "reviewedness"
)

// Set wires the evaluators to their external collaborators.
type Set struct {
	Hub    *hub.Client
	GitHub *github.Client
}

// Evaluators returns the full evaluator set in report order. The
// lineage evaluator is registered separately by the caller.
func (s *Set) Evaluators() []score.Evaluator {
	return []score.Evaluator{
		{Name: EvaluatorRampUpTime, Fn: RampUpTime},
		{Name: EvaluatorBusFactor, Fn: s.BusFactor, RequiresRepo: true},
		{Name: EvaluatorPerformanceClaims, Fn: PerformanceClaims},
		{Name: EvaluatorLicense, Fn: License},
		{Name: EvaluatorSizeScore, Fn: SizeScore},
		{Name: EvaluatorDatasetAndCodeScore, Fn: DatasetAndCodeScore},
		{Name: EvaluatorDatasetQuality, Fn: s.DatasetQuality},
		{Name: EvaluatorCodeQuality, Fn: s.CodeQuality, RequiresRepo: true},
		{Name: EvaluatorReproducibility, Fn: Reproducibility},
		{Name: EvaluatorReviewedness, Fn: s.Reviewedness},
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0.0
	}
	if v > 1 {
		return 1.0
	}
	return v
}

func elapsedMS(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}

func result(start time.Time, v float64) (score.Result, error) {
	return score.Result{Score: clamp01(v), Latency: elapsedMS(start)}, nil
}
