package metrics

import (
	"context"
	"strings"
	"time"

	"github.com/mtrust/mtctl/pkg/hub"
	"github.com/mtrust/mtctl/pkg/score"
)

const rampUpCardMinLength = 400

var (
	usageSectionMarkers = []string{"## usage", "## how to use", "## quickstart", "## getting started", "## installation"}
	claimMarkers        = []string{"benchmark", "state-of-the-art", "sota", "glue", "squad", "mmlu", "accuracy", "f1", "bleu", "rouge"}
	resultsTableMarker  = "|---"
)

// RampUpTime estimates how quickly a new user can get the model
// running, from the quality of its card: enough prose, a usage
// section, and a runnable example.
func RampUpTime(_ context.Context, a *score.Artifact) (score.Result, error) {
	start := time.Now()

	card := strings.ToLower(a.CardText)
	if card == "" {
		return result(start, 0.0)
	}

	var v float64
	if len(card) >= rampUpCardMinLength {
		v += 0.4
	}
	for _, m := range usageSectionMarkers {
		if strings.Contains(card, m) {
			v += 0.3
			break
		}
	}
	if hub.HasDemoCode(card) {
		v += 0.3
	}

	return result(start, v)
}

// PerformanceClaims checks whether the card substantiates its quality
// claims: benchmark mentions and a results table.
func PerformanceClaims(_ context.Context, a *score.Artifact) (score.Result, error) {
	start := time.Now()

	card := strings.ToLower(a.CardText)
	if card == "" {
		return result(start, 0.0)
	}

	mentions := 0
	for _, m := range claimMarkers {
		if strings.Contains(card, m) {
			mentions++
		}
	}

	var v float64
	switch {
	case mentions >= 3:
		v = 0.6
	case mentions >= 1:
		v = 0.3
	}
	if strings.Contains(card, resultsTableMarker) {
		v += 0.4
	}

	return result(start, v)
}

// Reproducibility estimates how easily the model's results can be
// re-run: pinned dependencies, environment files, notebooks, and
// explicit reproduction instructions.
func Reproducibility(_ context.Context, a *score.Artifact) (score.Result, error) {
	start := time.Now()

	var hasRequirements, hasEnvironment, hasNotebook bool
	for _, f := range a.Files {
		lower := strings.ToLower(f)
		switch {
		case strings.HasPrefix(lower, "requirements"):
			hasRequirements = true
		case lower == "environment.yml" || lower == "environment.yaml":
			hasEnvironment = true
		case strings.HasSuffix(lower, ".ipynb"):
			hasNotebook = true
		}
	}

	var v float64
	if hasRequirements {
		v += 0.4
	}
	if hasEnvironment {
		v += 0.2
	}
	if hasNotebook {
		v += 0.2
	}

	card := strings.ToLower(a.CardText)
	if hub.HasDemoCode(card) {
		v += 0.1
	}
	if strings.Contains(card, "reproduc") {
		v += 0.1
	}

	return result(start, v)
}
