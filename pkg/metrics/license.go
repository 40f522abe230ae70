package metrics

import (
	"context"
	"strings"
	"time"

	"github.com/mtrust/mtctl/pkg/score"
)

// licenseKeyword maps a license keyword to its compatibility score.
// Order matters: more specific keywords are checked first.
var licenseKeywords = []struct {
	keyword string
	score   float64
}{
	{"mit", 1.0},
	{"apache", 0.95},
	{"bsd", 0.9},
	{"mozilla", 0.75},
	{"mpl", 0.75},
	{"lgpl", 0.6},
	{"creative commons", 0.5},
	{"cc-by", 0.5},
	{"gpl", 0.4},
}

// License scores the compatibility of the artifact's declared license.
// The declared hub license is preferred; the card text is the
// fallback.
func License(_ context.Context, a *score.Artifact) (score.Result, error) {
	start := time.Now()

	if v, ok := licenseScoreOf(a.License); ok {
		return result(start, v)
	}
	if v, ok := licenseScoreOf(a.CardText); ok {
		return result(start, v)
	}
	return result(start, 0.0)
}

func licenseScoreOf(text string) (float64, bool) {
	if text == "" {
		return 0, false
	}
	lower := strings.ToLower(text)
	for _, k := range licenseKeywords {
		if strings.Contains(lower, k.keyword) {
			return k.score, true
		}
	}
	return 0, false
}
