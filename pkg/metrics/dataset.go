package metrics

import (
	"context"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mtrust/mtctl/pkg/score"
)

const (
	datasetDownloadsWell = 1000
	datasetLikesWell     = 10
)

// wellKnownDatasets score without an owner-qualified id.
var wellKnownDatasets = map[string]bool{
	"squad":      true,
	"glue":       true,
	"bookcorpus": true,
	"wikipedia":  true,
}

// DatasetAndCodeScore checks that the model declares both its training
// data and a code repository.
func DatasetAndCodeScore(_ context.Context, a *score.Artifact) (score.Result, error) {
	start := time.Now()

	var v float64
	if len(a.Datasets) > 0 {
		v += 0.5
	}
	if a.GitHubURL != "" {
		v += 0.5
	}

	return result(start, v)
}

// DatasetQuality scores the declared training datasets by their hub
// reputation (card, downloads, likes), averaged over all scorable
// references.
func (s *Set) DatasetQuality(ctx context.Context, a *score.Artifact) (score.Result, error) {
	start := time.Now()

	if len(a.Datasets) == 0 || s.Hub == nil {
		return result(start, 0.0)
	}

	var sum float64
	var n int
	for _, ref := range a.Datasets {
		if !strings.Contains(ref, "/") && !wellKnownDatasets[ref] {
			log.Debugf("skipping non-scorable dataset ref: %s", ref)
			continue
		}
		sum += s.scoreDataset(ctx, ref)
		n++
	}
	if n == 0 {
		return result(start, 0.0)
	}

	return result(start, sum/float64(n))
}

func (s *Set) scoreDataset(ctx context.Context, ref string) float64 {
	info, err := s.Hub.GetDataset(ctx, ref)
	if err != nil {
		log.Debugf("error fetching dataset %s: %v", ref, err)
		return 0.0
	}

	var v float64
	if len(info.CardData) > 0 {
		v += 0.5
	}
	if info.Downloads > datasetDownloadsWell {
		v += 0.3
	}
	if info.Likes > datasetLikesWell {
		v += 0.2
	}
	return v
}
