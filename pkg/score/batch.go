package score

import (
	"context"
	"runtime"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const batchWorkerMax = 8

// ScoreAll scores a batch of artifacts on a bounded worker pool. The
// output always contains exactly one report per input, in input order:
// a nil or unprepared artifact yields its fallback report, and a defect
// while scoring one artifact never aborts its siblings.
func (r *Runner) ScoreAll(ctx context.Context, artifacts []*Artifact) []*Report {
	reports := make([]*Report, len(artifacts))

	g := new(errgroup.Group)
	g.SetLimit(batchWorkerLimit())

	for i, a := range artifacts {
		g.Go(func() error {
			defer func() {
				if p := recover(); p != nil {
					log.Errorf("scoring panicked for artifact %d: %v", i, p)
					reports[i] = FallbackReport(a)
				}
			}()

			if a == nil || a.PrepFailed {
				reports[i] = FallbackReport(a)
				return nil
			}
			reports[i] = r.Score(ctx, a)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Errorf("batch scoring error: %v", err)
	}

	for i, rep := range reports {
		if rep == nil {
			reports[i] = FallbackReport(artifacts[i])
		}
	}

	return reports
}

func batchWorkerLimit() int {
	n := runtime.NumCPU()
	if n < 1 {
		n = 1
	}
	if n > batchWorkerMax {
		n = batchWorkerMax
	}
	return n
}
