package metrics

import (
	"context"
	"time"

	"github.com/mtrust/mtctl/pkg/score"
)

const bytesPerGB = float64(1 << 30)

// hardwareMaxGB caps the model size each target profile can hold.
var hardwareMaxGB = []struct {
	name  string
	maxGB float64
}{
	{"raspberry_pi", 1.0},
	{"jetson_nano", 2.0},
	{"desktop_pc", 6.0},
	{"aws_server", 10.0},
}

// SizeScore scores the model's storage footprint against each target
// hardware profile; smaller models score higher. The result is a map
// of profile name to score.
func SizeScore(_ context.Context, a *score.Artifact) (score.Result, error) {
	start := time.Now()

	sizeGB := float64(a.TotalBytes) / bytesPerGB

	scores := make(map[string]float64, len(hardwareMaxGB))
	for _, hw := range hardwareMaxGB {
		scores[hw.name] = sizeScoreFor(sizeGB, hw.maxGB)
	}

	return score.Result{Score: scores, Latency: elapsedMS(start)}, nil
}

// sizeScoreFor linearly scales size into [0,1], where smaller is
// better and anything at or above the profile cap scores zero.
func sizeScoreFor(sizeGB, maxGB float64) float64 {
	if sizeGB <= 0 {
		return 1.0
	}
	if maxGB <= 0 || sizeGB >= maxGB {
		return 0.0
	}
	return clamp01(1.0 - sizeGB/maxGB)
}
