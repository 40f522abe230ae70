package main

import (
	"context"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mtrust/mtctl/pkg/config"
	"github.com/mtrust/mtctl/pkg/gh"
	"github.com/mtrust/mtctl/pkg/hub"
	"github.com/mtrust/mtctl/pkg/metrics"
	"github.com/mtrust/mtctl/pkg/score"
)

const hubTokenEnvVar = "HUGGINGFACE_HUB_TOKEN"

// engine bundles the collaborators needed to score and gate models.
type engine struct {
	hub    *hub.Client
	runner *score.Runner
	gate   *score.Gate
}

// newEngine wires the hub client, the GitHub client, the evaluator
// registry, and the lineage resolver from app config and stored
// tokens.
func newEngine(ctx context.Context, cfg *config.Config) *engine {
	ghToken, err := getGitHubToken()
	if err != nil {
		log.Debugf("no GitHub token, using anonymous client: %v", err)
		ghToken = ""
	}

	hubClient := hub.New(cfg.HubURL, os.Getenv(hubTokenEnvVar))
	ghClient := gh.NewClient(ctx, ghToken)

	set := &metrics.Set{
		Hub:    hubClient,
		GitHub: ghClient,
	}

	reg := score.NewRegistry()
	reg.Register(set.Evaluators()...)

	runner := score.NewRunner(reg, time.Duration(cfg.EvaluatorTimeoutSeconds)*time.Second)

	lineage := score.NewLineageResolver(runner,
		hubClient.GetParents,
		func(ctx context.Context, id string) *score.Artifact {
			return hubClient.BuildArtifact(ctx, hub.BaseURLDefault+"/"+id)
		})
	reg.Register(lineage.Evaluator())

	gate := score.NewGate(runner, cfg.GatedMetrics, cfg.GateThreshold)

	return &engine{
		hub:    hubClient,
		runner: runner,
		gate:   gate,
	}
}
