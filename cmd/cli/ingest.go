package main

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/mtrust/mtctl/pkg/data"
	"github.com/mtrust/mtctl/pkg/score"
)

var (
	ingestURLFlag = &cli.StringFlag{
		Name:     "url",
		Aliases:  []string{"u"},
		Usage:    "Model URL to score and ingest",
		Required: true,
	}

	ingestCmd = &cli.Command{
		Name:    "ingest",
		Aliases: []string{"i"},
		Usage:   "Score a model and register it when it clears the quality gate",
		Action:  cmdIngest,
		Flags: []cli.Flag{
			ingestURLFlag,
		},
	}
)

func cmdIngest(c *cli.Context) error {
	url := c.String(ingestURLFlag.Name)

	cfg := getConfigOrFail()
	eng := newEngine(c.Context, cfg)

	a := eng.hub.BuildArtifact(c.Context, url)
	if a.Category != score.CategoryModel {
		return errors.Errorf("only models can be ingested: %s", url)
	}

	ok, report, reason := eng.gate.Check(c.Context, a)
	if !ok {
		fmt.Println(reason)
		return nil
	}

	b, err := json.Marshal(report)
	if err != nil {
		return errors.Wrapf(err, "error encoding report: %s", report.Name)
	}

	db := getDBOrFail()
	defer db.Close()

	m := &data.Model{
		Name:     report.Name,
		URL:      report.URL,
		Category: string(report.Category),
		NetScore: report.NetScore,
		Report:   string(b),
	}
	if err := data.SaveModel(db, m); err != nil {
		return errors.Wrapf(err, "error saving model: %s", m.Name)
	}

	log.Infof("model ingested: %s (net score: %.4f)", m.Name, m.NetScore)
	fmt.Println(string(b))

	return nil
}
