package main

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/mtrust/mtctl/pkg/score"
)

var (
	urlFileFlag = &cli.StringFlag{
		Name:     "file",
		Aliases:  []string{"f"},
		Usage:    "Path to a file with one artifact URL per line",
		Required: false,
	}

	scoreCmd = &cli.Command{
		Name:      "score",
		Aliases:   []string{"sc"},
		Usage:     "Score model, dataset, and code URLs, one NDJSON report per line",
		ArgsUsage: "[url...]",
		Action:    cmdScore,
		Flags: []cli.Flag{
			urlFileFlag,
		},
	}
)

func cmdScore(c *cli.Context) error {
	urls, err := collectURLs(c)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return errors.New("no URLs to score, pass args or --file")
	}

	cfg := getConfigOrFail()
	eng := newEngine(c.Context, cfg)

	artifacts := make([]*score.Artifact, 0, len(urls))
	for _, u := range urls {
		artifacts = append(artifacts, eng.hub.BuildArtifact(c.Context, u))
	}

	reports := eng.runner.ScoreAll(c.Context, artifacts)

	enc := json.NewEncoder(os.Stdout)
	for _, r := range reports {
		if r.Category != score.CategoryModel {
			log.Debugf("skipping non-model report: %s", r.Name)
			continue
		}
		if err := enc.Encode(r); err != nil {
			return errors.Wrapf(err, "error encoding report: %s", r.Name)
		}
	}

	return nil
}

// collectURLs merges positional args with the optional URL file. File
// lines may hold several comma-separated URLs; every non-empty field
// is scored. Blank lines and '#' comments are skipped.
func collectURLs(c *cli.Context) ([]string, error) {
	urls := append([]string{}, c.Args().Slice()...)

	path := c.String(urlFileFlag.Name)
	if path == "" {
		return urls, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening URL file: %s", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, part := range strings.Split(line, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				urls = append(urls, part)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "error reading URL file: %s", path)
	}

	return urls, nil
}
