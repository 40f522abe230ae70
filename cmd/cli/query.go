package main

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/mtrust/mtctl/pkg/data"
)

const queryResultLimitDefault = 100

var (
	queryLimitFlag = &cli.IntFlag{
		Name:     "limit",
		Usage:    "Limits number of result returned",
		Value:    queryResultLimitDefault,
		Required: false,
	}

	modelLikeQueryFlag = &cli.StringFlag{
		Name:     "like",
		Usage:    "Fuzzy search on ingested model names",
		Required: false,
	}

	modelNameQueryFlag = &cli.StringFlag{
		Name:     "name",
		Usage:    "Ingested model name (owner/model)",
		Required: true,
	}

	queryCmd = &cli.Command{
		Name:    "query",
		Aliases: []string{"q"},
		Usage:   "List data query operations",
		Subcommands: []*cli.Command{
			{
				Name:    "model",
				Usage:   "List ingested model operations",
				Aliases: []string{"m"},
				Subcommands: []*cli.Command{
					{
						Name:    "list",
						Usage:   "List ingested models",
						Aliases: []string{"l"},
						Action:  cmdQueryModels,
						Flags: []cli.Flag{
							modelLikeQueryFlag,
							queryLimitFlag,
						},
					},
					{
						Name:    "detail",
						Usage:   "Get the full score report for one ingested model",
						Aliases: []string{"d"},
						Action:  cmdQueryModel,
						Flags: []cli.Flag{
							modelNameQueryFlag,
						},
					},
					{
						Name:    "delete",
						Usage:   "Remove one ingested model",
						Action:  cmdDeleteModel,
						Flags: []cli.Flag{
							modelNameQueryFlag,
						},
					},
				},
			},
		},
	}
)

func cmdQueryModels(c *cli.Context) error {
	like := c.String(modelLikeQueryFlag.Name)
	limit := c.Int(queryLimitFlag.Name)

	db := getDBOrFail()
	defer db.Close()

	list, err := data.QueryModels(db, like, limit)
	if err != nil {
		return errors.Wrapf(err, "error querying models like: %s", like)
	}

	return writeJSON(list)
}

func cmdQueryModel(c *cli.Context) error {
	name := c.String(modelNameQueryFlag.Name)

	db := getDBOrFail()
	defer db.Close()

	m, err := data.GetModel(db, name)
	if err != nil {
		return errors.Wrapf(err, "error getting model: %s", name)
	}
	if m == nil {
		return errors.Errorf("model not found: %s", name)
	}

	return writeJSON(m)
}

func cmdDeleteModel(c *cli.Context) error {
	name := c.String(modelNameQueryFlag.Name)

	db := getDBOrFail()
	defer db.Close()

	if err := data.DeleteModel(db, name); err != nil {
		return errors.Wrapf(err, "error deleting model: %s", name)
	}
	return nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "error encoding results")
	}
	return nil
}
