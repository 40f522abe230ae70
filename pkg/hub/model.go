package hub

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ModelInfo is the subset of hub model metadata consumed by the
// evaluators.
type ModelInfo struct {
	ID          string         `json:"id"`
	License     string         `json:"license"`
	PipelineTag string         `json:"pipeline_tag"`
	Tags        []string       `json:"tags"`
	Downloads   int64          `json:"downloads"`
	Likes       int64          `json:"likes"`
	UsedStorage int64          `json:"usedStorage"`
	CardData    map[string]any `json:"cardData"`
	Siblings    []Sibling      `json:"siblings"`
}

type Sibling struct {
	Rfilename string `json:"rfilename"`
}

// DatasetInfo is the subset of hub dataset metadata used by the
// dataset quality evaluator.
type DatasetInfo struct {
	ID        string         `json:"id"`
	Downloads int64          `json:"downloads"`
	Likes     int64          `json:"likes"`
	CardData  map[string]any `json:"cardData"`
}

// GetModel fetches model metadata for a hub id ('owner/name').
func (c *Client) GetModel(ctx context.Context, id string) (*ModelInfo, error) {
	var info ModelInfo
	url := fmt.Sprintf("%s/api/models/%s", c.baseURL, id)
	if err := getJSON(ctx, c, url, &info); err != nil {
		return nil, err
	}

	// some models only declare their license as a tag
	if info.License == "" {
		for _, t := range info.Tags {
			if strings.HasPrefix(t, "license:") {
				info.License = strings.TrimPrefix(t, "license:")
				break
			}
		}
	}

	return &info, nil
}

// GetDataset fetches dataset metadata for a hub dataset id.
func (c *Client) GetDataset(ctx context.Context, id string) (*DatasetInfo, error) {
	var info DatasetInfo
	url := fmt.Sprintf("%s/api/datasets/%s", c.baseURL, id)
	if err := getJSON(ctx, c, url, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetCardText fetches the raw model card (README.md) for a hub id.
// A missing card is not an error; it returns an empty string.
func (c *Client) GetCardText(ctx context.Context, id string) string {
	url := fmt.Sprintf("%s/%s/raw/main/README.md", c.baseURL, id)
	text, err := c.getText(ctx, url)
	if err != nil {
		log.Debugf("no card text for %s: %v", id, err)
		return ""
	}
	return text
}

// GetConfig fetches and parses the model's config.json, or nil when
// the model has none.
func (c *Client) GetConfig(ctx context.Context, id string) map[string]any {
	var cfg map[string]any
	url := fmt.Sprintf("%s/%s/resolve/main/config.json", c.baseURL, id)
	if err := getJSON(ctx, c, url, &cfg); err != nil {
		log.Debugf("no config for %s: %v", id, err)
		return nil
	}
	return cfg
}

// GetParents resolves the declared ancestor ids for a hub model id
// from its config.json. Used by the lineage resolver when expanding
// ancestors beyond the first level.
func (c *Client) GetParents(ctx context.Context, id string) []string {
	return ParentsFromConfig(c.GetConfig(ctx, id))
}

// ParentsFromConfig extracts likely parent model ids from a parsed
// config.json. Checked keys cover the declaration variants observed in
// the wild.
func ParentsFromConfig(cfg map[string]any) []string {
	if len(cfg) == 0 {
		return nil
	}

	keys := []string{"parent_model", "parents", "model_parent", "parent", "parents_list"}

	out := make([]string, 0)
	seen := make(map[string]bool)

	add := func(v string) {
		v = strings.TrimSpace(v)
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}

	for _, k := range keys {
		switch v := cfg[k].(type) {
		case string:
			add(v)
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					add(s)
				}
			}
		case []string:
			for _, s := range v {
				add(s)
			}
		}
	}

	return out
}
