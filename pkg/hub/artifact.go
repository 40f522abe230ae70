package hub

import (
	"context"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/mtrust/mtctl/pkg/score"
)

var (
	gitHubURLRegEx    = regexp.MustCompile(`https://github\.com/[\w.-]+/[\w.-]+`)
	datasetURLRegEx   = regexp.MustCompile(`https://huggingface\.co/datasets/([\w.-]+(?:/[\w.-]+)?)`)
	datasetTagPrefix  = "dataset:"
	codeFenceSelector = "```"
)

// BuildArtifact assembles the artifact reference for a raw URL. It
// never returns nil: when the hub metadata fetch fails entirely the
// artifact is marked PrepFailed and still yields a fallback report
// downstream.
func (c *Client) BuildArtifact(ctx context.Context, rawURL string) *score.Artifact {
	cat := score.Classify(rawURL)

	a := &score.Artifact{
		URL:      rawURL,
		Category: cat,
	}

	switch cat {
	case score.CategoryCode:
		a.Name = score.RepoNameFromURL(rawURL)
		a.GitHubURL = rawURL
		return a
	case score.CategoryDataset:
		a.Name = score.NormalizeHubID(rawURL)
		a.SkipRepoEvaluators = true
		return a
	}

	a.Name = score.NormalizeHubID(rawURL)

	info, err := c.GetModel(ctx, a.Name)
	if err != nil {
		log.Warnf("hub metadata fetch failed for %s: %v", a.Name, err)
		a.PrepFailed = true
		return a
	}

	a.License = info.License
	a.Tags = info.Tags
	a.Downloads = info.Downloads
	a.Likes = info.Likes
	a.TotalBytes = info.UsedStorage

	a.Files = make([]string, 0, len(info.Siblings))
	for _, s := range info.Siblings {
		if s.Rfilename != "" {
			a.Files = append(a.Files, s.Rfilename)
		}
	}

	a.CardText = c.GetCardText(ctx, a.Name)
	a.Parents = ParentsFromConfig(c.GetConfig(ctx, a.Name))
	a.Datasets = FindDatasetRefs(a.Tags, a.CardText)

	a.GitHubURL = FindGitHubURL(a.CardText, cardDataText(info))
	if a.GitHubURL == "" {
		a.SkipRepoEvaluators = true
	}

	return a
}

// cardDataText flattens the string values of the model's card metadata
// so link discovery can scan them alongside the card text.
func cardDataText(info *ModelInfo) string {
	if info == nil || len(info.CardData) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, v := range info.CardData {
		if s, ok := v.(string); ok {
			sb.WriteString(s)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// FindGitHubURL returns the first GitHub repository URL referenced by
// the card text or card metadata, or empty when none is linked.
func FindGitHubURL(texts ...string) string {
	for _, t := range texts {
		if m := gitHubURLRegEx.FindString(t); m != "" {
			return strings.TrimSuffix(m, ".git")
		}
	}
	return ""
}

// FindDatasetRefs collects declared training dataset references from
// model tags ('dataset:<id>') and hub dataset URLs in the card text.
func FindDatasetRefs(tags []string, card string) []string {
	out := make([]string, 0)
	seen := make(map[string]bool)

	add := func(ref string) {
		ref = strings.TrimSpace(ref)
		if ref != "" && !seen[ref] {
			seen[ref] = true
			out = append(out, ref)
		}
	}

	for _, t := range tags {
		if strings.HasPrefix(t, datasetTagPrefix) {
			add(strings.TrimPrefix(t, datasetTagPrefix))
		}
	}

	for _, m := range datasetURLRegEx.FindAllStringSubmatch(card, -1) {
		if len(m) > 1 {
			add(m[1])
		}
	}

	return out
}

// HasDemoCode reports whether the card text carries a runnable example
// (a fenced code block).
func HasDemoCode(card string) bool {
	return strings.Contains(card, codeFenceSelector)
}
