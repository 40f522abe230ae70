package metrics

import (
	"context"
	"strings"
	"time"

	"github.com/mtrust/mtctl/pkg/gh"
	"github.com/mtrust/mtctl/pkg/score"
)

// BusFactor estimates how concentrated the linked repository's
// contributions are: a single dominant author scores low.
func (s *Set) BusFactor(ctx context.Context, a *score.Artifact) (score.Result, error) {
	start := time.Now()

	owner, repo, ok := gh.ParseRepoURL(a.GitHubURL)
	if !ok || s.GitHub == nil {
		return result(start, 0.0)
	}

	shares, err := gh.ContributorShares(ctx, s.GitHub, owner, repo)
	if err != nil {
		return score.Result{}, err
	}

	return result(start, busFactorScore(shares))
}

func busFactorScore(shares []float64) float64 {
	if len(shares) == 0 {
		return 0.0
	}
	top := shares[0]
	for _, s := range shares[1:] {
		if s > top {
			top = s
		}
	}
	return clamp01(1.0 - top)
}

// Reviewedness estimates how much peer review the linked repository's
// recent pull requests received.
func (s *Set) Reviewedness(ctx context.Context, a *score.Artifact) (score.Result, error) {
	start := time.Now()

	owner, repo, ok := gh.ParseRepoURL(a.GitHubURL)
	if !ok || s.GitHub == nil {
		return result(start, 0.0)
	}

	ratio, err := gh.ReviewedPullRatio(ctx, s.GitHub, owner, repo)
	if err != nil {
		return score.Result{}, err
	}

	return result(start, ratio)
}

// CodeQuality scores the linked repository by the presence of
// engineering hygiene files: documented dependencies, tests,
// containerization, and CI configuration.
func (s *Set) CodeQuality(ctx context.Context, a *score.Artifact) (score.Result, error) {
	start := time.Now()

	owner, repo, ok := gh.ParseRepoURL(a.GitHubURL)
	if !ok || s.GitHub == nil {
		return result(start, 0.0)
	}

	files, err := gh.RepoRootFiles(ctx, s.GitHub, owner, repo)
	if err != nil {
		return score.Result{}, err
	}

	return result(start, codeQualityScore(files))
}

func codeQualityScore(files []string) float64 {
	if len(files) == 0 {
		return 0.0
	}

	has := func(names ...string) bool {
		for _, f := range files {
			for _, n := range names {
				if strings.EqualFold(f, n) {
					return true
				}
			}
		}
		return false
	}

	var v float64
	if has("requirements.txt", "pyproject.toml", "go.mod", "package.json") {
		v += 0.4
	}
	if has("tests/", "test/", "tox.ini", "pytest.ini") {
		v += 0.3
	}
	if has("Dockerfile") {
		v += 0.2
	}
	if has(".github/", ".gitlab-ci.yml", ".circleci/") {
		v += 0.1
	}

	return v
}
