package gh

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-github/v83/github"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/mtrust/mtctl/pkg/net"
)

// NewClient creates a GitHub API client. An empty token makes
// unauthenticated requests (subject to low rate limits).
func NewClient(ctx context.Context, token string) *github.Client {
	if token == "" {
		return github.NewClient(nil)
	}
	return github.NewClient(net.GetOAuthClient(ctx, token))
}

// ParseRepoURL extracts the owner and repo from a GitHub URL.
func ParseRepoURL(rawURL string) (owner, repo string, ok bool) {
	if rawURL == "" || !strings.Contains(rawURL, "github.com") {
		return "", "", false
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", false
	}

	parts := make([]string, 0)
	for _, p := range strings.Split(strings.Trim(u.Path, "/"), "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return "", "", false
	}

	return parts[0], strings.TrimSuffix(parts[1], ".git"), true
}

func rateInfo(r *github.Rate) string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("rate:%d/%d until:%s", r.Remaining, r.Limit, r.Reset.Format("15:04"))
}

// ContributorShares returns each contributor's share of total commits,
// largest first.
func ContributorShares(ctx context.Context, client *github.Client, owner, repo string) ([]float64, error) {
	if owner == "" || repo == "" {
		return nil, errors.New("owner and repo are required")
	}

	opts := &github.ListContributorsOptions{
		ListOptions: github.ListOptions{PerPage: 30},
	}
	list, resp, err := client.Repositories.ListContributors(ctx, owner, repo, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list contributors for: %s/%s", owner, repo)
	}
	if resp != nil {
		log.Debugf("got contributors for %s/%s, %s", owner, repo, rateInfo(&resp.Rate))
	}

	var total int
	counts := make([]int, 0, len(list))
	for _, c := range list {
		n := c.GetContributions()
		if n > 0 {
			counts = append(counts, n)
			total += n
		}
	}
	if total == 0 {
		return nil, nil
	}

	shares := make([]float64, len(counts))
	for i, n := range counts {
		shares[i] = float64(n) / float64(total)
	}
	return shares, nil
}

// ReviewedPullRatio returns the fraction of recently closed pull
// requests that received at least one review.
func ReviewedPullRatio(ctx context.Context, client *github.Client, owner, repo string) (float64, error) {
	if owner == "" || repo == "" {
		return 0, errors.New("owner and repo are required")
	}

	opts := &github.PullRequestListOptions{
		State:       "closed",
		ListOptions: github.ListOptions{PerPage: 20},
	}
	pulls, resp, err := client.PullRequests.List(ctx, owner, repo, opts)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to list pulls for: %s/%s", owner, repo)
	}
	if resp != nil {
		log.Debugf("got pulls for %s/%s, %s", owner, repo, rateInfo(&resp.Rate))
	}
	if len(pulls) == 0 {
		return 0, nil
	}

	reviewed := 0
	for _, pr := range pulls {
		reviews, _, err := client.PullRequests.ListReviews(ctx, owner, repo, pr.GetNumber(), &github.ListOptions{PerPage: 1})
		if err != nil {
			log.Debugf("error listing reviews for %s/%s#%d: %v", owner, repo, pr.GetNumber(), err)
			continue
		}
		if len(reviews) > 0 {
			reviewed++
		}
	}

	return float64(reviewed) / float64(len(pulls)), nil
}

// RepoRootFiles lists the file and directory names at the repository
// root.
func RepoRootFiles(ctx context.Context, client *github.Client, owner, repo string) ([]string, error) {
	if owner == "" || repo == "" {
		return nil, errors.New("owner and repo are required")
	}

	_, dir, _, err := client.Repositories.GetContents(ctx, owner, repo, "/", nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list contents for: %s/%s", owner, repo)
	}

	names := make([]string, 0, len(dir))
	for _, e := range dir {
		name := e.GetName()
		if e.GetType() == "dir" {
			name += "/"
		}
		names = append(names, name)
	}
	return names, nil
}
