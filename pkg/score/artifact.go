package score

import (
	"net/url"
	"regexp"
	"strings"
)

// Category classifies the kind of resource behind a scored URL.
type Category string

const (
	CategoryModel   Category = "MODEL"
	CategoryDataset Category = "DATASET"
	CategoryCode    Category = "CODE"
)

var (
	refTrimRegEx = regexp.MustCompile(`(\?|#).*`)
)

// Artifact identifies the subject of one scoring run. It is assembled
// once by the metadata collaborator and treated as read-only by the
// evaluators.
type Artifact struct {
	Name      string   `json:"name"`
	URL       string   `json:"url"`
	Category  Category `json:"category"`
	License   string   `json:"license,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Downloads int64    `json:"downloads,omitempty"`
	Likes     int64    `json:"likes,omitempty"`

	// CardText is the raw model card (README) content, empty when the
	// fetch failed.
	CardText string `json:"-"`

	// Files is the hub repo file listing (sibling file names).
	Files []string `json:"files,omitempty"`

	// TotalBytes is the total storage used by the model weights.
	TotalBytes int64 `json:"total_bytes,omitempty"`

	// Parents holds declared ancestor ids extracted from config.json.
	Parents []string `json:"parents,omitempty"`

	// GitHubURL is the linked code repository, empty when none was found.
	GitHubURL string `json:"github_url,omitempty"`

	// Datasets holds declared training dataset references.
	Datasets []string `json:"datasets,omitempty"`

	// SkipRepoEvaluators suppresses repository-dependent evaluators when
	// no code repository could be resolved for the artifact.
	SkipRepoEvaluators bool `json:"-"`

	// PrepFailed marks an artifact whose metadata could not be fetched
	// at all. Such artifacts still yield a minimal fallback report.
	PrepFailed bool `json:"-"`
}

// Classify determines the resource category from its URL.
func Classify(rawURL string) Category {
	u := strings.TrimSpace(rawURL)
	if u == "" {
		return CategoryCode
	}

	p, err := url.Parse(u)
	if err != nil {
		return CategoryCode
	}

	host := strings.ToLower(p.Host)
	path := strings.ToLower(strings.TrimPrefix(p.Path, "/"))

	if strings.HasSuffix(host, "huggingface.co") {
		if strings.HasPrefix(path, "datasets/") {
			return CategoryDataset
		}
		return CategoryModel
	}

	switch host {
	case "github.com", "gitlab.com", "bitbucket.org":
		return CategoryCode
	}

	return CategoryCode
}

// NormalizeHubID extracts the canonical 'owner/name' hub id from a URL
// or an already-bare reference. Query strings, anchors, and revision
// suffixes (/tree/main) are stripped.
func NormalizeHubID(ref string) string {
	s := refTrimRegEx.ReplaceAllString(strings.TrimSpace(ref), "")
	s = strings.ReplaceAll(s, "/tree/main", "")
	s = strings.TrimSuffix(s, "/")

	if i := strings.Index(s, "huggingface.co/"); i >= 0 {
		s = s[i+len("huggingface.co/"):]
	}
	s = strings.TrimPrefix(s, "datasets/")

	return s
}

// RepoNameFromURL returns the trailing 'owner/repo' pair of a code
// hosting URL, or the input unchanged when it has fewer segments.
func RepoNameFromURL(rawURL string) string {
	s := strings.TrimSuffix(strings.TrimSpace(rawURL), "/")
	parts := strings.Split(s, "/")
	if len(parts) < 2 {
		return s
	}
	return strings.Join(parts[len(parts)-2:], "/")
}
