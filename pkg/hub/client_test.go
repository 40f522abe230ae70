package hub

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/models/org/model", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{
			"id": "org/model",
			"tags": ["pytorch", "license:apache-2.0", "dataset:squad"],
			"downloads": 123456,
			"likes": 42,
			"usedStorage": 440473133,
			"siblings": [
				{"rfilename": "README.md"},
				{"rfilename": "config.json"},
				{"rfilename": "model.safetensors"}
			]
		}`)
	})
	mux.HandleFunc("/org/model/raw/main/README.md", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "# Model\nSee https://github.com/org/model-code for training code.\n```python\nimport model\n```")
	})
	mux.HandleFunc("/org/model/resolve/main/config.json", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"parent_model": "org/base", "hidden_size": 768}`)
	})
	mux.HandleFunc("/api/datasets/squad", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"id": "squad", "downloads": 900000, "likes": 300, "cardData": {"license": "cc-by-4.0"}}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGetModel(t *testing.T) {
	srv := testServer(t)
	c := New(srv.URL, "")

	info, err := c.GetModel(context.Background(), "org/model")
	require.NoError(t, err)
	assert.Equal(t, "org/model", info.ID)
	assert.Equal(t, int64(123456), info.Downloads)
	assert.Equal(t, int64(440473133), info.UsedStorage)
	assert.Len(t, info.Siblings, 3)

	// license resolved from the tag fallback
	assert.Equal(t, "apache-2.0", info.License)
}

func TestGetModelNotFound(t *testing.T) {
	srv := testServer(t)
	c := New(srv.URL, "")

	_, err := c.GetModel(context.Background(), "org/missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetDataset(t *testing.T) {
	srv := testServer(t)
	c := New(srv.URL, "")

	info, err := c.GetDataset(context.Background(), "squad")
	require.NoError(t, err)
	assert.Equal(t, int64(900000), info.Downloads)
	assert.Equal(t, int64(300), info.Likes)
	assert.NotEmpty(t, info.CardData)
}

func TestGetCardText(t *testing.T) {
	srv := testServer(t)
	c := New(srv.URL, "")

	card := c.GetCardText(context.Background(), "org/model")
	assert.Contains(t, card, "github.com/org/model-code")

	// missing card is not an error
	assert.Empty(t, c.GetCardText(context.Background(), "org/missing"))
}

func TestGetConfigAndParents(t *testing.T) {
	srv := testServer(t)
	c := New(srv.URL, "")

	cfg := c.GetConfig(context.Background(), "org/model")
	require.NotNil(t, cfg)
	assert.Equal(t, []string{"org/base"}, ParentsFromConfig(cfg))

	assert.Nil(t, c.GetConfig(context.Background(), "org/missing"))
	assert.Empty(t, c.GetParents(context.Background(), "org/missing"))
}

func TestParentsFromConfigVariants(t *testing.T) {
	for _, tc := range []struct {
		cfg  map[string]any
		want []string
	}{
		{nil, nil},
		{map[string]any{"hidden_size": 768.0}, []string{}},
		{map[string]any{"parent_model": "org/base"}, []string{"org/base"}},
		{map[string]any{"parents": []any{"org/a", "org/b"}}, []string{"org/a", "org/b"}},
		{map[string]any{"parent": "  org/c  "}, []string{"org/c"}},
		{map[string]any{"parent_model": "org/a", "parents": []any{"org/a", ""}}, []string{"org/a"}},
	} {
		got := ParentsFromConfig(tc.cfg)
		if len(tc.want) == 0 {
			assert.Empty(t, got)
		} else {
			assert.Equal(t, tc.want, got)
		}
	}
}

func TestBuildArtifactModel(t *testing.T) {
	srv := testServer(t)
	c := New(srv.URL, "")

	a := c.BuildArtifact(context.Background(), "https://huggingface.co/org/model")
	require.NotNil(t, a)
	assert.False(t, a.PrepFailed)
	assert.Equal(t, "org/model", a.Name)
	assert.Equal(t, "apache-2.0", a.License)
	assert.Equal(t, int64(440473133), a.TotalBytes)
	assert.Equal(t, "https://github.com/org/model-code", a.GitHubURL)
	assert.False(t, a.SkipRepoEvaluators)
	assert.Equal(t, []string{"org/base"}, a.Parents)
	assert.Contains(t, a.Datasets, "squad")
	assert.Contains(t, a.Files, "model.safetensors")
}

func TestBuildArtifactPrepFailure(t *testing.T) {
	srv := testServer(t)
	c := New(srv.URL, "")

	a := c.BuildArtifact(context.Background(), "https://huggingface.co/org/missing")
	require.NotNil(t, a)
	assert.True(t, a.PrepFailed)
	assert.Equal(t, "org/missing", a.Name)
}

func TestBuildArtifactCode(t *testing.T) {
	c := New("http://127.0.0.1:0", "")

	a := c.BuildArtifact(context.Background(), "https://github.com/org/repo")
	require.NotNil(t, a)
	assert.Equal(t, "org/repo", a.Name)
	assert.Equal(t, "https://github.com/org/repo", a.GitHubURL)
	assert.False(t, a.PrepFailed)
}

func TestFindGitHubURL(t *testing.T) {
	assert.Equal(t, "https://github.com/org/repo",
		FindGitHubURL("code at https://github.com/org/repo.git here"))
	assert.Empty(t, FindGitHubURL("no links here"))
	assert.Equal(t, "https://github.com/a/b", FindGitHubURL("", "https://github.com/a/b"))
}

func TestFindDatasetRefs(t *testing.T) {
	refs := FindDatasetRefs(
		[]string{"dataset:squad", "pytorch", "dataset:glue"},
		"trained on https://huggingface.co/datasets/wikimedia/wikipedia and squad",
	)
	assert.Equal(t, []string{"squad", "glue", "wikimedia/wikipedia"}, refs)
}

func TestHasDemoCode(t *testing.T) {
	assert.True(t, HasDemoCode("usage:\n```python\nx\n```"))
	assert.False(t, HasDemoCode("plain text"))
}
