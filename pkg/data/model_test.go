package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndGetModel(t *testing.T) {
	db := setupTestDB(t)

	m := &Model{
		Name:     "google/gemma-2b",
		URL:      "https://huggingface.co/google/gemma-2b",
		Category: "MODEL",
		NetScore: 0.8123,
		Report:   `{"name":"google/gemma-2b","net_score":0.8123}`,
	}
	require.NoError(t, SaveModel(db, m))
	assert.NotEmpty(t, m.ID)
	assert.NotZero(t, m.SavedOn)

	got, err := GetModel(db, "google/gemma-2b")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, m.ID, got.ID)
	assert.Equal(t, m.URL, got.URL)
	assert.Equal(t, 0.8123, got.NetScore)
	assert.Equal(t, m.Report, got.Report)
}

func TestSaveModelUpsert(t *testing.T) {
	db := setupTestDB(t)

	m := &Model{Name: "org/model", URL: "u1", Category: "MODEL", NetScore: 0.5, Report: "{}"}
	require.NoError(t, SaveModel(db, m))
	firstID := m.ID

	// re-ingest under the same name updates the record in place
	again := &Model{Name: "org/model", URL: "u2", Category: "MODEL", NetScore: 0.7, Report: "{}"}
	require.NoError(t, SaveModel(db, again))

	got, err := GetModel(db, "org/model")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, firstID, got.ID)
	assert.Equal(t, "u2", got.URL)
	assert.Equal(t, 0.7, got.NetScore)

	list, err := QueryModels(db, "org/model", 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSaveModelValidation(t *testing.T) {
	db := setupTestDB(t)
	assert.Error(t, SaveModel(db, nil))
	assert.Error(t, SaveModel(db, &Model{}))
}

func TestGetModelNotFound(t *testing.T) {
	db := setupTestDB(t)
	got, err := GetModel(db, "nobody/nothing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestQueryModels(t *testing.T) {
	db := setupTestDB(t)

	for name, netScore := range map[string]float64{
		"org/bert-base":  0.6,
		"org/bert-large": 0.9,
		"other/gpt":      0.4,
	} {
		require.NoError(t, SaveModel(db, &Model{
			Name: name, URL: "https://huggingface.co/" + name,
			Category: "MODEL", NetScore: netScore, Report: "{}",
		}))
	}

	list, err := QueryModels(db, "bert", 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "org/bert-large", list[0].Name)
	assert.Equal(t, "org/bert-base", list[1].Name)

	list, err = QueryModels(db, "", 2)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = QueryModels(db, "nomatch", 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeleteModel(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, SaveModel(db, &Model{Name: "org/m", URL: "u", Category: "MODEL", Report: "{}"}))
	require.NoError(t, DeleteModel(db, "org/m"))

	got, err := GetModel(db, "org/m")
	require.NoError(t, err)
	assert.Nil(t, got)

	// deleting an absent name is not an error
	assert.NoError(t, DeleteModel(db, "org/m"))
	assert.Error(t, DeleteModel(db, ""))
}
