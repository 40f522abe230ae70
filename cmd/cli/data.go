package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/mtrust/mtctl/pkg/data"
	"github.com/mtrust/mtctl/pkg/hub"
	"github.com/mtrust/mtctl/pkg/score"
)

type scoreRequest struct {
	URLs []string `json:"urls"`
}

type ingestRequest struct {
	URL string `json:"url"`
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": version,
	})
}

func scoreHandler(eng *engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req scoreRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Errorf("error binding json: %s", err)
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "error binding json",
			})
			return
		}
		if len(req.URLs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "no urls provided",
			})
			return
		}

		artifacts := make([]*score.Artifact, 0, len(req.URLs))
		for _, u := range req.URLs {
			artifacts = append(artifacts, eng.hub.BuildArtifact(c.Request.Context(), u))
		}

		reports := eng.runner.ScoreAll(c.Request.Context(), artifacts)
		c.JSON(http.StatusOK, reports)
	}
}

// rateHandler scores a single model by its hub id ('owner/model').
func rateHandler(eng *engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.Trim(c.Param("id"), "/")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "model id required",
			})
			return
		}

		a := eng.hub.BuildArtifact(c.Request.Context(), hub.BaseURLDefault+"/"+id)
		report := eng.runner.Score(c.Request.Context(), a)
		c.JSON(http.StatusOK, report)
	}
}

func ingestHandler(eng *engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ingestRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "model url required",
			})
			return
		}

		a := eng.hub.BuildArtifact(c.Request.Context(), req.URL)
		if a.Category != score.CategoryModel {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "only models can be ingested",
			})
			return
		}

		ok, report, reason := eng.gate.Check(c.Request.Context(), a)
		if !ok {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"ingested": false,
				"reason":   reason,
			})
			return
		}

		b, err := json.Marshal(report)
		if err != nil {
			log.Errorf("error encoding report: %s", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "error encoding report",
			})
			return
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
			log.Errorf("failed to save model: %s", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "error saving model",
			})
			return
		}

		c.JSON(http.StatusCreated, m)
	}
}

func modelListHandler(c *gin.Context) {
	like := c.Query("like")
	limit := queryAsInt(c, "limit", queryResultLimitDefault)

	db := getDBOrFail()
	defer db.Close()

	list, err := data.QueryModels(db, like, limit)
	if err != nil {
		log.Errorf("failed to query models: %s", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "error querying models",
		})
		return
	}

	c.JSON(http.StatusOK, list)
}

func modelDetailHandler(c *gin.Context) {
	name := strings.Trim(c.Param("name"), "/")

	db := getDBOrFail()
	defer db.Close()

	m, err := data.GetModel(db, name)
	if err != nil {
		log.Errorf("failed to get model: %s", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "error getting model",
		})
		return
	}
	if m == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "model not found",
		})
		return
	}

	c.JSON(http.StatusOK, m)
}

func modelDeleteHandler(c *gin.Context) {
	name := strings.Trim(c.Param("name"), "/")

	db := getDBOrFail()
	defer db.Close()

	if err := data.DeleteModel(db, name); err != nil {
		log.Errorf("failed to delete model: %s", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "error deleting model",
		})
		return
	}

	c.Status(http.StatusNoContent)
}

func queryAsInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}

	i, err := strconv.Atoi(v)
	if err != nil {
		log.Errorf("error converting query string '%s' to int: %s", v, err)
		return def
	}

	return i
}
