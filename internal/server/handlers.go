package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/aletheia/internal/model"
)

const payloadPreviewChars = 200

// queryBody tells a missing type apart from an empty one. An empty or
// unknown type is analyzed and degrades to the unsupported placeholder.
type queryBody struct {
	Kind    *model.InputKind       `json:"type"`
	Payload map[string]interface{} `json:"payload" binding:"required"`
}

func (s *Server) handleQuery(c *gin.Context) {
	var body queryBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	if body.Kind == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "type: field required"})
		return
	}
	req := model.AnalysisRequest{Kind: *body.Kind, Payload: body.Payload}

	start := time.Now()
	s.events.Info("Received query", map[string]interface{}{
		"type":            string(req.Kind),
		"payload_preview": preview(req.Payload),
	})

	result := s.analyzer.Run(c.Request.Context(), req)

	s.events.Info("Returning analysis result", map[string]interface{}{
		"type":       string(req.Kind),
		"duration_s": math.RoundToEven(time.Since(start).Seconds()*100) / 100,
		"verdict":    string(result.Verdict),
	})
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleRecords(c *gin.Context) {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	if s.records == nil {
		c.JSON(http.StatusOK, gin.H{"records": []model.AnalysisRecord{}})
		return
	}

	records, err := s.records.List(c.Request.Context(), limit, skip)
	if err != nil {
		s.events.Error("Listing analysis records failed", map[string]interface{}{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to list records"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", key)
	}
	return v, nil
}

func preview(payload map[string]interface{}) string {
	r := []rune(fmt.Sprint(payload))
	if len(r) > payloadPreviewChars {
		r = r[:payloadPreviewChars]
	}
	return string(r)
}
