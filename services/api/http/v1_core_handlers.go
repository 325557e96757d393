package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skystats/airtraffic-viewer/services/api/charts"
)

// handleV1DatasetMeta returns metadata about the loaded dataset
// GET /api/v1/core/dataset
func (s *Server) handleV1DatasetMeta(c *gin.Context) {
	meta := charts.Describe(s.records, s.source)

	c.JSON(http.StatusOK, gin.H{
		"data": meta,
		"meta": gin.H{
			"generated_at": time.Now().UTC().Format(time.RFC3339),
		},
	})
}
