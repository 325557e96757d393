package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skystats/airtraffic-viewer/services/api/charts"
	"github.com/skystats/airtraffic-viewer/services/api/pipeline"
)

// tableResponse writes the standard chart envelope for a summary table.
func tableResponse(c *gin.Context, table *pipeline.Table) {
	c.JSON(http.StatusOK, gin.H{
		"data": table,
		"meta": gin.H{
			"rows": len(table.Rows),
		},
	})
}

// gridResponse writes the standard chart envelope for a dense grid.
func gridResponse(c *gin.Context, grid *pipeline.Grid) {
	c.JSON(http.StatusOK, gin.H{
		"data": grid,
		"meta": gin.H{
			"rows": len(grid.RowLabels),
			"cols": len(grid.ColLabels),
		},
	})
}

// handleV1MonthlyTrend returns flight/passenger sums per (year, month)
// GET /api/v1/charts/monthly
func (s *Server) handleV1MonthlyTrend(c *gin.Context) {
	table, err := charts.MonthlyTrend(s.records)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	tableResponse(c, table)
}

// handleV1TopDestinations returns the n busiest foreign airports
// GET /api/v1/charts/top-destinations?n=10
func (s *Server) handleV1TopDestinations(c *gin.Context) {
	n := s.cfg.DefaultTopN
	if nStr := c.Query("n"); nStr != "" {
		parsed, err := strconv.Atoi(nStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid n"})
			return
		}
		n = parsed
	}

	table, err := charts.TopDestinations(s.records, n)
	if errors.Is(err, pipeline.ErrInvalidN) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "n must be positive"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	tableResponse(c, table)
}

// handleV1RegionalShares returns per-region flight sums with share percentages
// GET /api/v1/charts/regions
func (s *Server) handleV1RegionalShares(c *gin.Context) {
	table, err := charts.RegionalShares(s.records)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	tableResponse(c, table)
}

// handleV1SeasonalHeatmap returns the dense year-by-month flight matrix
// GET /api/v1/charts/heatmap
func (s *Server) handleV1SeasonalHeatmap(c *gin.Context) {
	grid, err := charts.SeasonalHeatmap(s.records)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	gridResponse(c, grid)
}

// handleV1MonthlyPolar returns normalized monthly flight distribution
// GET /api/v1/charts/polar
func (s *Server) handleV1MonthlyPolar(c *gin.Context) {
	table, err := charts.MonthlyPolar(s.records)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	tableResponse(c, table)
}

// handleV1CarrierRadar returns normalized per-carrier radar axes
// GET /api/v1/charts/radar
func (s *Server) handleV1CarrierRadar(c *gin.Context) {
	table, err := charts.CarrierRadar(s.records)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	tableResponse(c, table)
}

// handleV1AirportYearSeries returns the airport-by-year flight matrix
// GET /api/v1/charts/airport-series
func (s *Server) handleV1AirportYearSeries(c *gin.Context) {
	grid, err := charts.AirportYearSeries(s.records)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	gridResponse(c, grid)
}

// handleV1CountryTable returns per-country sums with log intensity
// GET /api/v1/charts/countries
func (s *Server) handleV1CountryTable(c *gin.Context) {
	table, err := charts.CountryTable(s.records)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	tableResponse(c, table)
}

// handleV1Routes returns route sums, color range and endpoint coordinates
// GET /api/v1/charts/routes
func (s *Server) handleV1Routes(c *gin.Context) {
	chart, err := charts.Routes(s.records)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": chart,
		"meta": gin.H{
			"routes": len(chart.Table.Rows),
		},
	})
}

// handleV1TimeSeries returns records aligned on an epoch-millisecond axis
// GET /api/v1/charts/timeseries
func (s *Server) handleV1TimeSeries(c *gin.Context) {
	table, err := charts.MonthlyTimeSeries(s.records)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	tableResponse(c, table)
}
