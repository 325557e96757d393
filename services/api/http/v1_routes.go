package http

// registerV1Routes sets up the v1 API structure.
// Groups: /api/v1/core, /api/v1/charts
func (s *Server) registerV1Routes() {
	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware()) // Add X-API-Version: v1 header

	// Core endpoints - dataset metadata
	core := v1.Group("/core")
	{
		core.GET("/dataset", s.handleV1DatasetMeta)
	}

	// Chart endpoints - one summary table per chart of the viewer
	charts := v1.Group("/charts")
	{
		charts.GET("/monthly", s.handleV1MonthlyTrend)
		charts.GET("/top-destinations", s.handleV1TopDestinations)
		charts.GET("/regions", s.handleV1RegionalShares)
		charts.GET("/heatmap", s.handleV1SeasonalHeatmap)
		charts.GET("/polar", s.handleV1MonthlyPolar)
		charts.GET("/radar", s.handleV1CarrierRadar)
		charts.GET("/airport-series", s.handleV1AirportYearSeries)
		charts.GET("/countries", s.handleV1CountryTable)
		charts.GET("/routes", s.handleV1Routes)
		charts.GET("/timeseries", s.handleV1TimeSeries)
	}
}
