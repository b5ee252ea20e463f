package http

import "github.com/gin-gonic/gin"

// registerV1Routes sets up the v1 API structure
// Groups: /api/v1/dataset, /api/v1/countries, /api/v1/heatmap
func (s *Server) registerV1Routes() {
	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware()) // Add X-API-Version: v1 header

	// Dataset endpoints - snapshot metadata and reload
	ds := v1.Group("/dataset")
	{
		ds.GET("", s.handleV1DatasetInfo)
		ds.POST("/reload", s.handleV1DatasetReload)
	}

	// Selection endpoints - values for country/city pickers
	countries := v1.Group("/countries")
	{
		countries.GET("", s.handleV1ListCountries)
		countries.GET("/:country/cities", s.handleV1ListCities)
	}

	// Heatmap endpoints - month x year/decade grids
	heatmap := v1.Group("/heatmap")
	{
		heatmap.GET("/global", s.handleV1GlobalHeatmap)
		heatmap.GET("/countries/:country", s.handleV1CountryHeatmap)
		heatmap.GET("/countries/:country/cities/:city", s.handleV1CityHeatmap)
		heatmap.GET("/compare", s.handleV1CompareHeatmap)
	}
}

func apiVersionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-API-Version", "v1")
		c.Next()
	}
}
