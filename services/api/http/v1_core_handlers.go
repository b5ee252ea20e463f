package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// handleV1DatasetInfo describes the dataset currently served
// GET /api/v1/dataset
func (s *Server) handleV1DatasetInfo(c *gin.Context) {
	ds, loadedAt, ok := s.currentDataset(c)
	if !ok {
		return
	}

	data := gin.H{
		"source":       s.datasets.SourceName(),
		"observations": ds.Len(),
		"loaded_at":    loadedAt.Format(time.RFC3339),
	}
	if lo, hi, ok := ds.YearBounds(); ok {
		data["years"] = gin.H{"min": lo, "max": hi}
	}
	if lo, hi, ok := ds.TemperatureBounds(); ok {
		data["temperature"] = gin.H{"min": lo, "max": hi}
	}

	c.JSON(http.StatusOK, gin.H{
		"data": data,
		"meta": gin.H{
			"default_years":  gin.H{"from": s.cfg.DefaultYearFrom, "to": s.cfg.DefaultYearTo},
			"default_bucket": s.cfg.DefaultBucket,
		},
	})
}

// handleV1DatasetReload reloads the dataset from its source
// POST /api/v1/dataset/reload
func (s *Server) handleV1DatasetReload(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Minute)
	defer cancel()

	if err := s.datasets.Reload(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ds, loadedAt, ok := s.currentDataset(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"observations": ds.Len(),
			"loaded_at":    loadedAt.Format(time.RFC3339),
		},
	})
}

// handleV1ListCountries returns every country in the dataset
// GET /api/v1/countries
func (s *Server) handleV1ListCountries(c *gin.Context) {
	ds, _, ok := s.currentDataset(c)
	if !ok {
		return
	}

	countries := ds.Countries()
	c.JSON(http.StatusOK, gin.H{
		"data": countries,
		"meta": gin.H{
			"count": len(countries),
		},
	})
}

// handleV1ListCities returns the cities of one country
// GET /api/v1/countries/:country/cities
func (s *Server) handleV1ListCities(c *gin.Context) {
	country := c.Param("country")
	if country == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "country is required"})
		return
	}

	ds, _, ok := s.currentDataset(c)
	if !ok {
		return
	}

	cities := ds.Cities(country)
	if len(cities) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "country not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": cities,
		"meta": gin.H{
			"country": country,
			"count":   len(cities),
		},
	})
}
