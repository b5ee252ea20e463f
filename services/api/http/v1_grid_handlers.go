package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/Shizuku-climate-heatmap/services/api/climate"
)

// heatmapQuery holds the query parameters shared by all heatmap endpoints.
type heatmapQuery struct {
	From   *int   `form:"from"`
	To     *int   `form:"to"`
	Bucket string `form:"bucket"`
}

// compareQuery adds the two places of a side-by-side comparison.
type compareQuery struct {
	heatmapQuery
	CountryA string `form:"country_a" binding:"required"`
	CityA    string `form:"city_a" binding:"required"`
	CountryB string `form:"country_b" binding:"required"`
	CityB    string `form:"city_b" binding:"required"`
}

// resolve fills in configured defaults and parses the bucketing.
func (s *Server) resolve(q heatmapQuery) (climate.YearRange, climate.Bucketing, error) {
	years := climate.YearRange{From: s.cfg.DefaultYearFrom, To: s.cfg.DefaultYearTo}
	if q.From != nil {
		years.From = *q.From
	}
	if q.To != nil {
		years.To = *q.To
	}
	if years.From > years.To {
		return years, climate.Yearly, errors.New("from must not be after to")
	}

	bucket := q.Bucket
	if bucket == "" {
		bucket = s.cfg.DefaultBucket
	}
	b, err := climate.ParseBucketing(bucket)
	return years, b, err
}

// handleV1GlobalHeatmap returns the month x year grid over every city
// GET /api/v1/heatmap/global?from=2000&to=2010&bucket=yearly
func (s *Server) handleV1GlobalHeatmap(c *gin.Context) {
	s.respondHeatmap(c, climate.Filters{})
}

// handleV1CountryHeatmap returns the grid restricted to one country
// GET /api/v1/heatmap/countries/:country
func (s *Server) handleV1CountryHeatmap(c *gin.Context) {
	s.respondHeatmap(c, climate.Filters{Country: c.Param("country")})
}

// handleV1CityHeatmap returns the grid restricted to one city
// GET /api/v1/heatmap/countries/:country/cities/:city
func (s *Server) handleV1CityHeatmap(c *gin.Context) {
	s.respondHeatmap(c, climate.Filters{Country: c.Param("country"), City: c.Param("city")})
}

func (s *Server) respondHeatmap(c *gin.Context, f climate.Filters) {
	var q heatmapQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	years, bucket, err := s.resolve(q)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ds, _, ok := s.currentDataset(c)
	if !ok {
		return
	}

	f.Years = years
	hm, err := climate.NewHeatmap(ds, f, bucket)
	if err != nil {
		writeBuildError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": hm,
		"meta": gin.H{
			"empty":   hm.Grid.IsEmpty(),
			"rows":    len(hm.Grid.Rows),
			"columns": len(hm.Grid.Columns),
		},
	})
}

// handleV1CompareHeatmap returns two city grids drawn on the same scale
// GET /api/v1/heatmap/compare?country_a=Peru&city_a=Lima&country_b=Canada&city_b=Toronto
func (s *Server) handleV1CompareHeatmap(c *gin.Context) {
	var q compareQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	years, bucket, err := s.resolve(q.heatmapQuery)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ds, _, ok := s.currentDataset(c)
	if !ok {
		return
	}

	pair, err := climate.Compare(ds, years,
		climate.Filters{Country: q.CountryA, City: q.CityA},
		climate.Filters{Country: q.CountryB, City: q.CityB},
		bucket,
	)
	if err != nil {
		writeBuildError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": pair,
		"meta": gin.H{
			"years":       years,
			"left_empty":  pair.Left.Grid.IsEmpty(),
			"right_empty": pair.Right.Grid.IsEmpty(),
		},
	})
}

func writeBuildError(c *gin.Context, err error) {
	if errors.Is(err, climate.ErrInvalidFilters) || errors.Is(err, climate.ErrInvalidBucketing) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
