package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ziedsaddem/hotelbooking/internal/apperr"
	"github.com/ziedsaddem/hotelbooking/internal/cache"
	"github.com/ziedsaddem/hotelbooking/internal/filter"
	"github.com/ziedsaddem/hotelbooking/internal/models"
	"github.com/ziedsaddem/hotelbooking/internal/mygo"
	"github.com/ziedsaddem/hotelbooking/internal/obs"
)

// Supplier is the slice of the MyGO facade the search handlers consume.
type Supplier interface {
	SearchHotels(ctx context.Context, raw mygo.RawSearchParams) (*mygo.SearchResult, error)
	ListCities(ctx context.Context) (json.RawMessage, error)
	ListHotels(ctx context.Context, cityID int) (json.RawMessage, error)
}

type SearchHandler struct {
	supplier Supplier
	cache    cache.Cache
	metrics  *obs.Metrics
}

func NewSearchHandler(supplier Supplier, c cache.Cache, m *obs.Metrics) *SearchHandler {
	return &SearchHandler{
		supplier: supplier,
		cache:    c,
		metrics:  m,
	}
}

func (h *SearchHandler) Search(c echo.Context) error {
	startTime := time.Now()
	ctx := c.Request().Context()

	var req models.HotelSearchRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, apperr.NewValidation("failed to parse request body: "+err.Error()))
	}

	params, err := mygo.ValidateSearchParams(req.RawSearchParams)
	if err != nil {
		return writeError(c, err)
	}

	criteria := filter.Criteria{
		Keywords:   params.Keywords,
		Categories: params.Categories,
		Tags:       params.Tags,
	}

	if cached, found := h.cache.Get(ctx, params); found {
		if h.metrics != nil {
			h.metrics.IncCacheHits()
		}
		filtered := filter.Apply(cached, criteria, req.SortBy, req.SortOrder)
		return c.JSON(http.StatusOK, models.SearchResponse{
			Metadata: models.SearchMetadata{
				TotalResults: len(filtered),
				SearchTimeMs: time.Since(startTime).Milliseconds(),
				CacheHit:     true,
			},
			Hotels: filtered,
		})
	}

	result, err := h.supplier.SearchHotels(ctx, req.RawSearchParams)
	if err != nil {
		return writeError(c, err)
	}

	_ = h.cache.Set(ctx, params, result.Hotels)
	filtered := filter.Apply(result.Hotels, criteria, req.SortBy, req.SortOrder)

	return c.JSON(http.StatusOK, models.SearchResponse{
		Metadata: models.SearchMetadata{
			TotalResults: len(filtered),
			SearchTimeMs: time.Since(startTime).Milliseconds(),
			CacheHit:     false,
		},
		Hotels: filtered,
	})
}

func (h *SearchHandler) Cities(c echo.Context) error {
	cities, err := h.supplier.ListCities(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSONBlob(http.StatusOK, cities)
}

func (h *SearchHandler) Hotels(c echo.Context) error {
	cityID, err := strconv.Atoi(c.QueryParam("cityId"))
	if err != nil || cityID <= 0 {
		return writeError(c, apperr.NewValidation("cityId is required (positive integer)"))
	}

	hotels, err := h.supplier.ListHotels(c.Request().Context(), cityID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSONBlob(http.StatusOK, hotels)
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
