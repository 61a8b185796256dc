package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/siherrmann/assessor/model"
)

// DefaultTopK is used when a recommend request omits top_k.
const DefaultTopK = 6

// Recommender is the recommendation backend served over HTTP.
type Recommender interface {
	Recommend(ctx context.Context, query string, topK int) ([]model.Recommendation, error)
	CatalogSize(ctx context.Context) (int, error)
}

// RecommendRequest is the body of POST /recommend.
type RecommendRequest struct {
	Query string `json:"query"`
	TopK  *int   `json:"top_k"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status            string `json:"status"`
	AssessmentsLoaded int    `json:"assessments_loaded"`
}

type handler struct {
	recommender Recommender
	log         *slog.Logger
}

func (h *handler) root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "SHL Assessment Recommendation API is running"})
}

func (h *handler) health(c echo.Context) error {
	size, err := h.recommender.CatalogSize(c.Request().Context())
	if err != nil {
		h.log.Warn("Health check failed", slog.String("error", err.Error()))
		return c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy"})
	}
	return c.JSON(http.StatusOK, HealthResponse{Status: "healthy", AssessmentsLoaded: size})
}

func (h *handler) recommend(c echo.Context) error {
	var req RecommendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Query) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query must not be empty")
	}
	topK := DefaultTopK
	if req.TopK != nil {
		topK = *req.TopK
	}

	recs, err := h.recommender.Recommend(c.Request().Context(), req.Query, topK)
	switch {
	case errors.Is(err, model.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrRetrievalUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "retrieval unavailable").SetInternal(err)
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, "recommendation failed").SetInternal(err)
	}

	if recs == nil {
		recs = []model.Recommendation{}
	}
	return c.JSON(http.StatusOK, recs)
}
