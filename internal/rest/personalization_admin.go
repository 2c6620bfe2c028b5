package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"okazjeplus/business/segmentation"
	"okazjeplus/domain"
	"okazjeplus/pkg/logger"
	"okazjeplus/pkg/trace"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	PersonalizationAdminHandler struct {
		validate   *validator.Validate
		service    PersonalizationService
		scores     ScoreReader
		statistics SegmentStatistics
	}

	PersonalizationService interface {
		GetUserSegment(ctx context.Context, userID string, forceRecalculate bool) (domain.UserSegment, error)
		CalculateBehaviorScores(ctx context.Context, userID string) (domain.BehaviorScore, error)
	}

	ScoreReader interface {
		GetScore(ctx context.Context, userID string) (domain.BehaviorScore, bool, error)
	}

	SegmentStatistics interface {
		CountBySegmentType(ctx context.Context) ([]domain.SegmentCount, error)
	}

	UserPathParam struct {
		UserID string `param:"user_id" validate:"required,max=128"`
	}

	SegmentQuery struct {
		UserID string `param:"user_id" validate:"required,max=128"`
		Force  bool   `query:"force"`
	}

	SegmentStatsResponse struct {
		Total    int64                 `json:"total"`
		Segments []domain.SegmentCount `json:"segments"`
	}

	ResponseError struct {
		Message string `json:"message"`
	}
)

func NewPersonalizationAdminHandler(
	validate *validator.Validate,
	service PersonalizationService,
	scores ScoreReader,
	statistics SegmentStatistics,
) *PersonalizationAdminHandler {
	return &PersonalizationAdminHandler{
		validate:   validate,
		service:    service,
		scores:     scores,
		statistics: statistics,
	}
}

// GET /api/v1/admin/personalization/segments/:user_id?force=true
func (h *PersonalizationAdminHandler) GetSegment(c echo.Context) error {
	var q SegmentQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	segment, err := h.service.GetUserSegment(c.Request().Context(), q.UserID, q.Force)
	if err != nil {
		return h.serviceError(c, "get segment", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(segment))
}

// GET /api/v1/admin/personalization/scores/:user_id
func (h *PersonalizationAdminHandler) GetScores(c echo.Context) error {
	var p UserPathParam
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	score, found, err := h.scores.GetScore(c.Request().Context(), p.UserID)
	if err != nil {
		return h.serviceError(c, "get scores", fmt.Errorf("%w: %w", segmentation.ErrUpstreamUnavailable, err))
	}
	if !found {
		return c.JSON(http.StatusNotFound, ResponseError{Message: "behavior scores not found"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(score))
}

// POST /api/v1/admin/personalization/scores/:user_id/recalculate
func (h *PersonalizationAdminHandler) RecalculateScores(c echo.Context) error {
	var p UserPathParam
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	score, err := h.service.CalculateBehaviorScores(c.Request().Context(), p.UserID)
	if err != nil {
		return h.serviceError(c, "recalculate scores", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(score))
}

// GET /api/v1/admin/personalization/segments/stats
func (h *PersonalizationAdminHandler) SegmentStats(c echo.Context) error {
	counts, err := h.statistics.CountBySegmentType(c.Request().Context())
	if err != nil {
		return h.serviceError(c, "segment stats", fmt.Errorf("%w: %w", segmentation.ErrUpstreamUnavailable, err))
	}

	bySegment := make(map[domain.SegmentType]int64, len(counts))
	for _, sc := range counts {
		bySegment[sc.SegmentType] = sc.Users
	}

	resp := SegmentStatsResponse{Segments: make([]domain.SegmentCount, 0, len(domain.SegmentTypes))}
	for _, st := range domain.SegmentTypes {
		n := bySegment[st]
		resp.Total += n
		resp.Segments = append(resp.Segments, domain.SegmentCount{SegmentType: st, Users: n})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(resp))
}

func (h *PersonalizationAdminHandler) serviceError(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, segmentation.ErrInvalidUserID):
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	case errors.Is(err, segmentation.ErrUpstreamUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		logger.Warn("personalization_unavailable",
			"trace_id", trace.TraceIDFromContext(c.Request().Context()),
			"op", op,
			"error", err,
		)
		return c.JSON(http.StatusServiceUnavailable, ResponseError{Message: "personalization store unavailable"})
	default:
		logger.Error("personalization_failed",
			"trace_id", trace.TraceIDFromContext(c.Request().Context()),
			"op", op,
			"error", err,
		)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "internal error"})
	}
}
