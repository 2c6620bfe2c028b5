package router

import (
	"okazjeplus/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetInteractionRoutes(api *echo.Group, handler *rest.InteractionHandler, authRequired echo.MiddlewareFunc) {
	interactions := api.Group("/interactions", authRequired)
	interactions.POST("", handler.Track)
}

func SetPersonalizationAdminRoutes(api *echo.Group, handler *rest.PersonalizationAdminHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	admin := api.Group("/admin/personalization", authRequired, adminOnly)

	admin.GET("/segments/stats", handler.SegmentStats)
	admin.GET("/segments/:user_id", handler.GetSegment)
	admin.GET("/scores/:user_id", handler.GetScores)
	admin.POST("/scores/:user_id/recalculate", handler.RecalculateScores)
}
