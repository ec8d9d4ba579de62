package pipeline

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/clinmart/clinmart/internal/domain/runlog"
	"github.com/clinmart/clinmart/internal/platform/auth"
)

type Handler struct {
	runner *Runner
	runs   runlog.Repository
}

func NewHandler(runner *Runner, runs runlog.Repository) *Handler {
	return &Handler{runner: runner, runs: runs}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	admin := api.Group("", auth.RequireRole("admin"))
	admin.POST("/refresh", h.RefreshAll)
	admin.POST("/refresh/:component", h.RefreshComponent)

	read := api.Group("", auth.RequireRole("admin", "analyst"))
	read.GET("/components", h.ListComponents)
	read.GET("/runs", h.ListRuns)
}

func (h *Handler) RefreshAll(c echo.Context) error {
	results, err := h.runner.RunAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error":   err.Error(),
			"results": results,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"results": results})
}

func (h *Handler) RefreshComponent(c echo.Context) error {
	name := c.Param("component")
	result, err := h.runner.RunComponent(c.Request().Context(), name)
	if err != nil {
		if result.Component == "" {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error":  err.Error(),
			"result": result,
		})
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) ListComponents(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{"components": h.runner.Components()})
}

func (h *Handler) ListRuns(c echo.Context) error {
	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = n
	}
	runs, err := h.runs.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if runs == nil {
		runs = []*runlog.RunRecord{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"runs": runs})
}
