package api

import (
	"errors"
	"net/http"
	"time"

	models "Moonlander/internal/domain/models"
	"Moonlander/internal/usecase"
	xhttp "Moonlander/pkg/http"
	xlogger "Moonlander/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SignalsEchoHandler serves the signal query API over the published batch.
type SignalsEchoHandler struct {
	logger *xlogger.Logger
	query  *usecase.Query
	gen    *usecase.Generator
	hub    *Hub
}

func NewSignalsEchoHandler(logger *xlogger.Logger, query *usecase.Query, gen *usecase.Generator, hub *Hub) *SignalsEchoHandler {
	return &SignalsEchoHandler{logger: logger, query: query, gen: gen, hub: hub}
}

func (h *SignalsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/signals", h.Signals)
	g.GET("/signals/:symbol", h.Symbol)
	g.GET("/summary", h.Summary)
	g.GET("/categories", h.Categories)
	g.POST("/refresh", h.Refresh)

	e.GET("/ws/signals", h.hub.Serve)
	e.GET("/healthz", h.Health)
}

func (h *SignalsEchoHandler) Signals(c echo.Context) error {
	req := &models.SignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.query.Signals(req)
	if err != nil {
		return h.queryError(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, res)
}

func (h *SignalsEchoHandler) Symbol(c echo.Context) error {
	symbol := c.Param("symbol")

	res, err := h.query.Symbol(symbol)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUnknownSymbol):
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("symbol %q is not tracked", symbol))
		case errors.Is(err, usecase.ErrDegradedSymbol):
			return xhttp.AppErrorResponse(c, xhttp.DegradedErrorf("no data for %q this cycle", symbol))
		default:
			return h.queryError(c, err)
		}
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *SignalsEchoHandler) Summary(c echo.Context) error {
	batch, err := h.query.Summary()
	if err != nil {
		return h.queryError(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"generated_at": batch.GeneratedAt.Format(time.RFC3339),
		"age_seconds":  int(time.Since(batch.GeneratedAt).Seconds()),
		"total_assets": batch.TotalAssets,
		"summary":      batch.Summary,
	})
}

func (h *SignalsEchoHandler) Categories(c echo.Context) error {
	cats, err := h.query.Categories()
	if err != nil {
		return h.queryError(c, err)
	}
	return xhttp.SuccessResponse(c, cats)
}

func (h *SignalsEchoHandler) Refresh(c echo.Context) error {
	started := h.gen.Refresh()
	if !started {
		h.logger.Info("refresh joined in-flight cycle")
	}
	return xhttp.AcceptedResponse(c, models.RefreshResponse{Started: started})
}

func (h *SignalsEchoHandler) Health(c echo.Context) error {
	status := map[string]interface{}{"status": "ok"}
	if batch, err := h.query.Summary(); err == nil {
		status["generated_at"] = batch.GeneratedAt.Format(time.RFC3339)
		status["age_seconds"] = int(time.Since(batch.GeneratedAt).Seconds())
	} else {
		status["status"] = "warming"
	}
	return c.JSON(http.StatusOK, status)
}

func (h *SignalsEchoHandler) queryError(c echo.Context, err error) error {
	if errors.Is(err, usecase.ErrNoBatch) {
		return xhttp.AppErrorResponse(c, xhttp.UnavailableError("no signals published yet"))
	}
	h.logger.Error("query error", xlogger.Error(err))
	return xhttp.AppErrorResponse(c, err)
}
