package api

import (
	"errors"
	"net/http"

	"steamweb-prices/internal/prices"

	"github.com/gin-gonic/gin"
)

type APIHandler struct {
	service *prices.Service
}

func SetupRoutes(r *gin.RouterGroup, service *prices.Service) *APIHandler {
	handler := &APIHandler{service: service}

	r.GET("/prices", handler.GetPrices)
	r.GET("/games", handler.ListGames)

	return handler
}

// GetPrices serves the normalized price table for one game.
// Query params: game, currency, full (true for every column), shape
// (table or map).
func (h *APIHandler) GetPrices(c *gin.Context) {
	opts := prices.Options{
		Game:             c.DefaultQuery("game", "cs2"),
		Currency:         c.DefaultQuery("currency", "EUR"),
		ReturnEverything: c.Query("full") == "true",
		ReturnType:       c.DefaultQuery("shape", prices.ReturnTable),
	}

	result, err := h.service.GetPrices(c.Request.Context(), opts)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	if result.ReturnEverything {
		if result.ReturnType == prices.ReturnMap {
			c.JSON(http.StatusOK, prices.ByName(result.Rows))
			return
		}
		c.JSON(http.StatusOK, result.Rows)
		return
	}

	minimal := result.MinimalRows()
	if result.ReturnType == prices.ReturnMap {
		c.JSON(http.StatusOK, prices.MinimalByName(minimal))
		return
	}
	c.JSON(http.StatusOK, minimal)
}

func (h *APIHandler) ListGames(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"games": prices.Games()})
}

// statusFor separates caller mistakes from upstream trouble: bad options are
// 400, a failed fetch or a malformed upstream batch (InputShapeError) is 502.
func statusFor(err error) int {
	if errors.Is(err, prices.ErrEmptyAPIKey) ||
		errors.Is(err, prices.ErrUnsupportedGame) ||
		errors.Is(err, prices.ErrUnsupportedReturnType) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}
