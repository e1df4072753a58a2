package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/facturave/facturave/internal/apperrors"
	portssvc "github.com/facturave/facturave/internal/core/ports/services"
	"github.com/facturave/facturave/internal/dto"
	"github.com/facturave/facturave/internal/middleware"
	"github.com/gin-gonic/gin"
)

// conversionHandler handles HTTP requests for amount conversion.
type conversionHandler struct {
	resolverService portssvc.RateResolverSvcFacade
}

func newConversionHandler(rs portssvc.RateResolverSvcFacade) *conversionHandler {
	return &conversionHandler{resolverService: rs}
}

func registerConversionRoutes(rg *gin.RouterGroup, resolverService portssvc.RateResolverSvcFacade) {
	h := newConversionHandler(resolverService)
	rg.POST("/conversion", h.convert)
}

func (h *conversionHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("failed to bind conversion request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error()})
		return
	}

	result, err := h.resolverService.Convert(c.Request.Context(), req, actorUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidRate):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrRateNotAvailable):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			logger.Error("conversion failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to convert amount"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToConversionResponse(result))
}
