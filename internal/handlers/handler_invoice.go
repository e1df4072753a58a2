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

// invoiceHandler handles HTTP requests for invoice computations.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceCalculationSvcFacade
}

func newInvoiceHandler(is portssvc.InvoiceCalculationSvcFacade) *invoiceHandler {
	return &invoiceHandler{invoiceService: is}
}

func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceCalculationSvcFacade) {
	h := newInvoiceHandler(invoiceService)

	invoices := rg.Group("/invoices")
	{
		invoices.POST("/preview", h.previewInvoice)
	}
}

// previewInvoice computes an invoice without persisting anything. The result
// is the caller's to keep; recomputing within the same rate day yields the
// same figures.
func (h *invoiceHandler) previewInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ComputeInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("failed to bind invoice request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error()})
		return
	}

	result, err := h.invoiceService.ComputeInvoice(c.Request.Context(), req, actorUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidRate):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrReferencePriceMissing):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrRateNotAvailable):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			logger.Error("invoice computation failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute invoice"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceComputationResponse(result))
}
