package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/facturave/facturave/internal/apperrors"
	"github.com/facturave/facturave/internal/core/ports"
	portssvc "github.com/facturave/facturave/internal/core/ports/services"
	"github.com/facturave/facturave/internal/dto"
	"github.com/facturave/facturave/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// dailyRateHandler handles HTTP requests for stored daily rates.
type dailyRateHandler struct {
	dailyRateService portssvc.DailyRateSvcFacade
}

func newDailyRateHandler(drs portssvc.DailyRateSvcFacade) *dailyRateHandler {
	return &dailyRateHandler{dailyRateService: drs}
}

// registerDailyRateRoutes registers the rate management routes. The sync
// endpoint sits behind the rate limiter so schedulers cannot hammer the feed.
func registerDailyRateRoutes(rg *gin.RouterGroup, dailyRateService portssvc.DailyRateSvcFacade, syncLimiter *limiter.Limiter) {
	h := newDailyRateHandler(dailyRateService)

	rates := rg.Group("/rates")
	{
		rates.POST("/sync", middleware.RateLimit(syncLimiter), h.syncRates)
		rates.POST("/manual", h.createManualRate)
		rates.GET("/latest", h.getLatestRate)
		rates.GET("/history", h.getRateHistory)
		rates.GET("/audit", h.getRateAudit)
		rates.GET("/status", h.getProviderStatus)
	}
}

func (h *dailyRateHandler) syncRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID := c.Query("companyID")
	if companyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "companyID query parameter is required"})
		return
	}
	force := c.Query("force") == "true"

	result, err := h.dailyRateService.SyncProviderRates(c.Request.Context(), companyID, actorUserID(c), force)
	if err != nil {
		logger.Error("feed sync failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sync rates"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *dailyRateHandler) createManualRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateManualRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("failed to bind manual rate request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error()})
		return
	}

	created, err := h.dailyRateService.CreateManualRate(c.Request.Context(), req, actorUserID(c))
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrInvalidRate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("failed to create manual rate", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create manual rate"})
		return
	}

	logger.Info("manual rate created",
		slog.String("rate_id", created.DailyRateID),
		slog.String("pair", created.Pair().String()),
	)
	c.JSON(http.StatusCreated, dto.ToDailyRateResponse(created))
}

func (h *dailyRateHandler) getLatestRate(c *gin.Context) {
	companyID, from, to, ok := pairQuery(c)
	if !ok {
		return
	}

	rate, err := h.dailyRateService.GetLatestRate(c.Request.Context(), companyID, from, to)
	if err != nil {
		respondRateLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDailyRateResponse(rate))
}

func (h *dailyRateHandler) getRateHistory(c *gin.Context) {
	companyID, from, to, ok := pairQuery(c)
	if !ok {
		return
	}

	filter := ports.RateHistoryFilter{}
	if s := c.Query("startDate"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "startDate must be YYYY-MM-DD"})
			return
		}
		filter.StartDate = t
	}
	if s := c.Query("endDate"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "endDate must be YYYY-MM-DD"})
			return
		}
		filter.EndDate = t
	}
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		filter.Limit = n
	}

	rates, err := h.dailyRateService.GetRateHistory(c.Request.Context(), companyID, from, to, filter)
	if err != nil {
		respondRateLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListDailyRateResponse(rates))
}

func (h *dailyRateHandler) getRateAudit(c *gin.Context) {
	companyID, from, to, ok := pairQuery(c)
	if !ok {
		return
	}

	rateDate, err := time.Parse("2006-01-02", c.Query("rateDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rateDate query parameter must be YYYY-MM-DD"})
		return
	}

	rates, err := h.dailyRateService.GetRateAudit(c.Request.Context(), companyID, from, to, rateDate)
	if err != nil {
		respondRateLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListDailyRateResponse(rates))
}

func (h *dailyRateHandler) getProviderStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.dailyRateService.ProviderStatus(c.Request.Context()))
}

// pairQuery extracts the common companyID/from/to query parameters, writing
// the error response itself when any is missing.
func pairQuery(c *gin.Context) (companyID, from, to string, ok bool) {
	companyID = c.Query("companyID")
	from = c.Query("from")
	to = c.Query("to")
	if companyID == "" || from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "companyID, from and to query parameters are required"})
		return "", "", "", false
	}
	return companyID, from, to, true
}

func respondRateLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "no rate found for the requested pair"})
	default:
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("rate lookup failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve rates"})
	}
}
