package handlers

import (
	"log/slog"

	portssvc "github.com/facturave/facturave/internal/core/ports/services"
	"github.com/facturave/facturave/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service container interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to the
// per-entity route registrations.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1")

	registerDailyRateRoutes(v1, services.DailyRate, newSyncLimiter(cfg))
	registerConversionRoutes(v1, services.RateResolver)
	registerInvoiceRoutes(v1, services.InvoiceCalculation)
}

// newSyncLimiter builds the throttle applied to the feed sync endpoint.
func newSyncLimiter(cfg *config.Config) *limiter.Limiter {
	rate, err := limiter.NewRateFromFormatted(cfg.SyncRateLimit)
	if err != nil {
		slog.Warn("invalid SYNC_RATE_LIMIT, defaulting to 10 per hour", slog.String("value", cfg.SyncRateLimit))
		rate, _ = limiter.NewRateFromFormatted("10-H")
	}
	return limiter.New(memory.NewStore(), rate)
}

// actorUserID identifies the acting back-office user for the audit trail.
// Authentication lives at the gateway; the forwarded header is trusted here.
func actorUserID(c *gin.Context) string {
	if id := c.GetHeader("X-User-ID"); id != "" {
		return id
	}
	return "system"
}
