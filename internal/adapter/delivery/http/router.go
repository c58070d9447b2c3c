package http

import (
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	httpHandler "blockpoints-bridge/internal/adapter/handler/http"
)

// RegisterRoutes sets up the bridge routes and the health check.
func RegisterRoutes(r *router.Router, h *httpHandler.BridgeHandler, logger *zap.Logger) {
	logger.Info("Setting up transfer routes...")
	r.POST("/transfers", h.InitiateTransfer)
	r.GET("/transfers/{transferId}", h.GetTransfer)
	r.POST("/transfers/{transferId}/cancel", h.CancelTransfer)
	r.PUT("/transfers/{transferId}/status", h.UpdateTransferStatus)
	r.GET("/transfers/{transferId}/events", h.ListEvents)
	r.GET("/users/{userId}/transfers", h.ListUserTransfers)

	logger.Info("Setting up chain and stats routes...")
	r.GET("/chains", h.ListChains)
	r.POST("/chains", h.AddChain)
	r.GET("/chains/{chainId}/transfers", h.ListChainTransfers)
	r.GET("/stats", h.GetStats)
	r.GET("/events", h.ListEvents)

	logger.Info("Setting up admin routes...")
	admin := r.Group("/admin")
	admin.POST("/pause", h.Pause)
	admin.POST("/unpause", h.Unpause)
	admin.PUT("/fee", h.UpdateFee)
	admin.PUT("/limits", h.UpdateLimits)
	admin.POST("/fees/collect", h.CollectFees)
	admin.GET("/policy", h.GetPolicy)

	logger.Info("Setting up health check route...")
	r.GET("/health", h.Health)

	logger.Info("All routes registered.")
}

// LoggingMiddleware logs every request with its status and latency.
func LoggingMiddleware(next fasthttp.RequestHandler, logger *zap.Logger) fasthttp.RequestHandler {
	logger = logger.Named("HTTP")
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		next(ctx)
		logger.Info("Request handled",
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("uri", ctx.RequestURI()),
			zap.Int("status", ctx.Response.StatusCode()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
