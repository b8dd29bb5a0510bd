package routes

import (
	"payment_gateway/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathPing     = "/ping"
	PathMetrics  = "/metrics"
	PathSystem   = "/system-check"
	PathPayments = "/payments"
	PathWebhooks = "/webhooks"
)

func addPingRoutes(rg *gin.RouterGroup) {
	rg.GET(PathPing, handlers.Ping)
}

func addMetricsRoutes(rg *gin.RouterGroup, metricsHandler *handlers.MetricsHandler) {
	rg.GET(PathMetrics, metricsHandler.GetMetrics)
}

func addSystemCheckRoutes(rg *gin.RouterGroup, systemCheckHandler *handlers.SystemCheckHandler) {
	rg.GET(PathSystem, systemCheckHandler.SystemCheck)
}

func addPaymentRoutes(rg *gin.RouterGroup, paymentHandler *handlers.PaymentHandler, webhookHandler *handlers.WebhookHandler) {
	payments := rg.Group(PathPayments)
	{
		payments.POST("", paymentHandler.CreatePayment)
		payments.GET("/:id", paymentHandler.GetPayment)
	}

	// Providers post here; the body must stay raw until the verifier has seen it.
	webhooks := rg.Group(PathWebhooks)
	{
		webhooks.POST("/:provider", webhookHandler.HandleWebhook)
	}
}
