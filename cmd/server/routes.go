package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pix-charge.backend/internal/interfaces/http/handlers"
)

type routeDeps struct {
	paymentHandler *handlers.PaymentHandler
	webhookHandler *handlers.WebhookHandler
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		payments := v1.Group("/payments")
		{
			payments.POST("", d.paymentHandler.CreatePayment)
			payments.GET("/debug", d.paymentHandler.Debug)
			payments.GET("/:id", d.paymentHandler.GetPayment)
			payments.POST("/:id/approve", d.paymentHandler.ApprovePayment)
			payments.POST("/:id/reject", d.paymentHandler.RejectPayment)

			// processor notifications (public, acked unconditionally)
			payments.POST("/webhook", d.webhookHandler.HandleProcessorWebhook)
		}
	}
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "pix-charge-backend",
			"version": "0.1.0",
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
