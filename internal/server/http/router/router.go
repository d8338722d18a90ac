package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/catering/internal/server/http/handlers"
	"github.com/polkiloo/catering/internal/server/http/middleware"
)

const streamPath = "/api/notifications/stream"

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.CateringFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{streamPath})))

	orderHandler := handlers.NewOrderHandler(facade)
	invoiceHandler := handlers.NewInvoiceHandler(facade)
	notificationHandler := handlers.NewNotificationHandler(facade)

	api := engine.Group("/api")
	api.Use(middleware.AuthRequired(facade))

	orders := api.Group("/orders")
	orders.POST("", orderHandler.Place)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.POST("/:id/transitions", orderHandler.Transition)
	orders.GET("/:id/timeline", orderHandler.Timeline)
	orders.GET("/:id/audit", orderHandler.Audit)
	orders.POST("/:id/invoice", invoiceHandler.Generate)

	invoices := api.Group("/invoices")
	invoices.GET("", invoiceHandler.List)
	invoices.POST("/:id/pay", invoiceHandler.Pay)

	notifications := api.Group("/notifications")
	notifications.GET("", notificationHandler.List)
	notifications.GET("/unread", notificationHandler.Unread)
	notifications.POST("/read", notificationHandler.MarkRead)
	notifications.GET("/stream", notificationHandler.Stream)

	return engine
}
