package main

import (
	"whatsapp-notify/internal/api"
	"whatsapp-notify/internal/config"
	"whatsapp-notify/internal/database"
	"whatsapp-notify/internal/dispatch"
	"whatsapp-notify/internal/events"
	"whatsapp-notify/internal/health"
	"whatsapp-notify/internal/templates"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.LoadConfig()

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	if err := database.InitGorm(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}

	registry := templates.Default()
	resolver, err := events.NewResolver(registry)
	if err != nil {
		logrus.WithError(err).Fatal("Invalid event mapping configuration")
	}

	client := dispatch.NewClient(cfg, registry)
	aggregator := health.NewAggregator(cfg, database.GormDB, client, registry)

	templateHandler := api.NewTemplateHandler(client, registry, database.GormDB)
	eventHandler := api.NewEventHandler(client, resolver, database.GormDB)
	healthHandler := api.NewHealthHandler(aggregator)
	deliveryHandler := api.NewDeliveryHandler(database.GormDB)

	r := gin.Default()

	// CORS Middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	templateGroup := r.Group("/templates")
	{
		templateGroup.POST("/send", templateHandler.SendTemplate)
		templateGroup.GET("/send", templateHandler.ListTemplates)
		templateGroup.POST("/sync", templateHandler.SyncTemplates)
	}

	whatsappGroup := r.Group("/whatsapp")
	{
		whatsappGroup.POST("/send-event", eventHandler.SendEvent)
		whatsappGroup.POST("/preview", eventHandler.PreviewEvent)
		whatsappGroup.GET("/health", healthHandler.Check)
	}

	r.GET("/deliveries", deliveryHandler.GetDeliveries)

	logrus.WithField("port", cfg.Port).Info("Server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("Failed to run server")
	}
}
