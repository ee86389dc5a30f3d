package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/codyseavey/card-stash/backend/internal/api/handlers"
	"github.com/codyseavey/card-stash/backend/internal/collection"
	"github.com/codyseavey/card-stash/backend/internal/config"
	"github.com/codyseavey/card-stash/backend/internal/gallery"
	"github.com/codyseavey/card-stash/backend/internal/stats"
)

// SetupRouter builds the HTTP surface over the controllers. The router is
// the presentation adapter: it owns transport concerns only and delegates
// every operation to the controllers.
func SetupRouter(cards *collection.Controller, gal *gallery.Controller, engine *stats.Engine, cfg *config.Config, log *zap.Logger) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))
	router.Use(metricsMiddleware())

	// Uploads are the expensive path: decode + rescale + re-encode per
	// request, so they get their own limiter.
	uploadLimiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.UploadRatePerMin)), cfg.UploadRatePerMin)

	cardHandler := handlers.NewCardHandler(cards, engine)
	galleryHandler := handlers.NewGalleryHandler(gal, uploadLimiter, cfg.MaxUploadBytes, log)

	api := router.Group("/api")
	{
		c := api.Group("/cards")
		{
			c.GET("", cardHandler.ListCards)
			c.POST("", cardHandler.CreateCard)
			c.PUT("/:id", cardHandler.UpdateCard)
			c.DELETE("/:id", cardHandler.DeleteCard)
			c.GET("/stats", cardHandler.GetStats)
		}

		api.GET("/tags", cardHandler.GetTags)

		g := api.Group("/gallery")
		{
			g.GET("", galleryHandler.ListItems)
			g.POST("", galleryHandler.UploadItem)
			g.PUT("/:id", galleryHandler.UpdateCaption)
			g.DELETE("/:id", galleryHandler.DeleteItem)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
