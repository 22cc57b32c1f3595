package httpapi

import (
	"net/http"
	"time"

	"prizepool/domain/interfaces"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// NewRouter builds the gin engine with all lottery routes
func NewRouter(uowFactory interfaces.UnitOfWorkFactory) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())

	paymentHandler := NewPaymentHandler(uowFactory)
	drawHandler := NewDrawHandler(uowFactory)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		payments := api.Group("/payments")
		{
			payments.POST("", paymentHandler.SubmitPayment)
			payments.POST("/:id/decision", paymentHandler.Decide)
			payments.GET("", paymentHandler.ListPayments)
		}

		draws := api.Group("/draws")
		{
			draws.POST("/participate", drawHandler.Participate)
		}

		api.GET("/winners", drawHandler.RecentWinners)
		api.GET("/pool", drawHandler.PoolSnapshot)
	}

	return router
}

// requestLogger logs each request with method, path, status and latency
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Info("Request handled")
	}
}
