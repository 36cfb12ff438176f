// Package httpapi exposes the insight and search operations over HTTP.
// It owns presentation concerns only; all analysis lives in the use cases.
package httpapi

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"reviewgenius/internal/ports"
	"reviewgenius/internal/usecase"
)

// NewRouter wires all endpoints into a gin engine.
func NewRouter(insights *usecase.Insights, search *usecase.Search, products ports.ProductStore, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	h := &handlers{insights: insights, search: search, products: products, logger: logger}

	router.GET("/healthz", h.health)
	router.GET("/search", h.searchProducts)

	product := router.Group("/products/:asin")
	{
		product.GET("", h.product)
		product.GET("/scores", h.scores)
		product.GET("/keywords", h.keywords)
		product.GET("/validate", h.validate)
		product.GET("/reviews/search", h.searchReviews)
		product.POST("/extract", h.extract)
	}

	return router
}
