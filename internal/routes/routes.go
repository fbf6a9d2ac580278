package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"catalog-backend/internal/auth"
	"catalog-backend/internal/catalog"
	"catalog-backend/internal/handlers"
)

func RegisterRoutes(router *gin.Engine, service *catalog.Service, manager *auth.Manager, log *zap.Logger) {
	router.Use(handlers.RequestLogger(log))

	catalogHandler := handlers.NewCatalogHandler(service, log)
	authHandler := handlers.NewAuthHandler(manager, log)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Vanakkam Bro!"})
	})
	router.POST("/login", authHandler.Login)

	protected := router.Group("/", handlers.RequireAuth(manager))
	{
		protected.POST("/upload_product", catalogHandler.UploadProduct)
		protected.POST("/update_product", catalogHandler.UpdateProduct)
		protected.DELETE("/delete_product", catalogHandler.DeleteProduct)
		protected.GET("/get_products", catalogHandler.GetProducts)
	}
}
