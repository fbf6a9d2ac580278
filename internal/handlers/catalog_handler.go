package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"catalog-backend/internal/assetstore"
	"catalog-backend/internal/catalog"
	"catalog-backend/internal/models"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ProductListResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    []models.Product `json:"data"`
}

type CatalogHandler struct {
	service *catalog.Service
	log     *zap.Logger
}

func NewCatalogHandler(service *catalog.Service, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{service: service, log: log}
}

// POST /upload_product
func (h *CatalogHandler) UploadProduct(c *gin.Context) {
	var req models.UploadProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.service.Upload(c.Request.Context(), req); err != nil {
		h.log.Error("upload product failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Product uploaded successfully"})
}

// POST /update_product
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	changed, err := h.service.Update(c.Request.Context(), req.OldData, req.NewData)
	if err != nil {
		h.log.Error("update product failed", zap.Error(err))
		status := http.StatusInternalServerError
		if errors.Is(err, assetstore.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}

	if !changed {
		c.JSON(http.StatusOK, gin.H{"message": "No changes made"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully"})
}

// DELETE /delete_product?category=&name=
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	category := c.Query("category")
	name := c.Query("name")
	if category == "" || name == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "category and name are required"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), category, name); err != nil {
		h.log.Error("delete product failed", zap.Error(err))
		status := http.StatusInternalServerError
		if errors.Is(err, assetstore.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// GET /get_products?category=&subcategory=
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "category is required"})
		return
	}

	products, err := h.service.List(c.Request.Context(), category, c.Query("subcategory"))
	if err != nil {
		h.log.Error("list products failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, ProductListResponse{
		Success: true,
		Message: "Products fetched successfully",
		Data:    products,
	})
}
