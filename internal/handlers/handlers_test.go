package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"catalog-backend/internal/assetstore"
	"catalog-backend/internal/auth"
	"catalog-backend/internal/cache"
	"catalog-backend/internal/catalog"
	"catalog-backend/internal/models"
	"catalog-backend/internal/routes"
)

func newTestRouter(t *testing.T) (*gin.Engine, *auth.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := assetstore.NewMemoryStore()
	srv := httptest.NewServer(store)
	t.Cleanup(srv.Close)
	store.SetBaseURL(srv.URL)

	listingCache := cache.New(time.Hour)
	t.Cleanup(listingCache.Close)

	service := catalog.NewService(store, listingCache, "/Test_Assets", zap.NewNop())

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	manager := auth.NewManager("test-secret", time.Hour, "admin@example.com", string(hash))

	router := gin.New()
	routes.RegisterRoutes(router, service, manager, zap.NewNop())
	return router, manager
}

func doJSON(t *testing.T, router *gin.Engine, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func adminToken(t *testing.T, manager *auth.Manager) string {
	t.Helper()
	token, err := manager.Login("admin@example.com", "hunter2")
	require.NoError(t, err)
	return token
}

func uploadBody(category, name, description string) map[string]interface{} {
	return map[string]interface{}{
		"category":      category,
		"name":          name,
		"description":   description,
		"product_image": map[string]string{"url": "https://example.com/item.jpg"},
		"model_image":   map[string]string{"url": "https://example.com/model.jpg"},
		"factory_images": []map[string]string{
			{"url": "https://example.com/f1.jpg"},
		},
	}
}

func TestLogin(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/login", "", models.LoginRequest{
		Email:    "admin@example.com",
		Password: "hunter2",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["access_token"])
}

func TestLoginRejected(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/login", "", models.LoginRequest{
		Email:    "admin@example.com",
		Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestCatalogRoutesRequireToken(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/get_products?category=Shoes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/upload_product", "garbage-token", uploadBody("Shoes", "Air Max", "desc"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUploadAndGetProducts(t *testing.T) {
	router, manager := newTestRouter(t)
	token := adminToken(t, manager)

	rec := doJSON(t, router, http.MethodPost, "/upload_product", token, uploadBody("Shoes", "Air Max", "Light runner"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/get_products?category=Shoes", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Success bool             `json:"success"`
		Data    []models.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Air Max", resp.Data[0].Name)
	assert.Equal(t, "Light runner", resp.Data[0].Description)
	assert.Len(t, resp.Data[0].FactoryImages, 1)
}

func TestUploadValidation(t *testing.T) {
	router, manager := newTestRouter(t)
	token := adminToken(t, manager)

	body := uploadBody("Shoes", "Air Max", "desc")
	delete(body, "name")

	rec := doJSON(t, router, http.MethodPost, "/upload_product", token, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestUpdateNoChanges(t *testing.T) {
	router, manager := newTestRouter(t)
	token := adminToken(t, manager)

	rec := doJSON(t, router, http.MethodPost, "/upload_product", token, uploadBody("Shoes", "Air Max", "desc"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/get_products?category=Shoes", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listResp struct {
		Data []models.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	require.Len(t, listResp.Data, 1)

	rec = doJSON(t, router, http.MethodPost, "/update_product", token, models.UpdateProductRequest{
		OldData: listResp.Data[0],
		NewData: listResp.Data[0],
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No changes made")
}

func TestDeleteProduct(t *testing.T) {
	router, manager := newTestRouter(t)
	token := adminToken(t, manager)

	rec := doJSON(t, router, http.MethodPost, "/upload_product", token, uploadBody("Shoes", "Air Max", "desc"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/delete_product?category=Shoes&name=Air%20Max", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Product deleted successfully")

	rec = doJSON(t, router, http.MethodGet, "/get_products?category=Shoes", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listResp struct {
		Data []models.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	assert.Empty(t, listResp.Data)
}

func TestDeleteRequiresParams(t *testing.T) {
	router, manager := newTestRouter(t)
	token := adminToken(t, manager)

	rec := doJSON(t, router, http.MethodDelete, "/delete_product?category=Shoes", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
