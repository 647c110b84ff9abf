package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"catalog/internal/handlers"
	"catalog/internal/identity"
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestMain silences logging for cleaner output
func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

// setupApp builds a Fiber app over a seeded catalog backed by repo.
func setupApp(t *testing.T, repo repositories.ProductRepository, policy identity.Policy) *fiber.App {
	t.Helper()

	service := services.NewProductService(repo, policy, nil)
	require.NoError(t, service.Bootstrap(t.Context(), models.DefaultCatalog()))

	app := fiber.New()
	handlers.NewProductHandler(service).RegisterRoutes(app)
	return app
}

func newSQLiteRepository(t *testing.T) repositories.ProductRepository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	repo := repositories.NewGORMProductRepository(db)
	require.NoError(t, repo.AutoMigrate())
	return repo
}

func stores() map[string]func(t *testing.T) repositories.ProductRepository {
	return map[string]func(t *testing.T) repositories.ProductRepository{
		"memory": func(*testing.T) repositories.ProductRepository { return repositories.NewMemoryProductRepository() },
		"sqlite": newSQLiteRepository,
	}
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func listProducts(t *testing.T, app *fiber.App) []models.Product {
	t.Helper()
	resp := doJSON(t, app, http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[[]models.Product](t, resp)
}

func TestProductEndpoints(t *testing.T) {
	for name, newRepo := range stores() {
		t.Run(name, func(t *testing.T) {
			t.Run("ListSeededCatalog", func(t *testing.T) {
				app := setupApp(t, newRepo(t), identity.NewSequential())

				products := listProducts(t, app)
				require.Len(t, products, 5)
				assert.Equal(t, models.ID("1"), products[0].ID)
				assert.Equal(t, "Essence Mascara Lash Princess", products[0].Title)
				assert.Equal(t, products, listProducts(t, app))
			})

			t.Run("CreateProduct", func(t *testing.T) {
				app := setupApp(t, newRepo(t), identity.NewSequential())

				resp := doJSON(t, app, http.MethodPost, "/products", map[string]any{
					"title": "X", "description": "Y", "brand": "Z", "price": 5, "image": "http://i",
				})
				assert.Equal(t, http.StatusOK, resp.StatusCode)
				created := decode[models.Product](t, resp)
				assert.NotContains(t, []models.ID{"1", "2", "3", "4", "5"}, created.ID)
				assert.Equal(t, "X", created.Title)
				assert.Equal(t, 5.0, created.Price)

				products := listProducts(t, app)
				require.Len(t, products, 6)
				assert.Equal(t, created, products[5])
			})

			t.Run("CreateProductMissingFields", func(t *testing.T) {
				app := setupApp(t, newRepo(t), identity.NewSequential())

				resp := doJSON(t, app, http.MethodPost, "/products", map[string]any{"title": "X"})
				assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
				assert.Equal(t, map[string]string{"error": "All fields are required"}, decode[map[string]string](t, resp))

				assert.Len(t, listProducts(t, app), 5)
			})

			t.Run("DeleteProduct", func(t *testing.T) {
				app := setupApp(t, newRepo(t), identity.NewSequential())

				resp := doJSON(t, app, http.MethodDelete, "/products/3", nil)
				assert.Equal(t, http.StatusOK, resp.StatusCode)
				deleteResp := decode[handlers.DeleteProductResponse](t, resp)
				assert.Equal(t, "Product deleted successfully", deleteResp.Message)
				assert.Equal(t, models.ID("3"), deleteResp.Product.ID)
				assert.Equal(t, "Powder Canister", deleteResp.Product.Title)

				products := listProducts(t, app)
				assert.Len(t, products, 4)
				for _, p := range products {
					assert.NotEqual(t, models.ID("3"), p.ID)
				}
			})

			t.Run("DeleteMissingProduct", func(t *testing.T) {
				app := setupApp(t, newRepo(t), identity.NewSequential())
				before := listProducts(t, app)

				resp := doJSON(t, app, http.MethodDelete, "/products/999", nil)
				assert.Equal(t, http.StatusNotFound, resp.StatusCode)
				assert.Equal(t, map[string]string{"error": "Product not found"}, decode[map[string]string](t, resp))

				assert.Equal(t, before, listProducts(t, app))
			})
		})
	}
}

func TestCreateProductRejectsFalsyFields(t *testing.T) {
	valid := map[string]any{"title": "X", "description": "Y", "brand": "Z", "price": 5, "image": "http://i"}

	for _, field := range []string{"title", "description", "brand", "price", "image"} {
		t.Run(field, func(t *testing.T) {
			app := setupApp(t, repositories.NewMemoryProductRepository(), identity.NewSequential())

			body := make(map[string]any, len(valid))
			for k, v := range valid {
				body[k] = v
			}
			if field == "price" {
				body[field] = 0
			} else {
				body[field] = ""
			}

			resp := doJSON(t, app, http.MethodPost, "/products", body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Len(t, listProducts(t, app), 5)
		})
	}
}

func TestCreateProductIgnoresCallerID(t *testing.T) {
	app := setupApp(t, repositories.NewMemoryProductRepository(), identity.NewSequential())

	resp := doJSON(t, app, http.MethodPost, "/products", map[string]any{
		"id": 1, "title": "X", "description": "Y", "brand": "Z", "price": 5, "image": "http://i",
		"category": "misc", "rating": 3.5,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	created := decode[models.Product](t, resp)
	assert.Equal(t, models.ID("6"), created.ID)
	assert.Equal(t, "misc", created.Category)
	require.NotNil(t, created.Rating)
	assert.Equal(t, 3.5, *created.Rating)
}

func TestCreateProductBadBodies(t *testing.T) {
	app := setupApp(t, repositories.NewMemoryProductRepository(), identity.NewSequential())

	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(`{"title":`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, map[string]string{"error": "Invalid request body"}, decode[map[string]string](t, resp))

	empty := httptest.NewRequest(http.MethodPost, "/products", nil)
	resp, err = app.Test(empty, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, map[string]string{"error": "All fields are required"}, decode[map[string]string](t, resp))

	for _, contentType := range []string{"", "text/plain"} {
		req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(
			`{"title":"X","description":"D","price":1,"brand":"B","image":"i.jpg"}`))
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		resp, err = app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, contentType)
		assert.Equal(t, map[string]string{"error": "All fields are required"}, decode[map[string]string](t, resp))
	}

	assert.Len(t, listProducts(t, app), 5)
}

func TestDeleteThenCreateDoesNotReuseID(t *testing.T) {
	app := setupApp(t, repositories.NewMemoryProductRepository(), identity.NewSequential())

	resp := doJSON(t, app, http.MethodDelete, "/products/5", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/products", map[string]any{
		"title": "X", "description": "Y", "brand": "Z", "price": 5, "image": "http://i",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.ID("6"), decode[models.Product](t, resp).ID)

	resp = doJSON(t, app, http.MethodDelete, "/products/5", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteWithNonNumericID(t *testing.T) {
	app := setupApp(t, repositories.NewMemoryProductRepository(), identity.NewSequential())

	resp := doJSON(t, app, http.MethodDelete, "/products/abc", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Len(t, listProducts(t, app), 5)
}

func TestDeleteWithSignedOrFractionalID(t *testing.T) {
	app := setupApp(t, repositories.NewMemoryProductRepository(), identity.NewSequential())

	for _, raw := range []string{"+2", "1.5"} {
		resp := doJSON(t, app, http.MethodDelete, "/products/"+raw, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, raw)
	}
	assert.Len(t, listProducts(t, app), 5)
}

func TestTokenPolicyEndpoints(t *testing.T) {
	app := setupApp(t, repositories.NewMemoryProductRepository(), identity.NewToken())

	products := listProducts(t, app)
	require.Len(t, products, 5)
	target := products[2]
	assert.False(t, target.ID.IsNumeric())

	resp := doJSON(t, app, http.MethodDelete, "/products/3", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, "/products/"+target.ID.String(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, target, decode[handlers.DeleteProductResponse](t, resp).Product)
	assert.Len(t, listProducts(t, app), 4)
}
