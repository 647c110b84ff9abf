package handlers

import (
	"context"
	"errors"

	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const (
	msgFieldsRequired  = "All fields are required"
	msgInvalidBody     = "Invalid request body"
	msgProductNotFound = "Product not found"
	msgProductDeleted  = "Product deleted successfully"
)

// ProductService is the catalog behaviour the handler depends on.
type ProductService interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, rawID string) (*models.Product, error)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error" example:"Product not found"`
}

// DeleteProductResponse is the body of a successful delete.
type DeleteProductResponse struct {
	Message string         `json:"message" example:"Product deleted successfully"`
	Product models.Product `json:"product"`
}

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("", h.HandleGetProducts)
	productRoutes.Post("", h.HandleCreateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts godoc
// @Summary List products
// @Description Returns every product in insertion order
// @Tags Products
// @Produce json
// @Success 200 {array} models.Product
// @Failure 500 {object} ErrorResponse
// @Router /products [get]
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.UserContext())
	if err != nil {
		log.Error().Err(err).Msg("Error listing products")
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Could not retrieve products"})
	}
	return c.JSON(products)
}

// HandleCreateProduct godoc
// @Summary Create a product
// @Description Adds a product to the end of the catalog. The id is assigned by the service.
// @Tags Products
// @Accept json
// @Produce json
// @Param product body models.CreateProductRequest true "Product fields"
// @Success 200 {object} models.Product
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /products [post]
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req models.CreateProductRequest
	// An empty body, or one in a content type other than JSON or a form, is
	// an empty product and fails validation below.
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			if !errors.Is(err, fiber.ErrUnprocessableEntity) {
				log.Debug().Err(err).Msg("Error parsing create product request body")
				return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgInvalidBody})
			}
			req = models.CreateProductRequest{}
		}
	}

	product, err := h.service.CreateProduct(c.UserContext(), req)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			log.Debug().Err(err).Msg("Rejected product")
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgFieldsRequired})
		}
		log.Error().Err(err).Msg("Error creating product")
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Could not create product"})
	}

	return c.JSON(product)
}

// HandleDeleteProduct godoc
// @Summary Delete a product
// @Description Removes the product and returns its final state
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} DeleteProductResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	productID := c.Params("id")

	product, err := h.service.DeleteProduct(c.UserContext(), productID)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: msgProductNotFound})
		}
		log.Error().Err(err).Str("id", productID).Msg("Error deleting product")
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Could not delete product"})
	}

	return c.JSON(DeleteProductResponse{
		Message: msgProductDeleted,
		Product: *product,
	})
}
