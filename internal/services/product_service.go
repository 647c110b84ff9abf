package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"catalog/internal/identity"
	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	ids       identity.Policy
	publisher EventPublisher
	validate  *validator.Validate
}

// NewProductService creates a new ProductService. publisher may be nil.
func NewProductService(repo repositories.ProductRepository, ids identity.Policy, publisher EventPublisher) *ProductService {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &ProductService{
		repo:      repo,
		ids:       ids,
		publisher: publisher,
		validate:  validate,
	}
}

// IDPolicy returns the name of the id policy in use.
func (s *ProductService) IDPolicy() string {
	return s.ids.Name()
}

// Bootstrap prepares the catalog at startup. Every stored id is observed by
// the id policy, then seed is inserted if the store is empty.
func (s *ProductService) Bootstrap(ctx context.Context, seed []models.Product) error {
	existing, err := s.repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	for _, p := range existing {
		s.ids.Observe(p.ID)
	}

	if len(existing) > 0 || len(seed) == 0 {
		log.Info().Int("products", len(existing)).Msg("Catalog loaded")
		return nil
	}

	for i := range seed {
		product := seed[i]
		product.ID = s.ids.Next()
		if err := s.repo.Create(ctx, &product); err != nil {
			return fmt.Errorf("failed to seed product %q: %w", product.Title, err)
		}
		log.Debug().Str("id", product.ID.String()).Str("title", product.Title).Msg("Seeded product")
	}
	log.Info().Int("products", len(seed)).Msg("Catalog seeded")
	return nil
}

// ListProducts retrieves all products in insertion order.
func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// CountProducts returns the catalog size.
func (s *ProductService) CountProducts(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// CreateProduct validates the request, assigns an id and appends the product.
func (s *ProductService) CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	if err := s.validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return nil, fmt.Errorf("failed to validate product: %w", err)
		}
		fields := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			fields = append(fields, e.Field())
		}
		return nil, &ValidationError{Fields: fields}
	}

	product := req.Product()
	product.ID = s.ids.Next()
	if err := s.repo.Create(ctx, &product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.publish(ctx, EventProductCreated, product)
	return &product, nil
}

// DeleteProduct removes the product whose id matches rawID and returns it.
func (s *ProductService) DeleteProduct(ctx context.Context, rawID string) (*models.Product, error) {
	id, err := s.ids.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repositories.ErrProductNotFound, err)
	}

	product, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventProductDeleted, *product)
	return product, nil
}

func (s *ProductService) publish(ctx context.Context, routingKey string, product models.Product) {
	if s.publisher == nil {
		return
	}

	event := ProductEvent{
		Event:      routingKey,
		Product:    product,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, routingKey, event); err != nil {
		log.Warn().Err(err).Str("event", routingKey).Str("id", product.ID.String()).Msg("Failed to publish product event")
	}
}
