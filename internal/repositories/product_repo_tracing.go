package repositories

import (
	"context"

	"catalog/internal/models"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingProductRepository records a span around every call to the wrapped repository.
type TracingProductRepository struct {
	next   ProductRepository
	tracer trace.Tracer
}

// NewTracingProductRepository wraps next with spans from tp.
func NewTracingProductRepository(next ProductRepository, tp trace.TracerProvider) *TracingProductRepository {
	return &TracingProductRepository{
		next:   next,
		tracer: tp.Tracer("catalog/repository"),
	}
}

func (r *TracingProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	ctx, span := r.tracer.Start(ctx, "repository.GetAll")
	defer span.End()

	products, err := r.next.GetAll(ctx)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, nil
}

func (r *TracingProductRepository) Create(ctx context.Context, product *models.Product) error {
	ctx, span := r.tracer.Start(ctx, "repository.Create",
		trace.WithAttributes(
			attribute.String("product.id", product.ID.String()),
			attribute.String("product.title", product.Title),
			attribute.Float64("product.price", product.Price),
		),
	)
	defer span.End()

	if err := r.next.Create(ctx, product); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

func (r *TracingProductRepository) Delete(ctx context.Context, id models.ID) (*models.Product, error) {
	ctx, span := r.tracer.Start(ctx, "repository.Delete",
		trace.WithAttributes(attribute.String("product.id", id.String())),
	)
	defer span.End()

	product, err := r.next.Delete(ctx, id)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	return product, nil
}

func (r *TracingProductRepository) Count(ctx context.Context) (int, error) {
	ctx, span := r.tracer.Start(ctx, "repository.Count")
	defer span.End()

	n, err := r.next.Count(ctx)
	if err != nil {
		recordError(span, err)
		return 0, err
	}
	span.SetAttributes(attribute.Int("result.count", n))
	return n, nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
