package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/catalog-search/internal/search/domain"
)

var tracer = otel.Tracer("catalog-repository")

// TracingProductRepository wraps a ProductRepository with tracing spans.
type TracingProductRepository struct {
	inner domain.ProductRepository
}

// NewTracingProductRepository creates a repository decorator that records a
// span per catalog query.
func NewTracingProductRepository(inner domain.ProductRepository) *TracingProductRepository {
	return &TracingProductRepository{inner: inner}
}

func (r *TracingProductRepository) FindByFilter(ctx context.Context, filter domain.Filter) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByFilter",
		trace.WithAttributes(
			attribute.String("filter.query", filter.Query),
			attribute.String("filter.category", filter.Category),
			attribute.StringSlice("filter.colors", filter.Colors),
			attribute.StringSlice("filter.features", filter.Features),
			attribute.Bool("filter.include_out_of_stock", filter.IncludeOutOfStock),
		),
	)
	defer span.End()

	products, err := r.inner.FindByFilter(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, nil
}

func (r *TracingProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.FindAll")
	defer span.End()

	products, err := r.inner.FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, nil
}

func (r *TracingProductRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByID",
		trace.WithAttributes(attribute.Int("product.id", int(id))),
	)
	defer span.End()

	product, err := r.inner.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("product.name", product.Name),
		attribute.String("product.category", product.Category),
	)
	return product, nil
}

func (r *TracingProductRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByIDs",
		trace.WithAttributes(attribute.Int("request.count", len(ids))),
	)
	defer span.End()

	products, err := r.inner.FindByIDs(ctx, ids)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, nil
}

func (r *TracingProductRepository) FindByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByCategory",
		trace.WithAttributes(attribute.String("product.category", category)),
	)
	defer span.End()

	products, err := r.inner.FindByCategory(ctx, category)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, nil
}

func (r *TracingProductRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "repository.Count")
	defer span.End()

	count, err := r.inner.Count(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	span.SetAttributes(attribute.Int64("result.count", count))
	return count, nil
}
