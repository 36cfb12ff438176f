package ports

import (
	"context"
	"time"

	"reviewgenius/internal/domain"
	"reviewgenius/internal/search"
)

// ReviewStore reads a product's review history.
type ReviewStore interface {
	ReviewsByProduct(ctx context.Context, asin string) ([]domain.Review, error)
}

// ProductStore reads catalog records and caches analysis results on them.
type ProductStore interface {
	Product(ctx context.Context, asin string) (domain.Product, error)
	AllProducts(ctx context.Context) ([]domain.ProductSummary, error)
	SaveAnalysis(ctx context.Context, asin string, analysis domain.Analysis) error
}

// CorpusStore provides searchable documents for the relevancy ranker.
type CorpusStore interface {
	ProductCorpus(ctx context.Context, filter search.IndexFilter) ([]search.Document, error)
	ReviewCorpus(ctx context.Context, asin string) ([]search.Document, error)
}

// CatalogWriter persists newly ingested products and reviews.
type CatalogWriter interface {
	SaveProduct(ctx context.Context, product domain.Product) error
	SaveReviews(ctx context.Context, reviews []domain.Review) error
}

// Scheduler controls when the catalog refresh job executes.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
