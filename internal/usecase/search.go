package usecase

import (
	"context"
	"fmt"

	"reviewgenius/internal/ports"
	"reviewgenius/internal/search"
)

// CorpusKind selects which document corpus a search runs against.
type CorpusKind string

const (
	// CorpusProducts searches product titles and descriptions.
	CorpusProducts CorpusKind = "products"
	// CorpusReviews searches one product's review summaries and bodies.
	CorpusReviews CorpusKind = "reviews"
)

// SearchDeps wires the corpus store and ranker into the search use case.
type SearchDeps struct {
	Corpus ports.CorpusStore
	Ranker *search.Ranker
}

// Search ranks catalog documents against free-text queries.
type Search struct {
	corpus ports.CorpusStore
	ranker *search.Ranker
}

// NewSearch constructs the search use case.
func NewSearch(deps SearchDeps) *Search {
	return &Search{corpus: deps.Corpus, ranker: deps.Ranker}
}

// Products ranks the product corpus against the query, optionally narrowed
// to one category index before scoring.
func (s *Search) Products(ctx context.Context, query string, filter search.IndexFilter) ([]search.Result, error) {
	docs, err := s.corpus.ProductCorpus(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("load product corpus: %w", err)
	}
	return s.ranker.Rank(query, docs), nil
}

// Reviews ranks one product's reviews against the query.
func (s *Search) Reviews(ctx context.Context, asin, query string) ([]search.Result, error) {
	docs, err := s.corpus.ReviewCorpus(ctx, asin)
	if err != nil {
		return nil, fmt.Errorf("load review corpus for %s: %w", asin, err)
	}
	return s.ranker.Rank(query, docs), nil
}
