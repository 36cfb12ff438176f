package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"reviewgenius/internal/config"
	"reviewgenius/internal/domain"
	"reviewgenius/internal/genius"
	"reviewgenius/internal/insight"
	"reviewgenius/internal/ports"
)

// InsightsDeps wires stores and settings into the insight use case.
type InsightsDeps struct {
	Products ports.ProductStore
	Reviews  ports.ReviewStore
	Analysis config.AnalysisConfig
	Logger   *slog.Logger
}

// Insights implements per-product keyword extraction, validation, and scoring.
// Every call pulls its own corpus and retrains from scratch; there is no
// shared mutable model state, so concurrent calls for different products
// are safe.
type Insights struct {
	products ports.ProductStore
	reviews  ports.ReviewStore
	cfg      config.AnalysisConfig
	logger   *slog.Logger
}

// NewInsights constructs the insight use case.
func NewInsights(deps InsightsDeps) *Insights {
	return &Insights{
		products: deps.Products,
		reviews:  deps.Reviews,
		cfg:      deps.Analysis,
		logger:   deps.Logger,
	}
}

// ExtractKeywords retrains a Naive Bayes model on the product's reviews and
// returns its top positive and negative keyword lists. When extraStopWords
// is nil the product's own title words are used, so a product's name never
// shows up among its keywords.
func (s *Insights) ExtractKeywords(ctx context.Context, asin string, extraStopWords []string) (positive, negative []domain.Keyword, err error) {
	matrix, labels, err := s.corpus(ctx, asin, extraStopWords)
	if err != nil {
		return nil, nil, err
	}

	clf, err := insight.FitClassifier(matrix, labels)
	if err != nil {
		return nil, nil, fmt.Errorf("fit classifier for %s: %w", asin, err)
	}

	positive, negative = clf.TopKeywords(s.cfg.KeywordCount)
	return positive, negative, nil
}

// ValidateKeywords cross-validates the extraction for one product and
// returns the average positive-class precision and recall over the usable
// folds. Folds whose held-out set has a single class are excluded before
// averaging.
func (s *Insights) ValidateKeywords(ctx context.Context, asin string, extraStopWords []string, folds int) (avgPrecision, avgRecall float64, err error) {
	if folds <= 0 {
		folds = s.cfg.Folds
	}

	matrix, labels, err := s.corpus(ctx, asin, extraStopWords)
	if err != nil {
		return 0, 0, err
	}

	metrics, err := insight.CrossValidate(matrix, labels, folds)
	if err != nil {
		return 0, 0, fmt.Errorf("cross-validate %s: %w", asin, err)
	}
	if len(metrics) == 0 {
		return 0, 0, fmt.Errorf("cross-validate %s: %w", asin, domain.ErrInsufficientData)
	}

	for _, m := range metrics {
		avgPrecision += m.Precision
		avgRecall += m.Recall
	}
	n := float64(len(metrics))
	return avgPrecision / n, avgRecall / n, nil
}

// ComputeDistribution counts the product's reviews by star rating.
// Neutral reviews are excluded from sentiment labeling but still counted here.
func (s *Insights) ComputeDistribution(ctx context.Context, asin string) (domain.ScoreDistribution, error) {
	reviews, err := s.reviews.ReviewsByProduct(ctx, asin)
	if err != nil {
		return domain.ScoreDistribution{}, fmt.Errorf("load reviews for %s: %w", asin, err)
	}
	return genius.Distribution(reviews), nil
}

// ComputeQualityScore returns the Bayesian-shrunk mean rating for a product.
// A non-positive priorMean falls back to the configured prior, and failing
// that to the pooled catalog-wide mean.
func (s *Insights) ComputeQualityScore(ctx context.Context, asin string, priorMean, confidence float64) (float64, error) {
	if confidence <= 0 {
		confidence = s.cfg.Confidence
	}

	dist, err := s.ComputeDistribution(ctx, asin)
	if err != nil {
		return 0, err
	}
	weightedSum, count := genius.TotalStars(dist)

	if priorMean <= 0 {
		priorMean = s.cfg.PriorMean
	}
	if priorMean <= 0 {
		priorMean, err = s.catalogPrior(ctx)
		if err != nil {
			return 0, err
		}
	}

	return genius.BayesianScore(weightedSum, count, priorMean, confidence)
}

func (s *Insights) catalogPrior(ctx context.Context) (float64, error) {
	products, err := s.products.AllProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("load catalog for prior mean: %w", err)
	}
	return genius.CatalogPriorMean(products), nil
}

// corpus loads, labels, and vectorizes one product's reviews.
func (s *Insights) corpus(ctx context.Context, asin string, extraStopWords []string) (*insight.FeatureMatrix, []domain.Polarity, error) {
	reviews, err := s.reviews.ReviewsByProduct(ctx, asin)
	if err != nil {
		return nil, nil, fmt.Errorf("load reviews for %s: %w", asin, err)
	}

	if extraStopWords == nil {
		product, err := s.products.Product(ctx, asin)
		if err != nil {
			return nil, nil, fmt.Errorf("load product %s: %w", asin, err)
		}
		extraStopWords = insight.TitleStopWords(product.Title)
	}

	texts, labels := insight.LabelReviews(reviews)

	vectorizer := insight.NewVectorizer(insight.Weighting(s.cfg.Weighting), extraStopWords)
	matrix, err := vectorizer.FitTransform(texts)
	if err != nil {
		return nil, nil, fmt.Errorf("vectorize reviews for %s: %w", asin, err)
	}

	return matrix, labels, nil
}
