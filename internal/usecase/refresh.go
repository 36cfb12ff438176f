package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"reviewgenius/internal/domain"
	"reviewgenius/internal/genius"
)

// Refresher re-runs analysis for the whole catalog and caches the results
// on each product record. Re-running is idempotent: it derives everything
// from the stored reviews and never mutates review history.
type Refresher struct {
	insights *Insights
	logger   *slog.Logger
}

// NewRefresher constructs the batch refresh use case.
func NewRefresher(insights *Insights, logger *slog.Logger) *Refresher {
	return &Refresher{insights: insights, logger: logger}
}

// RefreshCatalog recomputes the distribution, quality score, and keywords
// for every product. Products that cannot currently be analyzed (too few
// reviews, single-class corpora, empty vocabularies) are skipped and
// logged; they will be retried on the next run once they have accumulated
// enough reviews. Store failures abort the pass.
func (r *Refresher) RefreshCatalog(ctx context.Context) error {
	products, err := r.insights.products.AllProducts(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	prior := r.insights.cfg.PriorMean
	if prior <= 0 {
		prior = genius.CatalogPriorMean(products)
	}

	refreshed, skipped := 0, 0
	for _, p := range products {
		if err := r.refreshProduct(ctx, p.ASIN, prior); err != nil {
			if domain.IsAnalysisError(err) {
				skipped++
				r.debug("skip product", "asin", p.ASIN, "reason", err)
				continue
			}
			return fmt.Errorf("refresh product %s: %w", p.ASIN, err)
		}
		refreshed++
	}

	r.debug("catalog refresh done", "refreshed", refreshed, "skipped", skipped)
	return nil
}

func (r *Refresher) refreshProduct(ctx context.Context, asin string, prior float64) error {
	dist, err := r.insights.ComputeDistribution(ctx, asin)
	if err != nil {
		return err
	}

	weightedSum, count := genius.TotalStars(dist)
	score, err := genius.BayesianScore(weightedSum, count, prior, r.insights.cfg.Confidence)
	if err != nil {
		return err
	}

	positive, negative, err := r.insights.ExtractKeywords(ctx, asin, nil)
	if err != nil {
		return err
	}

	return r.insights.products.SaveAnalysis(ctx, asin, domain.Analysis{
		Scores:       dist,
		QualityScore: score,
		Keywords:     append(positive, negative...),
		ExtractedAt:  time.Now().UTC(),
	})
}

func (r *Refresher) debug(msg string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}
