// Package genius computes per-product rating aggregates and the
// shrinkage-adjusted "product genius" quality score.
package genius

import (
	"fmt"

	"reviewgenius/internal/domain"
)

// Distribution counts a product's reviews by star rating. Ratings outside
// 1..5 are ignored rather than counted, so the total always equals the
// number of valid reviews.
func Distribution(reviews []domain.Review) domain.ScoreDistribution {
	var dist domain.ScoreDistribution
	for _, rev := range reviews {
		if rev.Score >= 1 && rev.Score <= 5 {
			dist[rev.Score-1]++
		}
	}
	return dist
}

// TotalStars reduces a distribution to its weighted star sum and review count.
func TotalStars(dist domain.ScoreDistribution) (weightedSum, count int) {
	for i, n := range dist {
		weightedSum += (i + 1) * n
		count += n
	}
	return weightedSum, count
}

// BayesianScore blends a product's observed stars with a prior mean,
// weighted by the confidence constant c:
//
//	(c*prior + weightedSum) / (c + count)
//
// Low-review products are pulled toward the prior; high-review products
// converge to their observed mean. A single five-star review therefore
// cannot outrank a product with hundreds of consistently strong reviews.
// The constant must be positive; c <= 0 is a configuration error.
func BayesianScore(weightedSum, count int, priorMean, c float64) (float64, error) {
	if c <= 0 {
		return 0, fmt.Errorf("%w: confidence constant must be > 0, got %g", domain.ErrConfiguration, c)
	}
	return (c*priorMean + float64(weightedSum)) / (c + float64(count)), nil
}

// CatalogPriorMean pools star sums and counts across the whole catalog:
// sum of all stars divided by the number of all reviews. Pooling avoids
// overweighting low-volume products, which an unweighted average of
// per-product means would do. An empty catalog yields 0.
func CatalogPriorMean(products []domain.ProductSummary) float64 {
	var stars, count int
	for _, p := range products {
		s, n := TotalStars(p.Scores)
		stars += s
		count += n
	}
	if count == 0 {
		return 0
	}
	return float64(stars) / float64(count)
}
