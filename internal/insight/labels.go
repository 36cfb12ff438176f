package insight

import "reviewgenius/internal/domain"

// LabelReviews maps star ratings to sentiment labels, returning parallel
// text and label slices. Reviews rated exactly 3 are ambiguous and dropped;
// ratings below 3 are negative, above 3 positive. Retained reviews keep
// their original relative order.
func LabelReviews(reviews []domain.Review) ([]string, []domain.Polarity) {
	texts := make([]string, 0, len(reviews))
	labels := make([]domain.Polarity, 0, len(reviews))

	for _, rev := range reviews {
		switch {
		case rev.Score < 3:
			texts = append(texts, rev.Body)
			labels = append(labels, domain.Negative)
		case rev.Score > 3:
			texts = append(texts, rev.Body)
			labels = append(labels, domain.Positive)
		}
	}

	return texts, labels
}
