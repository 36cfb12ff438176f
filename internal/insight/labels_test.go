package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"reviewgenius/internal/domain"
)

func TestLabelReviews(t *testing.T) {
	t.Parallel()

	reviews := []domain.Review{
		{Body: "loved it", Score: 5},
		{Body: "meh", Score: 3},
		{Body: "broke in a week", Score: 1},
		{Body: "works fine", Score: 4},
		{Body: "disappointing", Score: 2},
	}

	texts, labels := LabelReviews(reviews)

	// Neutral review dropped, original relative order preserved.
	assert.Equal(t, []string{"loved it", "broke in a week", "works fine", "disappointing"}, texts)
	assert.Equal(t, []domain.Polarity{
		domain.Positive, domain.Negative, domain.Positive, domain.Negative,
	}, labels)
	assert.Len(t, texts, len(labels))
}

func TestLabelReviewsAllNeutral(t *testing.T) {
	t.Parallel()

	texts, labels := LabelReviews([]domain.Review{{Body: "ok", Score: 3}})
	assert.Empty(t, texts)
	assert.Empty(t, labels)
}
