package insight

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewgenius/internal/domain"
)

// balancedCorpus builds n positive and n negative documents with clearly
// separable vocabularies.
func balancedCorpus(t *testing.T, n int) (*FeatureMatrix, []domain.Polarity) {
	t.Helper()

	var docs []string
	var labels []domain.Polarity
	for i := 0; i < n; i++ {
		docs = append(docs, fmt.Sprintf("battery charger sturdy item%d", i))
		labels = append(labels, domain.Positive)
		docs = append(docs, fmt.Sprintf("broken cracked refund item%d", i))
		labels = append(labels, domain.Negative)
	}

	m, err := NewVectorizer(WeightingCount, nil).FitTransform(docs)
	require.NoError(t, err)
	return m, labels
}

func TestCrossValidateMetricsInBounds(t *testing.T) {
	t.Parallel()

	m, labels := balancedCorpus(t, 10)
	metrics, err := CrossValidate(m, labels, 5)
	require.NoError(t, err)
	require.NotEmpty(t, metrics)
	assert.LessOrEqual(t, len(metrics), 5)

	for _, fm := range metrics {
		assert.GreaterOrEqual(t, fm.Precision, 0.0)
		assert.LessOrEqual(t, fm.Precision, 1.0)
		assert.GreaterOrEqual(t, fm.Recall, 0.0)
		assert.LessOrEqual(t, fm.Recall, 1.0)
	}
}

func TestCrossValidateSeparableCorpus(t *testing.T) {
	t.Parallel()

	// Vocabularies do not overlap between classes (apart from the shared
	// item tokens), so every fold should classify near perfectly.
	m, labels := balancedCorpus(t, 10)
	metrics, err := CrossValidate(m, labels, 5)
	require.NoError(t, err)
	require.NotEmpty(t, metrics)

	for _, fm := range metrics {
		assert.Equal(t, 1.0, fm.Precision)
		assert.Equal(t, 1.0, fm.Recall)
	}
}

func TestCrossValidateInsufficientData(t *testing.T) {
	t.Parallel()

	// Three negatives cannot be spread over five folds.
	docs := []string{
		"battery charger", "sturdy battery", "charger works", "battery sturdy", "works well battery",
		"broken cracked", "refund broken", "cracked refund",
	}
	labels := []domain.Polarity{
		domain.Positive, domain.Positive, domain.Positive, domain.Positive, domain.Positive,
		domain.Negative, domain.Negative, domain.Negative,
	}

	m, err := NewVectorizer(WeightingCount, nil).FitTransform(docs)
	require.NoError(t, err)

	_, err = CrossValidate(m, labels, 5)
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
}

func TestCrossValidateRejectsBadFoldCount(t *testing.T) {
	t.Parallel()

	m, labels := balancedCorpus(t, 3)
	_, err := CrossValidate(m, labels, 1)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestStratifyPreservesClassRatio(t *testing.T) {
	t.Parallel()

	// 20 samples, indices 0..9 positive and 10..19 negative.
	pos := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	neg := []int{10, 11, 12, 13, 14, 15, 16, 17, 18, 19}

	assignments := stratify(pos, neg, 5)
	require.Len(t, assignments, 20)

	for fold := 0; fold < 5; fold++ {
		posCount, negCount := 0, 0
		for i, f := range assignments {
			if f != fold {
				continue
			}
			if i < 10 {
				posCount++
			} else {
				negCount++
			}
		}
		assert.Equal(t, 2, posCount, "fold %d", fold)
		assert.Equal(t, 2, negCount, "fold %d", fold)
	}
}
