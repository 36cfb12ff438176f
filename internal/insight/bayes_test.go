package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewgenius/internal/domain"
)

func fitToyModel(t *testing.T) *Classifier {
	t.Helper()

	docs := []string{
		"battery lasts days charger works",
		"battery excellent charger included",
		"screen cracked broken hinge",
		"broken screen refund",
	}
	labels := []domain.Polarity{domain.Positive, domain.Positive, domain.Negative, domain.Negative}

	m, err := NewVectorizer(WeightingCount, nil).FitTransform(docs)
	require.NoError(t, err)

	clf, err := FitClassifier(m, labels)
	require.NoError(t, err)
	return clf
}

func TestFitClassifierSingleClass(t *testing.T) {
	t.Parallel()

	m, err := NewVectorizer(WeightingCount, nil).FitTransform([]string{"all five stars", "again five stars"})
	require.NoError(t, err)

	_, err = FitClassifier(m, []domain.Polarity{domain.Positive, domain.Positive})
	assert.ErrorIs(t, err, domain.ErrSingleClass)
}

func TestTopKeywordsSeparatesPolarities(t *testing.T) {
	t.Parallel()

	clf := fitToyModel(t)
	positive, negative := clf.TopKeywords(3)

	require.Len(t, positive, 3)
	require.Len(t, negative, 3)

	posWords := map[string]bool{}
	for _, kw := range positive {
		assert.Equal(t, domain.Positive, kw.Label)
		assert.Greater(t, kw.Score, 0.0)
		posWords[kw.Word] = true
	}
	assert.True(t, posWords["battery"] || posWords["charger"])

	negWords := map[string]bool{}
	for _, kw := range negative {
		assert.Equal(t, domain.Negative, kw.Label)
		assert.Greater(t, kw.Score, 0.0)
		negWords[kw.Word] = true
	}
	assert.True(t, negWords["broken"] || negWords["screen"])
}

func TestTopKeywordsDeterministic(t *testing.T) {
	t.Parallel()

	first := fitToyModel(t)
	second := fitToyModel(t)

	p1, n1 := first.TopKeywords(10)
	p2, n2 := second.TopKeywords(10)

	assert.Equal(t, p1, p2)
	assert.Equal(t, n1, n2)
}

func TestTopKeywordsTiesBreakLexicographically(t *testing.T) {
	t.Parallel()

	// "zeta" and "alpha" occur once each in the same positive document,
	// so their scores tie exactly; "alpha" must come first.
	docs := []string{"zeta alpha", "rubbish junk"}
	labels := []domain.Polarity{domain.Positive, domain.Negative}

	m, err := NewVectorizer(WeightingCount, nil).FitTransform(docs)
	require.NoError(t, err)
	clf, err := FitClassifier(m, labels)
	require.NoError(t, err)

	positive, _ := clf.TopKeywords(2)
	require.Len(t, positive, 2)
	assert.Equal(t, "alpha", positive[0].Word)
	assert.Equal(t, "zeta", positive[1].Word)
}

func TestTopKeywordsSmallVocabulary(t *testing.T) {
	t.Parallel()

	m, err := NewVectorizer(WeightingCount, nil).FitTransform([]string{"sturdy", "flimsy"})
	require.NoError(t, err)
	clf, err := FitClassifier(m, []domain.Polarity{domain.Positive, domain.Negative})
	require.NoError(t, err)

	positive, negative := clf.TopKeywords(10)
	assert.Len(t, positive, 2)
	assert.Len(t, negative, 2)
}

func TestPredict(t *testing.T) {
	t.Parallel()

	docs := []string{
		"battery lasts days charger works",
		"battery excellent charger included",
		"screen cracked broken hinge",
		"broken screen refund",
	}
	labels := []domain.Polarity{domain.Positive, domain.Positive, domain.Negative, domain.Negative}

	m, err := NewVectorizer(WeightingCount, nil).FitTransform(docs)
	require.NoError(t, err)
	clf, err := FitClassifier(m, labels)
	require.NoError(t, err)

	assert.Equal(t, domain.Positive, clf.Predict(m.Rows[0]))
	assert.Equal(t, domain.Negative, clf.Predict(m.Rows[2]))
}
