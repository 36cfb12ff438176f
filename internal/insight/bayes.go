package insight

import (
	"fmt"
	"math"
	"sort"

	"reviewgenius/internal/domain"
)

// Classifier is a multinomial Naive Bayes model fitted over a feature
// matrix with positive/negative labels. It is rebuilt from scratch for
// every product; no model state survives between extractions.
type Classifier struct {
	vocab []string

	// logProb[polarity][col] = log P(term | polarity), Laplace-smoothed.
	logProb map[domain.Polarity][]float64

	// logPrior[polarity] = log P(polarity) from class document counts.
	logPrior map[domain.Polarity]float64
}

// ScoredTerm pairs a vocabulary term with its signed log-likelihood ratio.
type ScoredTerm struct {
	Term  string
	Score float64
}

// FitClassifier trains a classifier on all rows of the matrix.
// It fails with ErrSingleClass unless both polarities are present.
func FitClassifier(m *FeatureMatrix, labels []domain.Polarity) (*Classifier, error) {
	if len(m.Rows) != len(labels) {
		return nil, fmt.Errorf("%w: %d rows vs %d labels", domain.ErrConfiguration, len(m.Rows), len(labels))
	}
	indices := make([]int, len(labels))
	for i := range indices {
		indices[i] = i
	}
	return fitSubset(m, labels, indices)
}

// fitSubset trains on the selected row indices only. Cross-validation uses
// it to fit fold-local models against the shared matrix.
func fitSubset(m *FeatureMatrix, labels []domain.Polarity, indices []int) (*Classifier, error) {
	termTotals := map[domain.Polarity][]float64{
		domain.Positive: make([]float64, len(m.Vocabulary)),
		domain.Negative: make([]float64, len(m.Vocabulary)),
	}
	classTotals := map[domain.Polarity]float64{}
	docCounts := map[domain.Polarity]int{}

	for _, i := range indices {
		label := labels[i]
		docCounts[label]++
		for col, weight := range m.Rows[i] {
			termTotals[label][col] += weight
			classTotals[label] += weight
		}
	}

	if docCounts[domain.Positive] == 0 || docCounts[domain.Negative] == 0 {
		return nil, domain.ErrSingleClass
	}

	clf := &Classifier{
		vocab:    m.Vocabulary,
		logProb:  make(map[domain.Polarity][]float64, 2),
		logPrior: make(map[domain.Polarity]float64, 2),
	}

	vocabSize := float64(len(m.Vocabulary))
	total := float64(len(indices))
	for _, polarity := range []domain.Polarity{domain.Positive, domain.Negative} {
		clf.logPrior[polarity] = math.Log(float64(docCounts[polarity]) / total)

		probs := make([]float64, len(m.Vocabulary))
		denom := classTotals[polarity] + vocabSize
		for col, count := range termTotals[polarity] {
			probs[col] = math.Log((count + 1) / denom)
		}
		clf.logProb[polarity] = probs
	}

	return clf, nil
}

// Predict returns the more probable polarity for a single feature row.
func (c *Classifier) Predict(row map[int]float64) domain.Polarity {
	best := domain.Positive
	bestScore := math.Inf(-1)
	for _, polarity := range []domain.Polarity{domain.Positive, domain.Negative} {
		score := c.logPrior[polarity]
		for col, weight := range row {
			score += weight * c.logProb[polarity][col]
		}
		if score > bestScore {
			bestScore = score
			best = polarity
		}
	}
	return best
}

// TopKeywords ranks every vocabulary term by its signed log-likelihood
// ratio and returns the n strongest terms per polarity. Ties are broken by
// lexicographic term order, so results are deterministic for a given
// corpus and stop-word configuration.
func (c *Classifier) TopKeywords(n int) (positive, negative []domain.Keyword) {
	scores := make([]ScoredTerm, len(c.vocab))
	for col, term := range c.vocab {
		scores[col] = ScoredTerm{
			Term:  term,
			Score: c.logProb[domain.Positive][col] - c.logProb[domain.Negative][col],
		}
	}

	positive = topTerms(scores, n, domain.Positive, false)
	negative = topTerms(scores, n, domain.Negative, true)
	return positive, negative
}

func topTerms(scores []ScoredTerm, n int, label domain.Polarity, negate bool) []domain.Keyword {
	ranked := make([]ScoredTerm, len(scores))
	copy(ranked, scores)
	if negate {
		for i := range ranked {
			ranked[i].Score = -ranked[i].Score
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score == ranked[j].Score {
			return ranked[i].Term < ranked[j].Term
		}
		return ranked[i].Score > ranked[j].Score
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	keywords := make([]domain.Keyword, 0, n)
	for _, st := range ranked[:n] {
		keywords = append(keywords, domain.Keyword{Word: st.Term, Label: label, Score: st.Score})
	}
	return keywords
}
