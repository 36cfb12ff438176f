package insight

import (
	"fmt"

	"reviewgenius/internal/domain"
)

// FoldMetrics holds positive-class precision and recall for one held-out fold.
type FoldMetrics struct {
	Precision float64
	Recall    float64
}

// CrossValidate runs stratified k-fold evaluation of the keyword classifier.
// Each fold preserves the global class ratio as closely as integer division
// allows. A fold whose held-out set contains a single class yields undefined
// metrics and is excluded from the result instead of being reported as zero,
// which would bias averages downward for small products.
//
// The caller is responsible for averaging the returned folds.
func CrossValidate(m *FeatureMatrix, labels []domain.Polarity, folds int) ([]FoldMetrics, error) {
	if folds < 2 {
		return nil, fmt.Errorf("%w: fold count %d", domain.ErrConfiguration, folds)
	}
	if len(m.Rows) != len(labels) {
		return nil, fmt.Errorf("%w: %d rows vs %d labels", domain.ErrConfiguration, len(m.Rows), len(labels))
	}

	var posIdx, negIdx []int
	for i, label := range labels {
		if label == domain.Positive {
			posIdx = append(posIdx, i)
		} else {
			negIdx = append(negIdx, i)
		}
	}
	if len(posIdx) < folds || len(negIdx) < folds {
		return nil, fmt.Errorf("%w: %d positive, %d negative, %d folds",
			domain.ErrInsufficientData, len(posIdx), len(negIdx), folds)
	}

	assignments := stratify(posIdx, negIdx, folds)

	var metrics []FoldMetrics
	for fold := 0; fold < folds; fold++ {
		var train, test []int
		for i, f := range assignments {
			if f == fold {
				test = append(test, i)
			} else {
				train = append(train, i)
			}
		}

		clf, err := fitSubset(m, labels, train)
		if err != nil {
			// Training folds keep both classes by construction, but a
			// degenerate split is still skipped rather than failed.
			continue
		}

		if singleClass(labels, test) {
			continue
		}

		var tp, fp, fn int
		for _, i := range test {
			predicted := clf.Predict(m.Rows[i])
			switch {
			case predicted == domain.Positive && labels[i] == domain.Positive:
				tp++
			case predicted == domain.Positive && labels[i] == domain.Negative:
				fp++
			case predicted == domain.Negative && labels[i] == domain.Positive:
				fn++
			}
		}

		metrics = append(metrics, FoldMetrics{
			Precision: safeRatio(tp, tp+fp),
			Recall:    safeRatio(tp, tp+fn),
		})
	}

	return metrics, nil
}

// stratify assigns every sample index to a fold, distributing each class
// round-robin so class ratios carry over into every fold.
func stratify(posIdx, negIdx []int, folds int) []int {
	assignments := make([]int, len(posIdx)+len(negIdx))
	for i, idx := range posIdx {
		assignments[idx] = i % folds
	}
	for i, idx := range negIdx {
		assignments[idx] = i % folds
	}
	return assignments
}

func singleClass(labels []domain.Polarity, indices []int) bool {
	seen := map[domain.Polarity]bool{}
	for _, i := range indices {
		seen[labels[i]] = true
	}
	return len(seen) < 2
}

func safeRatio(num, denom int) float64 {
	if denom == 0 {
		return 0
	}
	return float64(num) / float64(denom)
}
