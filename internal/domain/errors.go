package domain

import "errors"

// Analysis errors signal that a product cannot currently be analyzed.
// All of them are recoverable by the caller: a batch job should skip the
// product, log, and retry once it has accumulated enough reviews.
var (
	// ErrEmptyCorpus reports a product with no usable review texts.
	ErrEmptyCorpus = errors.New("review corpus is empty")

	// ErrEmptyVocabulary reports that stop-word filtering removed every term.
	ErrEmptyVocabulary = errors.New("no vocabulary terms left after stop-word filtering")

	// ErrSingleClass reports a labeled corpus with only one polarity.
	ErrSingleClass = errors.New("labeled corpus contains a single class")

	// ErrInsufficientData reports too few minority-class samples to stratify.
	ErrInsufficientData = errors.New("not enough samples per class to stratify folds")
)

// ErrConfiguration reports invalid analysis settings (e.g. a non-positive
// confidence constant). Unlike the analysis errors it points at misuse.
var ErrConfiguration = errors.New("invalid configuration")

// ErrNotFound reports a missing product or review in the store.
var ErrNotFound = errors.New("not found")

// IsAnalysisError tells whether err means "skip this product for now"
// rather than a fault in the system itself.
func IsAnalysisError(err error) bool {
	return errors.Is(err, ErrEmptyCorpus) ||
		errors.Is(err, ErrEmptyVocabulary) ||
		errors.Is(err, ErrSingleClass) ||
		errors.Is(err, ErrInsufficientData)
}
