package insight

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"reviewgenius/internal/domain"
)

// Weighting selects how term weights are computed by the vectorizer.
type Weighting string

const (
	// WeightingCount uses raw term counts.
	WeightingCount Weighting = "count"
	// WeightingTFIDF scales counts by inverse document frequency.
	WeightingTFIDF Weighting = "tfidf"
)

// FeatureMatrix is a sparse document-term matrix with a fixed vocabulary.
// The vocabulary is sorted lexicographically, so identical corpora always
// produce identical column orderings.
type FeatureMatrix struct {
	Vocabulary []string
	Rows       []map[int]float64

	index map[string]int
}

// TermIndex returns the column of a vocabulary term, or -1 if absent.
func (m *FeatureMatrix) TermIndex(term string) int {
	if i, ok := m.index[term]; ok {
		return i
	}
	return -1
}

// Vectorizer turns review texts into a FeatureMatrix after removing
// stop words. The stop-word set belongs to one invocation; build a fresh
// vectorizer per product.
type Vectorizer struct {
	weighting Weighting
	stopWords map[string]struct{}
}

// NewVectorizer builds a vectorizer with the combined stop-word set.
func NewVectorizer(weighting Weighting, extraStopWords []string) *Vectorizer {
	if weighting == "" {
		weighting = WeightingCount
	}
	return &Vectorizer{
		weighting: weighting,
		stopWords: CombinedStopWords(extraStopWords),
	}
}

// FitTransform builds the vocabulary from docs and returns the weight matrix.
// Terms consisting solely of stop words are absent from the vocabulary, not
// merely zeroed.
func (v *Vectorizer) FitTransform(docs []string) (*FeatureMatrix, error) {
	if len(docs) == 0 {
		return nil, domain.ErrEmptyCorpus
	}

	tokenized := make([][]string, len(docs))
	vocabSet := make(map[string]struct{})
	for i, doc := range docs {
		tokens := v.tokenize(doc)
		tokenized[i] = tokens
		for _, tok := range tokens {
			vocabSet[tok] = struct{}{}
		}
	}

	if len(vocabSet) == 0 {
		return nil, domain.ErrEmptyVocabulary
	}

	vocab := make([]string, 0, len(vocabSet))
	for term := range vocabSet {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)

	index := make(map[string]int, len(vocab))
	for i, term := range vocab {
		index[term] = i
	}

	rows := make([]map[int]float64, len(docs))
	for i, tokens := range tokenized {
		row := make(map[int]float64)
		for _, tok := range tokens {
			row[index[tok]]++
		}
		rows[i] = row
	}

	m := &FeatureMatrix{Vocabulary: vocab, Rows: rows, index: index}
	if v.weighting == WeightingTFIDF {
		applyTFIDF(m)
	}
	return m, nil
}

// tokenize lowercases the text and splits it into letter/digit runs,
// dropping single-character tokens and stop words.
func (v *Vectorizer) tokenize(text string) []string {
	split := func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsNumber(r) }
	fields := strings.FieldsFunc(strings.ToLower(text), split)

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, stop := v.stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// applyTFIDF rescales counts in place with smoothed inverse document
// frequency: idf(t) = ln((1+N)/(1+df(t))) + 1.
func applyTFIDF(m *FeatureMatrix) {
	docFreq := make([]int, len(m.Vocabulary))
	for _, row := range m.Rows {
		for col := range row {
			docFreq[col]++
		}
	}

	n := float64(len(m.Rows))
	for _, row := range m.Rows {
		for col, tf := range row {
			idf := math.Log((1+n)/(1+float64(docFreq[col]))) + 1
			row[col] = tf * idf
		}
	}
}
