// Package search ranks products and reviews against free-text queries
// using a weighted two-field relevancy score, mirroring the weighted
// ts_rank ordering the catalog search is modeled on.
package search

import (
	"sort"
	"strings"
	"unicode"

	"reviewgenius/internal/insight"
)

// Default field weights match the Postgres ts_rank defaults for the
// 'A' (title/summary) and 'B' (description/body) labels.
const (
	DefaultHighWeight = 1.0
	DefaultLowWeight  = 0.4
)

// Document is one searchable record with a high-importance field
// (title or review summary) and a low-importance field (description
// or review body).
type Document struct {
	ID        string
	HighField string
	LowField  string
}

// Result pairs a document identifier with its relevancy score.
type Result struct {
	ID    string
	Score float64
}

// IndexFilter optionally narrows the corpus to a category sub-index
// before scoring. The zero value means "all documents".
type IndexFilter struct {
	Category string
}

// Filtered reports whether the filter names a sub-index.
func (f IndexFilter) Filtered() bool {
	return f.Category != "" && !strings.EqualFold(f.Category, "all")
}

// Ranker scores documents against normalized queries.
type Ranker struct {
	highWeight float64
	lowWeight  float64
	stopWords  map[string]struct{}
}

// NewRanker builds a ranker; non-positive weights fall back to defaults.
func NewRanker(highWeight, lowWeight float64) *Ranker {
	if highWeight <= 0 {
		highWeight = DefaultHighWeight
	}
	if lowWeight <= 0 {
		lowWeight = DefaultLowWeight
	}
	return &Ranker{
		highWeight: highWeight,
		lowWeight:  lowWeight,
		stopWords:  insight.CombinedStopWords(nil),
	}
}

// Rank normalizes the query, scores every document, and returns matches
// ordered by descending relevancy. Documents whose score is zero (no query
// term present in either field) are excluded, not returned as zeros. Equal
// scores are ordered by ascending document ID so results are deterministic.
func (r *Ranker) Rank(query string, docs []Document) []Result {
	terms := r.normalize(query)
	if len(terms) == 0 {
		return nil
	}

	results := make([]Result, 0, len(docs))
	for _, doc := range docs {
		score := r.score(terms, doc)
		if score > 0 {
			results = append(results, Result{ID: doc.ID, Score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score == results[j].Score {
			return results[i].ID < results[j].ID
		}
		return results[i].Score > results[j].Score
	})
	return results
}

// score sums per-term weighted frequencies in both fields and scales the
// total by query-term coverage, so documents matching more distinct terms
// rank above documents repeating a single term.
func (r *Ranker) score(terms []string, doc Document) float64 {
	high := termFrequencies(r.tokenize(doc.HighField))
	low := termFrequencies(r.tokenize(doc.LowField))

	var total float64
	matched := 0
	for _, term := range terms {
		fieldScore := r.highWeight*high[term] + r.lowWeight*low[term]
		if fieldScore > 0 {
			matched++
			total += fieldScore
		}
	}
	if matched == 0 {
		return 0
	}
	return total * float64(matched) / float64(len(terms))
}

// normalize lowercases and tokenizes the query, removes stop words, stems,
// and deduplicates while preserving first-seen order.
func (r *Ranker) normalize(query string) []string {
	tokens := r.tokenize(query)
	seen := make(map[string]struct{}, len(tokens))
	terms := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		terms = append(terms, tok)
	}
	return terms
}

func (r *Ranker) tokenize(text string) []string {
	split := func(c rune) bool { return !unicode.IsLetter(c) && !unicode.IsNumber(c) }
	fields := strings.FieldsFunc(strings.ToLower(text), split)

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, stop := r.stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, stem(f))
	}
	return tokens
}

// termFrequencies returns length-normalized term frequencies so long
// fields do not dominate short ones.
func termFrequencies(tokens []string) map[string]float64 {
	freq := make(map[string]float64, len(tokens))
	if len(tokens) == 0 {
		return freq
	}
	for _, tok := range tokens {
		freq[tok]++
	}
	n := float64(len(tokens))
	for tok := range freq {
		freq[tok] /= n
	}
	return freq
}

// stem strips common English suffixes so close word forms match. It is a
// light normalization, not a full stemmer; short words pass unchanged.
func stem(word string) string {
	for _, suffix := range []string{"ingly", "edly", "ing", "ies", "ed", "es", "ly", "s"} {
		if strings.HasSuffix(word, suffix) && len(word)-len(suffix) >= 3 {
			if suffix == "ies" {
				return word[:len(word)-3] + "y"
			}
			if suffix == "s" && strings.HasSuffix(word, "ss") {
				return word
			}
			return word[:len(word)-len(suffix)]
		}
	}
	return word
}
