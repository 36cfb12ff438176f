package insight

import "strings"

// englishStopWords is the built-in general-purpose list applied to every
// corpus before vectorization.
var englishStopWords = []string{
	"a", "about", "above", "after", "again", "against", "all", "also", "am",
	"an", "and", "any", "are", "as", "at", "be", "because", "been", "before",
	"being", "below", "between", "both", "but", "by", "came", "can", "cannot",
	"could", "did", "do", "does", "doing", "down", "during", "each", "few",
	"for", "from", "further", "get", "got", "had", "has", "have", "having",
	"he", "her", "here", "hers", "him", "his", "how", "i", "if", "in", "into",
	"is", "it", "its", "itself", "just", "like", "me", "more", "most", "much",
	"my", "myself", "no", "nor", "not", "now", "of", "off", "on", "once",
	"only", "or", "other", "our", "ours", "out", "over", "own", "same", "she",
	"should", "so", "some", "still", "such", "than", "that", "the", "their",
	"theirs", "them", "then", "there", "these", "they", "this", "those",
	"through", "to", "too", "under", "until", "up", "use", "used", "very",
	"was", "we", "were", "what", "when", "where", "which", "while", "who",
	"whom", "why", "will", "with", "would", "you", "your", "yours", "yourself",
}

// sentimentStopWords are generic sentiment adjectives that would otherwise
// dominate every product's top keywords.
var sentimentStopWords = []string{
	"great", "good", "bad", "awful", "excellent", "terrible",
	"amazing", "worst", "perfect", "horrible", "best",
}

// CombinedStopWords merges the built-in lists with caller-supplied extras
// (typically the product's own title words). All entries are lowercased so
// membership checks are case-insensitive.
func CombinedStopWords(extra []string) map[string]struct{} {
	combined := make(map[string]struct{}, len(englishStopWords)+len(sentimentStopWords)+len(extra))
	for _, w := range englishStopWords {
		combined[w] = struct{}{}
	}
	for _, w := range sentimentStopWords {
		combined[w] = struct{}{}
	}
	for _, w := range extra {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			combined[w] = struct{}{}
		}
	}
	return combined
}

// TitleStopWords splits a product title into lowercase words suitable as
// per-product extra stop words.
func TitleStopWords(title string) []string {
	fields := strings.Fields(strings.ToLower(title))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		words = append(words, strings.Trim(f, ".,:;!?()\"'"))
	}
	return words
}
