package domain

import "time"

// Review is a single customer review as stored for a product.
// Reviews are immutable once ingested.
type Review struct {
	ID           string
	ASIN         string
	ReviewerID   string
	ReviewerName string
	Body         string
	Summary      string
	Score        int
	HelpfulVotes int
	TotalVotes   int
	SubmittedAt  time.Time
}

// HelpfulFraction is the share of voters that found the review helpful.
// Zero total votes is a legitimate "no data yet" state and yields 0.
func (r Review) HelpfulFraction() float64 {
	if r.TotalVotes == 0 {
		return 0
	}
	return float64(r.HelpfulVotes) / float64(r.TotalVotes)
}

// Product is a catalog item with its cached analysis results.
type Product struct {
	ASIN         string
	Title        string
	Description  string
	Author       string
	Price        float64
	ImageURL     string
	Scores       ScoreDistribution
	ReviewCount  int
	QualityScore float64
	Keywords     []Keyword
	Categories   []string
}

// ProductSummary carries just enough of a product to compute the
// catalog-wide prior mean.
type ProductSummary struct {
	ASIN   string
	Title  string
	Scores ScoreDistribution
}

// Polarity labels a review or keyword as positive or negative.
type Polarity string

const (
	Positive Polarity = "positive"
	Negative Polarity = "negative"
)

// Keyword is a review term extracted as characteristic of one polarity.
type Keyword struct {
	Word  string
	Label Polarity
	Score float64
}

// ScoreDistribution counts a product's reviews by star rating.
// Index i holds the number of (i+1)-star reviews, so the value
// serializes as an ordered 5-element array keyed by rating.
type ScoreDistribution [5]int

// Total is the number of reviews across all ratings.
func (d ScoreDistribution) Total() int {
	total := 0
	for _, n := range d {
		total += n
	}
	return total
}

// Analysis bundles the derived values a store may cache on the product
// record until the next extraction pass.
type Analysis struct {
	Scores       ScoreDistribution
	QualityScore float64
	Keywords     []Keyword
	ExtractedAt  time.Time
}
