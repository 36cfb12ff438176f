// Package ingest implements catalog scanners that turn product listing
// pages into domain records ready for persistence.
package ingest

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"reviewgenius/internal/domain"
	"reviewgenius/internal/scanner"
)

// ListingScanner crawls category listing pages and extracts products with
// their inline reviews. The expected markup is one .product element per
// item carrying a data-asin attribute, with nested .review elements.
type ListingScanner struct {
	client *http.Client
}

var _ scanner.Scanner = (*ListingScanner)(nil)

// NewListingScanner wires an HTTP client; a nil client gets a 20s timeout default.
func NewListingScanner(client *http.Client) *ListingScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &ListingScanner{client: client}
}

// Name identifies the strategy inside the registry.
func (l *ListingScanner) Name() string {
	return "listing"
}

// Scan walks through each category URL and aggregates every product found,
// deduplicating by ASIN across categories.
func (l *ListingScanner) Scan(ctx context.Context, req scanner.Request) (scanner.Catalog, error) {
	if len(req.Categories) == 0 {
		return scanner.Catalog{}, fmt.Errorf("no categories provided for site %s", req.SiteName)
	}

	var catalog scanner.Catalog
	seen := map[string]struct{}{}

	for _, cat := range req.Categories {
		doc, err := l.fetchDocument(ctx, cat.URL)
		if err != nil {
			return scanner.Catalog{}, fmt.Errorf("category %s: %w", cat.Name, err)
		}

		products, reviews := extractListing(doc, cat.Name)
		for _, product := range products {
			if _, ok := seen[product.ASIN]; ok {
				continue
			}
			seen[product.ASIN] = struct{}{}
			catalog.Products = append(catalog.Products, product)
		}
		catalog.Reviews = append(catalog.Reviews, reviews...)
	}

	return catalog, nil
}

func (l *ListingScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "ReviewGenius/1.0")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func extractListing(doc *goquery.Document, category string) ([]domain.Product, []domain.Review) {
	var (
		products []domain.Product
		reviews  []domain.Review
	)

	doc.Find(".product").Each(func(i int, sel *goquery.Selection) {
		asin, ok := sel.Attr("data-asin")
		asin = strings.TrimSpace(asin)
		if !ok || asin == "" {
			return
		}

		product := domain.Product{
			ASIN:        asin,
			Title:       strings.TrimSpace(sel.Find(".title").First().Text()),
			Description: strings.TrimSpace(sel.Find(".description").First().Text()),
			Author:      strings.TrimSpace(sel.Find(".author").First().Text()),
			Price:       parsePrice(sel.Find(".price").First().Text()),
		}
		if img, exists := sel.Find("img").First().Attr("src"); exists {
			product.ImageURL = img
		}
		if category != "" {
			product.Categories = []string{category}
		}
		products = append(products, product)

		sel.Find(".review").Each(func(j int, rev *goquery.Selection) {
			review, err := parseReview(rev, asin)
			if err != nil {
				return
			}
			reviews = append(reviews, review)
		})
	})

	return products, reviews
}

func parseReview(sel *goquery.Selection, asin string) (domain.Review, error) {
	score, err := strconv.Atoi(strings.TrimSpace(sel.Find(".stars").First().Text()))
	if err != nil || score < 1 || score > 5 {
		return domain.Review{}, fmt.Errorf("invalid star rating")
	}

	id, ok := sel.Attr("data-review-id")
	id = strings.TrimSpace(id)
	if !ok || id == "" {
		// Listings without stable review ids get a generated one; the
		// same review re-scanned later will then insert as new, which
		// the store's conflict handling tolerates.
		id = uuid.NewString()
	}

	review := domain.Review{
		ID:           id,
		ASIN:         asin,
		ReviewerName: strings.TrimSpace(sel.Find(".reviewer").First().Text()),
		Summary:      strings.TrimSpace(sel.Find(".summary").First().Text()),
		Body:         strings.TrimSpace(sel.Find(".body").First().Text()),
		Score:        score,
		SubmittedAt:  time.Now().UTC(),
	}

	if dateText := strings.TrimSpace(sel.Find(".date").First().Text()); dateText != "" {
		if parsed, err := time.Parse("2006-01-02", dateText); err == nil {
			review.SubmittedAt = parsed
		}
	}

	return review, nil
}

func parsePrice(text string) float64 {
	text = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(text), "$€£"))
	price, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0
	}
	return price
}
