package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"reviewgenius/internal/domain"
	"reviewgenius/internal/genius"
	"reviewgenius/internal/ports"
	"reviewgenius/internal/search"
	"reviewgenius/internal/usecase"
)

const notEnoughReviewsMsg = "not enough reviews to extract keywords"

type handlers struct {
	insights *usecase.Insights
	search   *usecase.Search
	products ports.ProductStore
	logger   *slog.Logger
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// searchProducts handles GET /search?query=...&index=... and returns
// relevancy-ordered product identifiers.
func (h *handlers) searchProducts(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter is required"})
		return
	}

	filter := search.IndexFilter{Category: c.Query("index")}
	results, err := h.search.Products(c.Request.Context(), query, filter)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"query": query, "results": toResultPayload(results)})
}

// searchReviews handles GET /products/:asin/reviews/search?query=...
func (h *handlers) searchReviews(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter is required"})
		return
	}

	results, err := h.search.Reviews(c.Request.Context(), c.Param("asin"), query)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"query": query, "results": toResultPayload(results)})
}

// product handles GET /products/:asin with the cached analysis values.
func (h *handlers) product(c *gin.Context) {
	product, err := h.products.Product(c.Request.Context(), c.Param("asin"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"asin":         product.ASIN,
		"title":        product.Title,
		"description":  product.Description,
		"author":       product.Author,
		"price":        product.Price,
		"image":        product.ImageURL,
		"scores":       product.Scores,
		"reviewCount":  product.ReviewCount,
		"qualityScore": product.QualityScore,
		"keywords":     toKeywordPayload(product.Keywords),
		"categories":   product.Categories,
	})
}

// scores handles GET /products/:asin/scores and returns the distribution
// as an ordered 5-element array plus its aggregates and the shrinkage-adjusted
// quality score, recomputed on demand from the stored reviews.
func (h *handlers) scores(c *gin.Context) {
	asin := c.Param("asin")
	dist, err := h.insights.ComputeDistribution(c.Request.Context(), asin)
	if err != nil {
		h.fail(c, err)
		return
	}

	quality, err := h.insights.ComputeQualityScore(c.Request.Context(), asin, 0, 0)
	if err != nil {
		h.fail(c, err)
		return
	}

	weightedSum, count := genius.TotalStars(dist)
	c.JSON(http.StatusOK, gin.H{
		"distribution": dist,
		"totalStars":   weightedSum,
		"reviewCount":  count,
		"qualityScore": quality,
	})
}

// extract handles POST /products/:asin/extract and recomputes the keyword
// lists on demand. Extra stop words may be supplied as a comma-separated
// stopWords query parameter; absent, the product title is used.
func (h *handlers) extract(c *gin.Context) {
	positive, negative, err := h.insights.ExtractKeywords(
		c.Request.Context(), c.Param("asin"), stopWordsParam(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"positive": toKeywordPayload(positive),
		"negative": toKeywordPayload(negative),
	})
}

// keywords handles GET /products/:asin/keywords with the cached lists.
func (h *handlers) keywords(c *gin.Context) {
	product, err := h.products.Product(c.Request.Context(), c.Param("asin"))
	if err != nil {
		h.fail(c, err)
		return
	}

	var positive, negative []domain.Keyword
	for _, kw := range product.Keywords {
		if kw.Label == domain.Positive {
			positive = append(positive, kw)
		} else {
			negative = append(negative, kw)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"positive": toKeywordPayload(positive),
		"negative": toKeywordPayload(negative),
	})
}

// validate handles GET /products/:asin/validate?folds=N.
func (h *handlers) validate(c *gin.Context) {
	folds := 0
	if raw := c.Query("folds"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "folds must be an integer >= 2"})
			return
		}
		folds = parsed
	}

	precision, recall, err := h.insights.ValidateKeywords(
		c.Request.Context(), c.Param("asin"), stopWordsParam(c), folds)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"avgPrecision": precision,
		"avgRecall":    recall,
	})
}

// fail maps domain errors onto HTTP statuses. Analysis errors are a
// client-visible "come back later" state, not a server fault.
func (h *handlers) fail(c *gin.Context, err error) {
	switch {
	case domain.IsAnalysisError(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": notEnoughReviewsMsg})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	case errors.Is(err, domain.ErrConfiguration):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if h.logger != nil {
			h.logger.Error("request failed", "path", c.FullPath(), "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func stopWordsParam(c *gin.Context) []string {
	raw := strings.TrimSpace(c.Query("stopWords"))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			words = append(words, p)
		}
	}
	return words
}

type resultPayload struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

func toResultPayload(results []search.Result) []resultPayload {
	payload := make([]resultPayload, 0, len(results))
	for _, r := range results {
		payload = append(payload, resultPayload{ID: r.ID, Score: r.Score})
	}
	return payload
}

type keywordPayload struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

func toKeywordPayload(keywords []domain.Keyword) []keywordPayload {
	payload := make([]keywordPayload, 0, len(keywords))
	for _, kw := range keywords {
		payload = append(payload, keywordPayload{Word: kw.Word, Score: kw.Score})
	}
	return payload
}
