package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewgenius/internal/config"
	"reviewgenius/internal/domain"
	"reviewgenius/internal/search"
	"reviewgenius/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubStore struct {
	products map[string]domain.Product
	reviews  map[string][]domain.Review
}

func (s *stubStore) Product(_ context.Context, asin string) (domain.Product, error) {
	p, ok := s.products[asin]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, nil
}

func (s *stubStore) AllProducts(_ context.Context) ([]domain.ProductSummary, error) {
	summaries := make([]domain.ProductSummary, 0, len(s.products))
	for _, p := range s.products {
		summaries = append(summaries, domain.ProductSummary{ASIN: p.ASIN, Title: p.Title, Scores: p.Scores})
	}
	return summaries, nil
}

func (s *stubStore) SaveAnalysis(_ context.Context, _ string, _ domain.Analysis) error {
	return nil
}

func (s *stubStore) ReviewsByProduct(_ context.Context, asin string) ([]domain.Review, error) {
	return s.reviews[asin], nil
}

func (s *stubStore) ProductCorpus(_ context.Context, _ search.IndexFilter) ([]search.Document, error) {
	docs := make([]search.Document, 0, len(s.products))
	for _, p := range s.products {
		docs = append(docs, search.Document{ID: p.ASIN, HighField: p.Title, LowField: p.Description})
	}
	return docs, nil
}

func (s *stubStore) ReviewCorpus(_ context.Context, asin string) ([]search.Document, error) {
	docs := make([]search.Document, 0, len(s.reviews[asin]))
	for _, r := range s.reviews[asin] {
		docs = append(docs, search.Document{ID: r.ID, HighField: r.Summary, LowField: r.Body})
	}
	return docs, nil
}

func newTestRouter() (*gin.Engine, *stubStore) {
	store := &stubStore{
		products: map[string]domain.Product{
			"B01": {
				ASIN:        "B01",
				Title:       "Nova Blender",
				Description: "Crushes ice and frozen fruit",
				Price:       49.99,
				Scores:      domain.ScoreDistribution{2, 2, 0, 2, 2},
				Keywords: []domain.Keyword{
					{Word: "smoothies", Label: domain.Positive, Score: 1.2},
					{Word: "motor", Label: domain.Negative, Score: 0.9},
				},
			},
			"THIN": {ASIN: "THIN", Title: "New Arrival"},
		},
		reviews: map[string][]domain.Review{
			"B01": {
				{ID: "r1", ASIN: "B01", Score: 5, Summary: "Love it", Body: "blends smoothies quickly every morning"},
				{ID: "r2", ASIN: "B01", Score: 5, Body: "crushes ice and blends smoothies quickly"},
				{ID: "r3", ASIN: "B01", Score: 4, Body: "quickly blends frozen fruit smoothies"},
				{ID: "r4", ASIN: "B01", Score: 4, Body: "smoothies come out smooth and quickly done"},
				{ID: "r5", ASIN: "B01", Score: 1, Body: "motor died within days leaking oil"},
				{ID: "r6", ASIN: "B01", Score: 1, Body: "leaking base and motor died fast"},
				{ID: "r7", ASIN: "B01", Score: 2, Body: "motor leaking after one week died"},
				{ID: "r8", ASIN: "B01", Score: 2, Body: "died on arrival motor leaking badly"},
			},
			"THIN": {
				{ID: "t1", ASIN: "THIN", Score: 5, Body: "sturdy handle solid build"},
			},
		},
	}

	cfg := config.AnalysisConfig{Weighting: "count", Folds: 2, Confidence: 10, KeywordCount: 10}
	insights := usecase.NewInsights(usecase.InsightsDeps{Products: store, Reviews: store, Analysis: cfg})
	searcher := usecase.NewSearch(usecase.SearchDeps{Corpus: store, Ranker: search.NewRanker(0, 0)})

	return NewRouter(insights, searcher, store, nil), store
}

func doRequest(t *testing.T, router *gin.Engine, method, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]any
	if len(rec.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	}
	return rec, body
}

func TestHealth(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter()
	rec, body := doRequest(t, router, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestSearchRequiresQuery(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter()
	rec, _ := doRequest(t, router, http.MethodGet, "/search")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchProducts(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter()
	rec, body := doRequest(t, router, http.MethodGet, "/search?query=blender")
	require.Equal(t, http.StatusOK, rec.Code)

	results, ok := body["results"].([]any)
	require.True(t, ok)
	require.Len(t, results, 1)
	first := results[0].(map[string]any)
	assert.Equal(t, "B01", first["id"])
}

func TestProductLookup(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter()
	rec, body := doRequest(t, router, http.MethodGet, "/products/B01")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Nova Blender", body["title"])
	assert.Equal(t, 49.99, body["price"])
}

func TestProductNotFound(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter()
	rec, body := doRequest(t, router, http.MethodGet, "/products/NOPE")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "product not found", body["error"])
}

func TestScores(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter()
	rec, body := doRequest(t, router, http.MethodGet, "/products/B01/scores")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, float64(24), body["totalStars"])
	assert.Equal(t, float64(8), body["reviewCount"])
	dist, ok := body["distribution"].([]any)
	require.True(t, ok)
	assert.Equal(t, []any{float64(2), float64(2), float64(0), float64(2), float64(2)}, dist)

	// Catalog prior pools to 24/8 = 3.0, so with C=10 the shrunk score is
	// (10*3 + 24) / (10 + 8) = 3.0.
	quality, ok := body["qualityScore"].(float64)
	require.True(t, ok)
	assert.InDelta(t, 3.0, quality, 1e-9)
}

func TestExtractKeywords(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter()
	rec, body := doRequest(t, router, http.MethodPost, "/products/B01/extract")
	require.Equal(t, http.StatusOK, rec.Code)

	positive, ok := body["positive"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, positive)
	negative, ok := body["negative"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, negative)
}

func TestExtractKeywordsSingleClassCorpus(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter()
	rec, body := doRequest(t, router, http.MethodPost, "/products/THIN/extract")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, notEnoughReviewsMsg, body["error"])
}

func TestCachedKeywords(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter()
	rec, body := doRequest(t, router, http.MethodGet, "/products/B01/keywords")
	require.Equal(t, http.StatusOK, rec.Code)

	positive := body["positive"].([]any)
	require.Len(t, positive, 1)
	assert.Equal(t, "smoothies", positive[0].(map[string]any)["word"])
	negative := body["negative"].([]any)
	require.Len(t, negative, 1)
	assert.Equal(t, "motor", negative[0].(map[string]any)["word"])
}

func TestValidate(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter()
	rec, body := doRequest(t, router, http.MethodGet, "/products/B01/validate?folds=2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 1.0, body["avgPrecision"].(float64), 1e-9)
	assert.InDelta(t, 1.0, body["avgRecall"].(float64), 1e-9)
}

func TestValidateRejectsBadFolds(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter()

	rec, _ := doRequest(t, router, http.MethodGet, "/products/B01/validate?folds=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doRequest(t, router, http.MethodGet, "/products/B01/validate?folds=1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchReviews(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter()
	rec, body := doRequest(t, router, http.MethodGet, "/products/B01/reviews/search?query=motor")
	require.Equal(t, http.StatusOK, rec.Code)

	results := body["results"].([]any)
	require.Len(t, results, 4)
	for _, r := range results {
		id := r.(map[string]any)["id"].(string)
		assert.Contains(t, []string{"r5", "r6", "r7", "r8"}, id)
	}
}
