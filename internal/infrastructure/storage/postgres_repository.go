package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"reviewgenius/internal/domain"
	"reviewgenius/internal/ports"
	"reviewgenius/internal/search"
)

// PostgresRepository persists products, reviews, and cached analysis
// results into Postgres.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ReviewStore = (*PostgresRepository)(nil)
var _ ports.ProductStore = (*PostgresRepository)(nil)
var _ ports.CorpusStore = (*PostgresRepository)(nil)
var _ ports.CatalogWriter = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar).RunWith(db),
	}
}

// EnsureSchema creates the tables when they do not exist yet.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
			asin TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			author TEXT NOT NULL DEFAULT '',
			price DOUBLE PRECISION NOT NULL DEFAULT 0,
			image TEXT NOT NULL DEFAULT '',
			scores INTEGER[] NOT NULL DEFAULT '{0,0,0,0,0}',
			n_scores INTEGER NOT NULL DEFAULT 0,
			quality_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			extracted_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS reviews (
			review_id TEXT PRIMARY KEY,
			asin TEXT NOT NULL REFERENCES products (asin),
			reviewer_id TEXT NOT NULL DEFAULT '',
			reviewer_name TEXT NOT NULL DEFAULT '',
			review TEXT NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			helpful_votes INTEGER NOT NULL DEFAULT 0,
			total_votes INTEGER NOT NULL DEFAULT 0,
			submitted_at TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS reviews_asin_idx ON reviews (asin)`,
		`CREATE TABLE IF NOT EXISTS keywords (
			asin TEXT NOT NULL REFERENCES products (asin),
			word TEXT NOT NULL,
			label TEXT NOT NULL,
			score DOUBLE PRECISION NOT NULL DEFAULT 0,
			PRIMARY KEY (asin, word, label)
		)`,
		`CREATE TABLE IF NOT EXISTS product_categories (
			asin TEXT NOT NULL REFERENCES products (asin),
			cat_name TEXT NOT NULL,
			PRIMARY KEY (asin, cat_name)
		)`,
	}

	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// ReviewsByProduct loads a product's full review history in insertion order.
func (r *PostgresRepository) ReviewsByProduct(ctx context.Context, asin string) ([]domain.Review, error) {
	rows, err := r.builder.
		Select("review_id", "asin", "reviewer_id", "reviewer_name", "review",
			"summary", "score", "helpful_votes", "total_votes", "submitted_at").
		From("reviews").
		Where(sq.Eq{"asin": asin}).
		OrderBy("review_id").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rev domain.Review
		var submitted sql.NullTime
		if err := rows.Scan(&rev.ID, &rev.ASIN, &rev.ReviewerID, &rev.ReviewerName,
			&rev.Body, &rev.Summary, &rev.Score, &rev.HelpfulVotes, &rev.TotalVotes, &submitted); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		if submitted.Valid {
			rev.SubmittedAt = submitted.Time
		}
		reviews = append(reviews, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return reviews, nil
}

// Product loads a single product with its cached keywords and categories.
func (r *PostgresRepository) Product(ctx context.Context, asin string) (domain.Product, error) {
	var (
		product domain.Product
		scores  pq.Int64Array
	)

	err := r.builder.
		Select("asin", "title", "description", "author", "price", "image",
			"scores", "n_scores", "quality_score").
		From("products").
		Where(sq.Eq{"asin": asin}).
		QueryRowContext(ctx).
		Scan(&product.ASIN, &product.Title, &product.Description, &product.Author,
			&product.Price, &product.ImageURL, &scores, &product.ReviewCount, &product.QualityScore)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, fmt.Errorf("product %s: %w", asin, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("query product: %w", err)
	}
	product.Scores = toDistribution(scores)

	if product.Keywords, err = r.keywordsByProduct(ctx, asin); err != nil {
		return domain.Product{}, err
	}
	if product.Categories, err = r.categoriesByProduct(ctx, asin); err != nil {
		return domain.Product{}, err
	}

	return product, nil
}

// AllProducts loads the summaries needed to compute the catalog prior mean.
func (r *PostgresRepository) AllProducts(ctx context.Context) ([]domain.ProductSummary, error) {
	rows, err := r.builder.
		Select("asin", "title", "scores").
		From("products").
		OrderBy("asin").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var summaries []domain.ProductSummary
	for rows.Next() {
		var (
			summary domain.ProductSummary
			scores  pq.Int64Array
		)
		if err := rows.Scan(&summary.ASIN, &summary.Title, &scores); err != nil {
			return nil, fmt.Errorf("scan product summary: %w", err)
		}
		summary.Scores = toDistribution(scores)
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return summaries, nil
}

// SaveAnalysis caches the derived distribution, quality score, and keyword
// lists on the product record, replacing the previous extraction pass.
func (r *PostgresRepository) SaveAnalysis(ctx context.Context, asin string, analysis domain.Analysis) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin analysis tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).RunWith(tx)

	res, err := builder.
		Update("products").
		Set("scores", scoresArray(analysis.Scores)).
		Set("n_scores", analysis.Scores.Total()).
		Set("quality_score", analysis.QualityScore).
		Set("extracted_at", analysis.ExtractedAt).
		Where(sq.Eq{"asin": asin}).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("update product analysis: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("product %s: %w", asin, domain.ErrNotFound)
	}

	if _, err := builder.Delete("keywords").Where(sq.Eq{"asin": asin}).ExecContext(ctx); err != nil {
		return fmt.Errorf("clear keywords: %w", err)
	}

	if len(analysis.Keywords) > 0 {
		insert := builder.Insert("keywords").Columns("asin", "word", "label", "score")
		for _, kw := range analysis.Keywords {
			insert = insert.Values(asin, kw.Word, string(kw.Label), kw.Score)
		}
		if _, err := insert.ExecContext(ctx); err != nil {
			return fmt.Errorf("insert keywords: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit analysis tx: %w", err)
	}
	return nil
}

// ProductCorpus returns the searchable product documents, optionally
// narrowed to a category sub-index before ranking.
func (r *PostgresRepository) ProductCorpus(ctx context.Context, filter search.IndexFilter) ([]search.Document, error) {
	query := r.builder.
		Select("p.asin", "p.title", "p.description").
		From("products p").
		OrderBy("p.asin")

	if filter.Filtered() {
		query = query.
			Join("product_categories pc ON pc.asin = p.asin").
			Where(sq.Eq{"pc.cat_name": filter.Category})
	}

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query product corpus: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// ReviewCorpus returns one product's reviews as searchable documents with
// the summary as the high-importance field.
func (r *PostgresRepository) ReviewCorpus(ctx context.Context, asin string) ([]search.Document, error) {
	rows, err := r.builder.
		Select("review_id", "summary", "review").
		From("reviews").
		Where(sq.Eq{"asin": asin}).
		OrderBy("review_id").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query review corpus: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// SaveProduct upserts a catalog record, keeping cached analysis columns
// untouched on conflict.
func (r *PostgresRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	_, err := r.builder.
		Insert("products").
		Columns("asin", "title", "description", "author", "price", "image").
		Values(product.ASIN, product.Title, product.Description, product.Author, product.Price, product.ImageURL).
		Suffix(`ON CONFLICT (asin) DO UPDATE
			SET title = EXCLUDED.title,
			    description = EXCLUDED.description,
			    author = EXCLUDED.author,
			    price = EXCLUDED.price,
			    image = EXCLUDED.image`).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}

	for _, category := range product.Categories {
		_, err := r.builder.
			Insert("product_categories").
			Columns("asin", "cat_name").
			Values(product.ASIN, category).
			Suffix(`ON CONFLICT (asin, cat_name) DO NOTHING`).
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("upsert category: %w", err)
		}
	}

	return nil
}

// SaveReviews inserts ingested reviews, skipping ones already stored.
func (r *PostgresRepository) SaveReviews(ctx context.Context, reviews []domain.Review) error {
	if len(reviews) == 0 {
		return nil
	}

	insert := r.builder.
		Insert("reviews").
		Columns("review_id", "asin", "reviewer_id", "reviewer_name", "review",
			"summary", "score", "helpful_votes", "total_votes", "submitted_at")
	for _, rev := range reviews {
		insert = insert.Values(rev.ID, rev.ASIN, rev.ReviewerID, rev.ReviewerName,
			rev.Body, rev.Summary, rev.Score, rev.HelpfulVotes, rev.TotalVotes, rev.SubmittedAt)
	}

	if _, err := insert.Suffix(`ON CONFLICT (review_id) DO NOTHING`).ExecContext(ctx); err != nil {
		return fmt.Errorf("insert reviews: %w", err)
	}
	return nil
}

func (r *PostgresRepository) keywordsByProduct(ctx context.Context, asin string) ([]domain.Keyword, error) {
	rows, err := r.builder.
		Select("word", "label", "score").
		From("keywords").
		Where(sq.Eq{"asin": asin}).
		OrderBy("label", "score DESC", "word").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query keywords: %w", err)
	}
	defer rows.Close()

	var keywords []domain.Keyword
	for rows.Next() {
		var kw domain.Keyword
		var label string
		if err := rows.Scan(&kw.Word, &label, &kw.Score); err != nil {
			return nil, fmt.Errorf("scan keyword: %w", err)
		}
		kw.Label = domain.Polarity(label)
		keywords = append(keywords, kw)
	}
	return keywords, rows.Err()
}

func (r *PostgresRepository) categoriesByProduct(ctx context.Context, asin string) ([]string, error) {
	rows, err := r.builder.
		Select("cat_name").
		From("product_categories").
		Where(sq.Eq{"asin": asin}).
		OrderBy("cat_name").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, name)
	}
	return categories, rows.Err()
}

func scanDocuments(rows *sql.Rows) ([]search.Document, error) {
	var docs []search.Document
	for rows.Next() {
		var doc search.Document
		if err := rows.Scan(&doc.ID, &doc.HighField, &doc.LowField); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return docs, nil
}

func scoresArray(dist domain.ScoreDistribution) pq.Int64Array {
	arr := make(pq.Int64Array, len(dist))
	for i, n := range dist {
		arr[i] = int64(n)
	}
	return arr
}

func toDistribution(arr pq.Int64Array) domain.ScoreDistribution {
	var dist domain.ScoreDistribution
	for i := 0; i < len(arr) && i < len(dist); i++ {
		dist[i] = int(arr[i])
	}
	return dist
}
