// Command seed loads a product catalog into Postgres from a JSON snapshot
// or from the listing sites named in the configuration, then optionally
// runs one analysis pass over the imported products.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"reviewgenius/internal/config"
	"reviewgenius/internal/domain"
	"reviewgenius/internal/infrastructure/ingest"
	"reviewgenius/internal/infrastructure/storage"
	"reviewgenius/internal/logging"
	"reviewgenius/internal/scanner"
	"reviewgenius/internal/usecase"
	"reviewgenius/pkg/logger"
)

type snapshot struct {
	Products []domain.Product `json:"products"`
	Reviews  []domain.Review  `json:"reviews"`
}

func main() {
	_ = godotenv.Load()

	var (
		filePath = flag.String("file", "", "path to a JSON catalog snapshot")
		scanSite = flag.Bool("scan", false, "scan the sites from configuration")
		refresh  = flag.Bool("refresh", true, "run an analysis pass after seeding")
	)
	flag.Parse()

	log := logger.New("seed")
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	var catalog scanner.Catalog

	switch {
	case *filePath != "":
		catalog, err = loadSnapshot(*filePath)
		if err != nil {
			log.Fatalf("load snapshot: %v", err)
		}
	case *scanSite:
		catalog, err = scanSites(ctx, cfg)
		if err != nil {
			log.Fatalf("scan sites: %v", err)
		}
	default:
		log.Fatal("nothing to do: pass -file or -scan")
	}

	for _, product := range catalog.Products {
		if err := repo.SaveProduct(ctx, product); err != nil {
			log.Fatalf("save product %s: %v", product.ASIN, err)
		}
	}
	if err := repo.SaveReviews(ctx, catalog.Reviews); err != nil {
		log.Fatalf("save reviews: %v", err)
	}
	log.Printf("seeded %d products, %d reviews", len(catalog.Products), len(catalog.Reviews))

	if *refresh {
		insights := usecase.NewInsights(usecase.InsightsDeps{
			Products: repo,
			Reviews:  repo,
			Analysis: cfg.Analysis,
		})
		refresher := usecase.NewRefresher(insights, logging.New(cfg.Logging.Level).With("component", "refresher"))
		if err := refresher.RefreshCatalog(ctx); err != nil {
			log.Fatalf("refresh catalog: %v", err)
		}
		log.Print("analysis pass complete")
	}
}

func loadSnapshot(path string) (scanner.Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return scanner.Catalog{}, err
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return scanner.Catalog{}, err
	}

	return scanner.Catalog{Products: snap.Products, Reviews: snap.Reviews}, nil
}

func scanSites(ctx context.Context, cfg config.Config) (scanner.Catalog, error) {
	registry := scanner.NewRegistry()
	registry.Register(ingest.NewListingScanner(nil))

	var catalog scanner.Catalog
	for _, site := range cfg.Sites {
		strategy, err := registry.Resolve(site.Scanner)
		if err != nil {
			return scanner.Catalog{}, err
		}

		req := scanner.Request{SiteName: site.Name}
		for _, cat := range site.Categories {
			req.Categories = append(req.Categories, scanner.Category{Name: cat.Name, URL: cat.URL})
		}

		result, err := strategy.Scan(ctx, req)
		if err != nil {
			return scanner.Catalog{}, err
		}
		catalog.Products = append(catalog.Products, result.Products...)
		catalog.Reviews = append(catalog.Reviews, result.Reviews...)
	}

	return catalog, nil
}
