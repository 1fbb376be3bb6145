// Command update-review-images resets review images to the default placeholder.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"see-eat-backend/config"
	"see-eat-backend/internal/domain"
	"see-eat-backend/internal/repository/document"
	"see-eat-backend/internal/repository/postgres"
	"see-eat-backend/pkg/database"
	"see-eat-backend/pkg/logger"

	"go.uber.org/zap"
)

type options struct {
	OnlyMissing bool
	DryRun      bool
}

// needsReset reports whether a review should get the placeholder images.
func needsReset(r domain.Review, onlyMissing bool) bool {
	if !onlyMissing {
		return true
	}
	return r.RestaurantImage == "" || len(r.Images) == 0
}

func updateReviewImages(ctx context.Context, reviews domain.ReviewRepository, opts options) (int, error) {
	list, err := reviews.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, r := range list {
		if !needsReset(r, opts.OnlyMissing) {
			continue
		}
		if !opts.DryRun {
			patch := domain.Document{
				"restaurantImage": domain.DefaultReviewImage,
				"images":          []string{domain.DefaultReviewImage},
			}
			if err := reviews.Update(ctx, r.ID, patch); err != nil {
				return updated, err
			}
		}
		logger.Log.Info("Updated review images", zap.String("review_id", r.ID), zap.Bool("dry_run", opts.DryRun))
		updated++
	}
	return updated, nil
}

func main() {
	var opts options
	flag.BoolVar(&opts.OnlyMissing, "only-missing", false, "only touch reviews without images")
	flag.BoolVar(&opts.DryRun, "dry-run", false, "log what would change without writing")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	store := postgres.NewDocumentStore(pool, cfg.ReadRetryAttempts)
	n, err := updateReviewImages(ctx, document.NewReviewRepository(store), opts)
	if err != nil {
		logger.Log.Fatal("Updating review images failed", zap.Int("updated", n), zap.Error(err))
	}
	logger.Log.Info("All review images updated", zap.Int("updated", n))
}
