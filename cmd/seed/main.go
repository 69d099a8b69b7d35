// Command seed fills the interaction store with demo views, likes and comments.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/namgiho96/giho-blog/internal/config"
	"github.com/namgiho96/giho-blog/internal/content"
	"github.com/namgiho96/giho-blog/internal/database"
	"github.com/namgiho96/giho-blog/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	readers := flag.Int("readers", defaults.Readers, "Number of distinct demo readers")
	maxViews := flag.Int("views", defaults.MaxViews, "Maximum views per post")
	maxLikes := flag.Int("likes", defaults.MaxLikes, "Maximum likes per post")
	maxComments := flag.Int("comments", defaults.MaxComments, "Maximum comments per post")
	randSeed := flag.Int64("seed", 0, "Random seed (0 for random)")
	shouldClean := flag.Bool("clean", true, "Clear interaction data before seeding")
	dryRun := flag.Bool("dry-run", false, "Generate without writing")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if !cfg.StoreConfigured() {
		log.Fatal("Database is not configured")
	}

	library, err := content.Load(cfg.ContentDir)
	if err != nil {
		log.Fatalf("Failed to load content: %v", err)
	}
	if library.Len() == 0 {
		log.Fatalf("No posts found in %s", cfg.ContentDir)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	if err := database.RunMigrations(ctx, db); err != nil {
		log.Fatalf("Migrations failed: %v", err)
	}

	s := seed.NewSeeder(db, seed.Options{
		Readers:     *readers,
		MaxViews:    *maxViews,
		MaxLikes:    *maxLikes,
		MaxComments: *maxComments,
		Seed:        *randSeed,
		DryRun:      *dryRun,
	})

	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	sum, err := s.Run(ctx, library.Slugs())
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Seeded %d posts: %d views, %d likes, %d comments",
		sum.Posts, sum.Views, sum.Likes, sum.Comments)
}
