// Package seed fills the interaction tables with demo views, likes and
// comments for the posts in the content library. Development use only.
package seed

import (
	"context"
	"fmt"

	"github.com/namgiho96/giho-blog/internal/middleware"
	"github.com/namgiho96/giho-blog/internal/models"
	"github.com/namgiho96/giho-blog/internal/repository"
	"github.com/namgiho96/giho-blog/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options bound how much is generated per post.
type Options struct {
	Readers     int
	MaxViews    int
	MaxLikes    int
	MaxComments int
	// Seed makes a run reproducible. Zero picks a random seed.
	Seed int64
	// DryRun generates data without writing it.
	DryRun bool
}

// DefaultOptions are used by the seed command.
func DefaultOptions() Options {
	return Options{Readers: 25, MaxViews: 120, MaxLikes: 20, MaxComments: 6}
}

// Summary counts what a run produced.
type Summary struct {
	Posts    int
	Views    int
	Likes    int
	Comments int
}

// Seeder writes demo interactions through the live stores so counters stay consistent.
type Seeder struct {
	db     *gorm.DB
	stores service.Stores
	opts   Options
	faker  *gofakeit.Faker
}

func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{
		db: db,
		stores: service.NewLiveStores(
			repository.NewCounterRepository(db),
			repository.NewCommentRepository(db, nil),
		),
		opts:  opts,
		faker: gofakeit.New(opts.Seed),
	}
}

// ClearAll removes every interaction row.
func (s *Seeder) ClearAll(ctx context.Context) error {
	if s.opts.DryRun {
		middleware.Logger.Info("[dry-run] skipping cleanup")
		return nil
	}
	for _, model := range []any{&models.Comment{}, &models.Like{}, &models.View{}, &models.PostStats{}} {
		if err := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// Run seeds every slug and returns what was written.
func (s *Seeder) Run(ctx context.Context, slugs []string) (Summary, error) {
	var total Summary
	readers := s.readers()

	for _, slug := range slugs {
		got, err := s.seedPost(ctx, slug, readers)
		if err != nil {
			return total, fmt.Errorf("seed %s: %w", slug, err)
		}
		total.Posts++
		total.Views += got.Views
		total.Likes += got.Likes
		total.Comments += got.Comments
		middleware.Logger.Info("seeded post", "slug", slug,
			"views", got.Views, "likes", got.Likes, "comments", got.Comments)
	}
	return total, nil
}

func (s *Seeder) readers() []string {
	n := max(s.opts.Readers, 1)
	ids := make([]string, n)
	for i := range ids {
		ids[i] = s.faker.UUID()
	}
	return ids
}

func (s *Seeder) seedPost(ctx context.Context, slug string, readers []string) (Summary, error) {
	var sum Summary

	views := s.upTo(s.opts.MaxViews)
	for i := 0; i < views; i++ {
		if s.opts.DryRun {
			sum.Views++
			continue
		}
		res, err := s.stores.Counters.RecordView(ctx, slug, s.faker.UUID())
		if err != nil {
			return sum, err
		}
		if res.IsNewView {
			sum.Views++
		}
	}

	// Each reader likes at most once; toggling twice would undo it.
	likes := min(s.upTo(s.opts.MaxLikes), len(readers))
	for _, reader := range readers[:likes] {
		if s.opts.DryRun {
			sum.Likes++
			continue
		}
		if _, err := s.stores.Counters.ToggleLike(ctx, slug, reader); err != nil {
			return sum, err
		}
		sum.Likes++
	}

	comments := s.upTo(s.opts.MaxComments)
	for i := 0; i < comments; i++ {
		text := s.commentText()
		if s.opts.DryRun {
			sum.Comments++
			continue
		}
		reader := readers[s.faker.Number(0, len(readers)-1)]
		if _, err := s.stores.Comments.Create(ctx, service.CreateCommentInput{
			PostSlug: slug,
			UserID:   reader,
			Content:  text,
		}); err != nil {
			return sum, err
		}
		sum.Comments++
	}
	return sum, nil
}

func (s *Seeder) upTo(limit int) int {
	if limit <= 0 {
		return 0
	}
	return s.faker.Number(0, limit)
}

func (s *Seeder) commentText() string {
	text := s.faker.Sentence(s.faker.Number(4, 18))
	if r := []rune(text); len(r) > models.MaxCommentLength {
		text = string(r[:models.MaxCommentLength])
	}
	return text
}
