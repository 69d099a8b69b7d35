package seed

import (
	"context"
	"testing"

	"github.com/namgiho96/giho-blog/internal/database"
	"github.com/namgiho96/giho-blog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

func TestSeeder_RunKeepsCountersConsistent(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	s := NewSeeder(db, Options{Readers: 5, MaxViews: 10, MaxLikes: 8, MaxComments: 3, Seed: 42})
	sum, err := s.Run(ctx, []string{"hello-world", "optimistic-ui"})
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Posts)

	var views, likes, comments int64
	require.NoError(t, db.Model(&models.View{}).Count(&views).Error)
	require.NoError(t, db.Model(&models.Like{}).Count(&likes).Error)
	require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)
	assert.Equal(t, int64(sum.Views), views)
	assert.Equal(t, int64(sum.Likes), likes)
	assert.Equal(t, int64(sum.Comments), comments)

	var stats []models.PostStats
	require.NoError(t, db.Find(&stats).Error)
	var viewTotal, likeTotal int64
	for _, st := range stats {
		viewTotal += st.ViewCount
		likeTotal += st.LikeCount
	}
	assert.Equal(t, views, viewTotal)
	assert.Equal(t, likes, likeTotal)

	// At most one like per reader per post.
	assert.LessOrEqual(t, sum.Likes, 2*5)

	require.NoError(t, s.ClearAll(ctx))
	require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)
	require.NoError(t, db.Model(&models.PostStats{}).Count(&viewTotal).Error)
	assert.Zero(t, comments)
	assert.Zero(t, viewTotal)
}

func TestSeeder_DryRunWritesNothing(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	s := NewSeeder(db, Options{Readers: 3, MaxViews: 5, MaxLikes: 3, MaxComments: 2, Seed: 7, DryRun: true})
	_, err := s.Run(ctx, []string{"hello-world"})
	require.NoError(t, err)
	require.NoError(t, s.ClearAll(ctx))

	var count int64
	require.NoError(t, db.Model(&models.View{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSeeder_SameSeedSameShape(t *testing.T) {
	opts := Options{Readers: 4, MaxViews: 6, MaxLikes: 4, MaxComments: 4, Seed: 99, DryRun: true}
	a, err := NewSeeder(nil, opts).Run(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	b, err := NewSeeder(nil, opts).Run(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
