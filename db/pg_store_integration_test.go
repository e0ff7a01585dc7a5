//go:build integration
// +build integration

package db

import (
	"context"
	"testing"
	"time"

	"blogrig-server/shared"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestStore(t *testing.T) *PgStore {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("blogtest"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	conn, err := Connect(connStr, false)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, MigrationsUp(conn, "../migrations"))

	return NewPgStore(conn)
}

func TestPgStore(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))

	user := &User{Username: "alice", Email: "alice@example.com", Password: "hash", FirstName: "Alice", LastName: "A", IsActive: true}
	require.NoError(t, s.CreateUser(ctx, user))
	assert.NotZero(t, user.Id)
	assert.Equal(t, shared.RoleUser, user.Role)

	err := s.CreateUser(ctx, &User{Username: "alice", Email: "other@example.com", Password: "hash", FirstName: "A", LastName: "B"})
	assert.True(t, errors.Is(err, ErrDuplicate))

	t.Run("partial user update", func(t *testing.T) {
		ok, err := s.UpdateUser(ctx, user.Id, &UserUpdate{FirstName: shared.Some("Alicia"), Bio: shared.Some("hi")})
		require.NoError(t, err)
		assert.True(t, ok)

		got, err := s.GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Alicia", got.FirstName)
		assert.Equal(t, "A", got.LastName)
		require.NotNil(t, got.Bio)
		assert.Equal(t, "hi", *got.Bio)
	})

	cat := &Category{Name: "Tech", Slug: "tech"}
	require.NoError(t, s.CreateCategory(ctx, cat))

	now := time.Now().UTC()
	post := &Post{
		Title: "Hello", Slug: "hello", Content: "<p>Hello world</p>", AuthorId: user.Id, CategoryId: &cat.Id,
		Tags: Tags{"go", "sql"}, Status: shared.PostStatusPublished, PublishedAt: &now,
	}
	require.NoError(t, s.CreatePost(ctx, post))

	t.Run("post joins and views", func(t *testing.T) {
		require.NoError(t, s.IncrementPostViews(ctx, post.Id))
		require.NoError(t, s.IncrementPostViews(ctx, post.Id))

		got, err := s.GetPostBySlug(ctx, "hello")
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.ViewCount)
		assert.Equal(t, Tags{"go", "sql"}, got.Tags)
		require.NotNil(t, got.AuthorName)
		assert.Equal(t, "alice", *got.AuthorName)
		require.NotNil(t, got.CategorySlug)
		assert.Equal(t, "tech", *got.CategorySlug)
	})

	t.Run("post filters", func(t *testing.T) {
		posts, total, err := s.ListPosts(ctx, PostFilter{Status: "published", CategorySlug: "tech", Search: "WORLD", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Len(t, posts, 1)

		_, total, err = s.ListPosts(ctx, PostFilter{Status: "draft", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 0, total)
	})

	t.Run("category counts", func(t *testing.T) {
		cats, err := s.ListCategories(ctx)
		require.NoError(t, err)
		require.Len(t, cats, 1)
		assert.Equal(t, 1, *cats[0].PostCount)
	})

	t.Run("comments", func(t *testing.T) {
		guest := "guest"
		pending := &Comment{PostId: post.Id, AuthorName: &guest, Content: "first"}
		require.NoError(t, s.CreateComment(ctx, pending))
		assert.Equal(t, shared.CommentStatusPending, pending.Status)

		comments, err := s.ListApprovedComments(ctx, post.Id)
		require.NoError(t, err)
		assert.Empty(t, comments)

		ok, err := s.UpdateCommentStatus(ctx, pending.Id, shared.CommentStatusApproved)
		require.NoError(t, err)
		assert.True(t, ok)

		comments, err = s.ListApprovedComments(ctx, post.Id)
		require.NoError(t, err)
		require.Len(t, comments, 1)
		assert.Nil(t, comments[0].AuthorId)
	})

	t.Run("delete cascades", func(t *testing.T) {
		ok, err := s.DeletePost(ctx, post.Id)
		require.NoError(t, err)
		assert.True(t, ok)

		_, total, err := s.ListComments(ctx, CommentFilter{Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 0, total)
	})
}
