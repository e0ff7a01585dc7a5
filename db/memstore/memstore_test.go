package memstore

import (
	"context"
	"testing"

	"blogrig-server/db"
	"blogrig-server/shared"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, s *Store, username string) *db.User {
	t.Helper()
	u := &db.User{Username: username, Email: username + "@example.com", Password: "x", FirstName: "F", LastName: "L", IsActive: true}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func TestCreateUserDuplicate(t *testing.T) {
	s := New()
	seedUser(t, s, "alice")

	err := s.CreateUser(context.Background(), &db.User{Username: "other", Email: "alice@example.com"})
	assert.True(t, errors.Is(err, db.ErrDuplicate))
}

func TestUpdateUserPartial(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := seedUser(t, s, "alice")
	bio := "hello"
	_, err := s.UpdateUser(ctx, u.Id, &db.UserUpdate{Bio: shared.Some(bio)})
	require.NoError(t, err)

	ok, err := s.UpdateUser(ctx, u.Id, &db.UserUpdate{FirstName: shared.Some("Alicia")})
	require.NoError(t, err)
	assert.True(t, ok)

	got, _ := s.GetUser(ctx, u.Id)
	assert.Equal(t, "Alicia", got.FirstName)
	assert.Equal(t, "L", got.LastName)
	require.NotNil(t, got.Bio)
	assert.Equal(t, "hello", *got.Bio)

	ok, err = s.UpdateUser(ctx, u.Id, &db.UserUpdate{Bio: shared.Optional[string]{Set: true, Null: true}})
	require.NoError(t, err)
	assert.True(t, ok)
	got, _ = s.GetUser(ctx, u.Id)
	assert.Nil(t, got.Bio)

	ok, err = s.UpdateUser(ctx, 999, &db.UserUpdate{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListPostsFilterAndPaginate(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := seedUser(t, s, "alice")

	for i := 0; i < 15; i++ {
		p := &db.Post{Title: "Post", Slug: "post-" + string(rune('a'+i)), Content: "body", AuthorId: u.Id, Status: shared.PostStatusPublished}
		require.NoError(t, s.CreatePost(ctx, p))
	}
	require.NoError(t, s.CreatePost(ctx, &db.Post{Title: "Draft", Slug: "draft", Content: "x", AuthorId: u.Id, Status: shared.PostStatusDraft}))

	posts, total, err := s.ListPosts(ctx, db.PostFilter{Status: "published", Limit: 10, Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, 15, total)
	assert.Len(t, posts, 5)

	posts, total, err = s.ListPosts(ctx, db.PostFilter{AuthorUsername: "alice", Search: "DRAFT", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "draft", posts[0].Slug)
	require.NotNil(t, posts[0].AuthorName)
	assert.Equal(t, "alice", *posts[0].AuthorName)
}

func TestCategoryPostCountAndDelete(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := seedUser(t, s, "alice")

	cat := &db.Category{Name: "Tech", Slug: "tech"}
	require.NoError(t, s.CreateCategory(ctx, cat))
	require.NoError(t, s.CreatePost(ctx, &db.Post{Title: "A", Slug: "a", Content: "x", AuthorId: u.Id, CategoryId: &cat.Id, Status: shared.PostStatusPublished}))
	require.NoError(t, s.CreatePost(ctx, &db.Post{Title: "B", Slug: "b", Content: "x", AuthorId: u.Id, CategoryId: &cat.Id, Status: shared.PostStatusDraft}))

	cats, err := s.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	require.NotNil(t, cats[0].PostCount)
	assert.Equal(t, 1, *cats[0].PostCount)

	ok, err := s.DeleteCategory(ctx, cat.Id)
	require.NoError(t, err)
	assert.True(t, ok)

	p, _ := s.GetPostBySlug(ctx, "a")
	assert.Nil(t, p.CategoryId)
}

func TestDeleteUserCascades(t *testing.T) {
	s := New()
	ctx := context.Background()
	author := seedUser(t, s, "alice")
	reader := seedUser(t, s, "bob")

	post := &db.Post{Title: "A", Slug: "a", Content: "x", AuthorId: author.Id}
	require.NoError(t, s.CreatePost(ctx, post))
	other := &db.Post{Title: "B", Slug: "b", Content: "x", AuthorId: reader.Id}
	require.NoError(t, s.CreatePost(ctx, other))

	onOther := &db.Comment{PostId: other.Id, AuthorId: &author.Id, Content: "hi"}
	require.NoError(t, s.CreateComment(ctx, onOther))
	onPost := &db.Comment{PostId: post.Id, AuthorId: &reader.Id, Content: "hi"}
	require.NoError(t, s.CreateComment(ctx, onPost))

	_, err := s.DeleteUser(ctx, author.Id)
	require.NoError(t, err)

	p, _ := s.GetPost(ctx, post.Id)
	assert.Nil(t, p)
	c, _ := s.GetComment(ctx, onPost.Id)
	assert.Nil(t, c)
	c, _ = s.GetComment(ctx, onOther.Id)
	require.NotNil(t, c)
	assert.Nil(t, c.AuthorId)
}

func TestApprovedCommentsOnly(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := seedUser(t, s, "alice")
	post := &db.Post{Title: "A", Slug: "a", Content: "x", AuthorId: u.Id}
	require.NoError(t, s.CreatePost(ctx, post))

	guest := "guest"
	pending := &db.Comment{PostId: post.Id, AuthorName: &guest, Content: "pending"}
	require.NoError(t, s.CreateComment(ctx, pending))
	assert.Equal(t, shared.CommentStatusPending, pending.Status)

	approved := &db.Comment{PostId: post.Id, AuthorId: &u.Id, Content: "ok", Status: shared.CommentStatusApproved}
	require.NoError(t, s.CreateComment(ctx, approved))

	comments, err := s.ListApprovedComments(ctx, post.Id)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, approved.Id, comments[0].Id)
	require.NotNil(t, comments[0].AuthorName)
	assert.Equal(t, "alice", *comments[0].AuthorName)
}

func TestPaginateBounds(t *testing.T) {
	rows := []int{1, 2, 3}

	assert.Equal(t, []int{1, 2}, paginate(rows, 2, -5))
	assert.Equal(t, []int{3}, paginate(rows, 2, 2))
	assert.Empty(t, paginate(rows, 2, 3))
	assert.Equal(t, []int{2, 3}, paginate(rows, int(^uint(0)>>1), 1))
}
