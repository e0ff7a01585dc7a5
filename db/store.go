package db

import (
	"context"

	"blogrig-server/shared"

	"github.com/pkg/errors"
)

// ErrDuplicate is returned when a write violates a unique constraint.
var ErrDuplicate = errors.New("duplicate value")

// Store is the row-store used by the handlers. Getters return (nil, nil)
// when the row doesn't exist; mutations report whether a row was affected.
type Store interface {
	GetUser(ctx context.Context, id int64) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*User, int, error)
	CreateUser(ctx context.Context, user *User) error
	UpdateUser(ctx context.Context, id int64, update *UserUpdate) (bool, error)
	DeleteUser(ctx context.Context, id int64) (bool, error)

	ListCategories(ctx context.Context) ([]*Category, error)
	GetCategory(ctx context.Context, id int64) (*Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	CreateCategory(ctx context.Context, category *Category) error
	UpdateCategory(ctx context.Context, id int64, update *CategoryUpdate) (bool, error)
	DeleteCategory(ctx context.Context, id int64) (bool, error)

	ListPosts(ctx context.Context, filter PostFilter) ([]*Post, int, error)
	ListPopularPosts(ctx context.Context, limit int) ([]*Post, error)
	GetPost(ctx context.Context, id int64) (*Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*Post, error)
	CreatePost(ctx context.Context, post *Post) error
	UpdatePost(ctx context.Context, id int64, update *PostUpdate) (bool, error)
	IncrementPostViews(ctx context.Context, id int64) error
	DeletePost(ctx context.Context, id int64) (bool, error)

	ListApprovedComments(ctx context.Context, postId int64) ([]*Comment, error)
	ListComments(ctx context.Context, filter CommentFilter) ([]*Comment, int, error)
	GetComment(ctx context.Context, id int64) (*Comment, error)
	CreateComment(ctx context.Context, comment *Comment) error
	UpdateCommentContent(ctx context.Context, id int64, content string) (bool, error)
	UpdateCommentStatus(ctx context.Context, id int64, status shared.CommentStatus) (bool, error)
	DeleteComment(ctx context.Context, id int64) (bool, error)

	Ping(ctx context.Context) error
}
