package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"blogrig-server/shared"
)

// The models below should only be used server-side. Models sent to clients
// are produced with ToApi(), which keeps fields like password hashes from
// leaking.

type User struct {
	Id        int64       `db:"id"`
	Username  string      `db:"username"`
	Email     string      `db:"email"`
	Password  string      `db:"password"`
	FirstName string      `db:"first_name"`
	LastName  string      `db:"last_name"`
	Avatar    *string     `db:"avatar"`
	Bio       *string     `db:"bio"`
	Role      shared.Role `db:"role"`
	IsActive  bool        `db:"is_active"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

func (user *User) ToApi() *shared.User {
	return &shared.User{
		Id:        user.Id,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Avatar:    user.Avatar,
		Bio:       user.Bio,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

type Category struct {
	Id          int64     `db:"id"`
	Name        string    `db:"name"`
	Slug        string    `db:"slug"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`

	// only populated by ListCategories
	PostCount *int `db:"post_count"`
}

func (c *Category) ToApi() *shared.Category {
	return &shared.Category{
		Id:          c.Id,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		PostCount:   c.PostCount,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// Tags is persisted as a single JSON-encoded text column.
type Tags []string

func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *Tags) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*t = Tags{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported type for tags: %T", src)
	}

	if len(raw) == 0 {
		*t = Tags{}
		return nil
	}

	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return fmt.Errorf("error decoding tags: %v", err)
	}
	if tags == nil {
		tags = []string{}
	}
	*t = tags
	return nil
}

type Post struct {
	Id              int64             `db:"id"`
	Title           string            `db:"title"`
	Slug            string            `db:"slug"`
	Content         string            `db:"content"`
	Excerpt         *string           `db:"excerpt"`
	FeaturedImage   *string           `db:"featured_image"`
	MetaTitle       *string           `db:"meta_title"`
	MetaDescription *string           `db:"meta_description"`
	Status          shared.PostStatus `db:"status"`
	AuthorId        int64             `db:"author_id"`
	CategoryId      *int64            `db:"category_id"`
	Tags            Tags              `db:"tags"`
	ViewCount       int64             `db:"view_count"`
	PublishedAt     *time.Time        `db:"published_at"`
	CreatedAt       time.Time         `db:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at"`

	// joined
	AuthorName   *string `db:"author_name"`
	AuthorAvatar *string `db:"author_avatar"`
	CategoryName *string `db:"category_name"`
	CategorySlug *string `db:"category_slug"`
}

func (p *Post) ToApi() *shared.Post {
	tags := []string(p.Tags)
	if tags == nil {
		tags = []string{}
	}
	return &shared.Post{
		Id:              p.Id,
		Title:           p.Title,
		Slug:            p.Slug,
		Content:         p.Content,
		Excerpt:         p.Excerpt,
		FeaturedImage:   p.FeaturedImage,
		MetaTitle:       p.MetaTitle,
		MetaDescription: p.MetaDescription,
		Status:          p.Status,
		AuthorId:        p.AuthorId,
		AuthorName:      p.AuthorName,
		AuthorAvatar:    p.AuthorAvatar,
		CategoryId:      p.CategoryId,
		CategoryName:    p.CategoryName,
		CategorySlug:    p.CategorySlug,
		Tags:            tags,
		ViewCount:       p.ViewCount,
		PublishedAt:     p.PublishedAt,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

type Comment struct {
	Id          int64                `db:"id"`
	PostId      int64                `db:"post_id"`
	AuthorId    *int64               `db:"author_id"`
	AuthorName  *string              `db:"author_name"`
	AuthorEmail *string              `db:"author_email"`
	ParentId    *int64               `db:"parent_id"`
	Content     string               `db:"content"`
	Status      shared.CommentStatus `db:"status"`
	CreatedAt   time.Time            `db:"created_at"`
	UpdatedAt   time.Time            `db:"updated_at"`

	// joined
	AuthorAvatar *string `db:"author_avatar"`
}

func (c *Comment) ToApi() *shared.Comment {
	return &shared.Comment{
		Id:           c.Id,
		PostId:       c.PostId,
		AuthorId:     c.AuthorId,
		AuthorName:   c.AuthorName,
		AuthorEmail:  c.AuthorEmail,
		AuthorAvatar: c.AuthorAvatar,
		ParentId:     c.ParentId,
		Content:      c.Content,
		Status:       c.Status,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

type UserUpdate struct {
	Username  shared.Optional[string]
	Email     shared.Optional[string]
	Password  shared.Optional[string]
	FirstName shared.Optional[string]
	LastName  shared.Optional[string]
	Avatar    shared.Optional[string]
	Bio       shared.Optional[string]
	Role      shared.Optional[shared.Role]
	IsActive  shared.Optional[bool]
}

type CategoryUpdate struct {
	Name        shared.Optional[string]
	Slug        shared.Optional[string]
	Description shared.Optional[string]
}

type PostUpdate struct {
	Title           shared.Optional[string]
	Slug            shared.Optional[string]
	Content         shared.Optional[string]
	Excerpt         shared.Optional[string]
	FeaturedImage   shared.Optional[string]
	MetaTitle       shared.Optional[string]
	MetaDescription shared.Optional[string]
	CategoryId      shared.Optional[int64]
	Tags            shared.Optional[[]string]
	Status          shared.Optional[shared.PostStatus]
	PublishedAt     shared.Optional[time.Time]
}

type PostFilter struct {
	// empty means any status
	Status         string
	CategorySlug   string
	AuthorUsername string
	Search         string
	Limit          int
	Offset         int
}

type CommentFilter struct {
	Status string
	PostId int64
	Limit  int
	Offset int
}
