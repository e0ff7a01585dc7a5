package db

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const postSelect = `SELECT p.id, p.title, p.slug, p.content, p.excerpt, p.featured_image, p.meta_title, p.meta_description,
	p.status, p.author_id, p.category_id, p.tags, p.view_count, p.published_at, p.created_at, p.updated_at,
	u.username AS author_name, u.avatar AS author_avatar, c.name AS category_name, c.slug AS category_slug
	FROM posts p
	LEFT JOIN users u ON p.author_id = u.id
	LEFT JOIN categories c ON p.category_id = c.id`

func postWhere(filter PostFilter) (string, []interface{}) {
	conds := []string{"1=1"}
	args := []interface{}{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}

	if filter.Status != "" {
		add("p.status = ?", filter.Status)
	}
	if filter.CategorySlug != "" {
		add("c.slug = ?", filter.CategorySlug)
	}
	if filter.AuthorUsername != "" {
		add("u.username = ?", filter.AuthorUsername)
	}
	if filter.Search != "" {
		add("(p.title ILIKE ? OR p.content ILIKE ?)", "%"+escapeLike(filter.Search)+"%")
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func (s *PgStore) ListPosts(ctx context.Context, filter PostFilter) ([]*Post, int, error) {
	where, args := postWhere(filter)

	posts := []*Post{}
	query := postSelect + " " + where + " ORDER BY p.created_at DESC, p.id DESC LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	err := s.conn.SelectContext(ctx, &posts, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "error listing posts")
	}

	var total int
	err = s.conn.GetContext(ctx, &total, `SELECT COUNT(*) FROM posts p
		LEFT JOIN users u ON p.author_id = u.id
		LEFT JOIN categories c ON p.category_id = c.id `+where, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "error counting posts")
	}

	return posts, total, nil
}

func (s *PgStore) ListPopularPosts(ctx context.Context, limit int) ([]*Post, error) {
	posts := []*Post{}
	err := s.conn.SelectContext(ctx, &posts, postSelect+" WHERE p.status = 'published' ORDER BY p.view_count DESC, p.id DESC LIMIT $1", limit)
	if err != nil {
		return nil, errors.Wrap(err, "error listing popular posts")
	}
	return posts, nil
}

func (s *PgStore) getPostWhere(ctx context.Context, where string, arg interface{}) (*Post, error) {
	var post Post
	err := s.conn.GetContext(ctx, &post, postSelect+" WHERE "+where, arg)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "error getting post")
	}

	return &post, nil
}

func (s *PgStore) GetPost(ctx context.Context, id int64) (*Post, error) {
	return s.getPostWhere(ctx, "p.id = $1", id)
}

func (s *PgStore) GetPostBySlug(ctx context.Context, slug string) (*Post, error) {
	return s.getPostWhere(ctx, "p.slug = $1", slug)
}

func (s *PgStore) CreatePost(ctx context.Context, post *Post) error {
	err := s.conn.QueryRowxContext(ctx,
		`INSERT INTO posts (title, slug, content, excerpt, featured_image, author_id, category_id, tags, meta_title, meta_description, status, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`,
		post.Title, post.Slug, post.Content, post.Excerpt, post.FeaturedImage, post.AuthorId, post.CategoryId,
		post.Tags, post.MetaTitle, post.MetaDescription, post.Status, post.PublishedAt,
	).Scan(&post.Id, &post.CreatedAt, &post.UpdatedAt)

	if err != nil {
		return wrapWriteErr(err, "error creating post")
	}

	return nil
}

func (s *PgStore) UpdatePost(ctx context.Context, id int64, update *PostUpdate) (bool, error) {
	set := &setClause{}
	setNonNull(set, "title", update.Title)
	setNonNull(set, "slug", update.Slug)
	setNonNull(set, "content", update.Content)
	setOptional(set, "excerpt", update.Excerpt)
	setOptional(set, "featured_image", update.FeaturedImage)
	setOptional(set, "meta_title", update.MetaTitle)
	setOptional(set, "meta_description", update.MetaDescription)
	setOptional(set, "category_id", update.CategoryId)
	if update.Tags.Set {
		set.add("tags", Tags(update.Tags.Value))
	}
	setNonNull(set, "status", update.Status)
	setNonNull(set, "published_at", update.PublishedAt)

	if set.empty() {
		post, err := s.GetPost(ctx, id)
		return post != nil, err
	}

	set.args = append(set.args, id)
	query := "UPDATE posts SET " + strings.Join(set.sets, ", ") + ", updated_at = NOW() WHERE id = $" + strconv.Itoa(len(set.args))

	res, err := s.conn.ExecContext(ctx, query, set.args...)
	return rowsAffected(res, err, "error updating post")
}

func (s *PgStore) IncrementPostViews(ctx context.Context, id int64) error {
	_, err := s.conn.ExecContext(ctx, "UPDATE posts SET view_count = view_count + 1 WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "error incrementing post views")
	}
	return nil
}

func (s *PgStore) DeletePost(ctx context.Context, id int64) (bool, error) {
	res, err := s.conn.ExecContext(ctx, "DELETE FROM posts WHERE id = $1", id)
	return rowsAffected(res, err, "error deleting post")
}
