package db

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const categoryColumns = "id, name, slug, description, created_at, updated_at"

func (s *PgStore) ListCategories(ctx context.Context) ([]*Category, error) {
	categories := []*Category{}
	err := s.conn.SelectContext(ctx, &categories, `
		SELECT c.id, c.name, c.slug, c.description, c.created_at, c.updated_at, COUNT(p.id)::int AS post_count
		FROM categories c
		LEFT JOIN posts p ON c.id = p.category_id AND p.status = 'published'
		GROUP BY c.id
		ORDER BY c.name ASC`)

	if err != nil {
		return nil, errors.Wrap(err, "error listing categories")
	}

	return categories, nil
}

func (s *PgStore) getCategoryWhere(ctx context.Context, where string, arg interface{}) (*Category, error) {
	var category Category
	err := s.conn.GetContext(ctx, &category, "SELECT "+categoryColumns+" FROM categories WHERE "+where, arg)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "error getting category")
	}

	return &category, nil
}

func (s *PgStore) GetCategory(ctx context.Context, id int64) (*Category, error) {
	return s.getCategoryWhere(ctx, "id = $1", id)
}

func (s *PgStore) GetCategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	return s.getCategoryWhere(ctx, "slug = $1", slug)
}

func (s *PgStore) CreateCategory(ctx context.Context, category *Category) error {
	err := s.conn.QueryRowxContext(ctx,
		"INSERT INTO categories (name, slug, description) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at",
		category.Name, category.Slug, category.Description,
	).Scan(&category.Id, &category.CreatedAt, &category.UpdatedAt)

	if err != nil {
		return wrapWriteErr(err, "error creating category")
	}

	return nil
}

func (s *PgStore) UpdateCategory(ctx context.Context, id int64, update *CategoryUpdate) (bool, error) {
	set := &setClause{}
	setNonNull(set, "name", update.Name)
	setNonNull(set, "slug", update.Slug)
	setOptional(set, "description", update.Description)

	if set.empty() {
		category, err := s.GetCategory(ctx, id)
		return category != nil, err
	}

	set.args = append(set.args, id)
	query := "UPDATE categories SET " + strings.Join(set.sets, ", ") + ", updated_at = NOW() WHERE id = $" + strconv.Itoa(len(set.args))

	res, err := s.conn.ExecContext(ctx, query, set.args...)
	return rowsAffected(res, err, "error updating category")
}

func (s *PgStore) DeleteCategory(ctx context.Context, id int64) (bool, error) {
	res, err := s.conn.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
	return rowsAffected(res, err, "error deleting category")
}
