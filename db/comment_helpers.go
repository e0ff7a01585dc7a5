package db

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"blogrig-server/shared"

	"github.com/pkg/errors"
)

const commentSelect = `SELECT c.id, c.post_id, c.author_id, COALESCE(u.username, c.author_name) AS author_name,
	c.author_email, c.parent_id, c.content, c.status, c.created_at, c.updated_at, u.avatar AS author_avatar
	FROM comments c
	LEFT JOIN users u ON c.author_id = u.id`

func (s *PgStore) ListApprovedComments(ctx context.Context, postId int64) ([]*Comment, error) {
	comments := []*Comment{}
	err := s.conn.SelectContext(ctx, &comments,
		commentSelect+" WHERE c.post_id = $1 AND c.status = 'approved' ORDER BY c.created_at DESC, c.id DESC", postId)
	if err != nil {
		return nil, errors.Wrap(err, "error listing comments")
	}
	return comments, nil
}

func (s *PgStore) ListComments(ctx context.Context, filter CommentFilter) ([]*Comment, int, error) {
	conds := []string{"1=1"}
	args := []interface{}{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, "c.status = $"+strconv.Itoa(len(args)))
	}
	if filter.PostId != 0 {
		args = append(args, filter.PostId)
		conds = append(conds, "c.post_id = $"+strconv.Itoa(len(args)))
	}
	where := " WHERE " + strings.Join(conds, " AND ")

	comments := []*Comment{}
	query := commentSelect + where + " ORDER BY c.created_at DESC, c.id DESC LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	err := s.conn.SelectContext(ctx, &comments, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "error listing comments")
	}

	var total int
	err = s.conn.GetContext(ctx, &total, "SELECT COUNT(*) FROM comments c"+where, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "error counting comments")
	}

	return comments, total, nil
}

func (s *PgStore) GetComment(ctx context.Context, id int64) (*Comment, error) {
	var comment Comment
	err := s.conn.GetContext(ctx, &comment, commentSelect+" WHERE c.id = $1", id)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "error getting comment")
	}

	return &comment, nil
}

func (s *PgStore) CreateComment(ctx context.Context, comment *Comment) error {
	if comment.Status == "" {
		comment.Status = shared.CommentStatusPending
	}

	err := s.conn.QueryRowxContext(ctx,
		`INSERT INTO comments (post_id, author_id, author_name, author_email, parent_id, content, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		comment.PostId, comment.AuthorId, comment.AuthorName, comment.AuthorEmail, comment.ParentId, comment.Content, comment.Status,
	).Scan(&comment.Id, &comment.CreatedAt, &comment.UpdatedAt)

	if err != nil {
		return wrapWriteErr(err, "error creating comment")
	}

	return nil
}

func (s *PgStore) UpdateCommentContent(ctx context.Context, id int64, content string) (bool, error) {
	res, err := s.conn.ExecContext(ctx, "UPDATE comments SET content = $1, updated_at = NOW() WHERE id = $2", content, id)
	return rowsAffected(res, err, "error updating comment")
}

func (s *PgStore) UpdateCommentStatus(ctx context.Context, id int64, status shared.CommentStatus) (bool, error) {
	res, err := s.conn.ExecContext(ctx, "UPDATE comments SET status = $1, updated_at = NOW() WHERE id = $2", status, id)
	return rowsAffected(res, err, "error updating comment status")
}

func (s *PgStore) DeleteComment(ctx context.Context, id int64) (bool, error) {
	res, err := s.conn.ExecContext(ctx, "DELETE FROM comments WHERE id = $1", id)
	return rowsAffected(res, err, "error deleting comment")
}
