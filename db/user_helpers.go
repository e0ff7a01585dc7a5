package db

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const userColumns = "id, username, email, password, first_name, last_name, avatar, bio, role, is_active, created_at, updated_at"

func (s *PgStore) getUserWhere(ctx context.Context, where string, arg interface{}) (*User, error) {
	var user User
	err := s.conn.GetContext(ctx, &user, "SELECT "+userColumns+" FROM users WHERE "+where, arg)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, errors.Wrap(err, "error getting user")
	}

	return &user, nil
}

func (s *PgStore) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.getUserWhere(ctx, "id = $1", id)
}

func (s *PgStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.getUserWhere(ctx, "email = $1", email)
}

func (s *PgStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return s.getUserWhere(ctx, "username = $1", username)
}

func (s *PgStore) ListUsers(ctx context.Context, limit, offset int) ([]*User, int, error) {
	users := []*User{}
	err := s.conn.SelectContext(ctx, &users, "SELECT "+userColumns+" FROM users ORDER BY id LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, errors.Wrap(err, "error listing users")
	}

	var total int
	err = s.conn.GetContext(ctx, &total, "SELECT COUNT(*) FROM users")
	if err != nil {
		return nil, 0, errors.Wrap(err, "error counting users")
	}

	return users, total, nil
}

func (s *PgStore) CreateUser(ctx context.Context, user *User) error {
	if user.Role == "" {
		user.Role = "user"
	}

	err := s.conn.QueryRowxContext(ctx,
		`INSERT INTO users (username, email, password, first_name, last_name, avatar, bio, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		user.Username, user.Email, user.Password, user.FirstName, user.LastName, user.Avatar, user.Bio, user.Role, user.IsActive,
	).Scan(&user.Id, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return wrapWriteErr(err, "error creating user")
	}

	return nil
}

func (s *PgStore) UpdateUser(ctx context.Context, id int64, update *UserUpdate) (bool, error) {
	set := &setClause{}
	setNonNull(set, "username", update.Username)
	setNonNull(set, "email", update.Email)
	setNonNull(set, "password", update.Password)
	setNonNull(set, "first_name", update.FirstName)
	setNonNull(set, "last_name", update.LastName)
	setOptional(set, "avatar", update.Avatar)
	setOptional(set, "bio", update.Bio)
	setNonNull(set, "role", update.Role)
	setNonNull(set, "is_active", update.IsActive)

	if set.empty() {
		user, err := s.GetUser(ctx, id)
		return user != nil, err
	}

	set.args = append(set.args, id)
	query := "UPDATE users SET " + strings.Join(set.sets, ", ") + ", updated_at = NOW() WHERE id = $" + strconv.Itoa(len(set.args))

	res, err := s.conn.ExecContext(ctx, query, set.args...)
	return rowsAffected(res, err, "error updating user")
}

func (s *PgStore) DeleteUser(ctx context.Context, id int64) (bool, error) {
	res, err := s.conn.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	return rowsAffected(res, err, "error deleting user")
}
