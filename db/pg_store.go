package db

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type PgStore struct {
	conn *sqlx.DB
}

var _ Store = (*PgStore)(nil)

func NewPgStore(conn *sqlx.DB) *PgStore {
	return &PgStore{conn: conn}
}

func (s *PgStore) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}
