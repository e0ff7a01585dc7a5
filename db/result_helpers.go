package db

import (
	"database/sql"
	"strconv"

	"blogrig-server/shared"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const uniqueViolation = "23505"

func IsNonUniqueErr(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func wrapWriteErr(err error, msg string) error {
	if IsNonUniqueErr(err) {
		return errors.Wrap(ErrDuplicate, msg)
	}
	return errors.Wrap(err, msg)
}

func rowsAffected(res sql.Result, err error, msg string) (bool, error) {
	if err != nil {
		return false, wrapWriteErr(err, msg)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, msg)
	}
	return n > 0, nil
}

// setClause accumulates "col = $n" assignments for partial updates.
type setClause struct {
	sets []string
	args []interface{}
}

func (s *setClause) add(col string, val interface{}) {
	s.args = append(s.args, val)
	s.sets = append(s.sets, col+" = $"+strconv.Itoa(len(s.args)))
}

func (s *setClause) empty() bool {
	return len(s.sets) == 0
}

// setOptional writes the column when the key was present; null clears it.
func setOptional[T any](s *setClause, col string, o shared.Optional[T]) {
	if !o.Set {
		return
	}
	if o.Null {
		s.add(col, nil)
		return
	}
	s.add(col, o.Value)
}

// setNonNull is setOptional for NOT NULL columns, where null means absent.
func setNonNull[T any](s *setClause, col string, o shared.Optional[T]) {
	if !o.Set || o.Null {
		return
	}
	s.add(col, o.Value)
}
