package db

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const LockTimeout = 4000
const IdleInTransactionSessionTimeout = 90000
const StatementTimeout = 30000

// Connect opens the process-wide connection pool. The returned handle is
// passed explicitly to whatever needs it.
func Connect(dbUrl string, production bool) (*sqlx.DB, error) {
	if dbUrl == "" {
		return nil, errors.New("DATABASE_URL or DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, and DB_NAME environment variables must be set")
	}

	if strings.Contains(dbUrl, "?") {
		dbUrl += fmt.Sprintf("&statement_timeout=%d&lock_timeout=%d&timezone=UTC&idle_in_transaction_session_timeout=%d", StatementTimeout, LockTimeout, IdleInTransactionSessionTimeout)
	} else {
		dbUrl += fmt.Sprintf("?statement_timeout=%d&lock_timeout=%d&timezone=UTC&idle_in_transaction_session_timeout=%d", StatementTimeout, LockTimeout, IdleInTransactionSessionTimeout)
	}

	conn, err := sqlx.Connect("postgres", dbUrl)
	if err != nil {
		return nil, err
	}

	log.Println("connected to database")

	if production {
		conn.SetMaxOpenConns(50)
		conn.SetMaxIdleConns(20)
	} else {
		conn.SetMaxOpenConns(10)
		conn.SetMaxIdleConns(5)
	}

	return conn, nil
}

func newMigrate(conn *sqlx.DB, dir string) (*migrate.Migrate, error) {
	if conn == nil {
		return nil, errors.New("db not initialized")
	}

	driver, err := postgres.WithInstance(conn.DB, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("error creating postgres driver: %v", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("error creating migration instance: %v", err)
	}

	return m, nil
}

func MigrationsUp(conn *sqlx.DB, dir string) error {
	m, err := newMigrate(conn, dir)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil {
		if err == migrate.ErrNoChange {
			log.Println("migration state is up to date")
			return nil
		}
		return fmt.Errorf("error running migrations: %v", err)
	}

	log.Println("ran migrations successfully")
	return nil
}

// MigrationsDown steps back the given number of migrations. RESETS DATA.
func MigrationsDown(conn *sqlx.DB, dir string, steps int) error {
	m, err := newMigrate(conn, dir)
	if err != nil {
		return err
	}

	if steps <= 0 {
		err = m.Down()
	} else {
		err = m.Steps(-steps)
	}

	if err != nil {
		if err == migrate.ErrNoChange {
			log.Println("no migrations to run down")
			return nil
		}
		return fmt.Errorf("error running down migrations: %v", err)
	}

	log.Println("ran down migrations")
	return nil
}
