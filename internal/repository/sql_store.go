package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"stock-service/internal/config"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// SQLStore implements Store on database/sql. Queries use '?' placeholders,
// which both supported drivers accept.
type SQLStore struct {
	db     *sql.DB
	driver string
	logger *zap.Logger
}

// Open opens the store selected by cfg.DBDriver
func Open(cfg *config.Config, logger *zap.Logger) (*SQLStore, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		return NewSQLiteStore(cfg.SQLitePath, logger)
	case config.DriverMySQL:
		return NewMySQLStore(cfg.MySQLDSN, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.DBDriver)
	}
}

// NewSQLiteStore opens (or creates) the SQLite database at path and applies the schema.
// Transactions take the write lock on BEGIN so check-then-write sequences serialize.
func NewSQLiteStore(path string, logger *zap.Logger) (*SQLStore, error) {
	dsn := path + "?_foreign_keys=1&_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"
	db, err := sql.Open(config.DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return newSQLStore(db, config.DriverSQLite, sqliteSchema, logger)
}

// NewMySQLStore connects to MySQL using dsn and applies the schema
func NewMySQLStore(dsn string, logger *zap.Logger) (*SQLStore, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid mysql dsn: %w", err)
	}
	// report matched rows so an UPDATE that changes nothing is not mistaken for a missing row
	cfg.ClientFoundRows = true

	db, err := sql.Open(config.DriverMySQL, cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	return newSQLStore(db, config.DriverMySQL, mysqlSchema, logger)
}

func newSQLStore(db *sql.DB, driver string, schema []string, logger *zap.Logger) (*SQLStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	logger.Info("Database initialized", zap.String("driver", driver))

	return &SQLStore{db: db, driver: driver, logger: logger}, nil
}

// Driver returns the database/sql driver name
func (s *SQLStore) Driver() string {
	return s.driver
}

func (s *SQLStore) Repositories() Repositories {
	return newRepositories(s.db, false)
}

func (s *SQLStore) WithinTx(ctx context.Context, fn func(repos Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// SQLite transactions already hold the write lock (_txlock=immediate)
	if err := fn(newRepositories(tx, s.driver == config.DriverMySQL)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", translateError(err))
	}
	return nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func newRepositories(q querier, lockRows bool) Repositories {
	return Repositories{
		Categories: &sqlCategoryRepository{q: q},
		Products:   &sqlProductRepository{q: q},
		Inventory:  &sqlInventoryRepository{q: q, lockRows: lockRows},
	}
}

// translateError maps driver constraint failures onto ErrDuplicate, ErrReference and ErrConstraint
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %s", ErrDuplicate, sqliteErr.Error())
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: %s", ErrReference, sqliteErr.Error())
		case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
			return fmt.Errorf("%w: %s", ErrConstraint, sqliteErr.Error())
		}
		return err
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1062: // ER_DUP_ENTRY
			return fmt.Errorf("%w: %s", ErrDuplicate, mysqlErr.Message)
		case 1451, 1452: // FK parent in use, FK parent missing
			return fmt.Errorf("%w: %s", ErrReference, mysqlErr.Message)
		case 1048, 3819: // NOT NULL, CHECK
			return fmt.Errorf("%w: %s", ErrConstraint, mysqlErr.Message)
		}
	}

	return err
}

// expectOne returns ErrNotFound when an UPDATE/DELETE by primary key touched nothing
func expectOne(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}
