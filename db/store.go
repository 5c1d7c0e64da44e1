package db

import (
	"context"
	"fmt"

	"minimarket/logger"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jinzhu/gorm"
)

// Row is one result row keyed by column name, values normalised to JSON
// scalars.
type Row map[string]any

// Store executes positional ("?") SQL. Implementations rebind markers for
// their dialect.
type Store interface {
	Query(ctx context.Context, query string, args ...any) ([]Row, error)
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	// LastInsertID reports the id generated by the previous insert on the
	// same connection. Only meaningful inside Transaction.
	LastInsertID(ctx context.Context) (int64, error)
	Transaction(ctx context.Context, fn func(Store) error) error
	Flavor() sqlbuilder.Flavor
}

type GormStore struct {
	db      *gorm.DB
	dialect string
	inTx    bool
	log     logger.Logger
}

var _ Store = &GormStore{}

func NewStore(conn *gorm.DB, log logger.Logger) *GormStore {
	return &GormStore{db: conn, dialect: conn.Dialect().GetName(), log: log}
}

func (s *GormStore) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.db.Raw(query, args...).Rows()
	if err != nil {
		s.logFailure("query failed", query, err)
		return nil, err
	}
	defer rows.Close()

	out, err := ScanRows(rows)
	if err != nil {
		s.logFailure("scan failed", query, err)
		return nil, err
	}
	return out, nil
}

func (s *GormStore) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	res := s.db.Exec(query, args...)
	if res.Error != nil {
		s.logFailure("exec failed", query, res.Error)
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (s *GormStore) LastInsertID(ctx context.Context) (int64, error) {
	var q string
	switch s.dialect {
	case "postgres":
		q = "SELECT lastval() AS id"
	case "mysql":
		q = "SELECT LAST_INSERT_ID() AS id"
	default:
		q = "SELECT last_insert_rowid() AS id"
	}
	rows, err := s.Query(ctx, q)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("no id returned by %s", q)
	}
	id, ok := Int64(rows[0]["id"])
	if !ok {
		return 0, fmt.Errorf("unexpected id %v", rows[0]["id"])
	}
	return id, nil
}

// Transaction runs fn inside one database transaction, rolling back on
// error or panic. Nested calls reuse the open transaction.
func (s *GormStore) Transaction(ctx context.Context, fn func(Store) error) (err error) {
	if s.inTx {
		return fn(s)
	}

	tx := s.db.BeginTx(ctx, nil)
	if tx.Error != nil {
		return tx.Error
	}
	txStore := &GormStore{db: tx, dialect: s.dialect, inTx: true, log: s.log}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			s.log.Warnw("rollback failed", "error", rbErr)
		}
		return err
	}
	return tx.Commit().Error
}

func (s *GormStore) Flavor() sqlbuilder.Flavor {
	return FlavorOf(s.dialect)
}

func (s *GormStore) logFailure(msg, query string, err error) {
	fields := append([]interface{}{"error", err, "sql", query}, ErrorFields(err)...)
	s.log.Errorw(msg, fields...)
}

// FlavorOf maps a gorm dialect name onto the sqlbuilder flavor.
func FlavorOf(dialect string) sqlbuilder.Flavor {
	switch dialect {
	case "postgres":
		return sqlbuilder.PostgreSQL
	case "mysql":
		return sqlbuilder.MySQL
	default:
		return sqlbuilder.SQLite
	}
}
