// Package xpgx runs squirrel builders against a pgx pool and scans the
// results into db-tagged structs.
package xpgx

import (
	"context"
	"fmt"
	"reflect"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ougirez/xformreports/internal/pkg/logger"
)

// Conn is the part of *pgxpool.Pool a Pool runs queries on.
type Conn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Pool interface {
	// Getx scans the first row of q into dest, a pointer to a struct or a
	// scalar. pgx.ErrNoRows is returned when q yields nothing.
	Getx(ctx context.Context, dest any, q sq.Sqlizer) error
	// Selectx scans every row of q into dest, a pointer to a slice of
	// structs, struct pointers or scalars.
	Selectx(ctx context.Context, dest any, q sq.Sqlizer) error
	Execx(ctx context.Context, q sq.Sqlizer) (pgconn.CommandTag, error)
}

type pool struct {
	conn Conn
}

func New(conn Conn) Pool {
	return &pool{conn: conn}
}

func (p *pool) query(ctx context.Context, op string, q sq.Sqlizer) (pgx.Rows, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ToSql: %w", err)
	}

	logger.Debugf(ctx, "%s: %s %v", op, query, args)

	return p.conn.Query(ctx, query, args...)
}

func (p *pool) Getx(ctx context.Context, dest any, q sq.Sqlizer) error {
	target := reflect.ValueOf(dest)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return fmt.Errorf("Getx: dest must be a non-nil pointer, got %T", dest)
	}

	rows, err := p.query(ctx, "get", q)
	if err != nil {
		return err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return pgx.ErrNoRows
	}

	if err := scanRow(rows, target); err != nil {
		return err
	}

	rows.Close()
	return rows.Err()
}

func (p *pool) Selectx(ctx context.Context, dest any, q sq.Sqlizer) error {
	target := reflect.ValueOf(dest)
	if target.Kind() != reflect.Pointer || target.IsNil() || target.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("Selectx: dest must be a pointer to a slice, got %T", dest)
	}

	slice := target.Elem()
	elemType := slice.Type().Elem()
	ptrElems := elemType.Kind() == reflect.Pointer
	if ptrElems {
		elemType = elemType.Elem()
	}

	rows, err := p.query(ctx, "select", q)
	if err != nil {
		return err
	}
	defer rows.Close()

	result := reflect.MakeSlice(slice.Type(), 0, 0)
	for rows.Next() {
		item := reflect.New(elemType)
		if err := scanRow(rows, item); err != nil {
			return err
		}
		if ptrElems {
			result = reflect.Append(result, item)
		} else {
			result = reflect.Append(result, item.Elem())
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	slice.Set(result)
	return nil
}

func (p *pool) Execx(ctx context.Context, q sq.Sqlizer) (pgconn.CommandTag, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("ToSql: %w", err)
	}

	logger.Debugf(ctx, "exec: %s %v", query, args)

	return p.conn.Exec(ctx, query, args...)
}

// Connect opens a pool and pings it until the database answers, giving up
// after maxElapsed.
func Connect(ctx context.Context, dsn string, maxElapsed time.Duration) (*pgxpool.Pool, error) {
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxElapsed

	err = backoff.RetryNotify(
		func() error {
			return db.Ping(ctx)
		},
		backoff.WithContext(b, ctx),
		func(err error, next time.Duration) {
			logger.Warnf(ctx, "database not ready, retrying in %s: %s", next, err.Error())
		},
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return db, nil
}
