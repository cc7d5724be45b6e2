// Package repository implements the store contract on PostgreSQL.
package repository

import (
	"context"

	"lovenest-backend/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so every query
// method works unchanged inside and outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres is the pgx-backed store.Store.
type Postgres struct {
	db   querier
	pool *pgxpool.Pool // nil when bound to a transaction
}

// New creates a Postgres store over a connection pool.
func New(pool *pgxpool.Pool) *Postgres {
	return &Postgres{db: pool, pool: pool}
}

// WithinTx runs fn inside a single database transaction. When called on
// a store that is already transaction-bound, fn joins the open
// transaction instead of opening a nested one.
func (p *Postgres) WithinTx(ctx context.Context, fn func(tx store.Store) error) error {
	if p.pool == nil {
		return fn(p)
	}
	return pgx.BeginTxFunc(ctx, p.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return fn(&Postgres{db: tx})
	})
}
