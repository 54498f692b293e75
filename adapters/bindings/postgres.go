package bindings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/layer-3/urllogin/core"
)

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresRepository reads bindings from the binding table
type PostgresRepository struct {
	db Querier
}

// NewPostgresRepository creates a repository over db
func NewPostgresRepository(db Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FirstByAccount returns the first binding of accountID
func (r *PostgresRepository) FirstByAccount(ctx context.Context, accountID int64) (core.Binding, error) {
	query :=
		`SELECT platform, pid FROM binding
		 WHERE aid = $1
		 ORDER BY platform, pid
		 LIMIT 1`

	var b core.Binding
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(&b.Platform, &b.PID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Binding{}, core.ErrBindingNotFound
		}
		return core.Binding{}, fmt.Errorf("db error: %w", err)
	}

	return b, nil
}
