package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

// NoTX is passed where an operation deliberately runs outside a transaction.
var NoTX Tx

// TransactionManager executes a function within a database transaction,
// passing the underlying transaction handle via `tx`.
//
// Every approval that mutates more than one record (payment + membership, or
// payment + banner) runs through WithTx so the writes land as one atomic unit:
// either all of them persist or none do. Repositories accept the handle as
// `Tx` and must gracefully accept nil (non-transactional path).
//
// The concrete type of the handle is infra-defined (pgx.Tx for Postgres).
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
