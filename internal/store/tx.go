package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-multierror"
)

// Tx is a store transaction. It exposes the same query methods as Store;
// every statement runs inside the transaction.
type Tx struct {
	queries
	tx *sql.Tx
}

// WithTx runs fn inside a transaction. The transaction commits when fn
// returns nil and rolls back otherwise.
//
// If the transaction fails with SQLITE_BUSY or SQLITE_LOCKED, the whole
// transaction (including fn) is replayed with exponential backoff. fn must
// therefore only touch the database through tx and any result variables it
// assigns, never other state that cannot be overwritten on replay.
//
// Do not call Store methods from inside fn: the store uses a single
// connection, and fn already holds it.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	op := func() error {
		err := s.runTx(ctx, fn)
		if err == nil {
			return nil
		}
		if isTransient(err) {
			return err
		}
		return backoff.Permanent(err)
	}
	return backoff.Retry(op, backoff.WithContext(s.retry.backOff(), ctx))
}

func (s *Store) runTx(ctx context.Context, fn func(tx *Tx) error) (err error) {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := sqlTx.Rollback(); rollbackErr != nil {
				err = multierror.Append(err, fmt.Errorf("rollback: %w", rollbackErr))
			}
			return
		}
		if commitErr := sqlTx.Commit(); commitErr != nil {
			err = fmt.Errorf("commit: %w", commitErr)
		}
	}()

	return fn(&Tx{
		queries: queries{q: sqlTx, now: s.now},
		tx:      sqlTx,
	})
}
