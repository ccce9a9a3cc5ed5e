// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package sqldb

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type txContextKey struct{}

// WithTx returns a context carrying tx. Repositories sharing a Client run their
// statements on it, which is how one unit of work spans several repositories.
func WithTx(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// TxFromContext returns the transaction carried by ctx, if any
func TxFromContext(ctx context.Context) (*sqlx.Tx, bool) {
	tx, ok := ctx.Value(txContextKey{}).(*sqlx.Tx)
	return tx, ok && tx != nil
}
