// SPDX-FileCopyrightText: Copyright 2025 SAP SE or an SAP affiliate company
//
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"context"
	"iter"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/sapcc/quiver"
)

// Plan is the rendered, reusable shape of a compiled query. Plans are
// interned per SQL text (see cache.go); pgx's per-connection statement
// cache reuses the server-side prepared plan keyed by the same text.
type Plan struct {
	SQL      string
	readOnly bool
	split    bool
}

// ReadOnly reports the detached-materialization mode. Always true for
// plans produced by Compile.
func (p *Plan) ReadOnly() bool { return p.readOnly }

// Split reports split execution of related loads. Always false for
// compiled plans: a cached plan is reused verbatim, and a split execution
// shape varies per call.
func (p *Plan) Split() bool { return p.split }

// Query is a compiled query over result type T. The expression tree is
// rendered exactly once at compile time; each invocation against a context
// handle is a fresh evaluation.
type Query[T any] struct {
	plan *Plan
	args []any
}

// Plan returns the interned plan backing this query.
func (q *Query[T]) Plan() *Plan { return q.plan }

// Compile renders the composed source and returns a reusable query handle.
// The forkable flag is pinned to false regardless of the source's setting:
// split-query round trips are incompatible with a single cached plan.
// Expressions the engine cannot translate surface their error here.
func Compile[T any](src quiver.Source) (*Query[T], error) {
	sql, args, err := src.Forkable(false).ToSql()
	if err != nil {
		return nil, err
	}
	return &Query[T]{plan: internPlan(sql), args: args}, nil
}

// Build composes and compiles in one step, taking pagination positionally.
// Thin wrapper over Compose and Compile, no logic of its own.
func Build[T any](base sq.SelectBuilder, skip int64, limit *int64,
	preds []quiver.Predicate, sorts []quiver.Sort) (*Query[T], error) {
	src, err := quiver.Compose(base, quiver.Settings{Skip: skip, Limit: limit}, preds, sorts)
	if err != nil {
		return nil, err
	}
	return Compile[T](src)
}

// All runs the query and materializes every row into a detached struct.
func (q *Query[T]) All(ctx context.Context, db Querier) ([]*T, error) {
	var items []*T
	if err := pgxscan.Select(ctx, db, &items, q.plan.SQL, q.args...); err != nil {
		return nil, err
	}
	return items, nil
}

// One runs the query and materializes exactly one row.
func (q *Query[T]) One(ctx context.Context, db Querier) (*T, error) {
	var item T
	if err := pgxscan.Get(ctx, db, &item, q.plan.SQL, q.args...); err != nil {
		return nil, err
	}
	return &item, nil
}

// Iter runs the query and yields rows one by one as they are pulled from
// the engine cursor. The sequence is finite and not restartable; breaking
// out closes the cursor, cancellation flows through ctx.
func (q *Query[T]) Iter(ctx context.Context, db Querier) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		rows, err := db.Query(ctx, q.plan.SQL, q.args...)
		if err != nil {
			yield(nil, err)
			return
		}
		defer rows.Close()

		scanner := pgxscan.NewRowScanner(rows)
		for rows.Next() {
			var item T
			if err := scanner.Scan(&item); err != nil {
				yield(nil, err)
				return
			}
			if !yield(&item, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, err)
		}
	}
}
