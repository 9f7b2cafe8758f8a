// SPDX-FileCopyrightText: Copyright 2025 SAP SE or an SAP affiliate company
//
// SPDX-License-Identifier: Apache-2.0

// Package sqlrunner executes composed quiver sources through database/sql
// handles opened with sqlx. Placeholders render in question form and are
// rebound to the driver's bind type at compile time, so the same composed
// source serves any driver sqlx knows. No batch pipeline exists here:
// a forkable source keeps its flag as metadata only.
package sqlrunner

import (
	"context"
	"iter"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/iancoleman/strcase"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/xo/dburl"

	"github.com/sapcc/quiver"
)

// Open connects to the database URL with the driver dburl derives from the
// scheme, mapping struct fields to snake_case column names.
func Open(url string) (*sqlx.DB, error) {
	u, err := dburl.Parse(url)
	if err != nil {
		return nil, errors.Wrap(err, "parsing database url")
	}

	driver := u.Driver
	if driver == "postgres" {
		// pgx registers its database/sql driver under its own name
		driver = "pgx"
	}

	db, err := sqlx.Connect(driver, u.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to database")
	}
	db.MapperFunc(strcase.ToSnake)
	return db, nil
}

// Query is a compiled query over result type T, rendered and rebound once.
type Query[T any] struct {
	sql      string
	args     []any
	readOnly bool
}

// SQL returns the rendered statement in the driver's bind form.
func (q *Query[T]) SQL() string { return q.sql }

// ReadOnly reports the detached-materialization mode, always true for
// compiled queries.
func (q *Query[T]) ReadOnly() bool { return q.readOnly }

// Split is always false here: database/sql has no batch pipeline, so there
// is no split execution shape to toggle.
func (q *Query[T]) Split() bool { return false }

// Compile renders the composed source with question placeholders and
// rebinds them for the handle's driver. The forkable flag is pinned to
// false, as in the pgx compiled path.
func Compile[T any](db *sqlx.DB, src quiver.Source) (*Query[T], error) {
	sql, args, err := src.Forkable(false).Builder().
		PlaceholderFormat(sq.Question).ToSql()
	if err != nil {
		return nil, err
	}
	return &Query[T]{sql: db.Rebind(sql), args: args, readOnly: src.IsReadOnly()}, nil
}

// All runs the query and materializes every row into a detached struct.
func (q *Query[T]) All(ctx context.Context, db sqlscan.Querier) ([]*T, error) {
	var items []*T
	if err := sqlscan.Select(ctx, db, &items, q.sql, q.args...); err != nil {
		return nil, err
	}
	return items, nil
}

// One runs the query and materializes exactly one row.
func (q *Query[T]) One(ctx context.Context, db sqlscan.Querier) (*T, error) {
	var item T
	if err := sqlscan.Get(ctx, db, &item, q.sql, q.args...); err != nil {
		return nil, err
	}
	return &item, nil
}

// Iter runs the query and yields rows as they are pulled from the cursor.
// Finite, not restartable; breaking out closes the cursor.
func (q *Query[T]) Iter(ctx context.Context, db sqlscan.Querier) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		rows, err := db.QueryContext(ctx, q.sql, q.args...)
		if err != nil {
			yield(nil, err)
			return
		}
		defer func() { _ = rows.Close() }()

		scanner := sqlscan.NewRowScanner(rows)
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
