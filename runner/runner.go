// SPDX-FileCopyrightText: Copyright 2025 SAP SE or an SAP affiliate company
//
// SPDX-License-Identifier: Apache-2.0

// Package runner executes composed quiver sources against PostgreSQL via
// pgx. It owns every engine concern the pure composition layer delegates:
// rendering, plan reuse, materialization into detached structs, related
// loads (batched or split), retries and wire tracing.
package runner

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/sapcc/quiver"
)

// Querier is the engine context handle a query runs against. Satisfied by
// *pgxpool.Pool, *pgx.Conn, pgx.Tx and pgxmock pools.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Batcher additionally supports pipelining several queries into one round
// trip. Fetch needs it for the non-forkable path.
type Batcher interface {
	Querier
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Connect builds a pgx pool for the given URL with the wire tracer
// installed. Trace verbosity follows the flag.
func Connect(ctx context.Context, url string, trace bool) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, errors.Wrap(err, "parsing database url")
	}
	config.ConnConfig.Tracer = Tracer(trace)

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to database")
	}
	return pool, nil
}

// Related names an additional result set fetched alongside a source.
type Related struct {
	Name  string
	Query sq.SelectBuilder
	Dest  any
}

// Fetch materializes the composed source into dest and every related query
// into its own destination. With a non-forkable source all selects are
// queued into a single pgx batch - one round trip. A forkable source runs
// each select as its own query instead, trading round trips for simpler
// execution shapes. Destinations are scany targets (pointers to slices).
func Fetch(ctx context.Context, db Batcher, src quiver.Source, dest any, related ...Related) error {
	sql, args, err := src.ToSql()
	if err != nil {
		return err
	}

	if src.IsForkable() {
		if err := pgxscan.Select(ctx, db, dest, sql, args...); err != nil {
			return err
		}
		for _, rel := range related {
			relSQL, relArgs, err := rel.Query.ToSql()
			if err != nil {
				return errors.Wrapf(err, "related %s", rel.Name)
			}
			if err := pgxscan.Select(ctx, db, rel.Dest, relSQL, relArgs...); err != nil {
				return errors.Wrapf(err, "related %s", rel.Name)
			}
		}
		return nil
	}

	batch := &pgx.Batch{}
	batch.Queue(sql, args...)
	for _, rel := range related {
		relSQL, relArgs, err := rel.Query.ToSql()
		if err != nil {
			return errors.Wrapf(err, "related %s", rel.Name)
		}
		batch.Queue(relSQL, relArgs...)
	}

	results := db.SendBatch(ctx, batch)
	defer func() { _ = results.Close() }()

	rows, err := results.Query()
	if err != nil {
		return err
	}
	if err := pgxscan.ScanAll(dest, rows); err != nil {
		return err
	}
	for _, rel := range related {
		rows, err := results.Query()
		if err != nil {
			return errors.Wrapf(err, "related %s", rel.Name)
		}
		if err := pgxscan.ScanAll(rel.Dest, rows); err != nil {
			return errors.Wrapf(err, "related %s", rel.Name)
		}
	}
	return results.Close()
}
