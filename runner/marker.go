// SPDX-FileCopyrightText: Copyright 2025 SAP SE or an SAP affiliate company
//
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/go-openapi/strfmt"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sapcc/quiver"
)

// MarkerValues fetches the sort-key values of the marker row, for seeding
// quiver.SeekAfter when resuming a keyset-paginated listing. Raw 16-byte
// UUID values are rewrapped as pgtype.UUID so they re-enter squirrel as
// arguments cleanly. A missing marker yields quiver.ErrInvalidMarker.
func MarkerValues(ctx context.Context, db Querier, table string, marker strfmt.UUID, keys []string) (map[string]any, error) {
	sql, args, err := quiver.Select(keys...).From(table).Where(sq.Eq{"id": marker}).ToSql()
	if err != nil {
		return nil, err
	}

	row := make(map[string]any)
	if err := pgxscan.Get(ctx, db, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, quiver.ErrInvalidMarker
		}
		return nil, err
	}

	for key, val := range row {
		if v, ok := val.([16]uint8); ok {
			row[key] = pgtype.UUID{Bytes: v, Valid: true}
		}
	}
	return row, nil
}
