// SPDX-FileCopyrightText: Copyright 2025 SAP SE or an SAP affiliate company
//
// SPDX-License-Identifier: Apache-2.0

package quiver

import (
	sq "github.com/Masterminds/squirrel"
)

// Fold merges predicates into one expression by strict left fold. The
// accumulator starts as the empty conjunction (the engine's portable true)
// and each entry merges with its own combinator, so
//
//	[(P1,AND),(P2,OR),(P3,AND)]  =>  ((((1=1) AND P1) OR P2) AND P3)
//
// There is no precedence regrouping: an OR entry can reintroduce rows an
// earlier AND excluded. An empty list folds to the bare true expression;
// Compose skips filtering entirely in that case.
func Fold(preds []Predicate) sq.Sqlizer {
	acc := sq.Sqlizer(sq.And{})
	for _, p := range preds {
		if p.Op == OpOr {
			acc = sq.Or{acc, p.Expr}
		} else {
			acc = sq.And{acc, p.Expr}
		}
	}
	return acc
}
