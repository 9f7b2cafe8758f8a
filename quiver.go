// SPDX-FileCopyrightText: Copyright 2025 SAP SE or an SAP affiliate company
//
// SPDX-License-Identifier: Apache-2.0

// Package quiver composes declarative query specifications - filter
// predicates, chained sort keys, pagination and execution hints - onto
// squirrel select builders. Composition is pure expression manipulation:
// nothing is rendered or executed until an adapter (runner, sqlrunner)
// materializes the source.
package quiver

import (
	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Select returns a dollar-placeholder select builder, the base handle a
// composition starts from.
func Select(columns ...string) sq.SelectBuilder {
	return psql.Select(columns...)
}

// Op selects how a predicate merges into the accumulated filter.
type Op uint8

const (
	OpAnd Op = iota
	OpOr
)

// Predicate pairs a boolean expression the engine can translate with the
// combinator that merges it into the accumulated filter. Order matters:
// predicates combine by strict left fold, see Fold.
type Predicate struct {
	Expr sq.Sqlizer
	Op   Op
}

// And wraps an expression as an AND-merged predicate.
func And(expr sq.Sqlizer) Predicate { return Predicate{Expr: expr, Op: OpAnd} }

// Or wraps an expression as an OR-merged predicate.
func Or(expr sq.Sqlizer) Predicate { return Predicate{Expr: expr, Op: OpOr} }

// Sort is one ordering key. The first entry of a sort list establishes the
// primary order, every further entry breaks ties within the previous ones.
type Sort struct {
	Key  string
	Desc bool
}

func (s Sort) clause() string {
	if s.Desc {
		return s.Key + " DESC"
	}
	return s.Key + " ASC"
}

// Settings carries the pagination and execution flags of a composition.
// Limit nil means unbounded. Forkable permits the adapter to load related
// result sets in separate round trips instead of a single batched one.
type Settings struct {
	Skip     int64
	Limit    *int64
	Forkable bool
}

// Source is a composed queryable handle: a select builder plus the
// execution hints the adapters honor. Source values are immutable, every
// transformation returns a new one and leaves the receiver untouched.
type Source struct {
	sb       sq.SelectBuilder
	readOnly bool
	forkable bool
}

// From wraps a base select builder into a Source.
func From(base sq.SelectBuilder) Source {
	return Source{sb: base}
}

// Where filters the source by one already-combined expression.
func (s Source) Where(pred sq.Sqlizer) Source {
	s.sb = s.sb.Where(pred)
	return s
}

// OrderBy appends sort entries. Entries chain: calling OrderBy twice, or
// once with several entries, yields primary order plus tie-breakers.
func (s Source) OrderBy(sorts ...Sort) Source {
	for _, entry := range sorts {
		s.sb = s.sb.OrderBy(entry.clause())
	}
	return s
}

// Skip discards the first n rows. No-op unless n > 0.
func (s Source) Skip(n int64) Source {
	if n > 0 {
		s.sb = s.sb.Offset(uint64(n))
	}
	return s
}

// Take caps the result at n rows. No-op unless n > 0.
func (s Source) Take(n int64) Source {
	if n > 0 {
		s.sb = s.sb.Limit(uint64(n))
	}
	return s
}

// ReadOnly marks the source for detached, read-only materialization.
func (s Source) ReadOnly() Source {
	s.readOnly = true
	return s
}

// Forkable toggles split execution of related loads.
func (s Source) Forkable(on bool) Source {
	s.forkable = on
	return s
}

func (s Source) IsReadOnly() bool { return s.readOnly }
func (s Source) IsForkable() bool { return s.forkable }

// Builder returns the underlying select builder.
func (s Source) Builder() sq.SelectBuilder { return s.sb }

// ToSql renders the composed expression. Expressions the engine cannot
// translate surface their error here, not at composition time.
func (s Source) ToSql() (string, []any, error) {
	return s.sb.ToSql()
}

// Compose transforms base into a source reflecting, in this order: the
// folded predicates, the chained sort entries, skip, take, unconditional
// read-only mode, and the forkable flag. Empty predicate and sort lists
// leave their dimension untouched. Negative skip and non-positive take are
// rejected here rather than passed to the engine.
func Compose(base sq.SelectBuilder, settings Settings, preds []Predicate, sorts []Sort) (Source, error) {
	if settings.Skip < 0 {
		return Source{}, ErrNegativeSkip
	}
	if settings.Limit != nil && *settings.Limit <= 0 {
		return Source{}, ErrNonPositiveLimit
	}

	src := From(base)
	if len(preds) > 0 {
		src = src.Where(Fold(preds))
	}
	if len(sorts) > 0 {
		src = src.OrderBy(sorts...)
	}
	src = src.Skip(settings.Skip)
	if settings.Limit != nil {
		src = src.Take(*settings.Limit)
	}
	src = src.ReadOnly()
	return src.Forkable(settings.Forkable), nil
}

// ComposeWhere is Compose with a plain expression list, all AND-merged.
func ComposeWhere(base sq.SelectBuilder, settings Settings, exprs ...sq.Sqlizer) (Source, error) {
	preds := make([]Predicate, 0, len(exprs))
	for _, expr := range exprs {
		preds = append(preds, And(expr))
	}
	return Compose(base, settings, preds, nil)
}
