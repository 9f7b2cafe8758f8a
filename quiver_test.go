// SPDX-FileCopyrightText: Copyright 2025 SAP SE or an SAP affiliate company
//
// SPDX-License-Identifier: Apache-2.0

package quiver

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestComposeEmpty(t *testing.T) {
	src, err := Compose(Select("*").From("example"), Settings{}, nil, nil)
	assert.NoError(t, err)

	sql, args, err := src.ToSql()
	assert.NoError(t, err)
	assert.Equal(t, "SELECT * FROM example", sql)
	assert.Nil(t, args)

	assert.True(t, src.IsReadOnly())
	assert.False(t, src.IsForkable())
}

func TestComposeSinglePredicate(t *testing.T) {
	src, err := Compose(Select("*").From("example"), Settings{},
		[]Predicate{And(sq.Eq{"project_id": "abc"})}, nil)
	assert.NoError(t, err)

	sql, args, err := src.ToSql()
	assert.NoError(t, err)
	assert.Equal(t, "SELECT * FROM example WHERE ((1=1) AND project_id = $1)", sql)
	assert.Equal(t, []any{"abc"}, args)
}

func TestComposeLeftFold(t *testing.T) {
	src, err := Compose(Select("*").From("service"), Settings{},
		[]Predicate{
			And(sq.Eq{"visibility": "public"}),
			Or(sq.Eq{"project_id": "p1"}),
			And(sq.Gt{"port": 1024}),
		}, nil)
	assert.NoError(t, err)

	sql, args, err := src.ToSql()
	assert.NoError(t, err)
	assert.Equal(t,
		"SELECT * FROM service WHERE ((((1=1) AND visibility = $1) OR project_id = $2) AND port > $3)",
		sql)
	assert.Equal(t, []any{"public", "p1", 1024}, args)
}

func TestComposeChainedOrdering(t *testing.T) {
	src, err := Compose(Select("*").From("service"), Settings{}, nil,
		[]Sort{{Key: "name"}, {Key: "created_at", Desc: true}})
	assert.NoError(t, err)

	sql, _, err := src.ToSql()
	assert.NoError(t, err)
	assert.Equal(t, "SELECT * FROM service ORDER BY name ASC, created_at DESC", sql)
}

func TestComposePagination(t *testing.T) {
	src, err := Compose(Select("*").From("example"),
		Settings{Skip: 3, Limit: ptr(int64(2))}, nil,
		[]Sort{{Key: "id"}})
	assert.NoError(t, err)

	sql, _, err := src.ToSql()
	assert.NoError(t, err)
	assert.Equal(t, "SELECT * FROM example ORDER BY id ASC LIMIT 2 OFFSET 3", sql)
}

func TestComposeSkipZeroIsNoop(t *testing.T) {
	src, err := Compose(Select("*").From("example"), Settings{Skip: 0}, nil, nil)
	assert.NoError(t, err)

	sql, _, err := src.ToSql()
	assert.NoError(t, err)
	assert.Equal(t, "SELECT * FROM example", sql)
}

func TestComposeAppliesAllDimensions(t *testing.T) {
	src, err := Compose(Select("id", "name").From("endpoint"),
		Settings{Skip: 5, Limit: ptr(int64(10)), Forkable: true},
		[]Predicate{And(sq.Eq{"project_id": "p2"})},
		[]Sort{{Key: "id"}})
	assert.NoError(t, err)

	sql, args, err := src.ToSql()
	assert.NoError(t, err)
	assert.Equal(t,
		"SELECT id, name FROM endpoint WHERE ((1=1) AND project_id = $1) ORDER BY id ASC LIMIT 10 OFFSET 5",
		sql)
	assert.Equal(t, []any{"p2"}, args)
	assert.True(t, src.IsReadOnly())
	assert.True(t, src.IsForkable())
}

func TestComposeRejectsNegativeSkip(t *testing.T) {
	_, err := Compose(Select("*").From("example"), Settings{Skip: -1}, nil, nil)
	assert.ErrorIs(t, err, ErrNegativeSkip)
}

func TestComposeRejectsNonPositiveLimit(t *testing.T) {
	_, err := Compose(Select("*").From("example"), Settings{Limit: ptr(int64(0))}, nil, nil)
	assert.ErrorIs(t, err, ErrNonPositiveLimit)

	_, err = Compose(Select("*").From("example"), Settings{Limit: ptr(int64(-5))}, nil, nil)
	assert.ErrorIs(t, err, ErrNonPositiveLimit)
}

func TestComposeWhereImplicitAnd(t *testing.T) {
	src, err := ComposeWhere(Select("*").From("service"), Settings{},
		sq.Eq{"enabled": true}, sq.Lt{"port": 4096})
	assert.NoError(t, err)

	sql, args, err := src.ToSql()
	assert.NoError(t, err)
	assert.Equal(t,
		"SELECT * FROM service WHERE (((1=1) AND enabled = $1) AND port < $2)",
		sql)
	assert.Equal(t, []any{true, 4096}, args)
}

func TestComposeDoesNotMutateBase(t *testing.T) {
	base := Select("*").From("example")

	_, err := Compose(base, Settings{Skip: 7, Limit: ptr(int64(1))},
		[]Predicate{And(sq.Eq{"id": "x"})}, []Sort{{Key: "id"}})
	assert.NoError(t, err)

	sql, args, err := base.ToSql()
	assert.NoError(t, err)
	assert.Equal(t, "SELECT * FROM example", sql)
	assert.Nil(t, args)
}

func TestSourceFluent(t *testing.T) {
	src := From(Select("*").From("example")).
		Where(sq.Eq{"enabled": true}).
		OrderBy(Sort{Key: "id"}).
		Skip(2).
		Take(1).
		ReadOnly()

	sql, args, err := src.ToSql()
	assert.NoError(t, err)
	assert.Equal(t, "SELECT * FROM example WHERE enabled = $1 ORDER BY id ASC LIMIT 1 OFFSET 2", sql)
	assert.Equal(t, []any{true}, args)
	assert.True(t, src.IsReadOnly())
}

func TestSourceSkipTakeGuards(t *testing.T) {
	src := From(Select("*").From("example")).Skip(0).Take(0)

	sql, _, err := src.ToSql()
	assert.NoError(t, err)
	assert.Equal(t, "SELECT * FROM example", sql)
}
