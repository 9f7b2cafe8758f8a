// SPDX-FileCopyrightText: Copyright 2025 SAP SE or an SAP affiliate company
//
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"context"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestRetryRecovers(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryExhausts(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), func(ctx context.Context) error {
		calls++
		return errors.New("transient")
	})
	assert.Error(t, err)
	assert.Equal(t, int(RetryAttempts)+1, calls)
}

func TestRetryIntegrityViolationIsPermanent(t *testing.T) {
	calls := 0
	pgErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	err := Retry(context.Background(), func(ctx context.Context) error {
		calls++
		return errors.Wrap(pgErr, "inserting row")
	})
	assert.ErrorAs(t, err, new(*pgconn.PgError))
	assert.Equal(t, 1, calls)
}
