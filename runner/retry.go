// SPDX-FileCopyrightText: Copyright 2025 SAP SE or an SAP affiliate company
//
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sethvargo/go-retry"
	log "github.com/sirupsen/logrus"
)

const (
	RetryAttempts = 2
	RetryBackoff  = 100 * time.Millisecond
)

// Retry runs fn, retrying transient database errors with a constant short
// backoff. Integrity constraint violations are permanent: retrying them
// reproduces the same conflict.
func Retry(ctx context.Context, fn func(ctx context.Context) error) error {
	b := retry.WithMaxRetries(RetryAttempts, retry.NewConstant(RetryBackoff))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		var pe *pgconn.PgError
		if errors.As(err, &pe) && pgerrcode.IsIntegrityConstraintViolation(pe.Code) {
			return err
		}
		log.WithError(err).Warn("runner.Retry")
		return retry.RetryableError(err)
	})
}
