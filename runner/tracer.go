// SPDX-FileCopyrightText: Copyright 2025 SAP SE or an SAP affiliate company
//
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	logrus "github.com/jackc/pgx-logrus"
	"github.com/jackc/pgx/v5/tracelog"
	log "github.com/sirupsen/logrus"
)

// Tracer bridges pgx wire logging into the process logrus logger. Verbose
// traces every query at debug level, otherwise only errors surface.
func Tracer(verbose bool) *tracelog.TraceLog {
	logLevel := tracelog.LogLevelError
	if verbose {
		logLevel = tracelog.LogLevelDebug
	}
	return &tracelog.TraceLog{
		Logger:   logrus.NewLogger(log.StandardLogger()),
		LogLevel: logLevel,
	}
}
