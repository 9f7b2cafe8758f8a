// SPDX-FileCopyrightText: Copyright 2025 SAP SE or an SAP affiliate company
//
// SPDX-License-Identifier: Apache-2.0

package quiver

import (
	"errors"
)

var (
	ErrNegativeSkip     = errors.New("negative skip")
	ErrNonPositiveLimit = errors.New("non-positive limit")
	ErrInvalidMarker    = errors.New("invalid marker")
)
