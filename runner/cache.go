// SPDX-FileCopyrightText: Copyright 2025 SAP SE or an SAP affiliate company
//
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// PlanCacheSize bounds the process-wide plan registry.
const PlanCacheSize = 512

var planCache, _ = lru.New[string, *Plan](PlanCacheSize)

// internPlan returns the one plan registered for the given SQL text,
// creating it on first sight. Compiled plans are read-only and non-split
// without exception, so interning by text alone is sound.
func internPlan(sql string) *Plan {
	plan := &Plan{SQL: sql, readOnly: true}
	if previous, ok, _ := planCache.PeekOrAdd(sql, plan); ok {
		return previous
	}
	return plan
}
