// SPDX-FileCopyrightText: Copyright 2025 SAP SE or an SAP affiliate company
//
// SPDX-License-Identifier: Apache-2.0

package quiver

import (
	"regexp"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

var sortKeyRegex = regexp.MustCompile("^[a-z0-9_]+$")

func stripDesc(sortDirKey string) (string, bool) {
	sortKey := strings.TrimPrefix(sortDirKey, "-")
	return sortKey, sortKey != sortDirKey
}

// ParseSorts parses a comma-separated sort parameter into sort entries. A
// "-" prefix requests descending order. Keys failing identifier sanitation
// are dropped. The defaults are appended for every key not already listed,
// keeping the resulting order total and stable.
func ParseSorts(s string, defaults ...string) []Sort {
	sortDirKeys := strings.Split(s, ",")
	for _, defaultSortKey := range defaults {
		found := false
		for _, paramSortKey := range sortDirKeys {
			sortKey, _ := stripDesc(paramSortKey)
			if sortKey == defaultSortKey {
				found = true
				break
			}
		}
		if !found {
			sortDirKeys = append(sortDirKeys, defaultSortKey)
		}
	}

	sorts := make([]Sort, 0, len(sortDirKeys))
	for _, sortDirKey := range sortDirKeys {
		sortKey, desc := stripDesc(sortDirKey)
		if !sortKeyRegex.MatchString(sortKey) {
			continue
		}
		sorts = append(sorts, Sort{Key: sortKey, Desc: desc})
	}
	return sorts
}

// Reversed flips the direction of every entry, for reverse paging.
func Reversed(sorts []Sort) []Sort {
	reversed := make([]Sort, len(sorts))
	for i, s := range sorts {
		reversed[i] = Sort{Key: s.Key, Desc: !s.Desc}
	}
	return reversed
}

// SeekAfter builds the keyset predicate resuming a listing after the row
// whose sort-key values are given: strictly past the marker on the primary
// key, or tied on every earlier key and strictly past it on a later one.
// Comparison direction follows each entry. Requires at least one entry.
func SeekAfter(sorts []Sort, row map[string]any) sq.Sqlizer {
	var clauses sq.Or
	for i, entry := range sorts {
		var critAttrs sq.And
		for _, prev := range sorts[:i] {
			critAttrs = append(critAttrs, sq.Eq{prev.Key: row[prev.Key]})
		}

		if entry.Desc {
			critAttrs = append(critAttrs, sq.Lt{entry.Key: row[entry.Key]})
		} else {
			critAttrs = append(critAttrs, sq.Gt{entry.Key: row[entry.Key]})
		}
		clauses = append(clauses, critAttrs)
	}
	return clauses
}
