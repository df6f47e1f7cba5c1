// Package filter holds the pure predicates the list screens use to narrow
// visible rows. Both filters obey the identity law: an empty search term
// returns the input unchanged.
package filter

import (
	"strconv"
	"strings"
)

// Row is the minimal view of a list entry the filters understand.
type Row interface {
	RowID() int64
	RowDescription() string
}

// ByDescription keeps rows whose description contains term,
// case-insensitively. Rows without a description never match a non-empty
// term.
func ByDescription[T Row](items []T, term string) []T {
	if term == "" {
		return items
	}
	term = strings.ToLower(term)
	var out []T
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.RowDescription()), term) {
			out = append(out, it)
		}
	}
	return out
}

// ByID keeps rows whose decimal id contains term as a substring.
func ByID[T Row](items []T, term string) []T {
	if term == "" {
		return items
	}
	var out []T
	for _, it := range items {
		if strings.Contains(strconv.FormatInt(it.RowID(), 10), term) {
			out = append(out, it)
		}
	}
	return out
}
