package pagination

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Sorter sorts items of type T by one of a fixed set of named fields.
type Sorter[T any] struct {
	less map[string]func(a, b T) bool
}

// NewSorter builds a sorter from field names and their ascending
// comparisons.
func NewSorter[T any](fields map[string]func(a, b T) bool) *Sorter[T] {
	return &Sorter[T]{less: fields}
}

// Fields returns the sortable field names in alphabetical order.
func (s *Sorter[T]) Fields() []string {
	fields := make([]string, 0, len(s.less))
	for f := range s.less {
		fields = append(fields, f)
	}
	slices.Sort(fields)
	return fields
}

// Sort returns a sorted copy of items according to expr ("field[:order]").
// An empty expr returns items unchanged. Sorting is stable, so equal items
// keep their original order in both directions.
func (s *Sorter[T]) Sort(items []T, expr string) ([]T, error) {
	field, order, err := ParseSort(expr)
	if err != nil {
		return nil, err
	}
	if field == "" {
		return items, nil
	}
	less, ok := s.less[strings.ToLower(field)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrInvalidSortField, field, strings.Join(s.Fields(), ", "))
	}

	sorted := slices.Clone(items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if order == SortOrderDesc {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})
	return sorted, nil
}
