package pagination

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"
)

// Sort orders and defaults.
const (
	SortOrderAsc     = "asc"
	SortOrderDesc    = "desc"
	DefaultSortOrder = SortOrderAsc
)

// Validation errors.
var (
	ErrInvalidSortFormat = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'updated:desc')")
	ErrEmptySortField    = errors.New("sort field cannot be empty")
	ErrInvalidSortOrder  = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidSortField  = errors.New("invalid sort field")
)

// Params holds the listing flags. Offset-based (--limit, --offset) and
// page-based (--page, --page-size) windows are mutually exclusive. A zero
// Limit means no limit.
type Params struct {
	Limit    int
	Offset   int
	Page     int
	PageSize int
	Sort     string
}

// AddFlags registers the listing flags on cmd, bound to p.
func (p *Params) AddFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.Limit, "limit", 0, "maximum number of items to show (0 = all)")
	cmd.Flags().IntVar(&p.Offset, "offset", 0, "number of items to skip")
	cmd.Flags().IntVar(&p.Page, "page", 0, "1-based page number (requires --page-size)")
	cmd.Flags().IntVar(&p.PageSize, "page-size", 0, "items per page (requires --page)")
	cmd.Flags().StringVar(&p.Sort, "sort", "", "sort by field, optionally with order: field[:asc|desc]")
}

// Validate checks bounds and that only one window mode is used.
func (p Params) Validate() error {
	switch {
	case p.Limit < 0:
		return errors.New("limit cannot be negative")
	case p.Offset < 0:
		return errors.New("offset cannot be negative")
	case p.Page < 0:
		return errors.New("page cannot be negative")
	case p.PageSize < 0:
		return errors.New("page-size cannot be negative")
	case p.Page > 0 && (p.Offset > 0 || p.Limit > 0):
		return errors.New("--page cannot be combined with --offset or --limit")
	case p.Page == 0 && p.PageSize > 0:
		return errors.New("--page-size requires --page")
	case p.Page > 0 && p.PageSize == 0:
		return errors.New("--page requires --page-size")
	case p.Page > 0 && p.Page-1 > math.MaxInt/p.PageSize:
		return fmt.Errorf("--page %d is too large for --page-size %d", p.Page, p.PageSize)
	}
	if _, _, err := ParseSort(p.Sort); err != nil {
		return err
	}
	return nil
}

// IsPageBased reports whether page-based windowing is active.
func (p Params) IsPageBased() bool {
	return p.Page > 0
}

// Window returns the effective offset and limit. A zero limit means all
// remaining items. A page offset that would overflow int saturates at
// math.MaxInt.
//
//nolint:nonamedreturns // Named returns document the pair.
func (p Params) Window() (offset, limit int) {
	if p.IsPageBased() {
		if p.PageSize > 0 && p.Page-1 > math.MaxInt/p.PageSize {
			return math.MaxInt, p.PageSize
		}
		return (p.Page - 1) * p.PageSize, p.PageSize
	}
	return p.Offset, p.Limit
}

// ParseSort parses "field" or "field:order". An empty string means no
// sorting.
//
//nolint:nonamedreturns // Named returns document the pair.
func ParseSort(s string) (field, order string, err error) {
	if strings.TrimSpace(s) == "" {
		return "", DefaultSortOrder, nil
	}

	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		field, order = strings.TrimSpace(parts[0]), DefaultSortOrder
	case 2: //nolint:mnd // field and order.
		field = strings.TrimSpace(parts[0])
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	default:
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, s)
	}

	if field == "" {
		return "", "", ErrEmptySortField
	}
	if order != SortOrderAsc && order != SortOrderDesc {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}
	return field, order, nil
}

// Apply returns the window of items selected by p. Page-based windows past
// the end clamp to the last page; offset windows past the end are empty.
func Apply[T any](p Params, items []T) []T {
	if len(items) == 0 {
		return items
	}

	offset, limit := p.Window()
	if p.IsPageBased() && offset >= len(items) {
		offset = ((len(items) - 1) / p.PageSize) * p.PageSize
	}
	if offset >= len(items) {
		return []T{}
	}

	end := len(items)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}
	return items[offset:end]
}
