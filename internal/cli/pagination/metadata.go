package pagination

import "fmt"

// Meta describes the window returned from a listing.
type Meta struct {
	Offset     int  `json:"offset"`
	Count      int  `json:"count"`
	TotalItems int  `json:"total_items"`
	HasNext    bool `json:"has_next"`
}

// NewMeta describes the page of count items that Apply returned from a list
// of total items.
func NewMeta(p Params, count, total int) Meta {
	offset, _ := p.Window()
	if p.IsPageBased() && total > 0 && offset >= total {
		offset = ((total - 1) / p.PageSize) * p.PageSize
	}
	if offset > total {
		offset = total
	}
	return Meta{
		Offset:     offset,
		Count:      count,
		TotalItems: total,
		HasNext:    offset+count < total,
	}
}

// Partial reports whether the window leaves out any items.
func (m Meta) Partial() bool {
	return m.Count < m.TotalItems
}

// String renders e.g. "Showing 3-4 of 9".
func (m Meta) String() string {
	if m.Count == 0 {
		return fmt.Sprintf("Showing 0 of %d", m.TotalItems)
	}
	return fmt.Sprintf("Showing %d-%d of %d", m.Offset+1, m.Offset+m.Count, m.TotalItems)
}
