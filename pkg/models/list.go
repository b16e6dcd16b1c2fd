package models

// ListRequest narrows a list query: Search is a case-insensitive substring
// match on the entity's primary text field.
type ListRequest struct {
	Search string
	Limit  int
	Offset int
}

// Page describes one page of a paginated list view.
type Page struct {
	Number     int
	Size       int
	TotalItems int
	TotalPages int
}

// NewPage clamps number into [1, TotalPages].
func NewPage(number, size, totalItems int) Page {
	if size <= 0 {
		size = 1
	}
	totalPages := (totalItems + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}
	return Page{Number: number, Size: size, TotalItems: totalItems, TotalPages: totalPages}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p Page) HasPrevious() bool { return p.Number > 1 }
func (p Page) HasNext() bool     { return p.Number < p.TotalPages }
func (p Page) Previous() int     { return p.Number - 1 }
func (p Page) Next() int         { return p.Number + 1 }

// IsPaginated is false when everything fits on one page.
func (p Page) IsPaginated() bool { return p.TotalPages > 1 }
