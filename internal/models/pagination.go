package models

// PageSizes are the row counts a list page can show.
var PageSizes = []int{5, 10, 15, 20, 25}

// DefaultPageSize is used when the requested size is not one of PageSizes.
const DefaultPageSize = 5

// Page is one window over a slice of customers.
type Page struct {
	Items  []Customer
	Number int // 1-based
	Size   int
	Total  int
	Pages  int
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a following page exists.
func (p Page) HasNext() bool { return p.Number < p.Pages }

// First is the 1-based index of the first row on the page, 0 when empty.
func (p Page) First() int {
	if p.Total == 0 {
		return 0
	}
	return (p.Number-1)*p.Size + 1
}

// Last is the 1-based index of the last row on the page.
func (p Page) Last() int { return p.First() + len(p.Items) - 1 }

// Paginate cuts rows into pages of size and returns page number (clamped).
func Paginate(rows []Customer, number, size int) Page {
	if !validSize(size) {
		size = DefaultPageSize
	}
	total := len(rows)
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > pages {
		number = pages
	}
	start := (number - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	return Page{Items: rows[start:end], Number: number, Size: size, Total: total, Pages: pages}
}

func validSize(size int) bool {
	for _, s := range PageSizes {
		if s == size {
			return true
		}
	}
	return false
}

// Prev and Next are the neighbouring page numbers.
func (p Page) Prev() int { return p.Number - 1 }
func (p Page) Next() int { return p.Number + 1 }
