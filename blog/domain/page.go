package domain

// DefaultPageSize is the page size used when a request does not supply a
// usable limit.
const DefaultPageSize = 12

// Page is a normalized 1-based page request.
type Page struct {
	Number int
	Size   int
}

// NewPage clamps raw pagination input into a usable page: a page number
// below 1 becomes 1, a size below 1 becomes DefaultPageSize. Handlers feed
// unparseable query params through here as zero, so malformed input
// degrades to the first default-sized page instead of failing.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	return Page{Number: number, Size: size}
}

// Skip returns the number of records preceding this page.
func (p Page) Skip() int {
	return (p.Number - 1) * p.Size
}

// Pagination is the summary returned alongside any list result.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	TotalPosts  int64
	HasNext     bool
	HasPrev     bool
}

// NewPagination assembles the summary for a page of returned records out of
// the total match count.
func NewPagination(page Page, total int64, returned int) Pagination {
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(page.Size) - 1) / int64(page.Size))
	}
	return Pagination{
		CurrentPage: page.Number,
		TotalPages:  totalPages,
		TotalPosts:  total,
		HasNext:     int64(page.Skip()+returned) < total,
		HasPrev:     page.Number > 1,
	}
}
