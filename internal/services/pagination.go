package services

// Ellipsis marks a gap in the list returned by PageNumbers.
const Ellipsis = -1

const maxVisiblePages = 5

// PageNumbers returns the page links to show around currentPage.
// With more than five pages the list is shortened with Ellipsis markers, e.g. 1 … 4 5 6 … 10.
func PageNumbers(currentPage, totalPages int) []int {
	pages := make([]int, 0, maxVisiblePages+2)

	if totalPages <= maxVisiblePages {
		for i := 1; i <= totalPages; i++ {
			pages = append(pages, i)
		}
		return pages
	}

	switch {
	case currentPage <= 3:
		for i := 1; i <= 4; i++ {
			pages = append(pages, i)
		}
		pages = append(pages, Ellipsis, totalPages)
	case currentPage >= totalPages-2:
		pages = append(pages, 1, Ellipsis)
		for i := totalPages - 3; i <= totalPages; i++ {
			pages = append(pages, i)
		}
	default:
		pages = append(pages, 1, Ellipsis)
		for i := currentPage - 1; i <= currentPage+1; i++ {
			pages = append(pages, i)
		}
		pages = append(pages, Ellipsis, totalPages)
	}
	return pages
}
