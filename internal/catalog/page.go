package catalog

import "camelia/internal/model"

// PageSize is the number of products per catalogue page.
const PageSize = 36

// TotalPages returns the number of pages needed for n products.
func TotalPages(n int) int {
	return (n + PageSize - 1) / PageSize
}

// PageNumbers returns 1..TotalPages(n).
func PageNumbers(n int) []int {
	pages := make([]int, TotalPages(n))
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// Paginate returns the products of page, the slice [(page-1)*PageSize, page*PageSize).
// Pages below one are treated as the first page; pages past the end are empty.
func Paginate(products []model.Product, page int) []model.Product {
	if page < 1 {
		page = 1
	}

	start := (page - 1) * PageSize
	if start >= len(products) {
		return []model.Product{}
	}

	end := min(start+PageSize, len(products))
	return products[start:end]
}
