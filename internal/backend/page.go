package backend

// ShopPageSize is the number of products per shop page.
const ShopPageSize = 9

// Page is the backend's pagination envelope. Pages are numbered from zero.
type Page[T any] struct {
	Content    []T `json:"content"`
	TotalPages int `json:"totalPages"`
	Size       int `json:"size"`
	Number     int `json:"number"`
}

// Paginate slices items into page number page of perPage items. Out-of-range pages are empty.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	if perPage <= 0 {
		perPage = ShopPageSize
	}
	totalPages := (len(items) + perPage - 1) / perPage

	result := Page[T]{Content: []T{}, TotalPages: totalPages, Size: perPage, Number: page}
	if page < 0 || page >= totalPages {
		return result
	}
	start := page * perPage
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	result.Content = items[start:end]
	return result
}
