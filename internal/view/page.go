package view

// PageSize is the fixed number of books per listing page.
const PageSize = 12

// WindowSize is the maximum number of page links shown at once.
const WindowSize = 5

// TotalPages returns the page count for a filtered total at PageSize.
// An empty result has zero pages.
func TotalPages(total int) int {
	return (total + PageSize - 1) / PageSize
}

// ClampPage clamps a requested page into [1, totalPages]. With zero
// pages the page is still 1, pointing at an empty slice.
func ClampPage(page, totalPages int) int {
	if totalPages <= 0 || page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Slice returns the items for the given (already clamped) page.
func Slice[T any](items []T, page int) []T {
	start := (page - 1) * PageSize
	if start >= len(items) {
		return nil
	}
	end := min(start+PageSize, len(items))
	return items[start:end]
}

// Window returns the page numbers to render around the current page:
// at most WindowSize consecutive numbers, pinned to the ends so the
// window never runs past [1, totalPages].
func Window(current, totalPages int) []int {
	if totalPages <= 0 {
		return nil
	}
	if totalPages <= WindowSize {
		nums := make([]int, totalPages)
		for i := range nums {
			nums[i] = i + 1
		}
		return nums
	}
	start := current - WindowSize/2
	switch {
	case current <= WindowSize/2+1:
		start = 1
	case current >= totalPages-WindowSize/2:
		start = totalPages - WindowSize + 1
	}
	nums := make([]int, WindowSize)
	for i := range nums {
		nums[i] = start + i
	}
	return nums
}
