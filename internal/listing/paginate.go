// internal/listing/paginate.go
package listing

// DefaultPageSize используется, если размер страницы не задан.
const DefaultPageSize = 10

// WindowRadius - количество страниц слева и справа от текущей в навигации.
const WindowRadius = 2

// Page - одна страница отфильтрованного набора.
type Page[T any] struct {
	Items      []T
	Number     int
	Size       int
	TotalItems int
	TotalPages int
}

// Paginate возвращает срез [(page-1)*size, page*size) отфильтрованного набора.
// Номер страницы ограничивается диапазоном [1, max(TotalPages, 1)], поэтому после
// сужения фильтра показывается последняя существующая страница.
func Paginate[T any](items []T, size, page int) Page[T] {
	if size < 1 {
		size = DefaultPageSize
	}
	total := len(items)
	totalPages := (total + size - 1) / size

	last := totalPages
	if last < 1 {
		last = 1
	}
	if page < 1 {
		page = 1
	}
	if page > last {
		page = last
	}

	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      items[start:end:end],
		Number:     page,
		Size:       size,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

func (p Page[T]) HasPrev() bool { return p.Number > 1 }
func (p Page[T]) HasNext() bool { return p.Number < p.TotalPages }
func (p Page[T]) Prev() int { return p.Number - 1 }
func (p Page[T]) Next() int { return p.Number + 1 }

// PageLink - элемент навигации: номер страницы или многоточие.
type PageLink struct {
	Number   int
	Current  bool
	Ellipsis bool
}

// Window строит навигацию: первая страница, последняя страница и current±radius.
// Каждый пропуск между соседними показанными страницами сворачивается в одно многоточие.
func Window(current, total, radius int) []PageLink {
	if total < 1 {
		return nil
	}
	var links []PageLink
	prev := 0
	for n := 1; n <= total; n++ {
		if n != 1 && n != total && (n < current-radius || n > current+radius) {
			continue
		}
		if prev > 0 && n-prev > 1 {
			links = append(links, PageLink{Ellipsis: true})
		}
		links = append(links, PageLink{Number: n, Current: n == current})
		prev = n
	}
	return links
}
