package domain

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Page struct {
	Page  int32 `json:"page"`
	Limit int32 `json:"limit"`
}

// Normalize clamps the page to sane bounds
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

func (p Page) Offset() int32 {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

type PaginatedResult[T any] struct {
	Data       []T   `json:"data"`
	Total      int32 `json:"total"`
	Page       int32 `json:"page"`
	Limit      int32 `json:"limit"`
	TotalPages int32 `json:"total_pages"`
}

func NewPaginatedResult[T any](data []T, total int32, p Page) PaginatedResult[T] {
	p = p.Normalize()
	if data == nil {
		data = []T{}
	}
	return PaginatedResult[T]{
		Data:       data,
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: (total + p.Limit - 1) / p.Limit,
	}
}
