package domain

// PagedResult 是分页查询的结果。
type PagedResult[T any] struct {
	Items       []T   `json:"items"`
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalCount  int64 `json:"totalCount"`
}

// TotalPages 根据总数和页大小计算总页数。
func (p *PagedResult[T]) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return int((p.TotalCount + int64(p.PageSize) - 1) / int64(p.PageSize))
}
