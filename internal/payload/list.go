package payload

// Order is the sort direction accepted by list endpoints.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

type (
	// ListReqQuery carries the pagination query parameters. Endpoints that
	// need extra parameters define them inline rather than embedding this
	// struct, since Gin cannot validate embedded query fields.
	ListReqQuery struct {
		PageIndex *int `form:"page_index" binding:"required"`
		PageSize  *int `form:"page_size" binding:"required"`
	}
	ListResp[T any] struct {
		Rows  []T   `json:"rows"`
		Count int64 `json:"count"`
	}
)
