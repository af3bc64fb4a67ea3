package handler

import "time"

// --- Request / Response types ---

type productRequest struct {
	SKU         string `json:"sku"         validate:"required,max=64"`
	Name        string `json:"name"        validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Price       int64  `json:"price"       validate:"gte=0"`
	Currency    string `json:"currency"    validate:"required,len=3,uppercase"`
	Stock       int64  `json:"stock"       validate:"gte=0"`
}

type listProductsQuery struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

type productLinks struct {
	Self string `json:"self"`
}

type productResponse struct {
	ID          string       `json:"id"`
	SKU         string       `json:"sku"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Price       int64        `json:"price"`
	Currency    string       `json:"currency"`
	Stock       int64        `json:"stock"`
	CreatedBy   string       `json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Links       productLinks `json:"_links"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listProductsResponse struct {
	Data       []productResponse  `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}
