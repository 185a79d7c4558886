package model

import "time"

type Comparison struct {
	ID          int64
	UserID      int64
	Name        string
	Description string
	CreatedAt   time.Time
}

type ComparisonRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=100"`
	Description string  `json:"description"`
	ProductIDs  []int64 `json:"product_ids"`
}

// ComparisonUpdateRequest carries partial updates; empty fields are left
// unchanged.
type ComparisonUpdateRequest struct {
	Name        string `json:"name" binding:"omitempty,min=2,max=100"`
	Description string `json:"description"`
}

type ComparisonResponse struct {
	ID          int64              `json:"id"`
	UserID      int64              `json:"user_id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	Products    []*ProductResponse `json:"products"`
}
