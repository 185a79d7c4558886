package model

import "time"

type Rating struct {
	ID        int64
	ProductID int64
	UserID    int64
	Rating    float64
	Comment   string
	CreatedAt time.Time
}

type RatingRequest struct {
	ProductID int64   `json:"product_id" binding:"required"`
	Rating    float64 `json:"rating" binding:"required,min=1,max=5"`
	Comment   string  `json:"comment" binding:"max=500"`
}

type RatingResponse struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	UserID    int64     `json:"user_id"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *Rating) Response() *RatingResponse {
	return &RatingResponse{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}
