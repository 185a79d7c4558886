package model

import "time"

type Product struct {
	ID          int64
	Name        string
	Category    string
	Price       float64
	Stock       int
	Description string
	Brand       string
	Model       string
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ProductRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=100"`
	Category    string  `json:"category" binding:"required,min=2,max=50"`
	Price       float64 `json:"price" binding:"min=0"`
	Stock       int     `json:"stock" binding:"min=0"`
	Description string  `json:"description" binding:"max=500"`
	Brand       string  `json:"brand" binding:"omitempty,min=2,max=50"`
	Model       string  `json:"model" binding:"omitempty,min=2,max=50"`
}

// ProductFilter narrows a catalog listing. Zero values mean "no constraint";
// MaxPrice uses a pointer so a zero upper bound stays expressible.
type ProductFilter struct {
	Name     string
	Category string
	Brand    string
	MinPrice float64
	MaxPrice *float64
}

type ProductResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Price         float64   `json:"price"`
	Stock         int       `json:"stock"`
	Description   string    `json:"description,omitempty"`
	Brand         string    `json:"brand,omitempty"`
	Model         string    `json:"model,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	AverageRating float64   `json:"average_rating"`
	TotalRatings  int       `json:"total_ratings"`
}

func (p *Product) Response(avg float64, total int) *ProductResponse {
	return &ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Category:      p.Category,
		Price:         p.Price,
		Stock:         p.Stock,
		Description:   p.Description,
		Brand:         p.Brand,
		Model:         p.Model,
		ImageURL:      p.ImageURL,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		AverageRating: avg,
		TotalRatings:  total,
	}
}
