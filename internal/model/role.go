package model

const (
	RoleAdmin      = "admin"
	RoleRegistered = "registered"
)

type Role struct {
	ID   int64
	Role string
}

type RoleRequest struct {
	Role string `json:"role" binding:"required,min=2,max=50"`
}

type RoleResponse struct {
	ID   int64  `json:"id"`
	Role string `json:"role"`
}
