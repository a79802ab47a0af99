package dto

import "time"

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Unit     string `json:"unit" validate:"required,max=20"`
	Category string `json:"category" validate:"max=100"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Unit      string    `json:"unit"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}
