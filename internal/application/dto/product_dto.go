package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto del catálogo.
type CreateProductRequest struct {
	SKU                  string          `json:"sku" validate:"required,min=1,max=100"`
	Name                 string          `json:"name" validate:"required,min=1,max=200"`
	Description          string          `json:"description"`
	Price                decimal.Decimal `json:"price"`
	UnitMeasure          string          `json:"unit_measure"`
	RequiresPrescription bool            `json:"requires_prescription"`
}

// UpdateProductRequest entrada para actualizar un producto.
type UpdateProductRequest struct {
	Name                 *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description          *string          `json:"description"`
	Price                *decimal.Decimal `json:"price"`
	UnitMeasure          *string          `json:"unit_measure"`
	RequiresPrescription *bool            `json:"requires_prescription"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                   string          `json:"id"`
	SKU                  string          `json:"sku"`
	Name                 string          `json:"name"`
	Description          string          `json:"description"`
	Price                decimal.Decimal `json:"price"`
	UnitMeasure          string          `json:"unit_measure"`
	RequiresPrescription bool            `json:"requires_prescription"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}
