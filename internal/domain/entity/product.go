package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de la farmacia (medicamento o
// artículo de venta libre). El stock se maneja por ubicación en WarehouseStock
// y BranchStock, nunca en el producto.
type Product struct {
	ID                   string
	SKU                  string // código único del catálogo
	Name                 string
	Description          string
	Price                decimal.Decimal // precio de venta
	UnitMeasure          string          // caja, blíster, unidad
	RequiresPrescription bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
