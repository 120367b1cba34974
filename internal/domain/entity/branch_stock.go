package entity

import "time"

// Valores por defecto al crear el registro de stock de sucursal la primera vez
// que un producto llega vía traslado.
const (
	DefaultMinimumStock int64 = 10
	DefaultReorderPoint int64 = 20
)

// BranchStock representa el stock actual de un producto en una sucursal.
// Clave compuesta (BranchID, ProductID). Se crea de forma perezosa la primera
// vez que llega el producto; después solo se incrementa por traslados.
// Invariante: CurrentStock >= 0.
type BranchStock struct {
	BranchID     string
	ProductID    string
	CurrentStock int64
	MinimumStock int64
	ReorderPoint int64
	UpdatedAt    time.Time
}
