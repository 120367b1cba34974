package entity

import "time"

// WarehouseStock representa el stock actual de un producto en la bodega central.
// Clave compuesta (WarehouseID, ProductID). Invariante: CurrentStock >= 0 en todo
// punto observable; solo lo muta el ejecutor de traslados (salida) o una
// reposición externa (entrada).
type WarehouseStock struct {
	WarehouseID  string
	ProductID    string
	CurrentStock int64
	UpdatedAt    time.Time
}
