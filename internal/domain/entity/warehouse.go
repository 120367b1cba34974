package entity

import "time"

// Warehouse representa la bodega central desde donde se trasladan productos a las sucursales.
type Warehouse struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
