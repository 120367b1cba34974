package entity

import "time"

// Branch representa una sucursal (farmacia) que recibe stock desde la bodega central.
type Branch struct {
	ID        string
	Name      string
	Address   string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
