package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleBodeguero  = "bodeguero"  // opera la bodega central y los traslados
	RoleFarmaceuta = "farmaceuta" // atiende mostrador en sucursal
	RoleVendedor   = "vendedor"
)

// User representa un miembro del personal de la cadena de farmacias.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, bodeguero, farmaceuta, vendedor
	BranchID     string // sucursal asignada; vacío para admin/bodeguero
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
