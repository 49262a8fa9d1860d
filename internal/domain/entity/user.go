package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleVendedor  = "vendedor"
)

// User representa un usuario del sistema. El kardex solo lo lee para
// enriquecer movimientos con el nombre del actor.
type User struct {
	ID        string
	Email     string
	Name      string
	Role      string // admin, bodeguero, vendedor
	Status    string // active, inactive, suspended
	CreatedAt time.Time
	UpdatedAt time.Time
}
