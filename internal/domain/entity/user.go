package entity

import "time"

// Roles de usuario.
const (
	RoleSeller  = "seller"  // vendedor: panel completo, reportes, cálculo de kar
	RoleCarrier = "carrier" // carrier/depósito: confirmaciones de recepción
	RoleCourier = "courier" // mensajero: app móvil de escaneo
)

// User usuario de la aplicación (panel web o app móvil).
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string // "active" | "disabled"
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
