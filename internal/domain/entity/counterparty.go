package entity

import "time"

// Counterparty representa un cliente o un proveedor según Kind.
type Counterparty struct {
	ID           string
	Kind         Kind
	BusinessName string // razón social
	CUIT         string // 11 dígitos, sin guiones
	Email        string
	Phone        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
