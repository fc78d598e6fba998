package repository

import "github.com/jhoicas/sistemita-api/internal/domain/entity"

// ListFilter acota los listados por lado del libro y contraparte, con paginado.
// CounterpartyID vacío no filtra.
type ListFilter struct {
	Kind           entity.Kind
	CounterpartyID string
	Limit          int
	Offset         int
}

// Repositories agrupa los puertos que comparten una misma transacción.
type Repositories struct {
	Invoices       InvoiceRepository
	Imputations    ImputationRepository
	Payments       PaymentRepository
	Counterparties CounterpartyRepository
	PaymentMethods PaymentMethodRepository
}
