package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind distingue el lado del libro al que pertenece un documento.
type Kind string

const (
	KindCliente   Kind = "cliente"
	KindProveedor Kind = "proveedor"
)

// Valid indica si k es un lado conocido.
func (k Kind) Valid() bool {
	return k == KindCliente || k == KindProveedor
}

// Moneda es el código de moneda de facturas, imputaciones y pagos.
type Moneda string

const (
	MonedaPesos   Moneda = "P" // $
	MonedaDolares Moneda = "D" // USD
)

// Valid indica si m es una de las dos monedas admitidas.
func (m Moneda) Valid() bool {
	return m == MonedaPesos || m == MonedaDolares
}

// Symbol devuelve la etiqueta con la que se muestra la moneda.
func (m Moneda) Symbol() string {
	switch m {
	case MonedaPesos:
		return "$"
	case MonedaDolares:
		return "USD"
	}
	return string(m)
}

// Tipos de comprobante.
const (
	TipoA        = "A"
	TipoARETEN   = "ARETEN"
	TipoB        = "B"
	TipoC        = "C"
	TipoFCPYME   = "FCPYME"
	TipoM        = "M"
	TipoNCA      = "NCA"
	TipoNCARETEN = "NCARETEN"
	TipoNCB      = "NCB"
	TipoNCC      = "NCC"
	TipoNCFCPYME = "NCFCPYME"
	TipoNCM      = "NCM"
)

// InvoiceTypes lista los tipos de comprobante válidos.
var InvoiceTypes = []string{
	TipoA, TipoARETEN, TipoB, TipoC, TipoFCPYME, TipoM,
	TipoNCA, TipoNCARETEN, TipoNCB, TipoNCC, TipoNCFCPYME, TipoNCM,
}

// ValidInvoiceType indica si t es un tipo de comprobante conocido.
func ValidInvoiceType(t string) bool {
	for _, v := range InvoiceTypes {
		if v == t {
			return true
		}
	}
	return false
}

// DefaultVAT es el porcentaje de IVA que toma una factura si no se informa otro.
var DefaultVAT = decimal.NewFromInt(21)

// Invoice representa una factura (o nota de crédito) de cliente o de proveedor.
// Total es el saldo pendiente; AmountImputed lo ya cubierto por notas de crédito.
type Invoice struct {
	ID             string
	Kind           Kind
	CounterpartyID string
	Number         string
	Date           time.Time
	Type           string
	Currency       Moneda
	Net            decimal.Decimal
	VAT            decimal.Decimal // porcentaje
	Total          decimal.Decimal
	AmountImputed  decimal.Decimal
	Collected      bool
	Detail         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OriginalTotal es el valor del comprobante antes de cualquier imputación.
func (i *Invoice) OriginalTotal() decimal.Decimal {
	return i.Total.Add(i.AmountImputed)
}

// IsCreditNote indica si el comprobante es una nota de crédito.
func (i *Invoice) IsCreditNote() bool {
	return strings.HasPrefix(i.Type, "NC")
}

// Clone devuelve una copia independiente.
func (i *Invoice) Clone() *Invoice {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}
