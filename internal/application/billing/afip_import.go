package billing

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/sistemita-api/internal/application/dto"
	"github.com/jhoicas/sistemita-api/internal/domain"
	"github.com/jhoicas/sistemita-api/internal/domain/entity"
	"github.com/jhoicas/sistemita-api/internal/domain/repository"
	"github.com/jhoicas/sistemita-api/pkg/logger"
)

// Motivos por los que se omite una fila del archivo.
const (
	reasonInvalidType     = "Tipo de factura inválido."
	reasonInvalidDocType  = "Tipo de documento inválido, solo se admite CUIT."
	reasonInvalidCUIT     = "El CUIT es inválido."
	reasonInvalidCurrency = "Moneda inválida."
	reasonInvalidDate     = "Fecha inválida."
	reasonInvalidNumber   = "Punto de venta o número inválido."
	reasonInvalidAmount   = "Importe inválido."
	reasonNumberExists    = "El número de factura %s ya existe para el %s."
)

// afipTypes traduce el código de comprobante de AFIP al tipo interno.
var afipTypes = map[int]string{
	1:   entity.TipoA,
	6:   entity.TipoB,
	11:  entity.TipoC,
	201: entity.TipoFCPYME,
	51:  entity.TipoM,
	3:   entity.TipoNCA,
	12:  entity.TipoNCB,
	13:  entity.TipoNCC,
	203: entity.TipoNCFCPYME,
	53:  entity.TipoNCM,
}

// columnas requeridas, ya normalizadas.
var afipRequired = []string{"fecha", "tipo", "punto_de_venta", "numero_desde", "moneda", "imp_total"}

// AFIPImporter carga facturas desde el CSV de "Mis Comprobantes" de AFIP.
// Para clientes se leen los comprobantes emitidos (columnas del receptor) y para
// proveedores los recibidos (columnas del emisor).
type AFIPImporter struct {
	tx  TxRunner
	log *logger.Logger
	now func() time.Time
}

// NewAFIPImporter construye el importador.
func NewAFIPImporter(tx TxRunner, log *logger.Logger) *AFIPImporter {
	if log == nil {
		log = logger.Nop()
	}
	return &AFIPImporter{tx: tx, log: log.Component("importacion_afip"), now: time.Now}
}

type afipRow struct {
	line         int
	number       string
	date         time.Time
	invoiceType  string
	currency     entity.Moneda
	cuit         string
	businessName string
	net          decimal.Decimal
	total        decimal.Decimal
}

// Import lee el archivo completo. Cada fila válida se guarda en su propia transacción;
// las filas inválidas o repetidas se informan en el reporte y no frenan al resto.
func (im *AFIPImporter) Import(ctx context.Context, kind entity.Kind, r io.Reader) (*dto.ImportReport, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	records, err := readAFIPRecords(r)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("archivo vacío: %w", domain.ErrInvalidInput)
	}
	cols := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		cols[NormalizeHeader(h)] = i
	}
	for _, name := range append(afipRequired, docColumns(kind)...) {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("falta la columna %s: %w", name, domain.ErrInvalidInput)
		}
	}

	report := &dto.ImportReport{Skipped: []dto.ImportRowError{}}
	for i, rec := range records[1:] {
		line := i + 2
		if blankRecord(rec) {
			continue
		}
		row, reason := parseAFIPRow(kind, cols, rec)
		row.line = line
		if reason == "" {
			reason, err = im.store(ctx, kind, row)
			if err != nil {
				return report, err
			}
		}
		if reason != "" {
			report.Skipped = append(report.Skipped, dto.ImportRowError{Row: line, Number: row.number, Reason: reason})
			continue
		}
		report.Created++
	}

	im.log.Info().
		Str("tipo", string(kind)).
		Int("creadas", report.Created).
		Int("omitidas", len(report.Skipped)).
		Msg("importación de comprobantes")
	return report, nil
}

// store crea la factura y, si hace falta, la contraparte. Devuelve un motivo cuando la fila se omite.
func (im *AFIPImporter) store(ctx context.Context, kind entity.Kind, row afipRow) (string, error) {
	var reason string
	err := im.tx.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		cp, err := repos.Counterparties.GetByCUIT(ctx, kind, row.cuit)
		if err != nil {
			return err
		}
		now := im.now()
		if cp == nil {
			cp = &entity.Counterparty{
				ID:           uuid.New().String(),
				Kind:         kind,
				BusinessName: row.businessName,
				CUIT:         row.cuit,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := repos.Counterparties.Create(ctx, cp); err != nil {
				return err
			}
		}
		existing, err := repos.Invoices.GetByNumber(ctx, kind, cp.ID, row.number)
		if err != nil {
			return err
		}
		if existing != nil {
			reason = fmt.Sprintf(reasonNumberExists, row.number, counterpartyLabel(kind))
			return nil
		}
		return repos.Invoices.Create(ctx, &entity.Invoice{
			ID:             uuid.New().String(),
			Kind:           kind,
			CounterpartyID: cp.ID,
			Number:         row.number,
			Date:           row.date,
			Type:           row.invoiceType,
			Currency:       row.currency,
			Net:            row.net,
			VAT:            entity.DefaultVAT,
			Total:          row.total,
			AmountImputed:  decimal.Zero,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	})
	if errors.Is(err, domain.ErrDuplicate) {
		return fmt.Sprintf(reasonNumberExists, row.number, counterpartyLabel(kind)), nil
	}
	if err != nil {
		im.log.Error().Err(err).Int("fila", row.line).Str("numero", row.number).Msg("importación de comprobantes")
		return "", err
	}
	return reason, nil
}

func parseAFIPRow(kind entity.Kind, cols map[string]int, rec []string) (afipRow, string) {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	docCols := docColumns(kind)
	row := afipRow{}

	pos, okPos := digits(get("punto_de_venta"))
	num, okNum := digits(get("numero_desde"))
	if okPos && okNum {
		row.number = leftPad(pos, 5) + leftPad(num, 8)
	}

	t, ok := AFIPInvoiceType(get("tipo"))
	if !ok {
		return row, reasonInvalidType
	}
	row.invoiceType = t
	if !okPos || !okNum {
		return row, reasonInvalidNumber
	}
	if !strings.EqualFold(get(docCols[0]), "CUIT") {
		return row, reasonInvalidDocType
	}
	row.cuit = get(docCols[1])
	if !ValidCUIT(row.cuit) {
		return row, reasonInvalidCUIT
	}
	row.businessName = get(docCols[2])

	date, err := ParseAFIPDate(get("fecha"))
	if err != nil {
		return row, reasonInvalidDate
	}
	row.date = date

	currency, ok := AFIPCurrency(get("moneda"))
	if !ok {
		return row, reasonInvalidCurrency
	}
	row.currency = currency

	row.total, err = ParseAFIPAmount(get("imp_total"))
	if err != nil {
		return row, reasonInvalidAmount
	}
	if raw := get("imp_neto_gravado"); raw != "" {
		if row.net, err = ParseAFIPAmount(raw); err != nil {
			return row, reasonInvalidAmount
		}
	}
	return row, ""
}

func docColumns(kind entity.Kind) []string {
	if kind == entity.KindProveedor {
		return []string{"tipo_doc_emisor", "nro_doc_emisor", "denominacion_emisor"}
	}
	return []string{"tipo_doc_receptor", "nro_doc_receptor", "denominacion_receptor"}
}

func counterpartyLabel(kind entity.Kind) string {
	if kind == entity.KindProveedor {
		return "emisor"
	}
	return "receptor"
}

// readAFIPRecords decodifica el archivo (UTF-8 o ISO-8859-1) y detecta el separador.
func readAFIPRecords(r io.Reader) ([][]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer archivo: %w", err)
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(raw) {
		if raw, err = charmap.ISO8859_1.NewDecoder().Bytes(raw); err != nil {
			return nil, fmt.Errorf("decodificar archivo: %w", err)
		}
	}
	header := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		header = raw[:i]
	}
	cr := csv.NewReader(bytes.NewReader(raw))
	if bytes.Count(header, []byte(";")) > bytes.Count(header, []byte(",")) {
		cr.Comma = ';'
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer csv: %w: %w", domain.ErrInvalidInput, err)
	}
	return records, nil
}

// NormalizeHeader lleva un encabezado de AFIP a snake_case sin acentos ni puntos:
// "Nro. Doc. Receptor" queda "nro_doc_receptor".
func NormalizeHeader(h string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, h)
	if err != nil {
		s = h
	}
	s = strings.ToLower(strings.ReplaceAll(s, ".", " "))
	return strings.Join(strings.Fields(s), "_")
}

// AFIPInvoiceType toma el código inicial de etiquetas como "1 - Factura A".
func AFIPInvoiceType(label string) (string, bool) {
	code := label
	if i := strings.IndexAny(label, " -"); i >= 0 {
		code = label[:i]
	}
	n, err := strconv.Atoi(strings.TrimSpace(code))
	if err != nil {
		return "", false
	}
	t, ok := afipTypes[n]
	return t, ok
}

// AFIPCurrency traduce la moneda del archivo ($, PES, USD, DOL).
func AFIPCurrency(s string) (entity.Moneda, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "$", "PES":
		return entity.MonedaPesos, true
	case "USD", "DOL":
		return entity.MonedaDolares, true
	}
	return "", false
}

// ParseAFIPDate acepta dd/mm/aaaa y aaaa-mm-dd.
func ParseAFIPDate(s string) (time.Time, error) {
	if t, err := time.Parse("02/01/2006", s); err == nil {
		return t, nil
	}
	return time.Parse(dto.DateLayout, s)
}

// ParseAFIPAmount interpreta importes con coma decimal ("1.234,56") o punto ("1234.56").
func ParseAFIPAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Round(2), nil
}

func digits(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return s, true
}

func leftPad(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat("0", n-len(s)) + s
}

func blankRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
