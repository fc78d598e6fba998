package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sistemita-api/internal/domain"
)

// NewValidator arma el validador de requests: los errores usan el nombre JSON del campo
// y decimal.Decimal se compara como número (gte, lte, etc.).
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// validateStruct corre el validador y traduce sus errores a domain.ValidationError.
func validateStruct(v *validator.Validate, in interface{}) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.WrapValidation(err)
	}
	ve := &domain.ValidationError{}
	for _, fe := range fieldErrs {
		ve.Add(fieldPath(fe), messageFor(fe))
	}
	return ve
}

// fieldPath quita el nombre del struct raíz y los embebidos sin tag json:
// "CreateImputationRequest.Summary.monto_facturas" queda "monto_facturas".
func fieldPath(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	out := parts[:0]
	for _, p := range parts {
		if p == "Summary" || p == "Counterparty" || p == "PaymentLines" {
			continue
		}
		out = append(out, p)
	}
	return strings.Join(out, ".")
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_with":
		if fe.Field() == "metodo" {
			return domain.MsgMethodRequired
		}
		return domain.MsgRequired
	case "gte":
		return domain.MsgNegativeAmount
	case "datetime":
		return domain.MsgInvalidDate
	case "oneof":
		switch fe.Field() {
		case "moneda":
			return domain.MsgInvalidCurrency
		case "tipo":
			return domain.MsgInvalidInvoiceType
		case "action":
			return domain.MsgInvalidAction
		}
	case "min":
		if fe.Kind() == reflect.Slice {
			return "Debe informar al menos un elemento."
		}
	}
	return "Valor inválido."
}
