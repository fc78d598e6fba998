package ports

import (
	"context"
	"fmt"
)

// Locker define el puerto de bloqueos distribuidos entre instancias.
// Acquire devuelve la función que libera el bloqueo; si no se obtiene retorna un error
// que envuelve domain.ErrConflict.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(context.Context) error, err error)
}

// NopLocker no bloquea nada; se usa cuando no hay Redis configurado.
type NopLocker struct{}

// Acquire implementa Locker.
func (NopLocker) Acquire(context.Context, string) (func(context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}

// CreditNoteLockKey clave de bloqueo de una nota de crédito mientras se imputa.
func CreditNoteLockKey(creditNoteID string) string {
	return fmt.Sprintf("imputacion:nc:%s:lock", creditNoteID)
}

// PaymentLockKey clave de bloqueo de un pago o cobranza.
func PaymentLockKey(paymentID string) string {
	return fmt.Sprintf("pago:%s:lock", paymentID)
}

// WithLock ejecuta fn con el bloqueo key tomado. Un Locker nil equivale a NopLocker.
func WithLock(ctx context.Context, l Locker, key string, fn func() error) error {
	if l == nil {
		return fn()
	}
	release, err := l.Acquire(ctx, key)
	if err != nil {
		return err
	}
	defer func() { _ = release(context.WithoutCancel(ctx)) }()
	return fn()
}
