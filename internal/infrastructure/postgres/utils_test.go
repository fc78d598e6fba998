package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/sistemita-api/internal/domain"
)

func TestWrap(t *testing.T) {
	assert.NoError(t, wrap("op", nil))

	err := wrap("insert invoice", &pgconn.PgError{Code: "23505"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Contains(t, err.Error(), "insert invoice")

	err = wrap("insert payment line", fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23503"}))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	cause := errors.New("conexión cerrada")
	err = wrap("list", cause)
	assert.ErrorIs(t, err, cause)
	assert.False(t, errors.Is(err, domain.ErrDuplicate))
}

func TestHelpers(t *testing.T) {
	assert.Nil(t, nullable(""))
	assert.Equal(t, "m1", *nullable("m1"))
	assert.Equal(t, "", deref(nil))
	assert.Nil(t, limitArg(0))
	assert.Equal(t, 20, limitArg(20))
}
