package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWhere_NumeraPlaceholdersEnOrden(t *testing.T) {
	var w where
	w.add("project_id::text = ANY(?)", []string{"a", "b"})
	w.add("status = ?", "approved")
	w.conds = append(w.conds, "project_id IS NULL")

	assert.Equal(t, "WHERE project_id::text = ANY($1) AND status = $2 AND project_id IS NULL", w.String())
	assert.Equal(t, " LIMIT $3 OFFSET $4", w.page(20, 40))
	assert.Len(t, w.args, 4)
}

func TestWhere_SinCondiciones(t *testing.T) {
	var w where
	assert.Empty(t, w.String())
	assert.Empty(t, w.page(0, 10), "limit 0 no pagina")
	assert.Empty(t, w.args)
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	if p := nullable("x"); assert.NotNil(t, p) {
		assert.Equal(t, "x", *p)
	}
}

func TestPgCode_ErroresEnvueltos(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: codeUniqueViolation})
	assert.True(t, isUniqueViolation(err))
	assert.False(t, isCheckViolation(err))
	assert.True(t, isCheckViolation(&pgconn.PgError{Code: codeCheckViolation}))
	assert.True(t, isForeignKeyViolation(&pgconn.PgError{Code: codeForeignKeyViolation}))
	assert.False(t, isUniqueViolation(errors.New("23505 en el texto no cuenta")))
}
