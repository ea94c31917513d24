package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/obras-api/internal/domain/entity"
	"github.com/jhoicas/obras-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

const movementColumns = `id, item_id, COALESCE(project_id::text, ''), direction, quantity, source,
	COALESCE(reference_id::text, ''), notes, COALESCE(created_by::text, ''), created_at`

// signedSum saldo de un conjunto de movimientos: entradas menos salidas.
const signedSum = `COALESCE(SUM(CASE WHEN direction = 'in' THEN quantity ELSE -quantity END), 0)`

// InventoryMovementRepo libro de inventario sobre PostgreSQL (usable con pool o tx).
// project_id NULL representa el inventario central.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Append persiste un asiento.
func (r *InventoryMovementRepo) Append(ctx context.Context, m *entity.InventoryMovement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_movements (id, item_id, project_id, direction, quantity, source, reference_id, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		m.ID, m.MaterialID, nullable(m.ProjectID), m.Direction, m.Quantity, m.Source,
		nullable(m.ReferenceID), m.Notes, nullable(m.CreatedBy), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// Balance saldo de un material en un proyecto o en el central.
func (r *InventoryMovementRepo) Balance(ctx context.Context, materialID, projectID string) (decimal.Decimal, error) {
	var bal decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT `+signedSum+` FROM inventory_movements
		WHERE item_id = $1 AND project_id IS NOT DISTINCT FROM $2::uuid`,
		materialID, nullable(projectID),
	).Scan(&bal)
	if err != nil {
		return decimal.Zero, fmt.Errorf("inventory balance: %w", err)
	}
	return bal, nil
}

// Balances saldo por material en un proyecto o en el central.
func (r *InventoryMovementRepo) Balances(ctx context.Context, projectID string) ([]entity.StockBalance, error) {
	rows, err := r.q.Query(ctx, `
		SELECT item_id::text, `+signedSum+` FROM inventory_movements
		WHERE project_id IS NOT DISTINCT FROM $1::uuid
		GROUP BY item_id ORDER BY item_id`, nullable(projectID))
	if err != nil {
		return nil, fmt.Errorf("inventory balances: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.StockBalance, error) {
		b := entity.StockBalance{ProjectID: projectID}
		err := row.Scan(&b.MaterialID, &b.Quantity)
		return b, err
	})
}

// List asientos más recientes primero.
func (r *InventoryMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	var w where
	if f.MaterialID != "" {
		w.add("item_id = ?", f.MaterialID)
	}
	switch {
	case f.ProjectID != "":
		w.add("project_id = ?", f.ProjectID)
	case f.Central:
		w.conds = append(w.conds, "project_id IS NULL")
	}
	if f.ReferenceID != "" {
		w.add("reference_id = ?", f.ReferenceID)
	}
	query := `SELECT ` + movementColumns + ` FROM inventory_movements ` + w.String() +
		` ORDER BY created_at DESC, id` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory movements: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.InventoryMovement, error) {
		var m entity.InventoryMovement
		err := row.Scan(&m.ID, &m.MaterialID, &m.ProjectID, &m.Direction, &m.Quantity, &m.Source,
			&m.ReferenceID, &m.Notes, &m.CreatedBy, &m.CreatedAt)
		return &m, err
	})
}
