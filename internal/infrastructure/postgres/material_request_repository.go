package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/obras-api/internal/domain"
	"github.com/jhoicas/obras-api/internal/domain/entity"
	"github.com/jhoicas/obras-api/internal/domain/repository"
)

var _ repository.MaterialRequestRepository = (*MaterialRequestRepo)(nil)

const (
	requestColumns = `id, project_id, requested_by, request_type, COALESCE(supplier_id::text, ''),
		current_stage, status, notes, COALESCE(approved_by::text, ''), approved_at, rejection_reason,
		created_at, updated_at`
	requestItemColumns = `id, request_id, item_id, requested_quantity, received_quantity,
		accepted_quantity, rejected_quantity`
)

// MaterialRequestRepo cabeceras (material_requests) y líneas (material_request_items).
type MaterialRequestRepo struct {
	q Querier
}

// NewMaterialRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialRequestRepository(q Querier) *MaterialRequestRepo {
	return &MaterialRequestRepo{q: q}
}

func scanRequest(row pgx.Row) (*entity.MaterialRequest, error) {
	var m entity.MaterialRequest
	err := row.Scan(&m.ID, &m.ProjectID, &m.RequestedBy, &m.RequestType, &m.SupplierID,
		&m.CurrentStage, &m.Status, &m.Notes, &m.ApprovedBy, &m.ApprovedAt, &m.RejectionReason,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanRequestItem(row pgx.Row) (entity.MaterialRequestItem, error) {
	var it entity.MaterialRequestItem
	err := row.Scan(&it.ID, &it.RequestID, &it.MaterialID, &it.RequestedQuantity,
		&it.ReceivedQuantity, &it.AcceptedQuantity, &it.RejectedQuantity)
	return it, err
}

// Create persiste la cabecera. Las líneas se insertan con CreateItem.
func (r *MaterialRequestRepo) Create(ctx context.Context, m *entity.MaterialRequest) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO material_requests (id, project_id, requested_by, request_type, supplier_id, current_stage,
			status, notes, approved_by, approved_at, rejection_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		m.ID, m.ProjectID, m.RequestedBy, m.RequestType, nullable(m.SupplierID), m.CurrentStage,
		m.Status, m.Notes, nullable(m.ApprovedBy), m.ApprovedAt, m.RejectionReason, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: supplier_id y request_type no concuerdan", domain.ErrInvalidInput)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("solicitud: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("insert material request: %w", err)
	}
	return nil
}

// CreateItem persiste una línea. Material repetido en la misma solicitud devuelve ErrDuplicate.
func (r *MaterialRequestRepo) CreateItem(ctx context.Context, it *entity.MaterialRequestItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO material_request_items (`+requestItemColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		it.ID, it.RequestID, it.MaterialID, it.RequestedQuantity,
		it.ReceivedQuantity, it.AcceptedQuantity, it.RejectedQuantity,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return fmt.Errorf("material %s repetido: %w", it.MaterialID, domain.ErrDuplicate)
		case isCheckViolation(err):
			return fmt.Errorf("%w: cantidades de la línea", domain.ErrInvalidInput)
		case isForeignKeyViolation(err):
			return fmt.Errorf("material %s: %w", it.MaterialID, domain.ErrNotFound)
		}
		return fmt.Errorf("insert material request item: %w", err)
	}
	return nil
}

func (r *MaterialRequestRepo) get(ctx context.Context, query, id string) (*entity.MaterialRequest, error) {
	m, err := scanRequest(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material request: %w", err)
	}
	return m, nil
}

func (r *MaterialRequestRepo) GetByID(ctx context.Context, id string) (*entity.MaterialRequest, error) {
	return r.get(ctx, `SELECT `+requestColumns+` FROM material_requests WHERE id = $1`, id)
}

func (r *MaterialRequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.MaterialRequest, error) {
	return r.get(ctx, `SELECT `+requestColumns+` FROM material_requests WHERE id = $1 FOR UPDATE`, id)
}

// List solicitudes más recientes primero y el total sin paginar.
func (r *MaterialRequestRepo) List(ctx context.Context, f repository.MaterialRequestFilter) ([]*entity.MaterialRequest, int, error) {
	var w where
	if f.ProjectIDs != nil {
		w.add("project_id::text = ANY(?)", f.ProjectIDs)
	}
	if f.ProjectID != "" {
		w.add("project_id = ?", f.ProjectID)
	}
	if f.Stage != "" {
		w.add("current_stage = ?", f.Stage)
	}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.RequestType != "" {
		w.add("request_type = ?", f.RequestType)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM material_requests `+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count material requests: %w", err)
	}

	query := `SELECT ` + requestColumns + ` FROM material_requests ` + w.String() +
		` ORDER BY created_at DESC, id` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list material requests: %w", err)
	}
	defer rows.Close()
	var out []*entity.MaterialRequest
	for rows.Next() {
		m, err := scanRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan material request: %w", err)
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}

// ListItems líneas en orden de inserción.
func (r *MaterialRequestRepo) ListItems(ctx context.Context, requestID string) ([]entity.MaterialRequestItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+requestItemColumns+` FROM material_request_items
		WHERE request_id = $1 ORDER BY seq`, requestID)
	if err != nil {
		return nil, fmt.Errorf("list material request items: %w", err)
	}
	defer rows.Close()
	var out []entity.MaterialRequestItem
	for rows.Next() {
		it, err := scanRequestItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material request item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *MaterialRequestRepo) GetItemForUpdate(ctx context.Context, itemID string) (*entity.MaterialRequestItem, error) {
	it, err := scanRequestItem(r.q.QueryRow(ctx, `
		SELECT `+requestItemColumns+` FROM material_request_items WHERE id = $1 FOR UPDATE`, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material request item: %w", err)
	}
	return &it, nil
}

// UpdateItemQuantities guarda los acumulados. Los CHECK de la tabla rechazan
// received != accepted + rejected y lo verificado por encima de lo solicitado.
func (r *MaterialRequestRepo) UpdateItemQuantities(ctx context.Context, it *entity.MaterialRequestItem) error {
	_, err := r.q.Exec(ctx, `
		UPDATE material_request_items
		SET received_quantity = $2, accepted_quantity = $3, rejected_quantity = $4
		WHERE id = $1`,
		it.ID, it.ReceivedQuantity, it.AcceptedQuantity, it.RejectedQuantity,
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: cantidades verificadas fuera de rango", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update material request item: %w", err)
	}
	return nil
}

// Transition UPDATE condicionado a current_stage = ANY(From).
func (r *MaterialRequestRepo) Transition(ctx context.Context, id string, ch repository.StageChange) (bool, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE material_requests SET
			current_stage    = $3,
			status           = COALESCE(NULLIF($4, ''), status),
			approved_by      = COALESCE($5::uuid, approved_by),
			approved_at      = COALESCE($6, approved_at),
			rejection_reason = COALESCE($7, rejection_reason),
			updated_at       = now()
		WHERE id = $1 AND current_stage = ANY($2)`,
		id, ch.From, ch.To, ch.Status, ch.ApprovedBy, ch.ApprovedAt, ch.RejectionReason,
	)
	if err != nil {
		return false, fmt.Errorf("transition material request: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}
