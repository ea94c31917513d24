package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/obras-api/internal/domain/entity"
	"github.com/jhoicas/obras-api/internal/domain/repository"
)

var (
	_ repository.MaterialRequestActionRepository = (*ActionRepo)(nil)
	_ repository.MaterialDeliveryRepository      = (*DeliveryRepo)(nil)
	_ repository.MaterialVerificationRepository  = (*VerificationRepo)(nil)
)

// ActionRepo bitácora material_request_actions. Solo inserción.
type ActionRepo struct{ q Querier }

// NewActionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewActionRepository(q Querier) *ActionRepo { return &ActionRepo{q: q} }

func (r *ActionRepo) Append(ctx context.Context, a *entity.MaterialRequestAction) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO material_request_actions (id, request_id, action, actor_id, from_stage, to_stage, remarks, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.RequestID, a.Action, nullable(a.ActorID), a.FromStage, a.ToStage, a.Remarks, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert material request action: %w", err)
	}
	return nil
}

// ListByRequest en orden cronológico.
func (r *ActionRepo) ListByRequest(ctx context.Context, requestID string) ([]*entity.MaterialRequestAction, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, request_id, action, COALESCE(actor_id::text, ''), from_stage, to_stage, remarks, created_at
		FROM material_request_actions WHERE request_id = $1 ORDER BY created_at, id`, requestID)
	if err != nil {
		return nil, fmt.Errorf("list material request actions: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.MaterialRequestAction, error) {
		var a entity.MaterialRequestAction
		err := row.Scan(&a.ID, &a.RequestID, &a.Action, &a.ActorID, &a.FromStage, &a.ToStage, &a.Remarks, &a.CreatedAt)
		return &a, err
	})
}

// DeliveryRepo entregas físicas.
type DeliveryRepo struct{ q Querier }

// NewDeliveryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDeliveryRepository(q Querier) *DeliveryRepo { return &DeliveryRepo{q: q} }

func (r *DeliveryRepo) Create(ctx context.Context, d *entity.MaterialDelivery) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO material_deliveries (id, request_id, delivered_by, delivery_date, status, received_by, remarks, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		d.ID, d.RequestID, d.DeliveredBy, d.DeliveryDate, d.Status, nullable(d.ReceivedBy), d.Remarks, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert material delivery: %w", err)
	}
	return nil
}

func (r *DeliveryRepo) ListByRequest(ctx context.Context, requestID string) ([]*entity.MaterialDelivery, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, request_id, delivered_by, delivery_date, status, COALESCE(received_by::text, ''), remarks, created_at
		FROM material_deliveries WHERE request_id = $1 ORDER BY created_at, id`, requestID)
	if err != nil {
		return nil, fmt.Errorf("list material deliveries: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.MaterialDelivery, error) {
		var d entity.MaterialDelivery
		err := row.Scan(&d.ID, &d.RequestID, &d.DeliveredBy, &d.DeliveryDate, &d.Status, &d.ReceivedBy, &d.Remarks, &d.CreatedAt)
		return &d, err
	})
}

// VerificationRepo verificaciones por línea. Solo inserción.
type VerificationRepo struct{ q Querier }

// NewVerificationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVerificationRepository(q Querier) *VerificationRepo { return &VerificationRepo{q: q} }

func (r *VerificationRepo) Create(ctx context.Context, v *entity.MaterialVerification) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO material_verifications (id, request_id, request_item_id, accepted_quantity, rejected_quantity, verified_by, remarks, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		v.ID, v.RequestID, v.RequestItemID, v.AcceptedQuantity, v.RejectedQuantity,
		nullable(v.VerifiedBy), v.Remarks, v.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert material verification: %w", err)
	}
	return nil
}

func (r *VerificationRepo) ListByRequest(ctx context.Context, requestID string) ([]*entity.MaterialVerification, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, request_id, request_item_id, accepted_quantity, rejected_quantity,
			COALESCE(verified_by::text, ''), remarks, created_at
		FROM material_verifications WHERE request_id = $1 ORDER BY created_at, id`, requestID)
	if err != nil {
		return nil, fmt.Errorf("list material verifications: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.MaterialVerification, error) {
		var v entity.MaterialVerification
		err := row.Scan(&v.ID, &v.RequestID, &v.RequestItemID, &v.AcceptedQuantity, &v.RejectedQuantity,
			&v.VerifiedBy, &v.Remarks, &v.CreatedAt)
		return &v, err
	})
}
