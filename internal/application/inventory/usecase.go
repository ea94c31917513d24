package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/obras-api/internal/application/audit"
	"github.com/jhoicas/obras-api/internal/application/dto"
	"github.com/jhoicas/obras-api/internal/application/ports"
	"github.com/jhoicas/obras-api/internal/domain"
	"github.com/jhoicas/obras-api/internal/domain/authz"
	"github.com/jhoicas/obras-api/internal/domain/entity"
	"github.com/jhoicas/obras-api/internal/domain/repository"
	"github.com/jhoicas/obras-api/pkg/metrics"
)

// UseCase consultas del libro de inventario y movimientos manuales (in, out, transfer)
// con bloqueo de fila del material (SELECT FOR UPDATE) y Commit/Rollback.
type UseCase struct {
	txRunner ports.TxRunner
	repos    ports.Repos
	metrics  *metrics.Lifecycle
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner ports.TxRunner, repos ports.Repos, m *metrics.Lifecycle) *UseCase {
	return &UseCase{txRunner: txRunner, repos: repos, metrics: m}
}

// RegisterMovement registra un movimiento manual.
//   - in: entrada al proyecto indicado (o al central).
//   - out: salida; falla con ErrInsufficientStock si el saldo no alcanza.
//   - transfer: salida del central y entrada al proyecto, en la misma transacción.
func (uc *UseCase) RegisterMovement(ctx context.Context, actor authz.Actor, in dto.RegisterMovementRequest) ([]dto.MovementResponse, error) {
	if err := actor.Authorize(authz.InventoryAdjust); err != nil {
		return nil, err
	}
	if !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	if !entity.FitsQuantityScale(in.Quantity) {
		return nil, fmt.Errorf("%w: la cantidad admite hasta %d decimales", domain.ErrInvalidInput, entity.QuantityScale)
	}
	if in.Type == dto.ManualMovementTransfer && in.ProjectID == "" {
		return nil, fmt.Errorf("%w: transfer requiere project_id de destino", domain.ErrInvalidInput)
	}

	var posted []*entity.InventoryMovement
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		// Bloquea la fila del material para serializar salidas concurrentes
		material, err := r.Materials.GetForUpdate(ctx, in.MaterialID)
		if err != nil {
			return err
		}
		if material == nil {
			return fmt.Errorf("material: %w", domain.ErrNotFound)
		}
		if in.ProjectID != "" {
			p, err := r.Projects.GetByID(ctx, in.ProjectID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("proyecto: %w", domain.ErrNotFound)
			}
		}

		switch in.Type {
		case dto.ManualMovementIn:
			m, err := Post(ctx, r.Movements, Posting{
				MaterialID: in.MaterialID, ProjectID: in.ProjectID, Direction: entity.DirectionIn,
				Quantity: in.Quantity, Source: entity.SourceManual, Notes: in.Notes, UserID: actor.UserID,
			})
			if err != nil {
				return err
			}
			posted = append(posted, m)
		case dto.ManualMovementOut:
			if err := ensureBalance(ctx, r.Movements, in.MaterialID, in.ProjectID, in.Quantity); err != nil {
				return err
			}
			m, err := Post(ctx, r.Movements, Posting{
				MaterialID: in.MaterialID, ProjectID: in.ProjectID, Direction: entity.DirectionOut,
				Quantity: in.Quantity, Source: entity.SourceManual, Notes: in.Notes, UserID: actor.UserID,
			})
			if err != nil {
				return err
			}
			posted = append(posted, m)
		case dto.ManualMovementTransfer:
			if err := ensureBalance(ctx, r.Movements, in.MaterialID, "", in.Quantity); err != nil {
				return err
			}
			out, err := Post(ctx, r.Movements, Posting{
				MaterialID: in.MaterialID, Direction: entity.DirectionOut,
				Quantity: in.Quantity, Source: entity.SourceTransfer, Notes: in.Notes, UserID: actor.UserID,
			})
			if err != nil {
				return err
			}
			inMov, err := Post(ctx, r.Movements, Posting{
				MaterialID: in.MaterialID, ProjectID: in.ProjectID, Direction: entity.DirectionIn,
				Quantity: in.Quantity, Source: entity.SourceTransfer, Notes: in.Notes, UserID: actor.UserID,
			})
			if err != nil {
				return err
			}
			posted = append(posted, out, inMov)
		default:
			return fmt.Errorf("%w: tipo %q inválido", domain.ErrInvalidInput, in.Type)
		}

		return audit.Write(ctx, r.Logs, audit.LogOptions{
			UserID:      actor.UserID,
			ProjectID:   in.ProjectID,
			EntityType:  audit.EntityInventory,
			EntityID:    in.MaterialID,
			Action:      in.Type,
			Description: fmt.Sprintf("movimiento manual %s de %s (%s)", in.Type, in.Quantity.String(), material.Name),
		})
	})
	if err != nil {
		return nil, err
	}

	out := make([]dto.MovementResponse, 0, len(posted))
	for _, m := range posted {
		uc.metrics.ObserveMovement(m.Direction, m.Source)
		out = append(out, ToMovementResponse(m))
	}
	return out, nil
}

// ensureBalance verifica Saldo >= cantidad para (material, proyecto). Debe
// llamarse con la fila del material bloqueada.
func ensureBalance(ctx context.Context, movements repository.InventoryMovementRepository, materialID, projectID string, qty decimal.Decimal) error {
	bal, err := movements.Balance(ctx, materialID, projectID)
	if err != nil {
		return err
	}
	if bal.LessThan(qty) {
		return fmt.Errorf("%w: saldo %s, solicitado %s", domain.ErrInsufficientStock, bal.String(), qty.String())
	}
	return nil
}

// Balance saldo de un material en un proyecto; projectID vacío = central.
func (uc *UseCase) Balance(ctx context.Context, actor authz.Actor, materialID, projectID string) (*dto.BalanceResponse, error) {
	if err := actor.Authorize(authz.InventoryRead); err != nil {
		return nil, err
	}
	if materialID == "" {
		return nil, fmt.Errorf("%w: material_id requerido", domain.ErrInvalidInput)
	}
	if projectID != "" && !actor.CanAccessProject(projectID) {
		return nil, domain.ErrForbidden
	}
	bal, err := uc.repos.Movements.Balance(ctx, materialID, projectID)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceResponse{MaterialID: materialID, ProjectID: projectID, Quantity: bal}, nil
}

// Balances saldos por material de un proyecto (o del central).
func (uc *UseCase) Balances(ctx context.Context, actor authz.Actor, projectID string) ([]dto.BalanceResponse, error) {
	if err := actor.Authorize(authz.InventoryRead); err != nil {
		return nil, err
	}
	if projectID != "" && !actor.CanAccessProject(projectID) {
		return nil, domain.ErrForbidden
	}
	list, err := uc.repos.Movements.Balances(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BalanceResponse, 0, len(list))
	for _, b := range list {
		out = append(out, dto.BalanceResponse{MaterialID: b.MaterialID, ProjectID: b.ProjectID, Quantity: b.Quantity})
	}
	return out, nil
}

// MovementQuery filtros de GET /api/inventory/movements.
type MovementQuery struct {
	MaterialID string
	ProjectID  string
	Central    bool
	dto.PageRequest
}

// ListMovements lista asientos del libro. Sin proyecto solo los administradores ven todo el libro.
func (uc *UseCase) ListMovements(ctx context.Context, actor authz.Actor, q MovementQuery) (*dto.MovementListResponse, error) {
	if err := actor.Authorize(authz.InventoryRead); err != nil {
		return nil, err
	}
	if q.ProjectID != "" && !actor.CanAccessProject(q.ProjectID) {
		return nil, domain.ErrForbidden
	}
	if q.ProjectID == "" && !q.Central && !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: project_id requerido", domain.ErrInvalidInput)
	}
	q.DefaultPage()
	list, err := uc.repos.Movements.List(ctx, repository.MovementFilter{
		MaterialID: q.MaterialID,
		ProjectID:  q.ProjectID,
		Central:    q.Central,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.MovementListResponse{
		Items: make([]dto.MovementResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}
	for _, m := range list {
		out.Items = append(out.Items, ToMovementResponse(m))
	}
	return out, nil
}

// ToMovementResponse convierte un asiento a su DTO.
func ToMovementResponse(m *entity.InventoryMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          m.ID,
		MaterialID:  m.MaterialID,
		ProjectID:   m.ProjectID,
		Direction:   m.Direction,
		Quantity:    m.Quantity,
		Source:      m.Source,
		ReferenceID: m.ReferenceID,
		Notes:       m.Notes,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}
