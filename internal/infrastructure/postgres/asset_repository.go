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

var _ repository.AssetRepository = (*AssetRepo)(nil)

const assetColumns = `id, name, COALESCE(code, ''), category, status, COALESCE(project_id::text, ''),
	value, purchase_date, notes, created_at, updated_at`

// AssetRepo equipos y herramientas.
type AssetRepo struct {
	q Querier
}

// NewAssetRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAssetRepository(q Querier) *AssetRepo {
	return &AssetRepo{q: q}
}

func scanAsset(row pgx.Row) (*entity.Asset, error) {
	var a entity.Asset
	err := row.Scan(&a.ID, &a.Name, &a.Code, &a.Category, &a.Status, &a.ProjectID,
		&a.Value, &a.PurchaseDate, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create persiste un activo; code vacío se guarda como NULL para no chocar con el UNIQUE.
func (r *AssetRepo) Create(ctx context.Context, a *entity.Asset) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO assets (id, name, code, category, status, project_id, value, purchase_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		a.ID, a.Name, nullable(a.Code), a.Category, a.Status, nullable(a.ProjectID),
		a.Value, a.PurchaseDate, a.Notes, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert asset: %w", err)
	}
	return nil
}

func (r *AssetRepo) GetByID(ctx context.Context, id string) (*entity.Asset, error) {
	a, err := scanAsset(r.q.QueryRow(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get asset: %w", err)
	}
	return a, nil
}

// List activos por nombre. Con ProjectIDs incluye también los no asignados.
func (r *AssetRepo) List(ctx context.Context, f repository.AssetFilter) ([]*entity.Asset, error) {
	var w where
	if f.ProjectIDs != nil {
		w.add("(project_id IS NULL OR project_id::text = ANY(?))", f.ProjectIDs)
	}
	if f.ProjectID != "" {
		w.add("project_id = ?", f.ProjectID)
	}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	query := `SELECT ` + assetColumns + ` FROM assets ` + w.String() + ` ORDER BY created_at, id` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()
	var out []*entity.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AssetRepo) Update(ctx context.Context, a *entity.Asset) error {
	_, err := r.q.Exec(ctx, `
		UPDATE assets SET name = $2, category = $3, status = $4, project_id = $5, value = $6,
			notes = $7, updated_at = $8
		WHERE id = $1`,
		a.ID, a.Name, a.Category, a.Status, nullable(a.ProjectID), a.Value, a.Notes, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update asset: %w", err)
	}
	return nil
}
