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

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

const materialColumns = `id, name, name_key, description, COALESCE(category_id::text, ''),
	COALESCE(supplier_id::text, ''), COALESCE(unit_id::text, ''), price, image_url, status,
	COALESCE(created_by::text, ''), COALESCE(approved_by::text, ''), created_at, updated_at`

// MaterialRepo catálogo de materiales (tabla items).
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

func scanMaterial(row pgx.Row) (*entity.Material, error) {
	var m entity.Material
	err := row.Scan(&m.ID, &m.Name, &m.NameKey, &m.Description, &m.CategoryID,
		&m.SupplierID, &m.UnitID, &m.Price, &m.ImageURL, &m.Status,
		&m.CreatedBy, &m.ApprovedBy, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create persiste un material. name_key repetido devuelve ErrDuplicate.
func (r *MaterialRepo) Create(ctx context.Context, m *entity.Material) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO items (id, name, name_key, description, category_id, supplier_id, unit_id, price, image_url, status, created_by, approved_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		m.ID, m.Name, m.NameKey, m.Description, nullable(m.CategoryID), nullable(m.SupplierID),
		nullable(m.UnitID), m.Price, m.ImageURL, m.Status, nullable(m.CreatedBy), nullable(m.ApprovedBy),
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (r *MaterialRepo) get(ctx context.Context, query, arg string) (*entity.Material, error) {
	m, err := scanMaterial(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return m, nil
}

func (r *MaterialRepo) GetByID(ctx context.Context, id string) (*entity.Material, error) {
	return r.get(ctx, `SELECT `+materialColumns+` FROM items WHERE id = $1`, id)
}

func (r *MaterialRepo) GetForUpdate(ctx context.Context, id string) (*entity.Material, error) {
	return r.get(ctx, `SELECT `+materialColumns+` FROM items WHERE id = $1 FOR UPDATE`, id)
}

func (r *MaterialRepo) GetByNameKey(ctx context.Context, nameKey string) (*entity.Material, error) {
	return r.get(ctx, `SELECT `+materialColumns+` FROM items WHERE name_key = $1`, nameKey)
}

// List catálogo ordenado por nombre.
func (r *MaterialRepo) List(ctx context.Context, f repository.MaterialFilter) ([]*entity.Material, error) {
	var w where
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.CategoryID != "" {
		w.add("category_id = ?", f.CategoryID)
	}
	if f.SupplierID != "" {
		w.add("supplier_id = ?", f.SupplierID)
	}
	query := `SELECT ` + materialColumns + ` FROM items ` + w.String() + ` ORDER BY name, id` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var out []*entity.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MaterialRepo) Update(ctx context.Context, m *entity.Material) error {
	_, err := r.q.Exec(ctx, `
		UPDATE items SET name = $2, name_key = $3, description = $4, category_id = $5, supplier_id = $6,
			unit_id = $7, price = $8, image_url = $9, status = $10, approved_by = $11, updated_at = $12
		WHERE id = $1`,
		m.ID, m.Name, m.NameKey, m.Description, nullable(m.CategoryID), nullable(m.SupplierID),
		nullable(m.UnitID), m.Price, m.ImageURL, m.Status, nullable(m.ApprovedBy), m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// Delete falla con ErrConflict si hay solicitudes o movimientos que lo referencian.
func (r *MaterialRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}
