package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/obras-api/internal/application/dto"
	"github.com/jhoicas/obras-api/internal/application/usecase"
	"github.com/jhoicas/obras-api/internal/domain/authz"
)

// MaterialHandler catálogo de materiales (items).
type MaterialHandler struct {
	uc *usecase.MaterialUseCase
}

// NewMaterialHandler construye el handler.
func NewMaterialHandler(uc *usecase.MaterialUseCase) *MaterialHandler {
	return &MaterialHandler{uc: uc}
}

type materialQuery struct {
	Status     string `query:"status" validate:"omitempty,oneof=pending approved"`
	CategoryID string `query:"category_id" validate:"omitempty,uuid"`
	SupplierID string `query:"supplier_id" validate:"omitempty,uuid"`
	dto.PageRequest
}

// Create godoc
// @Summary      Crear material
// @Description  Queda pendiente salvo que lo cree un administrador.
// @Tags         items
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMaterialRequest  true  "Datos del material"
// @Success      201   {object}  dto.MaterialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *MaterialHandler) Create(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.CreateMaterialRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), actor, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar materiales
// @Tags         items
// @Security     Cookie
// @Produce      json
// @Param        status       query  string  false  "pending, approved"
// @Param        category_id  query  string  false  "Categoría"
// @Param        supplier_id  query  string  false  "Proveedor"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MaterialListResponse
// @Router       /api/items [get]
func (h *MaterialHandler) List(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	var q materialQuery
	if err := parseQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), actor, usecase.MaterialQuery{
		Status:      q.Status,
		CategoryID:  q.CategoryID,
		SupplierID:  q.SupplierID,
		PageRequest: q.PageRequest,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener material
// @Tags         items
// @Security     Cookie
// @Produce      json
// @Param        id   path  string  true  "ID del material"
// @Success      200  {object}  dto.MaterialResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *MaterialHandler) GetByID(c *fiber.Ctx) error {
	return withID(c, func(ctx context.Context, actor authz.Actor, id string) (any, error) {
		return h.uc.GetByID(ctx, actor, id)
	})
}

// Update godoc
// @Summary      Actualizar material
// @Tags         items
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del material"
// @Param        body  body  dto.UpdateMaterialRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.MaterialResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *MaterialHandler) Update(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateMaterialRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), actor, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar material pendiente
// @Tags         items
// @Security     Cookie
// @Produce      json
// @Param        id   path  string  true  "ID del material"
// @Success      200  {object}  dto.MaterialResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/approve [put]
func (h *MaterialHandler) Approve(c *fiber.Ctx) error {
	return withID(c, func(ctx context.Context, actor authz.Actor, id string) (any, error) {
		return h.uc.Approve(ctx, actor, id)
	})
}

// Delete godoc
// @Summary      Eliminar material
// @Tags         items
// @Security     Cookie
// @Param        id   path  string  true  "ID del material"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *MaterialHandler) Delete(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.UserContext(), actor, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
