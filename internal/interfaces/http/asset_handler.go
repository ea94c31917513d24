package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/obras-api/internal/application/dto"
	"github.com/jhoicas/obras-api/internal/application/usecase"
	"github.com/jhoicas/obras-api/internal/domain/authz"
)

// AssetHandler equipos y herramientas.
type AssetHandler struct {
	uc *usecase.AssetUseCase
}

// NewAssetHandler construye el handler.
func NewAssetHandler(uc *usecase.AssetUseCase) *AssetHandler {
	return &AssetHandler{uc: uc}
}

type assetQuery struct {
	ProjectID string `query:"project_id" validate:"omitempty,uuid"`
	Status    string `query:"status" validate:"omitempty,oneof=available in_use maintenance retired"`
	dto.PageRequest
}

// Create godoc
// @Summary      Registrar activo
// @Tags         assets
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAssetRequest  true  "Activo"
// @Success      201   {object}  dto.AssetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/assets [post]
func (h *AssetHandler) Create(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.CreateAssetRequest
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
// @Summary      Listar activos
// @Tags         assets
// @Security     Cookie
// @Produce      json
// @Param        project_id  query  string  false  "Proyecto"
// @Param        status      query  string  false  "available, in_use, maintenance, retired"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.AssetResponse
// @Router       /api/assets [get]
func (h *AssetHandler) List(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	var q assetQuery
	if err := parseQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), actor, usecase.AssetQuery{
		ProjectID:   q.ProjectID,
		Status:      q.Status,
		PageRequest: q.PageRequest,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener activo
// @Tags         assets
// @Security     Cookie
// @Produce      json
// @Param        id   path  string  true  "ID del activo"
// @Success      200  {object}  dto.AssetResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/assets/{id} [get]
func (h *AssetHandler) GetByID(c *fiber.Ctx) error {
	return withID(c, func(ctx context.Context, actor authz.Actor, id string) (any, error) {
		return h.uc.GetByID(ctx, actor, id)
	})
}

// Update godoc
// @Summary      Actualizar activo
// @Description  unassign=true libera el activo de su proyecto.
// @Tags         assets
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del activo"
// @Param        body  body  dto.UpdateAssetRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.AssetResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/assets/{id} [put]
func (h *AssetHandler) Update(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateAssetRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), actor, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
