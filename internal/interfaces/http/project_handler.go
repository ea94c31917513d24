package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/obras-api/internal/application/dto"
	"github.com/jhoicas/obras-api/internal/application/usecase"
	"github.com/jhoicas/obras-api/internal/domain/authz"
)

// ProjectHandler proyectos y asignación de personal.
type ProjectHandler struct {
	uc *usecase.ProjectUseCase
}

// NewProjectHandler construye el handler.
func NewProjectHandler(uc *usecase.ProjectUseCase) *ProjectHandler {
	return &ProjectHandler{uc: uc}
}

type projectListQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=planning active on_hold completed"`
	dto.PageRequest
}

// Create godoc
// @Summary      Crear proyecto
// @Tags         projects
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProjectRequest  true  "Proyecto"
// @Success      201   {object}  dto.ProjectResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/projects [post]
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.CreateProjectRequest
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
// @Summary      Listar proyectos visibles
// @Description  El personal solo ve los proyectos a los que está asignado.
// @Tags         projects
// @Security     Cookie
// @Produce      json
// @Param        status  query  string  false  "planning, active, on_hold, completed"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ProjectListResponse
// @Router       /api/projects [get]
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	var q projectListQuery
	if err := parseQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), actor, q.Status, q.PageRequest)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener proyecto con su personal
// @Tags         projects
// @Security     Cookie
// @Produce      json
// @Param        id   path  string  true  "ID del proyecto"
// @Success      200  {object}  dto.ProjectResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{id} [get]
func (h *ProjectHandler) GetByID(c *fiber.Ctx) error {
	return withID(c, func(ctx context.Context, actor authz.Actor, id string) (any, error) {
		return h.uc.GetByID(ctx, actor, id)
	})
}

// Update godoc
// @Summary      Actualizar proyecto
// @Tags         projects
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del proyecto"
// @Param        body  body  dto.UpdateProjectRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ProjectResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/projects/{id} [put]
func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateProjectRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), actor, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AssignMember godoc
// @Summary      Asignar personal al proyecto
// @Tags         projects
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del proyecto"
// @Param        body  body  dto.AssignMemberRequest  true  "Usuario"
// @Success      200   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/members [post]
func (h *ProjectHandler) AssignMember(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.AssignMemberRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	if err := h.uc.AssignMember(c.UserContext(), actor, id, in.UserID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "personal asignado"})
}

// RemoveMember godoc
// @Summary      Retirar personal del proyecto
// @Tags         projects
// @Security     Cookie
// @Param        id       path  string  true  "ID del proyecto"
// @Param        userId   path  string  true  "ID del usuario"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/members/{userId} [delete]
func (h *ProjectHandler) RemoveMember(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	userID, err := pathID(c, "userId")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.RemoveMember(c.UserContext(), actor, id, userID); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
