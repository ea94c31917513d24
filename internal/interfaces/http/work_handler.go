package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/obras-api/internal/application/dto"
	"github.com/jhoicas/obras-api/internal/application/usecase"
)

// WorkHandler hitos y tareas de un proyecto.
type WorkHandler struct {
	uc *usecase.WorkUseCase
}

// NewWorkHandler construye el handler.
func NewWorkHandler(uc *usecase.WorkUseCase) *WorkHandler {
	return &WorkHandler{uc: uc}
}

type taskListQuery struct {
	MilestoneID string `query:"milestone_id" validate:"omitempty,uuid"`
}

// CreateMilestone godoc
// @Summary      Crear hito
// @Tags         work
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del proyecto"
// @Param        body  body  dto.CreateMilestoneRequest  true  "Hito"
// @Success      201   {object}  dto.MilestoneResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/milestones [post]
func (h *WorkHandler) CreateMilestone(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	projectID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.CreateMilestoneRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreateMilestone(c.UserContext(), actor, projectID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMilestones godoc
// @Summary      Hitos del proyecto
// @Tags         work
// @Security     Cookie
// @Produce      json
// @Param        id   path  string  true  "ID del proyecto"
// @Success      200  {array}  dto.MilestoneResponse
// @Router       /api/projects/{id}/milestones [get]
func (h *WorkHandler) ListMilestones(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	projectID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListMilestones(c.UserContext(), actor, projectID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateMilestone godoc
// @Summary      Actualizar hito
// @Tags         work
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del hito"
// @Param        body  body  dto.UpdateMilestoneRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.MilestoneResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/milestones/{id} [put]
func (h *WorkHandler) UpdateMilestone(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateMilestoneRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdateMilestone(c.UserContext(), actor, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteMilestone godoc
// @Summary      Eliminar hito
// @Description  Las tareas del hito quedan sin hito.
// @Tags         work
// @Security     Cookie
// @Param        id   path  string  true  "ID del hito"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/milestones/{id} [delete]
func (h *WorkHandler) DeleteMilestone(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.DeleteMilestone(c.UserContext(), actor, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateTask godoc
// @Summary      Crear tarea
// @Tags         work
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del proyecto"
// @Param        body  body  dto.CreateTaskRequest  true  "Tarea"
// @Success      201   {object}  dto.TaskResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/tasks [post]
func (h *WorkHandler) CreateTask(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	projectID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.CreateTaskRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreateTask(c.UserContext(), actor, projectID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListTasks godoc
// @Summary      Tareas del proyecto
// @Tags         work
// @Security     Cookie
// @Produce      json
// @Param        id            path   string  true   "ID del proyecto"
// @Param        milestone_id  query  string  false  "Solo las de este hito"
// @Success      200  {array}  dto.TaskResponse
// @Router       /api/projects/{id}/tasks [get]
func (h *WorkHandler) ListTasks(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	projectID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var q taskListQuery
	if err := parseQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListTasks(c.UserContext(), actor, projectID, q.MilestoneID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateTask godoc
// @Summary      Actualizar tarea
// @Tags         work
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la tarea"
// @Param        body  body  dto.UpdateTaskRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.TaskResponse
// @Router       /api/tasks/{id} [put]
func (h *WorkHandler) UpdateTask(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateTaskRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdateTask(c.UserContext(), actor, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteTask godoc
// @Summary      Eliminar tarea
// @Tags         work
// @Security     Cookie
// @Param        id   path  string  true  "ID de la tarea"
// @Success      204
// @Router       /api/tasks/{id} [delete]
func (h *WorkHandler) DeleteTask(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.DeleteTask(c.UserContext(), actor, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
