package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/obras-api/internal/application/audit"
	"github.com/jhoicas/obras-api/internal/application/dto"
)

// AuditHandler consulta del registro de actividad.
type AuditHandler struct {
	uc *audit.UseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *audit.UseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

type auditQuery struct {
	ProjectID  string `query:"project_id" validate:"omitempty,uuid"`
	EntityType string `query:"entity_type" validate:"omitempty,max=40"`
	EntityID   string `query:"entity_id" validate:"omitempty,uuid"`
	dto.PageRequest
}

// List godoc
// @Summary      Registro de actividad
// @Description  Solo registros de proyectos visibles y los globales.
// @Tags         logs
// @Security     Cookie
// @Produce      json
// @Param        project_id   query  string  false  "Proyecto"
// @Param        entity_type  query  string  false  "material_request, material, project, ..."
// @Param        entity_id    query  string  false  "Entidad"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.AuditLogListResponse
// @Router       /api/logs [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	var q auditQuery
	if err := parseQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), actor, audit.ListQuery{
		ProjectID:   q.ProjectID,
		EntityType:  q.EntityType,
		EntityID:    q.EntityID,
		PageRequest: q.PageRequest,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
