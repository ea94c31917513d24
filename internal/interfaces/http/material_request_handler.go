package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/obras-api/internal/application/dto"
	"github.com/jhoicas/obras-api/internal/application/materialrequest"
	"github.com/jhoicas/obras-api/internal/domain/authz"
)

// MaterialRequestHandler ciclo de vida de solicitudes de materiales.
type MaterialRequestHandler struct {
	uc   *materialrequest.UseCase
	docs *materialrequest.DocumentUseCase
}

// NewMaterialRequestHandler construye el handler.
func NewMaterialRequestHandler(uc *materialrequest.UseCase, docs *materialrequest.DocumentUseCase) *MaterialRequestHandler {
	return &MaterialRequestHandler{uc: uc, docs: docs}
}

// Create godoc
// @Summary      Crear solicitud de materiales
// @Description  Nace en requested, o en DRAFT con draft=true. Todas las líneas se insertan en la misma transacción.
// @Tags         material-requests
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMaterialRequestRequest  true  "Cabecera y líneas"
// @Success      201   {object}  dto.MaterialRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/material-requests [post]
func (h *MaterialRequestHandler) Create(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.CreateMaterialRequestRequest
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
// @Summary      Listar solicitudes
// @Tags         material-requests
// @Security     Cookie
// @Produce      json
// @Param        project_id    query  string  false  "Proyecto"
// @Param        stage         query  string  false  "Etapa"
// @Param        status        query  string  false  "pending, approved, rejected"
// @Param        request_type  query  string  false  "supplier, main_inventory"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MaterialRequestListResponse
// @Router       /api/material-requests [get]
func (h *MaterialRequestHandler) List(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	var q dto.MaterialRequestListQuery
	if err := parseQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), actor, q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener solicitud con sus líneas
// @Tags         material-requests
// @Security     Cookie
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.MaterialRequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/material-requests/{id} [get]
func (h *MaterialRequestHandler) Get(c *fiber.Ctx) error {
	return withID(c, func(ctx context.Context, actor authz.Actor, id string) (any, error) {
		return h.uc.Get(ctx, actor, id)
	})
}

type transitionFunc func(ctx context.Context, actor authz.Actor, id, remarks string) (*dto.MaterialRequestResponse, error)

// transition lee {remarks} y aplica fn sobre la solicitud :id.
func (h *MaterialRequestHandler) transition(c *fiber.Ctx, fn transitionFunc) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.TransitionRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &in); err != nil {
			return writeError(c, err)
		}
	}
	out, err := fn(c.UserContext(), actor, id, in.Remarks)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Submit godoc
// @Summary      Enviar borrador (DRAFT → requested)
// @Tags         material-requests
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true   "ID de la solicitud"
// @Param        body  body  dto.TransitionRequest  false  "Observaciones"
// @Success      200   {object}  dto.MaterialRequestResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/material-requests/{id}/submit [put]
func (h *MaterialRequestHandler) Submit(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Submit)
}

// Approve godoc
// @Summary      Aprobar solicitud (requested → approved)
// @Tags         material-requests
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true   "ID de la solicitud"
// @Param        body  body  dto.TransitionRequest  false  "Observaciones"
// @Success      200   {object}  dto.MaterialRequestResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/material-requests/{id}/approve [put]
func (h *MaterialRequestHandler) Approve(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Approve)
}

// Decline godoc
// @Summary      Rechazar solicitud (requested → cancelled)
// @Tags         material-requests
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true   "ID de la solicitud"
// @Param        body  body  dto.TransitionRequest  false  "Motivo de rechazo"
// @Success      200   {object}  dto.MaterialRequestResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/material-requests/{id}/decline [put]
func (h *MaterialRequestHandler) Decline(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Decline)
}

// Order godoc
// @Summary      Ordenar compra (approved → ordered)
// @Tags         material-requests
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true   "ID de la solicitud"
// @Param        body  body  dto.TransitionRequest  false  "Observaciones"
// @Success      200   {object}  dto.MaterialRequestResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/material-requests/{id}/order [put]
func (h *MaterialRequestHandler) Order(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Order)
}

// Review godoc
// @Summary      Agregar revisión sin cambiar la etapa
// @Tags         material-requests
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la solicitud"
// @Param        body  body  dto.TransitionRequest  true  "Observaciones (requeridas)"
// @Success      200   {object}  dto.MaterialRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/material-requests/{id}/review [post]
func (h *MaterialRequestHandler) Review(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Review)
}

// RecordDelivery godoc
// @Summary      Registrar entrega física
// @Description  La primera entrega pasa la solicitud de ordered a verifying. No mueve inventario.
// @Tags         material-requests
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la solicitud"
// @Param        body  body  dto.RecordDeliveryRequest  true  "Datos de la entrega"
// @Success      201   {object}  dto.MaterialDeliveryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/material-requests/{id}/deliveries [post]
func (h *MaterialRequestHandler) RecordDelivery(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.RecordDeliveryRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.RecordDelivery(c.UserContext(), actor, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListDeliveries godoc
// @Summary      Entregas de una solicitud
// @Tags         material-requests
// @Security     Cookie
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {array}   dto.MaterialDeliveryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/material-requests/{id}/deliveries [get]
func (h *MaterialRequestHandler) ListDeliveries(c *fiber.Ctx) error {
	return withID(c, func(ctx context.Context, actor authz.Actor, id string) (any, error) {
		return h.uc.ListDeliveries(ctx, actor, id)
	})
}

// Verify godoc
// @Summary      Verificar cantidades recibidas
// @Description  Acepta o rechaza cantidades por línea. Lo aceptado entra al inventario del proyecto.
// @Tags         material-requests
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID de la solicitud"
// @Param        body  body  dto.VerifyRequest  true  "Cantidades por línea"
// @Success      200   {object}  dto.MaterialRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/material-requests/{id}/verify [post]
func (h *MaterialRequestHandler) Verify(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.VerifyRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Verify(c.UserContext(), actor, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListVerifications godoc
// @Summary      Verificaciones de una solicitud
// @Tags         material-requests
// @Security     Cookie
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {array}   dto.MaterialVerificationResponse
// @Router       /api/material-requests/{id}/verifications [get]
func (h *MaterialRequestHandler) ListVerifications(c *fiber.Ctx) error {
	return withID(c, func(ctx context.Context, actor authz.Actor, id string) (any, error) {
		return h.uc.ListVerifications(ctx, actor, id)
	})
}

// ListActions godoc
// @Summary      Bitácora de una solicitud
// @Tags         material-requests
// @Security     Cookie
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {array}   dto.MaterialRequestActionResponse
// @Router       /api/material-requests/{id}/actions [get]
func (h *MaterialRequestHandler) ListActions(c *fiber.Ctx) error {
	return withID(c, func(ctx context.Context, actor authz.Actor, id string) (any, error) {
		return h.uc.ListActions(ctx, actor, id)
	})
}

// PDF godoc
// @Summary      Documento PDF de la solicitud
// @Tags         material-requests
// @Security     Cookie
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/material-requests/{id}/pdf [get]
func (h *MaterialRequestHandler) PDF(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	b, err := h.docs.PDF(c.UserContext(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="solicitud-%s.pdf"`, id))
	return c.Send(b)
}

// Export godoc
// @Summary      Exportar solicitudes a Excel
// @Description  Respeta los mismos filtros del listado.
// @Tags         material-requests
// @Security     Cookie
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        project_id    query  string  false  "Proyecto"
// @Param        stage         query  string  false  "Etapa"
// @Param        status        query  string  false  "pending, approved, rejected"
// @Param        request_type  query  string  false  "supplier, main_inventory"
// @Success      200  {file}  binary
// @Router       /api/material-requests/export [get]
func (h *MaterialRequestHandler) Export(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	var q dto.MaterialRequestListQuery
	if err := parseQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	b, err := h.docs.Export(c.UserContext(), actor, q)
	if err != nil {
		return writeError(c, err)
	}
	name := "solicitudes-" + time.Now().Format("20060102") + ".xlsx"
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(b)
}

// withID resuelve actor e :id y responde con el JSON que devuelva fn.
func withID(c *fiber.Ctx, fn func(ctx context.Context, actor authz.Actor, id string) (any, error)) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := fn(c.UserContext(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
