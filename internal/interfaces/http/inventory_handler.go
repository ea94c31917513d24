package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/obras-api/internal/application/dto"
	"github.com/jhoicas/obras-api/internal/application/inventory"
)

// InventoryHandler saldos y movimientos del libro de inventario.
type InventoryHandler struct {
	uc *inventory.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

type balanceQuery struct {
	ItemID    string `query:"item_id" validate:"required,uuid"`
	ProjectID string `query:"project_id" validate:"omitempty,uuid"`
}

type projectQuery struct {
	ProjectID string `query:"project_id" validate:"omitempty,uuid"`
}

type movementQuery struct {
	ItemID    string `query:"item_id" validate:"omitempty,uuid"`
	ProjectID string `query:"project_id" validate:"omitempty,uuid"`
	Central   bool   `query:"central"`
	dto.PageRequest
}

// Balance godoc
// @Summary      Saldo de un material
// @Description  Suma de entradas menos salidas del libro. Sin project_id es el inventario central.
// @Tags         inventory
// @Security     Cookie
// @Produce      json
// @Param        item_id     query  string  true   "Material"
// @Param        project_id  query  string  false  "Proyecto (vacío = central)"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/balance [get]
func (h *InventoryHandler) Balance(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	var q balanceQuery
	if err := parseQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Balance(c.UserContext(), actor, q.ItemID, q.ProjectID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Balances godoc
// @Summary      Saldos por material de un proyecto
// @Tags         inventory
// @Security     Cookie
// @Produce      json
// @Param        project_id  query  string  false  "Proyecto (vacío = central)"
// @Success      200  {array}  dto.BalanceResponse
// @Router       /api/inventory/balances [get]
func (h *InventoryHandler) Balances(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	var q projectQuery
	if err := parseQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Balances(c.UserContext(), actor, q.ProjectID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Listar asientos del libro
// @Tags         inventory
// @Security     Cookie
// @Produce      json
// @Param        item_id     query  string  false  "Material"
// @Param        project_id  query  string  false  "Proyecto"
// @Param        central     query  bool    false  "Solo inventario central"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	var q movementQuery
	if err := parseQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListMovements(c.UserContext(), actor, inventory.MovementQuery{
		MaterialID:  q.ItemID,
		ProjectID:   q.ProjectID,
		Central:     q.Central,
		PageRequest: q.PageRequest,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RegisterMovement godoc
// @Summary      Registrar movimiento manual
// @Description  in/out sobre un proyecto o el central; transfer sale del central hacia project_id.
// @Tags         inventory
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "Movimiento"
// @Success      201   {array}   dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.RegisterMovementRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.RegisterMovement(c.UserContext(), actor, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
