package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Stockeando-api/internal/application/dto"
	"github.com/jhoicas/Stockeando-api/internal/application/inventory"
	"github.com/jhoicas/Stockeando-api/internal/application/ledger"
	"github.com/jhoicas/Stockeando-api/internal/domain/entity"
)

// InventoryHandler colecciones por ubicación, materiales y códigos (protegido).
type InventoryHandler struct {
	registry *inventory.Registry
	ledger   *ledger.Service
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(registry *inventory.Registry, l *ledger.Service) *InventoryHandler {
	return &InventoryHandler{registry: registry, ledger: l}
}

// GetLocation godoc
// @Summary      Materiales de una ubicación
// @Description  Una ubicación desconocida o vacía devuelve una lista vacía.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        location  path  string  true  "deposito, planta1..3, transito, pedidos, eliminados, rechazados o plant{1..3}Machine{A|B}"
// @Success      200  {object}  dto.LocationItemsResponse
// @Router       /api/locations/{location} [get]
func (h *InventoryHandler) GetLocation(c *fiber.Ctx) error {
	location := c.Params("location")
	items, err := h.registry.Get(c.UserContext(), location)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.LocationItemsResponse{Location: location, Items: items})
}

// PutLocation godoc
// @Summary      Reemplazar la colección de una ubicación
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        location  path  string                  true  "Ubicación"
// @Param        body      body  dto.PutLocationRequest  true  "items"
// @Success      200  {object}  dto.LocationItemsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/locations/{location} [put]
func (h *InventoryHandler) PutLocation(c *fiber.Ctx) error {
	var in dto.PutLocationRequest
	if e := parseBody(c, &in); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	location := c.Params("location")
	if err := h.registry.Put(c.UserContext(), location, in.Items); err != nil {
		return respondError(c, err)
	}
	items := in.Items
	if items == nil {
		items = []entity.Item{}
	}
	return c.JSON(dto.LocationItemsResponse{Location: location, Items: items})
}

// CreateItem godoc
// @Summary      Ingresar material
// @Description  Genera el código si no se envía y registra el movimiento de ingreso.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Datos del material"
// @Success      201   {object}  entity.Item
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *InventoryHandler) CreateItem(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if e := parseBody(c, &in); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	var weight entity.Weight
	if in.Weight != nil {
		weight = entity.NewWeight(*in.Weight)
	}
	item, err := h.registry.AddItem(c.UserContext(), in.Location, inventory.NewItemInput{
		Name:      in.Name,
		Measure:   in.Measure,
		Weight:    weight,
		Lot:       in.Lot,
		EntryDate: in.EntryDate,
		Code:      in.Code,
		Category:  in.Category,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// MoveItem godoc
// @Summary      Mover material
// @Description  Saca el material en la posición index de from y lo agrega al final de to.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MoveItemRequest  true  "item_id, from, to, index, reason"
// @Success      200   {object}  dto.MoveItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/items/move [post]
func (h *InventoryHandler) MoveItem(c *fiber.Ctx) error {
	var in dto.MoveItemRequest
	if e := parseBody(c, &in); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	item, err := h.registry.MoveItem(c.UserContext(), in.ItemID, in.From, in.To, *in.Index, in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MoveItemResponse{Moved: item != nil, Item: item})
}

// RejectItem godoc
// @Summary      Rechazar material
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RejectItemRequest  true  "item_id, from, index, reason, rejected_by"
// @Success      200   {object}  dto.MoveItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/items/reject [post]
func (h *InventoryHandler) RejectItem(c *fiber.Ctx) error {
	var in dto.RejectItemRequest
	if e := parseBody(c, &in); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	item, err := h.registry.RejectItem(c.UserContext(), in.ItemID, in.From, *in.Index, in.Reason, in.RejectedBy)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MoveItemResponse{Moved: item != nil, Item: item})
}

// ItemHistory godoc
// @Summary      Historial de movimientos de un material
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del material"
// @Success      200  {object}  dto.ItemHistoryResponse
// @Router       /api/items/{id}/history [get]
func (h *InventoryHandler) ItemHistory(c *fiber.Ctx) error {
	id := c.Params("id")
	history, err := h.ledger.ProductHistory(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ItemHistoryResponse{ItemID: id, History: history})
}

// ItemLocation godoc
// @Summary      Ubicación actual de un material según el ledger
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del material"
// @Success      200  {object}  dto.CurrentLocationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/location [get]
func (h *InventoryHandler) ItemLocation(c *fiber.Ctx) error {
	id := c.Params("id")
	location, ok, err := h.registry.CurrentLocation(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "el material no tiene movimientos"})
	}
	return c.JSON(dto.CurrentLocationResponse{
		ItemID:   id,
		Location: location,
		Label:    entity.ParseLocation(location).Label(),
	})
}

// CodeUnique godoc
// @Summary      Verificar si un código está libre
// @Tags         codes
// @Security     Bearer
// @Produce      json
// @Param        code  query  string  true  "Código"
// @Success      200   {object}  dto.CodeUniqueResponse
// @Router       /api/codes/unique [get]
func (h *InventoryHandler) CodeUnique(c *fiber.Ctx) error {
	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		return badRequest(c, "VALIDATION", "code es requerido")
	}
	unique, err := h.registry.IsCodeUnique(c.UserContext(), code)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CodeUniqueResponse{Code: code, Unique: unique})
}

// GenerateCode godoc
// @Summary      Generar un código único
// @Description  Formato PP-DDMMYY-X: dos letras del nombre, fecha y contador diario.
// @Tags         codes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GenerateCodeRequest  true  "name"
// @Success      200   {object}  dto.CodeResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/codes/generate [post]
func (h *InventoryHandler) GenerateCode(c *fiber.Ctx) error {
	var in dto.GenerateCodeRequest
	if e := parseBody(c, &in); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	code, err := h.registry.GenerateUniqueCode(c.UserContext(), in.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CodeResponse{Code: code})
}

// ResetPlants godoc
// @Summary      Reiniciar inventario (solo admin)
// @Description  Vacía todas las colecciones, recrea las máquinas y borra product_states.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/plants/reset [post]
func (h *InventoryHandler) ResetPlants(c *fiber.Ctx) error {
	if err := h.registry.ResetPlants(c.UserContext()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "inventario reiniciado"})
}
