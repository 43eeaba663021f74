package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Stockeando-api/internal/application/dto"
	"github.com/jhoicas/Stockeando-api/internal/application/qr"
)

// QRHandler payloads QR y etiquetas de los materiales (protegido).
type QRHandler struct {
	uc *qr.UseCase
}

// NewQRHandler construye el handler.
func NewQRHandler(uc *qr.UseCase) *QRHandler {
	return &QRHandler{uc: uc}
}

// Generate godoc
// @Summary      Generar el QR de un material
// @Description  Guarda una copia del payload en qr_codes.
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del material"
// @Success      200  {object}  dto.QRResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/qr [post]
func (h *QRHandler) Generate(c *fiber.Ctx) error {
	payload, text, err := h.uc.Generate(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.QRResponse{Payload: payload, QRText: text})
}

// Label godoc
// @Summary      Etiqueta PDF con el QR de un material
// @Tags         items
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del material"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/label.pdf [get]
func (h *QRHandler) Label(c *fiber.Ctx) error {
	out, err := h.uc.Label(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(out)
}
