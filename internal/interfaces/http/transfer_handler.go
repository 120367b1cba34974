package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/farmacia-pms/internal/application/dto"
	"github.com/jhoicas/farmacia-pms/internal/application/transfer"
)

// TransferEngine es lo que el handler necesita del motor de traslados;
// *transfer.UseCase lo implementa, los tests inyectan un stub.
type TransferEngine interface {
	Transfer(ctx context.Context, in transfer.TransferInput) *dto.TransferResult
	Validate(ctx context.Context, in transfer.TransferInput) *dto.TransferResult
}

// TransferHandler maneja las peticiones HTTP de traslados bodega → sucursal (protegido).
type TransferHandler struct {
	engine TransferEngine
}

// NewTransferHandler construye el handler.
func NewTransferHandler(engine TransferEngine) *TransferHandler {
	return &TransferHandler{engine: engine}
}

// Create godoc
// @Summary      Ejecutar traslado de stock bodega → sucursal
// @Description  Despacha según TRANSFER_MODE (shadow|actual) y STOCK_ACCESS (direct|fallback).
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "origen, destino, producto, cantidad"
// @Success      200   {object}  dto.TransferResult
// @Failure      400   {object}  dto.TransferResult
// @Failure      404   {object}  dto.TransferResult
// @Failure      409   {object}  dto.TransferResult
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res := h.engine.Transfer(c.Context(), toTransferInput(in, userID))
	return c.Status(statusForResult(res)).JSON(res)
}

// Validate godoc
// @Summary      Validar factibilidad de un traslado (solo lectura)
// @Description  Garantiza no mutación: equivale al modo sombra, independiente de TRANSFER_MODE.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "origen, destino, producto, cantidad"
// @Success      200   {object}  dto.TransferResult
// @Router       /api/transfers/validate [post]
func (h *TransferHandler) Validate(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res := h.engine.Validate(c.Context(), toTransferInput(in, userID))
	return c.Status(statusForResult(res)).JSON(res)
}

func toTransferInput(in dto.CreateTransferRequest, userID string) transfer.TransferInput {
	return transfer.TransferInput{
		SourceWarehouseID:   in.SourceWarehouseID,
		DestinationBranchID: in.DestinationBranchID,
		ProductID:           in.ProductID,
		Quantity:            in.Quantity,
		RequestedBy:         userID,
		Notes:               in.Notes,
	}
}

// statusForResult mapea el código estructurado del motor a un status HTTP.
// AUDIT_WRITE_FAILED llega con Success=true (advertencia) y responde 200.
func statusForResult(res *dto.TransferResult) int {
	if res.Success {
		return fiber.StatusOK
	}
	switch res.ErrorCode {
	case dto.TransferCodeInvalidRequest:
		return fiber.StatusBadRequest
	case dto.TransferCodeProductNotInWarehouse:
		return fiber.StatusNotFound
	case dto.TransferCodeInsufficientStock:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
