package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/farmacia-pms/internal/application/dto"
	"github.com/jhoicas/farmacia-pms/internal/application/usecase"
	"github.com/jhoicas/farmacia-pms/internal/domain/entity"
)

// StockHandler consultas de stock y auditoría (protegido, solo lectura).
type StockHandler struct {
	uc *usecase.StockQueryUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *usecase.StockQueryUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// ListWarehouseStock godoc
// @Summary      Stock de una bodega (paginado)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la bodega"
// @Param        limit   query  int     false  "Tamaño de página"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.StockPageResponse
// @Router       /api/warehouses/{id}/stock [get]
func (h *StockHandler) ListWarehouseStock(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	out, err := h.uc.ListWarehouseStock(id, page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ListBranchStock godoc
// @Summary      Stock de una sucursal (paginado)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la sucursal"
// @Param        limit   query  int     false  "Tamaño de página"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.StockPageResponse
// @Router       /api/branches/{id}/stock [get]
func (h *StockHandler) ListBranchStock(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	out, err := h.uc.ListBranchStock(id, page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ListTransactions godoc
// @Summary      Log de auditoría de stock
// @Description  Por referencia de traslado (?reference=) o por ubicación (?record_type=&location_id=).
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        reference    query  string  false  "Referencia del traslado"
// @Param        record_type  query  string  false  "warehouse | branch"
// @Param        location_id  query  string  false  "ID de la ubicación"
// @Success      200  {array}  dto.StockTransactionResponse
// @Router       /api/stock-transactions [get]
func (h *StockHandler) ListTransactions(c *fiber.Ctx) error {
	if ref := c.Query("reference"); ref != "" {
		out, err := h.uc.ListTransactionsByReference(ref)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
		return c.JSON(out)
	}

	recordType := c.Query("record_type")
	locationID := c.Query("location_id")
	if (recordType != entity.RecordTypeWarehouse && recordType != entity.RecordTypeBranch) || locationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "use ?reference= o ?record_type=warehouse|branch&location_id="})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	out, err := h.uc.ListTransactionsByLocation(recordType, locationID, page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
