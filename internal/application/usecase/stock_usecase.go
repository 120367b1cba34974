package usecase

import (
	"github.com/jhoicas/farmacia-pms/internal/application/dto"
	"github.com/jhoicas/farmacia-pms/internal/domain/entity"
	"github.com/jhoicas/farmacia-pms/internal/domain/repository"
)

// StockQueryUseCase consultas de solo lectura sobre stock y auditoría para el
// panel de operaciones. El listado de stock de bodega expone la misma forma
// paginada (count + results) que consume la ruta alternativa de validación.
type StockQueryUseCase struct {
	stockRepo repository.StockRepository
	txRepo    repository.StockTransactionRepository
}

// NewStockQueryUseCase construye el caso de uso.
func NewStockQueryUseCase(stockRepo repository.StockRepository, txRepo repository.StockTransactionRepository) *StockQueryUseCase {
	return &StockQueryUseCase{stockRepo: stockRepo, txRepo: txRepo}
}

// ListWarehouseStock lista el stock de una bodega, paginado.
func (uc *StockQueryUseCase) ListWarehouseStock(warehouseID string, limit, offset int) (*dto.StockPageResponse, error) {
	list, total, err := uc.stockRepo.ListWarehouseStock(warehouseID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseStockItem, 0, len(list))
	for _, s := range list {
		items = append(items, dto.WarehouseStockItem{
			WarehouseID:  s.WarehouseID,
			ProductID:    s.ProductID,
			CurrentStock: s.CurrentStock,
			UpdatedAt:    s.UpdatedAt,
		})
	}
	return &dto.StockPageResponse{Count: total, Results: items}, nil
}

// ListBranchStock lista el stock de una sucursal, paginado.
func (uc *StockQueryUseCase) ListBranchStock(branchID string, limit, offset int) (*dto.StockPageResponse, error) {
	list, total, err := uc.stockRepo.ListBranchStock(branchID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BranchStockItem, 0, len(list))
	for _, s := range list {
		items = append(items, dto.BranchStockItem{
			BranchID:     s.BranchID,
			ProductID:    s.ProductID,
			CurrentStock: s.CurrentStock,
			MinimumStock: s.MinimumStock,
			ReorderPoint: s.ReorderPoint,
			UpdatedAt:    s.UpdatedAt,
		})
	}
	return &dto.StockPageResponse{Count: total, Results: items}, nil
}

// ListTransactionsByReference devuelve las filas de auditoría de un traslado.
func (uc *StockQueryUseCase) ListTransactionsByReference(reference string) ([]*dto.StockTransactionResponse, error) {
	list, err := uc.txRepo.ListByReference(reference)
	if err != nil {
		return nil, err
	}
	return toTransactionResponses(list), nil
}

// ListTransactionsByLocation devuelve la auditoría de una ubicación, paginada.
func (uc *StockQueryUseCase) ListTransactionsByLocation(recordType, locationID string, limit, offset int) ([]*dto.StockTransactionResponse, error) {
	list, err := uc.txRepo.ListByLocation(recordType, locationID, limit, offset)
	if err != nil {
		return nil, err
	}
	return toTransactionResponses(list), nil
}

func toTransactionResponses(list []*entity.StockTransaction) []*dto.StockTransactionResponse {
	out := make([]*dto.StockTransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, &dto.StockTransactionResponse{
			ID:                t.ID,
			RecordType:        t.RecordType,
			LocationID:        t.LocationID,
			ProductID:         t.ProductID,
			Type:              t.Type,
			QuantityDelta:     t.QuantityDelta,
			PreviousStock:     t.PreviousStock,
			NewStock:          t.NewStock,
			PerformedBy:       t.PerformedBy,
			TransferReference: t.TransferReference,
			Notes:             t.Notes,
			CreatedAt:         t.CreatedAt,
		})
	}
	return out
}
