package repository

import "github.com/jhoicas/farmacia-pms/internal/domain/entity"

// StockRepository define el puerto de acceso a los registros de stock por
// (ubicación, producto). Cada escritura es una operación de un solo registro:
// el puerto NO ofrece atomicidad multi-registro, por eso el ejecutor de
// traslados implementa compensación.
type StockRepository interface {
	// GetWarehouseStock obtiene el registro de bodega; nil si no existe.
	GetWarehouseStock(warehouseID, productID string) (*entity.WarehouseStock, error)
	// GetBranchStock obtiene el registro de sucursal; nil si no existe
	// (ausencia significa stock cero, no es error).
	GetBranchStock(branchID, productID string) (*entity.BranchStock, error)

	// DecrementWarehouseStock resta qty de forma atómica y condicionada
	// (current_stock >= qty). Devuelve stock previo y nuevo.
	// Errores: domain.ErrProductNotInWarehouse, domain.ErrInsufficientStock.
	DecrementWarehouseStock(warehouseID, productID string, qty int64) (previous, current int64, err error)
	// IncrementWarehouseStock suma qty de forma atómica (compensación / reposición).
	IncrementWarehouseStock(warehouseID, productID string, qty int64) (previous, current int64, err error)
	// IncrementBranchStock suma qty al registro de sucursal; si no existe lo
	// crea con los defaults (minimum_stock, reorder_point). created indica
	// si la fila fue insertada.
	IncrementBranchStock(branchID, productID string, qty int64) (previous, current int64, created bool, err error)

	// Listados paginados para el panel de operaciones y el endpoint de lectura
	// que consume la ruta de consulta alternativa.
	ListWarehouseStock(warehouseID string, limit, offset int) ([]*entity.WarehouseStock, int, error)
	ListBranchStock(branchID string, limit, offset int) ([]*entity.BranchStock, int, error)
}
