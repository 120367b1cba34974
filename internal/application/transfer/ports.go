package transfer

import (
	"context"

	"github.com/jhoicas/farmacia-pms/internal/domain/entity"
)

// Valores de los dos conmutadores externos del motor.
const (
	ModeShadow = "shadow" // solo validación, garantía de no mutación
	ModeActual = "actual" // validación + ejecución real

	AccessDirect   = "direct"   // acceso directo al almacén canónico de stock
	AccessFallback = "fallback" // solo lectura vía API paginada legada
)

// ModeResolver resuelve los conmutadores shadow/actual y direct/fallback.
// Se consultan en cada llamada (releídos del entorno, nunca cacheados).
type ModeResolver interface {
	TransferMode() string // shadow | actual
	StockAccess() string  // direct | fallback
}

// FallbackStockReader es el puerto de solo lectura contra la API paginada
// legada, usado cuando no hay acceso directo al almacén de stock. Jamás
// ejecuta mutaciones; para tests se puede inyectar un mock.
type FallbackStockReader interface {
	// WarehouseStock busca el producto en las páginas de stock de la bodega;
	// nil si no aparece.
	WarehouseStock(ctx context.Context, warehouseID, productID string) (*entity.WarehouseStock, error)
	// BranchStock busca el producto en las páginas de stock de la sucursal;
	// nil si no aparece (equivale a stock cero).
	BranchStock(ctx context.Context, branchID, productID string) (*entity.BranchStock, error)
}
