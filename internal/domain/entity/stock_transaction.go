package entity

import "time"

// Tipos de transacción de stock.
const (
	TxTypeStockOut   = "stock_out"   // salida de bodega central
	TxTypeTransferIn = "transfer_in" // entrada en sucursal
)

// Tipo de registro de stock que describe la transacción.
const (
	RecordTypeWarehouse = "warehouse"
	RecordTypeBranch    = "branch"
)

// StockTransaction es una entrada inmutable del log de auditoría: una fila por
// mutación de stock, nunca se actualiza ni se borra. Un traslado exitoso
// produce exactamente dos filas (stock_out en bodega, transfer_in en sucursal)
// correlacionadas por TransferReference.
type StockTransaction struct {
	ID                string
	RecordType        string // warehouse | branch
	LocationID        string // WarehouseID o BranchID según RecordType
	ProductID         string
	Type              string // stock_out | transfer_in
	QuantityDelta     int64  // con signo: negativo salida, positivo entrada
	PreviousStock     int64
	NewStock          int64
	PerformedBy       string
	TransferReference string
	Notes             string
	CreatedAt         time.Time
}
