package dto

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	SourceWarehouseID   string `json:"source_warehouse_id"`
	DestinationBranchID string `json:"destination_branch_id"`
	ProductID           string `json:"product_id"`
	Quantity            int64  `json:"quantity"`
	Notes               string `json:"notes,omitempty"`
}

// Códigos de error estructurados del motor de traslados. Siempre se devuelven
// dentro del resultado, nunca como panics fuera del motor.
const (
	TransferCodeInvalidRequest        = "INVALID_REQUEST"
	TransferCodeProductNotInWarehouse = "PRODUCT_NOT_IN_WAREHOUSE"
	TransferCodeInsufficientStock     = "INSUFFICIENT_STOCK"
	TransferCodeStorageReadFailed     = "STORAGE_READ_FAILED"
	TransferCodeStorageWriteFailed    = "STORAGE_WRITE_FAILED"
	TransferCodeCompensationFailed    = "COMPENSATION_FAILED"
	TransferCodeAuditWriteFailed      = "AUDIT_WRITE_FAILED"
)

// Modos reportados en el resultado. La capacidad real (validó vs. mutó) viaja
// explícita en el resultado para que el caller no dependa de saber qué flag
// de entorno estaba activo.
const (
	TransferModeValidatedOnly = "validated-only"
	TransferModeExecuted      = "executed"
)

// TransferResult resultado efímero del motor de traslados.
// En modo validación solo se llenan los snapshots observados; en ejecución
// se llenan además los valores antes/después y la referencia del traslado.
type TransferResult struct {
	Success           bool   `json:"success"`
	Mode              string `json:"mode"` // validated-only | executed
	Message           string `json:"message"`
	TransferReference string `json:"transfer_reference,omitempty"`
	ErrorCode         string `json:"error_code,omitempty"`
	Warning           string `json:"warning,omitempty"` // p.ej. auditoría incompleta

	// Snapshots de validación (lectura, sin mutar).
	WarehouseStock *int64 `json:"warehouse_stock,omitempty"`
	BranchStock    *int64 `json:"branch_stock,omitempty"`

	// Antes/después de una ejecución real.
	WarehouseStockBefore *int64 `json:"warehouse_stock_before,omitempty"`
	WarehouseStockAfter  *int64 `json:"warehouse_stock_after,omitempty"`
	BranchStockBefore    *int64 `json:"branch_stock_before,omitempty"`
	BranchStockAfter     *int64 `json:"branch_stock_after,omitempty"`
	BranchRecordCreated  bool   `json:"branch_record_created,omitempty"`
}
