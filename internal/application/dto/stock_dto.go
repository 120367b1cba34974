package dto

import "time"

// CreateBranchRequest entrada para crear una sucursal.
type CreateBranchRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// BranchResponse salida de una sucursal.
type BranchResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateWarehouseRequest entrada para crear una bodega.
type CreateWarehouseRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Address string `json:"address"`
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// WarehouseStockItem fila del listado de stock de bodega. La forma coincide
// con la que consume el cliente de la ruta alternativa.
type WarehouseStockItem struct {
	WarehouseID  string    `json:"warehouse_id"`
	ProductID    string    `json:"product_id"`
	CurrentStock int64     `json:"current_stock"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BranchStockItem fila del listado de stock de sucursal.
type BranchStockItem struct {
	BranchID     string    `json:"branch_id"`
	ProductID    string    `json:"product_id"`
	CurrentStock int64     `json:"current_stock"`
	MinimumStock int64     `json:"minimum_stock"`
	ReorderPoint int64     `json:"reorder_point"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StockPageResponse respuesta paginada de stock (count + results).
type StockPageResponse struct {
	Count   int `json:"count"`
	Results any `json:"results"`
}

// StockTransactionResponse fila del log de auditoría de stock.
type StockTransactionResponse struct {
	ID                string    `json:"id"`
	RecordType        string    `json:"record_type"`
	LocationID        string    `json:"location_id"`
	ProductID         string    `json:"product_id"`
	Type              string    `json:"type"`
	QuantityDelta     int64     `json:"quantity_delta"`
	PreviousStock     int64     `json:"previous_stock"`
	NewStock          int64     `json:"new_stock"`
	PerformedBy       string    `json:"performed_by,omitempty"`
	TransferReference string    `json:"transfer_reference,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}
