package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/farmacia-pms/internal/domain/entity"
	"github.com/jhoicas/farmacia-pms/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

// StockTransactionRepo implementación del log de auditoría sobre PostgreSQL.
// Append-only: la tabla no recibe UPDATE ni DELETE desde la aplicación.
type StockTransactionRepo struct {
	q Querier
}

// NewStockTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTransactionRepository(q Querier) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

// Create inserta una fila de auditoría.
func (r *StockTransactionRepo) Create(tx *entity.StockTransaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_transactions (id, record_type, location_id, product_id, type, quantity_delta, previous_stock, new_stock, performed_by, transfer_reference, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	performedBy := (*string)(nil)
	if tx.PerformedBy != "" {
		performedBy = &tx.PerformedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		tx.ID, tx.RecordType, tx.LocationID, tx.ProductID, tx.Type,
		tx.QuantityDelta, tx.PreviousStock, tx.NewStock,
		performedBy, tx.TransferReference, tx.Notes, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock transaction: %w", err)
	}
	return nil
}

// ListByReference lista las filas de auditoría de un traslado (normalmente dos).
func (r *StockTransactionRepo) ListByReference(transferReference string) ([]*entity.StockTransaction, error) {
	query := `
		SELECT id, record_type, location_id, product_id, type, quantity_delta, previous_stock, new_stock, performed_by, transfer_reference, notes, created_at
		FROM stock_transactions WHERE transfer_reference = $1
		ORDER BY created_at, type`
	rows, err := r.q.Query(context.Background(), query, transferReference)
	if err != nil {
		return nil, fmt.Errorf("list by reference: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// ListByLocation lista las filas de auditoría de una ubicación (bodega o sucursal).
func (r *StockTransactionRepo) ListByLocation(recordType, locationID string, limit, offset int) ([]*entity.StockTransaction, error) {
	query := `
		SELECT id, record_type, location_id, product_id, type, quantity_delta, previous_stock, new_stock, performed_by, transfer_reference, notes, created_at
		FROM stock_transactions WHERE record_type = $1 AND location_id = $2
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, recordType, locationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list by location: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func scanTransactions(rows pgx.Rows) ([]*entity.StockTransaction, error) {
	var list []*entity.StockTransaction
	for rows.Next() {
		var t entity.StockTransaction
		var performedBy *string
		if err := rows.Scan(&t.ID, &t.RecordType, &t.LocationID, &t.ProductID, &t.Type,
			&t.QuantityDelta, &t.PreviousStock, &t.NewStock,
			&performedBy, &t.TransferReference, &t.Notes, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock transaction: %w", err)
		}
		if performedBy != nil {
			t.PerformedBy = *performedBy
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
