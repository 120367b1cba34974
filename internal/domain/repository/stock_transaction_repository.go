package repository

import "github.com/jhoicas/farmacia-pms/internal/domain/entity"

// StockTransactionRepository define el puerto del log de auditoría de stock.
// Append-only: solo inserta y lista, nunca actualiza ni borra.
type StockTransactionRepository interface {
	Create(tx *entity.StockTransaction) error
	ListByReference(transferReference string) ([]*entity.StockTransaction, error)
	ListByLocation(recordType, locationID string, limit, offset int) ([]*entity.StockTransaction, error)
}
