package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/farmacia-pms/internal/domain"
	"github.com/jhoicas/farmacia-pms/internal/domain/entity"
	"github.com/jhoicas/farmacia-pms/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
// Cada método es una operación de UN solo registro: el adaptador no abre
// transacciones multi-registro; la consistencia entre bodega y sucursal la
// maneja el motor de traslados con compensación.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// GetWarehouseStock obtiene el registro de bodega; nil si no existe.
func (r *StockRepo) GetWarehouseStock(warehouseID, productID string) (*entity.WarehouseStock, error) {
	query := `
		SELECT warehouse_id, product_id, current_stock, updated_at
		FROM warehouse_stock WHERE warehouse_id = $1 AND product_id = $2`
	var s entity.WarehouseStock
	err := r.q.QueryRow(context.Background(), query, warehouseID, productID).Scan(
		&s.WarehouseID, &s.ProductID, &s.CurrentStock, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse stock: %w", err)
	}
	return &s, nil
}

// GetBranchStock obtiene el registro de sucursal; nil si no existe.
func (r *StockRepo) GetBranchStock(branchID, productID string) (*entity.BranchStock, error) {
	query := `
		SELECT branch_id, product_id, current_stock, minimum_stock, reorder_point, updated_at
		FROM branch_stock WHERE branch_id = $1 AND product_id = $2`
	var s entity.BranchStock
	err := r.q.QueryRow(context.Background(), query, branchID, productID).Scan(
		&s.BranchID, &s.ProductID, &s.CurrentStock, &s.MinimumStock, &s.ReorderPoint, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get branch stock: %w", err)
	}
	return &s, nil
}

// DecrementWarehouseStock resta qty con un UPDATE condicionado atómico
// (current_stock >= qty): dos traslados concurrentes sobre el mismo registro
// no pueden perder actualizaciones ni dejar stock negativo.
func (r *StockRepo) DecrementWarehouseStock(warehouseID, productID string, qty int64) (int64, int64, error) {
	query := `
		UPDATE warehouse_stock
		SET current_stock = current_stock - $3, updated_at = now()
		WHERE warehouse_id = $1 AND product_id = $2 AND current_stock >= $3
		RETURNING current_stock`
	var current int64
	err := r.q.QueryRow(context.Background(), query, warehouseID, productID, qty).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// La condición no casó: distinguir registro ausente de stock corto.
			ws, readErr := r.GetWarehouseStock(warehouseID, productID)
			if readErr != nil {
				return 0, 0, readErr
			}
			if ws == nil {
				return 0, 0, domain.ErrProductNotInWarehouse
			}
			return 0, 0, fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, ws.CurrentStock, qty)
		}
		return 0, 0, fmt.Errorf("decrement warehouse stock: %w", err)
	}
	return current + qty, current, nil
}

// IncrementWarehouseStock suma qty (compensación de un traslado fallido o reposición).
func (r *StockRepo) IncrementWarehouseStock(warehouseID, productID string, qty int64) (int64, int64, error) {
	query := `
		UPDATE warehouse_stock
		SET current_stock = current_stock + $3, updated_at = now()
		WHERE warehouse_id = $1 AND product_id = $2
		RETURNING current_stock`
	var current int64
	err := r.q.QueryRow(context.Background(), query, warehouseID, productID, qty).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, domain.ErrProductNotInWarehouse
		}
		return 0, 0, fmt.Errorf("increment warehouse stock: %w", err)
	}
	return current - qty, current, nil
}

// IncrementBranchStock suma qty al registro de sucursal; si no existe lo crea
// con los defaults de stock mínimo y punto de reorden. (xmax = 0) distingue
// inserción de actualización.
func (r *StockRepo) IncrementBranchStock(branchID, productID string, qty int64) (int64, int64, bool, error) {
	query := `
		INSERT INTO branch_stock (branch_id, product_id, current_stock, minimum_stock, reorder_point, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (branch_id, product_id)
		DO UPDATE SET current_stock = branch_stock.current_stock + EXCLUDED.current_stock, updated_at = now()
		RETURNING current_stock, (xmax = 0)`
	var current int64
	var inserted bool
	err := r.q.QueryRow(context.Background(), query,
		branchID, productID, qty, entity.DefaultMinimumStock, entity.DefaultReorderPoint,
	).Scan(&current, &inserted)
	if err != nil {
		return 0, 0, false, fmt.Errorf("increment branch stock: %w", err)
	}
	return current - qty, current, inserted, nil
}

// ListWarehouseStock lista el stock de una bodega con paginación y total.
func (r *StockRepo) ListWarehouseStock(warehouseID string, limit, offset int) ([]*entity.WarehouseStock, int, error) {
	var total int
	if err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM warehouse_stock WHERE warehouse_id = $1`, warehouseID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count warehouse stock: %w", err)
	}

	query := `
		SELECT warehouse_id, product_id, current_stock, updated_at
		FROM warehouse_stock WHERE warehouse_id = $1
		ORDER BY product_id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, warehouseID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list warehouse stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.WarehouseStock
	for rows.Next() {
		var s entity.WarehouseStock
		if err := rows.Scan(&s.WarehouseID, &s.ProductID, &s.CurrentStock, &s.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan warehouse stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, total, rows.Err()
}

// ListBranchStock lista el stock de una sucursal con paginación y total.
func (r *StockRepo) ListBranchStock(branchID string, limit, offset int) ([]*entity.BranchStock, int, error) {
	var total int
	if err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM branch_stock WHERE branch_id = $1`, branchID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count branch stock: %w", err)
	}

	query := `
		SELECT branch_id, product_id, current_stock, minimum_stock, reorder_point, updated_at
		FROM branch_stock WHERE branch_id = $1
		ORDER BY product_id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, branchID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list branch stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.BranchStock
	for rows.Next() {
		var s entity.BranchStock
		if err := rows.Scan(&s.BranchID, &s.ProductID, &s.CurrentStock, &s.MinimumStock, &s.ReorderPoint, &s.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan branch stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, total, rows.Err()
}
