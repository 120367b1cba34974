// Package restapi implementa la ruta alternativa de consulta de stock: un
// cliente HTTP de SOLO lectura contra la API paginada del sistema legado,
// usado cuando no hay acceso directo al almacén canónico. Jamás muta nada.
package restapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jhoicas/farmacia-pms/internal/application/transfer"
	"github.com/jhoicas/farmacia-pms/internal/domain/entity"
)

var _ transfer.FallbackStockReader = (*StockClient)(nil)

const defaultPageSize = 50

// StockClient consulta el stock página a página. El endpoint solo filtra por
// ubicación; el producto se busca con un escaneo lineal del lado del cliente.
type StockClient struct {
	baseURL    string
	pageSize   int
	httpClient *http.Client
}

// NewStockClient construye el cliente. baseURL sin slash final, ej. http://legacy-pms:8080/api.
func NewStockClient(baseURL string, pageSize int) *StockClient {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &StockClient{
		baseURL:  baseURL,
		pageSize: pageSize,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// warehouseStockRow fila del endpoint de stock de bodega.
type warehouseStockRow struct {
	WarehouseID  string `json:"warehouse_id"`
	ProductID    string `json:"product_id"`
	CurrentStock int64  `json:"current_stock"`
}

// branchStockRow fila del endpoint de stock de sucursal.
type branchStockRow struct {
	BranchID     string `json:"branch_id"`
	ProductID    string `json:"product_id"`
	CurrentStock int64  `json:"current_stock"`
	MinimumStock int64  `json:"minimum_stock"`
	ReorderPoint int64  `json:"reorder_point"`
}

// page respuesta paginada genérica del legado.
type page struct {
	Count   int             `json:"count"`
	Results json.RawMessage `json:"results"`
}

// WarehouseStock escanea las páginas de stock de la bodega buscando el
// producto; nil si el producto no aparece en ninguna página.
func (c *StockClient) WarehouseStock(ctx context.Context, warehouseID, productID string) (*entity.WarehouseStock, error) {
	for offset := 0; ; offset += c.pageSize {
		pg, err := c.fetchPage(ctx, "/warehouse-stocks", "warehouse_id", warehouseID, offset)
		if err != nil {
			return nil, err
		}
		var rows []warehouseStockRow
		if err := json.Unmarshal(pg.Results, &rows); err != nil {
			return nil, fmt.Errorf("decodificar página de stock de bodega: %w", err)
		}
		for _, row := range rows {
			if row.ProductID == productID {
				return &entity.WarehouseStock{
					WarehouseID:  row.WarehouseID,
					ProductID:    row.ProductID,
					CurrentStock: row.CurrentStock,
				}, nil
			}
		}
		if len(rows) == 0 || offset+len(rows) >= pg.Count {
			return nil, nil
		}
	}
}

// BranchStock escanea las páginas de stock de la sucursal buscando el
// producto; nil si no aparece (equivale a stock cero).
func (c *StockClient) BranchStock(ctx context.Context, branchID, productID string) (*entity.BranchStock, error) {
	for offset := 0; ; offset += c.pageSize {
		pg, err := c.fetchPage(ctx, "/branch-stocks", "branch_id", branchID, offset)
		if err != nil {
			return nil, err
		}
		var rows []branchStockRow
		if err := json.Unmarshal(pg.Results, &rows); err != nil {
			return nil, fmt.Errorf("decodificar página de stock de sucursal: %w", err)
		}
		for _, row := range rows {
			if row.ProductID == productID {
				return &entity.BranchStock{
					BranchID:     row.BranchID,
					ProductID:    row.ProductID,
					CurrentStock: row.CurrentStock,
					MinimumStock: row.MinimumStock,
					ReorderPoint: row.ReorderPoint,
				}, nil
			}
		}
		if len(rows) == 0 || offset+len(rows) >= pg.Count {
			return nil, nil
		}
	}
}

// fetchPage trae una página del endpoint indicado.
func (c *StockClient) fetchPage(ctx context.Context, path, filterKey, filterValue string, offset int) (*page, error) {
	q := url.Values{}
	q.Set(filterKey, filterValue)
	q.Set("limit", strconv.Itoa(c.pageSize))
	q.Set("offset", strconv.Itoa(offset))
	reqURL := c.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("construir petición: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("consultar API de stock: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("API de stock respondió %d: %s", resp.StatusCode, string(body))
	}

	var pg page
	if err := json.NewDecoder(resp.Body).Decode(&pg); err != nil {
		return nil, fmt.Errorf("decodificar respuesta paginada: %w", err)
	}
	return &pg, nil
}
