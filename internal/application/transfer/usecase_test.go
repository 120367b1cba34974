package transfer_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmacia-pms/internal/application/dto"
	"github.com/jhoicas/farmacia-pms/internal/application/transfer"
	"github.com/jhoicas/farmacia-pms/internal/domain"
	"github.com/jhoicas/farmacia-pms/internal/domain/entity"
	"github.com/jhoicas/farmacia-pms/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

const (
	testWarehouseID = "bodega-central"
	testBranchID    = "sucursal-norte"
	testProductID   = "prod-acetaminofen-500"
	testUserID      = "00000000-0000-0000-0000-000000000001"
)

type stockKey struct{ locationID, productID string }

// fakeStockRepo simula el almacén de stock con mapas y permite inyectar
// fallas en pasos específicos para ejercitar la compensación.
type fakeStockRepo struct {
	warehouse map[stockKey]int64
	branch    map[stockKey]int64

	readErr        error // falla de lectura (GetWarehouseStock / GetBranchStock)
	branchWriteErr error // falla en IncrementBranchStock
	compensateErr  error // falla en IncrementWarehouseStock (compensación)

	writes int // mutaciones intentadas, para verificar la garantía de no mutación
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{
		warehouse: map[stockKey]int64{},
		branch:    map[stockKey]int64{},
	}
}

func (f *fakeStockRepo) GetWarehouseStock(warehouseID, productID string) (*entity.WarehouseStock, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	qty, ok := f.warehouse[stockKey{warehouseID, productID}]
	if !ok {
		return nil, nil
	}
	return &entity.WarehouseStock{WarehouseID: warehouseID, ProductID: productID, CurrentStock: qty}, nil
}

func (f *fakeStockRepo) GetBranchStock(branchID, productID string) (*entity.BranchStock, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	qty, ok := f.branch[stockKey{branchID, productID}]
	if !ok {
		return nil, nil
	}
	return &entity.BranchStock{BranchID: branchID, ProductID: productID, CurrentStock: qty}, nil
}

func (f *fakeStockRepo) DecrementWarehouseStock(warehouseID, productID string, qty int64) (int64, int64, error) {
	f.writes++
	key := stockKey{warehouseID, productID}
	current, ok := f.warehouse[key]
	if !ok {
		return 0, 0, domain.ErrProductNotInWarehouse
	}
	if current < qty {
		return 0, 0, fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, current, qty)
	}
	f.warehouse[key] = current - qty
	return current, current - qty, nil
}

func (f *fakeStockRepo) IncrementWarehouseStock(warehouseID, productID string, qty int64) (int64, int64, error) {
	f.writes++
	if f.compensateErr != nil {
		return 0, 0, f.compensateErr
	}
	key := stockKey{warehouseID, productID}
	current := f.warehouse[key]
	f.warehouse[key] = current + qty
	return current, current + qty, nil
}

func (f *fakeStockRepo) IncrementBranchStock(branchID, productID string, qty int64) (int64, int64, bool, error) {
	f.writes++
	if f.branchWriteErr != nil {
		return 0, 0, false, f.branchWriteErr
	}
	key := stockKey{branchID, productID}
	current, existed := f.branch[key]
	f.branch[key] = current + qty
	return current, current + qty, !existed, nil
}

func (f *fakeStockRepo) ListWarehouseStock(warehouseID string, limit, offset int) ([]*entity.WarehouseStock, int, error) {
	return nil, 0, nil
}

func (f *fakeStockRepo) ListBranchStock(branchID string, limit, offset int) ([]*entity.BranchStock, int, error) {
	return nil, 0, nil
}

// fakeTxRepo acumula las filas de auditoría en memoria.
type fakeTxRepo struct {
	rows      []*entity.StockTransaction
	createErr error
}

func (f *fakeTxRepo) Create(tx *entity.StockTransaction) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.rows = append(f.rows, tx)
	return nil
}

func (f *fakeTxRepo) ListByReference(ref string) ([]*entity.StockTransaction, error) {
	var out []*entity.StockTransaction
	for _, r := range f.rows {
		if r.TransferReference == ref {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeTxRepo) ListByLocation(recordType, locationID string, limit, offset int) ([]*entity.StockTransaction, error) {
	return nil, nil
}

// fakeFallback simula la API paginada de solo lectura.
type fakeFallback struct {
	warehouseQty *int64
	branchQty    *int64
	err          error
}

func (f *fakeFallback) WarehouseStock(_ context.Context, warehouseID, productID string) (*entity.WarehouseStock, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.warehouseQty == nil {
		return nil, nil
	}
	return &entity.WarehouseStock{WarehouseID: warehouseID, ProductID: productID, CurrentStock: *f.warehouseQty}, nil
}

func (f *fakeFallback) BranchStock(_ context.Context, branchID, productID string) (*entity.BranchStock, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.branchQty == nil {
		return nil, nil
	}
	return &entity.BranchStock{BranchID: branchID, ProductID: productID, CurrentStock: *f.branchQty}, nil
}

// fixedModes resuelve los conmutadores con valores fijos para el test.
type fixedModes struct{ mode, access string }

func (m fixedModes) TransferMode() string { return m.mode }
func (m fixedModes) StockAccess() string  { return m.access }

func qty(v int64) *int64 { return &v }

func buildUseCase(stock *fakeStockRepo, txs *fakeTxRepo, fb transfer.FallbackStockReader, mode, access string) *transfer.UseCase {
	return transfer.NewUseCase(stock, txs, fb, fixedModes{mode: mode, access: access}, logger.Nop())
}

func validInput() transfer.TransferInput {
	return transfer.TransferInput{
		SourceWarehouseID:   testWarehouseID,
		DestinationBranchID: testBranchID,
		ProductID:           testProductID,
		Quantity:            30,
		RequestedBy:         testUserID,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Ejecución real (modo actual + acceso directo)
// ──────────────────────────────────────────────────────────────────────────────

// Caso nominal: bodega con 100 unidades, sucursal sin registro previo.
// Traslado de 30 debe dejar 70 en bodega, crear la fila de sucursal con 30 y
// los defaults, y producir dos filas de auditoría con la misma referencia.
func TestTransfer_Ejecucion_CasoNominal(t *testing.T) {
	stock := newFakeStockRepo()
	stock.warehouse[stockKey{testWarehouseID, testProductID}] = 100
	txs := &fakeTxRepo{}
	uc := buildUseCase(stock, txs, &fakeFallback{}, transfer.ModeActual, transfer.AccessDirect)

	res := uc.Transfer(context.Background(), validInput())

	require.True(t, res.Success, "el traslado nominal debe tener éxito: %s", res.Message)
	assert.Equal(t, dto.TransferModeExecuted, res.Mode)
	assert.Empty(t, res.ErrorCode)
	require.NotEmpty(t, res.TransferReference)
	assert.True(t, strings.HasPrefix(res.TransferReference, "TRF-"))

	// Estado de stock resultante
	assert.Equal(t, int64(70), stock.warehouse[stockKey{testWarehouseID, testProductID}])
	assert.Equal(t, int64(30), stock.branch[stockKey{testBranchID, testProductID}])
	assert.True(t, res.BranchRecordCreated, "la fila de sucursal debe crearse perezosamente")

	// Snapshots antes/después
	require.NotNil(t, res.WarehouseStockBefore)
	assert.Equal(t, int64(100), *res.WarehouseStockBefore)
	assert.Equal(t, int64(70), *res.WarehouseStockAfter)
	assert.Equal(t, int64(0), *res.BranchStockBefore)
	assert.Equal(t, int64(30), *res.BranchStockAfter)

	// Auditoría: exactamente dos filas correlacionadas por la referencia
	rows, err := txs.ListByReference(res.TransferReference)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	out, in := rows[0], rows[1]
	assert.Equal(t, entity.TxTypeStockOut, out.Type)
	assert.Equal(t, entity.RecordTypeWarehouse, out.RecordType)
	assert.Equal(t, int64(-30), out.QuantityDelta)
	assert.Equal(t, int64(100), out.PreviousStock)
	assert.Equal(t, int64(70), out.NewStock)
	assert.Equal(t, entity.TxTypeTransferIn, in.Type)
	assert.Equal(t, entity.RecordTypeBranch, in.RecordType)
	assert.Equal(t, int64(30), in.QuantityDelta)
	assert.Equal(t, int64(0), in.PreviousStock)
	assert.Equal(t, int64(30), in.NewStock)
	assert.Equal(t, out.TransferReference, in.TransferReference)
	assert.Equal(t, testUserID, out.PerformedBy)
}

// Un segundo traslado hacia la misma sucursal incrementa la fila existente.
func TestTransfer_Ejecucion_SucursalExistenteIncrementa(t *testing.T) {
	stock := newFakeStockRepo()
	stock.warehouse[stockKey{testWarehouseID, testProductID}] = 100
	stock.branch[stockKey{testBranchID, testProductID}] = 15
	txs := &fakeTxRepo{}
	uc := buildUseCase(stock, txs, &fakeFallback{}, transfer.ModeActual, transfer.AccessDirect)

	res := uc.Transfer(context.Background(), validInput())

	require.True(t, res.Success)
	assert.False(t, res.BranchRecordCreated)
	assert.Equal(t, int64(45), stock.branch[stockKey{testBranchID, testProductID}])
	assert.Equal(t, int64(15), *res.BranchStockBefore)
	assert.Equal(t, int64(45), *res.BranchStockAfter)
}

// Stock insuficiente en ejecución: el error llega mapeado y nada se muta.
func TestTransfer_Ejecucion_StockInsuficiente(t *testing.T) {
	stock := newFakeStockRepo()
	stock.warehouse[stockKey{testWarehouseID, testProductID}] = 10
	txs := &fakeTxRepo{}
	uc := buildUseCase(stock, txs, &fakeFallback{}, transfer.ModeActual, transfer.AccessDirect)

	res := uc.Transfer(context.Background(), validInput())

	require.False(t, res.Success)
	assert.Equal(t, dto.TransferCodeInsufficientStock, res.ErrorCode)
	assert.Contains(t, res.Message, "disponible 10, solicitado 30")
	assert.Equal(t, int64(10), stock.warehouse[stockKey{testWarehouseID, testProductID}])
	assert.Empty(t, txs.rows, "un traslado fallido no debe escribir auditoría")
}

// Producto inexistente en bodega en ejecución.
func TestTransfer_Ejecucion_ProductoNoEnBodega(t *testing.T) {
	stock := newFakeStockRepo()
	txs := &fakeTxRepo{}
	uc := buildUseCase(stock, txs, &fakeFallback{}, transfer.ModeActual, transfer.AccessDirect)

	res := uc.Transfer(context.Background(), validInput())

	require.False(t, res.Success)
	assert.Equal(t, dto.TransferCodeProductNotInWarehouse, res.ErrorCode)
	assert.Empty(t, txs.rows)
}

// ──────────────────────────────────────────────────────────────────────────────
// Compensación
// ──────────────────────────────────────────────────────────────────────────────

// La escritura en sucursal falla y la compensación restituye la bodega:
// el estado final debe ser idéntico al inicial.
func TestTransfer_CompensacionExitosa(t *testing.T) {
	stock := newFakeStockRepo()
	stock.warehouse[stockKey{testWarehouseID, testProductID}] = 100
	stock.branchWriteErr = errors.New("conexión perdida")
	txs := &fakeTxRepo{}
	uc := buildUseCase(stock, txs, &fakeFallback{}, transfer.ModeActual, transfer.AccessDirect)

	res := uc.Transfer(context.Background(), validInput())

	require.False(t, res.Success)
	assert.Equal(t, dto.TransferCodeStorageWriteFailed, res.ErrorCode)
	assert.Contains(t, res.Message, "se revirtió el decremento")
	assert.Equal(t, int64(100), stock.warehouse[stockKey{testWarehouseID, testProductID}],
		"la compensación debe restituir el stock de bodega")
	assert.NotContains(t, stock.branch, stockKey{testBranchID, testProductID})
	assert.Empty(t, txs.rows)
}

// La escritura en sucursal falla Y la compensación también: el resultado debe
// declarar la inconsistencia y la bodega queda decrementada.
func TestTransfer_CompensacionFallida(t *testing.T) {
	stock := newFakeStockRepo()
	stock.warehouse[stockKey{testWarehouseID, testProductID}] = 100
	stock.branchWriteErr = errors.New("conexión perdida")
	stock.compensateErr = errors.New("conexión sigue perdida")
	txs := &fakeTxRepo{}
	uc := buildUseCase(stock, txs, &fakeFallback{}, transfer.ModeActual, transfer.AccessDirect)

	res := uc.Transfer(context.Background(), validInput())

	require.False(t, res.Success)
	assert.Equal(t, dto.TransferCodeCompensationFailed, res.ErrorCode)
	assert.Contains(t, res.Message, "compensación")
	assert.Equal(t, int64(70), stock.warehouse[stockKey{testWarehouseID, testProductID}],
		"la bodega queda decrementada: inconsistencia declarada, no silenciosa")
}

// Falla de auditoría: el traslado se mantiene aplicado (el stock es
// autoritativo) y el resultado lleva la advertencia, no una reversión.
func TestTransfer_AuditoriaFallida_EsAdvertencia(t *testing.T) {
	stock := newFakeStockRepo()
	stock.warehouse[stockKey{testWarehouseID, testProductID}] = 100
	txs := &fakeTxRepo{createErr: errors.New("tabla de auditoría bloqueada")}
	uc := buildUseCase(stock, txs, &fakeFallback{}, transfer.ModeActual, transfer.AccessDirect)

	res := uc.Transfer(context.Background(), validInput())

	require.True(t, res.Success, "la falla de auditoría no revierte el traslado")
	assert.Equal(t, dto.TransferCodeAuditWriteFailed, res.ErrorCode)
	assert.NotEmpty(t, res.Warning)
	assert.Equal(t, int64(70), stock.warehouse[stockKey{testWarehouseID, testProductID}])
	assert.Equal(t, int64(30), stock.branch[stockKey{testBranchID, testProductID}])
}

// ──────────────────────────────────────────────────────────────────────────────
// Modo sombra y validación
// ──────────────────────────────────────────────────────────────────────────────

// En modo sombra no hay ninguna mutación, solo el veredicto de factibilidad.
func TestTransfer_ModoSombra_NoMuta(t *testing.T) {
	stock := newFakeStockRepo()
	stock.warehouse[stockKey{testWarehouseID, testProductID}] = 100
	txs := &fakeTxRepo{}
	uc := buildUseCase(stock, txs, &fakeFallback{}, transfer.ModeShadow, transfer.AccessDirect)

	res := uc.Transfer(context.Background(), validInput())

	require.True(t, res.Success)
	assert.Equal(t, dto.TransferModeValidatedOnly, res.Mode)
	assert.Empty(t, res.TransferReference)
	assert.Equal(t, int64(100), stock.warehouse[stockKey{testWarehouseID, testProductID}])
	assert.Zero(t, stock.writes, "modo sombra: cero escrituras en el almacén")
	assert.Empty(t, txs.rows)
	require.NotNil(t, res.WarehouseStock)
	assert.Equal(t, int64(100), *res.WarehouseStock)
	assert.Equal(t, int64(0), *res.BranchStock, "sucursal sin registro equivale a stock cero")
}

// La validación es idempotente: repetirla N veces da el mismo resultado y
// nunca escribe.
func TestValidate_Idempotente(t *testing.T) {
	stock := newFakeStockRepo()
	stock.warehouse[stockKey{testWarehouseID, testProductID}] = 100
	uc := buildUseCase(stock, &fakeTxRepo{}, &fakeFallback{}, transfer.ModeActual, transfer.AccessDirect)

	first := uc.Validate(context.Background(), validInput())
	for i := 0; i < 5; i++ {
		res := uc.Validate(context.Background(), validInput())
		assert.Equal(t, first, res)
	}
	assert.Zero(t, stock.writes)
}

// Validación con stock insuficiente reporta disponible y solicitado.
func TestValidate_StockInsuficiente(t *testing.T) {
	stock := newFakeStockRepo()
	stock.warehouse[stockKey{testWarehouseID, testProductID}] = 10
	uc := buildUseCase(stock, &fakeTxRepo{}, &fakeFallback{}, transfer.ModeActual, transfer.AccessDirect)

	res := uc.Validate(context.Background(), validInput())

	require.False(t, res.Success)
	assert.Equal(t, dto.TransferCodeInsufficientStock, res.ErrorCode)
	assert.Equal(t, dto.TransferModeValidatedOnly, res.Mode)
	assert.Contains(t, res.Message, "disponible 10, solicitado 30")
	require.NotNil(t, res.WarehouseStock)
	assert.Equal(t, int64(10), *res.WarehouseStock)
}

// Falla de lectura del almacén durante la validación.
func TestValidate_FallaDeLectura(t *testing.T) {
	stock := newFakeStockRepo()
	stock.readErr = errors.New("timeout")
	uc := buildUseCase(stock, &fakeTxRepo{}, &fakeFallback{}, transfer.ModeActual, transfer.AccessDirect)

	res := uc.Validate(context.Background(), validInput())

	require.False(t, res.Success)
	assert.Equal(t, dto.TransferCodeStorageReadFailed, res.ErrorCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ruta de consulta alternativa (fallback)
// ──────────────────────────────────────────────────────────────────────────────

// Acceso alternativo + modo real: se valida vía la API de solo lectura y NO se
// ejecuta ninguna mutación; el mensaje informa el modo legado. No es un error.
func TestTransfer_FallbackConModoReal_NoMuta(t *testing.T) {
	stock := newFakeStockRepo()
	stock.warehouse[stockKey{testWarehouseID, testProductID}] = 100
	txs := &fakeTxRepo{}
	fb := &fakeFallback{warehouseQty: qty(100)}
	uc := buildUseCase(stock, txs, fb, transfer.ModeActual, transfer.AccessFallback)

	res := uc.Transfer(context.Background(), validInput())

	require.True(t, res.Success)
	assert.Equal(t, dto.TransferModeValidatedOnly, res.Mode)
	assert.Contains(t, res.Message, "modo legado")
	assert.Zero(t, stock.writes)
	assert.Empty(t, txs.rows)
	assert.Equal(t, int64(100), stock.warehouse[stockKey{testWarehouseID, testProductID}])
}

// El producto no aparece en las páginas de la bodega.
func TestValidate_Fallback_ProductoNoAparece(t *testing.T) {
	fb := &fakeFallback{}
	uc := buildUseCase(newFakeStockRepo(), &fakeTxRepo{}, fb, transfer.ModeShadow, transfer.AccessFallback)

	res := uc.Validate(context.Background(), validInput())

	require.False(t, res.Success)
	assert.Equal(t, dto.TransferCodeProductNotInWarehouse, res.ErrorCode)
}

// Falla de red de la API alternativa se reporta como falla de lectura.
func TestValidate_Fallback_FallaDeRed(t *testing.T) {
	fb := &fakeFallback{err: errors.New("connection refused")}
	uc := buildUseCase(newFakeStockRepo(), &fakeTxRepo{}, fb, transfer.ModeShadow, transfer.AccessFallback)

	res := uc.Validate(context.Background(), validInput())

	require.False(t, res.Success)
	assert.Equal(t, dto.TransferCodeStorageReadFailed, res.ErrorCode)
}

// Sucursal ausente en la API alternativa equivale a stock cero.
func TestValidate_Fallback_SucursalAusenteEsCero(t *testing.T) {
	fb := &fakeFallback{warehouseQty: qty(50)}
	uc := buildUseCase(newFakeStockRepo(), &fakeTxRepo{}, fb, transfer.ModeShadow, transfer.AccessFallback)

	res := uc.Validate(context.Background(), validInput())

	require.True(t, res.Success)
	require.NotNil(t, res.BranchStock)
	assert.Equal(t, int64(0), *res.BranchStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación de entrada
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_EntradaInvalida(t *testing.T) {
	uc := buildUseCase(newFakeStockRepo(), &fakeTxRepo{}, &fakeFallback{}, transfer.ModeActual, transfer.AccessDirect)

	cases := []struct {
		name   string
		mutate func(*transfer.TransferInput)
	}{
		{"sin bodega origen", func(in *transfer.TransferInput) { in.SourceWarehouseID = "" }},
		{"sin sucursal destino", func(in *transfer.TransferInput) { in.DestinationBranchID = "" }},
		{"sin producto", func(in *transfer.TransferInput) { in.ProductID = "" }},
		{"cantidad cero", func(in *transfer.TransferInput) { in.Quantity = 0 }},
		{"cantidad negativa", func(in *transfer.TransferInput) { in.Quantity = -5 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			res := uc.Transfer(context.Background(), in)
			require.False(t, res.Success)
			assert.Equal(t, dto.TransferCodeInvalidRequest, res.ErrorCode)
		})
	}
}

// La referencia de traslado tiene el formato esperado y es única.
func TestNewTransferReference_FormatoYUnicidad(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		ref := transfer.NewTransferReference(time.Now())
		assert.Regexp(t, `^TRF-\d{14}-[0-9a-f]{8}$`, ref)
		assert.False(t, seen[ref], "las referencias no deben repetirse")
		seen[ref] = true
	}
}
