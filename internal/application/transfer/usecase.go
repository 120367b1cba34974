package transfer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/farmacia-pms/internal/application/dto"
	"github.com/jhoicas/farmacia-pms/internal/domain"
	"github.com/jhoicas/farmacia-pms/internal/domain/entity"
	"github.com/jhoicas/farmacia-pms/internal/domain/repository"
	"github.com/jhoicas/farmacia-pms/pkg/logger"
)

// TransferInput entrada del motor de traslados (objeto valor efímero,
// no se persiste por sí mismo).
type TransferInput struct {
	SourceWarehouseID   string
	DestinationBranchID string
	ProductID           string
	Quantity            int64
	RequestedBy         string
	Notes               string
}

// UseCase orquesta el traslado bodega → sucursal: despacho de modo
// (sombra/real, directo/alternativo), validación, ejecución con compensación
// y escritura del log de auditoría.
//
// Las dos escrituras de stock son operaciones independientes de un solo
// registro: no hay frontera transaccional multi-registro, por eso el paso de
// sucursal compensa el decremento de bodega si falla. Los decrementos e
// incrementos son atómicos y condicionados en el almacén, de modo que
// traslados concurrentes sobre el mismo registro no pierden actualizaciones.
type UseCase struct {
	stockRepo repository.StockRepository
	txRepo    repository.StockTransactionRepository
	fallback  FallbackStockReader
	modes     ModeResolver
	log       *logger.Logger
}

// NewUseCase construye el motor de traslados.
func NewUseCase(
	stockRepo repository.StockRepository,
	txRepo repository.StockTransactionRepository,
	fallback FallbackStockReader,
	modes ModeResolver,
	log *logger.Logger,
) *UseCase {
	return &UseCase{stockRepo: stockRepo, txRepo: txRepo, fallback: fallback, modes: modes, log: log}
}

// Transfer ejecuta un traslado según los dos conmutadores externos, releídos
// en esta llamada:
//   - sombra:  solo validación, garantía de no mutación.
//   - real:    validación y luego ejecución.
//   - directo: contra el almacén canónico de stock.
//   - alternativo: validación de solo lectura vía API paginada; NUNCA muta,
//     incluso si el modo pedido es real (se informa como modo legado).
//
// Toda falla se devuelve como resultado estructurado, jamás como panic.
func (uc *UseCase) Transfer(ctx context.Context, in TransferInput) *dto.TransferResult {
	if res := checkInput(in); res != nil {
		return res
	}
	mode := uc.modes.TransferMode()
	access := uc.modes.StockAccess()

	if access == AccessFallback {
		res := uc.validateFallback(ctx, in)
		if mode == ModeActual && res.Success {
			// Hay intención de ejecutar pero solo existe acceso de lectura:
			// se devuelve la validación y no se muta nada. No es un error.
			res.Message = "modo legado: validación exitosa; sin acceso directo al almacén no se ejecuta ninguna mutación"
		}
		return res
	}

	res := uc.validateDirect(in)
	if !res.Success || mode == ModeShadow {
		return res
	}
	return uc.execute(in)
}

// Validate ejecuta únicamente la fase de validación (idempotente: solo lee).
// Respeta el conmutador de acceso directo/alternativo.
func (uc *UseCase) Validate(ctx context.Context, in TransferInput) *dto.TransferResult {
	if res := checkInput(in); res != nil {
		return res
	}
	if uc.modes.StockAccess() == AccessFallback {
		return uc.validateFallback(ctx, in)
	}
	return uc.validateDirect(in)
}

// validateDirect determina la factibilidad contra el almacén canónico,
// sin escribir bajo ninguna circunstancia.
func (uc *UseCase) validateDirect(in TransferInput) *dto.TransferResult {
	ws, err := uc.stockRepo.GetWarehouseStock(in.SourceWarehouseID, in.ProductID)
	if err != nil {
		return validationFailure(dto.TransferCodeStorageReadFailed,
			fmt.Sprintf("lectura de stock de bodega: %v", err))
	}
	if ws == nil {
		return validationFailure(dto.TransferCodeProductNotInWarehouse,
			"el producto no existe en la bodega central")
	}
	if ws.CurrentStock < in.Quantity {
		res := validationFailure(dto.TransferCodeInsufficientStock,
			fmt.Sprintf("stock insuficiente en bodega: disponible %d, solicitado %d", ws.CurrentStock, in.Quantity))
		res.WarehouseStock = i64(ws.CurrentStock)
		return res
	}

	// La ausencia del registro de sucursal no es error: significa que la
	// sucursal hoy tiene stock cero de ese producto.
	var branchQty int64
	bs, err := uc.stockRepo.GetBranchStock(in.DestinationBranchID, in.ProductID)
	if err != nil {
		return validationFailure(dto.TransferCodeStorageReadFailed,
			fmt.Sprintf("lectura de stock de sucursal: %v", err))
	}
	if bs != nil {
		branchQty = bs.CurrentStock
	}

	res := &dto.TransferResult{
		Success:        true,
		Mode:           dto.TransferModeValidatedOnly,
		Message:        "validación exitosa: el traslado es factible",
		WarehouseStock: i64(ws.CurrentStock),
		BranchStock:    i64(branchQty),
	}
	return res
}

// validateFallback reimplementa la validación contra la API paginada de solo
// lectura, con la misma forma de resultado que la validación directa.
func (uc *UseCase) validateFallback(ctx context.Context, in TransferInput) *dto.TransferResult {
	ws, err := uc.fallback.WarehouseStock(ctx, in.SourceWarehouseID, in.ProductID)
	if err != nil {
		return validationFailure(dto.TransferCodeStorageReadFailed,
			fmt.Sprintf("consulta de stock de bodega (ruta alternativa): %v", err))
	}
	if ws == nil {
		return validationFailure(dto.TransferCodeProductNotInWarehouse,
			"el producto no aparece en el stock de la bodega central")
	}
	if ws.CurrentStock < in.Quantity {
		res := validationFailure(dto.TransferCodeInsufficientStock,
			fmt.Sprintf("stock insuficiente en bodega: disponible %d, solicitado %d", ws.CurrentStock, in.Quantity))
		res.WarehouseStock = i64(ws.CurrentStock)
		return res
	}

	var branchQty int64
	bs, err := uc.fallback.BranchStock(ctx, in.DestinationBranchID, in.ProductID)
	if err != nil {
		return validationFailure(dto.TransferCodeStorageReadFailed,
			fmt.Sprintf("consulta de stock de sucursal (ruta alternativa): %v", err))
	}
	if bs != nil {
		branchQty = bs.CurrentStock
	}

	return &dto.TransferResult{
		Success:        true,
		Mode:           dto.TransferModeValidatedOnly,
		Message:        "validación exitosa: el traslado es factible",
		WarehouseStock: i64(ws.CurrentStock),
		BranchStock:    i64(branchQty),
	}
}

// execute aplica el cambio de estado completo. La revalidación ocurre dentro
// del decremento atómico condicionado (current_stock >= qty) sobre datos
// recién leídos, así que una carrera entre validación y ejecución no puede
// dejar stock negativo.
func (uc *UseCase) execute(in TransferInput) *dto.TransferResult {
	// Paso 1: decremento en bodega. Si falla aquí no se mutó nada todavía,
	// no hay compensación pendiente.
	prevW, newW, err := uc.stockRepo.DecrementWarehouseStock(in.SourceWarehouseID, in.ProductID, in.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProductNotInWarehouse):
			return executionFailure(dto.TransferCodeProductNotInWarehouse,
				"el producto no existe en la bodega central")
		case errors.Is(err, domain.ErrInsufficientStock):
			return executionFailure(dto.TransferCodeInsufficientStock,
				fmt.Sprintf("stock insuficiente en bodega para trasladar %d unidades", in.Quantity))
		default:
			return executionFailure(dto.TransferCodeStorageWriteFailed,
				fmt.Sprintf("decremento de stock en bodega: %v", err))
		}
	}

	// Paso 2: incremento (o creación con defaults) en sucursal. Si falla,
	// compensar: devolver a la bodega lo decrementado.
	prevB, newB, created, err := uc.stockRepo.IncrementBranchStock(in.DestinationBranchID, in.ProductID, in.Quantity)
	if err != nil {
		if _, _, compErr := uc.stockRepo.IncrementWarehouseStock(in.SourceWarehouseID, in.ProductID, in.Quantity); compErr != nil {
			// Falla de consistencia que no se puede resolver localmente: la
			// bodega quedó decrementada y la sucursal nunca fue acreditada.
			uc.log.Error().Err(compErr).
				Str("warehouse_id", in.SourceWarehouseID).
				Str("branch_id", in.DestinationBranchID).
				Str("product_id", in.ProductID).
				Int64("quantity", in.Quantity).
				Msg("compensación fallida: bodega decrementada sin acreditar en sucursal")
			return executionFailure(dto.TransferCodeCompensationFailed,
				fmt.Sprintf("la escritura en sucursal falló (%v) y la compensación también: la bodega quedó decrementada sin acreditar en sucursal", err))
		}
		return executionFailure(dto.TransferCodeStorageWriteFailed,
			fmt.Sprintf("la escritura en sucursal falló (%v); se revirtió el decremento de bodega", err))
	}

	// Paso 3: auditoría, dos filas correlacionadas por la referencia.
	// Un fallo aquí NO revierte el stock: el estado de stock es autoritativo
	// y el hueco de auditoría se reporta como advertencia.
	now := time.Now()
	ref := NewTransferReference(now)
	rows := []*entity.StockTransaction{
		{
			RecordType:        entity.RecordTypeWarehouse,
			LocationID:        in.SourceWarehouseID,
			ProductID:         in.ProductID,
			Type:              entity.TxTypeStockOut,
			QuantityDelta:     -in.Quantity,
			PreviousStock:     prevW,
			NewStock:          newW,
			PerformedBy:       in.RequestedBy,
			TransferReference: ref,
			Notes:             in.Notes,
			CreatedAt:         now,
		},
		{
			RecordType:        entity.RecordTypeBranch,
			LocationID:        in.DestinationBranchID,
			ProductID:         in.ProductID,
			Type:              entity.TxTypeTransferIn,
			QuantityDelta:     in.Quantity,
			PreviousStock:     prevB,
			NewStock:          newB,
			PerformedBy:       in.RequestedBy,
			TransferReference: ref,
			Notes:             in.Notes,
			CreatedAt:         now,
		},
	}
	var auditErr error
	for _, row := range rows {
		if err := uc.txRepo.Create(row); err != nil && auditErr == nil {
			auditErr = err
		}
	}

	res := &dto.TransferResult{
		Success:              true,
		Mode:                 dto.TransferModeExecuted,
		Message:              fmt.Sprintf("traslado %s ejecutado: %d unidades de %s hacia la sucursal %s", ref, in.Quantity, in.ProductID, in.DestinationBranchID),
		TransferReference:    ref,
		WarehouseStockBefore: i64(prevW),
		WarehouseStockAfter:  i64(newW),
		BranchStockBefore:    i64(prevB),
		BranchStockAfter:     i64(newB),
		BranchRecordCreated:  created,
	}
	if auditErr != nil {
		uc.log.Warn().Err(auditErr).
			Str("transfer_reference", ref).
			Msg("traslado aplicado con auditoría incompleta")
		res.ErrorCode = dto.TransferCodeAuditWriteFailed
		res.Warning = fmt.Sprintf("el traslado se aplicó pero el log de auditoría quedó incompleto: %v", auditErr)
		return res
	}

	uc.log.Info().
		Str("transfer_reference", ref).
		Str("warehouse_id", in.SourceWarehouseID).
		Str("branch_id", in.DestinationBranchID).
		Str("product_id", in.ProductID).
		Int64("quantity", in.Quantity).
		Str("requested_by", in.RequestedBy).
		Msg("traslado ejecutado")
	return res
}

// checkInput valida la forma de la petición; nil si es válida.
func checkInput(in TransferInput) *dto.TransferResult {
	switch {
	case in.SourceWarehouseID == "", in.DestinationBranchID == "", in.ProductID == "":
		return executionFailure(dto.TransferCodeInvalidRequest,
			"bodega origen, sucursal destino y producto son obligatorios")
	case in.Quantity <= 0:
		return executionFailure(dto.TransferCodeInvalidRequest,
			"la cantidad a trasladar debe ser un entero positivo")
	}
	return nil
}

// validationFailure resultado fallido de la fase de validación (solo lectura).
func validationFailure(code, msg string) *dto.TransferResult {
	return &dto.TransferResult{
		Success:   false,
		Mode:      dto.TransferModeValidatedOnly,
		Message:   msg,
		ErrorCode: code,
	}
}

// executionFailure resultado fallido sin reclamo de modo (nada quedó ejecutado,
// salvo el caso COMPENSATION_FAILED que se documenta en el mensaje).
func executionFailure(code, msg string) *dto.TransferResult {
	return &dto.TransferResult{
		Success:   false,
		Message:   msg,
		ErrorCode: code,
	}
}

func i64(v int64) *int64 { return &v }
