package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Proveedores-api/internal/domain"
	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
	"github.com/jhoicas/Proveedores-api/internal/domain/repository"
	dsupplier "github.com/jhoicas/Proveedores-api/internal/domain/supplier"
	"github.com/jhoicas/Proveedores-api/pkg/logger"
)

// Nombres de los pasos de la saga de traslado.
const (
	StepEnsureTransferSupplier = "ensure-transfer-supplier"
	StepCreateTransferOrder    = "create-transfer-order-and-line"
	StepExecuteStockTransfer   = "execute-stock-transfer"
	StepMarkShipped            = "mark-shipped"
)

// TransferUseCase mueve stock entre dos ubicaciones como una orden sintética contra el
// proveedor virtual de traslados, con compensación de cada paso ante fallos.
type TransferUseCase struct {
	txRunner  TxRunner
	repos     repository.Repositories
	products  repository.ProductRepository
	locations repository.LocationRepository
	currency  string
	log       *logger.Logger
	now       func() time.Time
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(
	txRunner TxRunner,
	repos repository.Repositories,
	products repository.ProductRepository,
	locations repository.LocationRepository,
	currency string,
	log *logger.Logger,
) *TransferUseCase {
	return &TransferUseCase{
		txRunner:  txRunner,
		repos:     repos,
		products:  products,
		locations: locations,
		currency:  currency,
		log:       log.Component("stock_transfer"),
		now:       time.Now,
	}
}

// TransferInput entrada del traslado. InventoryItemID puede omitirse: se resuelve desde el producto.
type TransferInput struct {
	InventoryItemID string
	ProductID       string
	FromLocationID  string
	ToLocationID    string
	Quantity        decimal.Decimal
	ActorID         string
}

// StockSnapshot stock en origen y destino.
type StockSnapshot struct {
	Source      decimal.Decimal
	Destination decimal.Decimal
}

// TransferResult resultado de un traslado exitoso.
type TransferResult struct {
	TransferID  string
	Order       *entity.Order
	StockBefore StockSnapshot
	StockAfter  StockSnapshot
}

// TransferValidation resultado de la validación consultiva.
type TransferValidation struct {
	InventoryItemID string
	Available       decimal.Decimal
	Requested       decimal.Decimal
	From            *entity.StockLocation
	To              *entity.StockLocation
	Product         *entity.ProductRef
}

// ValidateTransfer valida entrada, ubicaciones, producto y stock disponible en origen.
// Es consultiva: la saga vuelve a verificar el stock bajo bloqueo antes de moverlo.
func (uc *TransferUseCase) ValidateTransfer(ctx context.Context, in TransferInput) (*TransferValidation, error) {
	if in.ProductID == "" || in.FromLocationID == "" || in.ToLocationID == "" {
		return nil, domain.ValidationError("product_id, from_location_id y to_location_id son requeridos")
	}
	if in.FromLocationID == in.ToLocationID {
		return nil, domain.ValidationError("origen y destino deben ser distintos")
	}
	if !in.Quantity.IsPositive() {
		return nil, domain.ValidationError("la cantidad debe ser mayor que cero")
	}

	product, err := uc.products.Resolve(ctx, in.ProductID)
	if err != nil {
		return nil, domain.External("products", err)
	}
	if product == nil {
		return nil, domain.NotFoundError("producto", in.ProductID)
	}
	if in.InventoryItemID != "" && in.InventoryItemID != product.InventoryItemID {
		return nil, domain.ValidationError("el ítem %s no corresponde al producto %s", in.InventoryItemID, in.ProductID)
	}
	from, err := uc.location(ctx, in.FromLocationID)
	if err != nil {
		return nil, err
	}
	to, err := uc.location(ctx, in.ToLocationID)
	if err != nil {
		return nil, err
	}

	level, err := uc.repos.Levels.Get(ctx, product.InventoryItemID, from.ID)
	if err != nil {
		return nil, domain.External("inventory", err)
	}
	available := decimal.Zero
	if level != nil {
		available = level.StockedQuantity
	}
	v := &TransferValidation{
		InventoryItemID: product.InventoryItemID,
		Available:       available,
		Requested:       in.Quantity,
		From:            from,
		To:              to,
		Product:         product,
	}
	if available.LessThan(in.Quantity) {
		return v, fmt.Errorf("%w: disponible %s, solicitado %s", domain.ErrInsufficientStock, available, in.Quantity)
	}
	return v, nil
}

func (uc *TransferUseCase) location(ctx context.Context, id string) (*entity.StockLocation, error) {
	loc, err := uc.locations.GetByID(ctx, id)
	if err != nil {
		return nil, domain.External("locations", err)
	}
	if loc == nil {
		return nil, domain.NotFoundError("ubicación", id)
	}
	return loc, nil
}

// transferRun estado compartido entre los pasos de una ejecución.
type transferRun struct {
	id         string
	in         TransferInput
	validation *TransferValidation
	now        time.Time

	supplier *entity.Supplier
	order    *entity.Order
	line     *entity.OrderLine
	before   StockSnapshot
	after    StockSnapshot
}

// TransferStock ejecuta la saga de traslado. Ante un fallo compensa los pasos confirmados
// en orden inverso y devuelve el error original (errors.Is funciona a través de *StepError).
func (uc *TransferUseCase) TransferStock(ctx context.Context, in TransferInput) (*TransferResult, error) {
	v, err := uc.ValidateTransfer(ctx, in)
	if err != nil {
		return nil, err
	}
	run := &transferRun{
		id:         uuid.New().String(),
		in:         in,
		validation: v,
		now:        uc.now(),
	}
	log := uc.log.With().Str("transfer_id", run.id).Logger()
	saga := NewSaga("stock_transfer", uc.log,
		Step{Name: StepEnsureTransferSupplier, Execute: func(ctx context.Context) (Compensation, error) {
			return uc.ensureTransferSupplier(ctx, run)
		}},
		Step{Name: StepCreateTransferOrder, Execute: func(ctx context.Context) (Compensation, error) {
			return uc.createTransferOrder(ctx, run)
		}},
		Step{Name: StepExecuteStockTransfer, Execute: func(ctx context.Context) (Compensation, error) {
			return uc.executeStockTransfer(ctx, run)
		}},
		Step{Name: StepMarkShipped, Execute: func(ctx context.Context) (Compensation, error) {
			return uc.markShipped(ctx, run)
		}},
	)
	if err := saga.Run(ctx); err != nil {
		log.Error().Err(err).Msg("traslado fallido")
		return nil, err
	}
	log.Info().
		Str("inventory_item_id", v.InventoryItemID).
		Str("from", v.From.ID).
		Str("to", v.To.ID).
		Str("quantity", in.Quantity.String()).
		Msg("traslado completado")

	run.order.Lines = []*entity.OrderLine{run.line}
	return &TransferResult{
		TransferID:  run.id,
		Order:       run.order,
		StockBefore: run.before,
		StockAfter:  run.after,
	}, nil
}

// ensureTransferSupplier obtiene o crea el proveedor virtual. Si lo crea (o lo reactiva)
// la compensación lo desactiva; si ya existía activo no hay nada que deshacer.
func (uc *TransferUseCase) ensureTransferSupplier(ctx context.Context, run *transferRun) (Compensation, error) {
	sup, err := uc.repos.Suppliers.GetByCode(ctx, entity.TransferSupplierCode)
	if err != nil {
		return nil, err
	}
	if sup != nil && sup.IsActive {
		run.supplier = sup
		return nil, nil
	}
	if sup != nil {
		sup.IsActive = true
		sup.UpdatedAt = run.now
		if err := uc.repos.Suppliers.Update(ctx, sup); err != nil {
			return nil, err
		}
		run.supplier = sup
		return uc.deactivateSupplier(sup), nil
	}

	sup = &entity.Supplier{
		ID:        uuid.New().String(),
		Code:      entity.TransferSupplierCode,
		Name:      "Traslados internos",
		LegalName: "Traslados internos",
		Type:      entity.SupplierTypeInternalTransfer,
		IsActive:  true,
		Metadata:  map[string]any{"virtual": true},
		CreatedAt: run.now,
		UpdatedAt: run.now,
	}
	if err := uc.repos.Suppliers.Create(ctx, sup); err != nil {
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
		// otra invocación lo creó primero
		existing, gerr := uc.repos.Suppliers.GetByCode(ctx, entity.TransferSupplierCode)
		if gerr != nil || existing == nil {
			return nil, err
		}
		run.supplier = existing
		return nil, nil
	}
	run.supplier = sup
	return uc.deactivateSupplier(sup), nil
}

func (uc *TransferUseCase) deactivateSupplier(sup *entity.Supplier) Compensation {
	return func(ctx context.Context) error {
		current, err := uc.repos.Suppliers.GetByID(ctx, sup.ID)
		if err != nil {
			return err
		}
		if current == nil {
			return nil
		}
		current.IsActive = false
		current.UpdatedAt = uc.now()
		return uc.repos.Suppliers.Update(ctx, current)
	}
}

// createTransferOrder crea la orden de traslado (confirmed) y su única línea a precio cero.
func (uc *TransferUseCase) createTransferOrder(ctx context.Context, run *transferRun) (Compensation, error) {
	v := run.validation
	orderID := uuid.New().String()
	order := &entity.Order{
		ID:                      orderID,
		DisplayID:               "TR-" + strings.ToUpper(strings.ReplaceAll(orderID, "-", "")[:8]),
		SupplierID:              run.supplier.ID,
		Type:                    entity.OrderTypeTransfer,
		Status:                  entity.OrderStatusConfirmed,
		Currency:                uc.currency,
		SourceLocationID:        v.From.ID,
		SourceLocationName:      v.From.Name,
		DestinationLocationID:   v.To.ID,
		DestinationLocationName: v.To.Name,
		CreatedBy:               run.in.ActorID,
		ConfirmedAt:             &run.now,
		Metadata:                map[string]any{"transfer_id": run.id, "inventory_item_id": v.InventoryItemID},
		CreatedAt:               run.now,
		UpdatedAt:               run.now,
	}
	line := dsupplier.NewLine(orderID, v.Product.ProductID, v.Product.SKU, v.Product.Title, run.in.Quantity, decimal.Zero, run.now)
	line.ID = uuid.New().String()
	line.Metadata = map[string]any{"transfer_id": run.id}
	order.Lines = []*entity.OrderLine{line}
	dsupplier.RecalcOrderTotals(order, nil)

	err := uc.txRunner.Run(ctx, func(r repository.Repositories) error {
		if err := r.Orders.Create(ctx, order); err != nil {
			return err
		}
		return r.Lines.Create(ctx, line)
	})
	if err != nil {
		return nil, err
	}
	run.order = order
	run.line = line
	return func(ctx context.Context) error {
		return uc.txRunner.Run(ctx, func(r repository.Repositories) error {
			if err := r.Lines.DeleteByOrder(ctx, order.ID); err != nil {
				return err
			}
			return r.Orders.Delete(ctx, order.ID)
		})
	}, nil
}

// executeStockTransfer descuenta origen, suma destino (creando el nivel si no existe) y escribe
// transfer_out/transfer_in en una sola transacción con las filas bloqueadas.
func (uc *TransferUseCase) executeStockTransfer(ctx context.Context, run *transferRun) (Compensation, error) {
	itemID := run.validation.InventoryItemID
	fromID, toID := run.validation.From.ID, run.validation.To.ID
	qty := run.in.Quantity
	var destCreated bool

	err := uc.txRunner.Run(ctx, func(r repository.Repositories) error {
		src, err := r.Levels.GetForUpdate(ctx, itemID, fromID)
		if err != nil {
			return domain.External("inventory", err)
		}
		// segunda verificación: la validación previa pudo leer un stock ya desactualizado
		if src == nil || src.StockedQuantity.LessThan(qty) {
			available := decimal.Zero
			if src != nil {
				available = src.StockedQuantity
			}
			return fmt.Errorf("%w: disponible %s, solicitado %s", domain.ErrInsufficientStock, available, qty)
		}
		dst, err := r.Levels.GetForUpdate(ctx, itemID, toID)
		if err != nil {
			return domain.External("inventory", err)
		}

		run.before.Source = src.StockedQuantity
		src.StockedQuantity = src.StockedQuantity.Sub(qty)
		src.UpdatedAt = run.now
		if err := r.Levels.Update(ctx, src); err != nil {
			return domain.External("inventory", err)
		}

		if dst == nil {
			destCreated = true
			run.before.Destination = decimal.Zero
			dst = &entity.InventoryLevel{
				ID:               uuid.New().String(),
				InventoryItemID:  itemID,
				LocationID:       toID,
				StockedQuantity:  qty,
				ReservedQuantity: decimal.Zero,
				CreatedAt:        run.now,
				UpdatedAt:        run.now,
			}
			if err := r.Levels.Create(ctx, dst); err != nil {
				return domain.External("inventory", err)
			}
		} else {
			run.before.Destination = dst.StockedQuantity
			dst.StockedQuantity = dst.StockedQuantity.Add(qty)
			dst.UpdatedAt = run.now
			if err := r.Levels.Update(ctx, dst); err != nil {
				return domain.External("inventory", err)
			}
		}
		run.after = StockSnapshot{Source: src.StockedQuantity, Destination: dst.StockedQuantity}

		if err := r.Movements.Create(ctx, uc.transferMovement(run, entity.MovementTypeTransferOut, qty.Neg(), fromID)); err != nil {
			return err
		}
		return r.Movements.Create(ctx, uc.transferMovement(run, entity.MovementTypeTransferIn, qty, toID))
	})
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) error {
		return uc.reverseStockTransfer(ctx, run, destCreated)
	}, nil
}

func (uc *TransferUseCase) transferMovement(run *transferRun, typ entity.MovementType, qty decimal.Decimal, locationID string) *entity.InventoryMovement {
	m := &entity.InventoryMovement{
		ID:              uuid.New().String(),
		Type:            typ,
		InventoryItemID: run.validation.InventoryItemID,
		ProductID:       run.in.ProductID,
		Quantity:        qty,
		UnitCost:        decimal.Zero,
		FromLocationID:  run.validation.From.ID,
		ToLocationID:    run.validation.To.ID,
		OrderID:         run.order.ID,
		OrderLineID:     run.line.ID,
		TransferID:      run.id,
		CreatedBy:       run.in.ActorID,
		Metadata:        map[string]any{"location_id": locationID},
		CreatedAt:       run.now,
	}
	return m
}

// reverseStockTransfer devuelve el stock a su estado previo: suma en origen, resta en destino
// (eliminando el nivel si lo creó el traslado y quedó en cero) y agrega movimientos de reversa;
// el libro nunca se borra.
func (uc *TransferUseCase) reverseStockTransfer(ctx context.Context, run *transferRun, destCreated bool) error {
	itemID := run.validation.InventoryItemID
	fromID, toID := run.validation.From.ID, run.validation.To.ID
	qty := run.in.Quantity
	now := uc.now()

	return uc.txRunner.Run(ctx, func(r repository.Repositories) error {
		src, err := r.Levels.GetForUpdate(ctx, itemID, fromID)
		if err != nil {
			return err
		}
		dst, err := r.Levels.GetForUpdate(ctx, itemID, toID)
		if err != nil {
			return err
		}
		if src == nil || dst == nil {
			return fmt.Errorf("revertir traslado %s: nivel de stock inexistente", run.id)
		}

		src.StockedQuantity = src.StockedQuantity.Add(qty)
		src.UpdatedAt = now
		if err := r.Levels.Update(ctx, src); err != nil {
			return err
		}
		dst.StockedQuantity = dst.StockedQuantity.Sub(qty)
		dst.UpdatedAt = now
		if destCreated && dst.StockedQuantity.IsZero() {
			if err := r.Levels.Delete(ctx, dst.ID); err != nil {
				return err
			}
		} else if err := r.Levels.Update(ctx, dst); err != nil {
			return err
		}

		for _, m := range []*entity.InventoryMovement{
			uc.transferMovement(run, entity.MovementTypeAdjustment, qty, fromID),
			uc.transferMovement(run, entity.MovementTypeAdjustment, qty.Neg(), toID),
		} {
			m.CreatedAt = now
			m.Notes = "reversa de traslado"
			m.Metadata["compensation"] = true
			if err := r.Movements.Create(ctx, m); err != nil {
				return err
			}
		}
		return nil
	})
}

// markShipped pasa la orden de traslado a shipped. Es el último paso: no registra compensación.
func (uc *TransferUseCase) markShipped(ctx context.Context, run *transferRun) (Compensation, error) {
	if err := dsupplier.CheckTransition(run.order.Status, entity.OrderStatusShipped); err != nil {
		return nil, err
	}
	updated := *run.order
	updated.Lines = nil
	updated.Status = entity.OrderStatusShipped
	updated.ShippedAt = &run.now
	updated.UpdatedAt = run.now
	if err := uc.repos.Orders.Update(ctx, &updated); err != nil {
		return nil, err
	}
	*run.order = updated
	return nil, nil
}
