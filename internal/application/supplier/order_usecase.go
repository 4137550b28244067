package supplier

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

// OrderConfig políticas del ciclo de vida de órdenes.
type OrderConfig struct {
	ReceivePolicy       dsupplier.ReceivePolicy
	ReceivingLocationID string
	DefaultCurrency     string
	Tax                 dsupplier.TaxCalculator
}

// OrderUseCase casos de uso de órdenes de proveedor: creación, máquina de estados y libro de líneas.
type OrderUseCase struct {
	txRunner  TxRunner
	repos     repository.Repositories
	products  repository.ProductRepository
	locations repository.LocationRepository
	cfg       OrderConfig
	log       *logger.Logger
	now       func() time.Time
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	txRunner TxRunner,
	repos repository.Repositories,
	products repository.ProductRepository,
	locations repository.LocationRepository,
	cfg OrderConfig,
	log *logger.Logger,
) *OrderUseCase {
	if cfg.Tax == nil {
		cfg.Tax = dsupplier.ZeroTax{}
	}
	if cfg.ReceivePolicy == "" {
		cfg.ReceivePolicy = dsupplier.ReceivePolicyAnyReceipt
	}
	return &OrderUseCase{
		txRunner:  txRunner,
		repos:     repos,
		products:  products,
		locations: locations,
		cfg:       cfg,
		log:       log.Component("supplier_orders"),
		now:       time.Now,
	}
}

// CreateLineInput línea de una nueva orden. ProductID vacío = línea manual (requiere Title).
type CreateLineInput struct {
	ProductID    string
	SKU          string
	Title        string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	TaxRate      decimal.Decimal
	DiscountRate decimal.Decimal
}

// CreateOrderInput entrada para crear una orden de proveedor en draft.
type CreateOrderInput struct {
	SupplierID            string
	DestinationLocationID string
	Currency              string
	Notes                 string
	Lines                 []CreateLineInput
}

// CreateOrder valida proveedor y líneas, calcula totales y persiste orden + líneas en una transacción.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, actorID string, in CreateOrderInput) (*entity.Order, error) {
	if in.SupplierID == "" {
		return nil, domain.ValidationError("supplier_id requerido")
	}
	if len(in.Lines) == 0 {
		return nil, domain.ValidationError("la orden necesita al menos una línea")
	}
	sup, err := uc.repos.Suppliers.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("obtener proveedor: %w", err)
	}
	if sup == nil {
		return nil, domain.NotFoundError("proveedor", in.SupplierID)
	}
	if !sup.IsActive {
		return nil, domain.ValidationError("el proveedor %s está desactivado", sup.ID)
	}
	if sup.Type != entity.SupplierTypeStandard {
		return nil, domain.ValidationError("el proveedor %s es interno; use traslados", sup.ID)
	}

	now := uc.now()
	orderID := uuid.New().String()
	order := &entity.Order{
		ID:         orderID,
		DisplayID:  displayID("PO", orderID),
		SupplierID: sup.ID,
		Type:       entity.OrderTypeSupplier,
		Status:     entity.OrderStatusDraft,
		Currency:   firstNonEmpty(in.Currency, uc.cfg.DefaultCurrency),
		Notes:      in.Notes,
		CreatedBy:  actorID,
		Metadata:   map[string]any{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if in.DestinationLocationID != "" {
		loc, err := uc.locations.GetByID(ctx, in.DestinationLocationID)
		if err != nil {
			return nil, domain.External("locations", err)
		}
		if loc == nil {
			return nil, domain.NotFoundError("ubicación", in.DestinationLocationID)
		}
		order.DestinationLocationID = loc.ID
		order.DestinationLocationName = loc.Name
	}

	for i, li := range in.Lines {
		if !li.Quantity.IsPositive() {
			return nil, domain.ValidationError("línea %d: cantidad debe ser mayor que cero", i+1)
		}
		if li.UnitPrice.IsNegative() {
			return nil, domain.ValidationError("línea %d: precio unitario negativo", i+1)
		}
		title, sku := li.Title, li.SKU
		if li.ProductID == "" {
			if strings.TrimSpace(title) == "" {
				return nil, domain.ValidationError("línea %d: las líneas manuales requieren título", i+1)
			}
		} else {
			ref, err := uc.products.Resolve(ctx, li.ProductID)
			if err != nil {
				return nil, domain.External("products", err)
			}
			if ref == nil {
				return nil, domain.NotFoundError("producto", li.ProductID)
			}
			title = firstNonEmpty(title, ref.Title)
			sku = firstNonEmpty(sku, ref.SKU)
		}
		line := dsupplier.NewLine(orderID, li.ProductID, sku, title, li.Quantity, li.UnitPrice, now)
		line.ID = uuid.New().String()
		line.TaxRate = li.TaxRate
		line.DiscountRate = li.DiscountRate
		line.Metadata = map[string]any{}
		order.Lines = append(order.Lines, line)
	}
	dsupplier.RecalcOrderTotals(order, uc.cfg.Tax)

	err = uc.txRunner.Run(ctx, func(r repository.Repositories) error {
		if err := r.Orders.Create(ctx, order); err != nil {
			return err
		}
		for _, l := range order.Lines {
			if err := r.Lines.Create(ctx, l); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", order.ID).Str("supplier_id", sup.ID).Int("lines", len(order.Lines)).Msg("orden de proveedor creada")
	return order, nil
}

// GetOrder devuelve la orden con sus líneas.
func (uc *OrderUseCase) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	return loadOrder(ctx, uc.repos, id)
}

// ListOrders lista órdenes (sin líneas) con filtros opcionales.
func (uc *OrderUseCase) ListOrders(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, domain.ValidationError("estado desconocido %q", f.Status)
	}
	if f.Type != "" && !f.Type.Valid() {
		return nil, domain.ValidationError("tipo de orden desconocido %q", f.Type)
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	return uc.repos.Orders.List(ctx, f)
}

// OrderMovements movimientos del libro asociados a la orden.
func (uc *OrderUseCase) OrderMovements(ctx context.Context, orderID string) ([]*entity.InventoryMovement, error) {
	order, err := uc.repos.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.NotFoundError("orden", orderID)
	}
	return uc.repos.Movements.ListByOrder(ctx, orderID)
}

// UpdateOrderStatus valida la transición contra la tabla y aplica los efectos de entrada al estado.
// Los fallos de sincronización de stock se registran y no revierten el cambio de estado.
func (uc *OrderUseCase) UpdateOrderStatus(ctx context.Context, orderID string, next entity.OrderStatus, actorID string) (*entity.Order, error) {
	if !next.Valid() {
		return nil, domain.ValidationError("estado desconocido %q", next)
	}
	order, err := loadOrder(ctx, uc.repos, orderID)
	if err != nil {
		return nil, err
	}
	if err := dsupplier.CheckTransition(order.Status, next); err != nil {
		return nil, err
	}
	prev := order.Status
	applyStatus(order, next, actorID, uc.now())
	if err := uc.repos.Orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("actualizar estado: %w", err)
	}
	uc.log.Info().Str("order_id", order.ID).Str("from", string(prev)).Str("to", string(next)).Str("actor", actorID).Msg("estado de orden actualizado")

	if dsupplier.TriggersStockSync(next) {
		uc.syncStock(ctx, order, actorID)
	}
	return order, nil
}

// RecalcOrderTotals recalcula y persiste los totales desde las líneas actuales.
func (uc *OrderUseCase) RecalcOrderTotals(ctx context.Context, orderID string) (*entity.Order, error) {
	order, err := loadOrder(ctx, uc.repos, orderID)
	if err != nil {
		return nil, err
	}
	dsupplier.RecalcOrderTotals(order, uc.cfg.Tax)
	order.UpdatedAt = uc.now()
	if err := uc.repos.Orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("actualizar totales: %w", err)
	}
	return order, nil
}

// ReceiveLine registra la recepción de qty unidades en la línea y su movimiento supplier_receipt
// (misma transacción). Ese movimiento documenta la entrega y no mueve stock: el stock lo suma
// la sincronización por estado. Después reevalúa el estado de la orden según la política configurada.
func (uc *OrderUseCase) ReceiveLine(ctx context.Context, lineID string, qty decimal.Decimal, notes, actorID string) (*entity.OrderLine, error) {
	if !qty.IsPositive() {
		return nil, domain.ValidationError("la cantidad recibida debe ser mayor que cero")
	}
	line, order, err := uc.loadLine(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if order.Status == entity.OrderStatusCancelled {
		return nil, domain.ValidationError("la orden %s está cancelada", order.ID)
	}

	var itemID string
	if line.HasProduct() {
		ref, err := uc.products.Resolve(ctx, line.ProductID)
		if err != nil {
			return nil, domain.External("products", err)
		}
		if ref == nil {
			return nil, domain.NotFoundError("producto", line.ProductID)
		}
		itemID = ref.InventoryItemID
	}

	now := uc.now()
	if err := dsupplier.ApplyReceipt(line, qty, notes, now); err != nil {
		return nil, err
	}
	err = uc.txRunner.Run(ctx, func(r repository.Repositories) error {
		if err := r.Lines.Update(ctx, line); err != nil {
			return err
		}
		if !line.HasProduct() {
			return nil
		}
		return r.Movements.Create(ctx, &entity.InventoryMovement{
			ID:              uuid.New().String(),
			Type:            entity.MovementTypeSupplierReceipt,
			InventoryItemID: itemID,
			ProductID:       line.ProductID,
			Quantity:        qty,
			UnitCost:        line.UnitPrice,
			ToLocationID:    uc.receivingLocation(order),
			OrderID:         order.ID,
			OrderLineID:     line.ID,
			Notes:           notes,
			CreatedBy:       actorID,
			Metadata:        map[string]any{"source": "line_receipt", "stock_effect": false},
			CreatedAt:       now,
		})
	})
	if err != nil {
		return nil, err
	}

	if err := uc.advanceAfterReceipt(ctx, order, actorID); err != nil {
		return nil, err
	}
	return line, nil
}

// advanceAfterReceipt reevalúa la orden según la política de recepción y aplica el salto si procede.
// Un salto que la tabla no permite se registra y se omite.
func (uc *OrderUseCase) advanceAfterReceipt(ctx context.Context, order *entity.Order, actorID string) error {
	lines, err := uc.repos.Lines.ListByOrder(ctx, order.ID)
	if err != nil {
		return err
	}
	target := dsupplier.ReceiptTarget(uc.cfg.ReceivePolicy, order.Status, lines)
	if target == "" || target == order.Status {
		return nil
	}
	if _, err := uc.UpdateOrderStatus(ctx, order.ID, target, actorID); err != nil {
		if !errors.Is(err, domain.ErrInvalidStateTransition) {
			return err
		}
		uc.log.Warn().Err(err).Str("order_id", order.ID).Msg("recepción registrada sin cambiar el estado de la orden")
	}
	return nil
}

// CancelLine cancela una línea sin efectos en inventario y recalcula los totales de la orden
// en la misma transacción.
func (uc *OrderUseCase) CancelLine(ctx context.Context, lineID, notes, actorID string) (*entity.OrderLine, error) {
	line, order, err := uc.loadLine(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, domain.ValidationError("la orden %s está en estado %s", order.ID, order.Status)
	}
	now := uc.now()
	if err := dsupplier.CancelLine(line, notes, now); err != nil {
		return nil, err
	}
	err = uc.txRunner.Run(ctx, func(r repository.Repositories) error {
		if err := r.Lines.Update(ctx, line); err != nil {
			return err
		}
		lines, err := r.Lines.ListByOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		order.Lines = lines
		dsupplier.RecalcOrderTotals(order, uc.cfg.Tax)
		order.UpdatedAt = now
		return r.Orders.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", order.ID).Str("line_id", line.ID).Str("actor", actorID).Msg("línea cancelada")

	if order.Status == entity.OrderStatusShipped || order.Status == entity.OrderStatusPartiallyReceived {
		if err := uc.advanceAfterReceipt(ctx, order, actorID); err != nil {
			return nil, err
		}
	}
	return line, nil
}

// SetLineIncident marca o desmarca la incidencia de una línea. Si alguna línea queda en incidencia
// y la orden no es terminal, la orden pasa a incident sin pasar por la tabla de transiciones.
func (uc *OrderUseCase) SetLineIncident(ctx context.Context, lineID string, hasIncident bool, notes, actorID string) (*entity.OrderLine, error) {
	line, order, err := uc.loadLine(ctx, lineID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if err := dsupplier.ApplyIncident(line, hasIncident, notes, now); err != nil {
		return nil, err
	}
	var forcedFrom entity.OrderStatus
	err = uc.txRunner.Run(ctx, func(r repository.Repositories) error {
		if err := r.Lines.Update(ctx, line); err != nil {
			return fmt.Errorf("actualizar línea: %w", err)
		}
		lines, err := r.Lines.ListByOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		if !dsupplier.AnyIncident(lines) || order.Status.Terminal() || order.Status == entity.OrderStatusIncident {
			return nil
		}
		updated := *order
		updated.Status = entity.OrderStatusIncident
		updated.UpdatedAt = now
		if err := r.Orders.Update(ctx, &updated); err != nil {
			return fmt.Errorf("forzar incidencia: %w", err)
		}
		forcedFrom = order.Status
		return nil
	})
	if err != nil {
		return nil, err
	}
	if forcedFrom != "" {
		uc.log.Warn().Str("order_id", order.ID).Str("from", string(forcedFrom)).Str("line_id", line.ID).Str("actor", actorID).
			Msg("orden forzada a incident por línea con incidencia")
	}
	return line, nil
}

func (uc *OrderUseCase) loadLine(ctx context.Context, lineID string) (*entity.OrderLine, *entity.Order, error) {
	line, err := uc.repos.Lines.GetByID(ctx, lineID)
	if err != nil {
		return nil, nil, fmt.Errorf("obtener línea: %w", err)
	}
	if line == nil {
		return nil, nil, domain.NotFoundError("línea", lineID)
	}
	order, err := uc.repos.Orders.GetByID(ctx, line.OrderID)
	if err != nil {
		return nil, nil, fmt.Errorf("obtener orden: %w", err)
	}
	if order == nil {
		return nil, nil, domain.NotFoundError("orden", line.OrderID)
	}
	return line, order, nil
}

func (uc *OrderUseCase) receivingLocation(order *entity.Order) string {
	return firstNonEmpty(order.DestinationLocationID, uc.cfg.ReceivingLocationID)
}

// loadOrder obtiene la orden y adjunta sus líneas.
func loadOrder(ctx context.Context, repos repository.Repositories, id string) (*entity.Order, error) {
	order, err := repos.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener orden: %w", err)
	}
	if order == nil {
		return nil, domain.NotFoundError("orden", id)
	}
	lines, err := repos.Lines.ListByOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listar líneas: %w", err)
	}
	order.Lines = lines
	return order, nil
}

// applyStatus cambia el estado y sella los hitos correspondientes.
func applyStatus(order *entity.Order, next entity.OrderStatus, actorID string, now time.Time) {
	order.Status = next
	order.UpdatedAt = now
	switch next {
	case entity.OrderStatusConfirmed:
		order.ConfirmedAt = &now
	case entity.OrderStatusShipped:
		order.ShippedAt = &now
	case entity.OrderStatusReceived:
		order.ReceivedAt = &now
		order.ReceivedBy = actorID
	}
}

func displayID(prefix, id string) string {
	short := strings.ReplaceAll(id, "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	return prefix + "-" + strings.ToUpper(short)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
