// Package ordering implementa el checkout: crear la orden, descontar el
// inventario, emitir la factura y, si se pide, encolar el recibo.
package ordering

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/slipsync/slipsync-api/internal/application/dto"
	"github.com/slipsync/slipsync-api/internal/application/printing"
	"github.com/slipsync/slipsync-api/internal/application/storectx"
	"github.com/slipsync/slipsync-api/internal/domain"
	"github.com/slipsync/slipsync-api/internal/domain/authz"
	"github.com/slipsync/slipsync-api/internal/domain/entity"
	"github.com/slipsync/slipsync-api/internal/domain/repository"
)

// OrderUseCase casos de uso de órdenes de venta.
type OrderUseCase struct {
	txRunner     OrderTxRunner
	orderRepo    repository.OrderRepository
	invoiceRepo  repository.InvoiceRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	jobUC        *printing.JobUseCase
	log          zerolog.Logger
}

// NewOrderUseCase construye el caso de uso de órdenes.
func NewOrderUseCase(
	txRunner OrderTxRunner,
	orderRepo repository.OrderRepository,
	invoiceRepo repository.InvoiceRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	jobUC *printing.JobUseCase,
	log zerolog.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		txRunner:     txRunner,
		orderRepo:    orderRepo,
		invoiceRepo:  invoiceRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		jobUC:        jobUC,
		log:          log,
	}
}

// resolvedLine línea ya validada con su variante y totales congelados.
type resolvedLine struct {
	variant *entity.ProductVariant
	product *entity.Product
	qty     int
	total   decimal.Decimal
}

// CreateOrder ejecuta el checkout sobre la tienda activa del contexto.
//
// Reglas de dinero: el descuento se recorta a [0, subtotal]; el impuesto se
// calcula sobre (subtotal - descuento) y se redondea a 2 decimales half-up.
// La orden, sus líneas, el descuento de stock y la factura van en una sola
// transacción. El recibo se encola después del commit y es best-effort: una
// cola caída no deshace la venta.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, sctx *storectx.Context, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !authz.HasPermission(sctx.User, authz.PermProcessSales) {
		return nil, domain.ErrForbidden
	}
	if in.PrintReceipt && in.DeviceIdentifier == "" {
		return nil, fmt.Errorf("%w: falta device_identifier para imprimir", domain.ErrInvalidInput)
	}
	if sctx.Store == nil {
		return nil, domain.ErrNoStoreAssigned
	}

	store := sctx.Store
	merchantID := sctx.User.MerchantID

	if in.CustomerID != "" {
		customer, err := uc.customerRepo.GetByID(ctx, in.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("buscando cliente: %w", err)
		}
		if customer == nil || customer.MerchantID != merchantID {
			return nil, domain.ErrNotFound
		}
	}

	lines, subtotal, err := uc.resolveLines(ctx, merchantID, in.Items)
	if err != nil {
		return nil, err
	}

	discount := clamp(in.DiscountsTotal, subtotal)
	taxable := subtotal.Sub(discount)
	taxes := decimal.Zero
	if in.TaxRate.GreaterThan(decimal.Zero) {
		taxes = taxable.Mul(in.TaxRate).Div(decimal.NewFromInt(100)).Round(2)
	}
	total := taxable.Add(taxes).Round(2)

	currency := store.Currency
	if currency == "" {
		currency = "USD"
	}

	now := time.Now()
	order := &entity.Order{
		ID:             uuid.NewString(),
		MerchantID:     merchantID,
		StoreID:        store.ID,
		CustomerID:     in.CustomerID,
		Status:         "paid",
		Subtotal:       subtotal,
		DiscountsTotal: discount,
		TaxesTotal:     taxes,
		TotalAmount:    total,
		Currency:       currency,
		PlacedAt:       now,
	}
	var invoice *entity.Invoice
	var items []*entity.OrderItem

	err = uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		invoiceRepo repository.InvoiceRepository,
		inventoryRepo repository.InventoryRepository,
	) error {
		number, err := orderRepo.NextOrderNumber(ctx, merchantID)
		if err != nil {
			return fmt.Errorf("obteniendo consecutivo: %w", err)
		}
		order.OrderNumber = strconv.FormatInt(number, 10)

		if err := orderRepo.Create(ctx, order); err != nil {
			return fmt.Errorf("creando orden: %w", err)
		}
		for _, line := range lines {
			ok, err := inventoryRepo.Decrement(ctx, store.ID, line.variant.ID, line.qty)
			if err != nil {
				return fmt.Errorf("descontando stock: %w", err)
			}
			if !ok {
				return fmt.Errorf("%w: variante %s", domain.ErrInsufficientStock, line.variant.SKU)
			}
			item := &entity.OrderItem{
				ID:         uuid.NewString(),
				OrderID:    order.ID,
				VariantID:  line.variant.ID,
				Quantity:   line.qty,
				UnitPrice:  line.variant.Price,
				TotalPrice: line.total,
			}
			if err := orderRepo.CreateItem(ctx, item); err != nil {
				return fmt.Errorf("creando línea: %w", err)
			}
			items = append(items, item)
		}

		invoice = &entity.Invoice{
			ID:            uuid.NewString(),
			OrderID:       order.ID,
			MerchantID:    merchantID,
			StoreID:       store.ID,
			InvoiceNumber: "INV-" + order.OrderNumber,
			Total:         total,
			Currency:      currency,
			IssuedAt:      now,
		}
		return invoiceRepo.Create(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	resp := toOrderResponse(order, items, invoice)

	if in.PrintReceipt {
		receiptLines := make([]printing.ReceiptLine, 0, len(items))
		for i, item := range items {
			receiptLines = append(receiptLines, printing.ReceiptLine{
				Name:       lines[i].product.Name,
				SKU:        lines[i].variant.SKU,
				Quantity:   item.Quantity,
				UnitPrice:  item.UnitPrice,
				TotalPrice: item.TotalPrice,
			})
		}
		job, err := uc.enqueueReceipt(ctx, store, order, invoice, receiptLines, in.DeviceIdentifier)
		if err != nil {
			// la venta ya está confirmada; el recibo se puede reintentar
			uc.log.Warn().Err(err).Str("order_id", order.ID).Msg("no se pudo encolar el recibo")
		} else {
			resp.PrintJobID = job.ID
		}
	}
	return resp, nil
}

// resolveLines valida variantes y congela precios. Todo fuera de la tx, solo lectura.
func (uc *OrderUseCase) resolveLines(ctx context.Context, merchantID string, items []dto.OrderItemRequest) ([]resolvedLine, decimal.Decimal, error) {
	lines := make([]resolvedLine, 0, len(items))
	subtotal := decimal.Zero
	for _, it := range items {
		variant, err := uc.productRepo.GetVariantByID(ctx, it.VariantID)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("buscando variante: %w", err)
		}
		if variant == nil {
			return nil, decimal.Zero, domain.ErrNotFound
		}
		product, err := uc.productRepo.GetByID(ctx, variant.ProductID)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("buscando producto: %w", err)
		}
		if product == nil || product.MerchantID != merchantID {
			return nil, decimal.Zero, domain.ErrNotFound
		}
		total := variant.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		subtotal = subtotal.Add(total)
		lines = append(lines, resolvedLine{variant: variant, product: product, qty: it.Quantity, total: total})
	}
	return lines, subtotal, nil
}

// enqueueReceipt arma el snapshot del recibo y lo encola al dispositivo.
func (uc *OrderUseCase) enqueueReceipt(ctx context.Context, store *entity.Store, order *entity.Order, invoice *entity.Invoice, lines []printing.ReceiptLine, deviceIdentifier string) (*dto.JobResponse, error) {
	receipt := printing.ReceiptPayload{
		StoreName:      store.Name,
		StoreAddress:   store.Address,
		OrderNumber:    order.OrderNumber,
		Subtotal:       order.Subtotal,
		DiscountsTotal: order.DiscountsTotal,
		TaxesTotal:     order.TaxesTotal,
		Total:          order.TotalAmount,
		Currency:       order.Currency,
		IssuedAt:       order.PlacedAt,
		Lines:          lines,
	}
	if invoice != nil {
		receipt.InvoiceNumber = invoice.InvoiceNumber
		receipt.IssuedAt = invoice.IssuedAt
	}
	raw, err := json.Marshal(receipt)
	if err != nil {
		return nil, fmt.Errorf("serializando recibo: %w", err)
	}
	return uc.jobUC.Enqueue(ctx, order.MerchantID, order.StoreID, dto.EnqueueJobRequest{
		DeviceIdentifier: deviceIdentifier,
		JobType:          entity.PrintJobTypeReceipt,
		Payload:          raw,
	})
}

// ReprintReceipt encola otra vez el recibo de una orden ya confirmada.
//
// El cliente solo indica el dispositivo destino; el snapshot se reconstruye
// aquí desde la orden, sus líneas y la factura persistidas, así un recibo
// reimpreso nunca depende de datos que mande el front. A diferencia del
// recibo del checkout, un fallo al encolar sí es error: no hay venta en
// juego, reimprimir es la única operación.
func (uc *OrderUseCase) ReprintReceipt(ctx context.Context, sctx *storectx.Context, orderID string, in dto.ReprintReceiptRequest) (*dto.JobResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !authz.HasPermission(sctx.User, authz.PermProcessSales) {
		return nil, domain.ErrForbidden
	}
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("buscando orden: %w", err)
	}
	if order == nil || order.MerchantID != sctx.User.MerchantID {
		return nil, domain.ErrNotFound
	}
	if !authz.CanAccessStore(sctx.User, order.StoreID, sctx.AccessSet) {
		return nil, domain.ErrForbidden
	}
	var store *entity.Store
	for _, s := range sctx.Accessible {
		if s.ID == order.StoreID {
			store = s
			break
		}
	}
	if store == nil {
		return nil, domain.ErrForbidden
	}

	items, err := uc.orderRepo.ListItemsByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("listando líneas: %w", err)
	}
	invoice, err := uc.invoiceRepo.GetByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("buscando factura: %w", err)
	}

	lines := make([]printing.ReceiptLine, 0, len(items))
	for _, item := range items {
		line := printing.ReceiptLine{
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		}
		variant, err := uc.productRepo.GetVariantByID(ctx, item.VariantID)
		if err != nil {
			return nil, fmt.Errorf("buscando variante: %w", err)
		}
		if variant != nil {
			line.SKU = variant.SKU
			product, err := uc.productRepo.GetByID(ctx, variant.ProductID)
			if err != nil {
				return nil, fmt.Errorf("buscando producto: %w", err)
			}
			if product != nil {
				line.Name = product.Name
			}
		}
		lines = append(lines, line)
	}
	return uc.enqueueReceipt(ctx, store, order, invoice, lines, in.DeviceIdentifier)
}

// GetOrder orden con líneas y factura; la tienda debe estar en el alcance.
func (uc *OrderUseCase) GetOrder(ctx context.Context, sctx *storectx.Context, orderID string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("buscando orden: %w", err)
	}
	if order == nil || order.MerchantID != sctx.User.MerchantID {
		return nil, domain.ErrNotFound
	}
	if !authz.CanAccessStore(sctx.User, order.StoreID, sctx.AccessSet) {
		return nil, domain.ErrForbidden
	}
	items, err := uc.orderRepo.ListItemsByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("listando líneas: %w", err)
	}
	invoice, err := uc.invoiceRepo.GetByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("buscando factura: %w", err)
	}
	return toOrderResponse(order, items, invoice), nil
}

// ListOrders órdenes recientes de la tienda activa.
func (uc *OrderUseCase) ListOrders(ctx context.Context, sctx *storectx.Context, limit int) ([]dto.OrderResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	if sctx.Store == nil {
		return nil, domain.ErrNoStoreAssigned
	}
	orders, err := uc.orderRepo.ListByStore(ctx, sctx.Store.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("listando órdenes: %w", err)
	}
	out := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, *toOrderResponse(o, nil, nil))
	}
	return out, nil
}

func clamp(discount, subtotal decimal.Decimal) decimal.Decimal {
	if discount.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		return subtotal
	}
	return discount
}

func toOrderResponse(o *entity.Order, items []*entity.OrderItem, invoice *entity.Invoice) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:             o.ID,
		StoreID:        o.StoreID,
		CustomerID:     o.CustomerID,
		OrderNumber:    o.OrderNumber,
		Status:         o.Status,
		Subtotal:       o.Subtotal,
		DiscountsTotal: o.DiscountsTotal,
		TaxesTotal:     o.TaxesTotal,
		TotalAmount:    o.TotalAmount,
		Currency:       o.Currency,
		PlacedAt:       o.PlacedAt,
		Items:          make([]dto.OrderItemResponse, 0, len(items)),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ID:         it.ID,
			VariantID:  it.VariantID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
		})
	}
	if invoice != nil {
		resp.Invoice = &dto.InvoiceResponse{
			ID:            invoice.ID,
			InvoiceNumber: invoice.InvoiceNumber,
			Total:         invoice.Total,
			Currency:      invoice.Currency,
			IssuedAt:      invoice.IssuedAt,
		}
	}
	return resp
}
