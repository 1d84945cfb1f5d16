package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordersdomain "github.com/cafepos/cafe-api-server/internal/domains/orders/domain"
	ordersports "github.com/cafepos/cafe-api-server/internal/domains/orders/ports"
)

const tracerName = "github.com/cafepos/cafe-api-server/internal/domains/orders/adapters/observability/service"

// Coordinator decorates the order coordinator with tracing, logging, and metrics.
type Coordinator struct {
	inner   ordersports.Coordinator
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics coordinatorMetrics
}

type Option func(*Coordinator)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(c *Coordinator) {
		c.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(c *Coordinator) {
		c.metrics = newCoordinatorMetrics(m)
	}
}

// New wraps the core coordinator.
func New(inner ordersports.Coordinator, opts ...Option) ordersports.Coordinator {
	c := &Coordinator{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newCoordinatorMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.tracer == nil {
		c.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return c
}

func (c *Coordinator) SelectTable(ctx context.Context, tableNumber *int) error {
	ctx, span := c.tracer.Start(ctx, "OrderCoordinator.SelectTable", trace.WithAttributes(tableAttr(tableNumber)))
	defer span.End()

	if err := c.inner.SelectTable(ctx, tableNumber); err != nil {
		return c.handleError(ctx, span, err, "failed to select table", slog.Int("table", tableValue(tableNumber)))
	}
	c.logInfo(ctx, "table selected", slog.Int("table", tableValue(tableNumber)))
	return nil
}

func (c *Coordinator) CurrentOrder() *ordersdomain.Order {
	return c.inner.CurrentOrder()
}

func (c *Coordinator) OrderForTable(ctx context.Context, tableNumber *int) (*ordersdomain.Order, error) {
	ctx, span := c.tracer.Start(ctx, "OrderCoordinator.OrderForTable", trace.WithAttributes(tableAttr(tableNumber)))
	defer span.End()

	order, err := c.inner.OrderForTable(ctx, tableNumber)
	if err != nil {
		return nil, c.handleError(ctx, span, err, "failed to load table order", slog.Int("table", tableValue(tableNumber)))
	}
	return order, nil
}

func (c *Coordinator) AddItem(ctx context.Context, tableNumber *int, name string, unitPrice int64, quantity int64) error {
	ctx, span := c.tracer.Start(ctx, "OrderCoordinator.AddItem",
		trace.WithAttributes(tableAttr(tableNumber), attribute.String("item.name", name), attribute.Int64("item.quantity", quantity)))
	defer span.End()

	if err := c.inner.AddItem(ctx, tableNumber, name, unitPrice, quantity); err != nil {
		return c.handleError(ctx, span, err, "failed to add item", slog.String("item", name))
	}
	c.metrics.recordItemAdded(ctx, name)
	c.logInfo(ctx, "item added", slog.Int("table", tableValue(tableNumber)), slog.String("item", name), slog.Int64("quantity", quantity))
	return nil
}

func (c *Coordinator) RemoveItem(ctx context.Context, tableNumber *int, name string) error {
	ctx, span := c.tracer.Start(ctx, "OrderCoordinator.RemoveItem",
		trace.WithAttributes(tableAttr(tableNumber), attribute.String("item.name", name)))
	defer span.End()

	if err := c.inner.RemoveItem(ctx, tableNumber, name); err != nil {
		return c.handleError(ctx, span, err, "failed to remove item", slog.String("item", name))
	}
	c.logInfo(ctx, "item removed", slog.Int("table", tableValue(tableNumber)), slog.String("item", name))
	return nil
}

func (c *Coordinator) ChangeQuantity(ctx context.Context, tableNumber *int, name string, quantity int64) error {
	ctx, span := c.tracer.Start(ctx, "OrderCoordinator.ChangeQuantity",
		trace.WithAttributes(tableAttr(tableNumber), attribute.String("item.name", name), attribute.Int64("item.quantity", quantity)))
	defer span.End()

	if err := c.inner.ChangeQuantity(ctx, tableNumber, name, quantity); err != nil {
		return c.handleError(ctx, span, err, "failed to change quantity", slog.String("item", name))
	}
	c.logInfo(ctx, "quantity changed", slog.Int("table", tableValue(tableNumber)), slog.String("item", name), slog.Int64("quantity", quantity))
	return nil
}

func (c *Coordinator) ApplyDiscount(ctx context.Context, tableNumber *int, amount int64) error {
	ctx, span := c.tracer.Start(ctx, "OrderCoordinator.ApplyDiscount",
		trace.WithAttributes(tableAttr(tableNumber), attribute.Int64("discount.amount", amount)))
	defer span.End()

	if err := c.inner.ApplyDiscount(ctx, tableNumber, amount); err != nil {
		return c.handleError(ctx, span, err, "failed to apply discount", slog.Int64("amount", amount))
	}
	c.logInfo(ctx, "discount applied", slog.Int("table", tableValue(tableNumber)), slog.Int64("amount", amount))
	return nil
}

func (c *Coordinator) CloseAndSave(ctx context.Context, tableNumber *int) (int64, error) {
	ctx, span := c.tracer.Start(ctx, "OrderCoordinator.CloseAndSave", trace.WithAttributes(tableAttr(tableNumber)))
	defer span.End()

	id, err := c.inner.CloseAndSave(ctx, tableNumber)
	if err != nil {
		return 0, c.handleError(ctx, span, err, "failed to close and save order", slog.Int("table", tableValue(tableNumber)))
	}
	span.SetAttributes(attribute.Int64("order.id", id))
	c.metrics.recordClosed(ctx)
	c.logInfo(ctx, "order closed and saved", slog.Int("table", tableValue(tableNumber)), slog.Int64("order.id", id))
	return id, nil
}

func (c *Coordinator) ClearOrder(tableNumber *int) {
	c.inner.ClearOrder(tableNumber)
	c.logInfo(context.Background(), "order cleared", slog.Int("table", tableValue(tableNumber)))
}

func (c *Coordinator) GetOrder(ctx context.Context, id int64) (*ordersdomain.Order, error) {
	ctx, span := c.tracer.Start(ctx, "OrderCoordinator.GetOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := c.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, c.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	return order, nil
}

func (c *Coordinator) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if c.logger == nil {
		return
	}
	c.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (c *Coordinator) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if c.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		c.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

func tableAttr(tableNumber *int) attribute.KeyValue {
	if tableNumber == nil {
		return attribute.String("order.table", "takeaway")
	}
	return attribute.Int("order.table", *tableNumber)
}

func tableValue(tableNumber *int) int {
	if tableNumber == nil {
		return 0
	}
	return *tableNumber
}

type coordinatorMetrics struct {
	itemsAdded   metric.Int64Counter
	ordersClosed metric.Int64Counter
}

func newCoordinatorMetrics(m metric.Meter) coordinatorMetrics {
	if m == nil {
		return coordinatorMetrics{}
	}
	itemsAdded, _ := m.Int64Counter("orders.coordinator.items_added", metric.WithDescription("Number of order lines added"))
	ordersClosed, _ := m.Int64Counter("orders.coordinator.orders_closed", metric.WithDescription("Number of orders closed and saved"))
	return coordinatorMetrics{itemsAdded: itemsAdded, ordersClosed: ordersClosed}
}

func (m coordinatorMetrics) recordItemAdded(ctx context.Context, name string) {
	if m.itemsAdded != nil {
		m.itemsAdded.Add(ctx, 1, metric.WithAttributes(attribute.String("item.name", name)))
	}
}

func (m coordinatorMetrics) recordClosed(ctx context.Context) {
	if m.ordersClosed != nil {
		m.ordersClosed.Add(ctx, 1)
	}
}

var _ ordersports.Coordinator = (*Coordinator)(nil)
