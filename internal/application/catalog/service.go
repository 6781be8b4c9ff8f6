package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	domevent "ibook/internal/domain/event"
	"ibook/internal/domain/inventory"
	"ibook/internal/observability"
	"ibook/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName = "catalog-service"
	spanPrefix  = "UC."

	useCaseAddProduct    = "catalog.add_product"
	useCaseUpdateProduct = "catalog.update_product"
	useCaseRemoveProduct = "catalog.remove_product"
	useCaseAddItem       = "catalog.add_item"
	useCaseRemoveItem    = "catalog.remove_item"
	useCaseSetItemCount  = "catalog.set_item_count"
	useCaseIncrement     = "catalog.increment_item"
	useCaseDecrement     = "catalog.decrement_item"
	useCaseListProducts  = "catalog.list_products"
	useCaseGetProduct    = "catalog.get_product"
	useCaseExpiredItems  = "catalog.expired_items"

	publishTimeout = 300 * time.Millisecond
)

// Service is the command layer over the catalog: it validates raw input
// through the domain constructors, runs each mutation atomically against
// the repository, and publishes a change event once the mutation has
// committed. Notification delivery is best-effort; a publish failure is
// logged and counted but never fails a committed command.
type Service struct {
	repo      inventory.Repository
	publisher domevent.Publisher

	log          observability.Logger
	tracer       observability.Tracer
	reqCounter   observability.Counter
	durHistogram observability.Histogram
	pubCounter   observability.Counter
	pubHistogram observability.Histogram
}

// NewService wires the command layer. tel may be nil, in which case all
// telemetry degrades to no-ops.
func NewService(repo inventory.Repository, publisher domevent.Publisher, tel observability.Observability) *Service {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Service{
		repo:         repo,
		publisher:    publisher,
		log:          tel.Logger().With(observability.F("service", serviceName)),
		tracer:       tel.Tracer(),
		reqCounter:   tel.Metrics().Counter(observability.MUsecaseRequests),
		durHistogram: tel.Metrics().Histogram(observability.MUsecaseDuration),
		pubCounter:   tel.Metrics().Counter(observability.MEventPublishTotal),
		pubHistogram: tel.Metrics().Histogram(observability.MEventPublishDuration),
	}
}

// ProductRef identifies a product by its weak identity.
type ProductRef struct {
	Name     string
	Category string
}

// ItemRef identifies one stock batch of a product.
type ItemRef struct {
	Name       string
	Category   string
	ExpiryDate string
}

// AddProductInput carries the raw fields of a new product.
type AddProductInput struct {
	Name        string
	Category    string
	Description string
	Price       float64
}

// AddProduct creates a product with no items.
func (s *Service) AddProduct(ctx context.Context, input AddProductInput) (_ *ProductView, err error) {
	ctx, done := s.begin(ctx, useCaseAddProduct,
		attribute.String("product.name", input.Name),
		attribute.String("product.category", input.Category),
	)
	defer func() { done(err) }()

	name, err := inventory.NewName(input.Name)
	if err != nil {
		return nil, err
	}
	category, err := inventory.NewCategory(input.Category)
	if err != nil {
		return nil, err
	}
	description, err := inventory.NewDescription(input.Description)
	if err != nil {
		return nil, err
	}
	price, err := inventory.NewPrice(input.Price)
	if err != nil {
		return nil, err
	}

	product, err := inventory.NewProduct(name, category, description, price, nil)
	if err != nil {
		return nil, err
	}

	if err = s.repo.Mutate(ctx, func(c *inventory.Catalog) error {
		return c.AddProduct(product)
	}); err != nil {
		return nil, fmt.Errorf("catalog: add product: %w", err)
	}

	s.publish(ctx, inventory.NewProductAddedEvent(product.Key()))
	view := newProductView(product)
	return &view, nil
}

// UpdateProductInput carries a field-update descriptor: only non-nil
// fields overwrite the existing values. The items list is carried over to
// the reconstructed product unchanged.
type UpdateProductInput struct {
	Name     string
	Category string

	NewName        *string
	NewCategory    *string
	NewDescription *string
	NewPrice       *float64
}

func (i UpdateProductInput) anyFieldSet() bool {
	return i.NewName != nil || i.NewCategory != nil || i.NewDescription != nil || i.NewPrice != nil
}

// UpdateProduct reconstructs the identified product with updated scalar
// fields, carrying over its owned items. Changing name or category moves
// the product to a new identity, which must not collide with a different
// existing product.
func (s *Service) UpdateProduct(ctx context.Context, input UpdateProductInput) (_ *ProductView, err error) {
	ctx, done := s.begin(ctx, useCaseUpdateProduct,
		attribute.String("product.name", input.Name),
		attribute.String("product.category", input.Category),
	)
	defer func() { done(err) }()

	if !input.anyFieldSet() {
		return nil, fmt.Errorf("%w: at least one field to update must be provided", inventory.ErrValidation)
	}
	key, err := inventory.NewProductKey(input.Name, input.Category)
	if err != nil {
		return nil, err
	}

	var view ProductView
	var newKey inventory.ProductKey
	if err = s.repo.Mutate(ctx, func(c *inventory.Catalog) error {
		current, ok := c.Find(key)
		if !ok {
			return fmt.Errorf("%w: product %s", inventory.ErrNotFound, key)
		}

		name := current.Name()
		if input.NewName != nil {
			if name, err = inventory.NewName(*input.NewName); err != nil {
				return err
			}
		}
		category := current.Category()
		if input.NewCategory != nil {
			if category, err = inventory.NewCategory(*input.NewCategory); err != nil {
				return err
			}
		}
		description := current.Description()
		if input.NewDescription != nil {
			if description, err = inventory.NewDescription(*input.NewDescription); err != nil {
				return err
			}
		}
		price := current.Price()
		if input.NewPrice != nil {
			if price, err = inventory.NewPrice(*input.NewPrice); err != nil {
				return err
			}
		}

		updated, buildErr := inventory.NewProduct(name, category, description, price, current.Items())
		if buildErr != nil {
			return buildErr
		}
		if setErr := c.SetProduct(key, updated); setErr != nil {
			return setErr
		}
		newKey = updated.Key()
		view = newProductView(updated)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("catalog: update product: %w", err)
	}

	s.publish(ctx, inventory.NewProductUpdatedEvent(key, newKey))
	return &view, nil
}

// RemoveProduct deletes the identified product; its items go with it.
func (s *Service) RemoveProduct(ctx context.Context, ref ProductRef) (err error) {
	ctx, done := s.begin(ctx, useCaseRemoveProduct,
		attribute.String("product.name", ref.Name),
		attribute.String("product.category", ref.Category),
	)
	defer func() { done(err) }()

	key, err := inventory.NewProductKey(ref.Name, ref.Category)
	if err != nil {
		return err
	}

	if err = s.repo.Mutate(ctx, func(c *inventory.Catalog) error {
		return c.RemoveProduct(key)
	}); err != nil {
		return fmt.Errorf("catalog: remove product: %w", err)
	}

	s.publish(ctx, inventory.NewProductRemovedEvent(key))
	return nil
}

// AddItemInput carries the raw fields of a new stock batch.
type AddItemInput struct {
	Name       string
	Category   string
	ExpiryDate string
	Quantity   int
}

// AddItem adds a new batch to the identified product. A batch with the
// same expiry date must not already exist.
func (s *Service) AddItem(ctx context.Context, input AddItemInput) (_ *ProductView, err error) {
	ctx, done := s.begin(ctx, useCaseAddItem,
		attribute.String("product.name", input.Name),
		attribute.String("product.category", input.Category),
		attribute.String("item.expiry_date", input.ExpiryDate),
		attribute.Int("item.quantity", input.Quantity),
	)
	defer func() { done(err) }()

	key, err := inventory.NewProductKey(input.Name, input.Category)
	if err != nil {
		return nil, err
	}
	expiry, err := inventory.NewExpiryDate(input.ExpiryDate)
	if err != nil {
		return nil, err
	}
	quantity, err := inventory.NewQuantity(input.Quantity)
	if err != nil {
		return nil, err
	}
	item, err := inventory.NewItem(key, expiry, quantity)
	if err != nil {
		return nil, err
	}

	var view ProductView
	if err = s.repo.Mutate(ctx, func(c *inventory.Catalog) error {
		if addErr := c.AddItem(key, item); addErr != nil {
			return addErr
		}
		product, _ := c.Find(key)
		view = newProductView(product)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("catalog: add item: %w", err)
	}

	s.publish(ctx, inventory.NewItemAddedEvent(key, expiry, quantity.Value()))
	return &view, nil
}

// RemoveItem deletes the identified batch outright, whatever its quantity.
func (s *Service) RemoveItem(ctx context.Context, ref ItemRef) (err error) {
	ctx, done := s.begin(ctx, useCaseRemoveItem,
		attribute.String("product.name", ref.Name),
		attribute.String("product.category", ref.Category),
		attribute.String("item.expiry_date", ref.ExpiryDate),
	)
	defer func() { done(err) }()

	key, probe, err := resolveItemRef(ref)
	if err != nil {
		return err
	}

	if err = s.repo.Mutate(ctx, func(c *inventory.Catalog) error {
		return c.RemoveItem(key, probe)
	}); err != nil {
		return fmt.Errorf("catalog: remove item: %w", err)
	}

	s.publish(ctx, inventory.NewItemRemovedEvent(key, probe.ExpiryDate()))
	return nil
}

// SetItemCountInput carries an absolute quantity for an existing batch.
type SetItemCountInput struct {
	Name       string
	Category   string
	ExpiryDate string
	Quantity   int
}

// SetItemCount replaces the batch's quantity. Setting it to zero removes
// the batch entirely.
func (s *Service) SetItemCount(ctx context.Context, input SetItemCountInput) (_ *ProductView, err error) {
	ctx, done := s.begin(ctx, useCaseSetItemCount,
		attribute.String("product.name", input.Name),
		attribute.String("product.category", input.Category),
		attribute.String("item.expiry_date", input.ExpiryDate),
		attribute.Int("item.quantity", input.Quantity),
	)
	defer func() { done(err) }()

	key, probe, err := resolveItemRef(ItemRef{Name: input.Name, Category: input.Category, ExpiryDate: input.ExpiryDate})
	if err != nil {
		return nil, err
	}
	quantity, err := inventory.NewQuantity(input.Quantity)
	if err != nil {
		return nil, err
	}

	var view ProductView
	if err = s.repo.Mutate(ctx, func(c *inventory.Catalog) error {
		if setErr := c.SetItemCount(key, probe, quantity); setErr != nil {
			return setErr
		}
		product, _ := c.Find(key)
		view = newProductView(product)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("catalog: set item count: %w", err)
	}

	if quantity.IsEmpty() {
		s.publish(ctx, inventory.NewItemRemovedEvent(key, probe.ExpiryDate()))
	} else {
		s.publish(ctx, inventory.NewItemCountSetEvent(key, probe.ExpiryDate(), quantity.Value()))
	}
	return &view, nil
}

// AdjustItemInput carries a relative quantity change for an existing batch.
type AdjustItemInput struct {
	Name       string
	Category   string
	ExpiryDate string
	Delta      int
}

// IncrementItem raises the batch's quantity by the given delta.
func (s *Service) IncrementItem(ctx context.Context, input AdjustItemInput) (*ProductView, error) {
	return s.adjustItem(ctx, useCaseIncrement, input, func(c *inventory.Catalog, key inventory.ProductKey, probe inventory.Item, delta inventory.Quantity) error {
		return c.IncrementItemCount(key, probe, delta)
	})
}

// DecrementItem lowers the batch's quantity by the given delta. Reaching
// exactly zero removes the batch; going below zero fails and leaves the
// catalog untouched.
func (s *Service) DecrementItem(ctx context.Context, input AdjustItemInput) (*ProductView, error) {
	return s.adjustItem(ctx, useCaseDecrement, input, func(c *inventory.Catalog, key inventory.ProductKey, probe inventory.Item, delta inventory.Quantity) error {
		return c.DecrementItemCount(key, probe, delta)
	})
}

func (s *Service) adjustItem(
	ctx context.Context,
	useCase string,
	input AdjustItemInput,
	apply func(*inventory.Catalog, inventory.ProductKey, inventory.Item, inventory.Quantity) error,
) (_ *ProductView, err error) {
	ctx, done := s.begin(ctx, useCase,
		attribute.String("product.name", input.Name),
		attribute.String("product.category", input.Category),
		attribute.String("item.expiry_date", input.ExpiryDate),
		attribute.Int("item.delta", input.Delta),
	)
	defer func() { done(err) }()

	key, probe, err := resolveItemRef(ItemRef{Name: input.Name, Category: input.Category, ExpiryDate: input.ExpiryDate})
	if err != nil {
		return nil, err
	}
	delta, err := inventory.NewQuantity(input.Delta)
	if err != nil {
		return nil, err
	}

	var view ProductView
	var remaining int
	var removed bool
	if err = s.repo.Mutate(ctx, func(c *inventory.Catalog) error {
		if adjErr := apply(c, key, probe, delta); adjErr != nil {
			return adjErr
		}
		product, _ := c.Find(key)
		if after, ok := product.FindItem(probe); ok {
			remaining = after.Quantity().Value()
		} else {
			removed = true
		}
		view = newProductView(product)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("catalog: adjust item: %w", err)
	}

	if removed {
		s.publish(ctx, inventory.NewItemRemovedEvent(key, probe.ExpiryDate()))
	} else {
		s.publish(ctx, inventory.NewItemCountSetEvent(key, probe.ExpiryDate(), remaining))
	}
	return &view, nil
}

// ListFilter selects products for listing. Zero values select everything;
// Name matches case-insensitively as a substring, Category exactly.
type ListFilter struct {
	Name     string
	Category string
}

func (f ListFilter) matches(view ProductView) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(view.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(view.Category, f.Category) {
		return false
	}
	return true
}

// ListProducts returns a snapshot-consistent, filtered view of the catalog
// in insertion order.
func (s *Service) ListProducts(ctx context.Context, filter ListFilter) (_ []ProductView, err error) {
	ctx, done := s.begin(ctx, useCaseListProducts)
	defer func() { done(err) }()

	products, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: snapshot: %w", err)
	}

	views := make([]ProductView, 0, len(products))
	for _, product := range products {
		view := newProductView(product)
		if filter.matches(view) {
			views = append(views, view)
		}
	}
	return views, nil
}

// GetProduct returns the identified product with its items.
func (s *Service) GetProduct(ctx context.Context, ref ProductRef) (_ *ProductView, err error) {
	ctx, done := s.begin(ctx, useCaseGetProduct,
		attribute.String("product.name", ref.Name),
		attribute.String("product.category", ref.Category),
	)
	defer func() { done(err) }()

	key, err := inventory.NewProductKey(ref.Name, ref.Category)
	if err != nil {
		return nil, err
	}
	product, err := s.repo.Find(ctx, key)
	if err != nil {
		return nil, err
	}
	view := newProductView(product)
	return &view, nil
}

// ExpiredItems reports every batch whose expiry date has passed, in
// product insertion order.
func (s *Service) ExpiredItems(ctx context.Context) (_ []ExpiredItemView, err error) {
	ctx, done := s.begin(ctx, useCaseExpiredItems)
	defer func() { done(err) }()

	products, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: snapshot: %w", err)
	}

	var rows []ExpiredItemView
	for _, product := range products {
		for _, item := range product.ExpiredItems() {
			rows = append(rows, ExpiredItemView{
				Name:       product.Name().String(),
				Category:   product.Category().String(),
				ExpiryDate: item.ExpiryDate().String(),
				Quantity:   item.Quantity().Value(),
			})
		}
	}
	return rows, nil
}

// begin opens a use-case span and returns a completion callback recording
// span status, metrics and the use_case_done log line.
func (s *Service) begin(ctx context.Context, useCase string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	logger := logctx.FromOr(ctx, s.log).With(observability.F("use_case", useCase))

	attrs = append(attrs, attribute.String("use_case", useCase))
	ctx, span := s.tracer.Start(ctx, spanPrefix+useCase, attrs...)
	start := time.Now()

	done := func(err error) {
		outcome := "success"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "OK")
		}
		span.End()

		latency := time.Since(start).Seconds()
		s.reqCounter.Add(1,
			observability.L("use_case", useCase),
			observability.L("outcome", outcome),
		)
		s.durHistogram.Observe(latency,
			observability.L("use_case", useCase),
		)

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("latency_seconds", latency),
		}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields,
				observability.F("trace_id", sc.TraceID().String()),
				observability.F("span_id", sc.SpanID().String()),
			)
		}
		if err != nil {
			fields = append(fields, observability.F("error", err.Error()))
		}
		logger.Info("use_case_done", fields...)
	}
	return ctx, done
}

// publish hands a change event to the bus with a short timeout. Delivery
// is best-effort once the mutation has committed.
func (s *Service) publish(ctx context.Context, e domevent.Event) {
	if s.publisher == nil || e == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	start := time.Now()
	err := s.publisher.Publish(pubCtx, e)
	outcome := "success"
	if err != nil {
		outcome = "error"
	}

	s.pubCounter.Add(1,
		observability.L("event", e.EventName()),
		observability.L("outcome", outcome),
	)
	s.pubHistogram.Observe(time.Since(start).Seconds(),
		observability.L("event", e.EventName()),
	)

	if err != nil {
		logctx.FromOr(ctx, s.log).Warn("event_publish_failed",
			observability.F("event", e.EventName()),
			observability.F("error", err.Error()),
		)
	}
}

func resolveItemRef(ref ItemRef) (inventory.ProductKey, inventory.Item, error) {
	key, err := inventory.NewProductKey(ref.Name, ref.Category)
	if err != nil {
		return inventory.ProductKey{}, inventory.Item{}, err
	}
	expiry, err := inventory.NewExpiryDate(ref.ExpiryDate)
	if err != nil {
		return inventory.ProductKey{}, inventory.Item{}, err
	}
	// Quantity is irrelevant for identity matching; a unit probe suffices.
	probe, err := inventory.NewUnitItem(key, expiry)
	if err != nil {
		return inventory.ProductKey{}, inventory.Item{}, err
	}
	return key, probe, nil
}
