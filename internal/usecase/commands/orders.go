package commands

//go:generate mockgen -source=orders.go -destination=../../../tests/mock/commands/orders.go -package=commandsmock

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"shop-order-scheduler/internal/domain/event"
	"shop-order-scheduler/internal/domain/order"
	"shop-order-scheduler/internal/domain/resource"
	"shop-order-scheduler/internal/pkg/clock"
	"shop-order-scheduler/internal/pkg/errs"
	"shop-order-scheduler/internal/store"
	"shop-order-scheduler/internal/usecase/shared"
)

// CouplingMode selects how order transitions drive resource availability.
type CouplingMode string

const (
	// CouplingSymmetric marks a resource Busy when an order is scheduled on it
	// and frees it once no Scheduled or In Progress order references it.
	CouplingSymmetric CouplingMode = "symmetric"
	// CouplingForward only ever marks resources Busy.
	CouplingForward CouplingMode = "forward"
)

const MsgResourceBusy = "Resource is busy"

type Options struct {
	Coupling       CouplingMode
	Location       *time.Location
	Producer       string
	IdempotencyTTL time.Duration
	// ProcessingTTL bounds how long an in-flight key blocks retries.
	ProcessingTTL time.Duration
	// RejectBusyResources refuses to newly assign a resource that is Busy.
	RejectBusyResources bool
}

type CreateOrderResult struct {
	Order      order.Order
	IsReplayed bool
}

type OrderCommands interface {
	Create(ctx context.Context, draft order.Draft, idempotencyKey string) (*CreateOrderResult, error)
	Update(ctx context.Context, id string, p order.Patch) (*order.Order, error)
	Delete(ctx context.Context, id string) error
}

type orderCommandsImpl struct {
	// mu serialises commands so validate, mutate, couple and commit run as
	// one critical section. Readers go straight to the stores.
	mu        sync.Mutex
	orders    *store.OrderStore
	resources *store.ResourceStore
	journal   shared.Journal
	idem      shared.IdempotencyStore
	publisher shared.EventPublisher
	clock     clock.Clock
	logger    *slog.Logger
	opts      Options
}

func NewOrderCommands(
	orders *store.OrderStore,
	resources *store.ResourceStore,
	journal shared.Journal,
	idem shared.IdempotencyStore,
	publisher shared.EventPublisher,
	clk clock.Clock,
	logger *slog.Logger,
	opts Options,
) OrderCommands {
	if opts.Coupling == "" {
		opts.Coupling = CouplingSymmetric
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.IdempotencyTTL <= 0 {
		opts.IdempotencyTTL = 24 * time.Hour
	}
	if opts.ProcessingTTL <= 0 {
		opts.ProcessingTTL = time.Minute
	}
	return &orderCommandsImpl{
		orders:    orders,
		resources: resources,
		journal:   journal,
		idem:      idem,
		publisher: publisher,
		clock:     clk,
		logger:    logger,
		opts:      opts,
	}
}

func (c *orderCommandsImpl) Create(ctx context.Context, draft order.Draft, idempotencyKey string) (*CreateOrderResult, error) {
	if idempotencyKey != "" {
		replayed, err := c.handleIdempotency(ctx, idempotencyKey, calculateRequestHash(draft))
		if err != nil {
			return nil, err
		}
		if replayed != nil {
			return &CreateOrderResult{Order: *replayed, IsReplayed: true}, nil
		}
	}

	created, events, err := c.create(ctx, draft)
	if err != nil {
		if idempotencyKey != "" {
			if relErr := c.idem.Release(ctx, idempotencyKey); relErr != nil {
				c.logger.Warn("failed to release idempotency key", "key", idempotencyKey, "error", relErr)
			}
		}
		return nil, err
	}

	if idempotencyKey != "" {
		if err := c.idem.Complete(ctx, idempotencyKey, created.ID, c.opts.IdempotencyTTL); err != nil {
			c.logger.Warn("failed to complete idempotency key", "key", idempotencyKey, "order_id", created.ID, "error", err)
			if relErr := c.idem.Release(ctx, idempotencyKey); relErr != nil {
				c.logger.Warn("failed to release idempotency key", "key", idempotencyKey, "error", relErr)
			}
		}
	}

	c.publish(ctx, events)
	return &CreateOrderResult{Order: created}, nil
}

func (c *orderCommandsImpl) handleIdempotency(ctx context.Context, key, requestHash string) (*order.Order, error) {
	rec, reserved, err := c.idem.Reserve(ctx, key, requestHash, c.opts.ProcessingTTL)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrIdempotencyCheckFailed)
	}
	if reserved {
		return nil, nil
	}

	if rec.RequestHash != requestHash {
		return nil, errs.ErrIdempotencyKeyMismatch
	}

	switch rec.Status {
	case shared.IdempotencyCompleted:
		o, ok := c.orders.GetByID(rec.OrderID)
		if !ok {
			return nil, errs.Mark(errs.Newf("order %s created under key %s no longer exists", rec.OrderID, key), errs.ErrOrderNotFound)
		}
		return &o, nil
	case shared.IdempotencyProcessing:
		return nil, errs.ErrIdempotencyInProgress
	default:
		return nil, errs.Newf("invalid idempotency key status %q", rec.Status)
	}
}

func (c *orderCommandsImpl) create(ctx context.Context, draft order.Draft) (order.Order, []event.Envelope, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fields, err := c.validate(draft, nil, nil)
	if err != nil {
		return order.Order{}, nil, err
	}

	ch := c.begin(ctx)
	created := c.orders.Add(fields)
	ch.set.UpsertOrders = append(ch.set.UpsertOrders, created)

	if err := c.reconcile(ch, nil, &created); err != nil {
		return order.Order{}, nil, c.rollback(ch, err)
	}
	if err := c.commit(ctx, ch); err != nil {
		return order.Order{}, nil, err
	}

	c.prependEvent(ch, event.TypeOrderCreated, created.ID, event.OrderCreatedPayload{Order: toPayload(created)})
	return created, ch.events, nil
}

// Update merges p over the stored order and validates the merged result. An
// unknown id is always ErrOrderNotFound since there is nothing to merge into.
func (c *orderCommandsImpl) Update(ctx context.Context, id string, p order.Patch) (*order.Order, error) {
	updated, events, err := c.update(ctx, id, p)
	if err != nil {
		return nil, err
	}
	c.publish(ctx, events)
	return &updated, nil
}

func (c *orderCommandsImpl) update(ctx context.Context, id string, p order.Patch) (order.Order, []event.Envelope, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.orders.GetByID(id)
	if !ok {
		return order.Order{}, nil, errs.ErrOrderNotFound
	}

	fields, err := c.validate(p.Apply(existing.Fields()), &existing, p.Validate())
	if err != nil {
		return order.Order{}, nil, err
	}

	ch := c.begin(ctx)
	updated, ok, err := c.orders.Update(id, fields)
	if err != nil {
		return order.Order{}, nil, c.rollback(ch, err)
	}
	if !ok {
		return order.Order{}, nil, c.rollback(ch, errs.ErrOrderNotFound)
	}
	ch.set.UpsertOrders = append(ch.set.UpsertOrders, updated)

	if err := c.reconcile(ch, &existing, &updated); err != nil {
		return order.Order{}, nil, c.rollback(ch, err)
	}
	if err := c.commit(ctx, ch); err != nil {
		return order.Order{}, nil, err
	}

	c.prependEvent(ch, event.TypeOrderUpdated, updated.ID, event.OrderUpdatedPayload{
		Order:          toPayload(updated),
		PreviousStatus: string(existing.Status),
	})
	return updated, ch.events, nil
}

// Delete follows the store's unknown-id policy: a miss is either a silent
// no-op or ErrOrderNotFound.
func (c *orderCommandsImpl) Delete(ctx context.Context, id string) error {
	events, err := c.delete(ctx, id)
	if err != nil {
		return err
	}
	c.publish(ctx, events)
	return nil
}

func (c *orderCommandsImpl) delete(ctx context.Context, id string) ([]event.Envelope, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := c.begin(ctx)
	removed, ok, err := c.orders.Delete(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	ch.set.DeletedOrderIDs = append(ch.set.DeletedOrderIDs, removed.ID)

	if err := c.reconcile(ch, &removed, nil); err != nil {
		return nil, c.rollback(ch, err)
	}
	if err := c.commit(ctx, ch); err != nil {
		return nil, err
	}

	c.prependEvent(ch, event.TypeOrderDeleted, removed.ID, event.OrderDeletedPayload{
		OrderID:    removed.ID,
		Status:     string(removed.Status),
		ResourceID: removed.ResourceID,
	})
	return ch.events, nil
}

// validate runs the field rules and the checks that need the resource store.
// existing is nil on create; prior carries errors found before the merge.
func (c *orderCommandsImpl) validate(draft order.Draft, existing *order.Order, prior order.ValidationErrors) (order.Fields, error) {
	fields, verrs := draft.Validate(c.opts.Location)
	verrs = append(verrs, prior...)

	if draft.ResourceID != "" {
		res, ok := c.resources.GetByID(draft.ResourceID)
		switch {
		case !ok:
			verrs.Add("resourceId", order.MsgResourceNotFound)
		case c.opts.RejectBusyResources && !res.IsAvailable() && !alreadyHeld(existing, res.ID):
			verrs.Add("resourceId", MsgResourceBusy)
		}
	}

	if len(verrs) > 0 {
		return order.Fields{}, errs.Mark(verrs, errs.ErrValidationFailed)
	}
	return fields, nil
}

// alreadyHeld reports whether existing currently occupies resourceID. An order
// that only references a resource without holding it gets no exemption.
func alreadyHeld(existing *order.Order, resourceID string) bool {
	if existing == nil {
		return false
	}
	held, ok := existing.HeldResource()
	return ok && held == resourceID
}

type change struct {
	ctx          context.Context
	orderSnap    store.OrderSnapshot
	resourceSnap store.ResourceSnapshot
	set          shared.ChangeSet
	events       []event.Envelope
	causeID      string
}

func (c *orderCommandsImpl) begin(ctx context.Context) *change {
	return &change{
		ctx:          ctx,
		orderSnap:    c.orders.Snapshot(),
		resourceSnap: c.resources.Snapshot(),
	}
}

func (c *orderCommandsImpl) rollback(ch *change, cause error) error {
	c.orders.Restore(ch.orderSnap)
	c.resources.Restore(ch.resourceSnap)
	return cause
}

// commit writes the change set to the journal. The in-memory stores already
// hold the new state at this point and readers may observe it; if the journal
// refuses the change both stores go back to their snapshots.
func (c *orderCommandsImpl) commit(ctx context.Context, ch *change) error {
	if ch.set.IsEmpty() {
		return nil
	}
	if err := c.journal.Commit(ctx, ch.set); err != nil {
		c.logger.Error("journal commit failed, rolling back in-memory state", "error", err)
		return c.rollback(ch, errs.Mark(err, errs.ErrJournalCommitFailed))
	}
	return nil
}

// reconcile applies the coupling rule to one order transition. before is nil
// on create and after is nil on delete. The order store already reflects
// after when this runs.
func (c *orderCommandsImpl) reconcile(ch *change, before, after *order.Order) error {
	if after != nil {
		ch.causeID = after.ID
		if rid, ok := after.ClaimsResource(); ok {
			if err := c.setResourceStatus(ch, rid, resource.StatusBusy); err != nil {
				return err
			}
		}
	} else if before != nil {
		ch.causeID = before.ID
	}

	if c.opts.Coupling != CouplingSymmetric || before == nil {
		return nil
	}
	prev, held := before.HeldResource()
	if !held {
		return nil
	}
	if after != nil {
		if cur, ok := after.HeldResource(); ok && cur == prev {
			return nil
		}
	}
	if c.stillHeld(prev) {
		return nil
	}
	return c.setResourceStatus(ch, prev, resource.StatusAvailable)
}

func (c *orderCommandsImpl) stillHeld(resourceID string) bool {
	for _, o := range c.orders.List() {
		if held, ok := o.HeldResource(); ok && held == resourceID {
			return true
		}
	}
	return false
}

func (c *orderCommandsImpl) setResourceStatus(ch *change, resourceID string, status resource.Status) error {
	res, ok := c.resources.GetByID(resourceID)
	if !ok {
		// the store decides whether a miss is an error
		return c.resources.SetStatus(resourceID, status)
	}
	if res.Status == status {
		return nil
	}
	if err := c.resources.SetStatus(resourceID, status); err != nil {
		return err
	}

	ch.set.Resources = append(ch.set.Resources, res.WithStatus(status))
	c.appendEvent(ch, event.TypeResourceStatusChanged, res.ID, event.ResourceStatusChangedPayload{
		ResourceID: res.ID,
		Name:       res.Name,
		From:       string(res.Status),
		To:         string(status),
		OrderID:    ch.causeID,
	})
	return nil
}

func (c *orderCommandsImpl) newEvent(ch *change, eventType, key string, payload any) (event.Envelope, bool) {
	correlationID := shared.CorrelationID(ch.ctx)
	if correlationID == "" {
		correlationID = ch.causeID
	}
	env, err := event.New(eventType, c.opts.Producer, correlationID, key, c.clock.Now(), payload)
	if err != nil {
		c.logger.Error("failed to build event", "event_type", eventType, "error", err)
		return event.Envelope{}, false
	}
	return env, true
}

func (c *orderCommandsImpl) appendEvent(ch *change, eventType, key string, payload any) {
	if env, ok := c.newEvent(ch, eventType, key, payload); ok {
		ch.events = append(ch.events, env)
	}
}

// prependEvent puts the order event ahead of the resource events it caused.
func (c *orderCommandsImpl) prependEvent(ch *change, eventType, key string, payload any) {
	if env, ok := c.newEvent(ch, eventType, key, payload); ok {
		ch.events = append([]event.Envelope{env}, ch.events...)
	}
}

// publish is best effort: the state change is already committed.
func (c *orderCommandsImpl) publish(ctx context.Context, events []event.Envelope) {
	for _, env := range events {
		if err := c.publisher.Publish(ctx, env); err != nil {
			c.logger.Warn("failed to publish event",
				"event_type", env.EventType,
				"event_id", env.EventID,
				"error", err)
		}
	}
}

func toPayload(o order.Order) event.OrderPayload {
	return event.OrderPayload{
		OrderID:     o.ID,
		Name:        o.Name,
		Description: o.Description,
		Status:      string(o.Status),
		ResourceID:  o.ResourceID,
		StartTime:   o.StartTime,
		EndTime:     o.EndTime,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func calculateRequestHash(draft order.Draft) string {
	data, _ := json.Marshal(draft)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ValidationErrors extracts field errors from err, if any.
func ValidationErrors(err error) (order.ValidationErrors, bool) {
	var verrs order.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}
