package lifecycle

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/service-orders/internal/domain"
	"github.com/spec-kit/service-orders/internal/repository"
)

// Engine commits drafts to the order repository, enforcing the required
// fields and the write-once timestamps.
type Engine struct {
	orders repository.ServiceOrderRepository
	now    func() time.Time
	newID  func() string
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides order id generation.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// NewEngine constructs the engine.
func NewEngine(orders repository.ServiceOrderRepository, opts ...Option) *Engine {
	e := &Engine{
		orders: orders,
		now:    time.Now,
		newID:  GenerateOrderID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now returns the engine's current time.
func (e *Engine) Now() time.Time {
	return e.now()
}

// NewDraft returns a blank request form opened now.
func (e *Engine) NewDraft() domain.Draft {
	return domain.NewDraft(e.now())
}

// Commit validates the draft and writes it through to the store. New
// drafts get an id and are created; existing ones replace the stored
// record while keeping its opening date and any timestamps already set.
func (e *Engine) Commit(ctx context.Context, d domain.Draft) (*domain.ServiceOrder, error) {
	if err := ValidateForSubmit(d); err != nil {
		return nil, err
	}
	now := e.now()
	d = trimmed(d)

	var existing *domain.ServiceOrder
	if !d.IsNew() {
		stored, err := e.orders.GetByID(ctx, d.ID)
		if err != nil {
			return nil, err
		}
		existing = stored
		// Stored timestamps win over whatever the draft carries.
		if existing.AcceptanceDate != nil {
			d.AcceptanceDate = existing.AcceptanceDate
		}
		if existing.ClosingDate != nil {
			d.ClosingDate = existing.ClosingDate
		}
	}

	d = ApplyDerivedFields(d, now)
	if d.Priority == "" {
		d.Priority = domain.PriorityMedium
	}
	if d.Status == "" {
		d.Status = domain.StatusQueued
	}

	if existing == nil {
		order := d.Order()
		order.ID = e.uniqueID(ctx)
		if d.OpeningDate == nil {
			order.OpeningDate = now
		}
		if err := e.orders.Create(ctx, &order); err != nil {
			return nil, err
		}
		return &order, nil
	}

	order := d.Order()
	order.OpeningDate = existing.OpeningDate
	if err := e.orders.Replace(ctx, order.ID, order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (e *Engine) uniqueID(ctx context.Context) string {
	for {
		id := e.newID()
		if _, err := e.orders.GetByID(ctx, id); errors.Is(err, repository.ErrNotFound) {
			return id
		}
	}
}

// GenerateOrderID returns a fresh order identifier such as OS-1A2B3C4D5E6F.
func GenerateOrderID() string {
	return "OS-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}
