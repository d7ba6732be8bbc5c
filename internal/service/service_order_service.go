package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/service-orders/internal/advisory"
	"github.com/spec-kit/service-orders/internal/domain"
	"github.com/spec-kit/service-orders/internal/events"
	"github.com/spec-kit/service-orders/internal/lifecycle"
	"github.com/spec-kit/service-orders/internal/observability"
	"github.com/spec-kit/service-orders/internal/repository"
	apperrors "github.com/spec-kit/service-orders/pkg/util/errorutil"
)

// ServiceOrderService coordinates order forms, submission and diagnosis.
type ServiceOrderService struct {
	orders        repository.ServiceOrderRepository
	buildings     repository.BuildingRepository
	sectors       repository.SectorRepository
	teams         repository.TeamRepository
	professionals repository.ProfessionalRepository
	reasons       repository.ReasonRepository
	engine        *lifecycle.Engine
	advisor       advisory.Connector
	dispatcher    events.Dispatcher
	metrics       *observability.Metrics
	logger        *zap.Logger

	mu       sync.Mutex
	sessions map[string]*formSession
	tasks    sync.WaitGroup
}

// ServiceOrderDependencies bundles collaborators for the service.
type ServiceOrderDependencies struct {
	OrderRepo        repository.ServiceOrderRepository
	BuildingRepo     repository.BuildingRepository
	SectorRepo       repository.SectorRepository
	TeamRepo         repository.TeamRepository
	ProfessionalRepo repository.ProfessionalRepository
	ReasonRepo       repository.ReasonRepository
	Engine           *lifecycle.Engine
	Advisor          advisory.Connector
	Dispatcher       events.Dispatcher
	Metrics          *observability.Metrics
	Logger           *zap.Logger
}

// formSession is an open request form. generation changes every time a
// diagnosis is requested so late results of older requests are dropped.
type formSession struct {
	id         string
	draft      domain.Draft
	original   *domain.ServiceOrder
	analyzing  bool
	generation uint64
	cancel     context.CancelFunc
	touchedAt  time.Time
}

// FormView is a snapshot of an open form.
type FormView struct {
	SessionID string
	Draft     domain.Draft
	Analyzing bool
	IsNew     bool
}

// NewServiceOrderService constructs the service.
func NewServiceOrderService(deps ServiceOrderDependencies) *ServiceOrderService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServiceOrderService{
		orders:        deps.OrderRepo,
		buildings:     deps.BuildingRepo,
		sectors:       deps.SectorRepo,
		teams:         deps.TeamRepo,
		professionals: deps.ProfessionalRepo,
		reasons:       deps.ReasonRepo,
		engine:        deps.Engine,
		advisor:       deps.Advisor,
		dispatcher:    deps.Dispatcher,
		metrics:       deps.Metrics,
		logger:        logger,
		sessions:      make(map[string]*formSession),
	}
}

// ListOrders returns every order, newest first.
func (s *ServiceOrderService) ListOrders(ctx context.Context) ([]domain.ServiceOrder, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return orders, nil
}

// GetOrder fetches one order.
func (s *ServiceOrderService) GetOrder(ctx context.Context, id string) (*domain.ServiceOrder, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError("service order", id, err)
	}
	return order, nil
}

// OpenForm starts editing. An empty orderID opens a blank request form;
// otherwise the stored order is copied into the form.
func (s *ServiceOrderService) OpenForm(ctx context.Context, orderID string) (FormView, error) {
	session := &formSession{id: uuid.NewString(), touchedAt: s.engine.Now()}
	if orderID == "" {
		session.draft = s.engine.NewDraft()
	} else {
		order, err := s.orders.GetByID(ctx, orderID)
		if err != nil {
			return FormView{}, mapStoreError("service order", orderID, err)
		}
		session.draft = domain.DraftFromOrder(*order)
		session.original = order
	}

	s.mu.Lock()
	s.sessions[session.id] = session
	view := session.view()
	s.mu.Unlock()

	s.logger.Debug("form opened", zap.String("session_id", session.id), zap.String("order_id", orderID))
	return view, nil
}

// GetForm returns the current state of an open form.
func (s *ServiceOrderService) GetForm(_ context.Context, sessionID string) (FormView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return FormView{}, formNotFound(sessionID)
	}
	return session.view(), nil
}

// UpdateForm applies field edits to an open form. New building, sector,
// team, professional and reason values must exist, belong together and be
// active; values already on the form are accepted as they are.
func (s *ServiceOrderService) UpdateForm(ctx context.Context, sessionID string, change lifecycle.Change) (FormView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return FormView{}, formNotFound(sessionID)
	}
	if err := s.checkReferences(ctx, session.draft, change); err != nil {
		return FormView{}, err
	}
	now := s.engine.Now()
	session.draft = lifecycle.ApplyChange(session.draft, change, now)
	session.touchedAt = now
	return session.view(), nil
}

func (s *ServiceOrderService) checkReferences(ctx context.Context, current domain.Draft, c lifecycle.Change) error {
	buildingID := current.BuildingID
	if c.BuildingID != nil && *c.BuildingID != current.BuildingID {
		buildingID = *c.BuildingID
		if buildingID != "" {
			b, err := s.buildings.GetByID(ctx, buildingID)
			if err != nil {
				return mapStoreError("building", buildingID, err)
			}
			if !b.Active() {
				return apperrors.NewConflict("building inactive", map[string]any{"building_id": buildingID})
			}
		}
	}
	if c.SectorID != nil && *c.SectorID != "" {
		if buildingID == "" {
			return apperrors.NewValidationError("select a building before the sector", map[string]any{"field": "sectorId"})
		}
		sector, err := s.sectors.GetByID(ctx, *c.SectorID)
		if err != nil {
			return mapStoreError("sector", *c.SectorID, err)
		}
		if sector.BuildingID != buildingID {
			return apperrors.NewValidationError("sector does not belong to building", map[string]any{
				"sector_id": sector.ID, "building_id": buildingID,
			})
		}
	}

	teamID := current.TeamID
	if c.TeamID != nil && *c.TeamID != current.TeamID {
		teamID = *c.TeamID
		if teamID != "" {
			t, err := s.teams.GetByID(ctx, teamID)
			if err != nil {
				return mapStoreError("team", teamID, err)
			}
			if !t.Active() {
				return apperrors.NewConflict("team inactive", map[string]any{"team_id": teamID})
			}
		}
	}
	professionalChanged := c.ProfessionalID != nil && *c.ProfessionalID != "" &&
		(*c.ProfessionalID != current.ProfessionalID || teamID != current.TeamID)
	if professionalChanged {
		if teamID == "" {
			return apperrors.NewValidationError("select a team before the professional", map[string]any{"field": "professionalId"})
		}
		p, err := s.professionals.GetByID(ctx, *c.ProfessionalID)
		if err != nil {
			return mapStoreError("professional", *c.ProfessionalID, err)
		}
		if p.TeamID != teamID {
			return apperrors.NewValidationError("professional does not belong to team", map[string]any{
				"professional_id": p.ID, "team_id": teamID,
			})
		}
		if !p.Active() && p.ID != current.ProfessionalID {
			return apperrors.NewConflict("professional inactive", map[string]any{"professional_id": p.ID})
		}
	}

	if c.ReasonID != nil && *c.ReasonID != "" && *c.ReasonID != current.ReasonID {
		r, err := s.reasons.GetByID(ctx, *c.ReasonID)
		if err != nil {
			return mapStoreError("reason", *c.ReasonID, err)
		}
		if !r.Active() {
			return apperrors.NewConflict("reason inactive", map[string]any{"reason_id": r.ID})
		}
	}
	return nil
}

// RequestDiagnosis asks the advisory connector about the form's problem in
// the background. The form needs a description and a building, and only
// one request may be in flight. The result lands in aiDiagnosis unless the
// form was closed or a newer request superseded it.
func (s *ServiceOrderService) RequestDiagnosis(ctx context.Context, sessionID string) (FormView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return FormView{}, formNotFound(sessionID)
	}
	var missing []string
	if strings.TrimSpace(session.draft.Description) == "" {
		missing = append(missing, "description")
	}
	if session.draft.BuildingID == "" {
		missing = append(missing, "buildingId")
	}
	if len(missing) > 0 {
		return FormView{}, apperrors.NewMissingFieldsError(missing, nil)
	}
	if session.analyzing {
		return FormView{}, apperrors.NewConflict("diagnosis already in progress", map[string]any{"session_id": sessionID})
	}

	label := s.contextLabel(ctx, session.draft)
	description := session.draft.Description
	taskCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	session.analyzing = true
	session.generation++
	session.cancel = cancel
	generation := session.generation

	s.tasks.Add(1)
	go s.runDiagnosis(taskCtx, cancel, sessionID, generation, description, label)
	return session.view(), nil
}

func (s *ServiceOrderService) runDiagnosis(ctx context.Context, cancel context.CancelFunc, sessionID string, generation uint64, description, label string) {
	defer s.tasks.Done()
	defer cancel()

	var (
		text string
		err  error
	)
	if s.advisor == nil {
		err = &advisory.ConfigurationError{Reason: "no connector"}
	} else {
		text, err = s.advisor.Analyze(ctx, description, label)
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		s.logger.Debug("diagnosis discarded", zap.String("session_id", sessionID))
		return
	}
	result := advisory.Resolve(text, err)
	if err != nil {
		s.metrics.RecordDiagnosis("fallback")
		s.logger.Warn("diagnosis fallback", zap.String("session_id", sessionID), zap.Error(err))
	} else {
		s.metrics.RecordDiagnosis("ok")
	}

	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	applied := ok && session.generation == generation
	if applied {
		session.draft.AIDiagnosis = result
		session.analyzing = false
		session.cancel = nil
	}
	orderID := ""
	if ok {
		orderID = session.draft.ID
	}
	s.mu.Unlock()

	if !applied {
		s.logger.Debug("stale diagnosis dropped", zap.String("session_id", sessionID))
		return
	}
	s.publishEvent(context.Background(), events.Event{
		Type:    events.EventDiagnosisCompleted,
		OrderID: orderID,
		Payload: events.DiagnosisCompletedPayload{SessionID: sessionID, Fallback: err != nil},
	})
}

func (s *ServiceOrderService) contextLabel(ctx context.Context, d domain.Draft) string {
	building, sector := "", ""
	if b, err := s.buildings.GetByID(ctx, d.BuildingID); err == nil {
		building = b.Description
	}
	if d.SectorID != "" {
		if sec, err := s.sectors.GetByID(ctx, d.SectorID); err == nil {
			sector = sec.Description
		}
	}
	return advisory.ContextLabel(building, sector)
}

// SubmitForm commits the form and closes it. A diagnosis still in flight is
// cancelled and its result discarded.
func (s *ServiceOrderService) SubmitForm(ctx context.Context, sessionID string) (*domain.ServiceOrder, error) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, formNotFound(sessionID)
	}
	order, err := s.engine.Commit(ctx, session.draft)
	if err != nil {
		s.mu.Unlock()
		return nil, mapStoreError("service order", session.draft.ID, err)
	}
	s.closeLocked(session)
	original := session.original
	s.mu.Unlock()

	s.logger.Info("service order saved",
		zap.String("order_id", order.ID),
		zap.String("status", string(order.Status)),
		zap.Bool("created", original == nil))
	s.publishChanges(ctx, original, order)
	return order, nil
}

// AbandonForm discards the form without saving.
func (s *ServiceOrderService) AbandonForm(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return formNotFound(sessionID)
	}
	s.closeLocked(session)
	return nil
}

// ExpireIdleForms closes forms untouched for longer than maxIdle.
func (s *ServiceOrderService) ExpireIdleForms(maxIdle time.Duration) int {
	cutoff := s.engine.Now().Add(-maxIdle)
	s.mu.Lock()
	defer s.mu.Unlock()
	expired := 0
	for _, session := range s.sessions {
		if session.touchedAt.Before(cutoff) && !session.analyzing {
			s.closeLocked(session)
			expired++
		}
	}
	return expired
}

// Wait blocks until every background diagnosis has finished.
func (s *ServiceOrderService) Wait() {
	s.tasks.Wait()
}

// Shutdown cancels in-flight diagnoses and waits for them to return.
func (s *ServiceOrderService) Shutdown() {
	s.mu.Lock()
	for _, session := range s.sessions {
		s.closeLocked(session)
	}
	s.mu.Unlock()
	s.tasks.Wait()
}

func (s *ServiceOrderService) closeLocked(session *formSession) {
	if session.cancel != nil {
		session.cancel()
		session.cancel = nil
	}
	delete(s.sessions, session.id)
}

func (s *ServiceOrderService) publishChanges(ctx context.Context, before, after *domain.ServiceOrder) {
	if before == nil {
		s.publishEvent(ctx, events.Event{
			Type:    events.EventOrderCreated,
			OrderID: after.ID,
			Payload: events.OrderCreatedPayload{
				BuildingID: after.BuildingID,
				SectorID:   after.SectorID,
				Priority:   after.Priority,
				Status:     after.Status,
			},
		})
		if after.TeamID != "" || after.ProfessionalID != "" {
			s.publishEvent(ctx, assignedEvent(after))
		}
		return
	}
	s.publishEvent(ctx, events.Event{Type: events.EventOrderUpdated, OrderID: after.ID})
	if before.Status != after.Status {
		s.publishEvent(ctx, events.Event{
			Type:    events.EventOrderStatusChanged,
			OrderID: after.ID,
			Payload: events.OrderStatusChangedPayload{
				OldStatus: before.Status,
				NewStatus: after.Status,
				ReasonID:  after.ReasonID,
			},
		})
	}
	if before.TeamID != after.TeamID || before.ProfessionalID != after.ProfessionalID {
		s.publishEvent(ctx, assignedEvent(after))
	}
}

func assignedEvent(o *domain.ServiceOrder) events.Event {
	return events.Event{
		Type:    events.EventOrderAssigned,
		OrderID: o.ID,
		Payload: events.OrderAssignedPayload{TeamID: o.TeamID, ProfessionalID: o.ProfessionalID},
	}
}

func (s *ServiceOrderService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.engine.Now().UTC()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func (fs *formSession) view() FormView {
	return FormView{
		SessionID: fs.id,
		Draft:     fs.draft,
		Analyzing: fs.analyzing,
		IsNew:     fs.draft.IsNew(),
	}
}

func formNotFound(sessionID string) error {
	return apperrors.NewNotFound("form", map[string]any{"session_id": sessionID})
}
