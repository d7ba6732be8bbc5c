package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/spec-kit/service-orders/internal/advisory"
	"github.com/spec-kit/service-orders/internal/domain"
	"github.com/spec-kit/service-orders/internal/events"
	"github.com/spec-kit/service-orders/internal/lifecycle"
	"github.com/spec-kit/service-orders/internal/printout"
	"github.com/spec-kit/service-orders/internal/repository"
	apperrors "github.com/spec-kit/service-orders/pkg/util/errorutil"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fakeAdvisor struct {
	mu      sync.Mutex
	text    string
	err     error
	release chan struct{}
	calls   []string
}

func (f *fakeAdvisor) Analyze(ctx context.Context, description, label string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, label)
	release := f.release
	f.mu.Unlock()
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.text, f.err
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store     *repository.Store
	refs      *ReferenceService
	orders    *ServiceOrderService
	listView  *ListViewService
	print     *PrintService
	dashboard *DashboardService
	advisor   *fakeAdvisor
	events    *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewStore()
	if err := repository.LoadSeed(store, repository.DefaultSeed(), testNow); err != nil {
		t.Fatalf("load seed: %v", err)
	}
	dispatcher := events.NewInMemoryDispatcher()
	rec := &recorder{}
	for _, et := range []events.EventType{events.EventOrderCreated, events.EventOrderUpdated, events.EventOrderStatusChanged, events.EventOrderAssigned, events.EventDiagnosisCompleted} {
		dispatcher.Subscribe(et, rec.handle)
	}
	advisor := &fakeAdvisor{text: "Verificar dreno."}
	engine := lifecycle.NewEngine(store.ServiceOrders(), lifecycle.WithClock(func() time.Time { return testNow }))
	refs := NewReferenceService(ReferenceDependencies{
		BuildingRepo:     store.Buildings(),
		SectorRepo:       store.Sectors(),
		TeamRepo:         store.Teams(),
		ProfessionalRepo: store.Professionals(),
		ReasonRepo:       store.Reasons(),
	})
	orders := NewServiceOrderService(ServiceOrderDependencies{
		OrderRepo:        store.ServiceOrders(),
		BuildingRepo:     store.Buildings(),
		SectorRepo:       store.Sectors(),
		TeamRepo:         store.Teams(),
		ProfessionalRepo: store.Professionals(),
		ReasonRepo:       store.Reasons(),
		Engine:           engine,
		Advisor:          advisor,
		Dispatcher:       dispatcher,
	})
	t.Cleanup(orders.Shutdown)
	listView := NewListViewService(store.ServiceOrders())
	return &fixture{
		store:     store,
		refs:      refs,
		orders:    orders,
		listView:  listView,
		print:     NewPrintService(store.ServiceOrders(), refs, listView),
		dashboard: NewDashboardService(store.ServiceOrders()),
		advisor:   advisor,
		events:    rec,
	}
}

func ptr[T any](v T) *T { return &v }

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var de *apperrors.DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	return de.Code
}

func TestNewFormDefaults(t *testing.T) {
	f := newFixture(t)
	view, err := f.orders.OpenForm(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if !view.IsNew || view.Draft.Priority != domain.PriorityMedium || view.Draft.Status != domain.StatusQueued {
		t.Fatalf("unexpected defaults %+v", view)
	}
	if view.Draft.OpeningDate == nil || !view.Draft.OpeningDate.Equal(testNow) {
		t.Fatalf("opening date should be set at open, got %v", view.Draft.OpeningDate)
	}
}

func TestSubmitNewOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	view, _ := f.orders.OpenForm(ctx, "")

	_, err := f.orders.SubmitForm(ctx, view.SessionID)
	if domainCode(t, err) != "VALIDATION_FAILED" {
		t.Fatalf("expected validation failure, got %v", err)
	}

	_, err = f.orders.UpdateForm(ctx, view.SessionID, lifecycle.Change{
		BuildingID:     ptr("1"),
		SectorID:       ptr("1"),
		RequesterName:  ptr("Maria"),
		RequesterRamal: ptr("3030"),
		Description:    ptr("Tomada sem energia"),
		TeamID:         ptr("1"),
		ProfessionalID: ptr("2"),
	})
	if err != nil {
		t.Fatal(err)
	}
	order, err := f.orders.SubmitForm(ctx, view.SessionID)
	if err != nil {
		t.Fatal(err)
	}
	if order.Status != domain.StatusInProgress || order.AcceptanceDate == nil {
		t.Fatalf("assigning a professional must start the order: %+v", order)
	}

	all, _ := f.orders.ListOrders(ctx)
	if all[0].ID != order.ID || len(all) != 3 {
		t.Fatalf("new order must be first, got %v", all[0].ID)
	}
	if diff := cmp.Diff([]events.EventType{events.EventOrderCreated, events.EventOrderAssigned}, f.events.types()); diff != "" {
		t.Fatalf("events (-want +got):\n%s", diff)
	}
	if _, err := f.orders.GetForm(ctx, view.SessionID); domainCode(t, err) != "NOT_FOUND" {
		t.Fatal("submitted form must be closed")
	}
}

func TestEditExistingOrderKeepsOpeningAndPublishesStatusChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	before, _ := f.orders.GetOrder(ctx, "OS-002")

	view, err := f.orders.OpenForm(ctx, "OS-002")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.orders.UpdateForm(ctx, view.SessionID, lifecycle.Change{Status: ptr(domain.StatusExecuted)}); err != nil {
		t.Fatal(err)
	}
	order, err := f.orders.SubmitForm(ctx, view.SessionID)
	if err != nil {
		t.Fatal(err)
	}
	if !order.OpeningDate.Equal(before.OpeningDate) {
		t.Fatalf("opening date changed: %v -> %v", before.OpeningDate, order.OpeningDate)
	}
	if order.ClosingDate == nil || !order.AcceptanceDate.Equal(*before.AcceptanceDate) {
		t.Fatalf("unexpected timestamps %+v", order)
	}
	want := []events.EventType{events.EventOrderUpdated, events.EventOrderStatusChanged}
	if diff := cmp.Diff(want, f.events.types()); diff != "" {
		t.Fatalf("events (-want +got):\n%s", diff)
	}
}

func TestOpenFormUnknownOrder(t *testing.T) {
	f := newFixture(t)
	if _, err := f.orders.OpenForm(context.Background(), "OS-404"); domainCode(t, err) != "NOT_FOUND" {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateFormReferenceChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	view, _ := f.orders.OpenForm(ctx, "")

	tests := []struct {
		name   string
		change lifecycle.Change
		code   string
	}{
		{"unknown building", lifecycle.Change{BuildingID: ptr("99")}, "NOT_FOUND"},
		{"sector without building", lifecycle.Change{SectorID: ptr("1")}, "VALIDATION_FAILED"},
		{"sector of other building", lifecycle.Change{BuildingID: ptr("1"), SectorID: ptr("3")}, "VALIDATION_FAILED"},
		{"professional without team", lifecycle.Change{ProfessionalID: ptr("1")}, "VALIDATION_FAILED"},
		{"professional of other team", lifecycle.Change{TeamID: ptr("2"), ProfessionalID: ptr("1")}, "VALIDATION_FAILED"},
		{"unknown reason", lifecycle.Change{ReasonID: ptr("9")}, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.orders.UpdateForm(ctx, view.SessionID, tt.change)
			if got := domainCode(t, err); got != tt.code {
				t.Fatalf("code = %s, want %s", got, tt.code)
			}
		})
	}

	after, _ := f.orders.GetForm(ctx, view.SessionID)
	if after.Draft.BuildingID != "" || after.Draft.TeamID != "" {
		t.Fatalf("rejected changes must not be applied: %+v", after.Draft)
	}
}

func TestUpdateFormRejectsInactiveNewTeam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.refs.UpdateTeam(ctx, "3", TeamInput{Description: "Predial Geral", Status: domain.RecordInactive}); err != nil {
		t.Fatal(err)
	}
	view, _ := f.orders.OpenForm(ctx, "")
	if _, err := f.orders.UpdateForm(ctx, view.SessionID, lifecycle.Change{TeamID: ptr("3")}); domainCode(t, err) != "CONFLICT" {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateFormKeepsInactiveExistingAssignment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.refs.UpdateTeam(ctx, "1", TeamInput{Description: "Elétrica", Status: domain.RecordInactive}); err != nil {
		t.Fatal(err)
	}
	view, _ := f.orders.OpenForm(ctx, "OS-002")
	updated, err := f.orders.UpdateForm(ctx, view.SessionID, lifecycle.Change{TeamID: ptr("1"), Description: ptr("Lâmpada e reator")})
	if err != nil {
		t.Fatalf("unchanged inactive team must be accepted: %v", err)
	}
	if updated.Draft.TeamID != "1" {
		t.Fatalf("team lost: %+v", updated.Draft)
	}
}

func TestChangeBuildingClearsSector(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	view, _ := f.orders.OpenForm(ctx, "OS-001")
	updated, err := f.orders.UpdateForm(ctx, view.SessionID, lifecycle.Change{BuildingID: ptr("2")})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Draft.SectorID != "" {
		t.Fatalf("sector must be cleared, got %q", updated.Draft.SectorID)
	}
}

func TestRequestDiagnosis(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	view, _ := f.orders.OpenForm(ctx, "")

	if _, err := f.orders.RequestDiagnosis(ctx, view.SessionID); domainCode(t, err) != "VALIDATION_FAILED" {
		t.Fatalf("expected missing fields, got %v", err)
	}

	f.orders.UpdateForm(ctx, view.SessionID, lifecycle.Change{
		BuildingID: ptr("1"), SectorID: ptr("2"), Description: ptr("Ar pingando"),
	})
	started, err := f.orders.RequestDiagnosis(ctx, view.SessionID)
	if err != nil {
		t.Fatal(err)
	}
	if !started.Analyzing {
		t.Fatal("form must be analyzing right after the request")
	}
	f.orders.Wait()

	done, _ := f.orders.GetForm(ctx, view.SessionID)
	if done.Analyzing || done.Draft.AIDiagnosis != "Verificar dreno." {
		t.Fatalf("unexpected result %+v", done)
	}
	if got := f.advisor.calls[0]; got != "Bloco A - Administrativo - TI" {
		t.Fatalf("unexpected context label %q", got)
	}
}

func TestRequestDiagnosisFallbacks(t *testing.T) {
	tests := []struct {
		name string
		text string
		err  error
		want string
	}{
		{"not configured", "", &advisory.ConfigurationError{Reason: "missing"}, advisory.MessageNotConfigured},
		{"service error", "", &advisory.ServiceError{Err: errors.New("502")}, advisory.MessageUnavailable},
		{"empty", "", nil, advisory.MessageEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.advisor.text, f.advisor.err = tt.text, tt.err
			ctx := context.Background()
			view, _ := f.orders.OpenForm(ctx, "OS-001")
			if _, err := f.orders.RequestDiagnosis(ctx, view.SessionID); err != nil {
				t.Fatal(err)
			}
			f.orders.Wait()
			done, _ := f.orders.GetForm(ctx, view.SessionID)
			if done.Draft.AIDiagnosis != tt.want {
				t.Fatalf("got %q, want %q", done.Draft.AIDiagnosis, tt.want)
			}
		})
	}
}

func TestRequestDiagnosisRejectsWhileAnalyzing(t *testing.T) {
	f := newFixture(t)
	f.advisor.release = make(chan struct{})
	ctx := context.Background()
	view, _ := f.orders.OpenForm(ctx, "OS-001")

	if _, err := f.orders.RequestDiagnosis(ctx, view.SessionID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.orders.RequestDiagnosis(ctx, view.SessionID); domainCode(t, err) != "CONFLICT" {
		t.Fatalf("expected conflict, got %v", err)
	}
	close(f.advisor.release)
	f.orders.Wait()
}

func TestDiagnosisDiscardedAfterAbandon(t *testing.T) {
	f := newFixture(t)
	f.advisor.release = make(chan struct{})
	ctx := context.Background()
	view, _ := f.orders.OpenForm(ctx, "OS-001")
	before, _ := f.orders.GetOrder(ctx, "OS-001")

	if _, err := f.orders.RequestDiagnosis(ctx, view.SessionID); err != nil {
		t.Fatal(err)
	}
	if err := f.orders.AbandonForm(ctx, view.SessionID); err != nil {
		t.Fatal(err)
	}
	close(f.advisor.release)
	f.orders.Wait()

	after, _ := f.orders.GetOrder(ctx, "OS-001")
	if after.AIDiagnosis != before.AIDiagnosis {
		t.Fatal("abandoned form must not change the stored order")
	}
	for _, et := range f.events.types() {
		if et == events.EventDiagnosisCompleted {
			t.Fatal("discarded diagnosis must not be announced")
		}
	}
}

func TestSubmitDoesNotWaitForDiagnosis(t *testing.T) {
	f := newFixture(t)
	f.advisor.release = make(chan struct{})
	defer close(f.advisor.release)
	ctx := context.Background()
	view, _ := f.orders.OpenForm(ctx, "OS-001")
	if _, err := f.orders.RequestDiagnosis(ctx, view.SessionID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.orders.SubmitForm(ctx, view.SessionID); err != nil {
		t.Fatalf("submission must not be gated by diagnosis: %v", err)
	}
	f.orders.Wait()
}

func TestExpireIdleForms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	view, _ := f.orders.OpenForm(ctx, "")
	if n := f.orders.ExpireIdleForms(time.Hour); n != 0 {
		t.Fatalf("fresh form expired")
	}
	if n := f.orders.ExpireIdleForms(-time.Minute); n != 1 {
		t.Fatalf("expected 1 expired form, got %d", n)
	}
	if _, err := f.orders.GetForm(ctx, view.SessionID); err == nil {
		t.Fatal("expired form must be gone")
	}
}

func TestListViewFilterAndSelection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.listView.SetFilter(ctx, nil, ptr("bogus")); domainCode(t, err) != "VALIDATION_FAILED" {
		t.Fatal("unknown status must be rejected")
	}
	if err := f.listView.SetFilter(ctx, ptr("lâmpada"), ptr("ALL")); err != nil {
		t.Fatal(err)
	}
	view, _ := f.listView.View(ctx)
	if len(view.Orders) != 1 || view.Orders[0].ID != "OS-002" {
		t.Fatalf("unexpected filtered view %+v", view.Orders)
	}

	selected, _ := f.listView.ToggleAll(ctx)
	if diff := cmp.Diff([]string{"OS-002"}, selected); diff != "" {
		t.Fatalf("toggle all (-want +got):\n%s", diff)
	}
	selected, _ = f.listView.ToggleAll(ctx)
	if len(selected) != 0 {
		t.Fatalf("second toggle all must clear, got %v", selected)
	}

	if _, err := f.listView.Toggle(ctx, "OS-404"); domainCode(t, err) != "NOT_FOUND" {
		t.Fatal("unknown order cannot be selected")
	}
}

func TestPrintUsesSelectionInStoreOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.print.Document(ctx, nil); domainCode(t, err) != "VALIDATION_FAILED" {
		t.Fatal("empty selection must be rejected")
	}

	f.listView.Toggle(ctx, "OS-002")
	f.listView.Toggle(ctx, "OS-001")
	doc, err := f.print.Document(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Layout != printout.LayoutLandscapeTwoUp || doc.Blocks[0].OrderID != "OS-001" {
		t.Fatalf("unexpected document %+v", doc)
	}

	doc, err = f.print.Document(ctx, []string{"OS-002"})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Layout != printout.LayoutPortrait || doc.Blocks[0].Team != "Elétrica" {
		t.Fatalf("unexpected single document %+v", doc)
	}
}

func TestPrintAfterBuildingDeletedUsesPlaceholder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if err := f.refs.DeleteBuilding(ctx, "2"); err != nil {
		t.Fatal(err)
	}
	doc, err := f.print.Document(ctx, []string{"OS-002"})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Blocks[0].Building != printout.PlaceholderLocation || doc.Blocks[0].Sector != printout.PlaceholderLocation {
		t.Fatalf("expected placeholders, got %q", doc.Blocks[0].Location())
	}
}

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)
	stats, err := f.dashboard.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 2 || stats.Pending != 1 || stats.InProgress != 1 || stats.Executed != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.ByPriority[domain.PriorityHigh] != 1 || stats.ByStatus[domain.StatusCancelled] != 0 {
		t.Fatalf("unexpected breakdown %+v", stats)
	}
}

func TestReferenceServiceValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.refs.CreateBuilding(ctx, BuildingInput{Description: "  "}); domainCode(t, err) != "VALIDATION_FAILED" {
		t.Fatal("blank description must fail")
	}
	if _, err := f.refs.CreateSector(ctx, SectorInput{BuildingID: "99", Description: "Copa"}); domainCode(t, err) != "NOT_FOUND" {
		t.Fatal("sector needs an existing building")
	}
	if _, err := f.refs.UpdateReason(ctx, "99", ReasonInput{Description: "x"}); domainCode(t, err) != "NOT_FOUND" {
		t.Fatal("replace of unknown reason must be not found")
	}

	b, err := f.refs.CreateBuilding(ctx, BuildingInput{Description: "Bloco C"})
	if err != nil || b.Status != domain.RecordActive {
		t.Fatalf("unexpected building %+v, %v", b, err)
	}
	active, _ := f.refs.ListProfessionals(ctx, "1", true)
	if len(active) != 2 {
		t.Fatalf("expected 2 professionals in team 1, got %d", len(active))
	}
}

func TestReferenceInputsReportMissingFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		want []string
	}{
		{"sector", func() error {
			_, err := f.refs.CreateSector(ctx, SectorInput{Description: " "})
			return err
		}, []string{"buildingId", "description"}},
		{"professional", func() error {
			_, err := f.refs.CreateProfessional(ctx, ProfessionalInput{Phone: "555"})
			return err
		}, []string{"name", "teamId"}},
		{"reason", func() error {
			_, err := f.refs.UpdateReason(ctx, "1", ReasonInput{Description: "\t"})
			return err
		}, []string{"description"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var de *apperrors.DomainError
			if err := tt.call(); !errors.As(err, &de) || de.Code != "VALIDATION_FAILED" {
				t.Fatalf("expected VALIDATION_FAILED, got %v", err)
			}
			if diff := cmp.Diff(tt.want, de.Details["missing_fields"]); diff != "" {
				t.Fatalf("missing_fields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
