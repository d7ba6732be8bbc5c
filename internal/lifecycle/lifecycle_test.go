package lifecycle_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/spec-kit/service-orders/internal/domain"
	"github.com/spec-kit/service-orders/internal/lifecycle"
	"github.com/spec-kit/service-orders/internal/repository"
)

var (
	t0 = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
	t2 = t0.Add(2 * time.Hour)
)

func ptr[T any](v T) *T { return &v }

func TestValidateForSubmitListsEveryMissingField(t *testing.T) {
	tests := []struct {
		name  string
		draft domain.Draft
		want  []string
	}{
		{
			name:  "empty draft",
			draft: domain.Draft{},
			want:  []string{"buildingId", "sectorId", "requesterName", "requesterRamal", "description"},
		},
		{
			name:  "whitespace counts as missing",
			draft: domain.Draft{BuildingID: "1", SectorID: "2", RequesterName: "  ", RequesterRamal: "100", Description: "leak"},
			want:  []string{"requesterName"},
		},
		{
			name:  "complete",
			draft: domain.Draft{BuildingID: "1", SectorID: "2", RequesterName: "X", RequesterRamal: "100", Description: "leak"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := lifecycle.ValidateForSubmit(tt.draft)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verr *lifecycle.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if diff := cmp.Diff(tt.want, verr.MissingFields); diff != "" {
				t.Fatalf("missing fields (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyDerivedFieldsIsIdempotent(t *testing.T) {
	drafts := []domain.Draft{
		{},
		{ProfessionalID: "1"},
		{Status: domain.StatusExecuted},
		{ProfessionalID: "1", Status: domain.StatusExecuted},
		{ProfessionalID: "1", AcceptanceDate: ptr(t0), Status: domain.StatusExecuted},
		{Status: domain.StatusWaiting, ReasonID: "2"},
	}
	for _, d := range drafts {
		once := lifecycle.ApplyDerivedFields(d, t1)
		twice := lifecycle.ApplyDerivedFields(once, t2)
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Fatalf("not idempotent for %+v (-once +twice):\n%s", d, diff)
		}
	}
}

func TestAssigningProfessionalStartsWork(t *testing.T) {
	for _, status := range domain.Statuses {
		d := lifecycle.ApplyDerivedFields(domain.Draft{ProfessionalID: "1", Status: status}, t1)
		if d.Status != domain.StatusInProgress {
			t.Errorf("from %s: status = %s, want IN_PROGRESS", status, d.Status)
		}
		if d.AcceptanceDate == nil || !d.AcceptanceDate.Equal(t1) {
			t.Errorf("from %s: acceptance = %v", status, d.AcceptanceDate)
		}
	}
}

func TestExecutedSetsClosingDateOnce(t *testing.T) {
	d := lifecycle.ApplyDerivedFields(domain.Draft{Status: domain.StatusExecuted}, t1)
	if d.ClosingDate == nil || !d.ClosingDate.Equal(t1) {
		t.Fatalf("closing = %v, want %v", d.ClosingDate, t1)
	}
	d = lifecycle.ApplyDerivedFields(d, t2)
	if !d.ClosingDate.Equal(t1) {
		t.Fatalf("closing overwritten: %v", d.ClosingDate)
	}
	d.Status = domain.StatusInProgress
	d = lifecycle.ApplyDerivedFields(d, t2)
	if d.ClosingDate == nil {
		t.Fatal("closing date must never be cleared")
	}
}

func TestDependentFieldsAreCleared(t *testing.T) {
	d := domain.Draft{BuildingID: "1", SectorID: "2", TeamID: "1", ProfessionalID: "1"}
	if got := lifecycle.ChangeBuilding(d, "2"); got.BuildingID != "2" || got.SectorID != "" {
		t.Fatalf("ChangeBuilding = %+v", got)
	}
	if got := lifecycle.ChangeBuilding(d, "1"); got.SectorID != "" {
		t.Fatalf("ChangeBuilding to same building must still clear sector, got %+v", got)
	}
	if got := lifecycle.ChangeTeam(d, "2"); got.TeamID != "2" || got.ProfessionalID != "" {
		t.Fatalf("ChangeTeam = %+v", got)
	}
}

func TestApplyChangeFollowsFormOrder(t *testing.T) {
	d := domain.Draft{BuildingID: "1", SectorID: "2", Status: domain.StatusQueued}
	got := lifecycle.ApplyChange(d, lifecycle.Change{
		BuildingID:     ptr("2"),
		SectorID:       ptr("3"),
		TeamID:         ptr("1"),
		ProfessionalID: ptr("1"),
		Status:         ptr(domain.StatusExecuted),
	}, t1)

	if got.BuildingID != "2" || got.SectorID != "3" {
		t.Fatalf("building/sector = %s/%s", got.BuildingID, got.SectorID)
	}
	if got.Status != domain.StatusExecuted {
		t.Fatalf("status = %s, want EXECUTED", got.Status)
	}
	if got.AcceptanceDate == nil || got.ClosingDate == nil {
		t.Fatalf("expected both timestamps, got %+v", got)
	}
	if !lifecycle.ApplyChange(got, lifecycle.Change{}, t2).ClosingDate.Equal(t1) {
		t.Fatal("empty change must not touch timestamps")
	}
}

func TestSuggestedTransitions(t *testing.T) {
	if !lifecycle.IsSuggestedTransition(domain.StatusQueued, domain.StatusWaiting) {
		t.Fatal("queued -> waiting should be suggested")
	}
	if lifecycle.IsSuggestedTransition(domain.StatusExecuted, domain.StatusQueued) {
		t.Fatal("executed is terminal")
	}
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newEngine(t *testing.T) (*lifecycle.Engine, *clock, repository.ServiceOrderRepository) {
	t.Helper()
	store := repository.NewStore()
	c := &clock{now: t0}
	orders := store.ServiceOrders()
	return lifecycle.NewEngine(orders, lifecycle.WithClock(c.Now)), c, orders
}

func TestOrderLifecycleEndToEnd(t *testing.T) {
	ctx := context.Background()
	engine, c, orders := newEngine(t)

	draft := engine.NewDraft()
	draft = lifecycle.ApplyChange(draft, lifecycle.Change{
		BuildingID:     ptr("B1"),
		SectorID:       ptr("S1"),
		Description:    ptr("leak"),
		RequesterName:  ptr("X"),
		RequesterRamal: ptr("100"),
		Priority:       ptr(domain.PriorityMedium),
	}, c.now)
	created, err := engine.Commit(ctx, draft)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if created.ID == "" || created.Status != domain.StatusQueued || !created.OpeningDate.Equal(t0) {
		t.Fatalf("unexpected created order: %+v", created)
	}
	if created.AcceptanceDate != nil || created.ClosingDate != nil {
		t.Fatalf("new order must not carry acceptance/closing: %+v", created)
	}

	c.now = t1
	draft = domain.DraftFromOrder(*created)
	draft = lifecycle.ApplyChange(draft, lifecycle.Change{TeamID: ptr("T1")}, c.now)
	draft = lifecycle.ApplyChange(draft, lifecycle.Change{ProfessionalID: ptr("P1")}, c.now)
	assigned, err := engine.Commit(ctx, draft)
	if err != nil {
		t.Fatalf("commit assignment: %v", err)
	}
	if assigned.ID != created.ID || assigned.Status != domain.StatusInProgress {
		t.Fatalf("unexpected assigned order: %+v", assigned)
	}
	if assigned.AcceptanceDate == nil || !assigned.AcceptanceDate.Equal(t1) || assigned.ClosingDate != nil {
		t.Fatalf("unexpected timestamps: %+v", assigned)
	}

	c.now = t2
	draft = domain.DraftFromOrder(*assigned)
	draft = lifecycle.ApplyChange(draft, lifecycle.Change{Status: ptr(domain.StatusExecuted)}, c.now)
	executed, err := engine.Commit(ctx, draft)
	if err != nil {
		t.Fatalf("commit execution: %v", err)
	}
	if executed.ClosingDate == nil || !executed.ClosingDate.Equal(t2) {
		t.Fatalf("closing = %v, want %v", executed.ClosingDate, t2)
	}
	if !executed.AcceptanceDate.Equal(t1) || !executed.OpeningDate.Equal(t0) {
		t.Fatalf("earlier timestamps changed: %+v", executed)
	}

	all, _ := orders.List(ctx)
	if len(all) != 1 {
		t.Fatalf("expected a single stored order, got %d", len(all))
	}
}

func TestCommitKeepsStoredTimestamps(t *testing.T) {
	ctx := context.Background()
	engine, c, _ := newEngine(t)

	created, err := engine.Commit(ctx, domain.Draft{
		BuildingID: "1", SectorID: "2", RequesterName: "X", RequesterRamal: "1", Description: "d",
		ProfessionalID: "1", TeamID: "1",
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	c.now = t2
	draft := domain.DraftFromOrder(*created)
	draft.OpeningDate = ptr(t2)
	draft.AcceptanceDate = nil
	draft.Status = domain.StatusWaiting
	updated, err := engine.Commit(ctx, draft)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.OpeningDate.Equal(t0) {
		t.Fatalf("opening date mutated: %v", updated.OpeningDate)
	}
	if updated.AcceptanceDate == nil || !updated.AcceptanceDate.Equal(t0) {
		t.Fatalf("acceptance date overwritten: %v", updated.AcceptanceDate)
	}
	if updated.Status != domain.StatusWaiting {
		t.Fatalf("status = %s, want %s: an accepted order must not be re-accepted", updated.Status, domain.StatusWaiting)
	}
}

func TestCommitErrors(t *testing.T) {
	ctx := context.Background()
	engine, _, _ := newEngine(t)

	_, err := engine.Commit(ctx, domain.Draft{Description: "only"})
	var verr *lifecycle.ValidationError
	if !errors.As(err, &verr) || len(verr.MissingFields) != 4 {
		t.Fatalf("expected 4 missing fields, got %v", err)
	}

	_, err = engine.Commit(ctx, domain.Draft{
		ID: "OS-404", BuildingID: "1", SectorID: "2", RequesterName: "X", RequesterRamal: "1", Description: "d",
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGenerateOrderIDIsUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := lifecycle.GenerateOrderID()
		if len(id) != len("OS-")+12 || id[:3] != "OS-" {
			t.Fatalf("unexpected id format %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
