package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/service-orders/internal/api/http/handlers"
	"github.com/spec-kit/service-orders/internal/events"
	"github.com/spec-kit/service-orders/internal/lifecycle"
	"github.com/spec-kit/service-orders/internal/observability"
	"github.com/spec-kit/service-orders/internal/repository"
	"github.com/spec-kit/service-orders/internal/service"
)

type stubAdvisor struct{}

func (stubAdvisor) Analyze(context.Context, string, string) (string, error) {
	return "Trocar o reator.", nil
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func newTestApp(t *testing.T) (*fiber.App, *service.ServiceOrderService) {
	t.Helper()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := repository.NewStore()
	if err := repository.LoadSeed(store, repository.DefaultSeed(), now); err != nil {
		t.Fatal(err)
	}
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	refs := service.NewReferenceService(service.ReferenceDependencies{
		BuildingRepo:     store.Buildings(),
		SectorRepo:       store.Sectors(),
		TeamRepo:         store.Teams(),
		ProfessionalRepo: store.Professionals(),
		ReasonRepo:       store.Reasons(),
		Logger:           logger,
	})
	orders := service.NewServiceOrderService(service.ServiceOrderDependencies{
		OrderRepo:        store.ServiceOrders(),
		BuildingRepo:     store.Buildings(),
		SectorRepo:       store.Sectors(),
		TeamRepo:         store.Teams(),
		ProfessionalRepo: store.Professionals(),
		ReasonRepo:       store.Reasons(),
		Engine:           lifecycle.NewEngine(store.ServiceOrders(), lifecycle.WithClock(func() time.Time { return now })),
		Advisor:          stubAdvisor{},
		Dispatcher:       events.NewInMemoryDispatcher(),
		Metrics:          metrics,
		Logger:           logger,
	})
	t.Cleanup(orders.Shutdown)
	listView := service.NewListViewService(store.ServiceOrders())

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:     handlers.NewHealthHandler("service-orders", "test", nil, metrics),
		References: handlers.NewReferenceHandler(refs),
		Orders:     handlers.NewOrdersHandler(orders, listView),
		Views: handlers.NewViewHandler(listView,
			service.NewPrintService(store.ServiceOrders(), refs, listView),
			service.NewDashboardService(store.ServiceOrders())),
	})
	return app, orders
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, envelope, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	var env envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
	}
	return resp.StatusCode, env, string(raw)
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t)
	if status, _, _ := do(t, app, "GET", "/health/live", ""); status != 200 {
		t.Fatalf("live status %d", status)
	}
	if status, _, body := do(t, app, "GET", "/health/ready", ""); status != 200 || !strings.Contains(body, "disabled") {
		t.Fatalf("ready status %d body %s", status, body)
	}
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	app, _ := newTestApp(t)
	status, env, _ := do(t, app, "GET", "/nope", "")
	if status != 404 || env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Fatalf("unexpected response %d %+v", status, env.Error)
	}
}

func TestOrderListFilter(t *testing.T) {
	app, _ := newTestApp(t)
	status, env, _ := do(t, app, "GET", "/orders?q=AR+CONDICIONADO&status=QUEUED", "")
	if status != 200 {
		t.Fatalf("status %d", status)
	}
	var list struct {
		Orders []struct{ ID string } `json:"orders"`
		Status string                `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Orders) != 1 || list.Orders[0].ID != "OS-001" || list.Status != "QUEUED" {
		t.Fatalf("unexpected list %+v", list)
	}

	status, env, _ = do(t, app, "GET", "/orders?status=whatever", "")
	if status != 400 || env.Error.Code != "VALIDATION_FAILED" {
		t.Fatalf("expected validation error, got %d", status)
	}
}

func TestDraftLifecycleOverHTTP(t *testing.T) {
	app, orders := newTestApp(t)

	status, env, _ := do(t, app, "POST", "/drafts", "")
	if status != 201 {
		t.Fatalf("open status %d", status)
	}
	var draft struct {
		SessionID string `json:"sessionId"`
		IsNew     bool   `json:"isNew"`
	}
	json.Unmarshal(env.Data, &draft)
	if draft.SessionID == "" || !draft.IsNew {
		t.Fatalf("unexpected draft %+v", draft)
	}
	base := "/drafts/" + draft.SessionID

	status, env, _ = do(t, app, "POST", base+"/submit", "")
	if status != 400 {
		t.Fatalf("submit of empty draft: %d", status)
	}
	missing, _ := env.Error.Details["missing_fields"].([]any)
	if len(missing) != 5 {
		t.Fatalf("expected all five missing fields, got %v", env.Error.Details)
	}

	patch := `{"buildingId":"2","sectorId":"4","requesterName":"Paula","requesterRamal":"4040","description":"Porta do almoxarifado travada","priority":"Alto"}`
	if status, _, body := do(t, app, "PATCH", base, patch); status != 200 {
		t.Fatalf("patch status %d: %s", status, body)
	}
	if status, _, _ := do(t, app, "PATCH", base, `{"priority":"URGENT"}`); status != 400 {
		t.Fatalf("bad priority accepted: %d", status)
	}

	if status, _, _ := do(t, app, "POST", base+"/diagnosis", ""); status != 202 {
		t.Fatalf("diagnosis status %d", status)
	}
	orders.Wait()
	_, env, _ = do(t, app, "GET", base, "")
	if !strings.Contains(string(env.Data), "Trocar o reator.") {
		t.Fatalf("diagnosis not applied: %s", env.Data)
	}

	status, env, _ = do(t, app, "POST", base+"/submit", "")
	if status != 200 {
		t.Fatalf("submit status %d", status)
	}
	var order struct {
		ID       string `json:"id"`
		Priority string `json:"priority"`
	}
	json.Unmarshal(env.Data, &order)
	if !strings.HasPrefix(order.ID, "OS-") || order.Priority != "HIGH" {
		t.Fatalf("unexpected order %+v", order)
	}

	if status, _, _ := do(t, app, "GET", base, ""); status != 404 {
		t.Fatalf("draft should be closed after submit, got %d", status)
	}
}

func TestSelectionAndPrint(t *testing.T) {
	app, _ := newTestApp(t)

	if status, env, _ := do(t, app, "POST", "/print", ""); status != 400 || env.Error.Code != "VALIDATION_FAILED" {
		t.Fatalf("empty selection must fail, got %d", status)
	}

	_, env, _ := do(t, app, "POST", "/selection/toggle-all", "")
	var sel struct{ Selected []string }
	json.Unmarshal(env.Data, &sel)
	if len(sel.Selected) != 2 {
		t.Fatalf("expected both orders selected, got %v", sel.Selected)
	}

	status, _, body := do(t, app, "POST", "/print?format=html", "")
	if status != 200 || !strings.Contains(body, "size: landscape") {
		t.Fatalf("unexpected html print %d", status)
	}

	status, _, body = do(t, app, "POST", "/print?format=text", `{"orderIds":["OS-001"]}`)
	if status != 200 || !strings.Contains(body, "Layout Retrato") {
		t.Fatalf("unexpected text print %d: %s", status, body)
	}

	if status, _, _ := do(t, app, "POST", "/print?format=pdf", ""); status != 400 {
		t.Fatalf("unknown format accepted: %d", status)
	}

	if status, _, _ := do(t, app, "DELETE", "/selection", ""); status != 204 {
		t.Fatalf("clear selection status %d", status)
	}
}

func TestReferenceCRUDAndCascade(t *testing.T) {
	app, _ := newTestApp(t)

	status, env, _ := do(t, app, "POST", "/buildings", `{"description":"Bloco C","status":"Inativo"}`)
	if status != 201 {
		t.Fatalf("create status %d", status)
	}
	var b struct{ ID, Status string }
	json.Unmarshal(env.Data, &b)
	if b.Status != "INACTIVE" {
		t.Fatalf("unexpected status %q", b.Status)
	}

	_, env, _ = do(t, app, "GET", "/buildings?active=true", "")
	if strings.Contains(string(env.Data), "Bloco C") {
		t.Fatal("inactive building must be hidden from picker")
	}

	if status, _, _ := do(t, app, "DELETE", "/buildings/1", ""); status != 204 {
		t.Fatalf("delete status %d", status)
	}
	_, env, _ = do(t, app, "GET", "/sectors", "")
	if strings.Contains(string(env.Data), `"buildingId":"1"`) {
		t.Fatalf("sectors of deleted building remain: %s", env.Data)
	}
	if status, _, _ := do(t, app, "PUT", "/teams/99", `{"description":"x"}`); status != 404 {
		t.Fatalf("replace missing team: %d", status)
	}
}

func TestDashboard(t *testing.T) {
	app, _ := newTestApp(t)
	status, env, _ := do(t, app, "GET", "/dashboard", "")
	if status != 200 {
		t.Fatalf("status %d", status)
	}
	var stats struct {
		Total   int `json:"total"`
		Pending int `json:"pending"`
	}
	json.Unmarshal(env.Data, &stats)
	if stats.Total != 2 || stats.Pending != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestRequestPayloadValidation(t *testing.T) {
	app, _ := newTestApp(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   []string
	}{
		{"toggle without order", "POST", "/selection/toggle", `{}`, []string{"orderId"}},
		{"blank building", "POST", "/buildings", `{"description":"   "}`, []string{"description"}},
		{"empty sector", "PUT", "/sectors/1", `{}`, []string{"buildingId", "description"}},
		{"professional without team", "POST", "/professionals", `{"name":"Ana"}`, []string{"teamId"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env, body := do(t, app, tt.method, tt.path, tt.body)
			if status != 400 || env.Error == nil || env.Error.Code != "VALIDATION_FAILED" {
				t.Fatalf("status %d: %s", status, body)
			}
			got, _ := env.Error.Details["missing_fields"].([]any)
			if len(got) != len(tt.want) {
				t.Fatalf("missing_fields = %v, want %v", got, tt.want)
			}
			for i, field := range tt.want {
				if got[i] != field {
					t.Fatalf("missing_fields = %v, want %v", got, tt.want)
				}
			}
		})
	}
}
