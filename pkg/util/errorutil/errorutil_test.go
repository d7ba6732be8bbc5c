package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestToDomainErrorPassesThroughWrapped(t *testing.T) {
	base := NewNotFound("service order", map[string]any{"id": "OS-1"})
	wrapped := fmt.Errorf("load: %w", base)

	got := ToDomainError(wrapped)
	if got.Code != "NOT_FOUND" || got.HTTPStatus != http.StatusNotFound {
		t.Fatalf("unexpected mapping: %+v", got)
	}
	if got.Details["id"] != "OS-1" {
		t.Fatalf("details lost: %v", got.Details)
	}
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	cause := errors.New("boom")
	got := ToDomainError(cause)
	if got.Code != "INTERNAL_ERROR" || got.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unexpected mapping: %+v", got)
	}
	if !errors.Is(got, cause) {
		t.Fatal("cause must stay reachable through Unwrap")
	}
	if ToDomainError(nil) != nil {
		t.Fatal("nil must map to nil")
	}
}

func TestMissingFieldsError(t *testing.T) {
	err := NewMissingFieldsError([]string{"buildingId", "description"}, nil)
	de := ToDomainError(err)
	if de.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("status = %d", de.HTTPStatus)
	}
	fields, ok := de.Details["missing_fields"].([]string)
	if !ok || len(fields) != 2 {
		t.Fatalf("missing_fields = %v", de.Details["missing_fields"])
	}
	if de.Error() != "required fields missing" {
		t.Fatalf("message = %q", de.Error())
	}
}

func TestConflictAndValidation(t *testing.T) {
	if ToDomainError(NewConflict("busy", nil)).HTTPStatus != http.StatusConflict {
		t.Fatal("conflict status")
	}
	if ToDomainError(NewValidationError("bad", nil)).Code != "VALIDATION_FAILED" {
		t.Fatal("validation code")
	}
}
