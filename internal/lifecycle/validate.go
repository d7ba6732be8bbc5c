package lifecycle

import (
	"strings"

	"github.com/spec-kit/service-orders/internal/domain"
	"github.com/spec-kit/service-orders/internal/validation"
)

// ValidationError lists every required field left empty on submit.
type ValidationError struct {
	MissingFields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.MissingFields, ", ")
}

// ValidateForSubmit checks the fields required to commit a draft and
// reports all of the missing ones at once.
func ValidateForSubmit(d domain.Draft) error {
	missing, err := validation.MissingFields(trimmed(d))
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return &ValidationError{MissingFields: missing}
	}
	return nil
}

func trimmed(d domain.Draft) domain.Draft {
	d.BuildingID = strings.TrimSpace(d.BuildingID)
	d.SectorID = strings.TrimSpace(d.SectorID)
	d.RequesterName = strings.TrimSpace(d.RequesterName)
	d.RequesterRamal = strings.TrimSpace(d.RequesterRamal)
	d.Description = strings.TrimSpace(d.Description)
	return d
}
