package query

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/spec-kit/service-orders/internal/domain"
)

// StatusAll is the status filter sentinel that matches every order.
const StatusAll = "ALL"

// StatusFilter is either StatusAll or a single status.
type StatusFilter string

// ParseStatusFilter accepts "ALL" (or empty) or a status code/label.
func ParseStatusFilter(raw string) (StatusFilter, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, StatusAll) {
		return StatusAll, true
	}
	status, ok := domain.ParseStatus(raw)
	if !ok {
		return "", false
	}
	return StatusFilter(status), true
}

func (f StatusFilter) matches(s domain.Status) bool {
	return f == "" || f == StatusAll || domain.Status(f) == s
}

// fold builds a fresh Caser per call; Casers are stateful and must not be
// shared between goroutines.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Filter returns the orders whose description or id contains text
// (case-insensitively) and whose status matches. Store order is preserved.
func Filter(orders []domain.ServiceOrder, text string, status StatusFilter) []domain.ServiceOrder {
	needle := fold(text)
	result := make([]domain.ServiceOrder, 0, len(orders))
	for _, o := range orders {
		if !status.matches(o.Status) {
			continue
		}
		if needle != "" && !strings.Contains(fold(o.Description), needle) && !strings.Contains(fold(o.ID), needle) {
			continue
		}
		result = append(result, o)
	}
	return result
}

// IDs extracts order ids in sequence.
func IDs(orders []domain.ServiceOrder) []string {
	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	return ids
}
