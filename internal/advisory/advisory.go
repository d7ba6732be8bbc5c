package advisory

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/service-orders/internal/domain"
)

// Fixed messages shown in place of a diagnosis.
const (
	MessageNotConfigured = "Erro: Chave de API não configurada. Verifique o ambiente."
	MessageUnavailable   = "Não foi possível gerar o diagnóstico no momento."
	MessageEmpty         = "Sem análise gerada."
)

// Connector produces diagnostic advice for a maintenance problem.
type Connector interface {
	Analyze(ctx context.Context, description, contextLabel string) (string, error)
}

// ConfigurationError is returned when no credential is configured.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "advisory not configured: " + e.Reason
}

// ServiceError wraps any transport or processing failure.
type ServiceError struct {
	Err error
}

func (e *ServiceError) Error() string {
	return "advisory service failed: " + e.Err.Error()
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Resolve turns an Analyze outcome into the text stored on the order.
// Failures never propagate; they become fixed fallback messages.
func Resolve(text string, err error) string {
	var cfgErr *ConfigurationError
	switch {
	case errors.As(err, &cfgErr):
		return MessageNotConfigured
	case err != nil:
		return MessageUnavailable
	case strings.TrimSpace(text) == "":
		return MessageEmpty
	}
	return strings.TrimSpace(text)
}

// ContextLabel describes where the problem is, as "building - sector".
func ContextLabel(building, sector string) string {
	return domain.LocationLabel(building, sector)
}
