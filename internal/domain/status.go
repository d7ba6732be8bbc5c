package domain

import "strings"

// Status enumerates lifecycle states for service orders.
type Status string

const (
	StatusQueued     Status = "QUEUED"
	StatusWaiting    Status = "WAITING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusExecuted   Status = "EXECUTED"
	StatusCancelled  Status = "CANCELLED"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusQueued, StatusWaiting, StatusInProgress, StatusExecuted, StatusCancelled}

var statusLabels = map[Status]string{
	StatusQueued:     "Na fila",
	StatusWaiting:    "Em espera",
	StatusInProgress: "Em andamento",
	StatusExecuted:   "Executado",
	StatusCancelled:  "Cancelada",
}

// Label returns the fixed display label.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// RequiresReason reports whether a wait/cancellation reason is meaningful.
func (s Status) RequiresReason() bool {
	return s == StatusWaiting || s == StatusCancelled
}

// ParseStatus accepts either the code or the display label.
func ParseStatus(raw string) (Status, bool) {
	raw = strings.TrimSpace(raw)
	for _, s := range Statuses {
		if strings.EqualFold(raw, string(s)) || strings.EqualFold(raw, s.Label()) {
			return s, true
		}
	}
	return "", false
}

// Priority enumerates urgency. No ordering is implied.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Priorities lists every priority in display order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

var priorityLabels = map[Priority]string{
	PriorityLow:    "Baixo",
	PriorityMedium: "Médio",
	PriorityHigh:   "Alto",
}

// Label returns the fixed display label.
func (p Priority) Label() string {
	if label, ok := priorityLabels[p]; ok {
		return label
	}
	return string(p)
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	_, ok := priorityLabels[p]
	return ok
}

// ParsePriority accepts either the code or the display label.
func ParsePriority(raw string) (Priority, bool) {
	raw = strings.TrimSpace(raw)
	for _, p := range Priorities {
		if strings.EqualFold(raw, string(p)) || strings.EqualFold(raw, p.Label()) {
			return p, true
		}
	}
	return "", false
}

// RecordStatus marks reference entities as usable for new assignments.
type RecordStatus string

const (
	RecordActive   RecordStatus = "ACTIVE"
	RecordInactive RecordStatus = "INACTIVE"
)

// Label returns the fixed display label.
func (r RecordStatus) Label() string {
	switch r {
	case RecordActive:
		return "Ativo"
	case RecordInactive:
		return "Inativo"
	}
	return string(r)
}

// ParseRecordStatus accepts either the code or the display label.
// An empty value is treated as active.
func ParseRecordStatus(raw string) (RecordStatus, bool) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return RecordActive, true
	case strings.EqualFold(raw, string(RecordActive)), strings.EqualFold(raw, RecordActive.Label()):
		return RecordActive, true
	case strings.EqualFold(raw, string(RecordInactive)), strings.EqualFold(raw, RecordInactive.Label()):
		return RecordInactive, true
	}
	return "", false
}
