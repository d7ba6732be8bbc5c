package domain

// Reason justifies a waiting or cancelled order.
type Reason struct {
	ID          string
	Description string
	Status      RecordStatus
}

// Active reports whether the reason may be picked.
func (r Reason) Active() bool { return r.Status != RecordInactive }
