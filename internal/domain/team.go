package domain

// Team represents a maintenance crew.
type Team struct {
	ID          string
	Description string
	Status      RecordStatus
}

// Active reports whether the team may be picked for new assignments.
func (t Team) Active() bool { return t.Status != RecordInactive }

// Professional is a technician belonging to a team.
type Professional struct {
	ID     string
	Name   string
	Phone  string
	Email  string
	TeamID string
	Status RecordStatus
}

// Active reports whether the professional may be picked for new assignments.
func (p Professional) Active() bool { return p.Status != RecordInactive }
