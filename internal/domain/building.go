package domain

// Building is a physical location that groups sectors.
type Building struct {
	ID          string
	Description string
	Status      RecordStatus
}

// Active reports whether the building may be picked for new orders.
func (b Building) Active() bool { return b.Status != RecordInactive }

// Sector is a subdivision of a building.
type Sector struct {
	ID          string
	BuildingID  string
	Description string
}

// LocationLabel names a place as "building - sector", the form used both on
// printed orders and in diagnosis requests.
func LocationLabel(building, sector string) string {
	return building + " - " + sector
}
