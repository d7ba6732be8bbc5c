package printout

import (
	"strings"
	"time"

	"github.com/spec-kit/service-orders/internal/domain"
)

// Layout describes the page arrangement of a print job.
type Layout string

const (
	LayoutPortrait        Layout = "PORTRAIT"
	LayoutLandscapeTwoUp  Layout = "LANDSCAPE_TWO_UP"
	PlaceholderLocation          = "N/A"
	PlaceholderAssignment        = "___"
	Footer                       = "Visualização gerada pelo sistema ManutTech OS."
	dateLayout                   = "02/01/2006 15:04"
)

// Lookups resolves reference ids to display names.
type Lookups struct {
	Buildings     map[string]string
	Sectors       map[string]string
	Teams         map[string]string
	Professionals map[string]string
}

// NewLookups indexes reference entities by id. Inactive entries are kept so
// historical orders still resolve.
func NewLookups(buildings []domain.Building, sectors []domain.Sector, teams []domain.Team, professionals []domain.Professional) Lookups {
	l := Lookups{
		Buildings:     make(map[string]string, len(buildings)),
		Sectors:       make(map[string]string, len(sectors)),
		Teams:         make(map[string]string, len(teams)),
		Professionals: make(map[string]string, len(professionals)),
	}
	for _, b := range buildings {
		l.Buildings[b.ID] = b.Description
	}
	for _, s := range sectors {
		l.Sectors[s.ID] = s.Description
	}
	for _, t := range teams {
		l.Teams[t.ID] = t.Description
	}
	for _, p := range professionals {
		l.Professionals[p.ID] = p.Name
	}
	return l
}

// Block is one printable work order.
type Block struct {
	OrderID        string `json:"orderId"`
	Number         string `json:"number"`
	Priority       string `json:"priority"`
	Status         string `json:"status"`
	OpeningDate    string `json:"openingDate"`
	Building       string `json:"building"`
	Sector         string `json:"sector"`
	RequesterName  string `json:"requesterName"`
	RequesterRamal string `json:"requesterRamal"`
	Description    string `json:"description"`
	AIDiagnosis    string `json:"aiDiagnosis,omitempty"`
	Team           string `json:"team"`
	Professional   string `json:"professional"`
}

// Location joins building and sector for the printed header.
func (b Block) Location() string {
	return domain.LocationLabel(b.Building, b.Sector)
}

// Document is the layout-ready projection of a set of orders.
type Document struct {
	Layout  Layout  `json:"layout"`
	Columns int     `json:"columns"`
	Blocks  []Block `json:"blocks"`
	Footer  string  `json:"footer"`
}

// Landscape reports whether the page is printed sideways.
func (d Document) Landscape() bool { return d.Layout == LayoutLandscapeTwoUp }

// Project builds the print document. Exactly two orders share one landscape
// page; any other count prints one portrait block per order.
func Project(orders []domain.ServiceOrder, lookups Lookups) Document {
	doc := Document{Layout: LayoutPortrait, Columns: 1, Footer: Footer}
	if len(orders) == 2 {
		doc.Layout = LayoutLandscapeTwoUp
		doc.Columns = 2
	}
	doc.Blocks = make([]Block, 0, len(orders))
	for _, o := range orders {
		doc.Blocks = append(doc.Blocks, Block{
			OrderID:        o.ID,
			Number:         strings.TrimPrefix(o.ID, "OS-"),
			Priority:       o.Priority.Label(),
			Status:         o.Status.Label(),
			OpeningDate:    formatDate(o.OpeningDate),
			Building:       resolve(lookups.Buildings, o.BuildingID, PlaceholderLocation),
			Sector:         resolve(lookups.Sectors, o.SectorID, PlaceholderLocation),
			RequesterName:  o.RequesterName,
			RequesterRamal: o.RequesterRamal,
			Description:    o.Description,
			AIDiagnosis:    o.AIDiagnosis,
			Team:           resolve(lookups.Teams, o.TeamID, PlaceholderAssignment),
			Professional:   resolve(lookups.Professionals, o.ProfessionalID, PlaceholderAssignment),
		})
	}
	return doc
}

func resolve(names map[string]string, id, placeholder string) string {
	if id == "" {
		return placeholder
	}
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return placeholder
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return PlaceholderLocation
	}
	return t.Format(dateLayout)
}
