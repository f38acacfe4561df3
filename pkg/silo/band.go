package silo

// BandID identifies one of the universal configuration bands
type BandID string

const (
	BandDatabase         BandID = "database"
	BandAuthentication   BandID = "authentication"
	BandCommunication    BandID = "communication"
	BandSchemaManagement BandID = "schema_management"
	BandResources        BandID = "resources"
	BandSecurity         BandID = "security"
)

// Band describes a semantic configuration category shared by every node type
type Band struct {
	ID          BandID `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

// bands is kept in display order.
var bands = []Band{
	{
		ID:          BandDatabase,
		Name:        "Database",
		Description: "Database connection and schema management parameters",
		Color:       "blue",
		Icon:        "🗄️",
	},
	{
		ID:          BandAuthentication,
		Name:        "Authentication",
		Description: "Authentication and security parameters",
		Color:       "green",
		Icon:        "🔐",
	},
	{
		ID:          BandCommunication,
		Name:        "Communication",
		Description: "Inter-node communication parameters",
		Color:       "purple",
		Icon:        "📡",
	},
	{
		ID:          BandSchemaManagement,
		Name:        "Schema Management",
		Description: "Schema adaptation and versioning parameters",
		Color:       "amber",
		Icon:        "📊",
	},
	{
		ID:          BandResources,
		Name:        "Resources",
		Description: "CPU, memory, and storage resource parameters",
		Color:       "red",
		Icon:        "💻",
	},
	{
		ID:          BandSecurity,
		Name:        "Security",
		Description: "Security and credential management parameters",
		Color:       "indigo",
		Icon:        "🔒",
	},
}

// ListBands returns the six bands in display order
func ListBands() []Band {
	out := make([]Band, len(bands))
	copy(out, bands)
	return out
}

// BandIDs returns the band identifiers in display order
func BandIDs() []BandID {
	ids := make([]BandID, len(bands))
	for i, b := range bands {
		ids[i] = b.ID
	}
	return ids
}

// TotalBands is the size of the closed band set
func TotalBands() int {
	return len(bands)
}

// LookupBand returns the band with the given id
func LookupBand(id string) (Band, bool) {
	for _, b := range bands {
		if string(b.ID) == id {
			return b, true
		}
	}
	return Band{}, false
}

// IsBand reports whether id names one of the six bands
func IsBand(id string) bool {
	_, ok := LookupBand(id)
	return ok
}
