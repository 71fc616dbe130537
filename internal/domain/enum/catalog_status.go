package enum

// CatalogStatus marks whether a price catalog entry is the one in force.
// At most one entry may be active at any time.
type CatalogStatus string

const (
	CatalogStatusActive   CatalogStatus = "active"
	CatalogStatusInactive CatalogStatus = "inactive"
)
