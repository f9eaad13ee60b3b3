package domain

// Default lane identifiers. A board is created with exactly these lanes and
// they are never destroyed during a session.
const (
	LaneAwareness  = "awareness"
	LaneConversion = "conversion"
	LaneRetention  = "retention"
)

// DefaultLaneOrder is the display order of the campaign phases.
var DefaultLaneOrder = []string{LaneAwareness, LaneConversion, LaneRetention}

type SyncStatus string

const (
	SyncSynced SyncStatus = "synced"
	SyncSaving SyncStatus = "saving"
	SyncError  SyncStatus = "error"
)

// ValidLibraryCategories is the canonical set of accepted library categories.
var ValidLibraryCategories = map[string]bool{
	"seo": true, "content": true, "social": true, "email": true,
	"paid": true, "events": true, "partnerships": true, "general": true,
}
