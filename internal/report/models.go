package report

import (
	"regexp"
	"time"
)

// Report types accepted by the gateway.
const (
	TypeBug     = "bug"
	TypeFeature = "feature"
)

// Metadata is the JSON record stored alongside each report archive.
type Metadata struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	ExtraInfo string    `json:"extra_info"`
	IP        string    `json:"ip"`
	CreatedAt time.Time `json:"created_at"`
	SizeBytes int64     `json:"size_bytes"`
}

// Report ids are caller-supplied and used verbatim as storage key
// segments, so they are restricted to a safe identifier alphabet.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidID reports whether id is safe to use as a key segment.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}
