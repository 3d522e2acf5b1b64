package uid

import "github.com/google/uuid"

// UUID generates RFC 4122 UUID strings. V7 ids are preferred because
// they sort by creation time, which keeps index pages warm.
type UUID struct{}

// NewUUID returns a UUID generator.
func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a new UUID string, falling back to a random V4 if V7
// generation fails.
func (u *UUID) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
