package artwork

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPublished Status = "published"
	StatusHidden    Status = "hidden"
	StatusRemoved   Status = "removed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPublished, StatusHidden, StatusRemoved:
		return true
	default:
		return false
	}
}

// MaxPrice caps a listing at 100,000,000.00; the request tags repeat it.
const MaxPrice int64 = 10_000_000_000

// Artwork is a listing owned by an artist. Price is in cents.
type Artwork struct {
	ID          uuid.UUID
	ArtistID    uuid.UUID
	Title       string
	Description string
	Category    string
	ImageURL    string
	Price       int64
	Stock       int
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (a *Artwork) IsOwnedBy(userID uuid.UUID) bool {
	return a.ArtistID == userID
}

func (a *Artwork) IsPublished() bool {
	return a.Status == StatusPublished
}
