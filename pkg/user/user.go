package user

import (
	"time"
)

// DefaultUid identifies the seeded fallback owner used when a request
// carries no X-User-Id header.
const DefaultUid = "00000000-0000-0000-0000-000000000001"

type User struct {
	Id          int
	Uid         string
	DisplayName string
	CreatedAt   time.Time
}
