package util

import (
	"github.com/google/uuid"
)

// GenerateTicketCode returns the public, unguessable code printed into the
// ticket's QR payload. UUIDv4 keeps codes non-sequential so they cannot be
// enumerated.
func GenerateTicketCode() string {
	return uuid.NewString()
}
