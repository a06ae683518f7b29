package domain

import (
	"time"

	"github.com/google/uuid"
)

// Resource is a registered upstream data service the gateway can forward
// queries to. Token is the gateway's own credential for that upstream and is
// never serialized into API responses.
type Resource struct {
	UUID           uuid.UUID `json:"uuid"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	TargetURL      string    `json:"targetURL,omitempty"`
	ResourceRSPath string    `json:"resourceRSPath,omitempty"`
	Token          string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
