package internal

import (
	"encoding/json"
	"time"
)

// Identity is the account used for the primary login.
type Identity struct {
	Username string
	Password string
	Region   string // country abbreviation, e.g. "ru"
}

// UserToken is the result of the primary login.
type UserToken struct {
	AccountID string
	Token     string
}

// CloudRoute tells where the account's cloud lives.
type CloudRoute struct {
	Endpoint string
	Region   string
}

// FederatedIdentity is the identity-pool membership used to obtain signing credentials.
type FederatedIdentity struct {
	IdentityID string
	Token      string
}

// CallerIdentity is what STS reports for the current signing credentials.
type CallerIdentity struct {
	Account string
	Arn     string
	UserID  string
}

// ShadowState holds the sections of a device shadow.
type ShadowState struct {
	Desired  map[string]any `json:"desired,omitempty"`
	Reported map[string]any `json:"reported,omitempty"`
	Delta    map[string]any `json:"delta,omitempty"`
}

// ShadowDocument is the cloud-side state document of a device.
type ShadowDocument struct {
	State     ShadowState `json:"state"`
	Version   int64       `json:"version,omitempty"`
	Timestamp int64       `json:"timestamp,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// UpdatedAt returns the document timestamp, zero if the service did not send one.
func (d *ShadowDocument) UpdatedAt() time.Time {
	if d.Timestamp == 0 {
		return time.Time{}
	}
	return time.Unix(d.Timestamp, 0)
}

// UpdateResult reports the outcome of a shadow write.
//
// Accepted is true for every response that is not a 403. The response payload
// is not inspected, so callers that need stronger guarantees can check
// StatusCode themselves.
type UpdateResult struct {
	Accepted   bool
	StatusCode int
}
