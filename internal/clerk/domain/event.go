// Package domain defines the Clerk webhook event envelope and the error
// taxonomy of the ingestion pipeline.
package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Recognized event types.
const (
	EventUserCreated         = "user.created"
	EventUserUpdated         = "user.updated"
	EventUserDeleted         = "user.deleted"
	EventOrgCreated          = "organization.created"
	EventOrgUpdated          = "organization.updated"
	EventOrgDeleted          = "organization.deleted"
	EventOrgMembershipCreate = "organizationMembership.created"
	EventOrgMembershipDelete = "organizationMembership.deleted"
)

var (
	// ErrInvalidSignature means the payload could not be attributed to the
	// provider. Surfaced as 401; the payload must not be decoded.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrInvalidPayload covers malformed JSON and structurally unusable
	// event bodies (e.g. a missing id). Surfaced as 500.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrEventIgnored marks an unrecognized event type. Not a failure;
	// the provider still gets a 200 so it does not retry.
	ErrEventIgnored = errors.New("event ignored")

	ErrUserNotFound         = errors.New("user not found")
	ErrOrganizationNotFound = errors.New("organization not found")
)

// Event is the decoded webhook envelope.
type Event struct {
	Type   string    `json:"type"`
	Object string    `json:"object"`
	Data   EventData `json:"data"`
}

// ParseEvent decodes a verified payload. Decode failure is distinct from
// signature failure.
func ParseEvent(payload []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return &event, nil
}

// EventData is the open-ended event body. Accessors are defensive: absent
// or wrong-typed fields yield nil, never a panic.
type EventData map[string]any

// String returns the string value at key, or nil.
func (d EventData) String(key string) *string {
	if v, ok := d[key].(string); ok {
		return &v
	}
	return nil
}

// Int64 returns the numeric value at key truncated to int64, or nil.
// JSON numbers decode as float64.
func (d EventData) Int64(key string) *int64 {
	switch v := d[key].(type) {
	case float64:
		n := int64(v)
		return &n
	case int64:
		return &v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return &n
		}
	}
	return nil
}

// Object returns the nested object at key, or nil.
func (d EventData) Object(key string) EventData {
	if v, ok := d[key].(map[string]any); ok {
		return EventData(v)
	}
	return nil
}

// Objects returns the list of nested objects at key, or nil. Non-object
// elements are skipped.
func (d EventData) Objects(key string) []EventData {
	raw, ok := d[key].([]any)
	if !ok {
		return nil
	}
	items := make([]EventData, 0, len(raw))
	for _, e := range raw {
		if m, ok := e.(map[string]any); ok {
			items = append(items, EventData(m))
		}
	}
	return items
}
