// Package events gives transactional units of work an exactly-once-ish event
// publication path: events staged on the workflow scope are validated against the
// registered consumers before commit and published through a deduplication store so a
// retried attempt never re-emits what an earlier attempt already published.
package events

import (
	"encoding/json"
	"maps"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/perimeterx/marshmallow"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/idgen"
)

// EventMessage is the envelope published for a domain event. The identifier is
// generated once at construction and stays stable across transaction retries so the
// deduplication store can recognise a re-publication.
type EventMessage struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	// Payload carries the event body fields. Unknown fields survive a decode so
	// consumers ahead of this producer's schema do not lose data.
	Payload map[string]any `json:"-"`
}

// NewEventMessage returns an envelope for an event of eventType carrying payload.
func NewEventMessage(eventType string, payload map[string]any) (*EventMessage, error) {
	id, err := idgen.GenerateUUID4()
	if err != nil {
		return nil, err
	}
	event := &EventMessage{
		ID:         id,
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    maps.Clone(payload),
	}
	err = event.Validate()
	if err != nil {
		return nil, commonerrors.WrapError(commonerrors.ErrInvalid, err, "invalid event")
	}
	return event, nil
}

// ParseEventMessage decodes an envelope tolerantly: the envelope fields must parse but
// any other field is retained in the payload untouched.
func ParseEventMessage(data []byte) (*EventMessage, error) {
	event := &EventMessage{}
	payload, err := marshmallow.Unmarshal(data, event, marshmallow.WithExcludeKnownFieldsFromMap(true))
	if err != nil {
		return nil, commonerrors.WrapError(commonerrors.ErrMarshalling, err, "could not decode the event envelope")
	}
	event.Payload = payload
	err = event.Validate()
	if err != nil {
		return nil, commonerrors.WrapError(commonerrors.ErrInvalid, err, "invalid event")
	}
	return event, nil
}

func (e *EventMessage) Validate() error {
	return validation.ValidateStruct(e,
		validation.Field(&e.ID, validation.Required),
		validation.Field(&e.Type, validation.Required),
		validation.Field(&e.OccurredAt, validation.Required),
	)
}

// MarshalJSON flattens the payload next to the envelope fields. Envelope fields win
// over payload fields of the same name.
func (e *EventMessage) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(e.Payload)+3)
	maps.Copy(doc, e.Payload)
	doc["id"] = e.ID
	doc["type"] = e.Type
	doc["occurred_at"] = e.OccurredAt
	return json.Marshal(doc)
}
