package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is the JSON envelope carried in every message value. Data holds the
// type-specific payload and is decoded lazily by consumers.
type Event struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent wraps data with a fresh id and UTC timestamp.
func NewEvent(eventType, aggregateID, aggregateType, source string, data any) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return &Event{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		Data:          raw,
	}, nil
}

func (e *Event) WithCorrelationID(id string) *Event {
	e.CorrelationID = id
	return e
}

// Encode returns the wire form of the envelope.
func (e *Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeEvent parses a message value. An envelope without an event type is
// rejected.
func DecodeEvent(value []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(value, &e); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	if e.EventType == "" {
		return nil, fmt.Errorf("decode event: missing event_type")
	}
	return &e, nil
}

// Decode unmarshals the payload into target.
func (e *Event) Decode(target any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("event %s has no data", e.EventID)
	}
	return json.Unmarshal(e.Data, target)
}
