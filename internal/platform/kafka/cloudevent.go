// Package kafka wraps segmentio/kafka-go with a CloudEvents JSON envelope.
package kafka

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const cloudEventsSpecVersion = "1.0"

var ErrInvalidEvent = errors.New("invalid cloud event")

// CloudEvent is a structured-mode CloudEvents 1.0 envelope.
type CloudEvent struct {
	SpecVersion     string          `json:"specversion"`
	ID              string          `json:"id"`
	Source          string          `json:"source"`
	Type            string          `json:"type"`
	Subject         string          `json:"subject,omitempty"`
	Time            time.Time       `json:"time"`
	DataContentType string          `json:"datacontenttype"`
	Data            json.RawMessage `json:"data"`
}

// NewCloudEvent wraps data in an envelope of the given type.
func NewCloudEvent(source, eventType string, data interface{}) (CloudEvent, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return CloudEvent{}, fmt.Errorf("marshal event data: %w", err)
	}
	return CloudEvent{
		SpecVersion:     cloudEventsSpecVersion,
		ID:              uuid.NewString(),
		Source:          source,
		Type:            eventType,
		Time:            time.Now().UTC(),
		DataContentType: "application/json",
		Data:            raw,
	}, nil
}

// WithSubject returns a copy of the event with its subject set. The subject
// is also used as the Kafka message key.
func (e CloudEvent) WithSubject(subject string) CloudEvent {
	e.Subject = subject
	return e
}

// ParseCloudEvent decodes an envelope and checks its required attributes.
func ParseCloudEvent(b []byte) (CloudEvent, error) {
	var e CloudEvent
	if err := json.Unmarshal(b, &e); err != nil {
		return CloudEvent{}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if e.ID == "" || e.Type == "" || e.Source == "" {
		return CloudEvent{}, fmt.Errorf("%w: missing id, type or source", ErrInvalidEvent)
	}
	return e, nil
}

// ParseData decodes the event payload into v.
func (e CloudEvent) ParseData(v interface{}) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("%w: empty data", ErrInvalidEvent)
	}
	return json.Unmarshal(e.Data, v)
}
