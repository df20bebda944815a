// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package eventprocessor

import (
	"fmt"
	"strconv"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
)

// Message metadata keys. Subscribers can route on these without decoding
// the payload.
const (
	MetadataType   = "type"
	MetadataUserID = "user_id"
)

// EncodeMessage validates event and wraps its JSON form in a message whose
// UUID is the event ID.
func EncodeMessage(event *InteractionEvent) (*message.Message, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event %s: %w", event.EventID, err)
	}

	msg := message.NewMessage(event.EventID, payload)
	msg.Metadata.Set(MetadataType, string(event.Type))
	msg.Metadata.Set(MetadataUserID, strconv.Itoa(event.UserID))
	return msg, nil
}

// DecodeMessage parses and validates the event carried by msg. A type in
// the metadata that disagrees with the payload is rejected.
func DecodeMessage(msg *message.Message) (*InteractionEvent, error) {
	var event InteractionEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return nil, fmt.Errorf("unmarshal message %s: %w", msg.UUID, err)
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	if t := msg.Metadata.Get(MetadataType); t != "" && t != string(event.Type) {
		return nil, fmt.Errorf("%w: metadata type %q, payload type %q", ErrInvalidEvent, t, event.Type)
	}
	return &event, nil
}
