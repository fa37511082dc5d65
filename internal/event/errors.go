package event

import "errors"

var (
	// ErrNoTopic is returned when a published value does not carry a topic.
	ErrNoTopic = errors.New("event: published value has no topic")

	// ErrInvalidTopic is returned when subscribing to a malformed topic.
	ErrInvalidTopic = errors.New("event: invalid topic")

	// ErrNilHandler is returned when subscribing with a nil handler.
	ErrNilHandler = errors.New("event: nil handler")
)
