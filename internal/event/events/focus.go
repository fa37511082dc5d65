// Package events defines the event topics and payload types published by
// the compatibility layer.
package events

import "github.com/dshills/termfix/internal/event/topic"

// Focus event topics.
const (
	// TopicFocusGained is published when the terminal window gains focus.
	TopicFocusGained topic.Topic = "terminal.focus.gained"

	// TopicFocusLost is published when the terminal window loses focus.
	TopicFocusLost topic.Topic = "terminal.focus.lost"
)

// FocusChanged is the payload for focus topics.
type FocusChanged struct {
	// Buffer is the buffer that had focus when the notification arrived.
	Buffer string

	// Gained is true for focus-gained, false for focus-lost.
	Gained bool
}
