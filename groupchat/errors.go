package groupchat

import "errors"

// Sentinel errors for group chat preconditions and lifecycle.
var (
	// ErrInitialization indicates that a required model connection could
	// not be established. Fatal to the session until configuration is fixed.
	ErrInitialization = errors.New("group chat initialization failed")

	// ErrNoParticipants indicates that the chat has no participants at all.
	ErrNoParticipants = errors.New("no participants in group chat")

	// ErrNoActiveParticipants indicates that every participant is an observer.
	ErrNoActiveParticipants = errors.New("no active participants available")

	// ErrAgentNotFound indicates a registry miss for a participant name.
	ErrAgentNotFound = errors.New("agent not found in registry")

	// ErrSessionClosed indicates the session was cleaned up and cannot be
	// used again.
	ErrSessionClosed = errors.New("group chat session is closed")
)
