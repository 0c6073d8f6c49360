// Package storage persists conversations and their message history as
// JSON files on disk. The interface and sentinel-error style are grounded
// on pkg/services/errors.go and pkg/database/client.go's lifecycle
// conventions; the backing implementation is a plain file store rather
// than the teacher's ent/Postgres stack, since entgo.io/ent requires
// go-generate-produced query code this exercise has no way to produce.
package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a conversation does not exist.
	ErrNotFound = errors.New("conversation not found")

	// ErrAlreadyExists is returned by CreateConversation for a duplicate ID.
	ErrAlreadyExists = errors.New("conversation already exists")

	// ErrInvalidID is returned when a conversation ID isn't a bare UUID —
	// in particular one containing a path separator or "..", which would
	// otherwise let FileStore.path escape dataDir.
	ErrInvalidID = errors.New("invalid conversation id")
)

// StorageError wraps a failure performing a store operation, keeping the
// conversation ID and underlying cause alongside a human-readable message.
type StorageError struct {
	ConversationID string
	Op             string
	Cause          error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s conversation %q: %v", e.Op, e.ConversationID, e.Cause)
}

func (e *StorageError) Unwrap() error { return e.Cause }

func wrapErr(op, conversationID string, cause error) error {
	return &StorageError{ConversationID: conversationID, Op: op, Cause: cause}
}
