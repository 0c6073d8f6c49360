package api

import "github.com/codeready-toolchain/tarsy/pkg/storage"

// statusResponse is returned by GET /.
type statusResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// conversationMetadata is the list-view projection of a conversation
// returned by GET /api/conversations.
type conversationMetadata struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	UpdatedAt string `json:"updatedAt"`
}

func toMetadata(conv *storage.Conversation) conversationMetadata {
	return conversationMetadata{
		ID:        conv.ID,
		Title:     conv.Title,
		UpdatedAt: conv.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// workflowMetadataResponse is returned by GET /api/workflows/{id} with the
// dag attached. GET /api/workflows returns registry metadata directly and
// does not use this type.
type workflowMetadataResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
	StageCount  int    `json:"stageCount,omitempty"`
}
