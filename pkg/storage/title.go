package storage

import "context"

// TitleGenerator derives a conversation title from its opening message.
// This is a reserved hook point (spec's TITLE_GENERATION_TIMEOUT_MS): no
// model-backed summarization is wired up in this release, so the only
// implementation is NoopTitleGenerator.
type TitleGenerator interface {
	// GenerateTitle returns a title for firstMessage, or "" to leave the
	// conversation's default title in place. Implementations must honor
	// ctx's deadline.
	GenerateTitle(ctx context.Context, firstMessage string) (string, error)
}

// NoopTitleGenerator never proposes a title, keeping whatever default
// CreateConversation assigned.
type NoopTitleGenerator struct{}

func (NoopTitleGenerator) GenerateTitle(_ context.Context, _ string) (string, error) {
	return "", nil
}
