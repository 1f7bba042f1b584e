// Package notifier defines the chat notification capability consumed by the
// application layer.
package notifier

import (
	"context"

	"github.com/PierrickMartos/slub/internal/entities"
)

// ChatClient posts replies in the thread of a review announcement message.
type ChatClient interface {
	ReplyInThread(ctx context.Context, message entities.MessageIdentifier, text string) error
}
