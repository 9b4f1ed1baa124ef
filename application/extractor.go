package application

import (
	"iter"

	"wa-highlighter/core"
)

// ExtractMessages walks entry, change and message order and yields every
// actionable text message. Missing collections behave as empty ones, so the
// walk never fails; skipped messages are only logged.
func ExtractMessages(payload core.WebhookPayload, logger core.Logger) iter.Seq[core.ActionableMessage] {
	return func(yield func(core.ActionableMessage) bool) {
		for _, entry := range payload.Entry {
			for _, change := range entry.Changes {
				if change.Field != core.MessagesField {
					continue
				}
				destination := change.Value.Metadata.PhoneNumberID
				for _, message := range change.Value.Messages {
					if message.Type != core.TextMessageType {
						logger.Warn("skipping non-text message: type='%s'", message.Type)
						continue
					}
					if message.Text == nil || message.Text.Body == "" {
						logger.Warn("skipping text message without body from sender='%s'", message.From)
						continue
					}
					actionable := core.ActionableMessage{
						Destination: destination,
						Sender:      message.From,
						Text:        message.Text.Body,
					}
					if !yield(actionable) {
						return
					}
				}
			}
		}
	}
}
