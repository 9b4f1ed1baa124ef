package core

import (
	"context"
)

// WebhookPayload is the top-level body of a WhatsApp Business webhook call.
type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

type ChangeValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Metadata         Metadata         `json:"metadata"`
	Messages         []InboundMessage `json:"messages"`
}

// Metadata identifies the business-side endpoint the messages arrived on.
type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

type InboundMessage struct {
	ID        string       `json:"id"`
	From      string       `json:"from"`
	Timestamp string       `json:"timestamp"`
	Type      string       `json:"type"`
	Text      *TextContent `json:"text,omitempty"`
}

type TextContent struct {
	Body string `json:"body"`
}

// ActionableMessage is one text message flattened out of a payload together
// with the destination its reply is addressed to.
type ActionableMessage struct {
	Destination string
	Sender      string
	Text        string
}

// GeneratedImage holds encoded image bytes. It is consumed by the sender and
// then discarded.
type GeneratedImage []byte

type Logger interface {
	Info(string, ...any)
	Warn(string, ...any)
	Debug(string, ...any)
	Error(string, ...any)
	Fatal(string, ...any)
}

type InterruptWatcher interface {
	StartBackgroundWatcher()
	IsInterrupted() bool
	Interrupted() <-chan struct{}
}

type ImageGenerator interface {
	GenerateImage(context.Context, string) (GeneratedImage, error)
}

type ImageSender interface {
	SendImage(context.Context, string, GeneratedImage, string) error
}

// MediaStore hosts outbound media and returns a URL the messaging platform
// can fetch it from.
type MediaStore interface {
	PutMedia(context.Context, string, []byte, string) (string, error)
}

type SecretStore interface {
	GetSecret(context.Context, string) (string, error)
}
