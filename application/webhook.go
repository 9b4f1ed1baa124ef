package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"time"

	"wa-highlighter/core"
)

type ProcessorSettings struct {
	ExpectedObject string
	ImageFileName  string
	// DefaultDestination addresses replies for changes whose metadata carries
	// no phone number id.
	DefaultDestination string
	CallTimeout        time.Duration
}

// WebhookProcessor drives one webhook event from the decoded payload to the
// aggregate outcome. A nil error acknowledges the event.
type WebhookProcessor struct {
	generator          core.ImageGenerator
	sender             core.ImageSender
	logger             core.Logger
	expectedObject     string
	fileName           string
	defaultDestination string
	timeout            time.Duration
}

func NewWebhookProcessor(settings ProcessorSettings, generator core.ImageGenerator, sender core.ImageSender, logger core.Logger) (*WebhookProcessor, error) {
	if generator == nil || sender == nil || logger == nil {
		return nil, errors.New("generator, sender, and logger are required")
	}
	expectedObject := settings.ExpectedObject
	if expectedObject == "" {
		expectedObject = core.ExpectedObject
	}
	fileName := settings.ImageFileName
	if fileName == "" {
		fileName = core.DefaultImageFilename
	}
	return &WebhookProcessor{
		generator:          generator,
		sender:             sender,
		logger:             logger,
		expectedObject:     expectedObject,
		fileName:           fileName,
		defaultDestination: settings.DefaultDestination,
		timeout:            settings.CallTimeout,
	}, nil
}

func DecodeWebhookPayload(body []byte) (core.WebhookPayload, error) {
	var payload core.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return core.WebhookPayload{}, core.NewValidationError(fmt.Sprintf("malformed webhook payload: %v", err), nil)
	}
	return payload, nil
}

// ProcessEvent rejects payloads for other account types with a validation
// error, then extracts and highlights the payload's messages in order.
func (processor *WebhookProcessor) ProcessEvent(ctx context.Context, payload core.WebhookPayload) (err error) {
	logger := processor.logger
	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error("recovered from panic while processing webhook: %v", recovered)
			err = core.NewUnexpectedError(fmt.Errorf("panic: %v", recovered), "unexpected error processing webhook")
		}
	}()

	if payload.Object != processor.expectedObject {
		logger.Warn("ignoring webhook for object='%s'", payload.Object)
		return core.NewValidationError("unexpected webhook object", map[string]any{"object": payload.Object})
	}

	messages := ExtractMessages(payload, logger)
	if processor.defaultDestination != "" {
		messages = withDefaultDestination(messages, processor.defaultDestination)
	}

	delivered, err := HighlightMessages(ctx, messages, processor.generator, processor.sender, processor.fileName, processor.timeout, logger)
	if err != nil {
		logger.Warn("aborted webhook after %d delivered message(s): code=%s", delivered, core.TextCode(err))
		return err
	}
	logger.Info("processed webhook: delivered %d message(s)", delivered)
	return nil
}

func withDefaultDestination(messages iter.Seq[core.ActionableMessage], destination string) iter.Seq[core.ActionableMessage] {
	return func(yield func(core.ActionableMessage) bool) {
		for message := range messages {
			if message.Destination == "" {
				message.Destination = destination
			}
			if !yield(message) {
				return
			}
		}
	}
}
