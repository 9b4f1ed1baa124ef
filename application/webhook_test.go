package application

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wa-highlighter/core"
)

func newTestProcessor(t *testing.T, settings ProcessorSettings, generator core.ImageGenerator, sender core.ImageSender) *WebhookProcessor {
	t.Helper()
	processor, err := NewWebhookProcessor(settings, generator, sender, &fakeLogger{})
	require.NoError(t, err)
	return processor
}

func TestWebhookProcessor(t *testing.T) {
	ctx := context.Background()

	t.Run("requires its collaborators", func(t *testing.T) {
		_, err := NewWebhookProcessor(ProcessorSettings{}, nil, &fakeSender{}, &fakeLogger{})
		assert.Error(t, err)
	})

	t.Run("end to end scenario", func(t *testing.T) {
		generator := &fakeGenerator{}
		sender := &fakeSender{}
		processor := newTestProcessor(t, ProcessorSettings{}, generator, sender)

		payload, err := DecodeWebhookPayload([]byte(core.TestPayloadJSON))
		require.NoError(t, err)
		err = processor.ProcessEvent(ctx, payload)

		assert.NoError(t, err)
		assert.Equal(t, []string{"hello"}, generator.calls)
		assert.Equal(t, []sentImage{{destination: "123", image: "img:hello", fileName: "message_highlight.png"}}, sender.sent)
	})

	t.Run("wrong object is a validation error and nothing is processed", func(t *testing.T) {
		generator := &fakeGenerator{}
		sender := &fakeSender{}
		processor := newTestProcessor(t, ProcessorSettings{}, generator, sender)

		payload := messagesPayload("123", core.TestTextMessage)
		payload.Object = "page"
		err := processor.ProcessEvent(ctx, payload)

		assert.Equal(t, http.StatusNotFound, core.StatusCode(err))
		assert.Empty(t, generator.calls)
		assert.Empty(t, sender.sent)
	})

	t.Run("configured object replaces the default", func(t *testing.T) {
		processor := newTestProcessor(t, ProcessorSettings{ExpectedObject: "instagram"}, &fakeGenerator{}, &fakeSender{})
		err := processor.ProcessEvent(ctx, core.TestPayload)
		assert.Equal(t, http.StatusNotFound, core.StatusCode(err))
	})

	t.Run("skipped messages still acknowledge", func(t *testing.T) {
		sender := &fakeSender{}
		processor := newTestProcessor(t, ProcessorSettings{}, &fakeGenerator{}, sender)
		err := processor.ProcessEvent(ctx, messagesPayload("123", core.TestImageMessage))
		assert.NoError(t, err)
		assert.Empty(t, sender.sent)
	})

	t.Run("batch aborts at the first failure", func(t *testing.T) {
		generator := &fakeGenerator{failOn: map[string]error{"two": errors.New("render failed")}}
		sender := &fakeSender{}
		processor := newTestProcessor(t, ProcessorSettings{}, generator, sender)

		payload := messagesPayload("123", textMessage("1", "one"), textMessage("2", "two"), textMessage("3", "three"))
		err := processor.ProcessEvent(ctx, payload)

		assert.Equal(t, http.StatusInternalServerError, core.StatusCode(err))
		assert.Equal(t, core.WebhookErrorDependency, core.TextCode(err))
		assert.Equal(t, []string{"one", "two"}, generator.calls)
		assert.Equal(t, []sentImage{{destination: "123", image: "img:one", fileName: core.DefaultImageFilename}}, sender.sent)
	})

	t.Run("delivery failure aborts the batch", func(t *testing.T) {
		generator := &fakeGenerator{}
		sender := &fakeSender{failOn: map[string]error{"img:two": errors.New("rate limited")}}
		processor := newTestProcessor(t, ProcessorSettings{}, generator, sender)

		payload := messagesPayload("123", textMessage("1", "one"), textMessage("2", "two"), textMessage("3", "three"))
		err := processor.ProcessEvent(ctx, payload)

		assert.Equal(t, http.StatusInternalServerError, core.StatusCode(err))
		assert.Equal(t, []string{"one", "two"}, generator.calls)
		assert.Len(t, sender.sent, 1)
	})

	t.Run("slow dependency times out", func(t *testing.T) {
		generator := &fakeGenerator{block: true}
		processor := newTestProcessor(t, ProcessorSettings{CallTimeout: 20 * time.Millisecond}, generator, &fakeSender{})

		err := processor.ProcessEvent(ctx, core.TestPayload)

		assert.Equal(t, http.StatusInternalServerError, core.StatusCode(err))
		assert.Equal(t, core.WebhookErrorDependency, core.TextCode(err))
		assert.Len(t, generator.calls, 1)
	})

	t.Run("panics become unexpected errors", func(t *testing.T) {
		processor := newTestProcessor(t, ProcessorSettings{}, panickingGenerator{}, &fakeSender{})
		err := processor.ProcessEvent(ctx, core.TestPayload)

		var rich *goerrors.Error
		require.True(t, goerrors.As(err, &rich))
		assert.Equal(t, goerrors.CategoryInternal, rich.Category)
		assert.Equal(t, http.StatusInternalServerError, core.StatusCode(err))
	})

	t.Run("default destination fills missing metadata", func(t *testing.T) {
		sender := &fakeSender{}
		processor := newTestProcessor(t, ProcessorSettings{DefaultDestination: "999"}, &fakeGenerator{}, sender)

		payload := messagesPayload("", textMessage("1", "one"))
		payload.Entry[0].Changes = append(payload.Entry[0].Changes, messagesPayload("123", textMessage("2", "two")).Entry[0].Changes...)
		err := processor.ProcessEvent(ctx, payload)

		assert.NoError(t, err)
		assert.Equal(t, []string{"999", "123"}, []string{sender.sent[0].destination, sender.sent[1].destination})
	})

	t.Run("undecodable body is a validation error", func(t *testing.T) {
		_, err := DecodeWebhookPayload([]byte(`{"object": `))
		assert.Equal(t, http.StatusNotFound, core.StatusCode(err))
	})
}

func TestHighlightMessages(t *testing.T) {
	t.Run("counts delivered messages", func(t *testing.T) {
		payload := messagesPayload("123", textMessage("1", "one"), textMessage("2", "two"))
		delivered, err := HighlightMessages(context.Background(), ExtractMessages(payload, &fakeLogger{}), &fakeGenerator{}, &fakeSender{}, "x.png", 0, &fakeLogger{})
		assert.NoError(t, err)
		assert.Equal(t, 2, delivered)
	})

	t.Run("reports the failed stage and index", func(t *testing.T) {
		logger := &fakeLogger{}
		generator := &fakeGenerator{}
		sender := &fakeSender{failOn: map[string]error{"img:two": errors.New("invalid destination")}}
		messages := slices.Values([]core.ActionableMessage{
			{Destination: "123", Sender: "1", Text: "one"},
			{Destination: "123", Sender: "2", Text: "two"},
		})

		delivered, err := HighlightMessages(context.Background(), messages, generator, sender, "x.png", time.Second, logger)

		assert.Error(t, err)
		assert.Equal(t, 1, delivered)
		assert.Equal(t, 1, logger.count("error"))
		assert.Contains(t, logger.lines[len(logger.lines)-1].msg, "index=1 destination='123'")
	})
}
