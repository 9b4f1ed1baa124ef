package application

import (
	"context"
	"fmt"
	"sync"

	"wa-highlighter/core"
)

type logLine struct {
	level string
	msg   string
}

type fakeLogger struct {
	mu    sync.Mutex
	lines []logLine
}

func (logger *fakeLogger) Info(msg string, args ...any)  { logger.log("info", msg, args...) }
func (logger *fakeLogger) Warn(msg string, args ...any)  { logger.log("warn", msg, args...) }
func (logger *fakeLogger) Debug(msg string, args ...any) { logger.log("debug", msg, args...) }
func (logger *fakeLogger) Error(msg string, args ...any) { logger.log("error", msg, args...) }
func (logger *fakeLogger) Fatal(msg string, args ...any) { logger.log("fatal", msg, args...) }

func (logger *fakeLogger) log(level, msg string, args ...any) {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	logger.lines = append(logger.lines, logLine{level: level, msg: fmt.Sprintf(msg, args...)})
}

func (logger *fakeLogger) count(level string) int {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	n := 0
	for _, line := range logger.lines {
		if line.level == level {
			n++
		}
	}
	return n
}

// fakeGenerator renders "img:<text>" and fails for texts listed in failOn.
type fakeGenerator struct {
	calls  []string
	failOn map[string]error
	block  bool
}

func (generator *fakeGenerator) GenerateImage(ctx context.Context, text string) (core.GeneratedImage, error) {
	generator.calls = append(generator.calls, text)
	if generator.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err, ok := generator.failOn[text]; ok {
		return nil, err
	}
	return core.GeneratedImage("img:" + text), nil
}

type sentImage struct {
	destination string
	image       string
	fileName    string
}

type fakeSender struct {
	sent   []sentImage
	failOn map[string]error
}

func (sender *fakeSender) SendImage(ctx context.Context, destination string, image core.GeneratedImage, fileName string) error {
	if err, ok := sender.failOn[string(image)]; ok {
		return err
	}
	sender.sent = append(sender.sent, sentImage{destination: destination, image: string(image), fileName: fileName})
	return nil
}

type panickingGenerator struct{}

func (panickingGenerator) GenerateImage(context.Context, string) (core.GeneratedImage, error) {
	panic("renderer exploded")
}

func textMessage(from, body string) core.InboundMessage {
	return core.InboundMessage{From: from, Type: core.TextMessageType, Text: &core.TextContent{Body: body}}
}

func messagesPayload(phoneNumberID string, messages ...core.InboundMessage) core.WebhookPayload {
	return core.WebhookPayload{
		Object: core.ExpectedObject,
		Entry: []core.Entry{{
			Changes: []core.Change{{
				Field: core.MessagesField,
				Value: core.ChangeValue{Metadata: core.Metadata{PhoneNumberID: phoneNumberID}, Messages: messages},
			}},
		}},
	}
}
