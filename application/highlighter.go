package application

import (
	"context"
	"fmt"
	"iter"
	"time"

	"wa-highlighter/core"
)

// HighlightMessages renders each message to an image and sends it back to the
// message's destination, one message at a time. The first failure stops the
// batch; messages already sent stay sent. It returns how many messages were
// fully delivered.
func HighlightMessages(ctx context.Context, messages iter.Seq[core.ActionableMessage], generator core.ImageGenerator, sender core.ImageSender, fileName string, timeout time.Duration, logger core.Logger) (int, error) {
	delivered := 0
	for message := range messages {
		index := delivered
		logger.Info("received message from sender='%s': %s", message.Sender, message.Text)

		image, err := generateImage(ctx, generator, message.Text, timeout)
		if err != nil {
			logger.Error("error generating image for message index=%d destination='%s': %v", index, message.Destination, err)
			return delivered, core.NewDependencyError(err, core.StageGenerate, index, message.Destination)
		}

		if err := sendImage(ctx, sender, message.Destination, image, fileName, timeout); err != nil {
			logger.Error("error sending image for message index=%d destination='%s': %v", index, message.Destination, err)
			return delivered, core.NewDependencyError(err, core.StageDeliver, index, message.Destination)
		}

		logger.Debug("sent image for message index=%d to destination='%s'", index, message.Destination)
		delivered++
	}
	return delivered, nil
}

func generateImage(ctx context.Context, generator core.ImageGenerator, text string, timeout time.Duration) (core.GeneratedImage, error) {
	ctx, cancel := callContext(ctx, timeout)
	defer cancel()
	image, err := generator.GenerateImage(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("error on GenerateImage: %w", err)
	}
	return image, nil
}

func sendImage(ctx context.Context, sender core.ImageSender, destination string, image core.GeneratedImage, fileName string, timeout time.Duration) error {
	ctx, cancel := callContext(ctx, timeout)
	defer cancel()
	if err := sender.SendImage(ctx, destination, image, fileName); err != nil {
		return fmt.Errorf("error on SendImage: %w", err)
	}
	return nil
}

func callContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
