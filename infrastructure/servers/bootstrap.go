package servers

import (
	"context"
	"fmt"

	"wa-highlighter/application"
	"wa-highlighter/core"
	"wa-highlighter/infrastructure/comms"
	"wa-highlighter/infrastructure/generators"
	"wa-highlighter/infrastructure/renderers"
	"wa-highlighter/infrastructure/secrets"
	"wa-highlighter/infrastructure/settings"
	"wa-highlighter/infrastructure/stores"
)

// LoadSettings reads settings, pulls secrets from SSM when they are configured
// as parameters, and validates the result.
func LoadSettings(ctx context.Context) (*settings.Settings, error) {
	mySettings, err := settings.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("error on get settings: %v", err)
	}
	if mySettings.NeedsSecretStore() {
		ssmHelper, err := secrets.InitializeSSMHelper(ctx, mySettings.ContextTimeout, mySettings.Endpoint())
		if err != nil {
			return nil, fmt.Errorf("error on initializing ssm helper: %v", err)
		}
		if err := mySettings.ResolveSecrets(ctx, ssmHelper); err != nil {
			return nil, fmt.Errorf("error on resolving secrets: %v", err)
		}
	}
	if err := mySettings.Validate(); err != nil {
		return nil, err
	}
	return mySettings, nil
}

// Bootstrap wires the image service, the delivery service and the webhook
// processor behind a WebhookServer.
func Bootstrap(ctx context.Context, mySettings *settings.Settings, logger core.Logger) (*WebhookServer, error) {
	generator, err := initializeImageGenerator(ctx, mySettings, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("initializing s3 helpers")
	mediaStore, err := stores.InitializeS3Helper(ctx, mySettings.MediaBucketName, mySettings.MediaPathPrefix, mySettings.MediaURLTTL, mySettings.ContextTimeout, mySettings.Endpoint())
	if err != nil {
		return nil, fmt.Errorf("error on initializing s3 helper: %v", err)
	}

	logger.Info("initializing comms helpers")
	sender, err := comms.InitializeTwilioHelper(ctx, mySettings.TwilioAccountSID, mySettings.TwilioAuthToken, mySettings.TwilioPhoneNumber, mediaStore, mySettings.ContextTimeout)
	if err != nil {
		return nil, fmt.Errorf("error on initializing twilio helper: %v", err)
	}

	processor, err := application.NewWebhookProcessor(application.ProcessorSettings{
		ExpectedObject:     mySettings.ExpectedObject,
		ImageFileName:      mySettings.ImageFileName,
		DefaultDestination: mySettings.WhatsAppBusinessPhoneID,
		CallTimeout:        mySettings.ContextTimeout,
	}, generator, sender, logger)
	if err != nil {
		return nil, fmt.Errorf("error on creating webhook processor: %v", err)
	}

	return InitializeWebhookServer(processor, mySettings.WebhookVerifyToken, mySettings.WhatsAppAppSecret, logger)
}

func initializeImageGenerator(ctx context.Context, mySettings *settings.Settings, logger core.Logger) (core.ImageGenerator, error) {
	if mySettings.ImageGenerator == settings.ImageGeneratorBedrock {
		logger.Info("initializing bedrock image generator")
		generator, err := generators.InitializeBedrockImageGenerator(ctx, mySettings.BedrockImageModelID, mySettings.ContextTimeout)
		if err != nil {
			return nil, fmt.Errorf("error on initializing bedrock image generator: %v", err)
		}
		return generator, nil
	}
	logger.Info("initializing text card renderer")
	renderer, err := renderers.InitializeTextCardRenderer(0, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("error on initializing text card renderer: %v", err)
	}
	return renderer, nil
}
