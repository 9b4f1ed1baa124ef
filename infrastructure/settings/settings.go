package settings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"wa-highlighter/core"
)

const settingsFileName = "settings.env"
const defaultContextTimeout = 31 * time.Second

const (
	ImageGeneratorLocal   = "local"
	ImageGeneratorBedrock = "bedrock"
)

type Settings struct {
	Port                    int           `mapstructure:"PORT"`
	WebhookURL              string        `mapstructure:"WEBHOOK_URL"`
	TwilioAccountSID        string        `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken         string        `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioPhoneNumber       string        `mapstructure:"TWILIO_PHONE_NUMBER"`
	WhatsAppBusinessPhoneID string        `mapstructure:"WHATSAPP_BUSINESS_PHONE_ID"`
	WebhookVerifyToken      string        `mapstructure:"WEBHOOK_VERIFY_TOKEN"`
	WhatsAppAppSecret       string        `mapstructure:"WHATSAPP_APP_SECRET"`
	ExpectedObject          string        `mapstructure:"EXPECTED_OBJECT"`
	ImageFileName           string        `mapstructure:"IMAGE_FILENAME"`
	ImageGenerator          string        `mapstructure:"IMAGE_GENERATOR"`
	BedrockImageModelID     string        `mapstructure:"BEDROCK_IMAGE_MODEL_ID"`
	MediaBucketName         string        `mapstructure:"MEDIA_BUCKET_NAME"`
	MediaPathPrefix         string        `mapstructure:"MEDIA_PATH_PREFIX"`
	MediaURLTTL             time.Duration `mapstructure:"MEDIA_URL_TTL"`
	LocalEndpoint           string        `mapstructure:"LOCAL_ENDPOINT"`
	ContextTimeout          time.Duration `mapstructure:"CONTEXT_TIMEOUT"`
	DoLogToStdout           bool          `mapstructure:"LOG_TO_STDOUT"`
	LogLevel                string        `mapstructure:"LOG_LEVEL"`
	TwilioAuthTokenParam    string        `mapstructure:"SSM_TWILIO_AUTH_TOKEN_PARAM"`
	WebhookVerifyTokenParam string        `mapstructure:"SSM_WEBHOOK_VERIFY_TOKEN_PARAM"`
}

var settingKeys = []string{
	"PORT", "WEBHOOK_URL",
	"TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "TWILIO_PHONE_NUMBER",
	"WHATSAPP_BUSINESS_PHONE_ID", "WEBHOOK_VERIFY_TOKEN", "WHATSAPP_APP_SECRET",
	"EXPECTED_OBJECT", "IMAGE_FILENAME", "IMAGE_GENERATOR", "BEDROCK_IMAGE_MODEL_ID",
	"MEDIA_BUCKET_NAME", "MEDIA_PATH_PREFIX", "MEDIA_URL_TTL", "LOCAL_ENDPOINT",
	"CONTEXT_TIMEOUT", "LOG_TO_STDOUT", "LOG_LEVEL",
	"SSM_TWILIO_AUTH_TOKEN_PARAM", "SSM_WEBHOOK_VERIFY_TOKEN_PARAM",
}

// GetSettings reads settings.env, when one exists in the working directory or
// any of its parents, and lets the environment override it.
func GetSettings() (*Settings, error) {
	v := viper.New()
	v.SetDefault("PORT", 3000)
	v.SetDefault("EXPECTED_OBJECT", core.ExpectedObject)
	v.SetDefault("IMAGE_FILENAME", core.DefaultImageFilename)
	v.SetDefault("IMAGE_GENERATOR", ImageGeneratorLocal)
	v.SetDefault("BEDROCK_IMAGE_MODEL_ID", "amazon.titan-image-generator-v1")
	v.SetDefault("MEDIA_PATH_PREFIX", "highlights")
	v.SetDefault("MEDIA_URL_TTL", 15*time.Minute)
	v.SetDefault("CONTEXT_TIMEOUT", defaultContextTimeout)
	v.SetDefault("LOG_TO_STDOUT", true)
	v.SetDefault("LOG_LEVEL", "info")

	for _, key := range settingKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding env for key='%s': %v", key, err)
		}
	}

	if configPath, ok := findSettingsFile(); ok {
		v.SetConfigFile(configPath)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading in config: %v", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("error unmarshalling settings: %v", err)
	}
	return &settings, nil
}

// ResolveSecrets fills empty secrets from the secret store when a parameter
// name is configured for them.
func (settings *Settings) ResolveSecrets(ctx context.Context, store core.SecretStore) error {
	secrets := []struct {
		value *string
		param string
	}{
		{value: &settings.TwilioAuthToken, param: settings.TwilioAuthTokenParam},
		{value: &settings.WebhookVerifyToken, param: settings.WebhookVerifyTokenParam},
	}
	for _, secret := range secrets {
		if *secret.value != "" || secret.param == "" {
			continue
		}
		value, err := store.GetSecret(ctx, secret.param)
		if err != nil {
			return fmt.Errorf("error getting secret param='%s': %v", secret.param, err)
		}
		*secret.value = value
	}
	return nil
}

func (settings *Settings) NeedsSecretStore() bool {
	return (settings.TwilioAuthToken == "" && settings.TwilioAuthTokenParam != "") ||
		(settings.WebhookVerifyToken == "" && settings.WebhookVerifyTokenParam != "")
}

// Validate reports every missing required setting at once.
func (settings *Settings) Validate() error {
	required := map[string]string{
		"TWILIO_ACCOUNT_SID":         settings.TwilioAccountSID,
		"TWILIO_AUTH_TOKEN":          settings.TwilioAuthToken,
		"TWILIO_PHONE_NUMBER":        settings.TwilioPhoneNumber,
		"WHATSAPP_BUSINESS_PHONE_ID": settings.WhatsAppBusinessPhoneID,
		"WEBHOOK_VERIFY_TOKEN":       settings.WebhookVerifyToken,
		"MEDIA_BUCKET_NAME":          settings.MediaBucketName,
	}
	if settings.ImageGenerator == ImageGeneratorBedrock {
		required["BEDROCK_IMAGE_MODEL_ID"] = settings.BedrockImageModelID
	}
	missing := make([]string, 0)
	for _, key := range settingKeys {
		if value, ok := required[key]; ok && strings.TrimSpace(value) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if settings.ImageGenerator != ImageGeneratorLocal && settings.ImageGenerator != ImageGeneratorBedrock {
		return fmt.Errorf("unknown IMAGE_GENERATOR='%s'", settings.ImageGenerator)
	}
	if settings.Port <= 0 || settings.Port > 65535 {
		return fmt.Errorf("invalid PORT=%d", settings.Port)
	}
	if settings.ContextTimeout <= 0 {
		return fmt.Errorf("CONTEXT_TIMEOUT must be positive, got %v", settings.ContextTimeout)
	}
	if settings.MediaURLTTL <= 0 {
		return fmt.Errorf("MEDIA_URL_TTL must be positive, got %v", settings.MediaURLTTL)
	}
	return nil
}

// Endpoint returns the AWS endpoint override, nil when none is configured.
func (settings *Settings) Endpoint() *string {
	if settings.LocalEndpoint == "" {
		return nil
	}
	endpoint := settings.LocalEndpoint
	return &endpoint
}

func findSettingsFile() (string, bool) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(cwd, settingsFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(cwd)
		if parent == cwd {
			return "", false
		}
		cwd = parent
	}
}
