package generators

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"wa-highlighter/core"
	"wa-highlighter/helpers"
)

const defaultClientTimeout = 60 * time.Second
const maxPromptLength = 512
const imageSize = 1024

type modelInvoker interface {
	InvokeModel(context.Context, *bedrockruntime.InvokeModelInput, ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

type BedrockImageGenerator struct {
	client  modelInvoker
	timeout time.Duration
	modelID string
}

type imageGenerationConfig struct {
	NumberOfImages int     `json:"numberOfImages"`
	Height         int     `json:"height"`
	Width          int     `json:"width"`
	CfgScale       float64 `json:"cfgScale"`
}

type textToImageParams struct {
	Text string `json:"text"`
}

type imageRequest struct {
	TaskType              string                `json:"taskType"`
	TextToImageParams     textToImageParams     `json:"textToImageParams"`
	ImageGenerationConfig imageGenerationConfig `json:"imageGenerationConfig"`
}

type imageResponse struct {
	Images []string `json:"images"`
	Error  *string  `json:"error"`
}

func InitializeBedrockImageGenerator(ctx context.Context, modelID string, timeout time.Duration) (*BedrockImageGenerator, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading default config: %v", err)
	}
	customHTTPClient := &http.Client{
		Timeout: defaultClientTimeout,
	}
	customCfg := aws.Config{
		Region:      cfg.Region,
		Credentials: cfg.Credentials,
		HTTPClient:  customHTTPClient,
	}
	client := bedrockruntime.NewFromConfig(customCfg)

	return &BedrockImageGenerator{client: client, timeout: timeout, modelID: modelID}, nil
}

func (generator *BedrockImageGenerator) GenerateImage(ctx context.Context, text string) (core.GeneratedImage, error) {
	ctx, cancel := context.WithTimeout(ctx, generator.timeout)
	defer cancel()
	body, err := json.Marshal(newImageRequest(text))
	if err != nil {
		return nil, fmt.Errorf("error on json.Marshal: %v", err)
	}
	invkInp := bedrockruntime.InvokeModelInput{
		Body:        body,
		ModelId:     aws.String(generator.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	}
	invkOut, err := generator.client.InvokeModel(ctx, &invkInp)
	if err != nil {
		return nil, fmt.Errorf("error on invoke model: %w", err)
	}
	var response imageResponse
	if err := json.Unmarshal(invkOut.Body, &response); err != nil {
		return nil, fmt.Errorf("error on json.Unmarshal of model response: %v", err)
	}
	if response.Error != nil && *response.Error != "" {
		return nil, fmt.Errorf("model returned error: %s", *response.Error)
	}
	if len(response.Images) == 0 {
		return nil, errors.New("model returned no images")
	}
	image, err := helpers.Base64Decode(response.Images[0])
	if err != nil {
		return nil, fmt.Errorf("error decoding image: %v", err)
	}
	return core.GeneratedImage(image), nil
}

func newImageRequest(text string) imageRequest {
	prompt := []rune(text)
	if len(prompt) > maxPromptLength {
		prompt = prompt[:maxPromptLength]
	}
	return imageRequest{
		TaskType:          "TEXT_IMAGE",
		TextToImageParams: textToImageParams{Text: string(prompt)},
		ImageGenerationConfig: imageGenerationConfig{
			NumberOfImages: 1,
			Height:         imageSize,
			Width:          imageSize,
			CfgScale:       8,
		},
	}
}
