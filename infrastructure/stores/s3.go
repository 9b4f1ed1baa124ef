package stores

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	smithy "github.com/aws/smithy-go"

	"wa-highlighter/helpers"
)

type objectPutter interface {
	PutObject(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type objectPresigner interface {
	PresignGetObject(context.Context, *s3.GetObjectInput, ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Helper hosts generated media in a bucket and hands out presigned GET URLs
// so the messaging platform can fetch it without the bucket being public.
type S3Helper struct {
	client     objectPutter
	presigner  objectPresigner
	bucketName string
	pathPrefix string
	urlTTL     time.Duration
	timeout    time.Duration
}

func InitializeS3Helper(ctx context.Context, bucketName string, pathPrefix string, urlTTL time.Duration, timeout time.Duration, endpointURL *string) (*S3Helper, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading default config: %v", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpointURL != nil {
			o.BaseEndpoint = aws.String(*endpointURL)
			if helpers.IsLocalhostURL(*endpointURL) {
				o.UsePathStyle = true
			}
		}
	})
	return &S3Helper{
		client:     client,
		presigner:  s3.NewPresignClient(client),
		bucketName: bucketName,
		pathPrefix: pathPrefix,
		urlTTL:     urlTTL,
		timeout:    timeout,
	}, nil
}

func (s3Helper *S3Helper) PutMedia(ctx context.Context, fileName string, body []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s3Helper.timeout)
	defer cancel()
	key := helpers.MediaObjectKey(s3Helper.pathPrefix, fileName)
	putObjectInput := &s3.PutObjectInput{
		Bucket:        aws.String(s3Helper.bucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	}
	if _, err := s3Helper.client.PutObject(ctx, putObjectInput); err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("error on PutObject for key='%s': code=%s: %w", key, apiErr.ErrorCode(), err)
		}
		return "", fmt.Errorf("error on PutObject for key='%s': %w", key, err)
	}
	presigned, err := s3Helper.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s3Helper.bucketName),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s3Helper.urlTTL))
	if err != nil {
		return "", fmt.Errorf("error on PresignGetObject for key='%s': %w", key, err)
	}
	return presigned.URL, nil
}
