package secrets

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

type parameterGetter interface {
	GetParameter(context.Context, *ssm.GetParameterInput, ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// SSMHelper reads secrets from SSM Parameter Store, decrypting SecureString
// parameters.
type SSMHelper struct {
	client  parameterGetter
	timeout time.Duration
}

func InitializeSSMHelper(ctx context.Context, timeout time.Duration, endpoint *string) (*SSMHelper, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("error on loading default config: %v", err)
	}
	client := ssm.NewFromConfig(cfg, func(o *ssm.Options) {
		if endpoint != nil {
			o.BaseEndpoint = aws.String(*endpoint)
		}
	})
	return &SSMHelper{client: client, timeout: timeout}, nil
}

func (ssmHelper *SSMHelper) GetSecret(ctx context.Context, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, ssmHelper.timeout)
	defer cancel()
	output, err := ssmHelper.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("error on GetParameter for name='%s': %v", name, err)
	}
	if output.Parameter == nil || output.Parameter.Value == nil {
		return "", fmt.Errorf("parameter name='%s' has no value", name)
	}
	return *output.Parameter.Value, nil
}
