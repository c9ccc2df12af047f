package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ParameterStore fetches a decrypted parameter by name.
type ParameterStore interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// NewParameterStore builds an SSM client from the default AWS credential chain.
func NewParameterStore(ctx context.Context, region string) (*ssm.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return ssm.NewFromConfig(cfg), nil
}

// ResolveSecret returns the value of key. When <key>_SSM_PARAM names a
// parameter, the parameter store wins over the plain environment value.
func ResolveSecret(ctx context.Context, config map[string]string, store ParameterStore, key string) (string, error) {
	paramName := GetString(config, key+"_SSM_PARAM", "")
	if paramName == "" || store == nil {
		return GetString(config, key, ""), nil
	}

	out, err := store.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(paramName),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to read SSM parameter %s: %w", paramName, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("SSM parameter %s has no value", paramName)
	}
	return aws.ToString(out.Parameter.Value), nil
}

// NeedsParameterStore reports whether any of keys is configured through SSM.
func NeedsParameterStore(config map[string]string, keys ...string) bool {
	for _, key := range keys {
		if GetString(config, key+"_SSM_PARAM", "") != "" {
			return true
		}
	}
	return false
}
