package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/sirupsen/logrus"

	"github.com/vishalk7890/Support-IQ/pkg/config"
)

// NewAWSConfig builds the shared AWS SDK configuration used by both the S3
// transcript store and the DynamoDB insight store. Static credentials from
// config take precedence; otherwise the default credential chain applies.
func NewAWSConfig(ctx context.Context, cfg *config.StorageConfig, logger *logrus.Logger) (aws.Config, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
		awsconfig.WithRetryMaxAttempts(3),
		awsconfig.WithRetryMode(aws.RetryModeStandard),
	}

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		accessKey := cfg.AccessKeyID
		secretKey := cfg.SecretAccessKey
		opts = append(opts, awsconfig.WithCredentialsProvider(
			aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
				return aws.Credentials{
					AccessKeyID:     accessKey,
					SecretAccessKey: secretKey,
				}, nil
			})))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		logger.WithError(err).Error("Failed to load AWS configuration")
		return aws.Config{}, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.WithField("region", region).Info("AWS configuration loaded")
	return awsCfg, nil
}
