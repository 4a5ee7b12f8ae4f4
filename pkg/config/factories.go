package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/mitchellh/mapstructure"

	"github.com/ABelliqueux/endbasic/pkg/cloud"
	"github.com/ABelliqueux/endbasic/pkg/storage"
	"github.com/ABelliqueux/endbasic/pkg/storage/demo"
	"github.com/ABelliqueux/endbasic/pkg/storage/local"
	"github.com/ABelliqueux/endbasic/pkg/storage/memory"
	"github.com/ABelliqueux/endbasic/pkg/storage/s3"
)

// s3SchemeOptions holds the decoded options for the s3 scheme.
type s3SchemeOptions struct {
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	MaxRetries      int    `mapstructure:"max_retries"`
}

// BuildStorage creates the mount table described by the configuration: it
// registers every available scheme, mounts the configured drives, and selects
// the first one as the current drive.
func BuildStorage(ctx context.Context, cfg *Config, service cloud.Service) (*storage.Storage, error) {
	st := storage.New()

	if err := st.RegisterScheme("memory", memory.NewDriveFactory()); err != nil {
		return nil, err
	}
	if err := st.RegisterScheme("demo", demo.NewDriveFactory()); err != nil {
		return nil, err
	}
	if err := st.RegisterScheme("local", local.NewDriveFactory()); err != nil {
		return nil, err
	}
	if err := st.RegisterScheme("cloud", cloud.NewDriveFactory(service)); err != nil {
		return nil, err
	}

	if cfg.Schemes.S3 != nil {
		client, err := createS3Client(ctx, cfg.Schemes.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to configure s3 scheme: %w", err)
		}
		if err := st.RegisterScheme("s3", s3.NewDriveFactory(client)); err != nil {
			return nil, err
		}
	}

	for _, drive := range cfg.Drives {
		if err := st.Mount(drive.Name, drive.URI); err != nil {
			return nil, fmt.Errorf("failed to mount %s as %s: %w", drive.URI, drive.Name, err)
		}
	}

	if len(cfg.Drives) > 0 {
		if err := st.CD(cfg.Drives[0].Name + ":/"); err != nil {
			return nil, err
		}
	}

	return st, nil
}

// createS3Client builds an S3 client from the scheme's opaque option map.
func createS3Client(ctx context.Context, options map[string]any) (*awss3.Client, error) {
	var opts s3SchemeOptions
	if err := mapstructure.Decode(options, &opts); err != nil {
		return nil, fmt.Errorf("invalid s3 options: %w", err)
	}

	if opts.Region == "" {
		return nil, fmt.Errorf("s3 options must specify a region")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}

	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	if opts.MaxRetries > 0 {
		loadOpts = append(loadOpts, awsconfig.WithRetryer(func() aws.Retryer {
			return retry.NewStandard(func(o *retry.StandardOptions) {
				o.MaxAttempts = opts.MaxRetries
			})
		}))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return client, nil
}
