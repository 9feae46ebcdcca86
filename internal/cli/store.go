package cli

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hupe1980/knn/blobstore"
	minioblob "github.com/hupe1980/knn/blobstore/minio"
	s3blob "github.com/hupe1980/knn/blobstore/s3"
)

// openStore builds the blob store selected by cfg.Kind.
func openStore(ctx context.Context, cfg StoreConfig) (blobstore.BlobStore, error) {
	switch cfg.Kind {
	case "", "local":
		return blobstore.NewLocalStore(cfg.Root), nil
	case "s3":
		return openS3(ctx, cfg)
	case "minio":
		return minioblob.Dial(ctx, minioblob.Config{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Region:    cfg.Region,
			Secure:    cfg.Secure,
			Bucket:    cfg.Bucket,
			Prefix:    cfg.Prefix,
		})
	default:
		return nil, fmt.Errorf("unknown store %q (want local, s3 or minio)", cfg.Kind)
	}
}

func openS3(ctx context.Context, cfg StoreConfig) (blobstore.BlobStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 store: bucket is required")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	store := s3blob.NewStore(client, cfg.Bucket, cfg.Prefix)
	if cfg.DDBTable == "" {
		return store, nil
	}

	baseURI := "s3://" + path.Join(cfg.Bucket, cfg.Prefix)
	return s3blob.NewDDBCommitStore(store, dynamodb.NewFromConfig(awsCfg), cfg.DDBTable, baseURI), nil
}
