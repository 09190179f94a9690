package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/go-setupwizard/pkg/config"
	"github.com/go-setupwizard/pkg/utils"
)

// s3Storer keeps artifacts in an S3 (or S3-compatible) bucket so that site
// admins can pre-stage redistributables for machines behind restrictive
// egress rules.
type s3Storer struct {
	client *awss3.Client
	ctx    context.Context
	bucket string
	prefix string
	logger *zap.SugaredLogger
}

// NewS3Storer creates an S3-backed cache from the cache configuration.
func NewS3Storer(cfg config.CacheConfig, logger *zap.SugaredLogger) (Storer, error) {
	ctx := context.Background()
	awscfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.Endpoint != "" {
		const defaultRegion = "us-east-1"
		staticResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				PartitionID:       "aws",
				URL:               cfg.Endpoint,
				SigningRegion:     defaultRegion,
				HostnameImmutable: true,
			}, nil
		})

		awscfg.Region = defaultRegion
		awscfg.EndpointResolverWithOptions = staticResolver
	}

	return &s3Storer{
		client: awss3.NewFromConfig(awscfg),
		ctx:    ctx,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		logger: logger,
	}, nil
}

func (s *s3Storer) getObject(key string) ([]byte, error) {
	output, err := s.client.GetObject(s.ctx, &awss3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, fmt.Errorf("error loading object %s: %w", key, err)
	}
	defer output.Body.Close()

	contents, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading object %s: %w", key, err)
	}
	return contents, nil
}

func (s *s3Storer) putObject(key string, body []byte) error {
	_, err := s.client.PutObject(s.ctx, &awss3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   bytes.NewReader(body),
	})
	return err
}

func (s *s3Storer) LoadCatalog() ([]Entry, error) {
	contents, err := s.getObject(path.Join(s.prefix, CatalogFile))
	if err != nil {
		return nil, err
	}

	var entries []Entry
	if err := json.Unmarshal(contents, &entries); err != nil {
		return nil, fmt.Errorf("unable to parse catalog object: %w", err)
	}
	return entries, nil
}

func (s *s3Storer) Fetch(name, destPath string) error {
	entries, err := s.LoadCatalog()
	if err != nil {
		return err
	}
	entry, ok := findEntry(entries, name)
	if !ok {
		return fmt.Errorf("%s is not in the cache catalog", name)
	}

	data, err := s.getObject(path.Join(s.prefix, name))
	if err != nil {
		return err
	}
	if sum := dataSHA256(data); sum != entry.SHA256 {
		return fmt.Errorf("cached object %s is corrupt: checksum %s did not match recorded %s", name, sum, entry.SHA256)
	}

	if err := utils.EnsureDirForFile(destPath); err != nil {
		return err
	}
	if err := os.WriteFile(destPath, data, 0644); err != nil {
		return err
	}

	s.logger.Infof("served %s from s3://%s/%s", name, s.bucket, path.Join(s.prefix, name))
	return nil
}

func (s *s3Storer) Store(name, srcPath, sourceURL string) error {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return err
	}

	if err := s.putObject(path.Join(s.prefix, name), data); err != nil {
		return fmt.Errorf("unable to upload %s: %w", name, err)
	}

	entries, err := s.LoadCatalog()
	if err != nil {
		// A missing or unreadable catalog means a fresh cache.
		s.logger.Warnf("rebuilding cache catalog: %v", err)
		entries = nil
	}
	entries = upsertEntry(entries, Entry{
		Name:      name,
		SourceURL: sourceURL,
		SHA256:    dataSHA256(data),
		Size:      int64(len(data)),
		StoredAt:  timeNow(),
	})

	marshalled, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := s.putObject(path.Join(s.prefix, CatalogFile), marshalled); err != nil {
		return fmt.Errorf("unable to upload catalog: %w", err)
	}

	s.logger.Infof("cached %s (%d bytes) to s3://%s/%s", name, len(data), s.bucket, s.prefix)
	return nil
}
