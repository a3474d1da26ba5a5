// Package fetch downloads zone datasets from an S3 bucket into a local cache
// directory, so a deployment does not have to bake multi-gigabyte NHDPlus
// distributions into its image. Object keys mirror the local dataset layout.
package fetch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/cmorran/watershed/pkg/logging"
	"github.com/cmorran/watershed/pkg/nhd"
)

// Fetcher downloads dataset objects from one bucket.
type Fetcher struct {
	client *s3.Client
	bucket string
	layout nhd.Layout
	logger logging.Logger
}

// NewFetcher builds a fetcher using the default AWS credential chain.
func NewFetcher(ctx context.Context, bucket, region string, layout nhd.Layout, logger logging.Logger) (*Fetcher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Fetcher{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		layout: layout,
		logger: logger,
	}, nil
}

// key converts a layout path into the object key: the path relative to the
// dataset root, with forward slashes.
func (f *Fetcher) key(localPath string) (string, error) {
	rel, err := filepath.Rel(f.layout.Root, localPath)
	if err != nil {
		return "", fmt.Errorf("path %s is outside the dataset root: %w", localPath, err)
	}
	return strings.ReplaceAll(rel, string(filepath.Separator), "/"), nil
}

// fetchObject downloads one object to its local path, skipping files that are
// already cached.
func (f *Fetcher) fetchObject(ctx context.Context, localPath string) error {
	if _, err := os.Stat(localPath); err == nil {
		f.logger.Debug("dataset object cached", logging.Path(localPath))
		return nil
	}

	key, err := f.key(localPath)
	if err != nil {
		return err
	}

	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to fetch s3://%s/%s: %w", f.bucket, key, err)
	}
	defer out.Body.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}
	dst, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", localPath, err)
	}

	n, err := io.Copy(dst, out.Body)
	closeErr := dst.Close()
	if err != nil {
		os.Remove(localPath)
		return fmt.Errorf("failed to download %s: %w", key, err)
	}
	if closeErr != nil {
		return closeErr
	}

	f.logger.Info("dataset object fetched", logging.Path(localPath), logging.Int("bytes", int(n)))
	return nil
}

// FetchShared downloads the zone-independent layers: the correction table
// and the zone boundary layer.
func (f *Fetcher) FetchShared(ctx context.Context) error {
	for _, path := range []string{f.layout.InterVPUPath(), f.layout.ZoneBoundaryPath()} {
		if err := f.fetchObject(ctx, path); err != nil {
			return err
		}
	}
	return nil
}

// FetchZone downloads everything one zone's delineation needs.
func (f *Fetcher) FetchZone(ctx context.Context, zone string) error {
	paths := []string{
		f.layout.PlusFlowPath(zone),
		f.layout.FlowlinePath(zone),
		f.layout.CatchmentPath(zone),
	}
	for _, path := range paths {
		if err := f.fetchObject(ctx, path); err != nil {
			return err
		}
	}
	return nil
}
