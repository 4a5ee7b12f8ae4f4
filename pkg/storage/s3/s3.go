// Package s3 implements a drive for the "s3" scheme, backed by Amazon S3 or
// any S3-compatible object store.
//
// The mount target selects the bucket and an optional key prefix:
//
//	MOUNT "BACKUP", "s3://my-bucket/basic"
//
// Key design: file names are canonicalized to upper case and stored directly
// under the prefix, so the bucket remains human-readable and can be
// inspected or repopulated with standard S3 tooling.
//
// S3 characteristics that shape this backend:
//   - Object storage: every Get fetches the whole object, there is no
//     random access
//   - Eventually consistent: concurrent writers get last-write-wins
//   - No reliable quota figures: listings omit quota and free space
//
// ACLs are not supported; sharing on S3 is managed through bucket policy,
// not through this runtime.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ABelliqueux/endbasic/pkg/storage"
)

// Drive stores files as objects in a single bucket under a key prefix.
type Drive struct {
	client *s3.Client
	bucket string
	prefix string // Either empty or ends with "/".
}

var _ storage.Drive = (*Drive)(nil)

// NewDrive creates a drive over an existing bucket. The bucket is not
// created and its accessibility is only checked on first use.
func NewDrive(client *s3.Client, bucket, prefix string) (*Drive, error) {
	if client == nil {
		return nil, fmt.Errorf("S3 client is required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("bucket name is required: %w", storage.ErrInvalidInput)
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Drive{client: client, bucket: bucket, prefix: prefix}, nil
}

func (d *Drive) key(name string) string {
	return d.prefix + strings.ToUpper(name)
}

// Enumerate lists all objects under the drive's prefix. S3 reports no quota
// information, so both disk figures are omitted.
func (d *Drive) Enumerate(ctx context.Context) (*storage.DriveFiles, error) {
	entries := make(map[string]storage.Metadata)

	paginator := s3.NewListObjectsV2Paginator(d.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(d.bucket),
		Prefix: aws.String(d.prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list bucket %s: %w", d.bucket, err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), d.prefix)
			if name == "" || strings.Contains(name, "/") {
				continue // Not one of our flat entries.
			}
			meta := storage.Metadata{Length: uint64(aws.ToInt64(obj.Size))}
			if obj.LastModified != nil {
				meta.MTime = *obj.LastModified
			}
			entries[name] = meta
		}
	}

	return &storage.DriveFiles{Entries: entries}, nil
}

// Get downloads an object's contents.
func (d *Drive) Get(ctx context.Context, name string) ([]byte, error) {
	resp, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(d.key(name)),
	})
	if err != nil {
		var notFound *types.NoSuchKey
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("file %q: %w", name, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s: %w", name, err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return content, nil
}

// Put uploads an object, overwriting any previous version.
func (d *Drive) Put(ctx context.Context, name string, content []byte) error {
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(d.key(name)),
		Body:   bytes.NewReader(content),
	})
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", name, err)
	}
	return nil
}

// Delete removes an object. S3 deletions are idempotent, so existence is
// checked first to honor the not-found contract.
func (d *Drive) Delete(ctx context.Context, name string) error {
	key := d.key(name)

	_, err := d.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return fmt.Errorf("file %q: %w", name, storage.ErrNotFound)
		}
		return fmt.Errorf("failed to stat %s: %w", name, err)
	}

	_, err = d.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	return nil
}

// DriveFactory builds S3 drives for the "s3" scheme. The factory carries the
// configured S3 client; the mount target picks the bucket and prefix.
type DriveFactory struct {
	client *s3.Client
}

// NewDriveFactory creates a factory using the given client.
func NewDriveFactory(client *s3.Client) *DriveFactory {
	return &DriveFactory{client: client}
}

// Create parses a "bucket" or "bucket/prefix" target and builds the drive.
func (f *DriveFactory) Create(target string) (storage.Drive, error) {
	if target == "" {
		return nil, fmt.Errorf("s3 drive requires a bucket name: %w", storage.ErrInvalidInput)
	}
	bucket, prefix, _ := strings.Cut(target, "/")
	return NewDrive(f.client, bucket, prefix)
}
