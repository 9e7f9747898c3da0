// Package backing provides two concrete ContainerPartialFetch
// implementations: an object-store backing over S3, and an embedded-KV
// backing over bbolt. Archive-format parsing (zip, tar) is out of scope
// here; a Container only needs byte-range-by-key lookup.
package backing

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/brain2-labs/assetengine/pkg/assetpath"
)

// S3Backing adapts an S3 bucket into a ContainerPartialFetch: the
// AssetPath body becomes the object key verbatim.
type S3Backing struct {
	client *s3.Client
	bucket string
}

// NewS3Backing wraps an already-configured client, matching the
// teacher's di-provider idiom of constructing clients from aws.Config
// once and injecting them (infrastructure/di/providers.go).
func NewS3Backing(client *s3.Client, bucket string) *S3Backing {
	return &S3Backing{client: client, bucket: bucket}
}

// LoadBytes fetches path.Body as an S3 object key.
func (b *S3Backing) LoadBytes(path assetpath.Path) ([]byte, error) {
	out, err := b.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(path.Body()),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 backing: get %s/%s: %w", b.bucket, path.Body(), err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 backing: read %s/%s: %w", b.bucket, path.Body(), err)
	}
	return data, nil
}
