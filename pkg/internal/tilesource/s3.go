package tilesource

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3GetObjectAPI is the subset of *s3.Client used for range reads.
type S3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3HeadObjectAPI is used to size an object when the SigMF metadata lives elsewhere.
type S3HeadObjectAPI interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3Reader reads ranges of one object with GetObject.
type S3Reader struct {
	cli    S3GetObjectAPI
	bucket string
	key    string
}

// NewS3Reader returns a reader for s3://bucket/key.
func NewS3Reader(cli S3GetObjectAPI, bucket, key string) *S3Reader {
	return &S3Reader{cli: cli, bucket: bucket, key: key}
}

// ReadRange fetches bytes [offset, offset+count).
func (r *S3Reader) ReadRange(ctx context.Context, offset, count int64) ([]byte, error) {
	if r.cli == nil || r.bucket == "" || r.key == "" {
		return nil, errors.New("tilesource: s3 reader requires client, bucket and key")
	}
	if count <= 0 {
		return []byte{}, nil
	}
	out, err := r.cli.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.key),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", offset, offset+count-1)),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get %s/%s: %w", r.bucket, r.key, err)
	}
	defer out.Body.Close()
	return io.ReadAll(io.LimitReader(out.Body, count))
}

// S3ObjectSize returns the content length of s3://bucket/key.
func S3ObjectSize(ctx context.Context, cli S3HeadObjectAPI, bucket, key string) (int64, error) {
	out, err := cli.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
	if err != nil {
		return 0, fmt.Errorf("s3 head %s/%s: %w", bucket, key, err)
	}
	return aws.ToInt64(out.ContentLength), nil
}

// S3ReadObject fetches the whole of s3://bucket/key.
func S3ReadObject(ctx context.Context, cli S3GetObjectAPI, bucket, key string) ([]byte, error) {
	out, err := cli.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
	if err != nil {
		return nil, fmt.Errorf("s3 get %s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}
