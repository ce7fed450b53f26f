package aws

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/provider"
	"github.com/stainedhead/lc-platform/pkg/runtime"
)

const objectStoreName = "s3"

// objectStore adapts control.ObjectStoreService to Amazon S3.
type objectStore struct {
	base
	client *s3.Client
}

var _ control.ObjectStoreService = (*objectStore)(nil)

func newObjectStore(cfg provider.Config, shared *provider.Shared) (any, error) {
	awsCfg, err := loadConfig(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if ep := endpointOverride(cfg); ep != nil {
			o.BaseEndpoint = ep
		}
		o.UsePathStyle = cfg.Options.Endpoint != ""
	})
	return &objectStore{base: newBase(cfg, shared), client: client}, nil
}

func (s *objectStore) CreateBucket(ctx context.Context, name string, opts api.BucketOptions) error {
	_, err := do(ctx, s.base, objectStoreName, func(ctx context.Context) (struct{}, error) {
		_, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(name)})
		if err != nil {
			return struct{}{}, err
		}
		if opts.Versioning {
			_, err = s.client.PutBucketVersioning(ctx, &s3.PutBucketVersioningInput{
				Bucket:                  aws.String(name),
				VersioningConfiguration: &types.VersioningConfiguration{Status: types.BucketVersioningStatusEnabled},
			})
		}
		return struct{}{}, err
	})
	return err
}

func (s *objectStore) DeleteBucket(ctx context.Context, name string) error {
	_, err := do(ctx, s.base, objectStoreName, func(ctx context.Context) (struct{}, error) {
		_, err := s.client.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: aws.String(name)})
		return struct{}{}, err
	})
	return err
}

func (s *objectStore) PutObject(ctx context.Context, bucket, key string, data []byte, contentType string, metadata map[string]string) (api.ObjectMetadata, error) {
	return do(ctx, s.base, objectStoreName, func(ctx context.Context) (api.ObjectMetadata, error) {
		out, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
			Metadata:    metadata,
		})
		if err != nil {
			return api.ObjectMetadata{}, err
		}
		return api.ObjectMetadata{
			ETag:         aws.ToString(out.ETag),
			Size:         int64(len(data)),
			LastModified: time.Now(),
		}, nil
	})
}

func (s *objectStore) GetObject(ctx context.Context, bucket, key string) (api.ObjectData, error) {
	return do(ctx, s.base, objectStoreName, func(ctx context.Context) (api.ObjectData, error) {
		out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
		if err != nil {
			return api.ObjectData{}, err
		}
		defer out.Body.Close()
		data, err := io.ReadAll(out.Body)
		if err != nil {
			return api.ObjectData{}, err
		}
		info := api.ObjectInfo{
			Bucket: bucket,
			Key:    key,
			Size:   aws.ToInt64(out.ContentLength),
			ETag:   aws.ToString(out.ETag),
		}
		if out.LastModified != nil {
			info.LastModified = *out.LastModified
		}
		return api.ObjectData{
			ObjectInfo:  info,
			Data:        data,
			ContentType: aws.ToString(out.ContentType),
			Metadata:    out.Metadata,
		}, nil
	})
}

func (s *objectStore) DeleteObject(ctx context.Context, bucket, key string) error {
	_, err := do(ctx, s.base, objectStoreName, func(ctx context.Context) (struct{}, error) {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
		return struct{}{}, err
	})
	return err
}

func (s *objectStore) ListObjects(ctx context.Context, bucket, prefix string) ([]api.ObjectInfo, error) {
	return do(ctx, s.base, objectStoreName, func(ctx context.Context) ([]api.ObjectInfo, error) {
		var out []api.ObjectInfo
		paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
			Bucket: aws.String(bucket),
			Prefix: aws.String(prefix),
		})
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				return nil, err
			}
			for _, obj := range page.Contents {
				info := api.ObjectInfo{Bucket: bucket, Key: aws.ToString(obj.Key), Size: aws.ToInt64(obj.Size), ETag: aws.ToString(obj.ETag)}
				if obj.LastModified != nil {
					info.LastModified = *obj.LastModified
				}
				out = append(out, info)
			}
		}
		return out, nil
	})
}

func (s *objectStore) CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) (api.ObjectMetadata, error) {
	return do(ctx, s.base, objectStoreName, func(ctx context.Context) (api.ObjectMetadata, error) {
		out, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
			Bucket:     aws.String(dstBucket),
			Key:        aws.String(dstKey),
			CopySource: aws.String(fmt.Sprintf("%s/%s", srcBucket, srcKey)),
		})
		if err != nil {
			return api.ObjectMetadata{}, err
		}
		md := api.ObjectMetadata{LastModified: time.Now()}
		if out.CopyObjectResult != nil {
			md.ETag = aws.ToString(out.CopyObjectResult.ETag)
			if out.CopyObjectResult.LastModified != nil {
				md.LastModified = *out.CopyObjectResult.LastModified
			}
		}
		return md, nil
	})
}

func (s *objectStore) GeneratePresignedURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	return do(ctx, s.base, objectStoreName, func(ctx context.Context) (string, error) {
		presigner := s3.NewPresignClient(s.client)
		req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)}, func(o *s3.PresignOptions) {
			o.Expires = expires
		})
		if err != nil {
			return "", err
		}
		return req.URL, nil
	})
}

// objectClient adapts runtime.ObjectClient to the same S3 client, reusing
// objectStore's translation logic rather than duplicating it.
type objectClient struct {
	store *objectStore
}

var _ runtime.ObjectClient = (*objectClient)(nil)

func newObjectClient(cfg provider.Config, shared *provider.Shared) (any, error) {
	s, err := newObjectStore(cfg, shared)
	if err != nil {
		return nil, err
	}
	return &objectClient{store: s.(*objectStore)}, nil
}

func (c *objectClient) Get(ctx context.Context, bucket, key string) (api.ObjectData, error) {
	return c.store.GetObject(ctx, bucket, key)
}

func (c *objectClient) Put(ctx context.Context, bucket, key string, data []byte, contentType string) (api.ObjectMetadata, error) {
	return c.store.PutObject(ctx, bucket, key, data, contentType, nil)
}

func (c *objectClient) Delete(ctx context.Context, bucket, key string) error {
	return c.store.DeleteObject(ctx, bucket, key)
}

func (c *objectClient) List(ctx context.Context, bucket, prefix string) ([]api.ObjectInfo, error) {
	return c.store.ListObjects(ctx, bucket, prefix)
}
